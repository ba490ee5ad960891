package util

import (
	"math"
	"testing"
)

func TestParseNumber(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  float64
	}{
		{name: "decimal dot", input: "0.95", want: 0.95},
		{name: "decimal comma", input: "0,95", want: 0.95},
		{name: "percent", input: "87%", want: 0.87},
		{name: "thousand with space", input: "1 000", want: 1000},
		{name: "thousand dot", input: "1.000", want: 1000},
		{name: "padded", input: "  12 ", want: 12},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := ParseNumber(tc.input)
			if !ok {
				t.Fatalf("not parsed")
			}
			if math.Abs(got-tc.want) > 1e-12 {
				t.Fatalf("got %v want %v", got, tc.want)
			}
		})
	}
}

func TestParseNumberRejects(t *testing.T) {
	for _, input := range []string{"", "abc", "NaN", "%"} {
		if _, ok := ParseNumber(input); ok {
			t.Fatalf("expected %q to be rejected", input)
		}
	}
}

func TestClampAndMean(t *testing.T) {
	if Clamp(1.2, 0.3, 0.8) != 0.8 || Clamp(0.1, 0.3, 0.8) != 0.3 || Clamp(0.5, 0.3, 0.8) != 0.5 {
		t.Fatal("clamp out of bounds")
	}
	if Clamp(math.NaN(), 0, 1) != 0 || Clamp(math.Inf(1), 0, 1) != 1 || Clamp(math.Inf(-1), 0, 1) != 0 {
		t.Fatalf("non-finite values must clamp into range")
	}
	if Mean(nil) != 0 {
		t.Fatal("mean of empty should be 0")
	}
	if math.Abs(Mean([]float64{0.9, 0.9, 0.3})-0.7) > 1e-12 {
		t.Fatal("mean mismatch")
	}
}

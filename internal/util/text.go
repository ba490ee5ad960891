package util

import (
	"strings"
	"unicode"
)

// NormalizeLabel lower-cases the label and drops every rune that is not a
// letter or digit. It is the equality key for all label comparisons.
func NormalizeLabel(input string) string {
	out := strings.Builder{}
	out.Grow(len(input))
	for _, r := range strings.ToLower(input) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			out.WriteRune(r)
		}
	}
	return out.String()
}

func IntPtr(v int) *int { return &v }

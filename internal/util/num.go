package util

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	reThousandsDot   = regexp.MustCompile(`^\d{1,3}(?:\.\d{3})+$`)
	reThousandsComma = regexp.MustCompile(`^\d{1,3}(?:,\d{3})+$`)
)

// ParseNumber reads numbers the way analysis exports write them: "0.95",
// "0,95", "1 000", "95%". A percent sign divides by 100.
func ParseNumber(input string) (float64, bool) {
	s := strings.TrimSpace(strings.ReplaceAll(input, "\u00A0", " "))
	if s == "" {
		return 0, false
	}
	percent := strings.HasSuffix(s, "%")
	s = strings.TrimSpace(strings.TrimSuffix(s, "%"))
	s = normalizeNumericToken(s)

	parsed, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(parsed) || math.IsInf(parsed, 0) {
		return 0, false
	}
	if percent {
		parsed /= 100
	}
	return parsed, true
}

func normalizeNumericToken(token string) string {
	compact := strings.ReplaceAll(token, " ", "")
	if reThousandsDot.MatchString(compact) {
		return strings.ReplaceAll(compact, ".", "")
	}
	if reThousandsComma.MatchString(compact) {
		return strings.ReplaceAll(compact, ",", "")
	}
	if strings.Contains(compact, ",") && !strings.Contains(compact, ".") {
		return strings.ReplaceAll(compact, ",", ".")
	}
	return compact
}

// Clamp bounds v to [min, max]. NaN maps to min.
func Clamp(v, min, max float64) float64 {
	if math.IsNaN(v) || v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// Mean returns 0 for an empty slice.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

package utils

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	digitsRegexp  = regexp.MustCompile(`\d+`)
	decimalRegexp = regexp.MustCompile(`\d+(?:\.\d+)?`)
)

// IntFromText concatenates every digit run in the string and parses the
// result; "3,480万円" → 3480. Returns 0 when the string holds no digits.
func IntFromText(s string) int {
	parts := digitsRegexp.FindAllString(s, -1)
	if len(parts) == 0 {
		return 0
	}
	n, err := strconv.Atoi(strings.Join(parts, ""))
	if err != nil {
		return 0
	}
	return n
}

// IntPtrFromText is IntFromText with a nil result when the string holds no
// digits at all, preserving "unparsed" as distinct from zero.
func IntPtrFromText(s string) *int {
	if digitsRegexp.FindString(s) == "" {
		return nil
	}
	n := IntFromText(s)
	return &n
}

// FloatFromText concatenates the decimal runs in the string and parses the
// result; "71.52m²" → 71.52, "8,000円" → 8000. Returns 0 when no number is
// present.
func FloatFromText(s string) float64 {
	parts := decimalRegexp.FindAllString(s, -1)
	if len(parts) == 0 {
		return 0
	}
	f, err := strconv.ParseFloat(strings.Join(parts, ""), 64)
	if err != nil {
		return 0
	}
	return f
}

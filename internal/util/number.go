package util

import (
	"math"
	"strconv"
	"strings"
)

// ParseNumber parses a cell that should be stored as a number. Values whose text
// would not survive a round trip through float64 are rejected: leading zeros
// ("0123" barcodes), more than 15 significant digits, and exponent or hex forms.
func ParseNumber(input string) (float64, bool) {
	s := strings.TrimSpace(input)
	if s == "" {
		return 0, false
	}
	digits := 0
	body := strings.TrimPrefix(s, "-")
	intPart, _, _ := strings.Cut(body, ".")
	if len(intPart) > 1 && intPart[0] == '0' {
		return 0, false
	}
	for i, r := range body {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case r == '.' && i > 0 && i < len(body)-1:
		default:
			return 0, false
		}
	}
	if digits == 0 || digits > 15 || strings.Count(body, ".") > 1 {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, false
	}
	return v, true
}

package util

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var (
	rePlaceholderHeader = regexp.MustCompile(`^Unnamed(:\s*\d+)?(\.\d+)?$`)
	placeholderValues   = map[string]struct{}{"nan": {}, "NaN": {}, "None": {}, "": {}}
)

// NormalizeHeader trims a column header and folds it to NFC so that headers typed
// with decomposed accents ("Código") compare equal to their composed form.
func NormalizeHeader(input string) string {
	return strings.TrimSpace(norm.NFC.String(input))
}

func IsBlank(input string) bool {
	return strings.TrimSpace(input) == ""
}

// IsPlaceholderValue reports whether a trimmed cell stands for a missing value.
func IsPlaceholderValue(trimmed string) bool {
	_, ok := placeholderValues[trimmed]
	return ok
}

// IsPlaceholderHeader reports whether a header is empty or was generated by a parser
// for a column that had no name ("Unnamed: 3", "Unnamed: 3.1").
func IsPlaceholderHeader(header string) bool {
	h := strings.TrimSpace(header)
	return h == "" || rePlaceholderHeader.MatchString(h)
}

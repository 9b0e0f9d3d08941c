package core

// convert.go turns raw spreadsheet cells into canonical field values.
//
// Spreadsheet exports are messy in predictable ways:
//   - Excel formula prefixes (="28080")
//   - numeric columns exported as floats (24.0)
//   - postal codes with trailing notes ("28080 (Madrid)")
//   - yes/no columns written as Sí, si, TRUE or 1

import (
	"regexp"
	"strings"
)

var digitRun = regexp.MustCompile(`\d+`)

// flagTokens are the lowercased spellings that mean "yes".
var flagTokens = map[string]bool{
	"sí":   true,
	"si":   true,
	"true": true,
	"1":    true,
}

// CleanCell removes common CSV artifacts from a cell value:
// - Trims whitespace
// - Removes Excel formula prefix (="...")
// - Removes one pair of surrounding double quotes
func CleanCell(s string) string {
	s = strings.TrimSpace(s)

	if strings.HasPrefix(s, "=\"") && strings.HasSuffix(s, "\"") && len(s) >= 3 {
		s = s[2 : len(s)-1]
	} else if strings.HasPrefix(s, "=") {
		s = s[1:]
	}

	if len(s) >= 2 && strings.HasPrefix(s, `"`) && strings.HasSuffix(s, `"`) {
		s = s[1 : len(s)-1]
	}

	return strings.TrimSpace(s)
}

// isBlank reports whether s is empty after trimming. The literal "nan"
// left behind by some spreadsheet exports counts as blank.
func isBlank(s string) bool {
	s = strings.TrimSpace(s)
	return s == "" || strings.EqualFold(s, "nan")
}

// ExtractPostalCode returns the first maximal run of ASCII digits in s,
// or "" when s has none.
func ExtractPostalCode(s string) string {
	return digitRun.FindString(s)
}

// ParseFlag reports whether s is one of the accepted "yes" tokens,
// case-insensitively. Anything else, including "", is false.
func ParseFlag(s string) bool {
	return flagTokens[strings.ToLower(strings.TrimSpace(s))]
}

// FormatBool renders a boolean the way the canonical store writes it.
func FormatBool(b bool) string {
	if b {
		return "True"
	}
	return "False"
}

// CleanProductCode trims s and removes a trailing ".0" float artifact.
func CleanProductCode(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasSuffix(s, ".0") && len(s) > 2 {
		s = strings.TrimSuffix(s, ".0")
	}
	return s
}

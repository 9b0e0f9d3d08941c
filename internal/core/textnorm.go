package core

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripMarks removes combining marks after canonical decomposition,
// turning "ó" into "o" and "ñ" into "n".
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// NormalizeText returns the comparison form of s: re-encoded on a best-effort
// basis, lowercased, stripped of diacritics, with every run of characters
// outside [a-z0-9] collapsed to a single space and the ends trimmed.
//
// It never fails. Bytes that cannot be decoded are dropped.
func NormalizeText(s string) string {
	s = strings.ToValidUTF8(s, "")
	s = repairMojibake(s)
	s = strings.ToLower(s)

	if folded, _, err := transform.String(stripMarks, s); err == nil {
		s = folded
	}

	var b strings.Builder
	b.Grow(len(s))
	pendingSpace := false
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingSpace && b.Len() > 0 {
				b.WriteByte(' ')
			}
			pendingSpace = false
			b.WriteRune(r)
			continue
		}
		pendingSpace = true
	}
	return b.String()
}

// repairMojibake undoes the common double-encoding where UTF-8 bytes were
// read as ISO-8859-1 ("DirecciÃ³n" -> "Dirección"). Text that is not
// representable in ISO-8859-1, or whose bytes do not form a different valid
// UTF-8 string, is returned unchanged.
func repairMojibake(s string) string {
	if isASCII(s) {
		return s
	}
	raw, err := charmap.ISO8859_1.NewEncoder().String(s)
	if err != nil || raw == s || !utf8.ValidString(raw) {
		return s
	}
	return raw
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

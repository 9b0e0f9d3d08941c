package labels

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/JonMunkholm/etiquetas/internal/core"
)

// Eligible reports whether a record produces a label: it is marked to be
// sent and has a name, address and city.
func Eligible(r core.Record) bool {
	return r.Send && r.Sendable()
}

// FilterEligible returns the eligible records in their original order.
func FilterEligible(records []core.Record) []core.Record {
	out := make([]core.Record, 0, len(records))
	for _, r := range records {
		if Eligible(r) {
			out = append(out, r)
		}
	}
	return out
}

// AddressLines returns the display lines of an address label, top to
// bottom: name, company, address, the joined postal/city/zone/product
// line and, for international records, the country. Empty lines and the
// literal "nan" are dropped.
func AddressLines(r core.Record) []string {
	var lines []string
	add := func(s string) {
		s = strings.TrimSpace(s)
		if s != "" && !strings.EqualFold(s, "nan") {
			lines = append(lines, s)
		}
	}

	add(r.Name)
	add(r.Company)
	add(r.Address)

	var parts []string
	for _, p := range []string{r.PostalCode, r.City, r.Zone, r.ProductCode} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	add(strings.Join(parts, " "))

	if r.International {
		add(r.Country)
	}
	return lines
}

// FontSize picks the address font size in points from the longest line.
func FontSize(lines []string) float64 {
	longest := 0
	for _, l := range lines {
		if n := utf8.RuneCountInString(l); n > longest {
			longest = n
		}
	}
	switch {
	case longest <= 35:
		return 10
	case longest <= 42:
		return 9
	default:
		return 8
	}
}

// TrackingCode builds the OR tracking code for a shipment id and postal
// code: "OR6BNA93", the id in 9 digits, the postal code in 5 digits, "X".
// Short values are zero-padded; long values keep their rightmost digits.
func TrackingCode(id int, postalCode string) string {
	return "OR6BNA93" + fixedDigits(strconv.Itoa(id), 9) + fixedDigits(core.ExtractPostalCode(postalCode), 5) + "X"
}

func fixedDigits(s string, width int) string {
	if len(s) > width {
		return s[len(s)-width:]
	}
	return strings.Repeat("0", width-len(s)) + s
}

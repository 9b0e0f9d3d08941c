package core

import (
	"log/slog"
	"strings"

	"github.com/agnivade/levenshtein"
)

// Column pairs a real source column with its normalized comparison form.
type Column struct {
	Name       string
	Normalized string
}

// ColumnIndex is the normalized view of a table header, in source order.
type ColumnIndex []Column

// NewColumnIndex normalizes every column name once.
func NewColumnIndex(columns []string) ColumnIndex {
	idx := make(ColumnIndex, len(columns))
	for i, c := range columns {
		idx[i] = Column{Name: c, Normalized: NormalizeText(c)}
	}
	return idx
}

// ResolveColumn returns the first column whose normalized name contains a
// normalized alias. Aliases are tried in order, so earlier aliases take
// precedence; for a single alias the first matching column in source order
// wins. It reports false when nothing matches.
func ResolveColumn(aliases []string, cols ColumnIndex) (string, bool) {
	for _, alias := range aliases {
		want := NormalizeText(alias)
		if want == "" {
			continue
		}
		for _, c := range cols {
			if strings.Contains(c.Normalized, want) {
				slog.Debug("column resolved", "alias", alias, "column", c.Name)
				return c.Name, true
			}
		}
	}
	return "", false
}

// ExactColumn returns the first column whose normalized name equals the
// normalized alias.
func ExactColumn(alias string, cols ColumnIndex) (string, bool) {
	want := NormalizeText(alias)
	if want == "" {
		return "", false
	}
	for _, c := range cols {
		if c.Normalized == want {
			return c.Name, true
		}
	}
	return "", false
}

// ClosestColumn returns the column whose normalized name is nearest, by edit
// distance, to any of the aliases. Columns further than a third of the
// alias length (minimum 2) are not considered. It reports false when no
// column is close enough.
func ClosestColumn(aliases []string, cols ColumnIndex) (string, bool) {
	best, bestDist := "", -1
	for _, alias := range aliases {
		want := NormalizeText(alias)
		if want == "" {
			continue
		}
		limit := max(2, len(want)/3)
		for _, c := range cols {
			if c.Normalized == "" {
				continue
			}
			d := levenshtein.ComputeDistance(want, c.Normalized)
			if d <= limit && (bestDist < 0 || d < bestDist) {
				best, bestDist = c.Name, d
			}
		}
	}
	return best, bestDist >= 0
}

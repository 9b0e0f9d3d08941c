package core

import (
	"cmp"
	"log/slog"
	"slices"
	"strings"
)

// FieldAlias binds a canonical field to its ordered aliases.
type FieldAlias struct {
	Field    string
	Aliases  []string
	Required bool
}

// Alias lists for the name field, which can come from one column or two.
// The canonical "name" header is matched exactly, not as a substring, so
// headers such as "First Name" or "Company Name" are not taken for it.
var (
	FullNameAliases  = []string{"nombre y apellidos", "nombre completo", "full name"}
	FirstNameAliases = []string{"nombre", "first name"}
	LastNameAliases  = []string{"apellidos", "last name", "surname"}
)

// FieldAliases lists every single-column field in resolution order. The
// canonical field name is the last alias of each list, so a table written
// by RecordStore resolves back onto itself.
var FieldAliases = []FieldAlias{
	{Field: FieldCompany, Aliases: []string{"empresa", "compañía", "negocio", "company"}},
	{Field: FieldAddress, Aliases: []string{"Dirección", "direccion", "direccion de envio", "calle", "domicilio", "address"}, Required: true},
	{Field: FieldPostalCode, Aliases: []string{"cp", "codigo postal", "postal code", "postal"}, Required: true},
	{Field: FieldCity, Aliases: []string{"ciudad", "poblacion", "localidad", "city"}, Required: true},
	{Field: FieldZone, Aliases: []string{"zona", "sector", "area", "z", "zone"}, Required: true},
	{Field: FieldProductCode, Aliases: []string{"Envío", "producto", "env", "product"}, Required: true},
	{Field: FieldCountry, Aliases: []string{"pais", "country"}},
	{Field: FieldInternational, Aliases: []string{"internacional", "extranjero", "es extranjero", "int", "international"}},
	{Field: FieldSend, Aliases: []string{"enviar", "send"}},
}

// NormalizeTable converts a raw table into canonical records, one per row,
// in row order. A required field without a resolvable column aborts the
// whole table with a *MissingFieldError.
func NormalizeTable(t Table) ([]Record, error) {
	idx := NewColumnIndex(t.Columns)

	pos := make(map[string]int, len(FieldAliases))
	for _, fa := range FieldAliases {
		col, ok := ResolveColumn(fa.Aliases, idx)
		if !ok {
			if fa.Required {
				return nil, missingField(fa.Field, fa.Aliases, idx)
			}
			pos[fa.Field] = -1
			continue
		}
		pos[fa.Field] = t.ColumnPos(col)
	}

	name, err := resolveName(t, idx)
	if err != nil {
		return nil, err
	}

	records := make([]Record, 0, len(t.Rows))
	for i := range t.Rows {
		cell := func(field string) string { return t.Cell(i, pos[field]) }

		rec := Record{
			Send:          true,
			Name:          name(i),
			Company:       cell(FieldCompany),
			Address:       cell(FieldAddress),
			PostalCode:    ExtractPostalCode(cell(FieldPostalCode)),
			City:          cell(FieldCity),
			Zone:          cell(FieldZone),
			ProductCode:   CleanProductCode(cell(FieldProductCode)),
			Country:       cell(FieldCountry),
			International: ParseFlag(cell(FieldInternational)),
		}
		if v := cell(FieldSend); v != "" {
			rec.Send = ParseFlag(v)
		}
		records = append(records, rec)
	}

	return records, nil
}

// resolveName returns a per-row name accessor: the full-name column when
// present, otherwise first and last name joined by a single space.
func resolveName(t Table, idx ColumnIndex) (func(i int) string, error) {
	col, ok := ResolveColumn(FullNameAliases, idx)
	if !ok {
		col, ok = ExactColumn(FieldName, idx)
	}
	if ok {
		p := t.ColumnPos(col)
		return func(i int) string { return t.Cell(i, p) }, nil
	}

	first, okFirst := ResolveColumn(FirstNameAliases, idx)
	last, okLast := ResolveColumn(LastNameAliases, idx)
	switch {
	case !okFirst && !okLast:
		return nil, missingField(FieldName, slices.Concat(FullNameAliases, FirstNameAliases, LastNameAliases, []string{FieldName}), idx)
	case !okFirst:
		return nil, missingField(FieldName, FirstNameAliases, idx)
	case !okLast:
		return nil, missingField(FieldName, LastNameAliases, idx)
	}
	pf, pl := t.ColumnPos(first), t.ColumnPos(last)
	return func(i int) string {
		return strings.TrimSpace(t.Cell(i, pf) + " " + t.Cell(i, pl))
	}, nil
}

// SortRecords orders records by product code, then zone, ascending. Empty
// keys sort last. The sort is stable.
func SortRecords(records []Record) {
	slices.SortStableFunc(records, func(a, b Record) int {
		if c := compareKey(a.ProductCode, b.ProductCode); c != 0 {
			return c
		}
		return compareKey(a.Zone, b.Zone)
	})
}

func compareKey(a, b string) int {
	switch {
	case a == b:
		return 0
	case a == "":
		return 1
	case b == "":
		return -1
	}
	return cmp.Compare(a, b)
}

// PrepareImport normalizes an imported table, drops the rows that cannot
// produce a label and sorts the rest. It returns the kept records and the
// number of rows dropped.
func PrepareImport(t Table) ([]Record, int, error) {
	records, err := NormalizeTable(t)
	if err != nil {
		return nil, 0, err
	}
	kept, skipped := PrepareRecords(records)
	return kept, skipped, nil
}

// PrepareRecords drops the records that cannot produce a label and sorts
// the rest in place. It returns the kept records and the number dropped.
func PrepareRecords(records []Record) ([]Record, int) {
	kept := records[:0]
	for _, r := range records {
		if r.Sendable() {
			kept = append(kept, r)
		}
	}
	skipped := len(records) - len(kept)
	if skipped > 0 {
		slog.Info("dropped rows without name, address or city", "skipped", skipped)
	}

	SortRecords(kept)
	return kept, skipped
}

// Normalized returns r with every text field trimmed, the postal code
// reduced to its first digit run and the product code cleaned. Edited rows
// go through it before they are stored.
func (r Record) Normalized() Record {
	r.Name = strings.TrimSpace(r.Name)
	r.Company = strings.TrimSpace(r.Company)
	r.Address = strings.TrimSpace(r.Address)
	r.PostalCode = ExtractPostalCode(r.PostalCode)
	r.City = strings.TrimSpace(r.City)
	r.Zone = strings.TrimSpace(r.Zone)
	r.ProductCode = CleanProductCode(r.ProductCode)
	r.Country = strings.TrimSpace(r.Country)
	return r
}

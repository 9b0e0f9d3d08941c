package core

// Canonical field names, in storage order.
const (
	FieldSend          = "send"
	FieldName          = "name"
	FieldCompany       = "company"
	FieldAddress       = "address"
	FieldPostalCode    = "postal_code"
	FieldCity          = "city"
	FieldZone          = "zone"
	FieldProductCode   = "product_code"
	FieldCountry       = "country"
	FieldInternational = "international"
)

// CanonicalHeader is the header row of the canonical store.
var CanonicalHeader = []string{
	FieldSend,
	FieldName,
	FieldCompany,
	FieldAddress,
	FieldPostalCode,
	FieldCity,
	FieldZone,
	FieldProductCode,
	FieldCountry,
	FieldInternational,
}

// Record is one shipment in canonical form.
// Records have no identity beyond their position in an ordered collection.
type Record struct {
	Send          bool   `json:"send"`
	Name          string `json:"name"`
	Company       string `json:"company"`
	Address       string `json:"address"`
	PostalCode    string `json:"postal_code"`
	City          string `json:"city"`
	Zone          string `json:"zone"`
	ProductCode   string `json:"product_code"`
	Country       string `json:"country"`
	International bool   `json:"international"`
}

// Sendable reports whether the record has the fields a label needs.
func (r Record) Sendable() bool {
	return !isBlank(r.Name) && !isBlank(r.Address) && !isBlank(r.City)
}

// Table is raw tabular input: ordered column names and ordered rows.
// Rows may be shorter or longer than Columns.
type Table struct {
	Columns []string
	Rows    [][]string
}

// Cell returns the trimmed value at row i for column position pos,
// or "" when the row has no such cell.
func (t Table) Cell(i, pos int) string {
	if pos < 0 || i < 0 || i >= len(t.Rows) || pos >= len(t.Rows[i]) {
		return ""
	}
	return CleanCell(t.Rows[i][pos])
}

// ColumnPos returns the position of the named column, or -1.
func (t Table) ColumnPos(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

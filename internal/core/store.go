package core

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"sync"
)

// RecordStore persists the ordered record collection as one CSV file.
// Its modification time is the freshness token for rendered output.
type RecordStore struct {
	path string
	mu   sync.RWMutex
}

// NewRecordStore returns a store backed by the CSV file at path.
// The file need not exist yet.
func NewRecordStore(path string) *RecordStore {
	return &RecordStore{path: path}
}

// Path returns the backing file path.
func (s *RecordStore) Path() string {
	return s.path
}

// Load reads all records in file order. A missing file yields no records.
func (s *RecordStore) Load() ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	f, err := os.Open(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return []Record{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open record store: %w", err)
	}
	defer f.Close()

	t, err := ReadTable(f, 0)
	if errors.Is(err, ErrEmptyFile) {
		return []Record{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", s.path, err)
	}

	pos := make(map[string]int, len(CanonicalHeader))
	for _, name := range CanonicalHeader {
		pos[name] = t.ColumnPos(name)
	}

	records := make([]Record, 0, len(t.Rows))
	for i := range t.Rows {
		cell := func(field string) string { return t.Cell(i, pos[field]) }
		rec := Record{
			Send:          true,
			Name:          cell(FieldName),
			Company:       cell(FieldCompany),
			Address:       cell(FieldAddress),
			PostalCode:    cell(FieldPostalCode),
			City:          cell(FieldCity),
			Zone:          cell(FieldZone),
			ProductCode:   cell(FieldProductCode),
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

// Save replaces the stored collection. The new content is written to a
// temporary file in the same directory and renamed into place, so a failed
// save leaves the previous file untouched.
func (s *RecordStore) Save(records []Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create store dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".records-*.csv")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after a successful rename

	w := csv.NewWriter(tmp)
	if err := w.Write(CanonicalHeader); err != nil {
		tmp.Close()
		return fmt.Errorf("write header: %w", err)
	}
	for _, r := range records {
		if err := w.Write(recordRow(r)); err != nil {
			tmp.Close()
			return fmt.Errorf("write record: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		tmp.Close()
		return fmt.Errorf("flush records: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("replace record store: %w", err)
	}
	return nil
}

// Freshness returns a token that changes whenever the file is rewritten:
// its modification time in nanoseconds and size, or "0" when the file is
// missing.
func (s *RecordStore) Freshness() string {
	info, err := os.Stat(s.path)
	if err != nil {
		return "0"
	}
	return strconv.FormatInt(info.ModTime().UnixNano(), 10) + "-" + strconv.FormatInt(info.Size(), 10)
}

func recordRow(r Record) []string {
	return []string{
		FormatBool(r.Send),
		r.Name,
		r.Company,
		r.Address,
		r.PostalCode,
		r.City,
		r.Zone,
		r.ProductCode,
		r.Country,
		FormatBool(r.International),
	}
}

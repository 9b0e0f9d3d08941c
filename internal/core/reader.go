package core

// reader.go reads uploaded or downloaded CSV exports into a Table.
//
// Spreadsheet exports arrive in whatever encoding the user's tool chose:
//   - UTF-8 with a BOM (Excel on Windows)
//   - plain UTF-8 (Google Sheets)
//   - Windows-1252 (older Excel, LibreOffice defaults)
//
// Bytes that are not valid UTF-8 are decoded as Windows-1252, one byte at a
// time, so a mostly-UTF-8 file with a stray Latin-1 byte keeps both.

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/dustin/go-humanize"
	"golang.org/x/text/encoding/charmap"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ReadTable reads at most maxBytes from r and parses it as CSV with a header
// row. Fully empty rows are dropped. maxBytes <= 0 means no limit.
func ReadTable(r io.Reader, maxBytes int64) (Table, error) {
	if maxBytes > 0 {
		r = io.LimitReader(r, maxBytes+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return Table{}, fmt.Errorf("read csv: %w", err)
	}
	if maxBytes > 0 && int64(len(data)) > maxBytes {
		return Table{}, fmt.Errorf("%w: limit is %s", ErrFileTooLarge, humanize.IBytes(uint64(maxBytes)))
	}

	data = bytes.TrimPrefix(data, utf8BOM)
	data = decodeLegacyBytes(data)
	if len(bytes.TrimSpace(data)) == 0 {
		return Table{}, ErrEmptyFile
	}

	rows, err := parseCSV(data)
	if err != nil {
		return Table{}, fmt.Errorf("%w: %v", ErrInvalidCSV, err)
	}

	var t Table
	for _, row := range rows {
		if isEmptyRow(row) {
			continue
		}
		if t.Columns == nil {
			t.Columns = make([]string, len(row))
			for i, c := range row {
				t.Columns[i] = CleanCell(c)
			}
			continue
		}
		t.Rows = append(t.Rows, row)
	}
	if t.Columns == nil {
		return Table{}, ErrEmptyFile
	}
	return t, nil
}

// decodeLegacyBytes replaces every byte that does not start a valid UTF-8
// sequence with its Windows-1252 rune.
func decodeLegacyBytes(data []byte) []byte {
	if utf8.Valid(data) {
		return data
	}

	var buf bytes.Buffer
	buf.Grow(len(data) + len(data)/8)

	for len(data) > 0 {
		r, size := utf8.DecodeRune(data)
		if r == utf8.RuneError && size == 1 {
			buf.WriteRune(charmap.Windows1252.DecodeByte(data[0]))
			data = data[1:]
			continue
		}
		buf.Write(data[:size])
		data = data[size:]
	}

	return buf.Bytes()
}

func parseCSV(data []byte) ([][]string, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	return r.ReadAll()
}

func isEmptyRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

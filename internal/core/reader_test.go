package core

import (
	"errors"
	"strings"
	"testing"
)

func TestReadTable(t *testing.T) {
	input := "\xEF\xBB\xBFNombre,Ciudad\n\nAna,Madrid\n,\nBea,\"Sevilla, centro\",extra\n"

	table, err := ReadTable(strings.NewReader(input), 0)
	if err != nil {
		t.Fatalf("ReadTable() error = %v", err)
	}

	if got := strings.Join(table.Columns, "|"); got != "Nombre|Ciudad" {
		t.Errorf("Columns = %q, want BOM-free header", got)
	}
	if len(table.Rows) != 2 {
		t.Fatalf("len(Rows) = %d, want 2", len(table.Rows))
	}
	if got := table.Cell(1, 1); got != "Sevilla, centro" {
		t.Errorf("Cell(1,1) = %q, want %q", got, "Sevilla, centro")
	}
	if got := table.Cell(0, 5); got != "" {
		t.Errorf("Cell out of range = %q, want empty", got)
	}
}

func TestReadTable_Windows1252(t *testing.T) {
	// "Dirección" with ó as the single byte 0xF3.
	input := "Direcci\xF3n,Ciudad\nC/ Espa\xF1a 1,M\xE1laga\n"

	table, err := ReadTable(strings.NewReader(input), 0)
	if err != nil {
		t.Fatalf("ReadTable() error = %v", err)
	}
	if table.Columns[0] != "Dirección" {
		t.Errorf("Columns[0] = %q, want %q", table.Columns[0], "Dirección")
	}
	if got := table.Cell(0, 1); got != "Málaga" {
		t.Errorf("Cell(0,1) = %q, want %q", got, "Málaga")
	}
}

func TestReadTable_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		limit   int64
		wantErr error
	}{
		{"empty", "", 0, ErrEmptyFile},
		{"whitespace only", " \n\n ", 0, ErrEmptyFile},
		{"blank rows only", ",,\n,,\n", 0, ErrEmptyFile},
		{"too large", "a,b\n1,2\n", 4, ErrFileTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadTable(strings.NewReader(tt.input), tt.limit)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ReadTable() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestReadTable_TooLargeNamesLimit(t *testing.T) {
	_, err := ReadTable(strings.NewReader(strings.Repeat("x", 3000)), 2048)
	if err == nil || !strings.Contains(err.Error(), "limit is 2.0 KiB") {
		t.Errorf("ReadTable() error = %v, want limit in message", err)
	}
}

package productcode

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMapping_PreservesOrder(t *testing.T) {
	m, err := ParseMapping([]byte(`{"zeta":"Z","alfa":["A","B"],"medio":"M"}`))
	require.NoError(t, err)

	entries := m.Entries()
	require.Len(t, entries, 3)
	assert.Equal(t, "zeta", entries[0].ID)
	assert.Equal(t, Single("Z"), entries[0].Codes)
	assert.Equal(t, Combo{"A", "B"}, entries[1].Codes)
	assert.Equal(t, "medio", entries[2].ID)

	out, err := m.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `{"zeta":"Z","alfa":["A","B"],"medio":"M"}`, string(out))
}

func TestParseMapping_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"not json", `{"a":`},
		{"array document", `["a"]`},
		{"number value", `{"a": 3}`},
		{"empty combo", `{"a": []}`},
		{"empty code", `{"a": " "}`},
		{"duplicate id", `{"a":"A","a":"B"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseMapping([]byte(tt.input))
			assert.True(t, errors.Is(err, ErrInvalidMapping), "error = %v", err)
		})
	}
}

func TestMappingFromForm(t *testing.T) {
	m, err := MappingFromForm(
		[]string{"revista-25", "", "taza"},
		[]string{"25", "ignored", "TZ"},
		[]string{"pack-25-taza", ""},
		[]string{"25, TZ ,", ""},
	)
	require.NoError(t, err)

	codes, ok := m.Lookup("pack-25-taza")
	require.True(t, ok)
	assert.Equal(t, []string{"25", "TZ"}, codes.List())
	assert.Equal(t, 3, m.Len())

	_, err = MappingFromForm(nil, nil, []string{"vacio"}, []string{" , "})
	assert.ErrorIs(t, err, ErrInvalidMapping)
}

func TestStore_LoadSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "product_mapping.json")
	store := NewStore(path)

	m, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultMapping().Entries(), m.Entries(), "missing file falls back to the default mapping")

	custom, err := NewMapping(Entry{ID: "b", Codes: Single("B")}, Entry{ID: "a", Codes: Combo{"A1", "A2"}})
	require.NoError(t, err)
	require.NoError(t, store.Save(custom))

	got, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, custom.Entries(), got.Entries())

	require.NoError(t, os.WriteFile(path, []byte(`{"a": []}`), 0o644))
	_, err = store.Load()
	assert.ErrorIs(t, err, ErrInvalidMapping)
}

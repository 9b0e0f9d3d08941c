// Package productcode turns free-text order line items into the short
// product codes printed on labels ("23+24+CS", "324").
package productcode

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidMapping is wrapped by every mapping validation failure.
var ErrInvalidMapping = errors.New("invalid mapping")

// Codes is what a product identifier maps to: a Single code or a Combo.
type Codes interface {
	// List returns the codes in configuration order.
	List() []string
	isCodes()
}

// Single is one short code, e.g. "24".
type Single string

// Combo is a bundle; every code in it is counted once per unit.
type Combo []string

func (s Single) List() []string { return []string{string(s)} }

func (Single) isCodes() {}

func (c Combo) List() []string { return append([]string(nil), c...) }

func (Combo) isCodes() {}

// Entry binds a product identifier to its codes.
type Entry struct {
	ID    string
	Codes Codes
}

// Mapping is an ordered set of product entries. Order matters: when two
// identifiers share a word fragment, the earlier one owns it.
type Mapping struct {
	entries []Entry
}

// NewMapping validates entries and returns them as a Mapping.
// Identifiers must be unique and non-empty, single codes non-empty, and
// combos must hold at least one non-empty code.
func NewMapping(entries ...Entry) (Mapping, error) {
	seen := make(map[string]bool, len(entries))
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		id := strings.TrimSpace(e.ID)
		if id == "" {
			return Mapping{}, fmt.Errorf("%w: empty product id", ErrInvalidMapping)
		}
		if seen[id] {
			return Mapping{}, fmt.Errorf("%w: duplicate product id %q", ErrInvalidMapping, id)
		}
		seen[id] = true

		codes, err := cleanCodes(id, e.Codes)
		if err != nil {
			return Mapping{}, err
		}
		out = append(out, Entry{ID: id, Codes: codes})
	}
	return Mapping{entries: out}, nil
}

func cleanCodes(id string, c Codes) (Codes, error) {
	switch v := c.(type) {
	case Single:
		s := strings.TrimSpace(string(v))
		if s == "" {
			return nil, fmt.Errorf("%w: product %q has an empty code", ErrInvalidMapping, id)
		}
		return Single(s), nil
	case Combo:
		if len(v) == 0 {
			return nil, fmt.Errorf("%w: combo %q has no codes", ErrInvalidMapping, id)
		}
		out := make(Combo, len(v))
		for i, s := range v {
			s = strings.TrimSpace(s)
			if s == "" {
				return nil, fmt.Errorf("%w: combo %q has an empty code", ErrInvalidMapping, id)
			}
			out[i] = s
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: product %q has no codes", ErrInvalidMapping, id)
	}
}

// DefaultMapping is used when no mapping has been configured.
func DefaultMapping() Mapping {
	return Mapping{entries: []Entry{
		{ID: "revista-salvaje-24", Codes: Single("24")},
		{ID: "revista-salvaje-23", Codes: Single("23")},
		{ID: "revista-salvaje-22", Codes: Single("22")},
		{ID: "pack-revistas-23-24", Codes: Combo{"23", "24"}},
		{ID: "camiseta-salvaje", Codes: Single("CS")},
		{ID: "poster-edicion-limitada", Codes: Single("PEL")},
		{ID: "pack-completo", Codes: Combo{"23", "24", "CS"}},
	}}
}

// Entries returns a copy of the entries in configuration order.
func (m Mapping) Entries() []Entry {
	return append([]Entry(nil), m.entries...)
}

// Len returns the number of entries.
func (m Mapping) Len() int {
	return len(m.entries)
}

// Lookup returns the codes for a product identifier.
func (m Mapping) Lookup(id string) (Codes, bool) {
	for _, e := range m.entries {
		if e.ID == id {
			return e.Codes, true
		}
	}
	return nil, false
}

// MarshalJSON writes the mapping as a JSON object in configuration order.
// Single codes are strings, combos are arrays.
func (m Mapping) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range m.entries {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(e.ID)
		if err != nil {
			return nil, err
		}
		var val []byte
		switch c := e.Codes.(type) {
		case Single:
			val, err = json.Marshal(string(c))
		case Combo:
			val, err = json.Marshal([]string(c))
		}
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads a JSON object, keeping its key order.
func (m *Mapping) UnmarshalJSON(data []byte) error {
	parsed, err := ParseMapping(data)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// ParseMapping decodes a JSON object whose values are a string (single
// code) or an array of strings (combo). Key order is preserved.
func ParseMapping(data []byte) (Mapping, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return Mapping{}, fmt.Errorf("%w: %v", ErrInvalidMapping, err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return Mapping{}, fmt.Errorf("%w: expected a JSON object", ErrInvalidMapping)
	}

	var entries []Entry
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return Mapping{}, fmt.Errorf("%w: %v", ErrInvalidMapping, err)
		}
		id, _ := tok.(string)

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return Mapping{}, fmt.Errorf("%w: product %q: %v", ErrInvalidMapping, id, err)
		}

		codes, err := decodeCodes(raw)
		if err != nil {
			return Mapping{}, fmt.Errorf("%w: product %q: %v", ErrInvalidMapping, id, err)
		}
		entries = append(entries, Entry{ID: id, Codes: codes})
	}
	if _, err := dec.Token(); err != nil {
		return Mapping{}, fmt.Errorf("%w: %v", ErrInvalidMapping, err)
	}

	return NewMapping(entries...)
}

func decodeCodes(raw json.RawMessage) (Codes, error) {
	var single string
	if err := json.Unmarshal(raw, &single); err == nil {
		return Single(single), nil
	}
	var combo []string
	if err := json.Unmarshal(raw, &combo); err != nil {
		return nil, errors.New("value must be a string or a list of strings")
	}
	return Combo(combo), nil
}

// MappingFromForm builds a mapping from the administration form: parallel
// lists of product ids and codes, then parallel lists of combo ids and
// comma-separated combo contents. Rows with a blank id are ignored.
func MappingFromForm(productIDs, codes, comboIDs, comboContents []string) (Mapping, error) {
	var entries []Entry
	for i, id := range productIDs {
		if strings.TrimSpace(id) == "" {
			continue
		}
		entries = append(entries, Entry{ID: id, Codes: Single(at(codes, i))})
	}
	for i, id := range comboIDs {
		if strings.TrimSpace(id) == "" {
			continue
		}
		var combo Combo
		for _, part := range strings.Split(at(comboContents, i), ",") {
			if part = strings.TrimSpace(part); part != "" {
				combo = append(combo, part)
			}
		}
		entries = append(entries, Entry{ID: id, Codes: combo})
	}
	return NewMapping(entries...)
}

func at(s []string, i int) string {
	if i < len(s) {
		return s[i]
	}
	return ""
}

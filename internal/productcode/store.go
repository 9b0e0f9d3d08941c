package productcode

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// Store persists a Mapping as a JSON document.
type Store struct {
	path string
	mu   sync.RWMutex
}

// NewStore returns a store backed by the JSON file at path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Load reads the mapping. A missing file yields DefaultMapping.
func (s *Store) Load() (Mapping, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return DefaultMapping(), nil
	}
	if err != nil {
		return Mapping{}, fmt.Errorf("read product mapping: %w", err)
	}

	m, err := ParseMapping(data)
	if err != nil {
		return Mapping{}, fmt.Errorf("load %s: %w", s.path, err)
	}
	return m, nil
}

// Save writes the mapping, replacing the file atomically.
func (s *Store) Save(m Mapping) error {
	data, err := m.MarshalJSON()
	if err != nil {
		return fmt.Errorf("encode product mapping: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create mapping dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".mapping-*.json")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write product mapping: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	return os.Rename(tmp.Name(), s.path)
}

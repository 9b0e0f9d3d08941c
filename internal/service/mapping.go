package service

import (
	"context"
	"fmt"

	"github.com/JonMunkholm/etiquetas/internal/productcode"
)

func (s *Service) currentEncoder() *productcode.Encoder {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.encoder
}

// Mapping returns the product mapping in use.
func (s *Service) Mapping() productcode.Mapping {
	return s.currentEncoder().Mapping()
}

// UpdateMapping persists m and switches encoding over to it. Stored
// records keep the codes they were imported with.
func (s *Service) UpdateMapping(ctx context.Context, m productcode.Mapping) error {
	if m.Len() == 0 {
		return fmt.Errorf("update mapping: %w: no entries", productcode.ErrInvalidMapping)
	}
	if err := s.mappings.Save(m); err != nil {
		return fmt.Errorf("update mapping: %w", err)
	}

	enc := productcode.NewEncoder(m)
	s.mu.Lock()
	s.encoder = enc
	s.mu.Unlock()
	s.generation.Add(1)
	return nil
}

// EncodeItems returns the product code for a list of line items.
func (s *Service) EncodeItems(items []productcode.Item) productcode.Result {
	return s.currentEncoder().EncodeDetailed(items)
}

package service

import (
	"context"
	"strconv"
	"time"

	"github.com/JonMunkholm/etiquetas/internal/core"
	"github.com/JonMunkholm/etiquetas/internal/labels"
	"github.com/JonMunkholm/etiquetas/internal/rendercache"
)

// AddressLabels returns the address label sheet for the stored records.
// Identical requests against unchanged records are served from the cache.
func (s *Service) AddressLabels(ctx context.Context, opts labels.Options) ([]byte, error) {
	return s.render(ctx, KindAddress, optionParams(opts), func(records []core.Record) ([]byte, error) {
		return s.engine.RenderAddress(records, opts)
	})
}

// ORLabels returns the barcode label sheet for the stored records.
func (s *Service) ORLabels(ctx context.Context, opts labels.Options) ([]byte, error) {
	return s.render(ctx, KindOR, optionParams(opts), func(records []core.Record) ([]byte, error) {
		return s.engine.RenderOR(records, opts)
	})
}

func optionParams(opts labels.Options) rendercache.Params {
	return rendercache.Params{
		"offset_x": strconv.FormatFloat(opts.OffsetX, 'f', -1, 64),
		"offset_y": strconv.FormatFloat(opts.OffsetY, 'f', -1, 64),
		"guides":   strconv.FormatBool(opts.Guides),
	}
}

func (s *Service) render(ctx context.Context, kind string, params rendercache.Params, draw func([]core.Record) ([]byte, error)) ([]byte, error) {
	hit := true
	pdf, err := s.cache.GetOrRender(kind, params, func() ([]byte, error) {
		hit = false

		if err := s.limiter.Acquire(ctx); err != nil {
			return nil, err
		}
		defer s.limiter.Release()

		records, err := s.records.Load()
		if err != nil {
			return nil, err
		}

		start := time.Now()
		out, err := draw(records)
		s.metrics.ObserveRender(kind, time.Since(start), err)
		return out, err
	})
	s.metrics.ObserveCache(kind, hit)
	return pdf, err
}

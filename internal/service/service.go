// Package service ties the record store, the product code encoder, the
// label engine and the render cache together behind the operations the
// web layer exposes.
package service

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/JonMunkholm/etiquetas/internal/core"
	"github.com/JonMunkholm/etiquetas/internal/history"
	"github.com/JonMunkholm/etiquetas/internal/labels"
	"github.com/JonMunkholm/etiquetas/internal/metrics"
	"github.com/JonMunkholm/etiquetas/internal/productcode"
	"github.com/JonMunkholm/etiquetas/internal/rendercache"
	"github.com/JonMunkholm/etiquetas/internal/sources"
)

// Render kinds, used as cache key prefixes and metric labels.
const (
	KindAddress = "address"
	KindOR      = "or"
)

// Deps are the collaborators a Service is built from. Records and
// Mappings are required; the rest fall back to defaults.
type Deps struct {
	Records  *core.RecordStore
	Mappings *productcode.Store
	Engine   *labels.Engine
	Fetcher  *sources.SheetFetcher
	History  history.Log
	Limiter  *core.Limiter
	Metrics  *metrics.Metrics

	CacheTTL    time.Duration
	MaxFileSize int64
}

// Service provides the label workflow: importing records, editing them,
// maintaining the product mapping and rendering label sheets.
type Service struct {
	records     *core.RecordStore
	mappings    *productcode.Store
	engine      *labels.Engine
	fetcher     *sources.SheetFetcher
	history     history.Log
	limiter     *core.Limiter
	metrics     *metrics.Metrics
	cache       *rendercache.Cache
	maxFileSize int64

	mu      sync.RWMutex
	encoder *productcode.Encoder

	// generation bumps on every write; a store change can leave the file's
	// mtime and size untouched.
	generation atomic.Uint64
}

// New builds a Service and loads the product mapping. A malformed mapping
// file is an error; a missing one yields the default mapping.
func New(d Deps) (*Service, error) {
	if d.Records == nil || d.Mappings == nil {
		return nil, fmt.Errorf("service: record and mapping stores are required")
	}

	m, err := d.Mappings.Load()
	if err != nil {
		return nil, fmt.Errorf("load product mapping: %w", err)
	}

	s := &Service{
		records:     d.Records,
		mappings:    d.Mappings,
		engine:      d.Engine,
		fetcher:     d.Fetcher,
		history:     d.History,
		limiter:     d.Limiter,
		metrics:     d.Metrics,
		maxFileSize: d.MaxFileSize,
		encoder:     productcode.NewEncoder(m),
	}
	if s.engine == nil {
		s.engine = labels.NewEngine(labels.Config{})
	}
	if s.fetcher == nil {
		s.fetcher = sources.NewSheetFetcher(nil, sources.DefaultFetchTimeout)
	}
	if s.history == nil {
		s.history = history.NewMemoryLog(0)
	}
	if s.limiter == nil {
		s.limiter = core.NewLimiter(core.DefaultMaxConcurrent, core.DefaultMaxWaitTime)
	}

	ttl := d.CacheTTL
	if ttl <= 0 {
		ttl = rendercache.DefaultTTL
	}
	s.cache = rendercache.New(ttl, s.freshness)

	return s, nil
}

// freshness identifies the current content of the record store.
func (s *Service) freshness() string {
	return s.records.Freshness() + "-" + strconv.FormatUint(s.generation.Load(), 10)
}

// Records returns the stored records in their stored order.
func (s *Service) Records(ctx context.Context) ([]core.Record, error) {
	return s.records.Load()
}

// RecentImports lists the latest imports, newest first.
func (s *Service) RecentImports(ctx context.Context, limit int) ([]history.Entry, error) {
	return s.history.Recent(ctx, limit)
}

// LimiterStatus reports how many imports and renders are in flight.
func (s *Service) LimiterStatus() core.LimiterStatus {
	return s.limiter.Status()
}

// WaitForIdle blocks until no import or render holds a slot, or ctx ends.
func (s *Service) WaitForIdle(ctx context.Context) error {
	return s.limiter.WaitForDrain(ctx)
}

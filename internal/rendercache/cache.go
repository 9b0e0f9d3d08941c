// Package rendercache memoizes rendered documents keyed by render kind,
// data freshness and parameters.
//
// An entry is served only while it is younger than the TTL and only for
// the freshness token that was current when it was rendered, so a rewrite
// of the underlying data makes old entries unreachable immediately.
// Entries are never evicted explicitly; stale ones are replaced on the
// next miss for the same key.
package rendercache

import (
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// DefaultTTL is how long a rendered document is reused.
const DefaultTTL = 300 * time.Second

// FreshnessFunc returns a token that changes whenever the source data does.
type FreshnessFunc func() string

// Params are the render parameters that distinguish two outputs.
type Params map[string]string

type entry struct {
	data    []byte
	created time.Time
}

// Cache is safe for concurrent use.
type Cache struct {
	ttl       time.Duration
	freshness FreshnessFunc
	now       func() time.Time

	mu      sync.RWMutex
	entries map[string]entry
	group   singleflight.Group
}

// New returns a cache with the given TTL (DefaultTTL when <= 0).
// A nil freshness func means the data never changes.
func New(ttl time.Duration, freshness FreshnessFunc) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if freshness == nil {
		freshness = func() string { return "" }
	}
	return &Cache{
		ttl:       ttl,
		freshness: freshness,
		now:       time.Now,
		entries:   make(map[string]entry),
	}
}

// Key builds the cache key: kind, freshness token, then params sorted by
// name.
func Key(kind, token string, params Params) string {
	names := make([]string, 0, len(params))
	for k := range params {
		names = append(names, k)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString(kind)
	b.WriteByte('|')
	b.WriteString(token)
	for _, k := range names {
		b.WriteByte('|')
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(params[k])
	}
	return b.String()
}

// GetOrRender returns a copy of the cached bytes for (kind, params) when a
// fresh entry exists, and otherwise calls compute, stores a copy of its
// result and returns it. Concurrent misses for the same key share one
// compute call. Errors are returned as-is and not cached.
func (c *Cache) GetOrRender(kind string, params Params, compute func() ([]byte, error)) ([]byte, error) {
	key := Key(kind, c.freshness(), params)

	if data, ok := c.lookup(key); ok {
		slog.Debug("render cache hit", "kind", kind)
		return data, nil
	}

	v, err, _ := c.group.Do(key, func() (any, error) {
		if data, ok := c.lookup(key); ok {
			return data, nil
		}
		data, err := compute()
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.entries[key] = entry{data: clone(data), created: c.now()}
		c.mu.Unlock()
		slog.Debug("render cache stored", "kind", kind, "bytes", len(data))
		return data, nil
	})
	if err != nil {
		return nil, err
	}
	// Callers sharing a singleflight result must not share a slice.
	return clone(v.([]byte)), nil
}

func (c *Cache) lookup(key string) ([]byte, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok || c.now().Sub(e.created) >= c.ttl {
		return nil, false
	}
	return clone(e.data), true
}

// Len returns the number of stored entries, expired ones included.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Purge drops every entry.
func (c *Cache) Purge() {
	c.mu.Lock()
	c.entries = make(map[string]entry)
	c.mu.Unlock()
}

func clone(b []byte) []byte {
	return append([]byte(nil), b...)
}

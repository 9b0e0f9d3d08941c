package history

import (
	"context"
	"sync"
)

// MemoryLog keeps the most recent entries in memory. It is the fallback
// when no database is configured; entries are lost on restart.
type MemoryLog struct {
	mu      sync.Mutex
	entries []Entry
	max     int
}

// NewMemoryLog keeps at most max entries (100 when max <= 0).
func NewMemoryLog(max int) *MemoryLog {
	if max <= 0 {
		max = 100
	}
	return &MemoryLog{max: max}
}

// Record appends e, dropping the oldest entry when full.
func (l *MemoryLog) Record(_ context.Context, e Entry) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, e)
	if len(l.entries) > l.max {
		l.entries = l.entries[len(l.entries)-l.max:]
	}
	return nil
}

// Recent returns up to limit entries, newest first.
func (l *MemoryLog) Recent(_ context.Context, limit int) ([]Entry, error) {
	limit = normalizeLimit(limit)
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]Entry, 0, min(limit, len(l.entries)))
	for i := len(l.entries) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, l.entries[i])
	}
	return out, nil
}

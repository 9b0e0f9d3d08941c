// Package history records every import that replaced the stored records,
// so operators can see where the current label data came from.
//
// Three backends share the Log interface: PostgreSQL through pgx, a local
// SQLite file, and an in-memory ring used when neither is configured.
// Recording history is best effort; callers log failures and carry on.
package history

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Source identifies how records entered the store.
type Source string

const (
	SourceCSV    Source = "csv"
	SourceSheet  Source = "sheet"
	SourceOrders Source = "orders"
	SourceEdit   Source = "edit"
)

// Entry is one recorded import.
type Entry struct {
	ID        uuid.UUID `json:"id"`
	Source    Source    `json:"source"`
	Label     string    `json:"label"` // file name, sheet URL, or order count
	Stored    int       `json:"stored"`
	Skipped   int       `json:"skipped"`
	ClientIP  string    `json:"client_ip,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Log stores and lists import entries.
type Log interface {
	Record(ctx context.Context, e Entry) error
	Recent(ctx context.Context, limit int) ([]Entry, error)
}

// DefaultRecentLimit caps Recent when callers pass limit <= 0.
const DefaultRecentLimit = 20

// NewEntry returns an entry stamped with a fresh id, the current time and
// the client address carried by ctx.
func NewEntry(ctx context.Context, source Source, label string, stored, skipped int) Entry {
	return Entry{
		ID:        uuid.New(),
		Source:    source,
		Label:     label,
		Stored:    stored,
		Skipped:   skipped,
		ClientIP:  ClientIPFromContext(ctx),
		CreatedAt: time.Now().UTC(),
	}
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultRecentLimit
	}
	return limit
}

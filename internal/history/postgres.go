package history

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is the subset of pgx used by PgLog.
// Satisfied by both *pgxpool.Pool and pgx.Tx.
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

const pgSchema = `CREATE TABLE IF NOT EXISTS import_history (
	id          UUID PRIMARY KEY,
	source      TEXT NOT NULL,
	label       TEXT NOT NULL DEFAULT '',
	stored      INTEGER NOT NULL,
	skipped     INTEGER NOT NULL,
	client_ip   TEXT NOT NULL DEFAULT '',
	created_at  TIMESTAMPTZ NOT NULL
)`

// PgLog stores entries in the import_history table.
type PgLog struct {
	db DBTX
}

// NewPgLog returns a log on db. Call Migrate once before use.
func NewPgLog(db DBTX) *PgLog {
	return &PgLog{db: db}
}

// Migrate creates the import_history table if it does not exist.
func (l *PgLog) Migrate(ctx context.Context) error {
	if _, err := l.db.Exec(ctx, pgSchema); err != nil {
		return fmt.Errorf("failed to create import_history: %w", err)
	}
	return nil
}

// Record inserts e.
func (l *PgLog) Record(ctx context.Context, e Entry) error {
	query := `INSERT INTO import_history (id, source, label, stored, skipped, client_ip, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := l.db.Exec(ctx, query, e.ID, string(e.Source), e.Label, e.Stored, e.Skipped, e.ClientIP, e.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to record import %s: %w", e.ID, err)
	}
	return nil
}

// Recent returns up to limit entries, newest first.
func (l *PgLog) Recent(ctx context.Context, limit int) ([]Entry, error) {
	query := `SELECT id, source, label, stored, skipped, client_ip, created_at
		FROM import_history ORDER BY created_at DESC LIMIT $1`

	rows, err := l.db.Query(ctx, query, normalizeLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to list imports: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		var source string
		if err := rows.Scan(&e.ID, &source, &e.Label, &e.Stored, &e.Skipped, &e.ClientIP, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan import: %w", err)
		}
		e.Source = Source(source)
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list imports: %w", err)
	}
	return out, nil
}

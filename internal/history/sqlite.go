package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

const sqliteSchema = `CREATE TABLE IF NOT EXISTS import_history (
	id          TEXT PRIMARY KEY,
	source      TEXT NOT NULL,
	label       TEXT NOT NULL DEFAULT '',
	stored      INTEGER NOT NULL,
	skipped     INTEGER NOT NULL,
	client_ip   TEXT NOT NULL DEFAULT '',
	created_at  TEXT NOT NULL
)`

// sqliteTime has fixed-width fractions so text order is time order.
const sqliteTime = "2006-01-02T15:04:05.000000000Z07:00"

// SQLiteLog stores entries in a local SQLite file.
type SQLiteLog struct {
	db *sql.DB
}

// OpenSQLite opens (or creates) the database at path and ensures the
// schema exists.
func OpenSQLite(ctx context.Context, path string) (*SQLiteLog, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite history: %w", err)
	}
	// SQLite allows a single writer.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create import_history: %w", err)
	}
	return &SQLiteLog{db: db}, nil
}

// Close releases the database.
func (l *SQLiteLog) Close() error {
	return l.db.Close()
}

// Record inserts e.
func (l *SQLiteLog) Record(ctx context.Context, e Entry) error {
	_, err := l.db.ExecContext(ctx,
		`INSERT INTO import_history (id, source, label, stored, skipped, client_ip, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.ID.String(), string(e.Source), e.Label, e.Stored, e.Skipped, e.ClientIP,
		e.CreatedAt.UTC().Format(sqliteTime),
	)
	if err != nil {
		return fmt.Errorf("failed to record import %s: %w", e.ID, err)
	}
	return nil
}

// Recent returns up to limit entries, newest first.
func (l *SQLiteLog) Recent(ctx context.Context, limit int) ([]Entry, error) {
	rows, err := l.db.QueryContext(ctx,
		`SELECT id, source, label, stored, skipped, client_ip, created_at
		FROM import_history ORDER BY created_at DESC LIMIT ?`,
		normalizeLimit(limit),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list imports: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		var id, source, created string
		if err := rows.Scan(&id, &source, &e.Label, &e.Stored, &e.Skipped, &e.ClientIP, &created); err != nil {
			return nil, fmt.Errorf("failed to scan import: %w", err)
		}
		if e.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("failed to parse import id %q: %w", id, err)
		}
		if e.CreatedAt, err = time.Parse(sqliteTime, created); err != nil {
			return nil, fmt.Errorf("failed to parse import time %q: %w", created, err)
		}
		e.Source = Source(source)
		out = append(out, e)
	}
	return out, rows.Err()
}

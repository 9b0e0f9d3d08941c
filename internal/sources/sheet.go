// Package sources adapts external inputs into core tables and records:
// published spreadsheets fetched over HTTP and already-fetched commerce
// orders.
package sources

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/JonMunkholm/etiquetas/internal/core"
)

// DefaultExportURL is the CSV export endpoint; %s is the sheet id.
const DefaultExportURL = "https://docs.google.com/spreadsheets/d/%s/export?format=csv"

// DefaultFetchTimeout bounds a whole sheet download.
const DefaultFetchTimeout = 30 * time.Second

// SheetID extracts the spreadsheet id from a sharing URL: the path segment
// following "/d/".
func SheetID(url string) (string, error) {
	_, rest, ok := strings.Cut(strings.TrimSpace(url), "/d/")
	if !ok {
		return "", fmt.Errorf("%w: %q has no /d/ segment", core.ErrInvalidSource, url)
	}
	id, _, _ := strings.Cut(rest, "/")
	id, _, _ = strings.Cut(id, "?")
	id, _, _ = strings.Cut(id, "#")
	if id == "" {
		return "", fmt.Errorf("%w: %q has an empty id", core.ErrInvalidSource, url)
	}
	return id, nil
}

// SheetFetcher downloads a spreadsheet's CSV export.
type SheetFetcher struct {
	client    *http.Client
	exportURL string
	timeout   time.Duration
}

// NewSheetFetcher returns a fetcher with the given per-request timeout
// (DefaultFetchTimeout when <= 0). A nil client uses http.DefaultClient.
func NewSheetFetcher(client *http.Client, timeout time.Duration) *SheetFetcher {
	if client == nil {
		client = http.DefaultClient
	}
	if timeout <= 0 {
		timeout = DefaultFetchTimeout
	}
	return &SheetFetcher{client: client, exportURL: DefaultExportURL, timeout: timeout}
}

// WithExportURL overrides the export URL pattern; it must contain one %s.
func (f *SheetFetcher) WithExportURL(pattern string) *SheetFetcher {
	cp := *f
	cp.exportURL = pattern
	return &cp
}

// Fetch downloads the CSV export of the sheet behind url and reads it into
// a table of at most maxBytes. Network failures and non-2xx responses are
// reported as *core.SourceUnavailableError.
func (f *SheetFetcher) Fetch(ctx context.Context, url string, maxBytes int64) (core.Table, error) {
	id, err := SheetID(url)
	if err != nil {
		return core.Table{}, err
	}
	exportURL := fmt.Sprintf(f.exportURL, id)

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, exportURL, nil)
	if err != nil {
		return core.Table{}, &core.SourceUnavailableError{Source: exportURL, Err: err}
	}

	start := time.Now()
	resp, err := f.client.Do(req)
	if err != nil {
		return core.Table{}, &core.SourceUnavailableError{Source: exportURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return core.Table{}, &core.SourceUnavailableError{
			Source: exportURL,
			Err:    fmt.Errorf("unexpected status %s", resp.Status),
		}
	}

	table, err := core.ReadTable(resp.Body, maxBytes)
	switch {
	case err == nil:
	case errors.Is(err, core.ErrEmptyFile), errors.Is(err, core.ErrInvalidCSV), errors.Is(err, core.ErrFileTooLarge):
		return core.Table{}, err
	default:
		return core.Table{}, &core.SourceUnavailableError{Source: exportURL, Err: err}
	}

	slog.Info("sheet downloaded",
		"sheet_id", id,
		"rows", len(table.Rows),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return table, nil
}

package service

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/JonMunkholm/etiquetas/internal/core"
	"github.com/JonMunkholm/etiquetas/internal/history"
	"github.com/JonMunkholm/etiquetas/internal/logging"
	"github.com/JonMunkholm/etiquetas/internal/sources"
	"github.com/google/uuid"
)

// ImportResult summarizes an import that replaced the stored records.
type ImportResult struct {
	ID      uuid.UUID `json:"id"`
	Stored  int       `json:"stored"`
	Skipped int       `json:"skipped"`
}

// ImportCSV replaces the stored records with the rows of an uploaded CSV.
// name is recorded in the import history. On any error the store is left
// untouched.
func (s *Service) ImportCSV(ctx context.Context, name string, r io.Reader) (res ImportResult, err error) {
	defer func() { s.metrics.ObserveImport(string(history.SourceCSV), err) }()

	if err := s.limiter.Acquire(ctx); err != nil {
		return ImportResult{}, err
	}
	defer s.limiter.Release()

	t, err := core.ReadTable(r, s.maxFileSize)
	if err != nil {
		return ImportResult{}, fmt.Errorf("import csv %s: %w", name, err)
	}
	return s.importTable(ctx, history.SourceCSV, name, t)
}

// ImportSheet fetches a shared spreadsheet as CSV and replaces the stored
// records with its rows.
func (s *Service) ImportSheet(ctx context.Context, sheetURL string) (res ImportResult, err error) {
	defer func() { s.metrics.ObserveImport(string(history.SourceSheet), err) }()

	if err := s.limiter.Acquire(ctx); err != nil {
		return ImportResult{}, err
	}
	defer s.limiter.Release()

	t, err := s.fetcher.Fetch(ctx, sheetURL, s.maxFileSize)
	if err != nil {
		return ImportResult{}, fmt.Errorf("import sheet: %w", err)
	}
	return s.importTable(ctx, history.SourceSheet, sheetURL, t)
}

// ImportOrders converts already-fetched shop orders into records, using the
// current product mapping for the product codes, and stores them.
func (s *Service) ImportOrders(ctx context.Context, orders []sources.Order) (res ImportResult, err error) {
	defer func() { s.metrics.ObserveImport(string(history.SourceOrders), err) }()

	if err := s.limiter.Acquire(ctx); err != nil {
		return ImportResult{}, err
	}
	defer s.limiter.Release()

	records := sources.OrdersToRecords(orders, s.currentEncoder())
	kept, skipped := core.PrepareRecords(records)
	return s.commit(ctx, history.SourceOrders, strconv.Itoa(len(orders))+" orders", kept, skipped)
}

// SaveRecords stores user-edited records in the order given. Rows are
// normalized but neither filtered nor sorted, so unsent rows survive.
func (s *Service) SaveRecords(ctx context.Context, records []core.Record) (res ImportResult, err error) {
	defer func() { s.metrics.ObserveImport(string(history.SourceEdit), err) }()

	cleaned := make([]core.Record, len(records))
	for i, r := range records {
		cleaned[i] = r.Normalized()
	}
	return s.commit(ctx, history.SourceEdit, "edit", cleaned, 0)
}

func (s *Service) importTable(ctx context.Context, source history.Source, label string, t core.Table) (ImportResult, error) {
	records, skipped, err := core.PrepareImport(t)
	if err != nil {
		return ImportResult{}, fmt.Errorf("import %s: %w", source, err)
	}
	return s.commit(ctx, source, label, records, skipped)
}

// commit writes records to the store and records the import. History
// failures are logged, not returned: the records are already stored.
func (s *Service) commit(ctx context.Context, source history.Source, label string, records []core.Record, skipped int) (ImportResult, error) {
	if err := s.records.Save(records); err != nil {
		return ImportResult{}, fmt.Errorf("store records: %w", err)
	}
	s.generation.Add(1)
	s.metrics.SetStoredRecords(len(records))

	entry := history.NewEntry(ctx, source, label, len(records), skipped)
	logger := logging.WithFields(ctx, "import_id", entry.ID, "source", source)
	if err := s.history.Record(ctx, entry); err != nil {
		logger.Warn("failed to record import history", "error", err)
	}
	logger.Info("records imported", "stored", len(records), "skipped", skipped)

	return ImportResult{ID: entry.ID, Stored: len(records), Skipped: skipped}, nil
}

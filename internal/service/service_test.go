package service

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/JonMunkholm/etiquetas/internal/core"
	"github.com/JonMunkholm/etiquetas/internal/history"
	"github.com/JonMunkholm/etiquetas/internal/labels"
	"github.com/JonMunkholm/etiquetas/internal/metrics"
	"github.com/JonMunkholm/etiquetas/internal/productcode"
	"github.com/JonMunkholm/etiquetas/internal/sources"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCSV = "Nombre completo,Dirección,CP,Ciudad,Zona,Producto\n" +
	"Luis,Calle 2,28002,Madrid,B,24\n" +
	",Calle 3,28003,Madrid,A,23\n" +
	"Ana,Calle 1,28001,Madrid,A,23.0\n"

func newTestService(t *testing.T, mutate func(*Deps)) (*Service, string) {
	t.Helper()
	dir := t.TempDir()
	d := Deps{
		Records:     core.NewRecordStore(filepath.Join(dir, "datos_hoja.csv")),
		Mappings:    productcode.NewStore(filepath.Join(dir, "product_mapping.json")),
		Engine:      labels.NewEngine(labels.Config{StampDirs: []string{filepath.Join(dir, "sellos")}}),
		History:     history.NewMemoryLog(10),
		Metrics:     metrics.New(),
		MaxFileSize: 1 << 20,
	}
	if mutate != nil {
		mutate(&d)
	}
	s, err := New(d)
	require.NoError(t, err)
	return s, dir
}

func TestNew_RequiresStores(t *testing.T) {
	_, err := New(Deps{})
	assert.Error(t, err)
}

func TestNew_RejectsMalformedMapping(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "product_mapping.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"x": []}`), 0o644))

	_, err := New(Deps{
		Records:  core.NewRecordStore(filepath.Join(dir, "datos.csv")),
		Mappings: productcode.NewStore(path),
	})
	assert.ErrorIs(t, err, productcode.ErrInvalidMapping)
}

func TestImportCSV(t *testing.T) {
	s, _ := newTestService(t, nil)
	ctx := context.Background()

	res, err := s.ImportCSV(ctx, "pedidos.csv", strings.NewReader(sampleCSV))
	require.NoError(t, err)
	assert.Equal(t, 2, res.Stored)
	assert.Equal(t, 1, res.Skipped)

	records, err := s.Records(ctx)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "Ana", records[0].Name)
	assert.Equal(t, "23", records[0].ProductCode)
	assert.Equal(t, "Luis", records[1].Name)

	entries, err := s.RecentImports(ctx, 0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, history.SourceCSV, entries[0].Source)
	assert.Equal(t, "pedidos.csv", entries[0].Label)
	assert.Equal(t, res.ID, entries[0].ID)
}

func TestImportCSV_FailureLeavesStoreUntouched(t *testing.T) {
	s, _ := newTestService(t, nil)
	ctx := context.Background()

	_, err := s.ImportCSV(ctx, "ok.csv", strings.NewReader(sampleCSV))
	require.NoError(t, err)

	_, err = s.ImportCSV(ctx, "bad.csv", strings.NewReader("Nombre completo,Dirección\nA,B\n"))
	var mfe *core.MissingFieldError
	require.ErrorAs(t, err, &mfe)
	assert.Equal(t, core.FieldPostalCode, mfe.Field)

	records, err := s.Records(ctx)
	require.NoError(t, err)
	assert.Len(t, records, 2)

	entries, err := s.RecentImports(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestImportCSV_TooLarge(t *testing.T) {
	s, _ := newTestService(t, func(d *Deps) { d.MaxFileSize = 10 })

	_, err := s.ImportCSV(context.Background(), "big.csv", strings.NewReader(sampleCSV))
	assert.ErrorIs(t, err, core.ErrFileTooLarge)
}

func TestImportCSV_Busy(t *testing.T) {
	limiter := core.NewLimiter(1, 10*time.Millisecond)
	s, _ := newTestService(t, func(d *Deps) { d.Limiter = limiter })

	require.NoError(t, limiter.Acquire(context.Background()))
	defer limiter.Release()

	_, err := s.ImportCSV(context.Background(), "a.csv", strings.NewReader(sampleCSV))
	assert.ErrorIs(t, err, core.ErrBusy)
}

func TestImportSheet(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/abc123/") {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(sampleCSV))
	}))
	defer srv.Close()

	fetcher := sources.NewSheetFetcher(srv.Client(), time.Second).WithExportURL(srv.URL + "/%s/export")
	s, _ := newTestService(t, func(d *Deps) { d.Fetcher = fetcher })
	ctx := context.Background()

	res, err := s.ImportSheet(ctx, "https://docs.google.com/spreadsheets/d/abc123/edit#gid=0")
	require.NoError(t, err)
	assert.Equal(t, 2, res.Stored)

	_, err = s.ImportSheet(ctx, "https://docs.google.com/spreadsheets/d/missing/edit")
	var sue *core.SourceUnavailableError
	assert.ErrorAs(t, err, &sue)

	_, err = s.ImportSheet(ctx, "not a sheet")
	assert.ErrorIs(t, err, core.ErrInvalidSource)
}

func TestImportOrders(t *testing.T) {
	s, _ := newTestService(t, nil)
	ctx := context.Background()

	res, err := s.ImportOrders(ctx, []sources.Order{
		{
			ID:        7,
			Shipping:  sources.Shipping{FirstName: "Eva", Address1: "Sol 1", Postcode: "08001", City: "Barcelona"},
			LineItems: []sources.LineItem{{Name: "Camiseta Salvaje", Quantity: 2}},
		},
		{
			ID:       8,
			Shipping: sources.Shipping{FirstName: "Sin dirección", City: "Vigo"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Stored)
	assert.Equal(t, 1, res.Skipped)

	records, err := s.Records(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "2CS", records[0].ProductCode)
}

func TestSaveRecords_KeepsOrderAndUnsentRows(t *testing.T) {
	s, _ := newTestService(t, nil)
	ctx := context.Background()

	_, err := s.SaveRecords(ctx, []core.Record{
		{Send: false, Name: "Zoe", Address: "a", City: "c", PostalCode: "CP 1234", ProductCode: "9"},
		{Send: true, Name: " Ana ", Address: "b", City: "c", ProductCode: "1"},
	})
	require.NoError(t, err)

	records, err := s.Records(ctx)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "Zoe", records[0].Name)
	assert.False(t, records[0].Send)
	assert.Equal(t, "1234", records[0].PostalCode)
	assert.Equal(t, "Ana", records[1].Name)
}

func TestAddressLabels_CachedUntilStoreChanges(t *testing.T) {
	s, _ := newTestService(t, nil)
	ctx := context.Background()

	_, err := s.ImportCSV(ctx, "a.csv", strings.NewReader(sampleCSV))
	require.NoError(t, err)

	first, err := s.AddressLabels(ctx, labels.Options{})
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(first, []byte("%PDF")))
	assert.Equal(t, 1, s.cache.Len())

	again, err := s.AddressLabels(ctx, labels.Options{})
	require.NoError(t, err)
	assert.Equal(t, first, again)
	assert.Equal(t, 1, s.cache.Len())

	_, err = s.AddressLabels(ctx, labels.Options{OffsetX: 1.5, Guides: true})
	require.NoError(t, err)
	assert.Equal(t, 2, s.cache.Len())

	_, err = s.SaveRecords(ctx, []core.Record{{Send: true, Name: "N", Address: "A", City: "C"}})
	require.NoError(t, err)
	_, err = s.AddressLabels(ctx, labels.Options{})
	require.NoError(t, err)
	assert.Equal(t, 3, s.cache.Len())
}

func TestORLabels_EmptyStore(t *testing.T) {
	s, _ := newTestService(t, nil)

	pdf, err := s.ORLabels(context.Background(), labels.Options{})
	require.NoError(t, err)
	assert.NotEmpty(t, pdf)
}

func TestUpdateMapping(t *testing.T) {
	s, dir := newTestService(t, nil)
	ctx := context.Background()

	assert.Equal(t, "2CS", s.EncodeItems([]productcode.Item{{Name: "camiseta salvaje", Quantity: 2}}).Code)

	m, err := productcode.NewMapping(productcode.Entry{ID: "taza-salvaje", Codes: productcode.Single("TZ")})
	require.NoError(t, err)
	before := s.freshness()
	require.NoError(t, s.UpdateMapping(ctx, m))
	assert.NotEqual(t, before, s.freshness(), "mapping change must invalidate cached renders")

	assert.Equal(t, 1, s.Mapping().Len())
	res := s.EncodeItems([]productcode.Item{{Name: "Taza Salvaje", Quantity: 1}, {Name: "Póster", Quantity: 1}})
	assert.Equal(t, "TZ", res.Code)
	assert.Equal(t, []string{"Póster"}, res.Unmatched)

	loaded, err := productcode.NewStore(filepath.Join(dir, "product_mapping.json")).Load()
	require.NoError(t, err)
	assert.Equal(t, m.Entries(), loaded.Entries())

	err = s.UpdateMapping(ctx, productcode.Mapping{})
	assert.True(t, errors.Is(err, productcode.ErrInvalidMapping))
}

type failingLog struct{}

func (failingLog) Record(context.Context, history.Entry) error {
	return errors.New("history down")
}

func (failingLog) Recent(context.Context, int) ([]history.Entry, error) {
	return nil, errors.New("history down")
}

func TestImport_HistoryFailureIsNotFatal(t *testing.T) {
	s, _ := newTestService(t, func(d *Deps) { d.History = failingLog{} })

	res, err := s.ImportCSV(context.Background(), "a.csv", strings.NewReader(sampleCSV))
	require.NoError(t, err)
	assert.Equal(t, 2, res.Stored)
}

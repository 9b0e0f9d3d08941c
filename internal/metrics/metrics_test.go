package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Counters(t *testing.T) {
	m := New()

	m.ObserveImport("csv", nil)
	m.ObserveImport("csv", errors.New("bad"))
	m.ObserveRender("address", 20*time.Millisecond, nil)
	m.ObserveCache("address", true)
	m.ObserveCache("address", false)
	m.SetStoredRecords(42)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.imports.WithLabelValues("csv", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.imports.WithLabelValues("csv", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.renders.WithLabelValues("address", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.cache.WithLabelValues("address", "hit")))
	assert.Equal(t, 42.0, testutil.ToFloat64(m.records))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	m.ObserveImport("csv", nil)
	m.ObserveRender("or", time.Second, nil)
	m.ObserveCache("or", true)
	m.SetStoredRecords(1)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMetrics_MiddlewareAndHandler(t *testing.T) {
	m := New()
	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Get("/labels/{kind}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	r.Handle("/metrics", m.Handler())

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/labels/or", nil))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("GET", "/labels/{kind}", "418")))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "etiquetas_http_requests_total")
}

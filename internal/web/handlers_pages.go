package web

import (
	"net/http"
	"strconv"

	"github.com/JonMunkholm/etiquetas/internal/history"
	"github.com/JonMunkholm/etiquetas/internal/logging"
	"github.com/JonMunkholm/etiquetas/internal/web/templates"
)

// indexImportLimit is how many recent imports the index page lists.
const indexImportLimit = 10

// handleIndex renders the main page.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	records, err := s.service.Records(r.Context())
	if err != nil {
		s.respondError(w, r, err, 0)
		return
	}

	imports, err := s.service.RecentImports(r.Context(), indexImportLimit)
	if err != nil {
		logging.FromContext(r.Context()).Warn("failed to list imports", "error", err)
		imports = nil
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	templates.Index(templates.IndexData{
		Records:     records,
		Imports:     imports,
		Mapping:     s.service.Mapping(),
		MaxFileSize: s.cfg.Import.MaxFileSize.String(),
	}).Render(r.Context(), w)
}

// handleListRecords returns the stored records as JSON.
func (s *Server) handleListRecords(w http.ResponseWriter, r *http.Request) {
	records, err := s.service.Records(r.Context())
	if err != nil {
		s.respondError(w, r, err, 0)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": records})
}

// handleListImports returns the recent imports, newest first.
func (s *Server) handleListImports(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 || limit > 100 {
		limit = history.DefaultRecentLimit
	}

	entries, err := s.service.RecentImports(r.Context(), limit)
	if err != nil {
		s.respondError(w, r, err, 0)
		return
	}
	if entries == nil {
		entries = []history.Entry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

// handleHealth reports liveness and the import slot usage.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:  "ok",
		Limiter: s.service.LimiterStatus(),
	})
}

package web

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/JonMunkholm/etiquetas/internal/core"
	"github.com/JonMunkholm/etiquetas/internal/productcode"
)

// maxMappingSize caps a mapping document.
const maxMappingSize = 1 << 20

// handleGetMapping returns the product mapping as an ordered JSON object.
func (s *Server) handleGetMapping(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.service.Mapping())
}

// handlePutMapping replaces the product mapping with a JSON document.
func (s *Server) handlePutMapping(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxMappingSize))
	if err != nil {
		s.respondError(w, r, s.bodyError(err, core.ErrBadRequest), 0)
		return
	}

	m, err := productcode.ParseMapping(data)
	if err != nil {
		s.respondError(w, r, err, 0)
		return
	}
	if err := s.service.UpdateMapping(r.Context(), m); err != nil {
		s.respondError(w, r, err, 0)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

// handleMappingForm saves the administration form and returns to the index.
func (s *Server) handleMappingForm(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxMappingSize)
	if err := r.ParseForm(); err != nil {
		s.respondError(w, r, s.bodyError(err, core.ErrBadRequest), 0)
		return
	}

	m, err := productcode.MappingFromForm(
		r.PostForm["product_id"],
		r.PostForm["product_code"],
		r.PostForm["combo_id"],
		r.PostForm["combo_contents"],
	)
	if err != nil {
		s.respondError(w, r, err, 0)
		return
	}
	if err := s.service.UpdateMapping(r.Context(), m); err != nil {
		s.respondError(w, r, err, 0)
		return
	}
	http.Redirect(w, r, "/#mapping", http.StatusSeeOther)
}

// productCodeRequest is the body of POST /api/product-code.
type productCodeRequest struct {
	Items []productcode.Item `json:"items"`
}

// handleProductCode encodes a list of line items with the current mapping.
func (s *Server) handleProductCode(w http.ResponseWriter, r *http.Request) {
	var req productCodeRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxMappingSize)).Decode(&req); err != nil {
		s.respondError(w, r, s.bodyError(err, core.ErrBadRequest), 0)
		return
	}
	if len(req.Items) == 0 {
		s.respondError(w, r, fmt.Errorf("%w: no items", core.ErrBadRequest), 0)
		return
	}
	writeJSON(w, http.StatusOK, s.service.EncodeItems(req.Items))
}

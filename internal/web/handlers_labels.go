package web

import (
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/JonMunkholm/etiquetas/internal/core"
	"github.com/JonMunkholm/etiquetas/internal/labels"
)

// maxOffset bounds the calibration offsets, in millimetres.
const maxOffset = 50.0

// parseLabelOptions reads offset_x, offset_y and guides from the query.
// Missing values default to zero and false.
func parseLabelOptions(r *http.Request) (labels.Options, error) {
	q := r.URL.Query()
	var opts labels.Options

	for name, dst := range map[string]*float64{"offset_x": &opts.OffsetX, "offset_y": &opts.OffsetY} {
		raw := strings.TrimSpace(q.Get(name))
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", "."), 64)
		if err != nil || math.IsNaN(v) || math.Abs(v) > maxOffset {
			return labels.Options{}, fmt.Errorf("%w: %s=%q", core.ErrBadRequest, name, raw)
		}
		*dst = v
	}

	switch strings.ToLower(strings.TrimSpace(q.Get("guides"))) {
	case "1", "true", "on", "si", "sí":
		opts.Guides = true
	}
	return opts, nil
}

// handleAddressLabels serves the address label sheet.
func (s *Server) handleAddressLabels(w http.ResponseWriter, r *http.Request) {
	opts, err := parseLabelOptions(r)
	if err != nil {
		s.respondError(w, r, err, 0)
		return
	}

	pdf, err := s.service.AddressLabels(r.Context(), opts)
	if err != nil {
		s.respondError(w, r, err, 0)
		return
	}
	writePDF(w, "etiquetas.pdf", pdf)
}

// handleORLabels serves the barcode label sheet.
func (s *Server) handleORLabels(w http.ResponseWriter, r *http.Request) {
	opts, err := parseLabelOptions(r)
	if err != nil {
		s.respondError(w, r, err, 0)
		return
	}

	pdf, err := s.service.ORLabels(r.Context(), opts)
	if err != nil {
		s.respondError(w, r, err, 0)
		return
	}
	writePDF(w, "etiquetas_or.pdf", pdf)
}

func writePDF(w http.ResponseWriter, name string, pdf []byte) {
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `inline; filename="`+name+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(pdf)))
	w.Header().Set("Cache-Control", "no-store")
	w.Write(pdf)
}

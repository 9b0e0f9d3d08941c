package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/JonMunkholm/etiquetas/internal/core"
	"github.com/JonMunkholm/etiquetas/internal/logging"
	"github.com/JonMunkholm/etiquetas/internal/service"
	"github.com/JonMunkholm/etiquetas/internal/sources"
	"github.com/dustin/go-humanize"
)

// multipartOverhead is the allowance for form boundaries and headers on
// top of the file size limit.
const multipartOverhead = 1 << 20

// bodyError reports a request body read failure: ErrFileTooLarge when the
// body exceeded its limit, otherwise kind with the cause.
func (s *Server) bodyError(err, kind error) error {
	var mbe *http.MaxBytesError
	if errors.As(err, &mbe) {
		return fmt.Errorf("%w: limit is %s", core.ErrFileTooLarge, s.cfg.Import.MaxFileSize)
	}
	return fmt.Errorf("%w: %v", kind, err)
}

// handleImportCSV replaces the stored records with an uploaded CSV.
func (s *Server) handleImportCSV(w http.ResponseWriter, r *http.Request) {
	maxSize := int64(s.cfg.Import.MaxFileSize)
	r.Body = http.MaxBytesReader(w, r.Body, maxSize+multipartOverhead)

	if err := r.ParseMultipartForm(maxSize); err != nil {
		s.respondError(w, r, s.bodyError(err, core.ErrNoFile), 0)
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		s.respondError(w, r, core.ErrNoFile, 0)
		return
	}
	defer file.Close()

	logging.FromContext(r.Context()).Info("csv received",
		"file", header.Filename,
		"size", humanize.IBytes(uint64(header.Size)),
	)

	res, err := s.service.ImportCSV(r.Context(), header.Filename, file)
	if err != nil {
		s.respondError(w, r, err, 0)
		return
	}
	s.respondImported(w, r, res)
}

// handleImportSheet replaces the stored records with a shared spreadsheet.
func (s *Server) handleImportSheet(w http.ResponseWriter, r *http.Request) {
	sheetURL := strings.TrimSpace(r.FormValue("sheet_url"))
	if sheetURL == "" {
		s.respondError(w, r, fmt.Errorf("%w: empty", core.ErrInvalidSource), 0)
		return
	}

	res, err := s.service.ImportSheet(r.Context(), sheetURL)
	if err != nil {
		s.respondError(w, r, err, 0)
		return
	}
	s.respondImported(w, r, res)
}

// handleImportOrders converts a JSON array of shop orders into records.
func (s *Server) handleImportOrders(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, int64(s.cfg.Import.MaxFileSize))

	var orders []sources.Order
	if err := json.NewDecoder(r.Body).Decode(&orders); err != nil {
		s.respondError(w, r, s.bodyError(err, core.ErrBadRequest), 0)
		return
	}

	res, err := s.service.ImportOrders(r.Context(), orders)
	if err != nil {
		s.respondError(w, r, err, 0)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// editRequest is the body of POST /editar.
type editRequest struct {
	Data []editedRecord `json:"data"`
}

// editedRecord accepts the booleans either as JSON booleans or as the
// text tokens a spreadsheet-like editor sends.
type editedRecord struct {
	Send          flexBool `json:"send"`
	Name          string   `json:"name"`
	Company       string   `json:"company"`
	Address       string   `json:"address"`
	PostalCode    string   `json:"postal_code"`
	City          string   `json:"city"`
	Zone          string   `json:"zone"`
	ProductCode   string   `json:"product_code"`
	Country       string   `json:"country"`
	International flexBool `json:"international"`
}

func (e editedRecord) record() core.Record {
	return core.Record{
		Send:          bool(e.Send),
		Name:          e.Name,
		Company:       e.Company,
		Address:       e.Address,
		PostalCode:    e.PostalCode,
		City:          e.City,
		Zone:          e.Zone,
		ProductCode:   e.ProductCode,
		Country:       e.Country,
		International: bool(e.International),
	}
}

type flexBool bool

func (b *flexBool) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	switch t := v.(type) {
	case bool:
		*b = flexBool(t)
	case string:
		*b = flexBool(core.ParseFlag(t))
	case float64:
		*b = t == 1
	case nil:
		*b = false
	default:
		return fmt.Errorf("cannot read %s as a flag", data)
	}
	return nil
}

// handleEditRecords stores the rows of the record editor, in the order
// the user left them.
func (s *Server) handleEditRecords(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, int64(s.cfg.Import.MaxFileSize))

	var req editRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, r, s.bodyError(err, core.ErrBadRequest), 0)
		return
	}

	records := make([]core.Record, len(req.Data))
	for i, e := range req.Data {
		records[i] = e.record()
	}

	res, err := s.service.SaveRecords(r.Context(), records)
	if err != nil {
		s.respondError(w, r, err, 0)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// respondImported answers an import: JSON for API clients, a page refresh
// for HTMX and a redirect to the index for plain forms.
func (s *Server) respondImported(w http.ResponseWriter, r *http.Request, res service.ImportResult) {
	switch {
	case wantsJSON(r):
		writeJSON(w, http.StatusOK, res)
	case isHTMX(r):
		w.Header().Set("HX-Refresh", "true")
		w.WriteHeader(http.StatusOK)
	default:
		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}

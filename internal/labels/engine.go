// Package labels lays out shipment records on A4 label sheets and renders
// them to PDF.
//
// Two sheets are supported: a 3x8 address sheet with sender line and
// postage stamp, and a 2x5 "OR" sheet with a Code128 tracking barcode per
// shipment. Both are pure functions of the record sequence and options;
// nothing is persisted between renders.
package labels

import (
	"log/slog"
	"strings"

	"github.com/JonMunkholm/etiquetas/internal/core"
)

// Defaults used when Config leaves a field empty.
const (
	DefaultSender   = "Rte: Revista Salvaje | Apdo. Correos 15024 CP 28080"
	DefaultORBaseID = 921
)

// Messages written on the single page of an empty render.
const (
	NoAddressDataMessage = "No hay datos válidos para generar etiquetas"
	NoORDataMessage      = "No hay datos válidos para generar etiquetas OR"
)

// Options are the per-render user settings.
type Options struct {
	OffsetX float64 // mm, positive moves right
	OffsetY float64 // mm, positive moves up
	Guides  bool    // overlay dashed cell outlines for printer calibration
}

// Config configures an Engine.
type Config struct {
	StampDirs []string
	Sender    string
	ORBaseID  int
}

// Engine renders label sheets. It is safe for concurrent use; every
// render builds its own document.
type Engine struct {
	stamps  *StampLocator
	sender  string
	orBase  int
	address Layout
	or      Layout
}

// NewEngine returns an engine with the standard sheet layouts.
func NewEngine(cfg Config) *Engine {
	sender := strings.TrimSpace(cfg.Sender)
	if sender == "" {
		sender = DefaultSender
	}
	base := cfg.ORBaseID
	if base <= 0 {
		base = DefaultORBaseID
	}
	return &Engine{
		stamps:  NewStampLocator(cfg.StampDirs...),
		sender:  sender,
		orBase:  base,
		address: AddressLayout(),
		or:      ORLayout(),
	}
}

// RenderAddress renders address labels for the eligible records, in
// order. With no eligible records the document has a single page holding
// an explanatory message (and the guides, when requested).
func (e *Engine) RenderAddress(records []core.Record, opts Options) ([]byte, error) {
	eligible := FilterEligible(records)
	d := newDocument("Etiquetas")

	if len(eligible) == 0 {
		slog.Warn("no eligible records for address labels", "records", len(records))
		d.addPage()
		d.message(NoAddressDataMessage)
		if opts.Guides {
			d.guides(e.address, opts.OffsetX, opts.OffsetY)
		}
		return d.bytes()
	}

	warned := make(map[string]bool)
	for i, rec := range eligible {
		slot := e.address.Grid.Place(i)
		if i%e.address.Grid.PerPage() == 0 {
			d.addPage()
			if opts.Guides {
				d.guides(e.address, opts.OffsetX, opts.OffsetY)
			}
		}
		e.drawAddress(d, e.address.Cell(slot, opts.OffsetX, opts.OffsetY), rec, warned)
	}

	slog.Info("rendered address labels", "labels", len(eligible), "pages", d.pdf.PageCount())
	return d.bytes()
}

// RenderOR renders barcode labels for the eligible records. Tracking ids
// start at the configured base and increase by one per eligible record
// in output order.
func (e *Engine) RenderOR(records []core.Record, opts Options) ([]byte, error) {
	eligible := FilterEligible(records)
	d := newDocument("Etiquetas OR")

	if len(eligible) == 0 {
		slog.Warn("no eligible records for OR labels", "records", len(records))
		d.addPage()
		d.message(NoORDataMessage)
		if opts.Guides {
			d.guides(e.or, opts.OffsetX, opts.OffsetY)
		}
		return d.bytes()
	}

	for i, rec := range eligible {
		slot := e.or.Grid.Place(i)
		if i%e.or.Grid.PerPage() == 0 {
			d.addPage()
			if opts.Guides {
				d.guides(e.or, opts.OffsetX, opts.OffsetY)
			}
		}
		code := TrackingCode(e.orBase+i, rec.PostalCode)
		postal := fixedDigits(core.ExtractPostalCode(rec.PostalCode), 5)
		e.drawOR(d, e.or.Cell(slot, opts.OffsetX, opts.OffsetY), postal, code)
	}

	slog.Info("rendered OR labels", "labels", len(eligible), "pages", d.pdf.PageCount())
	return d.bytes()
}

// TrackingCodes returns the tracking codes RenderOR would print, in order.
func (e *Engine) TrackingCodes(records []core.Record) []string {
	eligible := FilterEligible(records)
	codes := make([]string, len(eligible))
	for i, rec := range eligible {
		codes[i] = TrackingCode(e.orBase+i, rec.PostalCode)
	}
	return codes
}

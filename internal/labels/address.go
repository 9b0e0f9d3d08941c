package labels

import (
	"log/slog"

	"github.com/go-pdf/fpdf"

	"github.com/JonMunkholm/etiquetas/internal/core"
)

const (
	stampSize       = 52 * pt
	textBaseline    = 12.0 // mm above the cell bottom
	separatorHeight = 8.0
	senderBaseline  = 4.2
	senderFontSize  = 7
)

// drawAddress draws one address label in r.
func (e *Engine) drawAddress(d *document, r Rect, rec core.Record, warned map[string]bool) {
	bottom := r.Bottom()

	lines := AddressLines(rec)
	size := FontSize(lines)
	d.font("", size)
	lineHeight := (size + 1) * pt
	offset := textBaseline
	for i := len(lines) - 1; i >= 0; i-- {
		offset += lineHeight
		d.text(r.X+2, bottom-offset, lines[i])
	}

	d.pdf.SetLineWidth(0.4 * pt)
	d.pdf.Line(r.X+1, bottom-separatorHeight, r.X+r.W-1, bottom-separatorHeight)
	d.font("", senderFontSize)
	d.text(r.X+2, bottom-senderBaseline, e.sender)

	e.drawStamp(d, r, rec.International, warned)
}

// drawStamp places the postage stamp in the top-right corner of r. It
// never fails: a missing or unreadable image becomes a labelled box.
func (e *Engine) drawStamp(d *document, r Rect, international bool, warned map[string]bool) {
	x := r.X + r.W - stampSize - 1*pt
	y := r.Y - 4*pt

	path, ok := e.stamps.Locate(international)
	if !ok {
		label := "NACIONAL"
		if international {
			label = "INTERNACIONAL"
		}
		if !warned[label] {
			slog.Warn("stamp image not found, drawing placeholder", "stamp", label)
			warned[label] = true
		}
		d.pdf.SetLineWidth(1 * pt)
		d.pdf.Rect(x, y, stampSize, stampSize, "D")
		d.font("", 8)
		d.text(x+5*pt, y+stampSize/2, label)
		return
	}

	opts := fpdf.ImageOptions{ImageType: "PNG", ReadDpi: false}
	info := d.pdf.RegisterImageOptions(path, opts)
	if d.pdf.Err() || info == nil || info.Width() <= 0 || info.Height() <= 0 {
		err := d.pdf.Error()
		d.pdf.ClearError()
		if !warned[path] {
			slog.Error("stamp image could not be attached", "path", path, "error", err)
			warned[path] = true
		}
		d.pdf.SetLineWidth(1 * pt)
		d.pdf.Rect(x, y, stampSize, stampSize, "D")
		d.font("B", 9)
		d.textCentered(x+stampSize/2, y+stampSize/2, "LIBROS")
		return
	}

	// Fit inside the square, keeping the aspect ratio, centred.
	w, h := stampSize, stampSize
	if ratio := info.Width() / info.Height(); ratio > 1 {
		h = stampSize / ratio
	} else {
		w = stampSize * ratio
	}
	d.pdf.ImageOptions(path, x+(stampSize-w)/2, y+(stampSize-h)/2, w, h, false, opts, 0, "")
}

package labels

import (
	"image/color"
	"log/slog"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/code128"
)

// ORHeader is the service line printed at the top of every OR label.
const ORHeader = "Libros (Ordinario)"

// drawOR draws one barcode label in r for the given tracking code.
func (e *Engine) drawOR(d *document, r Rect, postal, code string) {
	d.pdf.SetLineWidth(1 * pt)
	d.pdf.Rect(r.X, r.Y, r.W, r.H, "D")

	d.font("B", 14)
	d.text(r.X+10*pt, r.Y+24*pt, ORHeader)
	d.textRight(r.X+r.W-10*pt, r.Y+24*pt, "CP "+postal)

	box := Rect{
		X: r.X + 8*pt,
		Y: r.Y + 34*pt,
		W: r.W - 16*pt,
		H: r.H - 70*pt,
	}
	bc, err := code128.Encode(code)
	if err != nil {
		slog.Error("barcode could not be generated", "code", code, "error", err)
		d.pdf.Rect(box.X, box.Y, box.W, box.H, "D")
		d.font("", 8)
		d.textCentered(box.X+box.W/2, box.Y+box.H/2, "ERROR BARCODE")
	} else {
		drawBars(d, bc, box)
	}

	d.font("B", 12)
	d.textCentered(r.X+r.W/2, r.Bottom()-18*pt, code)
}

// drawBars paints the dark modules of a one-dimensional barcode as filled
// rectangles. Modules are one point wide unless that would overflow box.
func drawBars(d *document, bc barcode.Barcode, box Rect) {
	modules := bc.Bounds().Dx()
	if modules == 0 {
		return
	}
	module := 1 * pt
	if float64(modules)*module > box.W {
		module = box.W / float64(modules)
	}

	d.pdf.SetFillColor(0, 0, 0)
	start := -1
	for i := 0; i <= modules; i++ {
		dark := i < modules && isDark(bc.At(bc.Bounds().Min.X+i, bc.Bounds().Min.Y))
		switch {
		case dark && start < 0:
			start = i
		case !dark && start >= 0:
			d.pdf.Rect(box.X+float64(start)*module, box.Y, float64(i-start)*module, box.H, "F")
			start = -1
		}
	}
}

func isDark(c color.Color) bool {
	r, g, b, _ := c.RGBA()
	return r+g+b < 3*0x8000
}

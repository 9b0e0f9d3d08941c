package labels

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"
)

const fontFamily = "Helvetica"

// document wraps an A4 fpdf canvas in millimetres. Text goes through a
// cp1252 translator because the core fonts are not Unicode.
type document struct {
	pdf *fpdf.Fpdf
	tr  func(string) string
}

func newDocument(title string) *document {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetMargins(0, 0, 0)
	pdf.SetTitle(title, true)
	pdf.SetCreator("etiquetas", true)
	return &document{
		pdf: pdf,
		tr:  pdf.UnicodeTranslatorFromDescriptor(""),
	}
}

func (d *document) addPage() {
	d.pdf.AddPage()
}

func (d *document) font(style string, size float64) {
	d.pdf.SetFont(fontFamily, style, size)
}

// text draws s with its baseline at y.
func (d *document) text(x, y float64, s string) {
	d.pdf.Text(x, y, d.tr(s))
}

func (d *document) textRight(right, y float64, s string) {
	d.text(right-d.width(s), y, s)
}

func (d *document) textCentered(center, y float64, s string) {
	d.text(center-d.width(s)/2, y, s)
}

func (d *document) width(s string) float64 {
	return d.pdf.GetStringWidth(d.tr(s))
}

// message writes a single explanatory line near the top of the page.
func (d *document) message(s string) {
	d.font("", 12)
	d.text(50*pt, pageH-800*pt, s)
}

// guides outlines every cell of layout with a dashed line and its size.
func (d *document) guides(l Layout, offsetX, offsetY float64) {
	d.pdf.SetLineWidth(0.1)
	d.pdf.SetDashPattern([]float64{1, 1}, 0)
	d.font("", 6)
	label := fmt.Sprintf("%.1f x %.1f mm", l.CellW, l.CellH)
	for i := 0; i < l.Grid.PerPage(); i++ {
		r := l.Cell(l.Grid.Place(i), offsetX, offsetY)
		d.pdf.Rect(r.X, r.Y, r.W, r.H, "D")
		d.text(r.X+1, r.Y+3, label)
	}
	d.pdf.SetDashPattern([]float64{}, 0)
}

// bytes finalizes the document. A document without pages gets an empty
// one so the output is always a valid PDF.
func (d *document) bytes() ([]byte, error) {
	if d.pdf.PageCount() == 0 {
		d.addPage()
	}
	var buf bytes.Buffer
	if err := d.pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}
	return buf.Bytes(), nil
}

package labels

// Grid is a fixed number of label cells per page.
type Grid struct {
	Cols int
	Rows int
}

// Slot locates a label on a page. All fields are zero-based.
type Slot struct {
	Page int
	Row  int
	Col  int
}

// PerPage returns the number of cells on one page.
func (g Grid) PerPage() int {
	return g.Cols * g.Rows
}

// Place returns the slot for the i-th label. A new page starts whenever i
// is a positive multiple of PerPage.
func (g Grid) Place(i int) Slot {
	return Slot{
		Page: i / g.PerPage(),
		Row:  (i / g.Cols) % g.Rows,
		Col:  i % g.Cols,
	}
}

// Pages returns how many pages n labels occupy. Zero labels still take
// one page.
func (g Grid) Pages(n int) int {
	if n <= 0 {
		return 1
	}
	return (n + g.PerPage() - 1) / g.PerPage()
}

// Rect is a cell rectangle in millimetres, measured from the top-left
// corner of the page.
type Rect struct {
	X, Y, W, H float64
}

// Bottom returns the y coordinate of the lower edge.
func (r Rect) Bottom() float64 {
	return r.Y + r.H
}

// Layout is the fixed geometry of one label sheet.
type Layout struct {
	Grid    Grid
	OriginX float64 // left edge of column 0
	OriginY float64 // top edge of row 0
	PitchX  float64 // distance between column origins
	PitchY  float64 // distance between row origins
	CellW   float64
	CellH   float64
}

// Cell returns the rectangle of a slot after applying user offsets.
// Positive offsetX moves right, positive offsetY moves up.
func (l Layout) Cell(s Slot, offsetX, offsetY float64) Rect {
	return Rect{
		X: l.OriginX + float64(s.Col)*l.PitchX + offsetX,
		Y: l.OriginY + float64(s.Row)*l.PitchY - offsetY,
		W: l.CellW,
		H: l.CellH,
	}
}

// A4 page size in millimetres.
const (
	pageW = 210.0
	pageH = 297.0
)

// pt is one typographic point in millimetres.
const pt = 25.4 / 72

const (
	addressCols       = 3
	addressRows       = 8
	addressCellH      = 36.0
	addressSideMargin = 2.0
	addressTopMargin  = 3.0
	// Each address cell is lifted by half the 6 mm gutter, which cancels
	// the top margin: row 0 starts at the page edge.
	addressLift = 3.0

	orCols   = 2
	orRows   = 5
	orGutter = 6.0
)

// AddressLayout is the 3x8 address sheet.
func AddressLayout() Layout {
	w := (pageW - 2*addressSideMargin) / addressCols
	return Layout{
		Grid:    Grid{Cols: addressCols, Rows: addressRows},
		OriginX: addressSideMargin,
		OriginY: addressTopMargin - addressLift,
		PitchX:  w,
		PitchY:  addressCellH,
		CellW:   w,
		CellH:   addressCellH,
	}
}

// ORLayout is the 2x5 barcode sheet: cells fill the page with a gutter
// split evenly around each label.
func ORLayout() Layout {
	pitchX := pageW / orCols
	pitchY := pageH / orRows
	return Layout{
		Grid:    Grid{Cols: orCols, Rows: orRows},
		OriginX: orGutter / 2,
		OriginY: orGutter / 2,
		PitchX:  pitchX,
		PitchY:  pitchY,
		CellW:   pitchX - orGutter,
		CellH:   pitchY - orGutter,
	}
}

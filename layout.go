package pdfinvert

// Sheet geometry in PDF points (1/72 inch). Origin is the top-left corner of the
// sheet and y grows downward.
const (
	SheetWidth  = 841.89 // landscape A4
	SheetHeight = 595.28

	Margin = 18.0 // blank border on every side
	Gutter = 12.0 // gap between neighbouring cells

	Columns       = 3
	Rows          = 2
	CellsPerSheet = Columns * Rows
)

// Rect is an axis-aligned rectangle in points.
type Rect struct {
	X, Y, W, H float64
}

// Contains reports whether inner lies entirely inside r, allowing eps of
// floating-point slack on every edge.
func (r Rect) Contains(inner Rect, eps float64) bool {
	return inner.X >= r.X-eps &&
		inner.Y >= r.Y-eps &&
		inner.X+inner.W <= r.X+r.W+eps &&
		inner.Y+inner.H <= r.Y+r.H+eps
}

// Cell is one of the six fixed slots of a sheet.
type Cell struct {
	Row, Col int
	Bounds   Rect
}

// Index returns the row-major position of the cell, 0 through 5.
func (c Cell) Index() int { return c.Row*Columns + c.Col }

// Placement positions one page image inside a cell.
type Placement struct {
	Cell  Cell
	Rect  Rect // contain-fit rectangle, centered in Cell.Bounds
	Image *PageImage
}

// Sheet is one output page holding 1 to CellsPerSheet placements.
type Sheet struct {
	Index      int
	Placements []Placement
}

var sheetCells = computeCells()

func computeCells() [CellsPerSheet]Cell {
	w := (SheetWidth - 2*Margin - (Columns-1)*Gutter) / Columns
	h := (SheetHeight - 2*Margin - (Rows-1)*Gutter) / Rows

	var cells [CellsPerSheet]Cell
	for row := range Rows {
		for col := range Columns {
			cells[row*Columns+col] = Cell{
				Row: row,
				Col: col,
				Bounds: Rect{
					X: Margin + float64(col)*(w+Gutter),
					Y: Margin + float64(row)*(h+Gutter),
					W: w,
					H: h,
				},
			}
		}
	}
	return cells
}

// Cells returns the six cells of a sheet in row-major order.
func Cells() [CellsPerSheet]Cell {
	return sheetCells
}

// SheetCount returns how many sheets pages images need.
func SheetCount(pages int) int {
	return (pages + CellsPerSheet - 1) / CellsPerSheet
}

// Pack groups images into sheets of CellsPerSheet, preserving order and filling
// cells row-major. Only the last sheet may be partial. Every image must have
// non-zero dimensions; Rasterize guarantees this.
func Pack(images []*PageImage) []Sheet {
	if len(images) == 0 {
		return nil
	}

	sheets := make([]Sheet, 0, SheetCount(len(images)))
	for start := 0; start < len(images); start += CellsPerSheet {
		chunk := images[start:min(start+CellsPerSheet, len(images))]
		sheet := Sheet{
			Index:      len(sheets),
			Placements: make([]Placement, len(chunk)),
		}
		for i, img := range chunk {
			cell := sheetCells[i]
			sheet.Placements[i] = Placement{
				Cell:  cell,
				Rect:  Fit(cell.Bounds, float64(img.Width()), float64(img.Height())),
				Image: img,
			}
		}
		sheets = append(sheets, sheet)
	}
	return sheets
}

// Fit returns the largest rectangle with aspect ratio w:h that fits inside box,
// centered on both axes. w and h must be positive.
func Fit(box Rect, w, h float64) Rect {
	scale := min(box.W/w, box.H/h)
	fw, fh := w*scale, h*scale
	return Rect{
		X: box.X + (box.W-fw)/2,
		Y: box.Y + (box.H-fh)/2,
		W: fw,
		H: fh,
	}
}

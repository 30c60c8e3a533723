package pdfinvert

import (
	"image/color"
	"math"
	"testing"
)

const geomEps = 1e-9

func TestCells_Geometry(t *testing.T) {
	t.Parallel()

	cells := Cells()
	sheet := Rect{X: Margin, Y: Margin, W: SheetWidth - 2*Margin, H: SheetHeight - 2*Margin}

	for i, c := range cells {
		if c.Index() != i {
			t.Errorf("cells[%d].Index() = %d", i, c.Index())
		}
		if c.Row != i/Columns || c.Col != i%Columns {
			t.Errorf("cells[%d] = (row %d, col %d), want row-major (%d, %d)", i, c.Row, c.Col, i/Columns, i%Columns)
		}
		if !sheet.Contains(c.Bounds, geomEps) {
			t.Errorf("cells[%d] %+v leaves the printable area", i, c.Bounds)
		}
		if math.Abs(c.Bounds.W-cells[0].Bounds.W) > geomEps || math.Abs(c.Bounds.H-cells[0].Bounds.H) > geomEps {
			t.Errorf("cells[%d] size %.3fx%.3f differs from cell 0", i, c.Bounds.W, c.Bounds.H)
		}
	}

	// Neighbours are exactly one gutter apart.
	if gap := cells[1].Bounds.X - (cells[0].Bounds.X + cells[0].Bounds.W); math.Abs(gap-Gutter) > geomEps {
		t.Errorf("column gap = %.4f, want %.1f", gap, Gutter)
	}
	if gap := cells[3].Bounds.Y - (cells[0].Bounds.Y + cells[0].Bounds.H); math.Abs(gap-Gutter) > geomEps {
		t.Errorf("row gap = %.4f, want %.1f", gap, Gutter)
	}

	// The grid reaches the far margins.
	last := cells[CellsPerSheet-1].Bounds
	if math.Abs(last.X+last.W-(SheetWidth-Margin)) > 1e-6 {
		t.Errorf("right edge = %.4f, want %.4f", last.X+last.W, SheetWidth-Margin)
	}
	if math.Abs(last.Y+last.H-(SheetHeight-Margin)) > 1e-6 {
		t.Errorf("bottom edge = %.4f, want %.4f", last.Y+last.H, SheetHeight-Margin)
	}
}

func TestFit(t *testing.T) {
	t.Parallel()

	box := Rect{X: 10, Y: 20, W: 200, H: 100}

	tests := []struct {
		name string
		w, h float64
		want Rect
	}{
		{
			name: "same aspect fills the cell",
			w:    400, h: 200,
			want: box,
		},
		{
			name: "wider image is letterboxed vertically",
			w:    400, h: 100,
			want: Rect{X: 10, Y: 45, W: 200, H: 50},
		},
		{
			name: "taller image is pillarboxed horizontally",
			w:    100, h: 200,
			want: Rect{X: 85, Y: 20, W: 50, H: 100},
		},
		{
			name: "small image is scaled up to the cell",
			w:    2, h: 1,
			want: box,
		},
		{
			name: "square image",
			w:    50, h: 50,
			want: Rect{X: 60, Y: 20, W: 100, H: 100},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := Fit(box, tt.w, tt.h)
			if !rectAlmostEqual(got, tt.want) {
				t.Errorf("Fit(%+v, %v, %v) = %+v, want %+v", box, tt.w, tt.h, got, tt.want)
			}
		})
	}
}

func TestFit_Properties(t *testing.T) {
	t.Parallel()

	sizes := [][2]float64{
		{1190, 1684}, // A4 portrait at 2x
		{1684, 1190}, // A4 landscape at 2x
		{1224, 1584}, // US letter at 2x
		{3000, 10},   // extreme strip
		{10, 3000},
		{1, 1},
	}

	for _, cell := range Cells() {
		for _, s := range sizes {
			got := Fit(cell.Bounds, s[0], s[1])

			if !cell.Bounds.Contains(got, 1e-9) {
				t.Errorf("cell %d, image %vx%v: %+v not contained in %+v", cell.Index(), s[0], s[1], got, cell.Bounds)
			}

			wantRatio := s[0] / s[1]
			if ratio := got.W / got.H; math.Abs(ratio-wantRatio)/wantRatio > 1e-9 {
				t.Errorf("cell %d, image %vx%v: aspect %.6f, want %.6f", cell.Index(), s[0], s[1], ratio, wantRatio)
			}

			// Contain fit touches at least one pair of edges.
			if math.Abs(got.W-cell.Bounds.W) > 1e-9 && math.Abs(got.H-cell.Bounds.H) > 1e-9 {
				t.Errorf("cell %d, image %vx%v: %+v is not maximal", cell.Index(), s[0], s[1], got)
			}

			// Centered: equal leftover on both sides of each axis.
			left := got.X - cell.Bounds.X
			right := cell.Bounds.X + cell.Bounds.W - (got.X + got.W)
			top := got.Y - cell.Bounds.Y
			bottom := cell.Bounds.Y + cell.Bounds.H - (got.Y + got.H)
			if math.Abs(left-right) > 1e-9 || math.Abs(top-bottom) > 1e-9 {
				t.Errorf("cell %d, image %vx%v: not centered (l=%.4f r=%.4f t=%.4f b=%.4f)",
					cell.Index(), s[0], s[1], left, right, top, bottom)
			}
		}
	}
}

func TestSheetCount(t *testing.T) {
	t.Parallel()

	tests := []struct {
		pages int
		want  int
	}{
		{0, 0},
		{1, 1},
		{5, 1},
		{6, 1},
		{7, 2},
		{12, 2},
		{13, 3},
	}

	for _, tt := range tests {
		if got := SheetCount(tt.pages); got != tt.want {
			t.Errorf("SheetCount(%d) = %d, want %d", tt.pages, got, tt.want)
		}
	}
}

func TestPack(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		pages     int
		wantFills []int
	}{
		{name: "single page", pages: 1, wantFills: []int{1}},
		{name: "partial sheet", pages: 5, wantFills: []int{5}},
		{name: "exactly one sheet", pages: 6, wantFills: []int{6}},
		{name: "seventh page starts a sheet", pages: 7, wantFills: []int{6, 1}},
		{name: "two full sheets", pages: 12, wantFills: []int{6, 6}},
		{name: "three sheets", pages: 17, wantFills: []int{6, 6, 5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			images := make([]*PageImage, tt.pages)
			for i := range images {
				images[i] = solidImage(0, i, 40, 60, color.RGBA{A: 255})
			}

			sheets := Pack(images)
			if len(sheets) != len(tt.wantFills) {
				t.Fatalf("Pack(%d images) = %d sheets, want %d", tt.pages, len(sheets), len(tt.wantFills))
			}

			next := 0
			for s, sheet := range sheets {
				if sheet.Index != s {
					t.Errorf("sheets[%d].Index = %d", s, sheet.Index)
				}
				if len(sheet.Placements) != tt.wantFills[s] {
					t.Errorf("sheets[%d] holds %d images, want %d", s, len(sheet.Placements), tt.wantFills[s])
				}
				for i, p := range sheet.Placements {
					if p.Image != images[next] {
						t.Errorf("sheets[%d].Placements[%d] = page %d, want page %d", s, i, p.Image.Page, next)
					}
					if p.Cell.Index() != i {
						t.Errorf("sheets[%d].Placements[%d] in cell %d, want %d", s, i, p.Cell.Index(), i)
					}
					if !p.Cell.Bounds.Contains(p.Rect, geomEps) {
						t.Errorf("sheets[%d].Placements[%d] rect %+v escapes cell %+v", s, i, p.Rect, p.Cell.Bounds)
					}
					next++
				}
			}
			if next != tt.pages {
				t.Errorf("placed %d images, want %d", next, tt.pages)
			}
		})
	}
}

func TestPack_Empty(t *testing.T) {
	t.Parallel()

	if sheets := Pack(nil); sheets != nil {
		t.Errorf("Pack(nil) = %v, want nil", sheets)
	}
}

func TestPack_MixedAspectRatios(t *testing.T) {
	t.Parallel()

	images := []*PageImage{
		solidImage(0, 0, 1190, 1684, color.RGBA{A: 255}),
		solidImage(0, 1, 1684, 1190, color.RGBA{A: 255}),
		solidImage(1, 0, 500, 500, color.RGBA{A: 255}),
	}

	for _, p := range Pack(images)[0].Placements {
		want := float64(p.Image.Width()) / float64(p.Image.Height())
		if got := p.Rect.W / p.Rect.H; math.Abs(got-want)/want > 1e-9 {
			t.Errorf("input %d page %d: placed aspect %.6f, want %.6f", p.Image.Input, p.Image.Page, got, want)
		}
	}
}

func rectAlmostEqual(a, b Rect) bool {
	return math.Abs(a.X-b.X) < 1e-9 &&
		math.Abs(a.Y-b.Y) < 1e-9 &&
		math.Abs(a.W-b.W) < 1e-9 &&
		math.Abs(a.H-b.H) < 1e-9
}

package pdfinvert

// Notes:
// - Fixture PDFs are generated with gopdf so unit tests need no files on disk.
// - fakeSource stands in for a MuPDF document: tests that do not need real
//   rasterization inject it through Composer.open. Real MuPDF rendering is covered
//   by the integration tests.
// - recordingRenderer captures sheet contents before delegating to the real
//   gopdf renderer, so output page counts are still verified with pdfcpu.

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"sync"
	"testing"

	"github.com/signintech/gopdf"
)

// ---------------------------------------------------------------------------
// Fixture PDFs
// ---------------------------------------------------------------------------

// A4 portrait in points.
var a4Portrait = [2]float64{595.28, 841.89}

// makePDF builds a PDF with one page per size (width, height in points).
// label makes otherwise identical fixtures byte-distinct.
func makePDF(t *testing.T, label string, sizes ...[2]float64) []byte {
	t.Helper()

	pdf := gopdf.GoPdf{}
	pdf.Start(gopdf.Config{PageSize: gopdf.Rect{W: a4Portrait[0], H: a4Portrait[1]}})
	pdf.SetInfo(gopdf.PdfInfo{Title: label})
	for i, size := range sizes {
		pdf.AddPageWithOption(gopdf.PageOption{PageSize: &gopdf.Rect{W: size[0], H: size[1]}})
		pdf.SetFillColor(uint8(10*i), 0, 0)
		pdf.RectFromUpperLeftWithStyle(10, 10, size[0]/2, size[1]/2, "F")
	}

	var buf bytes.Buffer
	if _, err := pdf.WriteTo(&buf); err != nil {
		t.Fatalf("building fixture %q: %v", label, err)
	}
	return buf.Bytes()
}

// makePagesPDF builds an A4 portrait PDF with n pages.
func makePagesPDF(t *testing.T, label string, n int) []byte {
	t.Helper()
	sizes := make([][2]float64, n)
	for i := range sizes {
		sizes[i] = a4Portrait
	}
	return makePDF(t, label, sizes...)
}

// zeroPagePDF returns a structurally complete PDF whose page tree is empty.
func zeroPagePDF() []byte {
	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [] /Count 0 >>",
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}
	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(objects)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)
	return buf.Bytes()
}

// ---------------------------------------------------------------------------
// Fake page source
// ---------------------------------------------------------------------------

var errFakeRender = errors.New("malformed content stream")

// fakeSource renders solid pages of fixed pixel sizes.
type fakeSource struct {
	sizes  []image.Point // pixel size of each page at Zoom
	failAt int           // page index that fails to render, -1 for none
	fill   color.RGBA

	mu      sync.Mutex
	closed  int
	renders int
}

func newFakeSource(pages int) *fakeSource {
	sizes := make([]image.Point, pages)
	for i := range sizes {
		sizes[i] = image.Pt(1190, 1684)
	}
	return &fakeSource{sizes: sizes, failAt: -1, fill: color.RGBA{R: 250, G: 240, B: 230, A: 255}}
}

func (f *fakeSource) NumPage() int { return len(f.sizes) }

func (f *fakeSource) ImageDPI(n int, dpi float64) (*image.RGBA, error) {
	f.mu.Lock()
	f.renders++
	f.mu.Unlock()

	if n == f.failAt {
		return nil, errFakeRender
	}
	if n < 0 || n >= len(f.sizes) {
		return nil, fmt.Errorf("page %d out of range", n)
	}
	img := image.NewRGBA(image.Rectangle{Max: f.sizes[n]})
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = f.fill.R, f.fill.G, f.fill.B, f.fill.A
	}
	return img, nil
}

func (f *fakeSource) Bound(n int) (image.Rectangle, error) {
	if n < 0 || n >= len(f.sizes) {
		return image.Rectangle{}, fmt.Errorf("page %d out of range", n)
	}
	s := f.sizes[n].Div(int(Zoom))
	return image.Rectangle{Max: s}, nil
}

func (f *fakeSource) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed++
	return nil
}

// fakeOpener serves fakeSources keyed by the exact input bytes.
type fakeOpener struct {
	mu      sync.Mutex
	sources map[string]*fakeSource
	opened  []*fakeSource
}

func newFakeOpener() *fakeOpener {
	return &fakeOpener{sources: make(map[string]*fakeSource)}
}

func (o *fakeOpener) add(data []byte, src *fakeSource) {
	o.sources[string(data)] = src
}

func (o *fakeOpener) open(data []byte) (pageSource, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	src, ok := o.sources[string(data)]
	if !ok {
		return nil, errors.New("unknown fixture")
	}
	o.opened = append(o.opened, src)
	return src, nil
}

// allClosed reports whether every opened source was closed exactly once.
func (o *fakeOpener) allClosed() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	for _, src := range o.opened {
		if src.closed != 1 {
			return false
		}
	}
	return true
}

// ---------------------------------------------------------------------------
// Recording renderer
// ---------------------------------------------------------------------------

// placed records what was drawn in one cell.
type placed struct {
	input, page int
	cell        int
	rect        Rect
	first       color.RGBA // top-left pixel at render time
}

type recordingRenderer struct {
	sheets [][]placed
	err    error
	panics bool
	real   sheetRenderer
}

func newRecordingRenderer() *recordingRenderer {
	return &recordingRenderer{real: &gopdfRenderer{imageDPI: MinImageDPI}}
}

func (r *recordingRenderer) Render(sheets []Sheet) ([]byte, error) {
	if r.panics {
		panic("renderer exploded")
	}
	if r.err != nil {
		return nil, r.err
	}
	for _, s := range sheets {
		var row []placed
		for _, p := range s.Placements {
			row = append(row, placed{
				input: p.Image.Input,
				page:  p.Image.Page,
				cell:  p.Cell.Index(),
				rect:  p.Rect,
				first: p.Image.Image().RGBAAt(0, 0),
			})
		}
		r.sheets = append(r.sheets, row)
	}
	return r.real.Render(sheets)
}

// newTestComposer wires fakes into a Composer.
func newTestComposer(opener *fakeOpener, renderer sheetRenderer) *Composer {
	c := NewComposer()
	c.open = opener.open
	c.renderer = renderer
	return c
}

// solidImage returns a w x h page image filled with c.
func solidImage(input, page, w, h int, c color.RGBA) *PageImage {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	return newPageImage(input, page, img)
}

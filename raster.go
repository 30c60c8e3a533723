package pdfinvert

import (
	"fmt"
	"image"
	"iter"

	"github.com/gen2brain/go-fitz"
	"golang.org/x/image/draw"
)

// Rasterization constants.
const (
	// Zoom is the uniform scale applied to every page, relative to 72 DPI.
	Zoom = 2.0

	pointsPerInch = 72.0
)

// pageSource is the part of a parsed PDF the pipeline needs.
// *fitz.Document implements it; tests substitute in-memory fakes.
type pageSource interface {
	NumPage() int
	ImageDPI(pageNumber int, dpi float64) (*image.RGBA, error)
	Bound(pageNumber int) (image.Rectangle, error)
	Close() error
}

var _ pageSource = (*fitz.Document)(nil)

// sourceOpener parses a PDF buffer into a pageSource.
type sourceOpener func(data []byte) (pageSource, error)

func openFitz(data []byte) (pageSource, error) {
	return fitz.NewFromMemory(data)
}

// SourceDocument is an open PDF. Close it when done; it owns native MuPDF memory.
type SourceDocument struct {
	src   pageSource
	input int
}

// OpenDocument parses data with MuPDF. Call Validate first to get a precise reason
// for malformed input; OpenDocument only reports that the buffer could not be opened.
func OpenDocument(data []byte) (*SourceDocument, error) {
	return openDocument(openFitz, data, 0)
}

func openDocument(open sourceOpener, data []byte, input int) (*SourceDocument, error) {
	src, err := open(data)
	if err != nil {
		return nil, invalidInput(ErrCorruptPDF, err)
	}
	return &SourceDocument{src: src, input: input}, nil
}

// PageCount returns the number of pages.
func (d *SourceDocument) PageCount() int {
	return d.src.NumPage()
}

// PageSize returns the intrinsic size of page n (zero-based) in points.
func (d *SourceDocument) PageSize(n int) (width, height float64, err error) {
	b, err := d.src.Bound(n)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: page %d bounds: %v", ErrRender, n+1, err)
	}
	return float64(b.Dx()), float64(b.Dy()), nil
}

// Close releases the document. Safe to call more than once.
func (d *SourceDocument) Close() error {
	if d.src == nil {
		return nil
	}
	err := d.src.Close()
	d.src = nil
	return err
}

// PageImage is one rasterized source page.
type PageImage struct {
	Input int // index of the source document, in upload order
	Page  int // zero-based page index within the source document

	rgba          *image.RGBA
	width, height int
}

func newPageImage(input, page int, rgba *image.RGBA) *PageImage {
	b := rgba.Bounds()
	return &PageImage{Input: input, Page: page, rgba: rgba, width: b.Dx(), height: b.Dy()}
}

// Width returns the pixel width. It stays valid after Release.
func (p *PageImage) Width() int { return p.width }

// Height returns the pixel height. It stays valid after Release.
func (p *PageImage) Height() int { return p.height }

// Image returns the pixel buffer, or nil once released.
func (p *PageImage) Image() *image.RGBA { return p.rgba }

// Release drops the pixel buffer.
func (p *PageImage) Release() { p.rgba = nil }

// Rasterize returns the pages of doc as a lazy sequence, in page order, rendered at Zoom.
// Every call starts again at the first page. The sequence stops after the first page
// that fails to render, yielding an error matching ErrRender.
// Yielded images belong to the caller.
func Rasterize(doc *SourceDocument) iter.Seq2[*PageImage, error] {
	return func(yield func(*PageImage, error) bool) {
		for n := range doc.PageCount() {
			img, err := doc.renderPage(n)
			if err != nil {
				yield(nil, err)
				return
			}
			if !yield(img, nil) {
				return
			}
		}
	}
}

func (d *SourceDocument) renderPage(n int) (*PageImage, error) {
	rgba, err := d.src.ImageDPI(n, Zoom*pointsPerInch)
	if err != nil {
		return nil, fmt.Errorf("%w: page %d: %v", ErrRender, n+1, err)
	}
	if rgba == nil || rgba.Bounds().Empty() {
		return nil, fmt.Errorf("%w: page %d rendered to an empty image", ErrRender, n+1)
	}
	if rgba.Bounds().Min != (image.Point{}) || !rgba.Opaque() {
		rgba = flatten(rgba)
	}
	return newPageImage(d.input, n, rgba), nil
}

// flatten composites img over opaque white into a zero-origin RGBA buffer,
// so inversion treats transparent areas as paper.
func flatten(img image.Image) *image.RGBA {
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), image.White, image.Point{}, draw.Src)
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Over)
	return dst
}

package pdfinvert

import (
	"bytes"
	"fmt"
	"image"
	"math"

	"github.com/signintech/gopdf"
	"golang.org/x/image/draw"
)

// Embedded image resolution bounds, in pixels per inch of placed size.
const (
	MinImageDPI     = 72
	MaxImageDPI     = 600
	DefaultImageDPI = 144
)

// sheetRenderer turns packed sheets into a PDF document.
type sheetRenderer interface {
	Render(sheets []Sheet) ([]byte, error)
}

var _ sheetRenderer = (*gopdfRenderer)(nil)

// gopdfRenderer draws each sheet on a landscape A4 page with gopdf.
type gopdfRenderer struct {
	imageDPI float64 // 0 embeds images at full raster resolution
	title    string
}

// Render writes one page per sheet, in order. Each placement's pixel buffer is
// released as soon as its sheet is complete.
func (r *gopdfRenderer) Render(sheets []Sheet) ([]byte, error) {
	pdf := gopdf.GoPdf{}
	pdf.Start(gopdf.Config{PageSize: gopdf.Rect{W: SheetWidth, H: SheetHeight}})
	pdf.SetInfo(gopdf.PdfInfo{
		Title:   r.title,
		Creator: "go-pdfinvert",
	})

	for _, sheet := range sheets {
		pdf.AddPage()
		for _, p := range sheet.Placements {
			img := p.Image.Image()
			if img == nil {
				return nil, fmt.Errorf("sheet %d, cell %d: image buffer already released", sheet.Index+1, p.Cell.Index()+1)
			}
			src := downsample(img, p.Rect, r.imageDPI)
			if err := pdf.ImageFrom(src, p.Rect.X, p.Rect.Y, &gopdf.Rect{W: p.Rect.W, H: p.Rect.H}); err != nil {
				return nil, fmt.Errorf("sheet %d, cell %d: %w", sheet.Index+1, p.Cell.Index()+1, err)
			}
		}
		for _, p := range sheet.Placements {
			p.Image.Release()
		}
	}

	var buf bytes.Buffer
	if _, err := pdf.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("writing PDF: %w", err)
	}
	return buf.Bytes(), nil
}

// downsample shrinks img to at most dpi pixels per inch of the placed rectangle.
// Images already at or below that density are returned as is.
func downsample(img *image.RGBA, placed Rect, dpi float64) image.Image {
	if dpi <= 0 {
		return img
	}
	w := int(math.Ceil(placed.W / pointsPerInch * dpi))
	h := int(math.Ceil(placed.H / pointsPerInch * dpi))
	b := img.Bounds()
	if w <= 0 || h <= 0 || (w >= b.Dx() && h >= b.Dy()) {
		return img
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

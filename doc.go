// Package pdfinvert turns PDF documents into ink-saving handouts: every page is
// rasterized, color inverted, and tiled six per landscape A4 sheet (3 columns x 2 rows).
//
// # Quick Start
//
// Create a composer and merge uploads into one document:
//
//	comp := pdfinvert.NewComposer()
//
//	result, err := comp.Compose(ctx, []pdfinvert.Input{
//	    {Name: "slides.pdf", Data: slides},
//	    {Name: "notes.pdf", Data: notes},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile("handout.pdf", result.PDF, 0644)
//
// The result reports how many source pages were placed (result.Pages) and how many
// sheets were produced (result.Sheets, always ceil(Pages/6)).
//
// # Pipeline
//
//  1. Validate: each input must be a readable PDF with at least one page (pdfcpu)
//  2. Rasterize: each page is rendered at 2x zoom (MuPDF via go-fitz)
//  3. Invert: every RGB channel value v becomes 255-v
//  4. Pack: pages fill cells row-major, six per sheet, contain-fit and centered
//  5. Render: one landscape A4 page per sheet (gopdf)
//
// The steps are also exported individually: Validate, OpenDocument, Rasterize,
// Invert and Pack.
//
// # Errors
//
// Compose returns an *Error carrying the failing Stage, the offending input index and
// a reason. Use errors.Is with ErrInvalidInput, ErrRender or ErrComposition to
// classify it, and with ErrEmptyInput, ErrNotPDF, ErrEncrypted, ErrCorruptPDF or
// ErrNoPages for the precise invalid-input reason.
//
// # Requirements
//
// Rendering uses MuPDF through go-fitz, which bundles static MuPDF libraries for
// common platforms and needs cgo (or the nocgo build tag with a shared libmupdf).
package pdfinvert

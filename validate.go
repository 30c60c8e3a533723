package pdfinvert

import (
	"bytes"
	"errors"
	"fmt"
	"sync"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// headerScanLimit is how far into the buffer the %PDF- marker may start.
// Readers tolerate leading garbage up to 1 KiB.
const headerScanLimit = 1024

var pdfHeader = []byte("%PDF-")

// pdfcpu writes a config directory under the user's home on first use unless told not to.
var disableConfigDir sync.Once

// newPDFConfig returns a pdfcpu configuration that accepts the small format deviations
// common in real-world files; strict mode rejects PDFs MuPDF renders fine.
func newPDFConfig() *model.Configuration {
	disableConfigDir.Do(api.DisableConfigDir)
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return conf
}

// DocumentInfo describes a validated input document.
type DocumentInfo struct {
	Pages    int    `json:"pages"`
	Title    string `json:"title,omitempty"`
	Author   string `json:"author,omitempty"`
	Creator  string `json:"creator,omitempty"`
	Producer string `json:"producer,omitempty"`
}

// Validate checks that data is a readable PDF with at least one page.
// The returned error matches ErrInvalidInput and one reason sentinel
// (ErrEmptyInput, ErrNotPDF, ErrEncrypted, ErrCorruptPDF, ErrNoPages).
// Validate never mutates data.
func Validate(data []byte) error {
	_, err := Inspect(data)
	return err
}

// Inspect validates data like Validate and returns page count and metadata.
func Inspect(data []byte) (info *DocumentInfo, err error) {
	if len(data) == 0 {
		return nil, invalidInput(ErrEmptyInput, nil)
	}
	if !bytes.Contains(data[:min(len(data), headerScanLimit)], pdfHeader) {
		return nil, invalidInput(ErrNotPDF, nil)
	}

	// pdfcpu panics on some malformed object graphs.
	defer func() {
		if r := recover(); r != nil {
			info = nil
			err = invalidInput(ErrCorruptPDF, fmt.Errorf("%v", r))
		}
	}()

	ctx, err := api.ReadValidateAndOptimize(bytes.NewReader(data), newPDFConfig())
	if err != nil {
		if errors.Is(err, pdfcpu.ErrWrongPassword) {
			return nil, invalidInput(ErrEncrypted, nil)
		}
		return nil, invalidInput(ErrCorruptPDF, err)
	}
	if err := ctx.EnsurePageCount(); err != nil {
		return nil, invalidInput(ErrCorruptPDF, err)
	}
	if ctx.PageCount < 1 {
		return nil, invalidInput(ErrNoPages, nil)
	}

	return &DocumentInfo{
		Pages:    ctx.PageCount,
		Title:    ctx.XRefTable.Title,
		Author:   ctx.XRefTable.Author,
		Creator:  ctx.XRefTable.Creator,
		Producer: ctx.XRefTable.Producer,
	}, nil
}

// countPages returns the page count of a PDF produced by this package.
// Used to verify rendered output before it is handed to the caller.
func countPages(data []byte) (int, error) {
	return api.PageCount(bytes.NewReader(data), newPDFConfig())
}

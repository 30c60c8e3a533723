package main

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/klauspost/compress/zip"

	"github.com/alnah/go-pdfinvert"
	"github.com/alnah/go-pdfinvert/internal/config"
	"github.com/alnah/go-pdfinvert/internal/fileutil"
)

// archiveName is the file written in --zip mode, inside output.dir.
const archiveName = "processed_pdfs.zip"

// composeZip composes every input on its own and bundles the outputs into one
// archive. Any failure aborts the batch and nothing is written.
func composeZip(ctx context.Context, comp Composer, files []inputFile, cfg *config.Config, f commonFlags, env *Environment) error {
	start := env.Now()

	results, err := comp.ComposeEach(ctx, inputsOf(files))
	if err != nil {
		return err
	}

	archive, err := buildArchive(results, start)
	if err != nil {
		return fmt.Errorf("%w: building archive: %w", ErrWriteOutput, err)
	}

	path := filepath.Join(cfg.Output.Dir, archiveName)
	if err := writeOutput(path, archive); err != nil {
		return err
	}

	if f.quiet {
		return nil
	}
	if f.verbose {
		for i, res := range results {
			fmt.Fprintf(env.Stdout, "  %s: %s -> %s (%s)\n",
				archiveEntryName(i), files[i].Path, archiveName, describeResult(res))
		}
	}
	fmt.Fprintf(env.Stdout, "Created %s (%s, %s)\n",
		path, plural(len(results), "file"), fileutil.FormatSize(int64(len(archive))))
	return nil
}

// buildArchive deflates each result into processed_pdf_<n>.pdf, in input order.
func buildArchive(results []*pdfinvert.Result, modified time.Time) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	for i, res := range results {
		w, err := zw.CreateHeader(&zip.FileHeader{
			Name:     archiveEntryName(i),
			Method:   zip.Deflate,
			Modified: modified,
		})
		if err != nil {
			return nil, err
		}
		if _, err := w.Write(res.PDF); err != nil {
			return nil, err
		}
	}

	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// archiveEntryName names the i-th (zero-based) entry.
func archiveEntryName(i int) string {
	return fmt.Sprintf("processed_pdf_%d.pdf", i+1)
}

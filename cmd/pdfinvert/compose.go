package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/alnah/go-pdfinvert"
	"github.com/alnah/go-pdfinvert/internal/config"
	"github.com/alnah/go-pdfinvert/internal/fileutil"
	"github.com/alnah/go-pdfinvert/internal/hints"
)

// File permission constants.
const (
	dirPermissions  = 0o750 // rwxr-x---: owner full, group read+execute
	filePermissions = 0o644 // rw-r--r--: owner read+write, others read
)

// Sentinel errors for compose operations.
var (
	ErrNoInput       = errors.New("no input files specified")
	ErrReadPDF       = errors.New("failed to read input file")
	ErrWriteOutput   = errors.New("failed to write output file")
	ErrInputTooLarge = errors.New("input file exceeds size limit")
)

// inputFile is a PDF read from disk.
type inputFile struct {
	Path string
	pdfinvert.Input
}

// runCompose inverts and tiles the given PDFs into one merged output, one output
// per input (--separate), or a zip archive of per-input outputs (--zip).
func runCompose(ctx context.Context, args []string, env *Environment) error {
	flags, paths, err := parseComposeFlags(args, env.Stderr)
	if err != nil {
		return err
	}

	cfg, err := resolveConfig(flags.common.config, env)
	if err != nil {
		return err
	}
	mergeFlags(flags, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}
	if !cfg.Output.Separate && !fileutil.HasPDFExtension(cfg.Output.Path) {
		return fmt.Errorf("%w: output %q must end in .pdf", ErrUsage, cfg.Output.Path)
	}

	if len(paths) == 0 {
		return ErrNoInput
	}
	files, err := readInputs(paths, cfg.Limits.MaxInputMB)
	if err != nil {
		return err
	}

	log := newLogger(cfg, flags.common, env)
	comp := env.NewComposer(
		pdfinvert.WithLogger(log),
		pdfinvert.WithImageDPI(cfg.Render.ImageDPI),
		pdfinvert.WithTitle(cfg.Render.Title),
	)

	switch {
	case cfg.Output.Zip:
		return composeZip(ctx, comp, files, cfg, flags.common, env)
	case cfg.Output.Separate:
		return composeSeparate(ctx, comp, files, cfg, flags.common, env)
	default:
		return composeMerged(ctx, comp, files, cfg, flags.common, env)
	}
}

// mergeFlags applies CLI flag values over the configuration.
func mergeFlags(f *composeFlags, cfg *config.Config) {
	if f.output.path != "" {
		cfg.Output.Path = f.output.path
	}
	if f.output.dir != "" {
		cfg.Output.Dir = f.output.dir
	}
	if f.output.separate {
		cfg.Output.Separate = true
	}
	// --zip implies --separate
	if f.output.zip {
		cfg.Output.Separate = true
		cfg.Output.Zip = true
	}
	if f.render.imageDPI != 0 {
		cfg.Render.ImageDPI = f.render.imageDPI
	}
	if f.render.title != "" {
		cfg.Render.Title = f.render.title
	}
	if f.workers != 0 {
		cfg.Workers = f.workers
	}
}

// readInputs loads every path, rejecting directories and files over limitMB.
// Content is not checked here; the composer validates it.
func readInputs(paths []string, limitMB int) ([]inputFile, error) {
	limit := int64(limitMB) << 20
	files := make([]inputFile, 0, len(paths))

	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("%w %s: %w", ErrReadPDF, p, err)
		}
		if info.IsDir() {
			return nil, fmt.Errorf("%w %s: is a directory", ErrReadPDF, p)
		}
		if info.Size() > limit {
			return nil, fmt.Errorf("%w: %s is %s%s",
				ErrInputTooLarge, p, fileutil.FormatSize(info.Size()), hints.ForInputTooLarge(limitMB))
		}

		data, err := os.ReadFile(p) // #nosec G304 -- input path is user-provided
		if err != nil {
			return nil, fmt.Errorf("%w %s: %w", ErrReadPDF, p, err)
		}
		files = append(files, inputFile{
			Path:  p,
			Input: pdfinvert.Input{Name: filepath.Base(p), Data: data},
		})
	}

	return files, nil
}

// inputsOf returns the composer inputs in upload order.
func inputsOf(files []inputFile) []pdfinvert.Input {
	inputs := make([]pdfinvert.Input, len(files))
	for i, f := range files {
		inputs[i] = f.Input
	}
	return inputs
}

// composeMerged writes all inputs into cfg.Output.Path.
func composeMerged(ctx context.Context, comp Composer, files []inputFile, cfg *config.Config, f commonFlags, env *Environment) error {
	start := env.Now()

	res, err := comp.Compose(ctx, inputsOf(files))
	if err != nil {
		return err
	}
	if err := writeOutput(cfg.Output.Path, res.PDF); err != nil {
		return err
	}

	if f.quiet {
		return nil
	}
	if f.verbose {
		fmt.Fprintf(env.Stdout, "%d inputs -> %s (%s, %v)\n",
			len(files), cfg.Output.Path, describeResult(res), env.Now().Sub(start).Round(time.Millisecond))
		return nil
	}
	fmt.Fprintf(env.Stdout, "Created %s (%s)\n", cfg.Output.Path, describeResult(res))
	return nil
}

// writeOutput creates the parent directory and replaces path atomically.
func writeOutput(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, dirPermissions); err != nil {
			return fmt.Errorf("%w: creating %s: %w%s", ErrWriteOutput, dir, err, hints.ForOutputDirectory())
		}
	}
	if err := fileutil.WriteFileAtomic(path, data, filePermissions); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteOutput, err)
	}
	return nil
}

// describeResult summarizes a result, e.g. "7 pages on 2 sheets, 1.2 MB".
func describeResult(res *pdfinvert.Result) string {
	return fmt.Sprintf("%s on %s, %s",
		plural(res.Pages, "page"), plural(res.Sheets, "sheet"), fileutil.FormatSize(int64(len(res.PDF))))
}

// plural formats n with word, adding "s" unless n is 1.
func plural(n int, word string) string {
	if n == 1 {
		return "1 " + word
	}
	return fmt.Sprintf("%d %ss", n, word)
}

package pdfinvert

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// Composer runs the validate, rasterize, invert, pack and render pipeline.
// It holds configuration only, so one Composer may serve concurrent requests.
type Composer struct {
	cfg      composerConfig
	log      zerolog.Logger
	open     sourceOpener
	renderer sheetRenderer
}

// NewComposer creates a Composer with default configuration.
func NewComposer(opts ...Option) *Composer {
	c := &Composer{
		cfg:  composerConfig{imageDPI: DefaultImageDPI},
		log:  zerolog.Nop(),
		open: openFitz,
	}

	for _, opt := range opts {
		opt(c)
	}

	// Tests inject their own renderer.
	if c.renderer == nil {
		c.renderer = &gopdfRenderer{imageDPI: c.cfg.imageDPI, title: c.cfg.title}
	}

	return c
}

// job is an input together with its position in the caller's upload list.
type job struct {
	index int
	Input
}

// Compose merges all inputs into one PDF: every page inverted and tiled six per
// landscape A4 sheet, in upload order then page order.
//
// Any failure aborts the whole run and returns an *Error naming the stage and the
// offending input; its chain matches ErrInvalidInput, ErrRender or ErrComposition.
// Cancellation returns the context's error. No partial output is ever returned, and
// all documents and page buffers are released on every path.
func (c *Composer) Compose(ctx context.Context, inputs []Input) (*Result, error) {
	if len(inputs) == 0 {
		return nil, &Error{Stage: StageValidate, Input: -1, Err: fmt.Errorf("%w: %w", ErrInvalidInput, ErrNoInputs)}
	}

	jobs := make([]job, len(inputs))
	for i, in := range inputs {
		jobs[i] = job{index: i, Input: in}
	}
	return c.compose(ctx, jobs, true)
}

// ComposeEach produces one Result per input, each with its own sheets.
// Every input is validated before any is rendered, so an invalid upload fails the
// batch without wasted work. The first failure aborts the batch.
func (c *Composer) ComposeEach(ctx context.Context, inputs []Input) ([]*Result, error) {
	if len(inputs) == 0 {
		return nil, &Error{Stage: StageValidate, Input: -1, Err: fmt.Errorf("%w: %w", ErrInvalidInput, ErrNoInputs)}
	}

	for i, in := range inputs {
		if err := Validate(in.Data); err != nil {
			return nil, &Error{Stage: StageValidate, Input: i, Name: in.Name, Err: err}
		}
	}

	results := make([]*Result, 0, len(inputs))
	for i, in := range inputs {
		res, err := c.compose(ctx, []job{{index: i, Input: in}}, false)
		if err != nil {
			return nil, err
		}
		results = append(results, res)
	}
	return results, nil
}

func (c *Composer) compose(ctx context.Context, jobs []job, validate bool) (result *Result, err error) {
	var (
		pages   []*PageImage
		stage   = StageValidate
		current = -1
	)

	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = &Error{Stage: stage, Input: current, Err: fmt.Errorf("%w: internal error: %v", ErrComposition, r)}
		}
		if err != nil {
			for _, p := range pages {
				p.Release()
			}
		}
	}()

	start := time.Now()
	for _, j := range jobs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		current = j.index

		if validate {
			stage = StageValidate
			if err := Validate(j.Data); err != nil {
				return nil, &Error{Stage: stage, Input: j.index, Name: j.Name, Err: err}
			}
		}

		stage = StageRasterize
		var imgs []*PageImage
		imgs, err = c.rasterizeInput(ctx, j)
		pages = append(pages, imgs...)
		if err != nil {
			return nil, err
		}
	}
	current = -1

	stage = StagePack
	sheets := Pack(pages)
	if len(sheets) != SheetCount(len(pages)) {
		return nil, &Error{Stage: stage, Input: -1, Err: fmt.Errorf("%w: packed %d sheets for %d pages", ErrComposition, len(sheets), len(pages))}
	}

	stage = StageRender
	pdf, err := c.renderer.Render(sheets)
	if err != nil {
		return nil, &Error{Stage: stage, Input: -1, Err: fmt.Errorf("%w: %v", ErrComposition, err)}
	}
	n, err := countPages(pdf)
	if err != nil {
		return nil, &Error{Stage: stage, Input: -1, Err: fmt.Errorf("%w: reading back output: %v", ErrComposition, err)}
	}
	if n != len(sheets) {
		return nil, &Error{Stage: stage, Input: -1, Err: fmt.Errorf("%w: output has %d pages, want %d", ErrComposition, n, len(sheets))}
	}

	c.log.Debug().
		Int("inputs", len(jobs)).
		Int("pages", len(pages)).
		Int("sheets", len(sheets)).
		Int("bytes", len(pdf)).
		Dur("elapsed", time.Since(start)).
		Msg("composition complete")

	return &Result{PDF: pdf, Sheets: len(sheets), Pages: len(pages)}, nil
}

// rasterizeInput opens one input, renders and inverts every page, and closes it.
// Pages rendered before a failure are returned alongside the error so the caller
// can release them.
func (c *Composer) rasterizeInput(ctx context.Context, j job) (pages []*PageImage, err error) {
	start := time.Now()

	doc, err := openDocument(c.open, j.Data, j.index)
	if err != nil {
		return nil, &Error{Stage: StageRasterize, Input: j.index, Name: j.Name, Err: err}
	}
	defer func() {
		if cerr := doc.Close(); cerr != nil {
			c.log.Warn().Err(cerr).Int("input", j.index).Msg("closing document")
		}
	}()

	if doc.PageCount() < 1 {
		return nil, &Error{Stage: StageRasterize, Input: j.index, Name: j.Name, Err: invalidInput(ErrNoPages, nil)}
	}

	pages = make([]*PageImage, 0, doc.PageCount())
	for img, err := range Rasterize(doc) {
		if err != nil {
			return pages, &Error{Stage: StageRasterize, Input: j.index, Name: j.Name, Err: err}
		}
		pages = append(pages, Invert(img))
		if err := ctx.Err(); err != nil {
			return pages, err
		}
	}

	c.log.Debug().
		Int("input", j.index).
		Str("name", j.Name).
		Int("pages", len(pages)).
		Dur("elapsed", time.Since(start)).
		Msg("rasterized input")

	return pages, nil
}

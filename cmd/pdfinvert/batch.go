package main

import (
	"context"
	"fmt"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/alnah/go-pdfinvert"
	"github.com/alnah/go-pdfinvert/internal/config"
)

// composeOutcome holds the result of composing a single input on its own.
type composeOutcome struct {
	InputPath  string
	OutputPath string
	Result     *pdfinvert.Result
	Err        error
	Duration   time.Duration
}

// composeSeparate writes one output per input. A failing input is reported and
// the others still complete.
func composeSeparate(ctx context.Context, comp Composer, files []inputFile, cfg *config.Config, f commonFlags, env *Environment) error {
	outputs := separateOutputPaths(files, cfg.Output.Dir)
	outcomes := composeBatch(ctx, comp, files, outputs, resolveWorkers(cfg.Workers), env.Now)

	failed, firstErr := printOutcomes(outcomes, f, env)
	if failed > 0 {
		return fmt.Errorf("%d of %d inputs failed: %w", failed, len(outcomes), firstErr)
	}
	return nil
}

// composeBatch composes files concurrently, at most workers at a time.
// Outcomes are returned in input order.
func composeBatch(ctx context.Context, comp Composer, files []inputFile, outputs []string, workers int, now func() time.Time) []composeOutcome {
	if len(files) == 0 {
		return nil
	}

	outcomes := make([]composeOutcome, len(files))

	var g errgroup.Group
	g.SetLimit(max(1, min(workers, len(files))))
	for i, f := range files {
		g.Go(func() error {
			outcomes[i] = composeFile(ctx, comp, f, outputs[i], now)
			return nil
		})
	}
	_ = g.Wait()

	return outcomes
}

// composeFile composes one input and writes it to outPath.
func composeFile(ctx context.Context, comp Composer, f inputFile, outPath string, now func() time.Time) composeOutcome {
	outcome := composeOutcome{InputPath: f.Path, OutputPath: outPath}
	if err := ctx.Err(); err != nil {
		outcome.Err = err
		return outcome
	}

	start := now()
	res, err := comp.Compose(ctx, []pdfinvert.Input{f.Input})
	if err == nil {
		err = writeOutput(outPath, res.PDF)
	}
	outcome.Result = res
	outcome.Err = err
	outcome.Duration = now().Sub(start)
	return outcome
}

// separateOutputPaths names each output <stem>-inverted.pdf inside dir.
// Inputs sharing a base name get a numeric suffix.
func separateOutputPaths(files []inputFile, dir string) []string {
	used := make(map[string]bool, len(files))
	paths := make([]string, len(files))

	for i, f := range files {
		base := filepath.Base(f.Path)
		stem := strings.TrimSuffix(base, filepath.Ext(base))

		name := stem + "-inverted.pdf"
		for n := 2; used[name]; n++ {
			name = fmt.Sprintf("%s-inverted-%d.pdf", stem, n)
		}
		used[name] = true
		paths[i] = filepath.Join(dir, name)
	}

	return paths
}

// resolveWorkers determines the batch concurrency.
// Priority: explicit setting > GOMAXPROCS-based calculation.
func resolveWorkers(n int) int {
	if n > 0 {
		return n
	}

	// Rasterization is CPU and memory heavy: use half the available
	// procs (adjusted by automaxprocs for containers), between 1 and 8.
	available := runtime.GOMAXPROCS(0)
	return min(max(available/2, 1), 8)
}

// printOutcomes outputs batch results and returns the failure count and first error.
func printOutcomes(outcomes []composeOutcome, f commonFlags, env *Environment) (int, error) {
	var (
		failed   int
		firstErr error
	)

	for _, o := range outcomes {
		if o.Err != nil {
			failed++
			if firstErr == nil {
				firstErr = o.Err
			}
			fmt.Fprintf(env.Stderr, "FAILED %s: %v\n", o.InputPath, o.Err)
			continue
		}

		if f.quiet {
			continue
		}

		if f.verbose {
			fmt.Fprintf(env.Stdout, "%s -> %s (%s, %v)\n",
				o.InputPath, o.OutputPath, describeResult(o.Result), o.Duration.Round(time.Millisecond))
		} else {
			fmt.Fprintf(env.Stdout, "Created %s\n", o.OutputPath)
		}
	}

	if !f.quiet && len(outcomes) > 1 {
		fmt.Fprintf(env.Stdout, "\n%d succeeded, %d failed\n", len(outcomes)-failed, failed)
	}

	return failed, firstErr
}

package main

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/alnah/go-pdfinvert"
	"github.com/alnah/go-pdfinvert/internal/config"
)

// Composer is the pipeline the CLI drives.
type Composer interface {
	Compose(ctx context.Context, inputs []pdfinvert.Input) (*pdfinvert.Result, error)
	ComposeEach(ctx context.Context, inputs []pdfinvert.Input) ([]*pdfinvert.Result, error)
}

// Compile-time interface implementation check.
var _ Composer = (*pdfinvert.Composer)(nil)

// Environment holds injectable dependencies for testability.
// Includes I/O, time, the base configuration and the composer factory.
type Environment struct {
	Now         func() time.Time
	Stdout      io.Writer
	Stderr      io.Writer
	Config      *config.Config // base settings when no config file is given
	NewComposer func(opts ...pdfinvert.Option) Composer
}

// DefaultEnv returns the production environment.
func DefaultEnv() *Environment {
	return &Environment{
		Now:    time.Now,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		Config: config.DefaultConfig(),
		NewComposer: func(opts ...pdfinvert.Option) Composer {
			return pdfinvert.NewComposer(opts...)
		},
	}
}

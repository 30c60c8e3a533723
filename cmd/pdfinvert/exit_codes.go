package main

import (
	"errors"
	"os"

	"github.com/alnah/go-pdfinvert"
	"github.com/alnah/go-pdfinvert/internal/config"
)

// Exit codes for pdfinvert CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess      = 0 // Successful run
	ExitGeneral      = 1 // General/unexpected error
	ExitUsage        = 2 // Invalid flags or config
	ExitIO           = 3 // File not found, permission denied, size limit
	ExitInvalidInput = 4 // An input is not a usable PDF
	ExitRender       = 5 // Page rendering or output composition failed
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Pipeline errors (exit 4, 5)
	if errors.Is(err, pdfinvert.ErrInvalidInput) {
		return ExitInvalidInput
	}
	if errors.Is(err, pdfinvert.ErrRender) ||
		errors.Is(err, pdfinvert.ErrComposition) {
		return ExitRender
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, ErrReadPDF) ||
		errors.Is(err, ErrWriteOutput) ||
		errors.Is(err, ErrInputTooLarge) ||
		errors.Is(err, ErrNoInput) {
		return ExitIO
	}

	// Usage/config errors (exit 2)
	if errors.Is(err, ErrUsage) ||
		errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidValue) {
		return ExitUsage
	}

	return ExitGeneral
}

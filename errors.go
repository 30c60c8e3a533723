package pdfinvert

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by Compose matches exactly one of these.
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrRender       = errors.New("page rendering failed")
	ErrComposition  = errors.New("composition failed")
)

// Invalid input reasons, always wrapped together with ErrInvalidInput.
var (
	ErrEmptyInput = errors.New("file is empty")
	ErrNotPDF     = errors.New("file is not a PDF")
	ErrEncrypted  = errors.New("PDF is password protected")
	ErrCorruptPDF = errors.New("PDF is corrupt or unreadable")
	ErrNoPages    = errors.New("PDF has no pages")
)

// ErrNoInputs is returned when Compose is called without any input.
var ErrNoInputs = errors.New("no input documents")

// Stage names the pipeline step where a failure happened.
type Stage string

// Pipeline stages.
const (
	StageValidate  Stage = "validate"
	StageRasterize Stage = "rasterize"
	StagePack      Stage = "pack"
	StageRender    Stage = "render"
)

// Error reports a failed composition: the stage, which input caused it and why.
// Input is -1 when the failure is not tied to a single input.
type Error struct {
	Stage Stage
	Input int
	Name  string
	Err   error
}

func (e *Error) Error() string {
	if e.Input < 0 {
		return fmt.Sprintf("%s: %v", e.Stage, e.Err)
	}
	name := e.Name
	if name == "" {
		name = fmt.Sprintf("input #%d", e.Input+1)
	}
	return fmt.Sprintf("%s %s: %v", e.Stage, name, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Reason returns the most specific human-readable cause, without stage or input prefix.
func (e *Error) Reason() string {
	for _, reason := range []error{ErrEmptyInput, ErrNotPDF, ErrEncrypted, ErrCorruptPDF, ErrNoPages} {
		if errors.Is(e.Err, reason) {
			return reason.Error()
		}
	}
	return e.Err.Error()
}

// invalidInput wraps a reason sentinel with ErrInvalidInput.
func invalidInput(reason error, detail error) error {
	if detail == nil {
		return fmt.Errorf("%w: %w", ErrInvalidInput, reason)
	}
	return fmt.Errorf("%w: %w: %v", ErrInvalidInput, reason, detail)
}

// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/alnah/go-pdfinvert"
	"github.com/alnah/go-pdfinvert/internal/fileutil"
)

// IsInContainer detects if running inside a Docker container or similar.
// Checks for /.dockerenv file which Docker creates automatically.
var IsInContainer = func() bool {
	return fileutil.FileExists("/.dockerenv")
}

// ForInvalidInput returns a hint for a rejected input, keyed on the reason
// carried by err. Returns "" when err names no known reason.
func ForInvalidInput(err error) string {
	switch {
	case errors.Is(err, pdfinvert.ErrEmptyInput):
		return format("the file has zero bytes; check the download or export finished")
	case errors.Is(err, pdfinvert.ErrNotPDF):
		return format("only PDF documents are accepted; export the file to PDF first")
	case errors.Is(err, pdfinvert.ErrEncrypted):
		return format("remove the password first, e.g. qpdf --decrypt in.pdf out.pdf")
	case errors.Is(err, pdfinvert.ErrCorruptPDF):
		return format("re-export the document or repair it, e.g. qpdf in.pdf repaired.pdf")
	case errors.Is(err, pdfinvert.ErrNoPages):
		return format("the document has no pages to place")
	}
	return ""
}

// ForRender returns hints for page rendering failures.
func ForRender() string {
	return format("run 'pdfinvert inspect' on the file, or 'pdfinvert doctor' to check MuPDF")
}

// ForInputTooLarge returns a hint for inputs over the configured size ceiling.
func ForInputTooLarge(limitMB int) string {
	return format(fmt.Sprintf("limit is %d MB; raise limits.maxInputMB or set PDFINVERT_MAX_INPUT_MB", limitMB))
}

// ForMuPDF returns hints for a MuPDF self-test failure in doctor.
func ForMuPDF() string {
	var hints []string
	hints = append(hints, "release builds need cgo; nocgo builds need a shared libmupdf")
	if IsInContainer() || os.Getenv("CI") != "" {
		hints = append(hints, "install libmupdf in the image or build with CGO_ENABLED=1")
	}
	return formatHints(hints)
}

// ForConfigNotFound returns hints for config file not found errors.
// Suggests --config flag and creating a config in the user config directory.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml"

	for _, p := range searchedPaths {
		if strings.Contains(p, "go-pdfinvert") {
			hint += " or create " + p
			break
		}
	}

	return format(hint)
}

// ForOutputDirectory returns hints for output directory creation errors.
func ForOutputDirectory() string {
	return format("check parent directory exists and is writable")
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

// formatHints joins multiple hints with consistent formatting.
func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}

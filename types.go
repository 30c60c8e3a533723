package pdfinvert

import (
	"fmt"

	"github.com/rs/zerolog"
)

// Input is one uploaded PDF.
type Input struct {
	Name string // shown in error messages; optional
	Data []byte // raw PDF bytes (required)
}

// Result is a finished composition.
type Result struct {
	PDF    []byte // landscape A4 document, one page per sheet
	Sheets int    // number of output pages
	Pages  int    // number of source pages placed
}

// Option configures a Composer.
type Option func(*Composer)

// composerConfig holds internal configuration for Composer.
type composerConfig struct {
	imageDPI float64
	title    string
}

// WithLogger sets the logger used for per-stage debug events.
// The default logger discards everything.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Composer) {
		c.log = l
	}
}

// WithImageDPI caps the resolution of images embedded in the output, measured
// against their placed size on the sheet. Lower values give smaller files.
// Panics if dpi is outside [MinImageDPI, MaxImageDPI] (programmer error).
func WithImageDPI(dpi int) Option {
	if dpi < MinImageDPI || dpi > MaxImageDPI {
		panic(fmt.Sprintf("pdfinvert: WithImageDPI %d outside [%d, %d]", dpi, MinImageDPI, MaxImageDPI))
	}
	return func(c *Composer) {
		c.cfg.imageDPI = float64(dpi)
	}
}

// WithTitle sets the title stored in the output document's metadata.
func WithTitle(title string) Option {
	return func(c *Composer) {
		c.cfg.title = title
	}
}

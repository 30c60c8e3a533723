package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/alnah/go-pdfinvert/internal/config"
)

// envConfig holds configuration from environment variables.
// Provides CI/CD-friendly overrides without requiring YAML files.
type envConfig struct {
	ConfigPath string // PDFINVERT_CONFIG: config file name or path

	// Output
	Output    string // PDFINVERT_OUTPUT: merged output file
	OutputDir string // PDFINVERT_OUTPUT_DIR: directory for separate outputs

	// Rendering and limits
	Title      string // PDFINVERT_TITLE: output document title
	ImageDPI   int    // PDFINVERT_IMAGE_DPI: embedded image resolution
	MaxInputMB int    // PDFINVERT_MAX_INPUT_MB: per-input size ceiling
	Workers    int    // PDFINVERT_WORKERS: parallel workers

	// Logging
	LogLevel  string // PDFINVERT_LOG_LEVEL: trace, debug, info, warn, error
	LogFormat string // PDFINVERT_LOG_FORMAT: console or json
}

// knownEnvVars lists valid PDFINVERT_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"PDFINVERT_CONFIG":       true,
	"PDFINVERT_OUTPUT":       true,
	"PDFINVERT_OUTPUT_DIR":   true,
	"PDFINVERT_TITLE":        true,
	"PDFINVERT_IMAGE_DPI":    true,
	"PDFINVERT_MAX_INPUT_MB": true,
	"PDFINVERT_WORKERS":      true,
	"PDFINVERT_LOG_LEVEL":    true,
	"PDFINVERT_LOG_FORMAT":   true,
	"PDFINVERT_CONTAINER":    true, // read by doctor
}

// loadEnvConfig reads configuration from environment variables.
// Numeric values that do not parse as a positive integer are ignored.
func loadEnvConfig() *envConfig {
	return &envConfig{
		ConfigPath: os.Getenv("PDFINVERT_CONFIG"),
		Output:     os.Getenv("PDFINVERT_OUTPUT"),
		OutputDir:  os.Getenv("PDFINVERT_OUTPUT_DIR"),
		Title:      os.Getenv("PDFINVERT_TITLE"),
		ImageDPI:   positiveEnvInt("PDFINVERT_IMAGE_DPI"),
		MaxInputMB: positiveEnvInt("PDFINVERT_MAX_INPUT_MB"),
		Workers:    positiveEnvInt("PDFINVERT_WORKERS"),
		LogLevel:   os.Getenv("PDFINVERT_LOG_LEVEL"),
		LogFormat:  os.Getenv("PDFINVERT_LOG_FORMAT"),
	}
}

// positiveEnvInt returns the variable as a positive int, or 0.
func positiveEnvInt(name string) int {
	v := os.Getenv(name)
	if v == "" {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0
	}
	return n
}

// unknownEnvVars returns the names of unrecognized PDFINVERT_* variables.
func unknownEnvVars() []string {
	var names []string
	for _, env := range os.Environ() {
		if strings.HasPrefix(env, "PDFINVERT_") {
			name := strings.SplitN(env, "=", 2)[0]
			if !knownEnvVars[name] {
				names = append(names, name)
			}
		}
	}
	return names
}

// warnUnknownEnvVars logs warnings for unrecognized PDFINVERT_* variables.
// Helps catch typos like PDFINVERT_DPI instead of PDFINVERT_IMAGE_DPI.
func warnUnknownEnvVars(w io.Writer) {
	for _, name := range unknownEnvVars() {
		fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
	}
}

// applyEnvConfig applies environment variable values to config.
// Set variables override the config file; CLI flags are applied afterwards.
// Precedence: CLI flags > env vars > config file > defaults.
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	if env.Output != "" {
		cfg.Output.Path = env.Output
	}
	if env.OutputDir != "" {
		cfg.Output.Dir = env.OutputDir
	}
	if env.Title != "" {
		cfg.Render.Title = env.Title
	}
	if env.ImageDPI > 0 {
		cfg.Render.ImageDPI = env.ImageDPI
	}
	if env.MaxInputMB > 0 {
		cfg.Limits.MaxInputMB = env.MaxInputMB
	}
	if env.Workers > 0 {
		cfg.Workers = env.Workers
	}
	if env.LogLevel != "" {
		cfg.Log.Level = env.LogLevel
	}
	if env.LogFormat != "" {
		cfg.Log.Format = env.LogFormat
	}
}

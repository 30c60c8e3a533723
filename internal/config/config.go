package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alnah/go-pdfinvert/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
)

// Field limits.
const (
	MaxPathLength  = 4096
	MaxTitleLength = 200

	MinImageDPI = 72
	MaxImageDPI = 600

	MaxInputMBLimit = 2048
	MaxWorkers      = 64
)

// Defaults applied by DefaultConfig.
const (
	DefaultOutputPath = "inverted.pdf"
	DefaultImageDPI   = 144
	DefaultMaxInputMB = 200
	DefaultLogLevel   = "info"
	DefaultLogFormat  = "console"
)

// Config holds all settings for a pdfinvert run.
type Config struct {
	Output  OutputConfig `yaml:"output"`
	Render  RenderConfig `yaml:"render"`
	Limits  LimitsConfig `yaml:"limits"`
	Log     LogConfig    `yaml:"log"`
	Workers int          `yaml:"workers"` // 0 = auto
}

// OutputConfig defines where results are written.
type OutputConfig struct {
	Path     string `yaml:"path"`     // merged output file
	Dir      string `yaml:"dir"`      // directory for separate outputs (empty = current)
	Separate bool   `yaml:"separate"` // one output per input
	Zip      bool   `yaml:"zip"`      // bundle separate outputs into one archive
}

// RenderConfig defines output rendering options.
type RenderConfig struct {
	ImageDPI int    `yaml:"imageDPI"` // embedded image resolution cap
	Title    string `yaml:"title"`    // output document title metadata
}

// LimitsConfig bounds resource usage.
type LimitsConfig struct {
	MaxInputMB int `yaml:"maxInputMB"` // per-input file size ceiling
}

// LogConfig defines diagnostic logging.
type LogConfig struct {
	Level  string `yaml:"level"`  // trace, debug, info, warn, error
	Format string `yaml:"format"` // console or json
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		Output: OutputConfig{Path: DefaultOutputPath},
		Render: RenderConfig{ImageDPI: DefaultImageDPI},
		Limits: LimitsConfig{MaxInputMB: DefaultMaxInputMB},
		Log:    LogConfig{Level: DefaultLogLevel, Format: DefaultLogFormat},
	}
}

// Validate checks ranges and field lengths.
// Called by LoadConfig, and again by the CLI after env vars and flags are merged.
func (c *Config) Validate() error {
	if err := validateFieldLength("output.path", c.Output.Path, MaxPathLength); err != nil {
		return err
	}
	if err := validateFieldLength("output.dir", c.Output.Dir, MaxPathLength); err != nil {
		return err
	}
	if err := validateFieldLength("render.title", c.Render.Title, MaxTitleLength); err != nil {
		return err
	}

	if c.Output.Zip && !c.Output.Separate {
		return fmt.Errorf("%w: output.zip requires output.separate", ErrInvalidValue)
	}
	if c.Render.ImageDPI < MinImageDPI || c.Render.ImageDPI > MaxImageDPI {
		return fmt.Errorf("%w: render.imageDPI must be between %d and %d, got %d",
			ErrInvalidValue, MinImageDPI, MaxImageDPI, c.Render.ImageDPI)
	}
	if c.Limits.MaxInputMB < 1 || c.Limits.MaxInputMB > MaxInputMBLimit {
		return fmt.Errorf("%w: limits.maxInputMB must be between 1 and %d, got %d",
			ErrInvalidValue, MaxInputMBLimit, c.Limits.MaxInputMB)
	}
	if c.Workers < 0 || c.Workers > MaxWorkers {
		return fmt.Errorf("%w: workers must be between 0 and %d, got %d", ErrInvalidValue, MaxWorkers, c.Workers)
	}

	switch strings.ToLower(c.Log.Level) {
	case "", "trace", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("%w: log.level %q (must be trace, debug, info, warn, or error)", ErrInvalidValue, c.Log.Level)
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "console", "json":
	default:
		return fmt.Errorf("%w: log.format %q (must be console or json)", ErrInvalidValue, c.Log.Format)
	}

	return nil
}

// MaxInputBytes returns the per-input size ceiling in bytes.
func (c *Config) MaxInputBytes() int64 {
	return int64(c.Limits.MaxInputMB) << 20
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Keys missing from the file keep their DefaultConfig values.
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	configPath := nameOrPath
	if !isFilePath(nameOrPath) {
		var err error
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yamlutil.UnmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// isFilePath returns true if the string looks like a file path.
func isFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\")
}

// UserConfigDir returns the per-user config directory, e.g. ~/.config/go-pdfinvert.
func UserConfigDir() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "go-pdfinvert"), nil
}

// resolveConfigPath searches for a config file by name.
// Tries extensions in order: .yaml, .yml
// Tries locations in order: current directory, UserConfigDir
func resolveConfigPath(name string) (string, error) {
	extensions := []string{".yaml", ".yml"}
	triedPaths := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		localPath := name + ext
		if fileExists(localPath) {
			return localPath, nil
		}
		triedPaths = append(triedPaths, localPath)
	}

	if userDir, err := UserConfigDir(); err == nil {
		for _, ext := range extensions {
			userPath := filepath.Join(userDir, name+ext)
			if fileExists(userPath) {
				return userPath, nil
			}
			triedPaths = append(triedPaths, userPath)
		}
	}

	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(triedPaths, ", "))
}

// fileExists returns true if the path exists and is a regular file.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// Marshal renders cfg as YAML, for `pdfinvert config`.
func (c *Config) Marshal() ([]byte, error) {
	return yamlutil.Marshal(c)
}

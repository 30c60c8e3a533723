package main

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/alnah/go-pdfinvert"
	"github.com/alnah/go-pdfinvert/internal/config"
	"github.com/alnah/go-pdfinvert/internal/hints"
	"github.com/alnah/go-pdfinvert/internal/logging"
)

// defaultConfigName is searched when neither --config nor PDFINVERT_CONFIG is set.
const defaultConfigName = "pdfinvert"

// resolveConfig builds the effective configuration, before CLI flags.
// An explicit --config wins over PDFINVERT_CONFIG. Without either, a config named
// "pdfinvert" is loaded when one exists, else env.Config is used.
func resolveConfig(configFlag string, env *Environment) (*config.Config, error) {
	envCfg := loadEnvConfig()
	warnUnknownEnvVars(env.Stderr)

	name := configFlag
	if name == "" {
		name = envCfg.ConfigPath
	}

	var cfg *config.Config
	switch {
	case name != "":
		loaded, err := config.LoadConfig(name)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
		cfg = loaded
	default:
		loaded, err := config.LoadConfig(defaultConfigName)
		switch {
		case err == nil:
			cfg = loaded
		case errors.Is(err, config.ErrConfigNotFound):
			cfg = baseConfig(env)
		default:
			return nil, fmt.Errorf("loading config: %w", err)
		}
	}

	applyEnvConfig(envCfg, cfg)
	return cfg, nil
}

// baseConfig returns a copy of env.Config, or the defaults when unset.
func baseConfig(env *Environment) *config.Config {
	if env.Config == nil {
		return config.DefaultConfig()
	}
	cfg := *env.Config
	return &cfg
}

// newLogger builds the diagnostic logger. -v forces debug, -q keeps errors only.
func newLogger(cfg *config.Config, f commonFlags, env *Environment) zerolog.Logger {
	level := cfg.Log.Level
	switch {
	case f.verbose:
		level = "debug"
	case f.quiet:
		level = "error"
	}
	return logging.New(logging.Config{
		Level:  level,
		Format: cfg.Log.Format,
		Output: env.Stderr,
	})
}

// configSearchPaths lists where a named config is looked up, for hints.
func configSearchPaths(name string) []string {
	paths := []string{name + ".yaml"}
	if dir, err := config.UserConfigDir(); err == nil {
		paths = append(paths, filepath.Join(dir, name+".yaml"))
	}
	return paths
}

// hintFor returns remediation hints for errors that carry no hint of their own.
func hintFor(err error) string {
	switch {
	case errors.Is(err, pdfinvert.ErrInvalidInput):
		return hints.ForInvalidInput(err)
	case errors.Is(err, pdfinvert.ErrRender):
		return hints.ForRender()
	case errors.Is(err, config.ErrConfigNotFound):
		return hints.ForConfigNotFound(configSearchPaths(defaultConfigName))
	}
	return ""
}

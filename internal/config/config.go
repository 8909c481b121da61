// Package config loads the corkboard configuration file.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/roach88/corkboard/internal/store"
)

// Config is the root configuration for corkboard.
type Config struct {
	// DatabasePath is the SQLite file location.
	DatabasePath string `yaml:"database_path"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`

	// Retry tunes the transaction retry loop.
	Retry Retry `yaml:"retry"`
}

// Retry bounds the contention retry loop for mutating operations.
type Retry struct {
	MaxAttempts int `yaml:"max_attempts"`
	BackoffMS   int `yaml:"backoff_ms"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		DatabasePath: "corkboard.db",
		LogLevel:     "info",
		Retry: Retry{
			MaxAttempts: store.DefaultRetryPolicy.MaxAttempts,
			BackoffMS:   int(store.DefaultRetryPolicy.BackoffBase / time.Millisecond),
		},
	}
}

// Load reads and parses the config file at the given path. A missing
// file is not an error: defaults apply.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if cfg.DatabasePath == "" {
		cfg.DatabasePath = Default().DatabasePath
	}
	return cfg, nil
}

// RetryPolicy converts the retry section to the store's policy type,
// falling back to defaults for non-positive values.
func (c *Config) RetryPolicy() store.RetryPolicy {
	p := store.DefaultRetryPolicy
	if c.Retry.MaxAttempts > 0 {
		p.MaxAttempts = c.Retry.MaxAttempts
	}
	if c.Retry.BackoffMS > 0 {
		p.BackoffBase = time.Duration(c.Retry.BackoffMS) * time.Millisecond
	}
	return p
}

// SlogLevel maps the configured log level to slog's levels.
// Unknown values fall back to info.
func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

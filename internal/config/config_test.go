package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_ParsesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
database_path: /var/lib/corkboard/data.db
log_level: debug
retry:
  max_attempts: 8
  backoff_ms: 25
`), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/corkboard/data.db", cfg.DatabasePath)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 8, cfg.Retry.MaxAttempts)
	assert.Equal(t, 25, cfg.Retry.BackoffMS)
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log_level: warn\n"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, Default().DatabasePath, cfg.DatabasePath)
	assert.Equal(t, Default().Retry, cfg.Retry)
}

func TestLoad_MalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log_level: [broken\n"), 0644))

	_, err := Load(path)
	require.Error(t, err)
}

func TestRetryPolicy_Conversion(t *testing.T) {
	cfg := &Config{Retry: Retry{MaxAttempts: 3, BackoffMS: 50}}
	p := cfg.RetryPolicy()
	assert.Equal(t, 3, p.MaxAttempts)
	assert.Equal(t, 50*time.Millisecond, p.BackoffBase)
}

func TestRetryPolicy_NonPositiveFallsBack(t *testing.T) {
	cfg := &Config{Retry: Retry{MaxAttempts: 0, BackoffMS: -1}}
	p := cfg.RetryPolicy()
	assert.Equal(t, Default().Retry.MaxAttempts, p.MaxAttempts)
	assert.Equal(t, time.Duration(Default().Retry.BackoffMS)*time.Millisecond, p.BackoffBase)
}

func TestSlogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"garbage", slog.LevelInfo},
		{"", slog.LevelInfo},
	}
	for _, tt := range tests {
		cfg := &Config{LogLevel: tt.in}
		assert.Equal(t, tt.want, cfg.SlogLevel(), "level %q", tt.in)
	}
}

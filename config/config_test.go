package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "./benchmark", cfg.Benchmark)
	assert.Equal(t, 10, cfg.Iterations)
	assert.Equal(t, 32, cfg.InputBits)
	assert.Equal(t, "text", cfg.Format)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Empty(t, cfg.BuildDir)
	require.NoError(t, cfg.Validate())
}

func TestLoadEnvironment(t *testing.T) {
	t.Setenv("PSIBENCH_BENCHMARK", "/opt/psi/benchmark")
	t.Setenv("PSIBENCH_ITERATIONS", "4")
	t.Setenv("PSIBENCH_FORMAT", "json")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/opt/psi/benchmark", cfg.Benchmark)
	assert.Equal(t, 4, cfg.Iterations)
	assert.Equal(t, 4, cfg.Params().IterationCount)
	assert.Equal(t, "json", cfg.Format)
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile,
		[]byte("PSIBENCH_INPUT_BITS=20\nPSIBENCH_LOG_LEVEL=debug\n"), 0o644))

	// Process environment wins over the file.
	t.Setenv("PSIBENCH_LOG_LEVEL", "warn")

	// godotenv sets variables without restoring them.
	t.Cleanup(func() { os.Unsetenv("PSIBENCH_INPUT_BITS") })

	cfg, err := Load(envFile, filepath.Join(dir, "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, 20, cfg.InputBits)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestLoadInvalidNumber(t *testing.T) {
	t.Setenv("PSIBENCH_ITERATIONS", "ten")

	_, err := Load()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"zero iterations", func(c *Config) { c.Iterations = 0 }, true},
		{"single iteration", func(c *Config) { c.Iterations = 1 }, false},
		{"bad format", func(c *Config) { c.Format = "xml" }, true},
		{"bad level", func(c *Config) { c.LogLevel = "loud" }, true},
		{"no executable", func(c *Config) { c.Benchmark = "" }, true},
		{"build dir only", func(c *Config) { c.Benchmark = ""; c.BuildDir = "build" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{
				Benchmark:  "./benchmark",
				Iterations: 10,
				InputBits:  32,
				Format:     "text",
				LogLevel:   "info",
			}
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestParseLevel(t *testing.T) {
	lvl, err := ParseLevel("debug")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, lvl)

	lvl, err = ParseLevel("WARN")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelWarn, lvl)

	_, err = ParseLevel("verbose")
	assert.Error(t, err)
}

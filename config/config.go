// Package config loads psibench settings from the environment and optional
// .env files. Command-line flags override these values.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/weiihann/psibench/catalog"
	"github.com/weiihann/psibench/report"
)

// DefaultEnvFiles are loaded, in order, when present.
var DefaultEnvFiles = []string{".env", ".env.local"}

// Config holds all settings.
type Config struct {
	Benchmark  string `env:"PSIBENCH_BENCHMARK" envDefault:"./benchmark"`
	BuildDir   string `env:"PSIBENCH_BUILD_DIR"`
	Iterations int    `env:"PSIBENCH_ITERATIONS" envDefault:"10"`
	InputBits  int    `env:"PSIBENCH_INPUT_BITS" envDefault:"32"`
	Catalog    string `env:"PSIBENCH_CATALOG"`
	Format     string `env:"PSIBENCH_FORMAT" envDefault:"text"`
	LogLevel   string `env:"PSIBENCH_LOG_LEVEL" envDefault:"info"`
}

// LoadEnv loads the env files that exist. Variables already set in the
// process environment win.
func LoadEnv(envFiles []string) (int, error) {
	existing := make([]string, 0, len(envFiles))

	for _, f := range envFiles {
		if _, err := os.Stat(f); err == nil {
			existing = append(existing, f)
		}
	}

	if len(existing) == 0 {
		return 0, nil
	}

	return len(existing), godotenv.Load(existing...)
}

// Load reads env files and parses the environment into a Config.
func Load(envFiles ...string) (*Config, error) {
	if _, err := LoadEnv(envFiles); err != nil {
		return nil, fmt.Errorf("load env files: %w", err)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	return cfg, nil
}

// Params returns the default-catalog parameters.
func (c *Config) Params() catalog.Params {
	return catalog.Params{
		IterationCount: c.Iterations,
		InputBits:      c.InputBits,
	}
}

// Validate checks every setting that has a closed set of valid values.
func (c *Config) Validate() error {
	if c.Benchmark == "" && c.BuildDir == "" {
		return fmt.Errorf("benchmark executable path is empty")
	}

	if err := c.Params().Validate(); err != nil {
		return fmt.Errorf("catalog parameters: %w", err)
	}

	if _, err := report.ParseFormat(c.Format); err != nil {
		return err
	}

	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}

	return nil
}

// ParseLevel maps a level name to a slog.Level.
func ParseLevel(s string) (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.ToUpper(s))); err != nil {
		return 0, fmt.Errorf("unknown log level %q", s)
	}

	return lvl, nil
}

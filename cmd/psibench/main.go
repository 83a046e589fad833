// Package main provides the CLI entry point for psibench, which runs the
// PSI benchmark catalog against the benchmark executable and reports
// per-case statistics.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/weiihann/psibench/bench"
	"github.com/weiihann/psibench/catalog"
	"github.com/weiihann/psibench/config"
	"github.com/weiihann/psibench/harness"
	"github.com/weiihann/psibench/report"
)

func main() {
	level := new(slog.LevelVar)
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))

	cfg, err := config.Load(config.DefaultEnvFiles...)
	if err != nil {
		logger.Error("load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	root := newRootCmd(logger, level, cfg, os.Stdout)
	if err := root.Execute(); err != nil {
		logger.Error("psibench failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func newRootCmd(
	logger *slog.Logger,
	level *slog.LevelVar,
	cfg *config.Config,
	stdout io.Writer,
) *cobra.Command {
	var noProgress bool

	root := &cobra.Command{
		Use:   "psibench [skip]",
		Short: "Run the PSI benchmark catalog and report statistics",
		Long: `Psibench runs every case of the benchmark catalog through the external
benchmark executable, in order, and prints mean, sample standard deviation,
min and max of each metric per case. The optional skip argument starts the
run at that catalog index.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			if err := cfg.Validate(); err != nil {
				return err
			}

			lvl, err := config.ParseLevel(cfg.LogLevel)
			if err != nil {
				return err
			}

			level.Set(lvl)

			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			skip, err := parseSkip(args)
			if err != nil {
				return err
			}

			return runBenchmark(cmd.Context(), logger, cfg, runOptions{
				skip:       skip,
				noProgress: noProgress,
				stdout:     stdout,
			})
		},
	}

	flags := root.PersistentFlags()
	flags.IntVar(&cfg.Iterations, "iterations", cfg.Iterations,
		"Iterations per case in the default catalog")
	flags.IntVar(&cfg.InputBits, "input-bits", cfg.InputBits,
		"Bit width of the set elements in the default catalog")
	flags.StringVar(&cfg.Catalog, "catalog", cfg.Catalog,
		"YAML catalog file to use instead of the default catalog")
	flags.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel,
		"Log level: debug, info, warn, error")

	local := root.Flags()
	local.StringVar(&cfg.Benchmark, "benchmark", cfg.Benchmark,
		"Path to the benchmark executable")
	local.StringVar(&cfg.BuildDir, "build-dir", cfg.BuildDir,
		"Configured CMake build directory; builds the benchmark target first")
	local.StringVar(&cfg.Format, "format", cfg.Format,
		"Report format: text, table, json")
	local.BoolVar(&noProgress, "no-progress", false,
		"Do not print progress to stderr")

	root.AddCommand(newCasesCmd(cfg, stdout))

	return root
}

func newCasesCmd(cfg *config.Config, stdout io.Writer) *cobra.Command {
	var asYAML bool

	cmd := &cobra.Command{
		Use:   "cases",
		Short: "List the benchmark catalog with skip indexes",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			cases, err := loadCatalog(cfg)
			if err != nil {
				return err
			}

			if asYAML {
				return catalog.Write(stdout, cases)
			}

			return report.ListCases(stdout, cases)
		},
	}

	cmd.Flags().BoolVar(&asYAML, "yaml", false,
		"Print the catalog as a YAML file usable with --catalog")

	return cmd
}

func parseSkip(args []string) (int, error) {
	if len(args) == 0 {
		return 0, nil
	}

	skip, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, fmt.Errorf("invalid skip count %q: %w", args[0], err)
	}

	if skip < 0 {
		return 0, fmt.Errorf("skip count must not be negative, got %d", skip)
	}

	return skip, nil
}

func loadCatalog(cfg *config.Config) (catalog.Catalog, error) {
	if cfg.Catalog != "" {
		return catalog.LoadFile(cfg.Catalog)
	}

	cases := catalog.Default(cfg.Params())
	if err := cases.Validate(); err != nil {
		return nil, fmt.Errorf("default catalog: %w", err)
	}

	return cases, nil
}

type runOptions struct {
	skip       int
	noProgress bool
	stdout     io.Writer
}

func runBenchmark(
	ctx context.Context,
	logger *slog.Logger,
	cfg *config.Config,
	opts runOptions,
) error {
	format, err := report.ParseFormat(cfg.Format)
	if err != nil {
		return err
	}

	all, err := loadCatalog(cfg)
	if err != nil {
		return err
	}

	for _, i := range all.Degenerate() {
		logger.WarnContext(ctx, "case has a single iteration, stddev will be reported as n/a",
			slog.Int("case", i),
		)
	}

	cases := all.Skip(opts.skip)

	logger.InfoContext(ctx, "starting benchmark",
		slog.Int("cases", len(cases)),
		slog.Int("skipped", len(all)-len(cases)),
		slog.String("format", string(format)),
	)

	if len(cases) == 0 {
		return nil
	}

	binPath := cfg.Benchmark
	if cfg.BuildDir != "" {
		binPath, err = harness.Build(ctx, logger, cfg.BuildDir)
		if err != nil {
			return fmt.Errorf("build benchmark: %w", err)
		}
	}

	driver := &bench.Driver{
		Executor: harness.NewRunner(binPath, logger),
		Out:      opts.stdout,
		Format:   format,
		Logger:   logger,
		Offset:   opts.skip,
	}

	if !opts.noProgress {
		driver.Observer = newObserver(format, len(cases), opts.skip)
	}

	if _, err := driver.Run(ctx, cases); err != nil {
		return err
	}

	logger.InfoContext(ctx, "benchmark complete")

	return nil
}

// newObserver shows a progress bar when stderr is a terminal that the
// report does not also stream to, and plain status lines otherwise.
func newObserver(format report.Format, total, offset int) bench.Observer {
	if isTerminal(os.Stderr) && (!format.Streaming() || !isTerminal(os.Stdout)) {
		return newBarProgress(os.Stderr, total)
	}

	return &lineProgress{w: os.Stderr, offset: offset}
}

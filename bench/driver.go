// Package bench drives the benchmark pipeline over a catalog: run the
// executable, parse its output, aggregate and render, one case at a time.
package bench

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/weiihann/psibench/catalog"
	"github.com/weiihann/psibench/harness"
	"github.com/weiihann/psibench/report"
	"github.com/weiihann/psibench/stats"
)

// Executor runs the benchmark for one case and returns its raw output.
type Executor interface {
	Run(ctx context.Context, c catalog.Case) (string, error)
}

// Observer is notified as cases progress. Indexes are relative to the
// catalog passed to Driver.Run.
type Observer interface {
	CaseStarted(index, total int, c catalog.Case)
	CaseFinished(index, total int, rep stats.Report, elapsed time.Duration)
}

// IterationMismatchError reports that the executable produced a different
// number of result lines than the case requested.
type IterationMismatchError struct {
	Want int
	Got  int
}

func (e *IterationMismatchError) Error() string {
	return fmt.Sprintf("expected %d iterations, got %d result lines", e.Want, e.Got)
}

// Driver sequences the pipeline. Cases never overlap.
type Driver struct {
	Executor Executor
	Out      io.Writer
	Format   report.Format
	Logger   *slog.Logger
	Observer Observer
	// Offset is added to case indexes in logs and errors, so they match
	// the full catalog when a run starts past its first case.
	Offset int
}

// Run processes cases in order. In text format each case is written to
// Out as soon as it completes; other formats are written once all cases
// succeed. The first error aborts the run and nothing is written for the
// failing case or any later one.
func (d *Driver) Run(ctx context.Context, cases catalog.Catalog) ([]stats.Report, error) {
	format := d.Format
	if format == "" {
		format = report.FormatText
	}

	reports := make([]stats.Report, 0, len(cases))

	for i, c := range cases {
		if d.Observer != nil {
			d.Observer.CaseStarted(i, len(cases), c)
		}

		start := time.Now()

		rep, err := d.runCase(ctx, i+d.Offset, c)
		if err != nil {
			return reports, fmt.Errorf("case %d (%s N_x=%d N_y=%d): %w",
				i+d.Offset, c.Variant(), c.SenderSize, c.ReceiverSize, err)
		}

		if format.Streaming() {
			if err := report.Generate(d.Out, rep); err != nil {
				return reports, fmt.Errorf("write report: %w", err)
			}
		}

		reports = append(reports, rep)

		if d.Observer != nil {
			d.Observer.CaseFinished(i, len(cases), rep, time.Since(start))
		}
	}

	if format.Streaming() || len(reports) == 0 {
		return reports, nil
	}

	var err error

	switch format {
	case report.FormatTable:
		err = report.GenerateTable(d.Out, reports)
	case report.FormatJSON:
		err = report.GenerateJSON(d.Out, reports)
	default:
		err = fmt.Errorf("unknown format %q", format)
	}

	if err != nil {
		return reports, fmt.Errorf("write report: %w", err)
	}

	return reports, nil
}

func (d *Driver) runCase(ctx context.Context, index int, c catalog.Case) (stats.Report, error) {
	logger := d.logger().With(slog.Int("case", index))

	logger.DebugContext(ctx, "running case",
		slog.String("variant", c.Variant()),
		slog.Int("sender_size", c.SenderSize),
		slog.Int("receiver_size", c.ReceiverSize),
		slog.Int("iterations", c.IterationCount),
	)

	out, err := d.Executor.Run(ctx, c)
	if err != nil {
		return stats.Report{}, err
	}

	results, err := harness.Parse(out, c)
	if err != nil {
		return stats.Report{}, fmt.Errorf("parse output: %w", err)
	}

	if len(results) != c.IterationCount {
		return stats.Report{}, &IterationMismatchError{
			Want: c.IterationCount,
			Got:  len(results),
		}
	}

	rep, err := stats.Aggregate(c, results)
	if err != nil {
		return stats.Report{}, fmt.Errorf("aggregate: %w", err)
	}

	return rep, nil
}

func (d *Driver) logger() *slog.Logger {
	if d.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return d.Logger
}

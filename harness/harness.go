package harness

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	"github.com/weiihann/psibench/catalog"
)

// ProcessError reports that the benchmark executable could not be started
// or exited with a non-zero status.
type ProcessError struct {
	Binary string
	Args   []string
	// Started is false when the executable could not be launched.
	Started bool
	// ExitCode is -1 when the process did not exit normally.
	ExitCode int
	Stderr   string
	Err      error
}

func (e *ProcessError) Error() string {
	var b strings.Builder

	switch {
	case !e.Started:
		fmt.Fprintf(&b, "start %s: %v", e.Binary, e.Err)
	case e.ExitCode < 0:
		fmt.Fprintf(&b, "%s %s terminated: %v",
			e.Binary, strings.Join(e.Args, " "), e.Err)
	default:
		fmt.Fprintf(&b, "%s %s exited with status %d",
			e.Binary, strings.Join(e.Args, " "), e.ExitCode)
	}

	if s := strings.TrimSpace(e.Stderr); s != "" {
		fmt.Fprintf(&b, "\nstderr: %s", s)
	}

	return b.String()
}

func (e *ProcessError) Unwrap() error { return e.Err }

// Runner launches the external benchmark executable, one case at a time.
type Runner struct {
	BinaryPath string
	Logger     *slog.Logger
}

// NewRunner creates a Runner for the executable at binaryPath.
func NewRunner(binaryPath string, logger *slog.Logger) *Runner {
	return &Runner{
		BinaryPath: binaryPath,
		Logger:     logger.With(slog.String("binary", binaryPath)),
	}
}

// Run executes the benchmark once for c and returns its standard output.
// It blocks until the process exits.
func (r *Runner) Run(ctx context.Context, c catalog.Case) (string, error) {
	args := c.Args()

	cmd := exec.CommandContext(ctx, r.BinaryPath, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	r.Logger.DebugContext(ctx, "starting benchmark",
		slog.Any("args", args),
	)

	start := time.Now()

	if err := cmd.Run(); err != nil {
		perr := &ProcessError{
			Binary:   r.BinaryPath,
			Args:     args,
			ExitCode: -1,
			Stderr:   stderr.String(),
			Err:      err,
		}

		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			perr.Started = true
			perr.ExitCode = exitErr.ExitCode()
		}

		return "", perr
	}

	r.Logger.DebugContext(ctx, "benchmark finished",
		slog.Duration("wall_time", time.Since(start)),
		slog.Int("stdout_bytes", stdout.Len()),
	)

	return stdout.String(), nil
}

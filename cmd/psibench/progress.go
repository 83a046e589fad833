package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"

	"github.com/weiihann/psibench/catalog"
	"github.com/weiihann/psibench/stats"
)

var (
	bold  = color.New(color.Bold)
	green = color.New(color.FgGreen)
	cyan  = color.New(color.FgCyan)
)

func isTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func describe(c catalog.Case) string {
	return fmt.Sprintf("%s N_x=%d N_y=%d SEAL%d",
		c.Variant(), c.SenderSize, c.ReceiverSize, c.PolyModulusDegree)
}

// lineProgress prints one colored status line per case.
type lineProgress struct {
	w      io.Writer
	offset int
}

func (p *lineProgress) CaseStarted(index, total int, c catalog.Case) {
	bold.Fprintf(p.w, "[%d/%d] ", index+1, total)
	cyan.Fprintf(p.w, "case %d: ", index+p.offset)
	fmt.Fprintf(p.w, "%s, %d runs\n", describe(c), c.IterationCount)
}

func (p *lineProgress) CaseFinished(_, _ int, rep stats.Report, elapsed time.Duration) {
	green.Fprintf(p.w, "  ✓ %d runs in %v (sender avg %.2fs)\n",
		rep.Iterations, elapsed.Round(time.Millisecond), rep.Metrics[0].Mean)
}

// barProgress drives a single progress bar across all cases.
type barProgress struct {
	bar *progressbar.ProgressBar
}

func newBarProgress(w io.Writer, total int) *barProgress {
	bar := progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription("Benchmarking"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "█",
			SaucerHead:    "█",
			SaucerPadding: "░",
			BarStart:      "│",
			BarEnd:        "│",
		}),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionOnCompletion(func() { fmt.Fprintln(w) }),
	)

	return &barProgress{bar: bar}
}

func (p *barProgress) CaseStarted(_, _ int, c catalog.Case) {
	p.bar.Describe(fmt.Sprintf("[cyan]%s[reset]", describe(c)))
}

func (p *barProgress) CaseFinished(_, _ int, _ stats.Report, _ time.Duration) {
	_ = p.bar.Add(1)
}

// Package report formats benchmark case summaries.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"

	"github.com/weiihann/psibench/catalog"
	"github.com/weiihann/psibench/stats"
)

// Format selects how reports are rendered.
type Format string

// Supported formats.
const (
	FormatText  Format = "text"
	FormatTable Format = "table"
	FormatJSON  Format = "json"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case FormatText, FormatTable, FormatJSON:
		return f, nil
	default:
		return "", fmt.Errorf("unknown format %q (want text, table or json)", s)
	}
}

// Streaming reports whether f renders each case as soon as it completes.
func (f Format) Streaming() bool {
	return f == FormatText
}

// Header returns the one-line description of a case.
func Header(c catalog.Case) string {
	return fmt.Sprintf("%d runs of %s N_x=%d, N_y=%d with SEAL%d, alpha=%d, l=%d:",
		c.IterationCount,
		c.Variant(),
		c.SenderSize,
		c.ReceiverSize,
		c.PolyModulusDegree,
		c.WindowSize,
		c.PartitionCount,
	)
}

// Generate writes the plain-text block for one case: the header, one line
// per metric and a blank separator line.
func Generate(w io.Writer, rep stats.Report) error {
	if _, err := fmt.Fprintln(w, Header(rep.Case)); err != nil {
		return err
	}

	for _, m := range rep.Metrics {
		if _, err := fmt.Fprintf(w, "%s: avg %.2f, stddev %s, min %.2f, max %.2f\n",
			m.Name, m.Mean, formatStdDev(m), m.Min, m.Max,
		); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintln(w)

	return err
}

// GenerateTable writes all reports as a single table.
func GenerateTable(w io.Writer, reports []stats.Report) error {
	if len(reports) == 0 {
		return fmt.Errorf("no results to report")
	}

	table := tablewriter.NewWriter(w)
	table.Header("Case", "Metric", "Avg", "StdDev", "Min", "Max")

	for _, rep := range reports {
		label := Header(rep.Case)

		for _, m := range rep.Metrics {
			if err := table.Append(
				label,
				m.Name,
				formatFloat(m.Mean),
				formatStdDev(m),
				formatFloat(m.Min),
				formatFloat(m.Max),
			); err != nil {
				return fmt.Errorf("append row: %w", err)
			}
		}
	}

	return table.Render()
}

// GenerateJSON writes reports as JSON to w, including the parsed runs of
// each case. An undefined standard deviation is encoded as null.
func GenerateJSON(w io.Writer, reports []stats.Report) error {
	if reports == nil {
		reports = []stats.Report{}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(reports)
}

// ListCases writes the catalog as a table, with the index to pass as skip
// count to start from each case.
func ListCases(w io.Writer, cases catalog.Catalog) error {
	table := tablewriter.NewWriter(w)
	table.Header("#", "Variant", "Bits", "N_x", "N_y", "SEAL", "l", "alpha", "Runs")

	for i, c := range cases {
		if err := table.Append(
			strconv.Itoa(i),
			c.Variant(),
			strconv.Itoa(c.InputBits),
			strconv.Itoa(c.SenderSize),
			strconv.Itoa(c.ReceiverSize),
			strconv.Itoa(c.PolyModulusDegree),
			strconv.Itoa(c.PartitionCount),
			strconv.Itoa(c.WindowSize),
			strconv.Itoa(c.IterationCount),
		); err != nil {
			return fmt.Errorf("append row: %w", err)
		}
	}

	return table.Render()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func formatStdDev(s stats.Summary) string {
	if !s.HasStdDev() {
		return "n/a"
	}

	return formatFloat(s.StdDev)
}

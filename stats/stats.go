// Package stats reduces per-iteration benchmark results into summary
// statistics.
package stats

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/weiihann/psibench/catalog"
	"github.com/weiihann/psibench/harness"
)

var (
	// ErrEmptySample is returned when there is nothing to summarize.
	ErrEmptySample = errors.New("empty sample")
	// ErrDegenerateSample is returned by SampleStdDev for a single value,
	// where the n-1 denominator is zero.
	ErrDegenerateSample = errors.New("sample standard deviation needs at least two values")
)

// Metric names, in report order.
const (
	MetricSender          = "sender, s"
	MetricReceiverEncrypt = "receiver enc, s"
	MetricReceiverDecrypt = "receiver dec, s"
	MetricMatches         = "matches, %"
)

// MetricNames lists the reported metrics in order.
var MetricNames = [4]string{
	MetricSender,
	MetricReceiverEncrypt,
	MetricReceiverDecrypt,
	MetricMatches,
}

// metricValue extracts the i-th metric of MetricNames from r.
func metricValue(r harness.RunResult, i int) float64 {
	switch i {
	case 0:
		return r.SenderSeconds
	case 1:
		return r.ReceiverEncryptSeconds
	case 2:
		return r.ReceiverDecryptSeconds
	default:
		return r.MatchRatio
	}
}

// Summary describes one metric over all iterations of a case.
type Summary struct {
	Name string  `json:"name"`
	Mean float64 `json:"mean"`
	// StdDev is NaN when the sample has a single value.
	StdDev float64 `json:"stddev"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

// HasStdDev reports whether StdDev is defined.
func (s Summary) HasStdDev() bool {
	return !math.IsNaN(s.StdDev)
}

// MarshalJSON encodes an undefined StdDev as null.
func (s Summary) MarshalJSON() ([]byte, error) {
	type summary Summary

	out := struct {
		summary
		StdDev *float64 `json:"stddev"`
	}{summary: summary(s)}

	if s.HasStdDev() {
		out.StdDev = &s.StdDev
	}

	return json.Marshal(out)
}

// Report is the summary of one case.
type Report struct {
	Case       catalog.Case `json:"case"`
	Iterations int          `json:"iterations"`
	Metrics    [4]Summary   `json:"metrics"`
	// Runs holds the parsed iterations the metrics were computed from.
	Runs []harness.RunResult `json:"runs"`
}

// Aggregate summarizes every metric of results.
func Aggregate(c catalog.Case, results []harness.RunResult) (Report, error) {
	if len(results) == 0 {
		return Report{}, ErrEmptySample
	}

	rep := Report{
		Case:       c,
		Iterations: len(results),
		Runs:       results,
	}

	values := make([]float64, len(results))

	for m, name := range MetricNames {
		for i, r := range results {
			values[i] = metricValue(r, m)
		}

		s, err := Summarize(name, values)
		if err != nil {
			return Report{}, fmt.Errorf("summarize %s: %w", name, err)
		}

		rep.Metrics[m] = s
	}

	return rep, nil
}

// Summarize computes mean, sample standard deviation, min and max of
// values. A single value yields a NaN standard deviation.
func Summarize(name string, values []float64) (Summary, error) {
	mean, err := Mean(values)
	if err != nil {
		return Summary{}, err
	}

	sd, err := SampleStdDev(values)
	if errors.Is(err, ErrDegenerateSample) {
		sd = math.NaN()
	} else if err != nil {
		return Summary{}, err
	}

	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}

	return Summary{
		Name:   name,
		Mean:   mean,
		StdDev: sd,
		Min:    lo,
		Max:    hi,
	}, nil
}

// Mean returns the arithmetic mean of values.
func Mean(values []float64) (float64, error) {
	if len(values) == 0 {
		return 0, ErrEmptySample
	}

	var sum float64
	for _, v := range values {
		sum += v
	}

	return sum / float64(len(values)), nil
}

// SampleStdDev returns the Bessel-corrected standard deviation of values.
func SampleStdDev(values []float64) (float64, error) {
	switch len(values) {
	case 0:
		return 0, ErrEmptySample
	case 1:
		return 0, ErrDegenerateSample
	}

	mean, _ := Mean(values)

	var ss float64
	for _, v := range values {
		d := v - mean
		ss += d * d
	}

	return math.Sqrt(ss / float64(len(values)-1)), nil
}

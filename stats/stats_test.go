package stats

import (
	"encoding/json"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weiihann/psibench/catalog"
	"github.com/weiihann/psibench/harness"
)

var scenarioCase = catalog.Case{
	InputBits:         32,
	SenderSize:        65536,
	ReceiverSize:      5535,
	PolyModulusDegree: 8192,
	PartitionCount:    8,
	WindowSize:        3,
	IterationCount:    2,
}

func TestAggregateScenario(t *testing.T) {
	results, err := harness.Parse("1.0\t2.0\t0.5\t1000\n1.5\t2.5\t0.7\t1200\n", scenarioCase)
	require.NoError(t, err)

	rep, err := Aggregate(scenarioCase, results)
	require.NoError(t, err)

	assert.Equal(t, 2, rep.Iterations)
	assert.Equal(t, scenarioCase, rep.Case)
	assert.Equal(t, results, rep.Runs)

	sender := rep.Metrics[0]
	assert.Equal(t, MetricSender, sender.Name)
	assert.InDelta(t, 1.25, sender.Mean, 1e-9)
	assert.InDelta(t, 0.3536, sender.StdDev, 1e-3)
	assert.Equal(t, 1.0, sender.Min)
	assert.Equal(t, 1.5, sender.Max)

	enc := rep.Metrics[1]
	assert.InDelta(t, 2.25, enc.Mean, 1e-9)

	dec := rep.Metrics[2]
	assert.InDelta(t, 0.6, dec.Mean, 1e-9)
	assert.InDelta(t, 0.1414, dec.StdDev, 1e-3)

	matches := rep.Metrics[3]
	assert.Equal(t, MetricMatches, matches.Name)
	assert.InDelta(t, 0.1987, matches.Mean, 1e-3)
	assert.InDelta(t, 0.1807, matches.Min, 1e-3)
	assert.InDelta(t, 0.2168, matches.Max, 1e-3)
}

func TestAggregateEmpty(t *testing.T) {
	_, err := Aggregate(scenarioCase, nil)
	assert.ErrorIs(t, err, ErrEmptySample)
}

func TestAggregateSingleIteration(t *testing.T) {
	rep, err := Aggregate(scenarioCase, []harness.RunResult{
		{SenderSeconds: 2, ReceiverEncryptSeconds: 3, ReceiverDecryptSeconds: 1, MatchRatio: 0.5},
	})
	require.NoError(t, err)

	for _, m := range rep.Metrics {
		assert.False(t, m.HasStdDev(), m.Name)
		assert.Equal(t, m.Min, m.Mean, m.Name)
		assert.Equal(t, m.Max, m.Mean, m.Name)
	}
}

func TestSampleStdDev(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   float64
	}{
		{"constant", []float64{3, 3, 3}, 0},
		{"pair", []float64{1, 1.5}, 0.35355339},
		{"textbook", []float64{2, 4, 4, 4, 5, 5, 7, 9}, 2.13808994},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SampleStdDev(tt.values)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-6)
		})
	}
}

func TestSampleStdDevDegenerate(t *testing.T) {
	_, err := SampleStdDev([]float64{1})
	assert.ErrorIs(t, err, ErrDegenerateSample)

	_, err = SampleStdDev(nil)
	assert.ErrorIs(t, err, ErrEmptySample)
}

func TestSummarizeBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for n := 1; n <= 50; n++ {
		values := make([]float64, n)
		for i := range values {
			values[i] = rng.NormFloat64()*10 + 5
		}

		s, err := Summarize("x", values)
		require.NoError(t, err)

		assert.LessOrEqual(t, s.Min, s.Mean+1e-12, "n=%d", n)
		assert.LessOrEqual(t, s.Mean, s.Max+1e-12, "n=%d", n)
		assert.Equal(t, n > 1, s.HasStdDev(), "n=%d", n)
	}
}

func TestSummarizeOrderIndependent(t *testing.T) {
	rng := rand.New(rand.NewSource(11))

	values := make([]float64, 25)
	for i := range values {
		values[i] = rng.Float64() * 100
	}

	want, err := Summarize("x", values)
	require.NoError(t, err)

	for range 10 {
		shuffled := append([]float64(nil), values...)
		rng.Shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})

		got, err := Summarize("x", shuffled)
		require.NoError(t, err)

		assert.InDelta(t, want.StdDev, got.StdDev, 1e-9)
		assert.InDelta(t, want.Mean, got.Mean, 1e-9)
		assert.Equal(t, want.Min, got.Min)
		assert.Equal(t, want.Max, got.Max)
	}
}

func TestSummaryNaNIsNotDefined(t *testing.T) {
	assert.False(t, Summary{StdDev: math.NaN()}.HasStdDev())
	assert.True(t, Summary{StdDev: 0}.HasStdDev())
}

func TestSummaryMarshalJSON(t *testing.T) {
	defined, err := json.Marshal(Summary{Name: MetricSender, Mean: 1.25, StdDev: 0.5, Min: 1, Max: 1.5})
	require.NoError(t, err)
	assert.JSONEq(t,
		`{"name":"sender, s","mean":1.25,"stddev":0.5,"min":1,"max":1.5}`,
		string(defined))

	undefined, err := json.Marshal(Summary{Name: MetricSender, Mean: 1, StdDev: math.NaN(), Min: 1, Max: 1})
	require.NoError(t, err)
	assert.JSONEq(t,
		`{"name":"sender, s","mean":1,"stddev":null,"min":1,"max":1}`,
		string(undefined))
}

func TestReportMarshalJSONSingleIteration(t *testing.T) {
	c := scenarioCase
	c.IterationCount = 1

	results, err := harness.Parse("1.0\t2.0\t0.5\t1000\n", c)
	require.NoError(t, err)

	rep, err := Aggregate(c, results)
	require.NoError(t, err)

	data, err := json.Marshal(rep)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"stddev":null`)
	assert.Contains(t, string(data), `"matches":1000`)
}

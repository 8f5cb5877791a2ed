package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultExperimentConfig_IsValid(t *testing.T) {
	assert.NoError(t, DefaultExperimentConfig().Validate())
}

func TestExperimentConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*ExperimentConfig)
	}{
		{"zero rounds", func(c *ExperimentConfig) { c.Rounds = 0 }},
		{"zero batch", func(c *ExperimentConfig) { c.BatchSize = 0 }},
		{"zero seed size", func(c *ExperimentConfig) { c.SeedSize = 0 }},
		{"no seed positives", func(c *ExperimentConfig) { c.SeedPositives = 0 }},
		{"seed positives above seed size", func(c *ExperimentConfig) { c.SeedPositives = c.SeedSize + 1 }},
		{"zero neighbours", func(c *ExperimentConfig) { c.Neighbours = 0 }},
		{"zero repetitions", func(c *ExperimentConfig) { c.Repetitions = 0 }},
		{"test fraction too low", func(c *ExperimentConfig) { c.TestFraction = 0 }},
		{"test fraction too high", func(c *ExperimentConfig) { c.TestFraction = 1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultExperimentConfig()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestLabelBudget(t *testing.T) {
	cfg := ExperimentConfig{SeedSize: 10, Rounds: 20, BatchSize: 100}

	assert.Equal(t, 2010, cfg.LabelBudget())
}

func sampleResult() *RunResult {
	run := &RunResult{ID: "r"}
	for rep := 0; rep < 2; rep++ {
		run.Series = append(run.Series, Series{
			Algorithm:  AlgorithmSEALS,
			Repetition: rep,
			Rounds: []RoundMetrics{
				{Round: 0, Labeled: 10, Recall: 0.2 + float64(rep)*0.2, Positives: 2},
				{Round: 1, Labeled: 20, Recall: 0.4 + float64(rep)*0.2, Positives: 4},
			},
		})
	}
	run.Series = append(run.Series, Series{
		Algorithm:  AlgorithmRandomAll,
		Repetition: 0,
		Rounds:     []RoundMetrics{{Round: 0, Labeled: 10, Recall: 0.1}},
	})
	return run
}

func TestSeriesFor(t *testing.T) {
	run := sampleResult()

	seals := run.SeriesFor(AlgorithmSEALS)

	require.Len(t, seals, 2)
	assert.Equal(t, 0, seals[0].Repetition)
	assert.Equal(t, 1, seals[1].Repetition)
	assert.Empty(t, run.SeriesFor(AlgorithmFullSupervision))
}

func TestAlgorithms_FirstSeenOrder(t *testing.T) {
	run := sampleResult()

	assert.Equal(t, []string{AlgorithmSEALS, AlgorithmRandomAll}, run.Algorithms())
}

func TestMeanSeries_AveragesAcrossRepetitions(t *testing.T) {
	run := sampleResult()

	mean := run.MeanSeries(AlgorithmSEALS)

	require.Len(t, mean, 2)
	assert.Equal(t, 10, mean[0].Labeled)
	assert.InDelta(t, 0.3, mean[0].Recall, 1e-9)
	assert.InDelta(t, 0.5, mean[1].Recall, 1e-9)
	assert.Equal(t, 4, mean[1].Positives)
}

func TestMeanSeries_TruncatesToShortestRepetition(t *testing.T) {
	run := sampleResult()
	run.Series[1].Rounds = run.Series[1].Rounds[:1]

	mean := run.MeanSeries(AlgorithmSEALS)

	assert.Len(t, mean, 1)
}

func TestMeanSeries_UnknownAlgorithm(t *testing.T) {
	run := sampleResult()

	assert.Nil(t, run.MeanSeries("nope"))
}

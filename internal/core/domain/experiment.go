package domain

import (
	"fmt"
	"time"
)

// Algorithm names as they appear in stored results and on the figure.
const (
	AlgorithmSEALS           = "MaxEnt-SEALS"
	AlgorithmMaxEntAll       = "MaxEnt-All"
	AlgorithmRandomAll       = "Random-All"
	AlgorithmFullSupervision = "FullSupervision"
)

// ExperimentConfig holds the tunables for one experiment run.
type ExperimentConfig struct {
	// Rounds is the number of select/label/retrain iterations.
	Rounds int `json:"rounds"`

	// BatchSize is the number of points labeled per round.
	BatchSize int `json:"batch_size"`

	// SeedSize is the size of the initial labeled seed set.
	SeedSize int `json:"seed_size"`

	// SeedPositives is the number of known positives placed in the seed
	// set. At least one is required for the learner to get traction.
	SeedPositives int `json:"seed_positives"`

	// Neighbours is k for the nearest-neighbour candidate expansion.
	Neighbours int `json:"neighbours"`

	// Repetitions is the number of independent repeats to average over.
	Repetitions int `json:"repetitions"`

	// TestFraction is the share of the dataset held out for evaluation.
	TestFraction float64 `json:"test_fraction"`

	// Seed drives every random choice in the run. A fixed seed yields
	// identical metrics logs across runs.
	Seed int64 `json:"seed"`

	// Baselines enables the comparison algorithms alongside SEALS.
	Baselines bool `json:"baselines"`
}

// DefaultExperimentConfig returns the figure-reproduction defaults:
// 20 rounds of 100 labels with k=100 neighbour expansion, averaged
// over 3 repetitions.
func DefaultExperimentConfig() ExperimentConfig {
	return ExperimentConfig{
		Rounds:        20,
		BatchSize:     100,
		SeedSize:      10,
		SeedPositives: 5,
		Neighbours:    100,
		Repetitions:   3,
		TestFraction:  0.2,
		Seed:          42,
		Baselines:     true,
	}
}

// Validate checks the configuration for values the driver cannot run with.
func (c ExperimentConfig) Validate() error {
	if c.Rounds <= 0 {
		return fmt.Errorf("rounds must be positive, got %d", c.Rounds)
	}
	if c.BatchSize <= 0 {
		return fmt.Errorf("batch size must be positive, got %d", c.BatchSize)
	}
	if c.SeedSize <= 0 {
		return fmt.Errorf("seed size must be positive, got %d", c.SeedSize)
	}
	if c.SeedPositives < 1 || c.SeedPositives > c.SeedSize {
		return fmt.Errorf("seed positives must be in [1, %d], got %d", c.SeedSize, c.SeedPositives)
	}
	if c.Neighbours <= 0 {
		return fmt.Errorf("neighbours must be positive, got %d", c.Neighbours)
	}
	if c.Repetitions <= 0 {
		return fmt.Errorf("repetitions must be positive, got %d", c.Repetitions)
	}
	if c.TestFraction <= 0 || c.TestFraction >= 1 {
		return fmt.Errorf("test fraction must be in (0, 1), got %g", c.TestFraction)
	}
	return nil
}

// LabelBudget returns the total number of labels a repetition may spend,
// seed set included.
func (c ExperimentConfig) LabelBudget() int {
	return c.SeedSize + c.Rounds*c.BatchSize
}

// Series is the metrics record of one algorithm within one repetition.
type Series struct {
	// Algorithm is one of the Algorithm* constants.
	Algorithm string `json:"algorithm"`

	// Repetition is the zero-based repeat this series belongs to.
	Repetition int `json:"repetition"`

	// Rounds holds the per-round scores in round order.
	Rounds []RoundMetrics `json:"rounds"`
}

// RunResult is a completed experiment run.
type RunResult struct {
	// ID uniquely identifies the run.
	ID string `json:"id"`

	// CreatedAt is when the run started.
	CreatedAt time.Time `json:"created_at"`

	// Config is the configuration the run was executed with.
	Config ExperimentConfig `json:"config"`

	// Series holds one entry per algorithm per repetition.
	Series []Series `json:"series"`
}

// SeriesFor returns all series recorded for the given algorithm,
// ordered by repetition.
func (r *RunResult) SeriesFor(algorithm string) []Series {
	var out []Series
	for _, s := range r.Series {
		if s.Algorithm == algorithm {
			out = append(out, s)
		}
	}
	return out
}

// Algorithms returns the distinct algorithm names present in the run,
// in first-seen order.
func (r *RunResult) Algorithms() []string {
	seen := make(map[string]bool)
	var out []string
	for _, s := range r.Series {
		if !seen[s.Algorithm] {
			seen[s.Algorithm] = true
			out = append(out, s.Algorithm)
		}
	}
	return out
}

// MeanSeries averages the per-round metrics for one algorithm across
// repetitions. Repetitions with fewer rounds truncate the average.
func (r *RunResult) MeanSeries(algorithm string) []RoundMetrics {
	series := r.SeriesFor(algorithm)
	if len(series) == 0 {
		return nil
	}

	rounds := len(series[0].Rounds)
	for _, s := range series {
		if len(s.Rounds) < rounds {
			rounds = len(s.Rounds)
		}
	}

	out := make([]RoundMetrics, rounds)
	for i := 0; i < rounds; i++ {
		m := RoundMetrics{Round: i}
		for _, s := range series {
			m.Labeled += s.Rounds[i].Labeled
			m.Precision += s.Rounds[i].Precision
			m.Recall += s.Rounds[i].Recall
			m.AveragePrecision += s.Rounds[i].AveragePrecision
			m.Positives += s.Rounds[i].Positives
		}
		n := float64(len(series))
		m.Labeled = m.Labeled / len(series)
		m.Precision /= n
		m.Recall /= n
		m.AveragePrecision /= n
		m.Positives = m.Positives / len(series)
		out[i] = m
	}
	return out
}

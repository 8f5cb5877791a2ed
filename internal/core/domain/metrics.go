package domain

import "fmt"

// RoundMetrics holds the evaluation scores recorded for one round.
// A round's metrics are written once and never mutated afterwards.
type RoundMetrics struct {
	// Round is the zero-based round number within a repetition.
	Round int `json:"round"`

	// Labeled is the size of the labeled pool when the round was scored.
	Labeled int `json:"labeled"`

	// Precision of the positive class on the held-out test split.
	Precision float64 `json:"precision"`

	// Recall of the positive class on the held-out test split.
	Recall float64 `json:"recall"`

	// AveragePrecision summarises the precision-recall curve.
	AveragePrecision float64 `json:"average_precision"`

	// Positives is the number of positive examples in the labeled pool.
	Positives int `json:"positives"`
}

// MetricsLog is the append-only ordered record of per-round scores for
// one algorithm within one repetition.
type MetricsLog struct {
	rounds []RoundMetrics
}

// Append records metrics for the next round. Rounds must be appended
// in order; out-of-order or duplicate rounds are rejected.
func (l *MetricsLog) Append(m RoundMetrics) error {
	if m.Round != len(l.rounds) {
		return fmt.Errorf("metrics log: got round %d, want %d", m.Round, len(l.rounds))
	}
	l.rounds = append(l.rounds, m)
	return nil
}

// Len returns the number of recorded rounds.
func (l *MetricsLog) Len() int { return len(l.rounds) }

// Rounds returns a copy of the recorded metrics in round order.
func (l *MetricsLog) Rounds() []RoundMetrics {
	out := make([]RoundMetrics, len(l.rounds))
	copy(out, l.rounds)
	return out
}

// Last returns the most recently recorded round metrics.
func (l *MetricsLog) Last() (RoundMetrics, bool) {
	if len(l.rounds) == 0 {
		return RoundMetrics{}, false
	}
	return l.rounds[len(l.rounds)-1], true
}

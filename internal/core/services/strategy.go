package services

import (
	"math"
	"math/rand"
	"sort"
)

// SelectionStrategy picks which candidates to query next.
// Implementations must be deterministic for a fixed input (and, for
// randomised strategies, a fixed RNG state).
type SelectionStrategy interface {
	// Name identifies the strategy in logs.
	Name() string

	// Select returns up to batch ids from ids, without duplicates.
	// probs[i] is the classifier's p(positive) for ids[i].
	Select(ids []uint32, probs []float64, batch int) []uint32
}

// MaxEntropyStrategy selects the candidates the classifier is least
// certain about: the ones whose predicted probability is closest to 0.5.
type MaxEntropyStrategy struct{}

// NewMaxEntropyStrategy creates the maximum-entropy selection strategy.
func NewMaxEntropyStrategy() *MaxEntropyStrategy { return &MaxEntropyStrategy{} }

// Name implements SelectionStrategy.
func (s *MaxEntropyStrategy) Name() string { return "maxent" }

// Select picks the batch ids with the highest predictive entropy.
// Ties break on ascending id so selection is deterministic.
func (s *MaxEntropyStrategy) Select(ids []uint32, probs []float64, batch int) []uint32 {
	order := make([]int, len(ids))
	for i := range order {
		order[i] = i
	}

	// negEntropy is p*ln(p) + (1-p)*ln(1-p): zero at full certainty,
	// most negative at p = 0.5. Ascending order puts the most
	// uncertain candidates first.
	scores := make([]float64, len(ids))
	for i, p := range probs {
		scores[i] = negEntropy(p)
	}

	sort.SliceStable(order, func(a, b int) bool {
		if scores[order[a]] != scores[order[b]] {
			return scores[order[a]] < scores[order[b]]
		}
		return ids[order[a]] < ids[order[b]]
	})

	if batch > len(order) {
		batch = len(order)
	}
	out := make([]uint32, batch)
	for i := 0; i < batch; i++ {
		out[i] = ids[order[i]]
	}
	return out
}

// negEntropy returns the negated binary entropy of p in nats.
// Degenerate probabilities carry no uncertainty.
func negEntropy(p float64) float64 {
	if p <= 0 || p >= 1 {
		return 0
	}
	return p*math.Log(p) + (1-p)*math.Log(1-p)
}

// RandomStrategy selects candidates uniformly at random. It is the
// sampling half of the Random-All baseline.
type RandomStrategy struct {
	rng *rand.Rand
}

// NewRandomStrategy creates a random selection strategy driven by rng.
func NewRandomStrategy(rng *rand.Rand) *RandomStrategy {
	return &RandomStrategy{rng: rng}
}

// Name implements SelectionStrategy.
func (s *RandomStrategy) Name() string { return "random" }

// Select picks batch ids uniformly without replacement.
func (s *RandomStrategy) Select(ids []uint32, probs []float64, batch int) []uint32 {
	perm := s.rng.Perm(len(ids))
	if batch > len(ids) {
		batch = len(ids)
	}
	out := make([]uint32, batch)
	for i := 0; i < batch; i++ {
		out[i] = ids[perm[i]]
	}
	return out
}

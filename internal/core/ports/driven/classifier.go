package driven

import "context"

// Classifier is a binary classifier over feature vectors.
// Fit replaces any previously learned parameters, so one instance is
// retrained from scratch each round.
type Classifier interface {
	// Fit trains on the given examples. Labels are 0 or 1.
	Fit(ctx context.Context, vectors [][]float32, labels []int) error

	// Probs returns p(positive) for each vector, in order.
	// Returns domain.ErrUntrained before the first successful Fit.
	Probs(ctx context.Context, vectors [][]float32) ([]float64, error)
}

// ClassifierFactory creates a fresh Classifier for vectors of the given
// dimensionality.
type ClassifierFactory func(dim int) Classifier

// Package logistic implements driven.Classifier as binary logistic
// regression trained by full-batch gradient descent with L2
// regularisation. Weights are zero-initialised so training is fully
// deterministic for a fixed labeled set.
package logistic

import (
	"context"
	"fmt"
	"math"

	"github.com/custodia-labs/seals-cli/internal/core/domain"
	"github.com/custodia-labs/seals-cli/internal/core/ports/driven"
)

// Ensure Classifier implements the interface.
var _ driven.Classifier = (*Classifier)(nil)

// Options are the training hyperparameters.
type Options struct {
	// LearningRate is the gradient descent step size.
	LearningRate float64

	// Iterations caps the number of gradient steps per Fit.
	Iterations int

	// L2 is the regularisation strength applied to the weights
	// (not the bias).
	L2 float64

	// Tolerance stops training early once the gradient norm falls
	// below it.
	Tolerance float64
}

// DefaultOptions returns the hyperparameters used for the reproduction.
func DefaultOptions() Options {
	return Options{
		LearningRate: 0.5,
		Iterations:   500,
		L2:           1e-4,
		Tolerance:    1e-6,
	}
}

// Classifier is a binary logistic regression model.
type Classifier struct {
	dim     int
	opts    Options
	weights []float64
	bias    float64
	trained bool
}

// New creates an untrained classifier for vectors of the given
// dimensionality.
func New(dim int, opts Options) *Classifier {
	return &Classifier{dim: dim, opts: opts}
}

// Fit implements driven.Classifier. It discards any previous parameters
// and trains from scratch on the given examples.
func (c *Classifier) Fit(ctx context.Context, vectors [][]float32, labels []int) error {
	if len(vectors) == 0 {
		return domain.ErrEmptyDataset
	}
	if len(vectors) != len(labels) {
		return fmt.Errorf("%w: %d vectors, %d labels", domain.ErrDimensionMismatch, len(vectors), len(labels))
	}
	for i := range vectors {
		if len(vectors[i]) != c.dim {
			return fmt.Errorf("%w: vector %d has dim %d, want %d", domain.ErrDimensionMismatch, i, len(vectors[i]), c.dim)
		}
	}

	n := len(vectors)
	weights := make([]float64, c.dim)
	bias := 0.0
	grad := make([]float64, c.dim)

	for iter := 0; iter < c.opts.Iterations; iter++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		for j := range grad {
			grad[j] = 0
		}
		gradBias := 0.0

		for i := 0; i < n; i++ {
			p := sigmoid(dotBias(weights, bias, vectors[i]))
			diff := p - float64(labels[i])
			for j := 0; j < c.dim; j++ {
				grad[j] += diff * float64(vectors[i][j])
			}
			gradBias += diff
		}

		norm := 0.0
		for j := 0; j < c.dim; j++ {
			grad[j] = grad[j]/float64(n) + c.opts.L2*weights[j]
			norm += grad[j] * grad[j]
		}
		gradBias /= float64(n)
		norm += gradBias * gradBias

		for j := 0; j < c.dim; j++ {
			weights[j] -= c.opts.LearningRate * grad[j]
		}
		bias -= c.opts.LearningRate * gradBias

		if math.Sqrt(norm) < c.opts.Tolerance {
			break
		}
	}

	c.weights = weights
	c.bias = bias
	c.trained = true
	return nil
}

// Probs implements driven.Classifier.
func (c *Classifier) Probs(ctx context.Context, vectors [][]float32) ([]float64, error) {
	if !c.trained {
		return nil, domain.ErrUntrained
	}

	out := make([]float64, len(vectors))
	for i := range vectors {
		if len(vectors[i]) != c.dim {
			return nil, fmt.Errorf("%w: vector %d has dim %d, want %d", domain.ErrDimensionMismatch, i, len(vectors[i]), c.dim)
		}
		out[i] = sigmoid(dotBias(c.weights, c.bias, vectors[i]))
	}
	return out, nil
}

func dotBias(weights []float64, bias float64, vec []float32) float64 {
	s := bias
	for j := range weights {
		s += weights[j] * float64(vec[j])
	}
	return s
}

func sigmoid(z float64) float64 {
	// Split on sign to avoid overflow in Exp for large |z|.
	if z >= 0 {
		return 1 / (1 + math.Exp(-z))
	}
	e := math.Exp(z)
	return e / (1 + e)
}

package logistic

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/seals-cli/internal/core/domain"
)

func TestProbs_BeforeFitReturnsErrUntrained(t *testing.T) {
	clf := New(2, DefaultOptions())

	_, err := clf.Probs(context.Background(), [][]float32{{1, 0}})

	assert.ErrorIs(t, err, domain.ErrUntrained)
}

func TestFit_RejectsEmptyTrainingSet(t *testing.T) {
	clf := New(2, DefaultOptions())

	err := clf.Fit(context.Background(), nil, nil)

	assert.ErrorIs(t, err, domain.ErrEmptyDataset)
}

func TestFit_RejectsDimensionMismatch(t *testing.T) {
	clf := New(3, DefaultOptions())

	err := clf.Fit(context.Background(), [][]float32{{1, 0}}, []int{1})

	assert.ErrorIs(t, err, domain.ErrDimensionMismatch)
}

func TestFit_SeparatesLinearlySeparableData(t *testing.T) {
	clf := New(1, DefaultOptions())
	vectors := [][]float32{{-2}, {-1.5}, {-1}, {1}, {1.5}, {2}}
	labels := []int{0, 0, 0, 1, 1, 1}

	require.NoError(t, clf.Fit(context.Background(), vectors, labels))

	probs, err := clf.Probs(context.Background(), [][]float32{{-3}, {3}})
	require.NoError(t, err)
	assert.Less(t, probs[0], 0.5)
	assert.Greater(t, probs[1], 0.5)
}

func TestFit_ProbabilitiesOrderedByDistanceToBoundary(t *testing.T) {
	clf := New(1, DefaultOptions())
	vectors := [][]float32{{-1}, {1}}
	labels := []int{0, 1}

	require.NoError(t, clf.Fit(context.Background(), vectors, labels))

	probs, err := clf.Probs(context.Background(), [][]float32{{-2}, {0}, {2}})
	require.NoError(t, err)
	assert.Less(t, probs[0], probs[1])
	assert.Less(t, probs[1], probs[2])
	assert.InDelta(t, 0.5, probs[1], 0.05)
}

func TestFit_Deterministic(t *testing.T) {
	vectors := [][]float32{{-1, 2}, {0.5, -1}, {1, 1}, {-0.5, 0}}
	labels := []int{0, 1, 1, 0}

	a := New(2, DefaultOptions())
	b := New(2, DefaultOptions())
	require.NoError(t, a.Fit(context.Background(), vectors, labels))
	require.NoError(t, b.Fit(context.Background(), vectors, labels))

	pa, err := a.Probs(context.Background(), vectors)
	require.NoError(t, err)
	pb, err := b.Probs(context.Background(), vectors)
	require.NoError(t, err)
	assert.Equal(t, pa, pb)
}

func TestFit_RetrainsFromScratch(t *testing.T) {
	clf := New(1, DefaultOptions())

	require.NoError(t, clf.Fit(context.Background(), [][]float32{{-1}, {1}}, []int{0, 1}))
	probsBefore, err := clf.Probs(context.Background(), [][]float32{{2}})
	require.NoError(t, err)
	assert.Greater(t, probsBefore[0], 0.5)

	// Flip the labels; the refit model must flip its predictions.
	require.NoError(t, clf.Fit(context.Background(), [][]float32{{-1}, {1}}, []int{1, 0}))
	probsAfter, err := clf.Probs(context.Background(), [][]float32{{2}})
	require.NoError(t, err)
	assert.Less(t, probsAfter[0], 0.5)
}

func TestSigmoid_StableForLargeInputs(t *testing.T) {
	assert.InDelta(t, 1.0, sigmoid(1000), 1e-12)
	assert.InDelta(t, 0.0, sigmoid(-1000), 1e-12)
	assert.InDelta(t, 0.5, sigmoid(0), 1e-12)
}

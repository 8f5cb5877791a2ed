package services

import (
	"context"
	"fmt"

	"github.com/RoaringBitmap/roaring"

	"github.com/custodia-labs/seals-cli/internal/core/domain"
	"github.com/custodia-labs/seals-cli/internal/core/ports/driven"
	"github.com/custodia-labs/seals-cli/internal/logger"
)

// Learner runs the pool-based active-learning loop over one dataset.
//
// With restriction enabled it is the SEALS learner: the candidate pool
// is the union of the k nearest neighbours of every labeled point, so
// each round only scores a small similarity-defined neighbourhood.
// With restriction disabled the candidate pool is the whole unlabeled
// set, which gives the *-All baselines.
type Learner struct {
	dataset    *domain.Dataset
	index      driven.VectorIndex
	classifier driven.Classifier
	strategy   SelectionStrategy

	pool       *domain.Pool
	candidates *roaring.Bitmap
	neighbours int
	restrict   bool

	labeledVecs   [][]float32
	labeledLabels []int
	positives     int
}

// NewLearner creates a learner over dataset. The index must already be
// built over the same dataset's vectors. neighbours is k for candidate
// expansion; restrict toggles the SEALS candidate-pool restriction.
func NewLearner(
	dataset *domain.Dataset,
	index driven.VectorIndex,
	classifier driven.Classifier,
	strategy SelectionStrategy,
	neighbours int,
	restrict bool,
) *Learner {
	return &Learner{
		dataset:    dataset,
		index:      index,
		classifier: classifier,
		strategy:   strategy,
		pool:       domain.NewPool(dataset.Len()),
		candidates: roaring.New(),
		neighbours: neighbours,
		restrict:   restrict,
	}
}

// Observe records a labeled example: the index moves to the labeled
// pool, the example joins the training set, and (under restriction)
// the candidate pool expands with the point's nearest neighbours.
func (l *Learner) Observe(ctx context.Context, id uint32, label int) error {
	if label != 0 && label != 1 {
		return fmt.Errorf("%w: %d for index %d", domain.ErrInvalidLabel, label, id)
	}
	if err := l.pool.MarkLabeled(id); err != nil {
		return err
	}

	l.labeledVecs = append(l.labeledVecs, l.dataset.Vector(int(id)))
	l.labeledLabels = append(l.labeledLabels, label)
	l.positives += label
	l.candidates.Remove(id)

	if !l.restrict {
		return nil
	}

	nbrs, err := l.index.Search(ctx, l.dataset.Vector(int(id)), l.neighbours)
	if err != nil {
		return fmt.Errorf("expand candidates for %d: %w", id, err)
	}
	for _, n := range nbrs {
		if !l.pool.IsLabeled(n.ID) {
			l.candidates.Add(n.ID)
		}
	}
	return nil
}

// Fit retrains the classifier from scratch on the current labeled set.
func (l *Learner) Fit(ctx context.Context) error {
	if len(l.labeledVecs) == 0 {
		return domain.ErrEmptyDataset
	}
	if err := l.classifier.Fit(ctx, l.labeledVecs, l.labeledLabels); err != nil {
		return fmt.Errorf("fit on %d examples: %w", len(l.labeledVecs), err)
	}
	return nil
}

// SelectBatch scores the candidate pool with the current classifier and
// returns up to batch unlabeled ids to query next, ordered by the
// selection strategy. Returns domain.ErrPoolExhausted when no unlabeled
// points remain.
func (l *Learner) SelectBatch(ctx context.Context, batch int) ([]uint32, error) {
	if l.pool.Exhausted() {
		return nil, domain.ErrPoolExhausted
	}

	var ids []uint32
	if l.restrict {
		ids = l.candidates.ToArray()
		if len(ids) == 0 {
			// All neighbours of the labeled set are labeled already.
			// Fall back to the full unlabeled pool so the loop can
			// still spend its budget.
			logger.Debug("Candidate pool empty, falling back to full unlabeled pool")
			ids = l.pool.Unlabeled()
		}
	} else {
		ids = l.pool.Unlabeled()
	}

	vecs := make([][]float32, len(ids))
	for i, id := range ids {
		vecs[i] = l.dataset.Vector(int(id))
	}
	probs, err := l.classifier.Probs(ctx, vecs)
	if err != nil {
		return nil, fmt.Errorf("score %d candidates: %w", len(ids), err)
	}

	selected := l.strategy.Select(ids, probs, batch)
	logger.Debug("Selected %d of %d candidates (strategy=%s)", len(selected), len(ids), l.strategy.Name())
	return selected, nil
}

// Classifier returns the learner's classifier for evaluation.
func (l *Learner) Classifier() driven.Classifier { return l.classifier }

// Pool returns the learner's pool partition.
func (l *Learner) Pool() *domain.Pool { return l.pool }

// CandidateCount returns the size of the restricted candidate pool.
func (l *Learner) CandidateCount() int { return int(l.candidates.GetCardinality()) }

// Positives returns the number of positive labels observed so far.
func (l *Learner) Positives() int { return l.positives }

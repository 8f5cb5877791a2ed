package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/custodia-labs/seals-cli/internal/core/domain"
	"github.com/custodia-labs/seals-cli/internal/core/ports/driven"
)

// decisionThreshold converts p(positive) into a hard prediction.
const decisionThreshold = 0.5

// Precision returns tp / (tp + fp) for the positive class, or 0 when
// nothing was predicted positive.
func Precision(labels, preds []int) float64 {
	var tp, fp int
	for i := range preds {
		if preds[i] == 1 {
			if labels[i] == 1 {
				tp++
			} else {
				fp++
			}
		}
	}
	if tp+fp == 0 {
		return 0
	}
	return float64(tp) / float64(tp+fp)
}

// Recall returns tp / (tp + fn) for the positive class, or 0 when there
// are no positives.
func Recall(labels, preds []int) float64 {
	var tp, fn int
	for i := range labels {
		if labels[i] == 1 {
			if preds[i] == 1 {
				tp++
			} else {
				fn++
			}
		}
	}
	if tp+fn == 0 {
		return 0
	}
	return float64(tp) / float64(tp+fn)
}

// AveragePrecision summarises the precision-recall curve as the
// weighted mean of precisions at each threshold, weighted by the recall
// increase: AP = sum((R_n - R_n-1) * P_n) over descending scores.
func AveragePrecision(labels []int, probs []float64) float64 {
	total := 0
	for _, l := range labels {
		total += l
	}
	if total == 0 {
		return 0
	}

	order := make([]int, len(labels))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return probs[order[a]] > probs[order[b]]
	})

	var ap float64
	var tp int
	for rank, idx := range order {
		if labels[idx] == 1 {
			tp++
			precision := float64(tp) / float64(rank+1)
			ap += precision / float64(total)
		}
	}
	return ap
}

// evaluate scores a trained classifier against the held-out test split
// and packages the round metrics.
func evaluate(
	ctx context.Context,
	classifier driven.Classifier,
	test *domain.Dataset,
	round, labeled, positives int,
) (domain.RoundMetrics, error) {
	probs, err := classifier.Probs(ctx, test.Vectors())
	if err != nil {
		return domain.RoundMetrics{}, fmt.Errorf("evaluate on %d test examples: %w", test.Len(), err)
	}

	preds := make([]int, len(probs))
	for i, p := range probs {
		if p >= decisionThreshold {
			preds[i] = 1
		}
	}

	return domain.RoundMetrics{
		Round:            round,
		Labeled:          labeled,
		Precision:        Precision(test.Labels(), preds),
		Recall:           Recall(test.Labels(), preds),
		AveragePrecision: AveragePrecision(test.Labels(), probs),
		Positives:        positives,
	}, nil
}

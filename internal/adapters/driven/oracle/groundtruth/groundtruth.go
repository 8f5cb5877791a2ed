// Package groundtruth implements driven.Oracle by direct lookup in the
// dataset. This is the oracle for automated experiment runs, where the
// labels are already known and the loop measures how few of them the
// learner needs to see.
package groundtruth

import (
	"context"
	"fmt"

	"github.com/custodia-labs/seals-cli/internal/core/domain"
	"github.com/custodia-labs/seals-cli/internal/core/ports/driven"
)

// Ensure Oracle implements the interface.
var _ driven.Oracle = (*Oracle)(nil)

// Oracle answers label requests from the dataset's ground truth.
type Oracle struct {
	dataset *domain.Dataset
}

// New creates a ground-truth oracle over the given dataset.
func New(dataset *domain.Dataset) *Oracle {
	return &Oracle{dataset: dataset}
}

// Label implements driven.Oracle.
func (o *Oracle) Label(ctx context.Context, id uint32) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if int(id) >= o.dataset.Len() {
		return 0, fmt.Errorf("%w: index %d out of range", domain.ErrNotFound, id)
	}
	return o.dataset.Label(int(id)), nil
}

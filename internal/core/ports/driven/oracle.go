package driven

import (
	"context"

	"github.com/custodia-labs/seals-cli/internal/core/domain"
)

// Oracle supplies the ground-truth label for a dataset index.
//
// The automated oracle answers from the dataset directly. The manual
// oracle blocks until a human submits a label through the dashboard;
// cancelling the context unblocks it.
type Oracle interface {
	// Label returns the label (0 or 1) for the given dataset index.
	Label(ctx context.Context, id uint32) (int, error)
}

// OracleFactory creates the oracle for one repetition's training split.
// Ids passed to the oracle are positions in that split.
type OracleFactory func(train *domain.Dataset) Oracle

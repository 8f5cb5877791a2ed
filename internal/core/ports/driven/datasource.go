package driven

import (
	"context"

	"github.com/custodia-labs/seals-cli/internal/core/domain"
)

// DatasetSource loads the experiment dataset into memory.
// The returned dataset is immutable for the duration of the run.
type DatasetSource interface {
	// Load reads the full dataset.
	Load(ctx context.Context) (*domain.Dataset, error)
}

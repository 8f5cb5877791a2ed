package driving

import (
	"context"

	"github.com/custodia-labs/seals-cli/internal/core/domain"
)

// ExperimentService runs the full automated experiment: the SEALS loop
// plus optional baselines, repeated and averaged, with metrics recorded
// per round.
type ExperimentService interface {
	// Run executes one experiment with the given configuration and
	// returns the completed, persisted result.
	Run(ctx context.Context, cfg domain.ExperimentConfig) (*domain.RunResult, error)
}

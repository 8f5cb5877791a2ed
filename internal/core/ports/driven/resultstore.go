package driven

import (
	"context"

	"github.com/custodia-labs/seals-cli/internal/core/domain"
)

// ResultStore persists experiment runs and their per-round metrics.
// Round metrics are append-only: written once per round, never updated.
type ResultStore interface {
	// CreateRun registers a new run with its configuration.
	CreateRun(ctx context.Context, run *domain.RunResult) error

	// AppendRound appends one round of metrics to a run's series.
	AppendRound(ctx context.Context, runID, algorithm string, repetition int, m domain.RoundMetrics) error

	// GetRun loads a run with all its series.
	// Returns domain.ErrNotFound if the run does not exist.
	GetRun(ctx context.Context, runID string) (*domain.RunResult, error)

	// ListRuns returns all stored runs, newest first, without series.
	ListRuns(ctx context.Context) ([]*domain.RunResult, error)

	// Close releases resources.
	Close() error
}

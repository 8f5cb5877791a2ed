package driven

import "github.com/custodia-labs/seals-cli/internal/core/domain"

// Plotter renders a completed run as the reproduction figure:
// recall (and average precision) against the number of labels, one
// line per algorithm, averaged over repetitions.
type Plotter interface {
	// Render writes the figure for the run to path.
	Render(run *domain.RunResult, path string) error
}

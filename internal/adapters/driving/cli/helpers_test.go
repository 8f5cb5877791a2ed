package cli

import (
	"github.com/custodia-labs/seals-cli/internal/adapters/driven/plot/gonumplot"
	"github.com/custodia-labs/seals-cli/internal/adapters/driven/storage/memory"
)

// setupTestServices swaps the package-level services for in-memory
// implementations and returns a cleanup restoring the originals.
func setupTestServices() func() {
	oldResults := resultStore
	oldConfig := configStore
	oldPlotter := runPlotter

	resultStore = memory.NewResultStore()
	configStore = nil
	runPlotter = gonumplot.NewPlotter()

	return func() {
		resultStore = oldResults
		configStore = oldConfig
		runPlotter = oldPlotter
	}
}

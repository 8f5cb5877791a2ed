// Package synthetic implements driven.DatasetSource as a seeded
// generator of Gaussian cluster data with a rare positive class. It
// backs the default experiment and the scenario tests, and stands in
// for the paper's embedding files when none are configured.
package synthetic

import (
	"context"
	"fmt"
	"math"
	"math/rand"

	"github.com/custodia-labs/seals-cli/internal/core/domain"
	"github.com/custodia-labs/seals-cli/internal/core/ports/driven"
)

// Ensure Generator implements the interface.
var _ driven.DatasetSource = (*Generator)(nil)

// Generator produces a deterministic dataset for a fixed seed.
//
// Negatives are drawn from a unit Gaussian around the origin. Positives
// form a tight cluster around a direction at Separation distance, which
// gives the similarity structure SEALS exploits: the neighbours of one
// discovered positive are mostly other positives.
type Generator struct {
	// Size is the total number of examples.
	Size int

	// Dim is the feature dimensionality.
	Dim int

	// Positives is the number of rare-class examples.
	Positives int

	// Separation is the distance from the origin to the positive
	// cluster centre.
	Separation float64

	// Spread is the standard deviation of the positive cluster.
	Spread float64

	// Seed drives the generator.
	Seed int64
}

// Default returns the generator for the reproduction's default dataset.
func Default(seed int64) *Generator {
	return &Generator{
		Size:       10000,
		Dim:        256,
		Positives:  100,
		Separation: 4.0,
		Spread:     0.5,
		Seed:       seed,
	}
}

// Load implements driven.DatasetSource.
func (g *Generator) Load(ctx context.Context) (*domain.Dataset, error) {
	if g.Size <= 0 || g.Dim <= 0 {
		return nil, fmt.Errorf("%w: size %d, dim %d", domain.ErrEmptyDataset, g.Size, g.Dim)
	}
	if g.Positives < 0 || g.Positives > g.Size {
		return nil, fmt.Errorf("positives %d out of range for size %d", g.Positives, g.Size)
	}

	rng := rand.New(rand.NewSource(g.Seed))

	// The positive cluster centre sits at Separation along a random
	// unit direction.
	centre := make([]float64, g.Dim)
	var norm float64
	for j := range centre {
		centre[j] = rng.NormFloat64()
		norm += centre[j] * centre[j]
	}
	norm = math.Sqrt(norm)
	for j := range centre {
		centre[j] = centre[j] / norm * g.Separation
	}

	vectors := make([][]float32, g.Size)
	labels := make([]int, g.Size)

	// Positions of positives are a random subset so the rare class is
	// spread through the dataset order.
	positions := rng.Perm(g.Size)[:g.Positives]
	isPositive := make(map[int]bool, g.Positives)
	for _, p := range positions {
		isPositive[p] = true
	}

	for i := 0; i < g.Size; i++ {
		row := make([]float32, g.Dim)
		if isPositive[i] {
			labels[i] = 1
			for j := 0; j < g.Dim; j++ {
				row[j] = float32(centre[j] + rng.NormFloat64()*g.Spread)
			}
		} else {
			for j := 0; j < g.Dim; j++ {
				row[j] = float32(rng.NormFloat64())
			}
		}
		vectors[i] = row
	}

	return domain.NewDataset(vectors, labels)
}

// Package flat implements driven.VectorIndex as an exact brute-force
// cosine similarity index. The dataset sizes this tool targets make
// exhaustive search fast enough, and exact neighbours keep runs
// reproducible.
package flat

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/custodia-labs/seals-cli/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

// Index is a flat (exhaustive) cosine k-NN index.
// Vectors are stored as-is with precomputed magnitudes.
type Index struct {
	dim  int
	vecs [][]float32
	mags []float64
}

// New creates an empty index for vectors of the given dimensionality.
func New(dim int) *Index {
	return &Index{dim: dim}
}

// Build implements driven.VectorIndex. Any previous contents are replaced.
func (x *Index) Build(ctx context.Context, vectors [][]float32) error {
	for i := range vectors {
		if len(vectors[i]) != x.dim {
			return fmt.Errorf("flat: vector %d has dim %d, want %d", i, len(vectors[i]), x.dim)
		}
	}

	mags := make([]float64, len(vectors))
	for i := range vectors {
		mags[i] = magnitude(vectors[i])
	}

	x.vecs = append([][]float32(nil), vectors...)
	x.mags = mags
	return nil
}

// Search implements driven.VectorIndex. Results are ordered by
// decreasing cosine similarity; ties break on ascending id.
func (x *Index) Search(ctx context.Context, query []float32, k int) ([]driven.Neighbour, error) {
	if len(query) != x.dim {
		return nil, fmt.Errorf("flat: query dim %d, want %d", len(query), x.dim)
	}
	if len(x.vecs) == 0 {
		return nil, nil
	}

	qm := magnitude(query)
	if qm == 0 {
		return nil, nil
	}

	scored := make([]driven.Neighbour, 0, len(x.vecs))
	for i := range x.vecs {
		if x.mags[i] == 0 {
			continue
		}
		s := dot(query, x.vecs[i]) / (qm * x.mags[i])
		if math.IsNaN(s) {
			continue
		}
		scored = append(scored, driven.Neighbour{ID: uint32(i), Similarity: s})
	}

	sort.SliceStable(scored, func(a, b int) bool {
		if scored[a].Similarity != scored[b].Similarity {
			return scored[a].Similarity > scored[b].Similarity
		}
		return scored[a].ID < scored[b].ID
	})

	if k <= 0 || k > len(scored) {
		k = len(scored)
	}
	return scored[:k], nil
}

// Len implements driven.VectorIndex.
func (x *Index) Len() int { return len(x.vecs) }

func dot(a, b []float32) float64 {
	var s float64
	for i := range a {
		s += float64(a[i]) * float64(b[i])
	}
	return s
}

func magnitude(v []float32) float64 { return math.Sqrt(dot(v, v)) }

package driven

import "context"

// VectorIndex provides exact nearest-neighbour search over the dataset's
// feature vectors. Indices returned by Search are positions in the slice
// passed to Build, which by convention are dataset indices.
//
// An index is owned by a single run: Build once, Search many times.
type VectorIndex interface {
	// Build indexes the given vectors. Any previous contents are replaced.
	Build(ctx context.Context, vectors [][]float32) error

	// Search finds the k nearest neighbours to the query vector,
	// ordered by decreasing similarity.
	Search(ctx context.Context, query []float32, k int) ([]Neighbour, error)

	// Len returns the number of indexed vectors.
	Len() int
}

// Neighbour is a single nearest-neighbour search result.
type Neighbour struct {
	// ID is the position of the matched vector.
	ID uint32

	// Similarity is the cosine similarity to the query.
	Similarity float64
}

// IndexFactory creates a fresh VectorIndex for vectors of the given
// dimensionality. Each repetition builds its own index.
type IndexFactory func(dim int) VectorIndex

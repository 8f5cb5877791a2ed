package domain

import "fmt"

// Dataset is an ordered, immutable collection of feature vectors with
// binary labels. Indices into the dataset are stable for the lifetime
// of a run; the Pool and the vector index both refer to positions here.
type Dataset struct {
	vectors [][]float32
	labels  []int
	dim     int
}

// NewDataset validates and wraps the given vectors and labels.
// All vectors must share one dimensionality and labels must be 0 or 1.
// The slices are retained; callers must not mutate them afterwards.
func NewDataset(vectors [][]float32, labels []int) (*Dataset, error) {
	if len(vectors) == 0 {
		return nil, ErrEmptyDataset
	}
	if len(vectors) != len(labels) {
		return nil, fmt.Errorf("%w: %d vectors, %d labels", ErrDimensionMismatch, len(vectors), len(labels))
	}

	dim := len(vectors[0])
	if dim == 0 {
		return nil, fmt.Errorf("%w: zero-dimensional vectors", ErrDimensionMismatch)
	}
	for i := range vectors {
		if len(vectors[i]) != dim {
			return nil, fmt.Errorf("%w: vector %d has dim %d, want %d", ErrDimensionMismatch, i, len(vectors[i]), dim)
		}
	}
	for i, l := range labels {
		if l != 0 && l != 1 {
			return nil, fmt.Errorf("%w: label %d at index %d", ErrInvalidLabel, l, i)
		}
	}

	return &Dataset{vectors: vectors, labels: labels, dim: dim}, nil
}

// Len returns the number of examples.
func (d *Dataset) Len() int { return len(d.vectors) }

// Dim returns the feature dimensionality.
func (d *Dataset) Dim() int { return d.dim }

// Vector returns the feature vector at index i.
// The returned slice is shared; callers must not mutate it.
func (d *Dataset) Vector(i int) []float32 { return d.vectors[i] }

// Vectors returns all feature vectors in dataset order.
// The returned slice is shared; callers must not mutate it.
func (d *Dataset) Vectors() [][]float32 { return d.vectors }

// Label returns the ground-truth label at index i.
func (d *Dataset) Label(i int) int { return d.labels[i] }

// Labels returns all ground-truth labels in dataset order.
// The returned slice is shared; callers must not mutate it.
func (d *Dataset) Labels() []int { return d.labels }

// Positives returns the number of positive examples.
func (d *Dataset) Positives() int {
	n := 0
	for _, l := range d.labels {
		n += l
	}
	return n
}

// PositiveIndices returns the dataset indices of all positive examples,
// in dataset order.
func (d *Dataset) PositiveIndices() []uint32 {
	out := make([]uint32, 0, d.Positives())
	for i, l := range d.labels {
		if l == 1 {
			out = append(out, uint32(i))
		}
	}
	return out
}

// Subset returns a new Dataset containing the examples at the given
// indices, in the given order. Vectors are shared with the parent.
func (d *Dataset) Subset(indices []uint32) (*Dataset, error) {
	if len(indices) == 0 {
		return nil, ErrEmptyDataset
	}

	vectors := make([][]float32, len(indices))
	labels := make([]int, len(indices))
	for i, idx := range indices {
		if int(idx) >= len(d.vectors) {
			return nil, fmt.Errorf("%w: index %d out of range", ErrNotFound, idx)
		}
		vectors[i] = d.vectors[idx]
		labels[i] = d.labels[idx]
	}

	return &Dataset{vectors: vectors, labels: labels, dim: d.dim}, nil
}

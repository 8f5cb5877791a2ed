package domain

import (
	"fmt"

	"github.com/RoaringBitmap/roaring"
)

// Pool is the labeled/unlabeled partition of dataset indices.
//
// Invariant: labeled and unlabeled are disjoint and their union is the
// full index set {0..size-1} at all times. An index moves from unlabeled
// to labeled exactly once; there is no way back.
type Pool struct {
	size      uint32
	labeled   *roaring.Bitmap
	unlabeled *roaring.Bitmap
}

// NewPool creates a partition over indices 0..size-1 with every index
// unlabeled.
func NewPool(size int) *Pool {
	unlabeled := roaring.New()
	unlabeled.AddRange(0, uint64(size))
	return &Pool{
		size:      uint32(size),
		labeled:   roaring.New(),
		unlabeled: unlabeled,
	}
}

// Size returns the total number of indices in the partition.
func (p *Pool) Size() int { return int(p.size) }

// MarkLabeled moves id from the unlabeled to the labeled set.
func (p *Pool) MarkLabeled(id uint32) error {
	if id >= p.size {
		return fmt.Errorf("%w: index %d out of range", ErrNotFound, id)
	}
	if p.labeled.Contains(id) {
		return fmt.Errorf("%w: index %d", ErrAlreadyLabeled, id)
	}
	p.unlabeled.Remove(id)
	p.labeled.Add(id)
	return nil
}

// IsLabeled reports whether id has been labeled.
func (p *Pool) IsLabeled(id uint32) bool { return p.labeled.Contains(id) }

// LabeledCount returns the number of labeled indices.
func (p *Pool) LabeledCount() int { return int(p.labeled.GetCardinality()) }

// UnlabeledCount returns the number of unlabeled indices.
func (p *Pool) UnlabeledCount() int { return int(p.unlabeled.GetCardinality()) }

// Labeled returns the labeled indices in ascending order.
func (p *Pool) Labeled() []uint32 { return p.labeled.ToArray() }

// Unlabeled returns the unlabeled indices in ascending order.
func (p *Pool) Unlabeled() []uint32 { return p.unlabeled.ToArray() }

// LabeledBitmap returns a copy of the labeled set.
func (p *Pool) LabeledBitmap() *roaring.Bitmap { return p.labeled.Clone() }

// Exhausted reports whether the unlabeled set is empty.
func (p *Pool) Exhausted() bool { return p.unlabeled.IsEmpty() }

// Validate checks the partition invariant: labeled and unlabeled are
// disjoint and together cover the full index set.
func (p *Pool) Validate() error {
	if roaring.And(p.labeled, p.unlabeled).GetCardinality() != 0 {
		return fmt.Errorf("pool partition overlap: %d indices in both sets",
			roaring.And(p.labeled, p.unlabeled).GetCardinality())
	}
	union := roaring.Or(p.labeled, p.unlabeled)
	if union.GetCardinality() != uint64(p.size) {
		return fmt.Errorf("pool partition incomplete: union has %d of %d indices",
			union.GetCardinality(), p.size)
	}
	return nil
}

package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDataset(t *testing.T) *Dataset {
	t.Helper()
	d, err := NewDataset(
		[][]float32{{1, 0}, {0, 1}, {1, 1}, {0, 0}},
		[]int{1, 0, 1, 0},
	)
	require.NoError(t, err)
	return d
}

func TestNewDataset_Empty(t *testing.T) {
	_, err := NewDataset(nil, nil)

	assert.ErrorIs(t, err, ErrEmptyDataset)
}

func TestNewDataset_LengthMismatch(t *testing.T) {
	_, err := NewDataset([][]float32{{1}}, []int{1, 0})

	assert.ErrorIs(t, err, ErrDimensionMismatch)
}

func TestNewDataset_RaggedVectors(t *testing.T) {
	_, err := NewDataset([][]float32{{1, 2}, {1}}, []int{0, 1})

	assert.ErrorIs(t, err, ErrDimensionMismatch)
}

func TestNewDataset_BadLabel(t *testing.T) {
	_, err := NewDataset([][]float32{{1}}, []int{3})

	assert.ErrorIs(t, err, ErrInvalidLabel)
}

func TestDataset_Accessors(t *testing.T) {
	d := testDataset(t)

	assert.Equal(t, 4, d.Len())
	assert.Equal(t, 2, d.Dim())
	assert.Equal(t, []float32{0, 1}, d.Vector(1))
	assert.Equal(t, 1, d.Label(2))
	assert.Equal(t, 2, d.Positives())
	assert.Equal(t, []uint32{0, 2}, d.PositiveIndices())
}

func TestSubset_PreservesOrder(t *testing.T) {
	d := testDataset(t)

	sub, err := d.Subset([]uint32{2, 0})
	require.NoError(t, err)

	assert.Equal(t, 2, sub.Len())
	assert.Equal(t, []float32{1, 1}, sub.Vector(0))
	assert.Equal(t, []float32{1, 0}, sub.Vector(1))
	assert.Equal(t, 2, sub.Positives())
}

func TestSubset_OutOfRange(t *testing.T) {
	d := testDataset(t)

	_, err := d.Subset([]uint32{99})

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSubset_Empty(t *testing.T) {
	d := testDataset(t)

	_, err := d.Subset(nil)

	assert.ErrorIs(t, err, ErrEmptyDataset)
}

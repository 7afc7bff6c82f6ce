package lasso

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"

	"github.com/ezoic/sparsefit/pkg/errors"
)

// BatchIterator produces up to numBatches minibatches of at most
// batchSize consecutive rows from (y, X), optionally after a single
// shared shuffle. The same permutation is applied to targets and rows,
// so label-feature correspondence is preserved. An iterator is one-shot:
// it is consumed by iteration and cannot be restarted.
//
// Rows beyond numBatches*batchSize are never visited, and an empty
// trailing batch is skipped rather than yielded.
type BatchIterator struct {
	y    []float64
	x    *mat.Dense
	perm []int

	batchSize  int
	numBatches int
	next       int

	batchY []float64
	batchX *mat.Dense
}

// NewBatchIterator validates the inputs and prepares the iteration
// order. When shuffle is true a permutation is drawn once from rng;
// rng may be nil when shuffle is false.
func NewBatchIterator(y []float64, x *mat.Dense, batchSize, numBatches int, shuffle bool, rng *rand.Rand) (*BatchIterator, error) {
	rows, _ := x.Dims()
	if len(y) != rows {
		return nil, errors.NewDimensionError("NewBatchIterator", rows, len(y), 0)
	}
	if rows == 0 {
		return nil, errors.NewModelError("NewBatchIterator", "empty data", errors.ErrEmptyData)
	}
	if batchSize <= 0 {
		return nil, errors.NewValueError("NewBatchIterator", "batch size must be positive")
	}
	if numBatches < 0 {
		return nil, errors.NewValueError("NewBatchIterator", "number of batches must be non-negative")
	}
	if shuffle && rng == nil {
		return nil, errors.NewValueError("NewBatchIterator", "shuffle requires a random source")
	}

	var perm []int
	if shuffle {
		perm = rng.Perm(rows)
	} else {
		perm = make([]int, rows)
		for i := range perm {
			perm[i] = i
		}
	}

	return &BatchIterator{
		y:          y,
		x:          x,
		perm:       perm,
		batchSize:  batchSize,
		numBatches: numBatches,
	}, nil
}

// Next advances to the next non-empty batch, returning false when the
// batch budget or the data is exhausted.
func (it *BatchIterator) Next() bool {
	if it.next >= it.numBatches {
		return false
	}
	n := len(it.perm)
	start := it.next * it.batchSize
	end := start + it.batchSize
	if end > n {
		end = n
	}
	if start >= end {
		return false
	}
	it.next++

	_, cols := it.x.Dims()
	it.batchY = make([]float64, end-start)
	it.batchX = mat.NewDense(end-start, cols, nil)
	for i, p := range it.perm[start:end] {
		it.batchY[i] = it.y[p]
		it.batchX.SetRow(i, it.x.RawRowView(p))
	}
	return true
}

// Batch returns the current minibatch. Only valid after Next has
// returned true; the returned slices are owned by the caller.
func (it *BatchIterator) Batch() ([]float64, *mat.Dense) {
	return it.batchY, it.batchX
}

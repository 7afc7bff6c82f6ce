package dataset

import (
	"math"
	"sort"

	"github.com/ezoic/sparsefit/pkg/errors"
)

// SparseDesign is a Design in compressed-sparse-column form. Column j
// occupies values[colPtr[j]:colPtr[j+1]] with matching row indices. The
// layout favors the column extractions and column norms that coordinate
// descent performs on every iteration.
type SparseDesign struct {
	rows   int
	cols   int
	colPtr []int
	rowIdx []int
	values []float64
}

// Entry is a single nonzero of a sparse matrix in triplet form.
type Entry struct {
	Row, Col int
	Value    float64
}

// NewSparseDesign builds a SparseDesign from triplet entries. Duplicate
// (row, col) pairs are summed. Entries out of range return an error.
func NewSparseDesign(rows, cols int, entries []Entry) (*SparseDesign, error) {
	if rows <= 0 || cols <= 0 {
		return nil, errors.NewValueError("NewSparseDesign", "dimensions must be positive")
	}
	for _, e := range entries {
		if e.Row < 0 || e.Row >= rows || e.Col < 0 || e.Col >= cols {
			return nil, errors.Newf("entry (%d, %d) outside %dx%d design", e.Row, e.Col, rows, cols)
		}
	}

	sorted := make([]Entry, len(entries))
	copy(sorted, entries)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Col != sorted[j].Col {
			return sorted[i].Col < sorted[j].Col
		}
		return sorted[i].Row < sorted[j].Row
	})

	sd := &SparseDesign{
		rows:   rows,
		cols:   cols,
		colPtr: make([]int, cols+1),
		rowIdx: make([]int, 0, len(sorted)),
		values: make([]float64, 0, len(sorted)),
	}

	col := 0
	for i := 0; i < len(sorted); {
		e := sorted[i]
		// Fold duplicates of the same coordinate.
		v := e.Value
		j := i + 1
		for j < len(sorted) && sorted[j].Col == e.Col && sorted[j].Row == e.Row {
			v += sorted[j].Value
			j++
		}
		for col < e.Col {
			col++
			sd.colPtr[col] = len(sd.values)
		}
		sd.rowIdx = append(sd.rowIdx, e.Row)
		sd.values = append(sd.values, v)
		i = j
	}
	for col < cols {
		col++
		sd.colPtr[col] = len(sd.values)
	}

	return sd, nil
}

// Dims returns the matrix dimensions.
func (sd *SparseDesign) Dims() (int, int) {
	return sd.rows, sd.cols
}

// NNZ returns the number of stored nonzeros.
func (sd *SparseDesign) NNZ() int {
	return len(sd.values)
}

// Column materializes column j as a dense vector.
func (sd *SparseDesign) Column(j int, dst []float64) []float64 {
	if cap(dst) < sd.rows {
		dst = make([]float64, sd.rows)
	}
	dst = dst[:sd.rows]
	for i := range dst {
		dst[i] = 0
	}
	for k := sd.colPtr[j]; k < sd.colPtr[j+1]; k++ {
		dst[sd.rowIdx[k]] = sd.values[k]
	}
	return dst
}

// ColumnNorm returns the L2 norm of column j without materializing it.
func (sd *SparseDesign) ColumnNorm(j int) float64 {
	var sq float64
	for k := sd.colPtr[j]; k < sd.colPtr[j+1]; k++ {
		sq += sd.values[k] * sd.values[k]
	}
	return math.Sqrt(sq)
}

// MulVec computes the matrix-vector product with alpha.
func (sd *SparseDesign) MulVec(alpha, dst []float64) []float64 {
	if cap(dst) < sd.rows {
		dst = make([]float64, sd.rows)
	}
	dst = dst[:sd.rows]
	for i := range dst {
		dst[i] = 0
	}
	for j := 0; j < sd.cols; j++ {
		aj := alpha[j]
		if aj == 0 {
			continue
		}
		for k := sd.colPtr[j]; k < sd.colPtr[j+1]; k++ {
			dst[sd.rowIdx[k]] += sd.values[k] * aj
		}
	}
	return dst
}

// ColumnDot returns the inner product of column j with a dense vector
// of length n, visiting only stored nonzeros.
func (sd *SparseDesign) ColumnDot(j int, v []float64) float64 {
	var sum float64
	for k := sd.colPtr[j]; k < sd.colPtr[j+1]; k++ {
		sum += sd.values[k] * v[sd.rowIdx[k]]
	}
	return sum
}

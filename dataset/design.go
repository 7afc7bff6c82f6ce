// Package dataset provides the design-matrix abstraction and data input
// for sparsefit solvers.
//
// Solvers access the design matrix through the Design interface, which
// exposes exactly the operations coordinate-wise optimization needs:
// column extraction, column norms, and matrix-vector products. Dense
// (gonum mat.Dense backed) and compressed-sparse-column implementations
// produce identical numeric results.
//
// The package also loads LibSVM-format files into sparse designs and
// synthesizes random regression problems for experiments and tests.
package dataset

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/ezoic/sparsefit/pkg/errors"
)

// Design is a read-only n×d design matrix viewed column-wise. Rows are
// samples and columns are features. Implementations must be safe for
// concurrent readers.
type Design interface {
	// Dims returns the number of rows (samples) and columns (features).
	Dims() (n, d int)

	// Column writes column j into dst and returns it. If dst is nil or
	// too short a new slice of length n is allocated.
	Column(j int, dst []float64) []float64

	// ColumnNorm returns the L2 norm of column j.
	ColumnNorm(j int) float64

	// MulVec writes the product of the design with alpha (length d)
	// into dst (length n) and returns it. If dst is nil a new slice is
	// allocated.
	MulVec(alpha, dst []float64) []float64
}

// DenseDesign is a Design backed by a gonum mat.Dense.
type DenseDesign struct {
	m *mat.Dense
}

// NewDenseDesign wraps m as a Design. The matrix is not copied; the
// caller must not mutate it while solvers are running.
func NewDenseDesign(m *mat.Dense) *DenseDesign {
	return &DenseDesign{m: m}
}

// Dims returns the matrix dimensions.
func (dd *DenseDesign) Dims() (int, int) {
	return dd.m.Dims()
}

// Column extracts column j as a dense vector.
func (dd *DenseDesign) Column(j int, dst []float64) []float64 {
	n, _ := dd.m.Dims()
	if cap(dst) < n {
		dst = make([]float64, n)
	}
	dst = dst[:n]
	for i := 0; i < n; i++ {
		dst[i] = dd.m.At(i, j)
	}
	return dst
}

// ColumnNorm returns the L2 norm of column j.
func (dd *DenseDesign) ColumnNorm(j int) float64 {
	n, _ := dd.m.Dims()
	var sq float64
	for i := 0; i < n; i++ {
		v := dd.m.At(i, j)
		sq += v * v
	}
	return math.Sqrt(sq)
}

// MulVec computes the matrix-vector product with alpha.
func (dd *DenseDesign) MulVec(alpha, dst []float64) []float64 {
	n, d := dd.m.Dims()
	if cap(dst) < n {
		dst = make([]float64, n)
	}
	dst = dst[:n]
	for i := 0; i < n; i++ {
		var sum float64
		row := dd.m.RawRowView(i)
		for j := 0; j < d; j++ {
			sum += row[j] * alpha[j]
		}
		dst[i] = sum
	}
	return dst
}

// Dense returns the underlying matrix, for row-oriented consumers such
// as the minibatch sampler.
func (dd *DenseDesign) Dense() *mat.Dense {
	return dd.m
}

// CheckTarget validates that b has one entry per design row.
func CheckTarget(op string, a Design, b []float64) error {
	n, _ := a.Dims()
	if n == 0 {
		return errors.NewModelError(op, "empty design matrix", errors.ErrEmptyData)
	}
	if len(b) != n {
		return errors.NewDimensionError(op, n, len(b), 0)
	}
	return nil
}

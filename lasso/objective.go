// Package lasso implements L1-regularized least squares (the Lasso):
//
//	min over alpha of 0.5*||A*alpha - b||^2 + lambda*||alpha||_1
//
// Two solvers are provided: stochastic subgradient descent over
// minibatches (SGD) and randomized coordinate descent with incremental
// residual maintenance (CD). Both run for a fixed iteration budget and
// can trace (elapsed time, objective value) history for analysis.
//
// The Lasso estimator type wraps the solvers behind the usual
// Fit/Predict/Score interface.
package lasso

import (
	"math"

	"github.com/ezoic/sparsefit/dataset"
	"github.com/ezoic/sparsefit/pkg/errors"
)

// Objective evaluates 0.5*||A*alpha - b||^2 + lambda*||alpha||_1.
// Dense and sparse designs yield the same value up to floating-point
// rounding. Dimension mismatches fail fast.
func Objective(a dataset.Design, b, alpha []float64, lambda float64) (float64, error) {
	n, d := a.Dims()
	if err := dataset.CheckTarget("Objective", a, b); err != nil {
		return 0, err
	}
	if len(alpha) != d {
		return 0, errors.NewDimensionError("Objective", d, len(alpha), 1)
	}
	if lambda < 0 {
		return 0, errors.NewValueError("Objective", "lambda must be non-negative")
	}

	pred := a.MulVec(alpha, nil)
	var quad float64
	for i := 0; i < n; i++ {
		diff := pred[i] - b[i]
		quad += diff * diff
	}

	var l1 float64
	for _, v := range alpha {
		l1 += math.Abs(v)
	}

	return 0.5*quad + lambda*l1, nil
}

// objectiveFromResidual evaluates the objective from a maintained
// residual r = b - A*alpha, avoiding the matrix-vector product.
func objectiveFromResidual(r, alpha []float64, lambda float64) float64 {
	var quad float64
	for _, v := range r {
		quad += v * v
	}
	var l1 float64
	for _, v := range alpha {
		l1 += math.Abs(v)
	}
	return 0.5*quad + lambda*l1
}

// SoftThreshold returns the exact minimizer of the objective restricted
// to a single coordinate: (z-lambda)/norm^2 when z > lambda,
// (z+lambda)/norm^2 when z < -lambda, and 0 inside the dead zone.
// norm is the L2 norm of the coordinate's design column.
func SoftThreshold(z, lambda, norm float64) float64 {
	normSq := norm * norm
	switch {
	case z > lambda:
		return (z - lambda) / normSq
	case z < -lambda:
		return (z + lambda) / normSq
	default:
		return 0
	}
}

// sign returns the L1 subgradient selection at x, with sign(0) = 0.
func sign(x float64) float64 {
	if x > 0 {
		return 1
	} else if x < 0 {
		return -1
	}
	return 0
}

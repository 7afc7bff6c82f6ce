// Package preprocessing provides data preprocessing utilities for
// sparsefit estimators.
//
// The StandardScaler standardizes features by removing the mean and
// scaling to unit variance. Standardizing the design matrix before a
// Lasso fit puts all columns on a comparable scale, so a single lambda
// penalizes every feature equally.
//
// Example usage:
//
//	scaler := preprocessing.NewStandardScaler(true, true)
//	scaled, err := scaler.FitTransform(X)
package preprocessing

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/ezoic/sparsefit/core/model"
	sfErrors "github.com/ezoic/sparsefit/pkg/errors"
)

// StandardScaler transforms features to zero mean and unit variance.
type StandardScaler struct {
	state *model.StateManager

	// Mean holds the per-feature mean computed by Fit.
	Mean []float64

	// Scale holds the per-feature standard deviation computed by Fit.
	Scale []float64

	// NFeatures is the number of features seen during Fit.
	NFeatures int

	// WithMean controls whether the mean is removed.
	WithMean bool

	// WithStd controls whether values are divided by the standard deviation.
	WithStd bool
}

// NewStandardScaler creates a StandardScaler. withMean centers the data
// at zero; withStd scales it to unit variance.
func NewStandardScaler(withMean, withStd bool) *StandardScaler {
	return &StandardScaler{
		state:    model.NewStateManager(),
		WithMean: withMean,
		WithStd:  withStd,
	}
}

// Fit computes the per-feature mean and standard deviation of X.
func (s *StandardScaler) Fit(x mat.Matrix) (err error) {
	defer sfErrors.Recover(&err, "StandardScaler.Fit")

	r, c := x.Dims()
	if r == 0 || c == 0 {
		return sfErrors.NewModelError("StandardScaler.Fit", "empty data", sfErrors.ErrEmptyData)
	}

	s.NFeatures = c
	s.Mean = make([]float64, c)
	s.Scale = make([]float64, c)

	if s.WithMean {
		for j := 0; j < c; j++ {
			var sum float64
			for i := 0; i < r; i++ {
				sum += x.At(i, j)
			}
			s.Mean[j] = sum / float64(r)
		}
	}

	if s.WithStd {
		for j := 0; j < c; j++ {
			var sumSquares float64
			for i := 0; i < r; i++ {
				diff := x.At(i, j) - s.Mean[j]
				sumSquares += diff * diff
			}
			s.Scale[j] = math.Sqrt(sumSquares / float64(r))

			// Constant features would divide by zero; leave them unscaled.
			if math.Abs(s.Scale[j]) < 1e-8 {
				s.Scale[j] = 1.0
			}
		}
	} else {
		for j := 0; j < c; j++ {
			s.Scale[j] = 1.0
		}
	}

	s.state.SetFitted()
	s.state.SetDimensions(c, r)
	return nil
}

// Transform standardizes X using the fitted statistics:
// X_scaled = (X - mean) / scale.
func (s *StandardScaler) Transform(x mat.Matrix) (_ mat.Matrix, err error) {
	defer sfErrors.Recover(&err, "StandardScaler.Transform")

	if !s.state.IsFitted() {
		return nil, sfErrors.NewNotFittedError("StandardScaler", "Transform")
	}

	r, c := x.Dims()
	if c != s.NFeatures {
		return nil, sfErrors.NewDimensionError("StandardScaler.Transform", s.NFeatures, c, 1)
	}

	result := mat.NewDense(r, c, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			result.Set(i, j, (x.At(i, j)-s.Mean[j])/s.Scale[j])
		}
	}
	return result, nil
}

// FitTransform fits the scaler and transforms X in one step.
func (s *StandardScaler) FitTransform(x mat.Matrix) (mat.Matrix, error) {
	if err := s.Fit(x); err != nil {
		return nil, err
	}
	return s.Transform(x)
}

// InverseTransform maps standardized data back to the original scale.
func (s *StandardScaler) InverseTransform(x mat.Matrix) (_ mat.Matrix, err error) {
	defer sfErrors.Recover(&err, "StandardScaler.InverseTransform")

	if !s.state.IsFitted() {
		return nil, sfErrors.NewNotFittedError("StandardScaler", "InverseTransform")
	}

	r, c := x.Dims()
	if c != s.NFeatures {
		return nil, sfErrors.NewDimensionError("StandardScaler.InverseTransform", s.NFeatures, c, 1)
	}

	result := mat.NewDense(r, c, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			result.Set(i, j, x.At(i, j)*s.Scale[j]+s.Mean[j])
		}
	}
	return result, nil
}

// IsFitted returns whether the scaler has been fitted.
func (s *StandardScaler) IsFitted() bool {
	return s.state.IsFitted()
}

// Package metrics provides evaluation metrics for regression models.
//
// The package implements the standard regression metrics used to assess
// sparsefit estimators:
//
//   - MSE: Mean Squared Error
//   - RMSE: Root Mean Squared Error
//   - MAE: Mean Absolute Error
//   - R2Score: Coefficient of determination
//
// All functions validate their inputs and return typed errors from
// pkg/errors on empty data or dimension mismatches.
package metrics

import (
	"math"

	"gonum.org/v1/gonum/mat"

	sfErrors "github.com/ezoic/sparsefit/pkg/errors"
)

// validatePair checks that both vectors are non-empty and equally sized.
func validatePair(op string, yTrue, yPred *mat.VecDense) (int, error) {
	n := yTrue.Len()
	if n == 0 {
		return 0, sfErrors.NewModelError(op, "empty vector", sfErrors.ErrEmptyData)
	}
	if yPred.Len() != n {
		return 0, sfErrors.NewDimensionError(op, n, yPred.Len(), 0)
	}
	return n, nil
}

// MSE calculates the Mean Squared Error between true and predicted values.
//
// MSE measures the average squared differences between predictions and
// actual values. Lower values indicate better model performance; the
// squared differences make it sensitive to outliers.
//
// Parameters:
//   - yTrue: True target values as a vector
//   - yPred: Predicted values as a vector
//
// Returns:
//   - float64: MSE value (non-negative)
//   - error: nil if successful, otherwise an error describing the failure
func MSE(yTrue, yPred *mat.VecDense) (float64, error) {
	n, err := validatePair("MSE", yTrue, yPred)
	if err != nil {
		return 0, err
	}

	var sum float64
	for i := 0; i < n; i++ {
		diff := yTrue.AtVec(i) - yPred.AtVec(i)
		sum += diff * diff
	}
	return sum / float64(n), nil
}

// RMSE calculates the Root Mean Squared Error, the square root of MSE.
// RMSE is in the same units as the target variable, which makes it the
// easier of the two to interpret.
func RMSE(yTrue, yPred *mat.VecDense) (float64, error) {
	mse, err := MSE(yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return math.Sqrt(mse), nil
}

// MAE calculates the Mean Absolute Error between true and predicted
// values. MAE is more robust to outliers than MSE.
func MAE(yTrue, yPred *mat.VecDense) (float64, error) {
	n, err := validatePair("MAE", yTrue, yPred)
	if err != nil {
		return 0, err
	}

	var sum float64
	for i := 0; i < n; i++ {
		sum += math.Abs(yTrue.AtVec(i) - yPred.AtVec(i))
	}
	return sum / float64(n), nil
}

// R2Score calculates the coefficient of determination.
//
// R² = 1 - RSS/TSS, where RSS is the residual sum of squares and TSS the
// total sum of squares. A perfect model scores 1.0; a model no better
// than predicting the mean scores 0; worse models score negative.
//
// Returns an error when yTrue has zero variance, since R² is undefined
// in that case.
func R2Score(yTrue, yPred *mat.VecDense) (float64, error) {
	n, err := validatePair("R2Score", yTrue, yPred)
	if err != nil {
		return 0, err
	}

	var mean float64
	for i := 0; i < n; i++ {
		mean += yTrue.AtVec(i)
	}
	mean /= float64(n)

	var tss, rss float64
	for i := 0; i < n; i++ {
		yi := yTrue.AtVec(i)
		diff := yi - yPred.AtVec(i)
		tss += (yi - mean) * (yi - mean)
		rss += diff * diff
	}

	if tss == 0 {
		return 0, sfErrors.NewValueError("R2Score", "zero variance in yTrue")
	}
	return 1 - rss/tss, nil
}

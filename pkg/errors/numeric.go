package errors

import (
	"fmt"
	"io"
	"math"
	"os"
)

// ConvergenceWarning reports an iterative solver that exhausted its
// iteration budget or produced a suspicious numeric result. Warnings are
// advisory: they should be surfaced through Warn, never returned as hard
// errors from Fit.
type ConvergenceWarning struct {
	ModelName string
	Iteration int
	Message   string
}

// NewConvergenceWarning creates a ConvergenceWarning for the given model.
func NewConvergenceWarning(modelName string, iteration int, message string) *ConvergenceWarning {
	return &ConvergenceWarning{ModelName: modelName, Iteration: iteration, Message: message}
}

func (w *ConvergenceWarning) Error() string {
	return fmt.Sprintf("%s: %s: iteration %d: %s", prefix, w.ModelName, w.Iteration, w.Message)
}

// warnOutput is swappable for tests.
var warnOutput io.Writer = os.Stderr

// Warn emits an advisory warning without interrupting the caller.
func Warn(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(warnOutput, "WARNING: %v\n", err)
}

// NumericError reports a NaN or infinite value encountered during
// optimization, pinned to the quantity and iteration that produced it.
type NumericError struct {
	Name      string
	Value     float64
	Iteration int
}

// NewNumericError creates a NumericError for the given quantity.
func NewNumericError(name string, value float64, iteration int) *NumericError {
	return &NumericError{Name: name, Value: value, Iteration: iteration}
}

func (e *NumericError) Error() string {
	return fmt.Sprintf("%s: non-finite %s (%v) at iteration %d",
		prefix, e.Name, e.Value, e.Iteration)
}

// CheckScalar returns a NumericError when v is NaN or infinite.
func CheckScalar(name string, v float64, iteration int) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return NewNumericError(name, v, iteration)
	}
	return nil
}

// ClipGradient rescales grad in place so its L2 norm does not exceed
// maxNorm, and returns the slice. A zero or small gradient is untouched.
func ClipGradient(grad []float64, maxNorm float64) []float64 {
	var sq float64
	for _, g := range grad {
		sq += g * g
	}
	norm := math.Sqrt(sq)
	if norm <= maxNorm || norm == 0 {
		return grad
	}
	scale := maxNorm / norm
	for i := range grad {
		grad[i] *= scale
	}
	return grad
}

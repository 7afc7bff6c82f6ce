// Package errors defines the error taxonomy shared by all sparsefit
// estimators and numerical routines.
//
// The package provides:
//
//   - Typed errors (DimensionError, ValueError, NotFittedError, ...) that
//     work with errors.Is / errors.As through Go 1.13+ wrapping
//   - Sentinel errors for common failure categories (ErrEmptyData, ...)
//   - Panic recovery for public estimator entry points
//   - Numeric guards for iterative solvers (CheckScalar, ClipGradient)
//
// All errors carry the operation that produced them so that a failure deep
// inside a solver can be traced back to the public API call. Stack traces
// are attached via cockroachdb/errors and are rendered by %+v.
package errors

import (
	"fmt"

	cockroachErrors "github.com/cockroachdb/errors"
)

// prefix is prepended to every error message produced by this package.
const prefix = "sparsefit"

// Sentinel errors for common failure categories. Use errors.Is to test
// for them through any number of wrapping layers.
var (
	// ErrEmptyData indicates that an input matrix or vector has no elements.
	ErrEmptyData = cockroachErrors.New("empty data")

	// ErrDimensionMismatch indicates incompatible shapes between inputs.
	ErrDimensionMismatch = cockroachErrors.New("dimension mismatch")

	// ErrSingularMatrix indicates a matrix that cannot be inverted.
	ErrSingularMatrix = cockroachErrors.New("singular matrix")

	// ErrNotImplemented indicates a requested feature that does not exist yet.
	ErrNotImplemented = cockroachErrors.New("not implemented")
)

// DimensionError reports a shape mismatch between an expected and an actual
// dimension along a given axis (0 = rows/samples, 1 = columns/features).
type DimensionError struct {
	Op       string
	Expected int
	Got      int
	Axis     int
}

// NewDimensionError creates a DimensionError for the given operation.
func NewDimensionError(op string, expected, got, axis int) *DimensionError {
	return &DimensionError{Op: op, Expected: expected, Got: got, Axis: axis}
}

func (e *DimensionError) Error() string {
	axis := "rows"
	if e.Axis == 1 {
		axis = "columns"
	}
	return fmt.Sprintf("%s: %s: dimension mismatch on %s: expected %d, got %d",
		prefix, e.Op, axis, e.Expected, e.Got)
}

// Is reports ErrDimensionMismatch so callers can match the category.
func (e *DimensionError) Is(target error) bool {
	return target == ErrDimensionMismatch
}

// ValueError reports an invalid argument value.
type ValueError struct {
	Op      string
	Message string
}

// NewValueError creates a ValueError for the given operation.
func NewValueError(op, message string) *ValueError {
	return &ValueError{Op: op, Message: message}
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("%s: %s: %s", prefix, e.Op, e.Message)
}

// ValidationError reports an input field that failed validation, together
// with the offending value.
type ValidationError struct {
	Field   string
	Message string
	Value   interface{}
}

// NewValidationError creates a ValidationError for the given field.
func NewValidationError(field, message string, value interface{}) *ValidationError {
	return &ValidationError{Field: field, Message: message, Value: value}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: validation failed for %s: %s (value: %v)",
		prefix, e.Field, e.Message, e.Value)
}

// NotFittedError reports usage of an estimator method that requires a
// fitted model.
type NotFittedError struct {
	ModelName string
	Method    string
}

// NewNotFittedError creates a NotFittedError for the given model and method.
func NewNotFittedError(modelName, method string) *NotFittedError {
	return &NotFittedError{ModelName: modelName, Method: method}
}

func (e *NotFittedError) Error() string {
	return fmt.Sprintf("%s: %s is not fitted: call Fit before %s",
		prefix, e.ModelName, e.Method)
}

// ModelError wraps a lower-level error with model operation context.
type ModelError struct {
	Op      string
	Message string
	Err     error
}

// NewModelError creates a ModelError wrapping err.
func NewModelError(op, message string, err error) *ModelError {
	return &ModelError{Op: op, Message: message, Err: err}
}

func (e *ModelError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s: %s", prefix, e.Op, e.Message)
	}
	return fmt.Sprintf("%s: %s: %s: %v", prefix, e.Op, e.Message, e.Err)
}

// Unwrap returns the wrapped error for errors.Is / errors.As traversal.
func (e *ModelError) Unwrap() error {
	return e.Err
}

// Newf creates a new error with a formatted message and a stack trace.
func Newf(format string, args ...interface{}) error {
	return cockroachErrors.Newf(prefix+": "+format, args...)
}

// Wrapf annotates err with a formatted message, preserving the chain.
func Wrapf(err error, format string, args ...interface{}) error {
	return cockroachErrors.Wrapf(err, format, args...)
}

// Recover converts a panic inside op into an error assigned to *errp.
// Intended as a deferred guard on public estimator entry points:
//
//	func (m *Model) Fit(X, y mat.Matrix) (err error) {
//		defer errors.Recover(&err, "Model.Fit")
//		...
//	}
func Recover(errp *error, op string) {
	if r := recover(); r != nil {
		if err, ok := r.(error); ok {
			*errp = cockroachErrors.Wrapf(err, "%s: %s: panic recovered", prefix, op)
			return
		}
		*errp = cockroachErrors.Newf("%s: %s: panic recovered: %v", prefix, op, r)
	}
}

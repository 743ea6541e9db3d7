package spatialmath

import "github.com/pkg/errors"

// ErrDimensionMismatch is returned when a vector does not have the dimension a group element acts on.
var ErrDimensionMismatch = errors.New("dimension mismatch")

// ErrNotRotationMatrix is returned when a matrix passed as a rotation is not orthonormal with determinant one.
var ErrNotRotationMatrix = errors.New("matrix is not a rotation")

// NewDimensionMismatchError returns an error wrapping ErrDimensionMismatch.
func NewDimensionMismatchError(expected, actual int) error {
	return errors.Wrapf(ErrDimensionMismatch, "expected vector of length %d, got %d", expected, actual)
}

func newBadEulerSequenceError(seq string) error {
	return errors.Errorf("invalid euler sequence %q, need three of x, y, z with no axis repeated back to back", seq)
}

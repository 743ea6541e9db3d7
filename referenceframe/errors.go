package referenceframe

import "github.com/pkg/errors"

// ErrTypeMismatch is returned when two configurations of different representations are compared or interpolated.
var ErrTypeMismatch = errors.New("configuration type mismatch")

// ErrUnsupportedConfiguration is returned for configuration values that are not Joints, *SE2 or *SE3.
var ErrUnsupportedConfiguration = errors.New("unsupported configuration type")

// NewTypeMismatchError returns an error indicating that a and b cannot be combined.
func NewTypeMismatchError(a, b Configuration) error {
	return errors.Wrapf(ErrTypeMismatch, "cannot combine %T with %T", a, b)
}

// NewUnsupportedConfigurationError returns an error naming the unsupported configuration type.
func NewUnsupportedConfigurationError(c Configuration) error {
	return errors.Wrapf(ErrUnsupportedConfiguration, "%T", c)
}

// NewIncorrectDoFError returns an error indicating that a joint vector has the wrong number of values.
func NewIncorrectDoFError(actual, expected int) error {
	return errors.Errorf("number of inputs does not match frame DoF, expected %d but got %d", expected, actual)
}

// NewJointOutOfBoundsError returns an error indicating that joint idx lies outside its limit.
func NewJointOutOfBoundsError(idx int, value float64, limit Limit) error {
	return errors.Errorf("%s: joint %d value %.4f outside [%.4f, %.4f]", OOBErrString, idx, value, limit.Min, limit.Max)
}

// NewBadStepError returns an error for a non-positive interpolation step.
func NewBadStepError(step float64) error {
	return errors.Errorf("interpolation step must be positive, got %f", step)
}

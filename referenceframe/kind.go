package referenceframe

import (
	"github.com/pkg/errors"

	"go.viam.com/robotoolbox/spatialmath"
)

// Kind names the representation of a configuration.
type Kind string

// The configuration kinds understood by Distance and Interpolate.
const (
	KindJoints = Kind("joints")
	KindSE2    = Kind("se2")
	KindSE3    = Kind("se3")
)

// KindOf returns the kind of c.
func KindOf(c Configuration) (Kind, error) {
	switch normalize(c).(type) {
	case Joints:
		return KindJoints, nil
	case *spatialmath.SE2:
		return KindSE2, nil
	case *spatialmath.SE3:
		return KindSE3, nil
	default:
		return "", NewUnsupportedConfigurationError(c)
	}
}

// ParseKind validates a kind read from user input.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(s); k {
	case KindJoints, KindSE2, KindSE3:
		return k, nil
	default:
		return "", errors.Errorf("unknown configuration kind %q", s)
	}
}

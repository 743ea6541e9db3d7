package referenceframe

import (
	"math"

	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/floats"

	"go.viam.com/robotoolbox/spatialmath"
)

// Configuration is a point in a robot's configuration space. It is one of Joints ([]float64 is accepted
// as well), *spatialmath.SE2 or *spatialmath.SE3.
type Configuration interface{}

// normalize lets callers pass plain float slices where Joints are expected.
func normalize(c Configuration) Configuration {
	if v, ok := c.([]float64); ok {
		return Joints(v)
	}
	return c
}

// Distance returns the configuration-space distance between a and b.
// For Joints it is the Euclidean norm of the difference. For poses it is the norm of the local
// difference inverse(a)*b, written as [translation, angle] for SE2 and [translation, log(rotation)] for SE3.
func Distance(a, b Configuration) (float64, error) {
	a, b = normalize(a), normalize(b)
	switch av := a.(type) {
	case Joints:
		bv, ok := b.(Joints)
		if !ok {
			return 0, NewTypeMismatchError(a, b)
		}
		if len(av) != len(bv) {
			return 0, spatialmath.NewDimensionMismatchError(len(av), len(bv))
		}
		return floats.Distance(av, bv, 2), nil
	case *spatialmath.SE2:
		bv, ok := b.(*spatialmath.SE2)
		if !ok {
			return 0, NewTypeMismatchError(a, b)
		}
		return floats.Norm(se2Tangent(av.Inverse().Compose(bv)), 2), nil
	case *spatialmath.SE3:
		bv, ok := b.(*spatialmath.SE3)
		if !ok {
			return 0, NewTypeMismatchError(a, b)
		}
		return floats.Norm(se3Tangent(av.Inverse().Compose(bv)), 2), nil
	default:
		return 0, NewUnsupportedConfigurationError(a)
	}
}

// Interpolate returns the configuration at distance step from a along the straight path towards b.
// Steps longer than Distance(a, b) continue past b in the same direction. Poses move along
// a * exp(s * log(inverse(a)*b)) in the [translation, angle] parametrization used by Distance.
// If a and b coincide a copy of a is returned.
func Interpolate(a, b Configuration, step float64) (Configuration, error) {
	a, b = normalize(a), normalize(b)
	dist, err := Distance(a, b)
	if err != nil {
		return nil, err
	}
	if dist == 0 {
		return CloneConfiguration(a), nil
	}
	s := step / dist
	switch av := a.(type) {
	case Joints:
		return interpolateJoints(av, b.(Joints), s), nil
	case *spatialmath.SE2:
		delta := av.Inverse().Compose(b.(*spatialmath.SE2))
		t := delta.Translation()
		return av.Compose(spatialmath.NewSE2FromAngle(t.Mul(s), s*delta.Angle())), nil
	case *spatialmath.SE3:
		delta := av.Inverse().Compose(b.(*spatialmath.SE3))
		w := delta.Rotation().Log()
		return av.Compose(spatialmath.NewSE3(delta.Translation().Mul(s), spatialmath.SO3Exp(w.Mul(s)))), nil
	default:
		return nil, NewUnsupportedConfigurationError(a)
	}
}

// InterpolatePath returns the waypoints of the straight path from a to b, excluding a and ending with b,
// spaced evenly so that no two consecutive waypoints (a included) are more than step apart.
func InterpolatePath(a, b Configuration, step float64) ([]Configuration, error) {
	dist, err := Distance(a, b)
	if err != nil {
		return nil, err
	}
	if step <= 0 {
		return nil, NewBadStepError(step)
	}
	n := int(math.Ceil(dist/step - 1e-9))
	if n < 1 {
		n = 1
	}
	path := make([]Configuration, 0, n)
	for i := 1; i < n; i++ {
		q, err := Interpolate(a, b, dist*float64(i)/float64(n))
		if err != nil {
			return nil, err
		}
		path = append(path, q)
	}
	return append(path, CloneConfiguration(normalize(b))), nil
}

// PathLength returns the sum of the distances between consecutive configurations.
func PathLength(path []Configuration) (float64, error) {
	total := 0.
	for i := 1; i < len(path); i++ {
		d, err := Distance(path[i-1], path[i])
		if err != nil {
			return 0, err
		}
		total += d
	}
	return total, nil
}

// CloneConfiguration returns a copy of c that shares no memory with it.
func CloneConfiguration(c Configuration) Configuration {
	switch v := normalize(c).(type) {
	case Joints:
		return v.Clone()
	case *spatialmath.SE2:
		return v.Clone()
	case *spatialmath.SE3:
		return v.Clone()
	default:
		return c
	}
}

// ConfigurationsAlmostEqual returns whether a and b are the same type and closer than epsilon.
func ConfigurationsAlmostEqual(a, b Configuration, epsilon float64) bool {
	d, err := Distance(a, b)
	return err == nil && d <= epsilon
}

// ConfigurationToFloats flattens a configuration: joint values, [x, y, angle] for SE2 and
// [x, y, z, log(rotation)] for SE3.
func ConfigurationToFloats(c Configuration) ([]float64, error) {
	switch v := normalize(c).(type) {
	case Joints:
		return []float64(v.Clone()), nil
	case *spatialmath.SE2:
		return se2Tangent(v), nil
	case *spatialmath.SE3:
		return se3Tangent(v), nil
	default:
		return nil, NewUnsupportedConfigurationError(c)
	}
}

// ConfigurationFromFloats is the inverse of ConfigurationToFloats for the given kind of configuration.
func ConfigurationFromFloats(kind Kind, values []float64) (Configuration, error) {
	want := map[Kind]int{KindSE2: 3, KindSE3: 6}[kind]
	switch kind {
	case KindJoints:
		return Joints(values).Clone(), nil
	case KindSE2:
		if len(values) != want {
			return nil, spatialmath.NewDimensionMismatchError(want, len(values))
		}
		return spatialmath.NewSE2FromAngle(r2.Point{X: values[0], Y: values[1]}, values[2]), nil
	case KindSE3:
		if len(values) != want {
			return nil, spatialmath.NewDimensionMismatchError(want, len(values))
		}
		return spatialmath.NewSE3(
			r3.Vector{X: values[0], Y: values[1], Z: values[2]},
			spatialmath.SO3Exp(r3.Vector{X: values[3], Y: values[4], Z: values[5]}),
		), nil
	default:
		return nil, NewUnsupportedConfigurationError(kind)
	}
}

func se2Tangent(p *spatialmath.SE2) []float64 {
	t := p.Translation()
	return []float64{t.X, t.Y, p.Angle()}
}

func se3Tangent(p *spatialmath.SE3) []float64 {
	t := p.Translation()
	w := p.Rotation().Log()
	return []float64{t.X, t.Y, t.Z, w.X, w.Y, w.Z}
}

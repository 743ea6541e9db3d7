package spatialmath

import (
	"fmt"
	"math"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/num/quat"
)

var identity3 = [9]float64{1, 0, 0, 0, 1, 0, 0, 0, 1}

// SO3 is a rotation in space, stored as a row-major 3x3 rotation matrix. Group operations always
// return new values; SetFrom is the only mutator.
type SO3 struct {
	rot [9]float64
}

// NewZeroSO3 returns the identity rotation.
func NewZeroSO3() *SO3 {
	return &SO3{rot: identity3}
}

// NewSO3FromMatrix wraps a row-major rotation matrix, checking that it is orthonormal with determinant one.
func NewSO3FromMatrix(m [9]float64) (*SO3, error) {
	r := &SO3{rot: m}
	prod := mul3(&r.rot, &r.Inverse().rot)
	if !floats.EqualApprox(prod[:], identity3[:], defaultEpsilon) || math.Abs(det3(&m)-1) > defaultEpsilon {
		return nil, errors.Wrapf(ErrNotRotationMatrix, "%v", m)
	}
	return r, nil
}

// SO3Exp maps an axis-angle vector (axis scaled by angle in radians) to a rotation using Rodrigues' formula.
func SO3Exp(w r3.Vector) *SO3 {
	theta := w.Norm()
	var a, b float64
	if theta < 1e-6 {
		t2 := theta * theta
		a = 1 - t2/6
		b = 0.5 - t2/24
	} else {
		a = math.Sin(theta) / theta
		b = (1 - math.Cos(theta)) / (theta * theta)
	}
	k := hat(w)
	k2 := mul3(&k, &k)
	var rot [9]float64
	for i := range rot {
		rot[i] = identity3[i] + a*k[i] + b*k2[i]
	}
	return &SO3{rot: rot}
}

// RX returns the rotation by angle radians about the x axis.
func RX(angle float64) *SO3 {
	return SO3Exp(r3.Vector{X: angle})
}

// RY returns the rotation by angle radians about the y axis.
func RY(angle float64) *SO3 {
	return SO3Exp(r3.Vector{Y: angle})
}

// RZ returns the rotation by angle radians about the z axis.
func RZ(angle float64) *SO3 {
	return SO3Exp(r3.Vector{Z: angle})
}

// SO3FromEulerAngles composes per-axis rotations in the order given by seq, e.g. "xyz" gives
// RX(angles.X) * RY(angles.Y) * RZ(angles.Z). Sequences such as "zyz" are allowed.
func SO3FromEulerAngles(angles r3.Vector, seq string) (*SO3, error) {
	if len(seq) != 3 {
		return nil, newBadEulerSequenceError(seq)
	}
	vals := [3]float64{angles.X, angles.Y, angles.Z}
	rot := NewZeroSO3()
	for i := 0; i < 3; i++ {
		if i > 0 && seq[i] == seq[i-1] {
			return nil, newBadEulerSequenceError(seq)
		}
		switch seq[i] {
		case 'x', 'X':
			rot = rot.Compose(RX(vals[i]))
		case 'y', 'Y':
			rot = rot.Compose(RY(vals[i]))
		case 'z', 'Z':
			rot = rot.Compose(RZ(vals[i]))
		default:
			return nil, newBadEulerSequenceError(seq)
		}
	}
	return rot, nil
}

// SO3FromQuaternion converts a quaternion, which need not be unit length, to a rotation.
func SO3FromQuaternion(q quat.Number) (*SO3, error) {
	norm := quat.Abs(q)
	if norm == 0 {
		return nil, errors.New("cannot build rotation from zero quaternion")
	}
	q = quat.Scale(1/norm, q)
	w, x, y, z := q.Real, q.Imag, q.Jmag, q.Kmag
	return &SO3{rot: [9]float64{
		1 - 2*(y*y+z*z), 2 * (x*y - w*z), 2 * (x*z + w*y),
		2 * (x*y + w*z), 1 - 2*(x*x+z*z), 2 * (y*z - w*x),
		2 * (x*z - w*y), 2 * (y*z + w*x), 1 - 2*(x*x+y*y),
	}}, nil
}

// SO3FromAxisAngle converts an R4 axis angle to a rotation.
func SO3FromAxisAngle(aa *R4AA) *SO3 {
	return SO3Exp(aa.ToR3())
}

// Log returns the axis-angle vector w with SO3Exp(w) equal to r. The angle is in [0, pi].
func (r *SO3) Log() r3.Vector {
	m := &r.rot
	cosTheta := math.Max(-1, math.Min(1, (m[0]+m[4]+m[8]-1)/2))
	vee := r3.Vector{X: m[7] - m[5], Y: m[2] - m[6], Z: m[3] - m[1]}
	theta := math.Atan2(vee.Norm()/2, cosTheta)
	switch {
	case theta < 1e-6:
		return vee.Mul(0.5 + theta*theta/12)
	case math.Pi-theta < 1e-3:
		// the antisymmetric part vanishes near pi, so read the axis off n*n^T instead
		oneMinusCos := 1 - cosTheta
		nn := func(i, j int) float64 {
			v := (m[3*i+j] + m[3*j+i]) / 2
			if i == j {
				v -= cosTheta
			}
			return v / oneMinusCos
		}
		k := 0
		for i := 1; i < 3; i++ {
			if nn(i, i) > nn(k, k) {
				k = i
			}
		}
		var n [3]float64
		n[k] = math.Sqrt(math.Max(nn(k, k), 0))
		for i := 0; i < 3; i++ {
			if i != k {
				n[i] = nn(i, k) / n[k]
			}
		}
		axis := r3.Vector{X: n[0], Y: n[1], Z: n[2]}.Normalize()
		if axis.Dot(vee) < 0 {
			axis = axis.Mul(-1)
		}
		return axis.Mul(theta)
	default:
		return vee.Mul(theta / (2 * math.Sin(theta)))
	}
}

// Quaternion returns the unit quaternion with non-negative real part representing r.
func (r *SO3) Quaternion() quat.Number {
	m := &r.rot
	var q quat.Number
	switch tr := m[0] + m[4] + m[8]; {
	case tr > 0:
		s := math.Sqrt(tr+1) * 2
		q = quat.Number{Real: s / 4, Imag: (m[7] - m[5]) / s, Jmag: (m[2] - m[6]) / s, Kmag: (m[3] - m[1]) / s}
	case m[0] > m[4] && m[0] > m[8]:
		s := math.Sqrt(1+m[0]-m[4]-m[8]) * 2
		q = quat.Number{Real: (m[7] - m[5]) / s, Imag: s / 4, Jmag: (m[1] + m[3]) / s, Kmag: (m[2] + m[6]) / s}
	case m[4] > m[8]:
		s := math.Sqrt(1+m[4]-m[0]-m[8]) * 2
		q = quat.Number{Real: (m[2] - m[6]) / s, Imag: (m[1] + m[3]) / s, Jmag: s / 4, Kmag: (m[5] + m[7]) / s}
	default:
		s := math.Sqrt(1+m[8]-m[0]-m[4]) * 2
		q = quat.Number{Real: (m[3] - m[1]) / s, Imag: (m[2] + m[6]) / s, Jmag: (m[5] + m[7]) / s, Kmag: s / 4}
	}
	if q.Real < 0 {
		q = quat.Scale(-1, q)
	}
	return q
}

// AxisAngles returns the rotation as an R4 axis angle.
func (r *SO3) AxisAngles() *R4AA {
	return R3ToR4(r.Log())
}

// Matrix returns a copy of the row-major rotation matrix.
func (r *SO3) Matrix() [9]float64 {
	return r.rot
}

// Compose returns r*other.
func (r *SO3) Compose(other *SO3) *SO3 {
	return &SO3{rot: mul3(&r.rot, &other.rot)}
}

// Inverse returns the transpose of r.
func (r *SO3) Inverse() *SO3 {
	m := &r.rot
	return &SO3{rot: [9]float64{m[0], m[3], m[6], m[1], m[4], m[7], m[2], m[5], m[8]}}
}

// Transform rotates a vector.
func (r *SO3) Transform(v r3.Vector) r3.Vector {
	m := &r.rot
	return r3.Vector{
		X: m[0]*v.X + m[1]*v.Y + m[2]*v.Z,
		Y: m[3]*v.X + m[4]*v.Y + m[5]*v.Z,
		Z: m[6]*v.X + m[7]*v.Y + m[8]*v.Z,
	}
}

// Act rotates a 3-vector given as a slice.
func (r *SO3) Act(v []float64) ([]float64, error) {
	if len(v) != 3 {
		return nil, NewDimensionMismatchError(3, len(v))
	}
	out := r.Transform(r3.Vector{X: v[0], Y: v[1], Z: v[2]})
	return []float64{out.X, out.Y, out.Z}, nil
}

// AlmostEqual returns whether two rotations have the same matrix within tolerance.
func (r *SO3) AlmostEqual(other *SO3) bool {
	return floats.EqualApprox(r.rot[:], other.rot[:], defaultEpsilon)
}

// Clone returns an independent copy.
func (r *SO3) Clone() *SO3 {
	return &SO3{rot: r.rot}
}

// SetFrom overwrites r with the value of other.
func (r *SO3) SetFrom(other *SO3) {
	r.rot = other.rot
}

func (r *SO3) String() string {
	w := r.Log()
	return fmt.Sprintf("SO3{log: [%.6f %.6f %.6f]}", w.X, w.Y, w.Z)
}

func hat(w r3.Vector) [9]float64 {
	return [9]float64{
		0, -w.Z, w.Y,
		w.Z, 0, -w.X,
		-w.Y, w.X, 0,
	}
}

func mul3(a, b *[9]float64) [9]float64 {
	var out [9]float64
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out[3*i+j] = a[3*i]*b[j] + a[3*i+1]*b[3+j] + a[3*i+2]*b[6+j]
		}
	}
	return out
}

func det3(m *[9]float64) float64 {
	return m[0]*(m[4]*m[8]-m[5]*m[7]) - m[1]*(m[3]*m[8]-m[5]*m[6]) + m[2]*(m[3]*m[7]-m[4]*m[6])
}

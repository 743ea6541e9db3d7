package spatialmath

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
)

// SE3 is a rigid transform in space: a rotation followed by a translation.
type SE3 struct {
	translation r3.Vector
	rotation    *SO3
}

// NewZeroSE3 returns the identity transform.
func NewZeroSE3() *SE3 {
	return &SE3{rotation: NewZeroSO3()}
}

// NewSE3 builds a transform from a translation and a rotation. A nil rotation means the identity.
// The rotation is copied.
func NewSE3(translation r3.Vector, rotation *SO3) *SE3 {
	if rotation == nil {
		rotation = NewZeroSO3()
	}
	return &SE3{translation: translation, rotation: rotation.Clone()}
}

// NewSE3FromTranslation returns a pure translation.
func NewSE3FromTranslation(translation r3.Vector) *SE3 {
	return &SE3{translation: translation, rotation: NewZeroSO3()}
}

// Translation returns the translation part.
func (p *SE3) Translation() r3.Vector {
	return p.translation
}

// Rotation returns a copy of the rotation part.
func (p *SE3) Rotation() *SO3 {
	return p.rotation.Clone()
}

// Compose returns p*other, which applies other first and then p.
func (p *SE3) Compose(other *SE3) *SE3 {
	return &SE3{
		translation: p.translation.Add(p.rotation.Transform(other.translation)),
		rotation:    p.rotation.Compose(other.rotation),
	}
}

// Inverse returns the transform undoing p.
func (p *SE3) Inverse() *SE3 {
	inv := p.rotation.Inverse()
	return &SE3{translation: inv.Transform(p.translation).Mul(-1), rotation: inv}
}

// Transform maps a point through p.
func (p *SE3) Transform(v r3.Vector) r3.Vector {
	return p.rotation.Transform(v).Add(p.translation)
}

// Act maps a 3-vector given as a slice through p.
func (p *SE3) Act(v []float64) ([]float64, error) {
	if len(v) != 3 {
		return nil, NewDimensionMismatchError(3, len(v))
	}
	out := p.Transform(r3.Vector{X: v[0], Y: v[1], Z: v[2]})
	return []float64{out.X, out.Y, out.Z}, nil
}

// Homogeneous returns the 4x4 homogeneous matrix of p.
func (p *SE3) Homogeneous() mgl64.Mat4 {
	m := mgl64.Ident4()
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			m.Set(i, j, p.rotation.rot[3*i+j])
		}
	}
	m.Set(0, 3, p.translation.X)
	m.Set(1, 3, p.translation.Y)
	m.Set(2, 3, p.translation.Z)
	return m
}

// SE3FromHomogeneous reads a transform out of a 4x4 homogeneous matrix.
func SE3FromHomogeneous(m mgl64.Mat4) (*SE3, error) {
	if !m.Row(3).ApproxEqualThreshold(mgl64.Vec4{0, 0, 0, 1}, defaultEpsilon) {
		return nil, errors.Errorf("bottom row of homogeneous matrix must be [0 0 0 1], got %v", m.Row(3))
	}
	var rot [9]float64
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			rot[3*i+j] = m.At(i, j)
		}
	}
	r, err := NewSO3FromMatrix(rot)
	if err != nil {
		return nil, err
	}
	return &SE3{translation: r3.Vector{X: m.At(0, 3), Y: m.At(1, 3), Z: m.At(2, 3)}, rotation: r}, nil
}

// AlmostEqual returns whether two transforms agree within tolerance.
func (p *SE3) AlmostEqual(other *SE3) bool {
	return R3VectorAlmostEqual(p.translation, other.translation, defaultEpsilon) &&
		p.rotation.AlmostEqual(other.rotation)
}

// Clone returns an independent copy.
func (p *SE3) Clone() *SE3 {
	return &SE3{translation: p.translation, rotation: p.rotation.Clone()}
}

// SetFrom overwrites p with the value of other.
func (p *SE3) SetFrom(other *SE3) {
	p.translation = other.translation
	p.rotation = other.rotation.Clone()
}

func (p *SE3) String() string {
	w := p.rotation.Log()
	return fmt.Sprintf("SE3{t: [%.6f %.6f %.6f], log: [%.6f %.6f %.6f]}",
		p.translation.X, p.translation.Y, p.translation.Z, w.X, w.Y, w.Z)
}

package spatialmath

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/golang/geo/r2"
	"github.com/pkg/errors"
)

// SE2 is a rigid transform in the plane: a rotation followed by a translation.
type SE2 struct {
	translation r2.Point
	rotation    *SO2
}

// NewZeroSE2 returns the identity transform.
func NewZeroSE2() *SE2 {
	return &SE2{rotation: NewZeroSO2()}
}

// NewSE2 builds a transform from a translation and a rotation. A nil rotation means the identity.
// The rotation is copied.
func NewSE2(translation r2.Point, rotation *SO2) *SE2 {
	if rotation == nil {
		rotation = NewZeroSO2()
	}
	return &SE2{translation: translation, rotation: rotation.Clone()}
}

// NewSE2FromAngle builds a transform from a translation and a rotation angle in radians.
func NewSE2FromAngle(translation r2.Point, angle float64) *SE2 {
	return &SE2{translation: translation, rotation: NewSO2(angle)}
}

// Translation returns the translation part.
func (p *SE2) Translation() r2.Point {
	return p.translation
}

// Rotation returns a copy of the rotation part.
func (p *SE2) Rotation() *SO2 {
	return p.rotation.Clone()
}

// Angle returns the rotation angle in radians.
func (p *SE2) Angle() float64 {
	return p.rotation.Angle()
}

// Compose returns p*other, which applies other first and then p.
func (p *SE2) Compose(other *SE2) *SE2 {
	return &SE2{
		translation: p.translation.Add(p.rotation.Transform(other.translation)),
		rotation:    p.rotation.Compose(other.rotation),
	}
}

// Inverse returns the transform undoing p.
func (p *SE2) Inverse() *SE2 {
	inv := p.rotation.Inverse()
	return &SE2{translation: inv.Transform(p.translation).Mul(-1), rotation: inv}
}

// Transform maps a point through p.
func (p *SE2) Transform(pt r2.Point) r2.Point {
	return p.rotation.Transform(pt).Add(p.translation)
}

// Act maps a 2-vector given as a slice through p.
func (p *SE2) Act(v []float64) ([]float64, error) {
	if len(v) != 2 {
		return nil, NewDimensionMismatchError(2, len(v))
	}
	out := p.Transform(r2.Point{X: v[0], Y: v[1]})
	return []float64{out.X, out.Y}, nil
}

// Homogeneous returns the 3x3 homogeneous matrix of p.
func (p *SE2) Homogeneous() mgl64.Mat3 {
	r := p.rotation.rot
	m := mgl64.Ident3()
	m.Set(0, 0, r[0])
	m.Set(0, 1, r[1])
	m.Set(1, 0, r[2])
	m.Set(1, 1, r[3])
	m.Set(0, 2, p.translation.X)
	m.Set(1, 2, p.translation.Y)
	return m
}

// SE2FromHomogeneous reads a transform out of a 3x3 homogeneous matrix.
func SE2FromHomogeneous(m mgl64.Mat3) (*SE2, error) {
	if !mgl64.FloatEqualThreshold(m.At(2, 0), 0, defaultEpsilon) ||
		!mgl64.FloatEqualThreshold(m.At(2, 1), 0, defaultEpsilon) ||
		!mgl64.FloatEqualThreshold(m.At(2, 2), 1, defaultEpsilon) {
		return nil, errors.Errorf("bottom row of homogeneous matrix must be [0 0 1], got %v", m.Row(2))
	}
	rot := [4]float64{m.At(0, 0), m.At(0, 1), m.At(1, 0), m.At(1, 1)}
	r := &SO2{rot: rot}
	if !r.Compose(r.Inverse()).AlmostEqual(NewZeroSO2()) {
		return nil, ErrNotRotationMatrix
	}
	return &SE2{translation: r2.Point{X: m.At(0, 2), Y: m.At(1, 2)}, rotation: r}, nil
}

// AlmostEqual returns whether two transforms agree within tolerance.
func (p *SE2) AlmostEqual(other *SE2) bool {
	return almostEqual(p.translation.X, other.translation.X) &&
		almostEqual(p.translation.Y, other.translation.Y) &&
		p.rotation.AlmostEqual(other.rotation)
}

// Clone returns an independent copy.
func (p *SE2) Clone() *SE2 {
	return &SE2{translation: p.translation, rotation: p.rotation.Clone()}
}

// SetFrom overwrites p with the value of other.
func (p *SE2) SetFrom(other *SE2) {
	p.translation = other.translation
	p.rotation = other.rotation.Clone()
}

func (p *SE2) String() string {
	return fmt.Sprintf("SE2{t: [%.6f %.6f], angle: %.6f}", p.translation.X, p.translation.Y, p.Angle())
}

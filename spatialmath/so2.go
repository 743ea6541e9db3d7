package spatialmath

import (
	"fmt"
	"math"

	"github.com/golang/geo/r2"
	"gonum.org/v1/gonum/floats"
)

const (
	radToDeg = 180 / math.Pi
	degToRad = math.Pi / 180

	// defaultEpsilon is the combined absolute and relative tolerance used by AlmostEqual.
	defaultEpsilon = 1e-6
)

// SO2 is a rotation in the plane. It is stored as a row-major 2x2 rotation matrix and is never
// modified by any group operation; SetFrom is the only mutator.
type SO2 struct {
	rot [4]float64
}

// NewZeroSO2 returns the identity rotation.
func NewZeroSO2() *SO2 {
	return &SO2{rot: [4]float64{1, 0, 0, 1}}
}

// NewSO2 returns the counterclockwise rotation by angle radians.
func NewSO2(angle float64) *SO2 {
	s, c := math.Sincos(angle)
	return &SO2{rot: [4]float64{c, -s, s, c}}
}

// NewSO2Degrees returns the counterclockwise rotation by angle degrees.
func NewSO2Degrees(angle float64) *SO2 {
	return NewSO2(angle * degToRad)
}

// Angle returns the rotation angle in (-pi, pi].
func (r *SO2) Angle() float64 {
	return math.Atan2(r.rot[2], r.rot[0])
}

// Degrees returns the rotation angle in degrees.
func (r *SO2) Degrees() float64 {
	return r.Angle() * radToDeg
}

// Matrix returns a copy of the row-major rotation matrix.
func (r *SO2) Matrix() [4]float64 {
	return r.rot
}

// Compose returns r*other, the rotation that applies other first and then r.
func (r *SO2) Compose(other *SO2) *SO2 {
	a, b := &r.rot, &other.rot
	return &SO2{rot: [4]float64{
		a[0]*b[0] + a[1]*b[2], a[0]*b[1] + a[1]*b[3],
		a[2]*b[0] + a[3]*b[2], a[2]*b[1] + a[3]*b[3],
	}}
}

// Inverse returns the opposite rotation.
func (r *SO2) Inverse() *SO2 {
	return &SO2{rot: [4]float64{r.rot[0], r.rot[2], r.rot[1], r.rot[3]}}
}

// Transform rotates a point.
func (r *SO2) Transform(p r2.Point) r2.Point {
	return r2.Point{
		X: r.rot[0]*p.X + r.rot[1]*p.Y,
		Y: r.rot[2]*p.X + r.rot[3]*p.Y,
	}
}

// Act rotates a 2-vector given as a slice.
func (r *SO2) Act(v []float64) ([]float64, error) {
	if len(v) != 2 {
		return nil, NewDimensionMismatchError(2, len(v))
	}
	p := r.Transform(r2.Point{X: v[0], Y: v[1]})
	return []float64{p.X, p.Y}, nil
}

// AlmostEqual returns whether two rotations have the same matrix within tolerance.
func (r *SO2) AlmostEqual(other *SO2) bool {
	return floats.EqualApprox(r.rot[:], other.rot[:], defaultEpsilon)
}

// Clone returns an independent copy.
func (r *SO2) Clone() *SO2 {
	return &SO2{rot: r.rot}
}

// SetFrom overwrites r with the value of other.
func (r *SO2) SetFrom(other *SO2) {
	r.rot = other.rot
}

func (r *SO2) String() string {
	return fmt.Sprintf("SO2{angle: %.6f}", r.Angle())
}

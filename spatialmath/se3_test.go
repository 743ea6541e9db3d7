package spatialmath

import (
	"math"
	"math/rand"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/golang/geo/r3"
	"go.viam.com/test"
)

func randomSE3(rnd *rand.Rand) *SE3 {
	return NewSE3(r3.Vector{X: rnd.NormFloat64(), Y: rnd.NormFloat64(), Z: rnd.NormFloat64()}, randomSO3(rnd))
}

func TestSE3GroupAxioms(t *testing.T) {
	//nolint:gosec
	rnd := rand.New(rand.NewSource(8))
	for i := 0; i < 100; i++ {
		a, b, c := randomSE3(rnd), randomSE3(rnd), randomSE3(rnd)
		test.That(t, a.Compose(a.Inverse()).AlmostEqual(NewZeroSE3()), test.ShouldBeTrue)
		test.That(t, a.Inverse().Compose(a).AlmostEqual(NewZeroSE3()), test.ShouldBeTrue)
		test.That(t, a.Compose(b).Compose(c).AlmostEqual(a.Compose(b.Compose(c))), test.ShouldBeTrue)

		v := r3.Vector{X: rnd.NormFloat64(), Y: rnd.NormFloat64(), Z: rnd.NormFloat64()}
		test.That(t, R3VectorAlmostEqual(a.Compose(b).Transform(v), a.Transform(b.Transform(v)), 1e-9), test.ShouldBeTrue)
	}
}

func TestSE3Act(t *testing.T) {
	pose := NewSE3(r3.Vector{X: 1, Y: 2, Z: 3}, RZ(math.Pi/2))
	out, err := pose.Act([]float64{1, 0, 0})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out[0], test.ShouldAlmostEqual, 1)
	test.That(t, out[1], test.ShouldAlmostEqual, 3)
	test.That(t, out[2], test.ShouldAlmostEqual, 3)

	back, err := pose.Inverse().Act(out)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, back[0], test.ShouldAlmostEqual, 1)
	test.That(t, back[1], test.ShouldAlmostEqual, 0)
	test.That(t, back[2], test.ShouldAlmostEqual, 0)

	_, err = pose.Act([]float64{1, 0})
	test.That(t, err, test.ShouldBeError, NewDimensionMismatchError(3, 2))
}

func TestSE3Immutable(t *testing.T) {
	//nolint:gosec
	rnd := rand.New(rand.NewSource(9))
	a, b := randomSE3(rnd), randomSE3(rnd)
	aCopy, bCopy := a.Clone(), b.Clone()

	a.Compose(b)
	a.Inverse()
	_, err := a.Act([]float64{0.5, -2, 1})
	test.That(t, err, test.ShouldBeNil)
	a.Homogeneous()

	test.That(t, a, test.ShouldResemble, aCopy)
	test.That(t, b, test.ShouldResemble, bCopy)
}

func TestSE3Homogeneous(t *testing.T) {
	pose := NewSE3(r3.Vector{X: 0.1, Y: -0.2, Z: 0.3}, RX(0.4).Compose(RY(-1.2)))
	m := pose.Homogeneous()
	v := m.Mul4x1(mgl64.Vec4{1, 2, 3, 1})
	expected := pose.Transform(r3.Vector{X: 1, Y: 2, Z: 3})
	test.That(t, v.X(), test.ShouldAlmostEqual, expected.X)
	test.That(t, v.Y(), test.ShouldAlmostEqual, expected.Y)
	test.That(t, v.Z(), test.ShouldAlmostEqual, expected.Z)
	test.That(t, v.W(), test.ShouldAlmostEqual, 1)

	back, err := SE3FromHomogeneous(m)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, back.AlmostEqual(pose), test.ShouldBeTrue)

	m.Set(3, 3, 2)
	_, err = SE3FromHomogeneous(m)
	test.That(t, err, test.ShouldNotBeNil)

	m = mgl64.Ident4()
	m.Set(0, 0, 3)
	_, err = SE3FromHomogeneous(m)
	test.That(t, err, test.ShouldNotBeNil)
}

func TestSE3SetFrom(t *testing.T) {
	a := NewZeroSE3()
	b := NewSE3FromTranslation(r3.Vector{X: 1, Y: 2, Z: 3})
	a.SetFrom(b)
	test.That(t, a.AlmostEqual(b), test.ShouldBeTrue)
	test.That(t, a.Rotation().AlmostEqual(NewZeroSO3()), test.ShouldBeTrue)
	test.That(t, a.Translation(), test.ShouldResemble, r3.Vector{X: 1, Y: 2, Z: 3})
}

package spatialmath

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"
)

func makeTestCapsule(a, b r3.Vector, radius float64) *Capsule {
	c, _ := NewCapsule(a, b, radius, "")
	return c
}

func TestCapsuleConstruction(t *testing.T) {
	c := makeTestCapsule(r3.Vector{}, r3.Vector{Z: 1}, 0.1)
	a, b := c.Segment()
	test.That(t, a, test.ShouldResemble, r3.Vector{})
	test.That(t, b, test.ShouldResemble, r3.Vector{Z: 1})

	_, err := NewCapsule(r3.Vector{}, r3.Vector{Z: 1}, -1, "")
	test.That(t, err, test.ShouldNotBeNil)
	_, err = NewSphere(r3.Vector{}, -1, "")
	test.That(t, err, test.ShouldNotBeNil)

	moved := c.Transform(NewSE3(r3.Vector{X: 1}, RX(math.Pi/2))).(*Capsule)
	a, b = moved.Segment()
	test.That(t, R3VectorAlmostEqual(a, r3.Vector{X: 1}, 1e-9), test.ShouldBeTrue)
	test.That(t, R3VectorAlmostEqual(b, r3.Vector{X: 1, Y: -1}, 1e-9), test.ShouldBeTrue)
}

func TestCapsuleSphereCollision(t *testing.T) {
	c := makeTestCapsule(r3.Vector{}, r3.Vector{Z: 1}, 0.1)

	s, err := NewSphere(r3.Vector{X: 0.3, Z: 0.5}, 0.1, "ball")
	test.That(t, err, test.ShouldBeNil)
	dist, err := c.DistanceFrom(s)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, dist, test.ShouldAlmostEqual, 0.1)
	hit, err := s.CollidesWith(c)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, hit, test.ShouldBeFalse)

	// beyond the end of the segment the distance is measured to the endpoint
	s, err = NewSphere(r3.Vector{Z: 1.15}, 0.1, "")
	test.That(t, err, test.ShouldBeNil)
	hit, err = c.CollidesWith(s)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, hit, test.ShouldBeTrue)

	other, err := NewSphere(r3.Vector{Z: 1.3}, 0.05, "")
	test.That(t, err, test.ShouldBeNil)
	dist, err = s.DistanceFrom(other)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, dist, test.ShouldAlmostEqual, 0)
}

func TestCapsuleCapsuleDistance(t *testing.T) {
	c := makeTestCapsule(r3.Vector{X: -1}, r3.Vector{X: 1}, 0.1)

	crossing := makeTestCapsule(r3.Vector{Y: -1, Z: 0.5}, r3.Vector{Y: 1, Z: 0.5}, 0.1)
	dist, err := c.DistanceFrom(crossing)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, dist, test.ShouldAlmostEqual, 0.3)

	parallel := makeTestCapsule(r3.Vector{X: 0.5, Y: 0.15}, r3.Vector{X: 3, Y: 0.15}, 0.1)
	hit, err := c.CollidesWith(parallel)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, hit, test.ShouldBeTrue)

	test.That(t, SegmentDistanceToSegment(r3.Vector{}, r3.Vector{}, r3.Vector{X: 3}, r3.Vector{X: 3, Y: 4}), test.ShouldAlmostEqual, 3)
	test.That(t, DistToLineSegment(r3.Vector{}, r3.Vector{X: 1}, r3.Vector{X: 2, Y: 1}), test.ShouldAlmostEqual, math.Sqrt2)
}

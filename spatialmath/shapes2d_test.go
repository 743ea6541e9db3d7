package spatialmath

import (
	"math"
	"testing"

	"github.com/golang/geo/r2"
	"go.viam.com/test"
)

func TestNewPolygon(t *testing.T) {
	_, err := NewPolygon([]r2.Point{{}, {X: 1}})
	test.That(t, err, test.ShouldNotBeNil)

	_, err = NewPolygon([]r2.Point{{}, {X: 2}, {X: 1, Y: 0.2}, {X: 2, Y: 2}, {Y: 2}})
	test.That(t, err, test.ShouldNotBeNil)

	// clockwise input is reordered
	p, err := NewPolygon([]r2.Point{{}, {Y: 1}, {X: 1, Y: 1}, {X: 1}})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, signedArea(p.Vertices()), test.ShouldAlmostEqual, 1)
	test.That(t, p.ContainsPoint(r2.Point{X: 0.5, Y: 0.5}), test.ShouldBeTrue)
	test.That(t, p.ContainsPoint(r2.Point{X: 1, Y: 0.5}), test.ShouldBeTrue)
	test.That(t, p.ContainsPoint(r2.Point{X: 1.1, Y: 0.5}), test.ShouldBeFalse)
}

func TestPolygonCollisions(t *testing.T) {
	square := NewSquare(r2.Point{X: 0.5, Y: 0.5}, 0.3)

	test.That(t, square.IntersectsSegment(r2.Point{}, r2.Point{X: 1, Y: 1}), test.ShouldBeTrue)
	test.That(t, square.IntersectsSegment(r2.Point{X: 0.5, Y: 0.5}, r2.Point{X: 0.6, Y: 0.5}), test.ShouldBeTrue)
	test.That(t, square.IntersectsSegment(r2.Point{}, r2.Point{X: 1}), test.ShouldBeFalse)

	other := NewSquare(r2.Point{X: 1.2, Y: 0.5}, 0.3)
	hit, err := square.CollidesWith(other)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, hit, test.ShouldBeFalse)

	// rotating by 45 degrees brings the corner within reach
	rotated := NewRectangle(NewSE2FromAngle(r2.Point{X: 1.2, Y: 0.5}, math.Pi/4), 0.3, 0.3)
	hit, err = square.CollidesWith(rotated)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, hit, test.ShouldBeTrue)

	circle, err := NewCircle(r2.Point{X: 1, Y: 0.5}, 0.25)
	test.That(t, err, test.ShouldBeNil)
	hit, err = square.CollidesWith(circle)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, hit, test.ShouldBeTrue)
	hit, err = circle.CollidesWith(square)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, hit, test.ShouldBeTrue)

	small, err := NewCircle(r2.Point{X: 1.2, Y: 1.2}, 0.1)
	test.That(t, err, test.ShouldBeNil)
	hit, err = small.CollidesWith(square)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, hit, test.ShouldBeFalse)
	hit, err = small.CollidesWith(circle)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, hit, test.ShouldBeFalse)
}

func TestShapeTransform(t *testing.T) {
	pose := NewSE2FromAngle(r2.Point{X: 1}, math.Pi/2)
	moved := NewSquare(r2.Point{}, 0.5).Transform(pose)
	test.That(t, moved.ContainsPoint(r2.Point{X: 1}), test.ShouldBeTrue)
	test.That(t, moved.ContainsPoint(r2.Point{}), test.ShouldBeFalse)

	c, err := NewCircle(r2.Point{X: 1}, 0.1)
	test.That(t, err, test.ShouldBeNil)
	movedCircle := c.Transform(pose)
	test.That(t, movedCircle.ContainsPoint(r2.Point{X: 1, Y: 1}), test.ShouldBeTrue)

	_, err = NewCircle(r2.Point{}, -1)
	test.That(t, err, test.ShouldNotBeNil)
}

func TestSegmentsIntersect(t *testing.T) {
	test.That(t, SegmentsIntersect(r2.Point{}, r2.Point{X: 1, Y: 1}, r2.Point{Y: 1}, r2.Point{X: 1}), test.ShouldBeTrue)
	test.That(t, SegmentsIntersect(r2.Point{}, r2.Point{X: 1}, r2.Point{Y: 1}, r2.Point{X: 1, Y: 1}), test.ShouldBeFalse)
	// touching at an endpoint
	test.That(t, SegmentsIntersect(r2.Point{}, r2.Point{X: 1}, r2.Point{X: 1}, r2.Point{X: 1, Y: 1}), test.ShouldBeTrue)
	// collinear and overlapping
	test.That(t, SegmentsIntersect(r2.Point{}, r2.Point{X: 2}, r2.Point{X: 1}, r2.Point{X: 3}), test.ShouldBeTrue)
	// collinear and disjoint
	test.That(t, SegmentsIntersect(r2.Point{}, r2.Point{X: 1}, r2.Point{X: 2}, r2.Point{X: 3}), test.ShouldBeFalse)

	test.That(t, PointSegmentDistance2D(r2.Point{X: 0.5, Y: 1}, r2.Point{}, r2.Point{X: 1}), test.ShouldAlmostEqual, 1)
	test.That(t, PointSegmentDistance2D(r2.Point{X: 2}, r2.Point{}, r2.Point{X: 1}), test.ShouldAlmostEqual, 1)
	test.That(t, PointSegmentDistance2D(r2.Point{X: 3, Y: 4}, r2.Point{}, r2.Point{}), test.ShouldAlmostEqual, 5)
}

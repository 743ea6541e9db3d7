package spatialmath

import (
	"fmt"
	"math"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
)

// CollisionBuffer is the distance at or below which two geometries are considered to be touching.
const CollisionBuffer = 1e-8

// Geometry is a 3D collision volume.
type Geometry interface {
	fmt.Stringer
	Label() string
	// CollidesWith returns whether the two volumes overlap.
	CollidesWith(Geometry) (bool, error)
	// DistanceFrom returns the separation between the volumes, negative when they penetrate.
	DistanceFrom(Geometry) (float64, error)
	// Transform returns the volume moved by pose.
	Transform(pose *SE3) Geometry
}

func newBadGeometryDimensionsError(g Geometry) error {
	return errors.Errorf("invalid dimension(s) for Geometry type %T", g)
}

func newGeometryTypeUnsupportedError(a, b Geometry) error {
	return errors.Errorf("distances between %T and %T are not supported", a, b)
}

// Sphere is a ball of the given radius.
type Sphere struct {
	center r3.Vector
	radius float64
	label  string
}

// NewSphere instantiates a new sphere Geometry.
func NewSphere(center r3.Vector, radius float64, label string) (*Sphere, error) {
	if radius < 0 {
		return nil, newBadGeometryDimensionsError(&Sphere{})
	}
	return &Sphere{center: center, radius: radius, label: label}, nil
}

// Center returns the center of the sphere.
func (s *Sphere) Center() r3.Vector { return s.center }

// Radius returns the radius of the sphere.
func (s *Sphere) Radius() float64 { return s.radius }

// Label returns the label of the sphere.
func (s *Sphere) Label() string { return s.label }

// CollidesWith checks if the given sphere collides with the given geometry and returns true if it does.
func (s *Sphere) CollidesWith(g Geometry) (bool, error) {
	dist, err := s.DistanceFrom(g)
	if err != nil {
		return true, err
	}
	return dist <= CollisionBuffer, nil
}

// DistanceFrom returns the distance between the sphere and a sphere or capsule.
func (s *Sphere) DistanceFrom(g Geometry) (float64, error) {
	switch other := g.(type) {
	case *Sphere:
		return s.center.Sub(other.center).Norm() - (s.radius + other.radius), nil
	case *Capsule:
		return capsuleVsSphereDistance(other, s), nil
	default:
		return math.Inf(-1), newGeometryTypeUnsupportedError(s, g)
	}
}

// Transform returns the sphere moved by pose.
func (s *Sphere) Transform(pose *SE3) Geometry {
	return &Sphere{center: pose.Transform(s.center), radius: s.radius, label: s.label}
}

func (s *Sphere) String() string {
	return fmt.Sprintf("Sphere{%s center: %v, radius: %.3f}", s.label, s.center, s.radius)
}

// Capsule is a collision geometry made of all points within radius of the segment between its two endpoints.
//
// ....___________________
// .../                   \
// .x|  A-------O-------B  |x
// ...\___________________/
type Capsule struct {
	segA   r3.Vector
	segB   r3.Vector
	radius float64
	label  string
}

// NewCapsule instantiates a new capsule Geometry around the segment from segA to segB.
func NewCapsule(segA, segB r3.Vector, radius float64, label string) (*Capsule, error) {
	if radius < 0 {
		return nil, newBadGeometryDimensionsError(&Capsule{})
	}
	return &Capsule{segA: segA, segB: segB, radius: radius, label: label}, nil
}

// Segment returns the endpoints of the capsule's internal segment.
func (c *Capsule) Segment() (r3.Vector, r3.Vector) { return c.segA, c.segB }

// Radius returns the radius of the capsule.
func (c *Capsule) Radius() float64 { return c.radius }

// Label returns the label of the capsule.
func (c *Capsule) Label() string { return c.label }

// CollidesWith checks if the given capsule collides with the given geometry and returns true if it does.
func (c *Capsule) CollidesWith(g Geometry) (bool, error) {
	dist, err := c.DistanceFrom(g)
	if err != nil {
		return true, err
	}
	return dist <= CollisionBuffer, nil
}

// DistanceFrom returns the distance between the capsule and a sphere or capsule.
func (c *Capsule) DistanceFrom(g Geometry) (float64, error) {
	switch other := g.(type) {
	case *Sphere:
		return capsuleVsSphereDistance(c, other), nil
	case *Capsule:
		return capsuleVsCapsuleDistance(c, other), nil
	default:
		return math.Inf(-1), newGeometryTypeUnsupportedError(c, g)
	}
}

// Transform returns the capsule moved by pose.
func (c *Capsule) Transform(pose *SE3) Geometry {
	return &Capsule{segA: pose.Transform(c.segA), segB: pose.Transform(c.segB), radius: c.radius, label: c.label}
}

func (c *Capsule) String() string {
	return fmt.Sprintf("Capsule{%s a: %v, b: %v, radius: %.3f}", c.label, c.segA, c.segB, c.radius)
}

func capsuleVsSphereDistance(c *Capsule, other *Sphere) float64 {
	return DistToLineSegment(c.segA, c.segB, other.center) - (c.radius + other.radius)
}

func capsuleVsCapsuleDistance(c, other *Capsule) float64 {
	return SegmentDistanceToSegment(c.segA, c.segB, other.segA, other.segB) - (c.radius + other.radius)
}

// ClosestPointSegmentPoint returns the point on the segment ab closest to pt.
func ClosestPointSegmentPoint(a, b, pt r3.Vector) r3.Vector {
	ab := b.Sub(a)
	denom := ab.Norm2()
	if denom == 0 {
		return a
	}
	t := math.Max(0, math.Min(1, pt.Sub(a).Dot(ab)/denom))
	return a.Add(ab.Mul(t))
}

// DistToLineSegment returns the minimum distance from pt to the segment ab.
func DistToLineSegment(a, b, pt r3.Vector) float64 {
	return ClosestPointSegmentPoint(a, b, pt).Sub(pt).Norm()
}

// SegmentDistanceToSegment returns the minimum distance between the segments ap-aq and bp-bq.
func SegmentDistanceToSegment(ap, aq, bp, bq r3.Vector) float64 {
	c1, c2 := closestPointsSegmentSegment(ap, aq, bp, bq)
	return c1.Sub(c2).Norm()
}

// closestPointsSegmentSegment follows Ericson, "Real-Time Collision Detection" 5.1.9.
func closestPointsSegmentSegment(p1, q1, p2, q2 r3.Vector) (r3.Vector, r3.Vector) {
	const eps = 1e-12
	clamp := func(v float64) float64 { return math.Max(0, math.Min(1, v)) }

	d1 := q1.Sub(p1)
	d2 := q2.Sub(p2)
	r := p1.Sub(p2)
	a := d1.Dot(d1)
	e := d2.Dot(d2)
	f := d2.Dot(r)

	var s, t float64
	switch {
	case a <= eps && e <= eps:
		return p1, p2
	case a <= eps:
		t = clamp(f / e)
	default:
		c := d1.Dot(r)
		if e <= eps {
			s = clamp(-c / a)
			break
		}
		b := d1.Dot(d2)
		if denom := a*e - b*b; denom != 0 {
			s = clamp((b*f - c*e) / denom)
		}
		t = (b*s + f) / e
		if t < 0 {
			t = 0
			s = clamp(-c / a)
		} else if t > 1 {
			t = 1
			s = clamp((b - c) / a)
		}
	}
	return p1.Add(d1.Mul(s)), p2.Add(d2.Mul(t))
}

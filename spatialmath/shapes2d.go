package spatialmath

import (
	"fmt"
	"math"

	"github.com/golang/geo/r2"
	"github.com/pkg/errors"
)

// Shape2D is a closed region of the plane used as a collision geometry by planar robots.
type Shape2D interface {
	fmt.Stringer
	// ContainsPoint returns whether p lies inside or on the boundary of the shape.
	ContainsPoint(p r2.Point) bool
	// IntersectsSegment returns whether any point of the segment ab lies in the shape.
	IntersectsSegment(a, b r2.Point) bool
	// CollidesWith returns whether the two shapes overlap.
	CollidesWith(other Shape2D) (bool, error)
	// Transform returns the shape moved by pose.
	Transform(pose *SE2) Shape2D
}

func newCollisionTypeUnsupportedError(a, b Shape2D) error {
	return errors.Errorf("collisions between %T and %T are not supported", a, b)
}

// Polygon is a convex polygon with vertices stored counterclockwise.
type Polygon struct {
	vertices []r2.Point
}

// NewPolygon builds a convex polygon from its vertices given in either winding order.
func NewPolygon(vertices []r2.Point) (*Polygon, error) {
	if len(vertices) < 3 {
		return nil, errors.Errorf("polygon needs at least 3 vertices, got %d", len(vertices))
	}
	pts := make([]r2.Point, len(vertices))
	copy(pts, vertices)
	if signedArea(pts) < 0 {
		for i, j := 0, len(pts)-1; i < j; i, j = i+1, j-1 {
			pts[i], pts[j] = pts[j], pts[i]
		}
	}
	n := len(pts)
	for i := range pts {
		e0 := pts[(i+1)%n].Sub(pts[i])
		e1 := pts[(i+2)%n].Sub(pts[(i+1)%n])
		if e0.Cross(e1) < -defaultEpsilon {
			return nil, errors.New("polygon is not convex")
		}
	}
	return &Polygon{vertices: pts}, nil
}

// NewRectangle returns the rectangle with half extents halfX and halfY centered on pose.
func NewRectangle(pose *SE2, halfX, halfY float64) *Polygon {
	corners := []r2.Point{{X: -halfX, Y: -halfY}, {X: halfX, Y: -halfY}, {X: halfX, Y: halfY}, {X: -halfX, Y: halfY}}
	for i, c := range corners {
		corners[i] = pose.Transform(c)
	}
	return &Polygon{vertices: corners}
}

// NewSquare returns the axis aligned square with the given center and half size.
func NewSquare(center r2.Point, halfSize float64) *Polygon {
	return NewRectangle(NewSE2(center, nil), halfSize, halfSize)
}

// Vertices returns a copy of the counterclockwise vertex list.
func (p *Polygon) Vertices() []r2.Point {
	out := make([]r2.Point, len(p.vertices))
	copy(out, p.vertices)
	return out
}

// ContainsPoint returns whether pt lies inside or on the polygon.
func (p *Polygon) ContainsPoint(pt r2.Point) bool {
	n := len(p.vertices)
	for i := range p.vertices {
		a, b := p.vertices[i], p.vertices[(i+1)%n]
		if b.Sub(a).Cross(pt.Sub(a)) < -defaultEpsilon {
			return false
		}
	}
	return true
}

// IntersectsSegment returns whether the segment ab touches the polygon.
func (p *Polygon) IntersectsSegment(a, b r2.Point) bool {
	if p.ContainsPoint(a) || p.ContainsPoint(b) {
		return true
	}
	n := len(p.vertices)
	for i := range p.vertices {
		if SegmentsIntersect(a, b, p.vertices[i], p.vertices[(i+1)%n]) {
			return true
		}
	}
	return false
}

// CollidesWith checks polygons against polygons with the separating axis test and polygons against circles by distance.
func (p *Polygon) CollidesWith(other Shape2D) (bool, error) {
	switch o := other.(type) {
	case *Polygon:
		return !hasSeparatingAxis(p, o) && !hasSeparatingAxis(o, p), nil
	case *Circle:
		if p.ContainsPoint(o.center) {
			return true, nil
		}
		return p.boundaryDistance(o.center) <= o.radius, nil
	default:
		return true, newCollisionTypeUnsupportedError(p, other)
	}
}

// Transform returns the polygon moved by pose.
func (p *Polygon) Transform(pose *SE2) Shape2D {
	out := make([]r2.Point, len(p.vertices))
	for i, v := range p.vertices {
		out[i] = pose.Transform(v)
	}
	return &Polygon{vertices: out}
}

func (p *Polygon) String() string {
	return fmt.Sprintf("Polygon%v", p.vertices)
}

func (p *Polygon) boundaryDistance(pt r2.Point) float64 {
	best := math.Inf(1)
	n := len(p.vertices)
	for i := range p.vertices {
		best = math.Min(best, PointSegmentDistance2D(pt, p.vertices[i], p.vertices[(i+1)%n]))
	}
	return best
}

// hasSeparatingAxis reports whether one of a's edge normals separates the two polygons.
func hasSeparatingAxis(a, b *Polygon) bool {
	n := len(a.vertices)
	for i := range a.vertices {
		axis := a.vertices[(i+1)%n].Sub(a.vertices[i]).Ortho()
		minA, maxA := project(a.vertices, axis)
		minB, maxB := project(b.vertices, axis)
		if maxA < minB-defaultEpsilon || maxB < minA-defaultEpsilon {
			return true
		}
	}
	return false
}

func project(pts []r2.Point, axis r2.Point) (float64, float64) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, pt := range pts {
		d := pt.Dot(axis)
		lo = math.Min(lo, d)
		hi = math.Max(hi, d)
	}
	return lo, hi
}

func signedArea(pts []r2.Point) float64 {
	area := 0.
	for i := range pts {
		area += pts[i].Cross(pts[(i+1)%len(pts)])
	}
	return area / 2
}

// Circle is a disk in the plane.
type Circle struct {
	center r2.Point
	radius float64
}

// NewCircle returns the disk with the given center and radius.
func NewCircle(center r2.Point, radius float64) (*Circle, error) {
	if radius < 0 {
		return nil, errors.Errorf("circle radius must be non-negative, got %f", radius)
	}
	return &Circle{center: center, radius: radius}, nil
}

// Center returns the center of the circle.
func (c *Circle) Center() r2.Point {
	return c.center
}

// Radius returns the radius of the circle.
func (c *Circle) Radius() float64 {
	return c.radius
}

// ContainsPoint returns whether pt lies in the disk.
func (c *Circle) ContainsPoint(pt r2.Point) bool {
	return pt.Sub(c.center).Norm() <= c.radius
}

// IntersectsSegment returns whether the segment ab touches the disk.
func (c *Circle) IntersectsSegment(a, b r2.Point) bool {
	return PointSegmentDistance2D(c.center, a, b) <= c.radius
}

// CollidesWith checks for overlap with another circle or a polygon.
func (c *Circle) CollidesWith(other Shape2D) (bool, error) {
	switch o := other.(type) {
	case *Circle:
		return c.center.Sub(o.center).Norm() <= c.radius+o.radius, nil
	case *Polygon:
		return o.CollidesWith(c)
	default:
		return true, newCollisionTypeUnsupportedError(c, other)
	}
}

// Transform returns the circle moved by pose.
func (c *Circle) Transform(pose *SE2) Shape2D {
	return &Circle{center: pose.Transform(c.center), radius: c.radius}
}

func (c *Circle) String() string {
	return fmt.Sprintf("Circle{center: %v, radius: %.3f}", c.center, c.radius)
}

// PointSegmentDistance2D returns the distance from p to the segment ab.
func PointSegmentDistance2D(p, a, b r2.Point) float64 {
	ab := b.Sub(a)
	denom := ab.Dot(ab)
	if denom == 0 {
		return p.Sub(a).Norm()
	}
	t := math.Max(0, math.Min(1, p.Sub(a).Dot(ab)/denom))
	return p.Sub(a.Add(ab.Mul(t))).Norm()
}

// SegmentsIntersect returns whether the closed segments p1p2 and q1q2 share a point.
func SegmentsIntersect(p1, p2, q1, q2 r2.Point) bool {
	d1 := orientation(q1, q2, p1)
	d2 := orientation(q1, q2, p2)
	d3 := orientation(p1, p2, q1)
	d4 := orientation(p1, p2, q2)
	if d1*d2 < 0 && d3*d4 < 0 {
		return true
	}
	return (d1 == 0 && onSegment(q1, q2, p1)) ||
		(d2 == 0 && onSegment(q1, q2, p2)) ||
		(d3 == 0 && onSegment(p1, p2, q1)) ||
		(d4 == 0 && onSegment(p1, p2, q2))
}

// orientation is the sign of the turn a->b->c: 1 counterclockwise, -1 clockwise, 0 collinear.
func orientation(a, b, c r2.Point) float64 {
	cross := b.Sub(a).Cross(c.Sub(a))
	switch {
	case cross > defaultEpsilon:
		return 1
	case cross < -defaultEpsilon:
		return -1
	default:
		return 0
	}
}

func onSegment(a, b, p r2.Point) bool {
	return p.X >= math.Min(a.X, b.X)-defaultEpsilon && p.X <= math.Max(a.X, b.X)+defaultEpsilon &&
		p.Y >= math.Min(a.Y, b.Y)-defaultEpsilon && p.Y <= math.Max(a.Y, b.Y)+defaultEpsilon
}

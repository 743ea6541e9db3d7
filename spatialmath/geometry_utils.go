package spatialmath

import (
	"math"

	"github.com/golang/geo/r2"
)

// CircleCircleIntersection returns the points where the circle (c0, r0) meets the circle (c1, r1).
// The result is empty when the circles do not meet and has two entries otherwise; tangent circles
// yield the touching point twice. Coincident circles have infinitely many solutions, of which the
// two points on the x axis through the center are returned.
func CircleCircleIntersection(c0 r2.Point, r0 float64, c1 r2.Point, r1 float64) []r2.Point {
	diff := c1.Sub(c0)
	d := diff.Norm()
	if almostEqual(d, 0) && almostEqual(r0, r1) {
		return []r2.Point{c0.Add(r2.Point{X: r0}), c0.Sub(r2.Point{X: r0})}
	}
	if d > r0+r1+defaultEpsilon || d < math.Abs(r0-r1)-defaultEpsilon || d == 0 {
		return []r2.Point{}
	}
	a := (r0*r0 - r1*r1 + d*d) / (2 * d)
	h := math.Sqrt(math.Max(r0*r0-a*a, 0))
	mid := c0.Add(diff.Mul(a / d))
	offset := r2.Point{X: diff.Y, Y: -diff.X}.Mul(h / d)
	return []r2.Point{mid.Add(offset), mid.Sub(offset)}
}

// CircleLineIntersection returns the points where the circle (c, r) meets the infinite line through a and b.
// A tangent line yields a single point. The result is empty if the line misses or a equals b.
func CircleLineIntersection(c r2.Point, r float64, a, b r2.Point) []r2.Point {
	dir := b.Sub(a)
	if dir.Norm() == 0 {
		return []r2.Point{}
	}
	dir = dir.Normalize()
	foot := a.Add(dir.Mul(c.Sub(a).Dot(dir)))
	dist := c.Sub(foot).Norm()
	switch {
	case almostEqual(dist, r):
		return []r2.Point{foot}
	case dist > r:
		return []r2.Point{}
	}
	h := math.Sqrt(r*r - dist*dist)
	return []r2.Point{foot.Sub(dir.Mul(h)), foot.Add(dir.Mul(h))}
}


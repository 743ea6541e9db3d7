package spatialmath

import (
	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/floats/scalar"
)

func almostEqual(a, b float64) bool {
	return scalar.EqualWithinAbsOrRel(a, b, defaultEpsilon, defaultEpsilon)
}

// R3VectorAlmostEqual compares two r3.Vector objects and returns if they are all elementwise within epsilon of each other.
func R3VectorAlmostEqual(a, b r3.Vector, epsilon float64) bool {
	return floats.EqualApprox([]float64{a.X, a.Y, a.Z}, []float64{b.X, b.Y, b.Z}, epsilon)
}

package referenceframe

import (
	"math"
	"math/rand"
)

// OOBErrString is part of the message of every joint limit violation.
const OOBErrString = "input out of bounds"

// Limit bounds one degree of freedom.
type Limit struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// RandomJoints draws one value per limit uniformly from that limit. Unbounded sides are clamped to
// 999 in magnitude.
func RandomJoints(limits []Limit, rSeed *rand.Rand) Joints {
	if rSeed == nil {
		//nolint:gosec
		rSeed = rand.New(rand.NewSource(1))
	}
	q := make(Joints, len(limits))
	for i, lim := range limits {
		lo, hi := math.Max(lim.Min, -999), math.Min(lim.Max, 999)
		q[i] = lo + rSeed.Float64()*(hi-lo)
	}
	return q
}

// CheckJointLimits returns an error if q has the wrong length or any value lies outside its limit.
func CheckJointLimits(limits []Limit, q Joints) error {
	if len(q) != len(limits) {
		return NewIncorrectDoFError(len(q), len(limits))
	}
	for i, lim := range limits {
		if q[i] < lim.Min || q[i] > lim.Max {
			return NewJointOutOfBoundsError(i, q[i], lim)
		}
	}
	return nil
}

// UniformLimits returns n copies of the limit [lo, hi].
func UniformLimits(n int, lo, hi float64) []Limit {
	limits := make([]Limit, n)
	for i := range limits {
		limits[i] = Limit{Min: lo, Max: hi}
	}
	return limits
}

package referenceframe

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Joints is a configuration given as a raw vector, one value per degree of freedom.
//   - revolute joints are in radians.
//   - prismatic joints are in the length unit of the robot.
type Joints []float64

// JointsFromDegrees converts a vector of degrees to radians.
func JointsFromDegrees(degrees []float64) Joints {
	n := make(Joints, len(degrees))
	for idx, d := range degrees {
		n[idx] = d * math.Pi / 180
	}
	return n
}

// Degrees returns the joint values converted from radians to degrees.
func (j Joints) Degrees() []float64 {
	n := make([]float64, len(j))
	for idx, r := range j {
		n[idx] = r * 180 / math.Pi
	}
	return n
}

// Clone returns a copy that shares no memory with j.
func (j Joints) Clone() Joints {
	out := make(Joints, len(j))
	copy(out, j)
	return out
}

// interpolateJoints will return a set of joints that are the specified fraction between the two given sets of
// joints. For example, setting by to 0.5 will return the joints halfway between the from/to values, and 0.25 would
// return one quarter of the way from "from" to "to". Values of by above 1 extrapolate past "to".
func interpolateJoints(from, to Joints, by float64) Joints {
	diff := make([]float64, len(from))
	floats.SubTo(diff, to, from)
	out := from.Clone()
	floats.AddScaled(out, by, diff)
	return out
}

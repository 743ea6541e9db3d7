package robot

import (
	"math"
	"math/rand"

	"github.com/golang/geo/r2"
	"github.com/pkg/errors"

	"go.viam.com/robotoolbox/referenceframe"
	"go.viam.com/robotoolbox/spatialmath"
)

// Joint types of a planar manipulator structure string.
const (
	Revolute  = 'R'
	Prismatic = 'P'
)

const (
	defaultGripperLength  = 0.2
	defaultGripperOpening = 0.2
)

// PlanarManipulator is a serial chain of revolute and prismatic joints moving in the plane.
// The flange pose is T_base * T_0(q_0) * ... * T_{n-1}(q_{n-1}), where
// T_i(q) = R(q) Tx(l_i) for a revolute joint and T_i(q) = R(l_i) Tx(q) for a prismatic one.
type PlanarManipulator struct {
	linkParameters []float64
	structure      string
	base           *spatialmath.SE2
	gripperLength  float64
	gripperOpening float64
	limits         []referenceframe.Limit

	q         referenceframe.Joints
	obstacles []spatialmath.Shape2D
	rand      *rand.Rand
}

// NewPlanarManipulator builds a manipulator. linkParameters holds the link length of each revolute
// joint and the fixed rotation of each prismatic one; structure is a string such as "RRP" and
// defaults to all revolute. A nil base means the identity.
func NewPlanarManipulator(
	linkParameters []float64,
	structure string,
	base *spatialmath.SE2,
	obstacles []spatialmath.Shape2D,
	rSeed *rand.Rand,
) (*PlanarManipulator, error) {
	n := len(linkParameters)
	if n == 0 {
		return nil, errors.New("planar manipulator needs at least one link")
	}
	if structure == "" {
		for i := 0; i < n; i++ {
			structure += string(Revolute)
		}
	}
	if len(structure) != n {
		return nil, errors.Errorf("structure %q does not match %d link parameters", structure, n)
	}
	limits := make([]referenceframe.Limit, n)
	for i, c := range structure {
		switch c {
		case Revolute:
			limits[i] = referenceframe.Limit{Min: -math.Pi, Max: math.Pi}
		case Prismatic:
			limits[i] = referenceframe.Limit{Min: 0, Max: 1}
		default:
			return nil, errors.Errorf("unknown joint type %q in structure %q", c, structure)
		}
	}
	if base == nil {
		base = spatialmath.NewZeroSE2()
	}
	if rSeed == nil {
		//nolint:gosec
		rSeed = rand.New(rand.NewSource(1))
	}
	params := make([]float64, n)
	copy(params, linkParameters)
	q := make(referenceframe.Joints, n)
	for i := range q {
		q[i] = math.Pi / 8
	}
	return &PlanarManipulator{
		linkParameters: params,
		structure:      structure,
		base:           base.Clone(),
		gripperLength:  defaultGripperLength,
		gripperOpening: defaultGripperOpening,
		limits:         limits,
		q:              q,
		obstacles:      obstacles,
		rand:           rSeed,
	}, nil
}

// DoF returns the joint limits, one per degree of freedom.
func (pm *PlanarManipulator) DoF() []referenceframe.Limit {
	return pm.limits
}

// SetLimits replaces the sampling limits of the joints.
func (pm *PlanarManipulator) SetLimits(limits []referenceframe.Limit) error {
	if len(limits) != len(pm.limits) {
		return referenceframe.NewIncorrectDoFError(len(limits), len(pm.limits))
	}
	pm.limits = limits
	return nil
}

// Obstacles returns the obstacles the robot is checked against.
func (pm *PlanarManipulator) Obstacles() []spatialmath.Shape2D {
	return pm.obstacles
}

// SampleConfiguration draws joint values uniformly within the limits.
func (pm *PlanarManipulator) SampleConfiguration() referenceframe.Configuration {
	return referenceframe.RandomJoints(pm.limits, pm.rand)
}

// SetConfiguration expects referenceframe.Joints with one value per joint.
func (pm *PlanarManipulator) SetConfiguration(q referenceframe.Configuration) error {
	var joints referenceframe.Joints
	switch v := q.(type) {
	case referenceframe.Joints:
		joints = v
	case []float64:
		joints = v
	default:
		return newWrongConfigurationError(pm, "joint", q)
	}
	if len(joints) != len(pm.limits) {
		return referenceframe.NewIncorrectDoFError(len(joints), len(pm.limits))
	}
	pm.q = joints.Clone()
	return nil
}

// Configuration returns the current joint values.
func (pm *PlanarManipulator) Configuration() referenceframe.Configuration {
	return pm.q.Clone()
}

// FKAllLinks returns the base frame followed by the frame at the end of every link; the last one is the flange.
func (pm *PlanarManipulator) FKAllLinks() []*spatialmath.SE2 {
	frames := make([]*spatialmath.SE2, 0, len(pm.q)+1)
	pose := pm.base.Clone()
	frames = append(frames, pose)
	for i, qi := range pm.q {
		var step *spatialmath.SE2
		if pm.structure[i] == Prismatic {
			step = spatialmath.NewSE2FromAngle(r2.Point{}, pm.linkParameters[i]).
				Compose(spatialmath.NewSE2FromAngle(r2.Point{X: qi}, 0))
		} else {
			step = spatialmath.NewSE2FromAngle(r2.Point{}, qi).
				Compose(spatialmath.NewSE2FromAngle(r2.Point{X: pm.linkParameters[i]}, 0))
		}
		pose = pose.Compose(step)
		frames = append(frames, pose)
	}
	return frames
}

// FlangePose returns the pose of the flange at the current configuration.
func (pm *PlanarManipulator) FlangePose() *spatialmath.SE2 {
	frames := pm.FKAllLinks()
	return frames[len(frames)-1]
}

// GripperLines returns the three segments drawn for the gripper attached to flange.
func (pm *PlanarManipulator) GripperLines(flange *spatialmath.SE2) [][2]r2.Point {
	half := pm.gripperOpening / 2
	at := func(x, y float64) r2.Point { return flange.Transform(r2.Point{X: x, Y: y}) }
	return [][2]r2.Point{
		{at(0, -half), at(0, half)},
		{at(0, -half), at(pm.gripperLength, -half)},
		{at(0, half), at(pm.gripperLength, half)},
	}
}

// InCollision checks links that are not neighbors against each other, with the last link and the gripper
// treated as one body, and every segment against the obstacles.
func (pm *PlanarManipulator) InCollision() bool {
	frames := pm.FKAllLinks()
	points := make([]r2.Point, len(frames))
	for i, f := range frames {
		points[i] = f.Translation()
	}
	n := len(points)
	gripper := pm.GripperLines(frames[n-1])

	bodies := make([][][2]r2.Point, 0, n-1)
	for i := 0; i < n-2; i++ {
		bodies = append(bodies, [][2]r2.Point{{points[i], points[i+1]}})
	}
	bodies = append(bodies, append([][2]r2.Point{{points[n-2], points[n-1]}}, gripper...))

	for i := range bodies {
		for j := i + 2; j < len(bodies); j++ {
			if bodiesIntersect(bodies[i], bodies[j]) {
				return true
			}
		}
	}
	for _, body := range bodies {
		for _, seg := range body {
			for _, o := range pm.obstacles {
				if o.IntersectsSegment(seg[0], seg[1]) {
					return true
				}
			}
		}
	}
	return false
}

func bodiesIntersect(a, b [][2]r2.Point) bool {
	for _, s := range a {
		for _, t := range b {
			if spatialmath.SegmentsIntersect(s[0], s[1], t[0], t[1]) {
				return true
			}
		}
	}
	return false
}

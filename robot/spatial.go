package robot

import (
	"fmt"
	"math/rand"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"

	"go.viam.com/robotoolbox/referenceframe"
	"go.viam.com/robotoolbox/spatialmath"
)

// minLinkLength is the length below which a link has no collision body of its own.
const minLinkLength = 1e-9

// SpatialJoint is one revolute joint of a SpatialManipulator.
type SpatialJoint struct {
	// Offset is the pose of the joint frame in the frame of the previous joint (or the base).
	Offset *spatialmath.SE3
	// Axis is the rotation axis in the joint frame.
	Axis  r3.Vector
	Limit referenceframe.Limit
}

// SpatialManipulator is a serial chain of revolute joints. Joint i sits at
// T_i = T_{i-1} * Offset_i * exp(Axis_i * q_i) with T_{-1} the base pose, and the flange is
// T_{n-1} * FlangeOffset. Links are capsules of LinkRadius between consecutive frame origins.
type SpatialManipulator struct {
	joints       []SpatialJoint
	flangeOffset *spatialmath.SE3
	base         *spatialmath.SE3
	linkRadius   float64

	q         referenceframe.Joints
	obstacles []spatialmath.Geometry
	rand      *rand.Rand
}

// NewSpatialManipulator builds a manipulator from its joints. Nil flangeOffset and base mean the identity.
func NewSpatialManipulator(
	joints []SpatialJoint,
	flangeOffset, base *spatialmath.SE3,
	linkRadius float64,
	obstacles []spatialmath.Geometry,
	rSeed *rand.Rand,
) (*SpatialManipulator, error) {
	if len(joints) == 0 {
		return nil, errors.New("spatial manipulator needs at least one joint")
	}
	if linkRadius < 0 {
		return nil, errors.Errorf("link radius must be non-negative, got %f", linkRadius)
	}
	js := make([]SpatialJoint, len(joints))
	for i, j := range joints {
		if j.Axis.Norm() == 0 {
			return nil, errors.Errorf("joint %d has a zero axis", i)
		}
		if j.Offset == nil {
			j.Offset = spatialmath.NewZeroSE3()
		}
		js[i] = SpatialJoint{Offset: j.Offset.Clone(), Axis: j.Axis.Normalize(), Limit: j.Limit}
	}
	if flangeOffset == nil {
		flangeOffset = spatialmath.NewZeroSE3()
	}
	if base == nil {
		base = spatialmath.NewZeroSE3()
	}
	if rSeed == nil {
		//nolint:gosec
		rSeed = rand.New(rand.NewSource(1))
	}
	return &SpatialManipulator{
		joints:       js,
		flangeOffset: flangeOffset.Clone(),
		base:         base.Clone(),
		linkRadius:   linkRadius,
		q:            make(referenceframe.Joints, len(js)),
		obstacles:    obstacles,
		rand:         rSeed,
	}, nil
}

// DoF returns the joint limits, one per degree of freedom.
func (sm *SpatialManipulator) DoF() []referenceframe.Limit {
	limits := make([]referenceframe.Limit, len(sm.joints))
	for i, j := range sm.joints {
		limits[i] = j.Limit
	}
	return limits
}

// SampleConfiguration draws joint values uniformly within the limits.
func (sm *SpatialManipulator) SampleConfiguration() referenceframe.Configuration {
	return referenceframe.RandomJoints(sm.DoF(), sm.rand)
}

// SetConfiguration expects referenceframe.Joints with one value per joint.
func (sm *SpatialManipulator) SetConfiguration(q referenceframe.Configuration) error {
	var joints referenceframe.Joints
	switch v := q.(type) {
	case referenceframe.Joints:
		joints = v
	case []float64:
		joints = v
	default:
		return newWrongConfigurationError(sm, "joint", q)
	}
	if len(joints) != len(sm.joints) {
		return referenceframe.NewIncorrectDoFError(len(joints), len(sm.joints))
	}
	sm.q = joints.Clone()
	return nil
}

// Configuration returns the current joint values.
func (sm *SpatialManipulator) Configuration() referenceframe.Configuration {
	return sm.q.Clone()
}

// FKAllLinks returns the base frame, every joint frame and finally the flange frame.
func (sm *SpatialManipulator) FKAllLinks() []*spatialmath.SE3 {
	frames := make([]*spatialmath.SE3, 0, len(sm.joints)+2)
	pose := sm.base.Clone()
	frames = append(frames, pose)
	for i, j := range sm.joints {
		pose = pose.Compose(j.Offset).Compose(spatialmath.NewSE3(r3.Vector{}, spatialmath.SO3Exp(j.Axis.Mul(sm.q[i]))))
		frames = append(frames, pose)
	}
	return append(frames, pose.Compose(sm.flangeOffset))
}

// FlangePose returns the pose of the flange at the current configuration.
func (sm *SpatialManipulator) FlangePose() *spatialmath.SE3 {
	frames := sm.FKAllLinks()
	return frames[len(frames)-1]
}

// Links returns the capsules of all links with non-zero length, ordered from the base.
func (sm *SpatialManipulator) Links() []*spatialmath.Capsule {
	frames := sm.FKAllLinks()
	links := make([]*spatialmath.Capsule, 0, len(frames)-1)
	for i := 1; i < len(frames); i++ {
		a, b := frames[i-1].Translation(), frames[i].Translation()
		if a.Sub(b).Norm() < minLinkLength {
			continue
		}
		c, err := spatialmath.NewCapsule(a, b, sm.linkRadius, fmt.Sprintf("link%d", i-1))
		if err != nil {
			// radius is validated in the constructor
			panic(err)
		}
		links = append(links, c)
	}
	return links
}

// InCollision checks links that are not neighbors against each other and every link against the obstacles.
func (sm *SpatialManipulator) InCollision() bool {
	links := sm.Links()
	for i := range links {
		for j := i + 2; j < len(links); j++ {
			if hit, err := links[i].CollidesWith(links[j]); hit || err != nil {
				return true
			}
		}
		for _, o := range sm.obstacles {
			if hit, err := links[i].CollidesWith(o); hit || err != nil {
				return true
			}
		}
	}
	return false
}

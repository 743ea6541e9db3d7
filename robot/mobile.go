package robot

import (
	"math"
	"math/rand"

	"github.com/golang/geo/r2"

	"go.viam.com/robotoolbox/referenceframe"
	"go.viam.com/robotoolbox/spatialmath"
)

// MobileRobot is a planar robot whose whole state is its SE2 pose. Its footprint is a square of half
// size Size rotated with the pose.
type MobileRobot struct {
	pose      *spatialmath.SE2
	size      float64
	bounds    r2.Rect
	obstacles []spatialmath.Shape2D
	rand      *rand.Rand
}

// NewMobileRobot returns a mobile robot at the origin sampling positions in [-1, 1]^2.
func NewMobileRobot(size float64, obstacles []spatialmath.Shape2D, rSeed *rand.Rand) *MobileRobot {
	if rSeed == nil {
		//nolint:gosec
		rSeed = rand.New(rand.NewSource(1))
	}
	return &MobileRobot{
		pose:      spatialmath.NewZeroSE2(),
		size:      size,
		bounds:    r2.RectFromPoints(r2.Point{X: -1, Y: -1}, r2.Point{X: 1, Y: 1}),
		obstacles: obstacles,
		rand:      rSeed,
	}
}

// SetBounds changes the region positions are sampled from.
func (m *MobileRobot) SetBounds(bounds r2.Rect) {
	m.bounds = bounds
}

// Obstacles returns the obstacles the robot is checked against.
func (m *MobileRobot) Obstacles() []spatialmath.Shape2D {
	return m.obstacles
}

// SampleConfiguration draws a pose uniformly from the bounds with an angle in [-pi, pi).
func (m *MobileRobot) SampleConfiguration() referenceframe.Configuration {
	lo, hi := m.bounds.Lo(), m.bounds.Hi()
	t := r2.Point{
		X: lo.X + m.rand.Float64()*(hi.X-lo.X),
		Y: lo.Y + m.rand.Float64()*(hi.Y-lo.Y),
	}
	return spatialmath.NewSE2FromAngle(t, m.rand.Float64()*2*math.Pi-math.Pi)
}

// SetConfiguration expects a *spatialmath.SE2.
func (m *MobileRobot) SetConfiguration(q referenceframe.Configuration) error {
	pose, ok := q.(*spatialmath.SE2)
	if !ok {
		return newWrongConfigurationError(m, "*spatialmath.SE2", q)
	}
	m.pose = pose.Clone()
	return nil
}

// Configuration returns the current pose.
func (m *MobileRobot) Configuration() referenceframe.Configuration {
	return m.pose.Clone()
}

// Footprint returns the square occupied by the robot at its current pose.
func (m *MobileRobot) Footprint() *spatialmath.Polygon {
	return spatialmath.NewRectangle(m.pose, m.size, m.size)
}

// InCollision checks the footprint against every obstacle.
func (m *MobileRobot) InCollision() bool {
	footprint := m.Footprint()
	for _, o := range m.obstacles {
		if hit, err := footprint.CollidesWith(o); hit || err != nil {
			return true
		}
	}
	return false
}

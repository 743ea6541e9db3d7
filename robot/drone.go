package robot

import (
	"math"
	"math/rand"

	"github.com/golang/geo/r3"

	"go.viam.com/robotoolbox/referenceframe"
	"go.viam.com/robotoolbox/spatialmath"
)

// Drone is a free-flying body whose state is its SE3 pose. It is modeled as a sphere of the given
// radius; with no obstacles it is never in collision.
type Drone struct {
	pose           *spatialmath.SE3
	radius         float64
	minTranslation r3.Vector
	maxTranslation r3.Vector
	obstacles      []spatialmath.Geometry
	rand           *rand.Rand
}

// NewDrone returns a drone at the origin sampling positions in [-5, 5]^3.
func NewDrone(radius float64, obstacles []spatialmath.Geometry, rSeed *rand.Rand) *Drone {
	if rSeed == nil {
		//nolint:gosec
		rSeed = rand.New(rand.NewSource(1))
	}
	return &Drone{
		pose:           spatialmath.NewZeroSE3(),
		radius:         radius,
		minTranslation: r3.Vector{X: -5, Y: -5, Z: -5},
		maxTranslation: r3.Vector{X: 5, Y: 5, Z: 5},
		obstacles:      obstacles,
		rand:           rSeed,
	}
}

// SetBounds changes the box positions are sampled from.
func (d *Drone) SetBounds(minTranslation, maxTranslation r3.Vector) {
	d.minTranslation = minTranslation
	d.maxTranslation = maxTranslation
}

// SampleConfiguration draws a translation uniformly from the bounds and a rotation exp(u) with u uniform in [0, pi)^3.
func (d *Drone) SampleConfiguration() referenceframe.Configuration {
	lo, hi := d.minTranslation, d.maxTranslation
	t := r3.Vector{
		X: lo.X + d.rand.Float64()*(hi.X-lo.X),
		Y: lo.Y + d.rand.Float64()*(hi.Y-lo.Y),
		Z: lo.Z + d.rand.Float64()*(hi.Z-lo.Z),
	}
	u := r3.Vector{X: d.rand.Float64() * math.Pi, Y: d.rand.Float64() * math.Pi, Z: d.rand.Float64() * math.Pi}
	return spatialmath.NewSE3(t, spatialmath.SO3Exp(u))
}

// SetConfiguration expects a *spatialmath.SE3.
func (d *Drone) SetConfiguration(q referenceframe.Configuration) error {
	pose, ok := q.(*spatialmath.SE3)
	if !ok {
		return newWrongConfigurationError(d, "*spatialmath.SE3", q)
	}
	d.pose = pose.Clone()
	return nil
}

// Configuration returns the current pose.
func (d *Drone) Configuration() referenceframe.Configuration {
	return d.pose.Clone()
}

// InCollision checks the body sphere against the obstacles.
func (d *Drone) InCollision() bool {
	if len(d.obstacles) == 0 {
		return false
	}
	body, err := spatialmath.NewSphere(d.pose.Translation(), d.radius, "drone")
	if err != nil {
		return true
	}
	for _, o := range d.obstacles {
		if hit, err := body.CollidesWith(o); hit || err != nil {
			return true
		}
	}
	return false
}

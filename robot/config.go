package robot

import (
	"encoding/json"
	"math/rand"
	"os"

	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"

	"go.viam.com/robotoolbox/referenceframe"
	"go.viam.com/robotoolbox/spatialmath"
)

// Type names a robot variant in a Config.
type Type string

// The robot variants that can be built from a Config.
const (
	MobileType  = Type("mobile")
	PlanarType  = Type("planar")
	SpatialType = Type("spatial")
	DroneType   = Type("drone")
)

// ObstacleType names an obstacle shape in an ObstacleConfig.
type ObstacleType string

// Obstacle shapes. Circles, squares and polygons are planar; spheres and capsules are spatial.
const (
	CircleObstacle  = ObstacleType("circle")
	SquareObstacle  = ObstacleType("square")
	PolygonObstacle = ObstacleType("polygon")
	SphereObstacle  = ObstacleType("sphere")
	CapsuleObstacle = ObstacleType("capsule")
)

// ObstacleConfig describes one obstacle.
type ObstacleConfig struct {
	Type     ObstacleType `json:"type"`
	Center   []float64    `json:"center,omitempty"`
	End      []float64    `json:"end,omitempty"`
	Radius   float64      `json:"radius,omitempty"`
	HalfSize float64      `json:"half_size,omitempty"`
	Vertices [][2]float64 `json:"vertices,omitempty"`
	Label    string       `json:"label,omitempty"`
}

// PoseConfig is a pose given as a translation plus either a planar angle or a rotation vector.
type PoseConfig struct {
	Translation    []float64 `json:"translation"`
	Angle          float64   `json:"angle,omitempty"`
	RotationVector []float64 `json:"rotation_vector,omitempty"`
}

// JointConfig describes one joint of a spatial manipulator.
type JointConfig struct {
	Offset *PoseConfig          `json:"offset,omitempty"`
	Axis   []float64            `json:"axis"`
	Limit  referenceframe.Limit `json:"limit"`
}

// Config describes a robot and the obstacles around it.
type Config struct {
	Type Type `json:"type"`

	// mobile robot footprint half-size, drone body radius or spatial link radius
	Size float64 `json:"size,omitempty"`

	LinkParameters []float64     `json:"link_parameters,omitempty"`
	Structure      string        `json:"structure,omitempty"`
	Joints         []JointConfig `json:"joints,omitempty"`
	FlangeOffset   *PoseConfig   `json:"flange_offset,omitempty"`
	Base           *PoseConfig   `json:"base,omitempty"`

	BoundsMin []float64 `json:"bounds_min,omitempty"`
	BoundsMax []float64 `json:"bounds_max,omitempty"`

	Obstacles []ObstacleConfig `json:"obstacles,omitempty"`
}

// ReadConfig reads a Config from a JSON file.
func ReadConfig(fn string) (*Config, error) {
	file, err := os.Open(fn) //nolint:gosec
	if err != nil {
		return nil, err
	}
	defer file.Close() //nolint:errcheck

	cfg := &Config{}
	decoder := json.NewDecoder(file)
	if err := decoder.Decode(cfg); err != nil {
		return nil, errors.Wrapf(err, "cannot parse robot config %q", fn)
	}
	return cfg, nil
}

// ConfigurationKind returns the kind of configuration the described robot takes.
func (cfg *Config) ConfigurationKind() (referenceframe.Kind, error) {
	switch cfg.Type {
	case MobileType:
		return referenceframe.KindSE2, nil
	case PlanarType, SpatialType:
		return referenceframe.KindJoints, nil
	case DroneType:
		return referenceframe.KindSE3, nil
	default:
		return "", errors.Errorf("unknown robot type %q", cfg.Type)
	}
}

// NewFromConfig builds the robot described by cfg, drawing samples from rSeed.
func NewFromConfig(cfg *Config, rSeed *rand.Rand) (Robot, error) {
	switch cfg.Type {
	case MobileType:
		obstacles, err := cfg.shapes2D()
		if err != nil {
			return nil, err
		}
		m := NewMobileRobot(sizeOr(cfg.Size, 0.3), obstacles, rSeed)
		if cfg.BoundsMin != nil || cfg.BoundsMax != nil {
			lo, err := point2(cfg.BoundsMin)
			if err != nil {
				return nil, errors.Wrap(err, "bounds_min")
			}
			hi, err := point2(cfg.BoundsMax)
			if err != nil {
				return nil, errors.Wrap(err, "bounds_max")
			}
			m.SetBounds(r2.RectFromPoints(lo, hi))
		}
		return m, nil
	case PlanarType:
		obstacles, err := cfg.shapes2D()
		if err != nil {
			return nil, err
		}
		base, err := cfg.Base.se2()
		if err != nil {
			return nil, errors.Wrap(err, "base")
		}
		pm, err := NewPlanarManipulator(cfg.LinkParameters, cfg.Structure, base, obstacles, rSeed)
		if err != nil {
			return nil, err
		}
		return pm, nil
	case SpatialType:
		obstacles, err := cfg.geometries()
		if err != nil {
			return nil, err
		}
		joints := make([]SpatialJoint, 0, len(cfg.Joints))
		for i, jc := range cfg.Joints {
			offset, err := jc.Offset.se3()
			if err != nil {
				return nil, errors.Wrapf(err, "joint %d offset", i)
			}
			axis, err := vector3(jc.Axis)
			if err != nil {
				return nil, errors.Wrapf(err, "joint %d axis", i)
			}
			joints = append(joints, SpatialJoint{Offset: offset, Axis: axis, Limit: jc.Limit})
		}
		flange, err := cfg.FlangeOffset.se3()
		if err != nil {
			return nil, errors.Wrap(err, "flange_offset")
		}
		base, err := cfg.Base.se3()
		if err != nil {
			return nil, errors.Wrap(err, "base")
		}
		sm, err := NewSpatialManipulator(joints, flange, base, cfg.Size, obstacles, rSeed)
		if err != nil {
			return nil, err
		}
		return sm, nil
	case DroneType:
		obstacles, err := cfg.geometries()
		if err != nil {
			return nil, err
		}
		d := NewDrone(sizeOr(cfg.Size, 0.1), obstacles, rSeed)
		if cfg.BoundsMin != nil || cfg.BoundsMax != nil {
			lo, err := vector3(cfg.BoundsMin)
			if err != nil {
				return nil, errors.Wrap(err, "bounds_min")
			}
			hi, err := vector3(cfg.BoundsMax)
			if err != nil {
				return nil, errors.Wrap(err, "bounds_max")
			}
			d.SetBounds(lo, hi)
		}
		return d, nil
	default:
		return nil, errors.Errorf("unknown robot type %q", cfg.Type)
	}
}

func sizeOr(v, def float64) float64 {
	if v == 0 {
		return def
	}
	return v
}

func (cfg *Config) shapes2D() ([]spatialmath.Shape2D, error) {
	shapes := make([]spatialmath.Shape2D, 0, len(cfg.Obstacles))
	for i, oc := range cfg.Obstacles {
		s, err := oc.Shape2D()
		if err != nil {
			return nil, errors.Wrapf(err, "obstacle %d", i)
		}
		shapes = append(shapes, s)
	}
	return shapes, nil
}

func (cfg *Config) geometries() ([]spatialmath.Geometry, error) {
	geoms := make([]spatialmath.Geometry, 0, len(cfg.Obstacles))
	for i, oc := range cfg.Obstacles {
		g, err := oc.Geometry()
		if err != nil {
			return nil, errors.Wrapf(err, "obstacle %d", i)
		}
		geoms = append(geoms, g)
	}
	return geoms, nil
}

// Shape2D builds the planar obstacle described by oc.
func (oc *ObstacleConfig) Shape2D() (spatialmath.Shape2D, error) {
	switch oc.Type {
	case CircleObstacle:
		c, err := point2(oc.Center)
		if err != nil {
			return nil, err
		}
		return spatialmath.NewCircle(c, oc.Radius)
	case SquareObstacle:
		c, err := point2(oc.Center)
		if err != nil {
			return nil, err
		}
		if oc.HalfSize <= 0 {
			return nil, errors.Errorf("square half_size must be positive, got %f", oc.HalfSize)
		}
		return spatialmath.NewSquare(c, oc.HalfSize), nil
	case PolygonObstacle:
		vertices := make([]r2.Point, len(oc.Vertices))
		for i, v := range oc.Vertices {
			vertices[i] = r2.Point{X: v[0], Y: v[1]}
		}
		return spatialmath.NewPolygon(vertices)
	case SphereObstacle, CapsuleObstacle:
		return nil, errors.Errorf("%s obstacles are not planar", oc.Type)
	default:
		return nil, errors.Errorf("unknown obstacle type %q", oc.Type)
	}
}

// Geometry builds the spatial obstacle described by oc.
func (oc *ObstacleConfig) Geometry() (spatialmath.Geometry, error) {
	switch oc.Type {
	case SphereObstacle:
		c, err := vector3(oc.Center)
		if err != nil {
			return nil, err
		}
		return spatialmath.NewSphere(c, oc.Radius, oc.Label)
	case CapsuleObstacle:
		a, err := vector3(oc.Center)
		if err != nil {
			return nil, err
		}
		b, err := vector3(oc.End)
		if err != nil {
			return nil, err
		}
		return spatialmath.NewCapsule(a, b, oc.Radius, oc.Label)
	case CircleObstacle, SquareObstacle, PolygonObstacle:
		return nil, errors.Errorf("%s obstacles are not spatial", oc.Type)
	default:
		return nil, errors.Errorf("unknown obstacle type %q", oc.Type)
	}
}

func (pc *PoseConfig) se2() (*spatialmath.SE2, error) {
	if pc == nil {
		return spatialmath.NewZeroSE2(), nil
	}
	t, err := point2(pc.Translation)
	if err != nil {
		return nil, err
	}
	return spatialmath.NewSE2FromAngle(t, pc.Angle), nil
}

func (pc *PoseConfig) se3() (*spatialmath.SE3, error) {
	if pc == nil {
		return spatialmath.NewZeroSE3(), nil
	}
	t, err := vector3(pc.Translation)
	if err != nil {
		return nil, err
	}
	w := r3.Vector{}
	if pc.RotationVector != nil {
		if w, err = vector3(pc.RotationVector); err != nil {
			return nil, err
		}
	}
	return spatialmath.NewSE3(t, spatialmath.SO3Exp(w)), nil
}

func point2(v []float64) (r2.Point, error) {
	if len(v) != 2 {
		return r2.Point{}, spatialmath.NewDimensionMismatchError(2, len(v))
	}
	return r2.Point{X: v[0], Y: v[1]}, nil
}

func vector3(v []float64) (r3.Vector, error) {
	if len(v) != 3 {
		return r3.Vector{}, spatialmath.NewDimensionMismatchError(3, len(v))
	}
	return r3.Vector{X: v[0], Y: v[1], Z: v[2]}, nil
}

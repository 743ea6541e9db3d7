package robot

import (
	"math"
	"math/rand"
	"testing"

	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"
	"go.viam.com/test"

	"go.viam.com/robotoolbox/referenceframe"
	"go.viam.com/robotoolbox/spatialmath"
)

func fivelinkArm(t *testing.T) *PlanarManipulator {
	t.Helper()
	obstacle := spatialmath.NewSquare(r2.Point{X: 0.5, Y: 0.5}, 0.3)
	//nolint:gosec
	pm, err := NewPlanarManipulator(
		[]float64{0.3, 0.3, 0.3, 0.3, 0.3},
		"RRRRR",
		spatialmath.NewSE2FromAngle(r2.Point{X: -0.75}, 0),
		[]spatialmath.Shape2D{obstacle},
		rand.New(rand.NewSource(1)),
	)
	test.That(t, err, test.ShouldBeNil)
	return pm
}

func uniformJoints(n int, v float64) referenceframe.Joints {
	q := make(referenceframe.Joints, n)
	for i := range q {
		q[i] = v
	}
	return q
}

func TestMobileRobot(t *testing.T) {
	circle, err := spatialmath.NewCircle(r2.Point{}, 0.5)
	test.That(t, err, test.ShouldBeNil)
	//nolint:gosec
	m := NewMobileRobot(0.1, []spatialmath.Shape2D{circle}, rand.New(rand.NewSource(1)))

	t.Run("sampling stays in bounds", func(t *testing.T) {
		for i := 0; i < 100; i++ {
			q := m.SampleConfiguration().(*spatialmath.SE2)
			p := q.Translation()
			test.That(t, math.Abs(p.X), test.ShouldBeLessThanOrEqualTo, 1)
			test.That(t, math.Abs(p.Y), test.ShouldBeLessThanOrEqualTo, 1)
			test.That(t, q.Angle(), test.ShouldBeGreaterThanOrEqualTo, -math.Pi)
			test.That(t, q.Angle(), test.ShouldBeLessThanOrEqualTo, math.Pi)
		}
	})

	t.Run("collisions", func(t *testing.T) {
		hit, err := InCollisionAt(m, spatialmath.NewZeroSE2())
		test.That(t, err, test.ShouldBeNil)
		test.That(t, hit, test.ShouldBeTrue)

		hit, err = InCollisionAt(m, spatialmath.NewSE2FromAngle(r2.Point{X: 0.8, Y: 0.8}, 0.3))
		test.That(t, err, test.ShouldBeNil)
		test.That(t, hit, test.ShouldBeFalse)

		// only the corner of the footprint reaches into the circle
		hit, err = InCollisionAt(m, spatialmath.NewSE2FromAngle(r2.Point{X: 0.45, Y: 0.45}, 0))
		test.That(t, err, test.ShouldBeNil)
		test.That(t, hit, test.ShouldBeTrue)
	})

	t.Run("configuration is copied", func(t *testing.T) {
		q := spatialmath.NewSE2FromAngle(r2.Point{X: 0.8, Y: -0.8}, 1)
		test.That(t, m.SetConfiguration(q), test.ShouldBeNil)
		q.SetFrom(spatialmath.NewZeroSE2())
		got := m.Configuration().(*spatialmath.SE2)
		test.That(t, got.Translation().X, test.ShouldAlmostEqual, 0.8)
		test.That(t, got.Angle(), test.ShouldAlmostEqual, 1)
	})

	t.Run("wrong configuration type", func(t *testing.T) {
		err := m.SetConfiguration(referenceframe.Joints{0, 0, 0})
		test.That(t, err, test.ShouldWrap, referenceframe.ErrTypeMismatch)
	})
}

func TestPlanarForwardKinematics(t *testing.T) {
	pm, err := NewPlanarManipulator([]float64{1, 1}, "", nil, nil, nil)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, pm.DoF(), test.ShouldHaveLength, 2)
	test.That(t, pm.Configuration(), test.ShouldResemble, referenceframe.Joints{math.Pi / 8, math.Pi / 8})

	test.That(t, pm.SetConfiguration(referenceframe.Joints{0, 0}), test.ShouldBeNil)
	test.That(t, pm.FlangePose().AlmostEqual(spatialmath.NewSE2FromAngle(r2.Point{X: 2}, 0)), test.ShouldBeTrue)

	test.That(t, pm.SetConfiguration([]float64{math.Pi / 2, -math.Pi / 2}), test.ShouldBeNil)
	frames := pm.FKAllLinks()
	test.That(t, frames, test.ShouldHaveLength, 3)
	test.That(t, frames[1].AlmostEqual(spatialmath.NewSE2FromAngle(r2.Point{Y: 1}, math.Pi/2)), test.ShouldBeTrue)
	test.That(t, frames[2].AlmostEqual(spatialmath.NewSE2FromAngle(r2.Point{X: 1, Y: 1}, 0)), test.ShouldBeTrue)

	t.Run("prismatic joint", func(t *testing.T) {
		rp, err := NewPlanarManipulator([]float64{1, 0}, "RP", nil, nil, nil)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, rp.DoF()[1], test.ShouldResemble, referenceframe.Limit{Min: 0, Max: 1})
		test.That(t, rp.SetConfiguration(referenceframe.Joints{math.Pi / 2, 0.5}), test.ShouldBeNil)
		flange := rp.FlangePose().Translation()
		test.That(t, flange.X, test.ShouldAlmostEqual, 0, 1e-9)
		test.That(t, flange.Y, test.ShouldAlmostEqual, 1.5, 1e-9)
	})

	t.Run("gripper", func(t *testing.T) {
		lines := pm.GripperLines(spatialmath.NewZeroSE2())
		test.That(t, lines, test.ShouldHaveLength, 3)
		test.That(t, lines[0][0].X, test.ShouldAlmostEqual, 0)
		test.That(t, lines[0][0].Y, test.ShouldAlmostEqual, -0.1)
		test.That(t, lines[2][1].X, test.ShouldAlmostEqual, 0.2)
		test.That(t, lines[2][1].Y, test.ShouldAlmostEqual, 0.1)
	})

	t.Run("bad input", func(t *testing.T) {
		_, err := NewPlanarManipulator(nil, "", nil, nil, nil)
		test.That(t, err, test.ShouldNotBeNil)
		_, err = NewPlanarManipulator([]float64{1, 1}, "RX", nil, nil, nil)
		test.That(t, err.Error(), test.ShouldContainSubstring, "unknown joint type")
		_, err = NewPlanarManipulator([]float64{1, 1}, "R", nil, nil, nil)
		test.That(t, err, test.ShouldNotBeNil)
		err = pm.SetConfiguration(referenceframe.Joints{1, 2, 3})
		test.That(t, err, test.ShouldNotBeNil)
		err = pm.SetConfiguration(spatialmath.NewZeroSE2())
		test.That(t, err, test.ShouldWrap, referenceframe.ErrTypeMismatch)
	})
}

func TestPlanarCollisions(t *testing.T) {
	pm := fivelinkArm(t)

	hit, err := InCollisionAt(pm, uniformJoints(5, -math.Pi/4))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, hit, test.ShouldBeFalse)

	hit, err = InCollisionAt(pm, uniformJoints(5, math.Pi/4))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, hit, test.ShouldBeFalse)

	hit, err = InCollisionAt(pm, referenceframe.Joints{0.3, 0, 0, 0, 0})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, hit, test.ShouldBeTrue)

	t.Run("self collision", func(t *testing.T) {
		folded, err := NewPlanarManipulator([]float64{1, 1, 0.5, 1.5}, "", nil, nil, nil)
		test.That(t, err, test.ShouldBeNil)

		hit, err := InCollisionAt(folded, referenceframe.Joints{0, 0, 0, 0})
		test.That(t, err, test.ShouldBeNil)
		test.That(t, hit, test.ShouldBeFalse)

		hit, err = InCollisionAt(folded, referenceframe.Joints{0, math.Pi / 2, math.Pi / 2, math.Pi / 2})
		test.That(t, err, test.ShouldBeNil)
		test.That(t, hit, test.ShouldBeTrue)
	})

	t.Run("sampling respects limits", func(t *testing.T) {
		test.That(t, pm.SetLimits(referenceframe.UniformLimits(5, -0.1, 0.1)), test.ShouldBeNil)
		for i := 0; i < 50; i++ {
			q := pm.SampleConfiguration().(referenceframe.Joints)
			test.That(t, referenceframe.CheckJointLimits(pm.DoF(), q), test.ShouldBeNil)
		}
		test.That(t, pm.SetLimits(referenceframe.UniformLimits(2, -1, 1)), test.ShouldNotBeNil)
	})
}

func foldingSpatialArm(t *testing.T, obstacles []spatialmath.Geometry) *SpatialManipulator {
	t.Helper()
	limits := referenceframe.UniformLimits(1, -math.Pi, math.Pi)[0]
	joints := []SpatialJoint{
		{Axis: r3.Vector{Z: 1}, Limit: limits},
		{Offset: spatialmath.NewSE3FromTranslation(r3.Vector{Z: 0.3}), Axis: r3.Vector{Y: 1}, Limit: limits},
		{Offset: spatialmath.NewSE3FromTranslation(r3.Vector{X: 0.4}), Axis: r3.Vector{Y: 2}, Limit: limits},
	}
	flange := spatialmath.NewSE3FromTranslation(r3.Vector{X: 0.4})
	sm, err := NewSpatialManipulator(joints, flange, nil, 0.05, obstacles, nil)
	test.That(t, err, test.ShouldBeNil)
	return sm
}

func TestSpatialManipulator(t *testing.T) {
	ball, err := spatialmath.NewSphere(r3.Vector{X: 0.5, Y: 0.5, Z: 0.3}, 0.1, "ball")
	test.That(t, err, test.ShouldBeNil)
	sm := foldingSpatialArm(t, []spatialmath.Geometry{ball})

	test.That(t, sm.DoF(), test.ShouldHaveLength, 3)
	test.That(t, sm.Configuration(), test.ShouldResemble, referenceframe.Joints{0, 0, 0})

	frames := sm.FKAllLinks()
	test.That(t, frames, test.ShouldHaveLength, 5)
	test.That(t, spatialmath.R3VectorAlmostEqual(sm.FlangePose().Translation(), r3.Vector{X: 0.8, Z: 0.3}, 1e-9), test.ShouldBeTrue)
	// the first joint sits on the base so its link has no length
	test.That(t, sm.Links(), test.ShouldHaveLength, 3)
	test.That(t, sm.InCollision(), test.ShouldBeFalse)

	t.Run("forward kinematics", func(t *testing.T) {
		test.That(t, sm.SetConfiguration(referenceframe.Joints{math.Pi / 2, 0, math.Pi / 2}), test.ShouldBeNil)
		test.That(t, spatialmath.R3VectorAlmostEqual(sm.FlangePose().Translation(), r3.Vector{Y: 0.4, Z: -0.1}, 1e-9), test.ShouldBeTrue)
	})

	t.Run("obstacle", func(t *testing.T) {
		hit, err := InCollisionAt(sm, referenceframe.Joints{math.Pi / 4, 0, 0})
		test.That(t, err, test.ShouldBeNil)
		test.That(t, hit, test.ShouldBeTrue)
	})

	t.Run("self collision", func(t *testing.T) {
		hit, err := InCollisionAt(sm, referenceframe.Joints{0, 0, math.Pi})
		test.That(t, err, test.ShouldBeNil)
		test.That(t, hit, test.ShouldBeTrue)

		hit, err = InCollisionAt(sm, referenceframe.Joints{0, 0, math.Pi / 2})
		test.That(t, err, test.ShouldBeNil)
		test.That(t, hit, test.ShouldBeFalse)
	})

	t.Run("bad input", func(t *testing.T) {
		_, err := NewSpatialManipulator(nil, nil, nil, 0.1, nil, nil)
		test.That(t, err, test.ShouldNotBeNil)
		_, err = NewSpatialManipulator([]SpatialJoint{{}}, nil, nil, 0.1, nil, nil)
		test.That(t, err.Error(), test.ShouldContainSubstring, "zero axis")
		test.That(t, sm.SetConfiguration(referenceframe.Joints{0}), test.ShouldNotBeNil)
		test.That(t, sm.SetConfiguration(spatialmath.NewZeroSE3()), test.ShouldWrap, referenceframe.ErrTypeMismatch)
	})
}

func TestDrone(t *testing.T) {
	//nolint:gosec
	d := NewDrone(0.2, nil, rand.New(rand.NewSource(3)))
	for i := 0; i < 100; i++ {
		q := d.SampleConfiguration().(*spatialmath.SE3)
		p := q.Translation()
		test.That(t, math.Abs(p.X), test.ShouldBeLessThanOrEqualTo, 5)
		test.That(t, math.Abs(p.Y), test.ShouldBeLessThanOrEqualTo, 5)
		test.That(t, math.Abs(p.Z), test.ShouldBeLessThanOrEqualTo, 5)
		hit, err := InCollisionAt(d, q)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, hit, test.ShouldBeFalse)
	}

	pole, err := spatialmath.NewCapsule(r3.Vector{}, r3.Vector{Z: 2}, 0.1, "pole")
	test.That(t, err, test.ShouldBeNil)
	d = NewDrone(0.2, []spatialmath.Geometry{pole}, nil)
	d.SetBounds(r3.Vector{X: 1, Y: 1, Z: 1}, r3.Vector{X: 2, Y: 2, Z: 2})
	for i := 0; i < 20; i++ {
		test.That(t, d.SampleConfiguration().(*spatialmath.SE3).Translation().X, test.ShouldBeGreaterThanOrEqualTo, 1)
	}

	hit, err := InCollisionAt(d, spatialmath.NewSE3FromTranslation(r3.Vector{Z: 1}))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, hit, test.ShouldBeTrue)

	hit, err = InCollisionAt(d, spatialmath.NewSE3FromTranslation(r3.Vector{X: 1, Y: 1, Z: 1}))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, hit, test.ShouldBeFalse)

	_, err = InCollisionAt(d, spatialmath.NewZeroSE2())
	test.That(t, err, test.ShouldWrap, referenceframe.ErrTypeMismatch)
}

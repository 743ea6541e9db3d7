package main

import (
	"image/color"
	"math"

	"github.com/golang/geo/r2"
	"github.com/pkg/errors"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"go.viam.com/robotoolbox/referenceframe"
	"go.viam.com/robotoolbox/robot"
	"go.viam.com/robotoolbox/spatialmath"
)

const circleSegments = 64

var (
	obstacleColor = color.RGBA{R: 200, G: 60, B: 60, A: 160}
	pathColor     = color.RGBA{B: 200, A: 255}
	armColor      = color.RGBA{R: 150, G: 150, B: 150, A: 255}
	startColor    = color.RGBA{G: 160, A: 255}
	goalColor     = color.RGBA{R: 220, G: 140, A: 255}
)

// plotPlan draws the obstacles and the plan of a planar robot to a PNG. Mobile robots are drawn as their
// trajectory plus start and goal footprints, manipulators as the arm at every waypoint plus the flange trajectory.
func plotPlan(r robot.Robot, path []referenceframe.Configuration, title, fn string) error {
	if len(path) == 0 {
		return errors.New("nothing to plot")
	}
	q := r.Configuration()
	//nolint:errcheck
	defer r.SetConfiguration(q)

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "x"
	p.Y.Label.Text = "y"

	switch rr := r.(type) {
	case *robot.MobileRobot:
		if err := addObstacles(p, rr.Obstacles()); err != nil {
			return err
		}
		if err := addMobilePlan(p, rr, path); err != nil {
			return err
		}
	case *robot.PlanarManipulator:
		if err := addObstacles(p, rr.Obstacles()); err != nil {
			return err
		}
		if err := addArmPlan(p, rr, path); err != nil {
			return err
		}
	default:
		return errors.Errorf("cannot plot a plan for %T, only planar robots", r)
	}

	return p.Save(6*vg.Inch, 6*vg.Inch, fn)
}

func addObstacles(p *plot.Plot, obstacles []spatialmath.Shape2D) error {
	for _, o := range obstacles {
		var outline []r2.Point
		switch shape := o.(type) {
		case *spatialmath.Polygon:
			outline = shape.Vertices()
		case *spatialmath.Circle:
			outline = make([]r2.Point, circleSegments)
			for i := range outline {
				a := 2 * math.Pi * float64(i) / circleSegments
				outline[i] = shape.Center().Add(r2.Point{X: math.Cos(a), Y: math.Sin(a)}.Mul(shape.Radius()))
			}
		default:
			return errors.Errorf("cannot plot obstacle %T", o)
		}
		poly, err := plotter.NewPolygon(toXYs(outline))
		if err != nil {
			return err
		}
		poly.Color = obstacleColor
		poly.LineStyle.Width = 0
		p.Add(poly)
	}
	return nil
}

func addMobilePlan(p *plot.Plot, m *robot.MobileRobot, path []referenceframe.Configuration) error {
	points := make([]r2.Point, 0, len(path))
	for _, q := range path {
		pose, ok := q.(*spatialmath.SE2)
		if !ok {
			return referenceframe.NewTypeMismatchError(spatialmath.NewZeroSE2(), q)
		}
		points = append(points, pose.Translation())
	}
	if err := addLine(p, points, pathColor, 1.5); err != nil {
		return err
	}
	for i, c := range map[int]color.Color{0: startColor, len(path) - 1: goalColor} {
		if err := m.SetConfiguration(path[i]); err != nil {
			return err
		}
		vertices := m.Footprint().Vertices()
		if err := addLine(p, append(vertices, vertices[0]), c, 2); err != nil {
			return err
		}
	}
	return nil
}

func addArmPlan(p *plot.Plot, arm *robot.PlanarManipulator, path []referenceframe.Configuration) error {
	flange := make([]r2.Point, 0, len(path))
	for i, q := range path {
		if err := arm.SetConfiguration(q); err != nil {
			return err
		}
		frames := arm.FKAllLinks()
		links := make([]r2.Point, len(frames))
		for j, f := range frames {
			links[j] = f.Translation()
		}
		c, width := color.Color(armColor), vg.Length(0.5)
		switch i {
		case 0:
			c, width = startColor, 2
		case len(path) - 1:
			c, width = goalColor, 2
		}
		if err := addLine(p, links, c, width); err != nil {
			return err
		}
		flange = append(flange, links[len(links)-1])
	}
	return addLine(p, flange, pathColor, 1.5)
}

func addLine(p *plot.Plot, points []r2.Point, c color.Color, width vg.Length) error {
	line, err := plotter.NewLine(toXYs(points))
	if err != nil {
		return err
	}
	line.LineStyle.Color = c
	line.LineStyle.Width = vg.Points(float64(width))
	p.Add(line)
	return nil
}

func toXYs(points []r2.Point) plotter.XYs {
	xys := make(plotter.XYs, len(points))
	for i, pt := range points {
		xys[i].X = pt.X
		xys[i].Y = pt.Y
	}
	return xys
}

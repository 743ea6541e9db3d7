package motionplan

import (
	"context"
	"math/rand"
	"testing"

	"github.com/golang/geo/r2"
	"go.viam.com/test"

	"go.viam.com/robotoolbox/logging"
	"go.viam.com/robotoolbox/referenceframe"
	"go.viam.com/robotoolbox/robot"
	"go.viam.com/robotoolbox/spatialmath"
)

func mobileWithBox(seed int64) *robot.MobileRobot {
	//nolint:gosec
	return robot.NewMobileRobot(0.1, []spatialmath.Shape2D{spatialmath.NewSquare(r2.Point{}, 0.3)}, rand.New(rand.NewSource(seed)))
}

func TestPRMExploreAndPlan(t *testing.T) {
	ctx := context.Background()
	mobile := mobileWithBox(1)
	mp, err := NewPRM(mobile, nil, logging.NewTestLogger(t))
	test.That(t, err, test.ShouldBeNil)

	added, err := mp.Explore(ctx, 100)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, added, test.ShouldEqual, 100)
	test.That(t, mp.Len(), test.ShouldEqual, 100)

	for _, q := range mp.Nodes() {
		hit, err := robot.InCollisionAt(mobile, q)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, hit, test.ShouldBeFalse)
	}

	start := spatialmath.NewSE2FromAngle(r2.Point{X: -0.9, Y: -0.9}, 0)
	goal := spatialmath.NewSE2FromAngle(r2.Point{X: 0.75, Y: 0.75}, 0)
	path, err := mp.Plan(ctx, start, goal)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, path, test.ShouldNotBeEmpty)
	test.That(t, path[0], test.ShouldResemble, start)
	test.That(t, referenceframe.ConfigurationsAlmostEqual(path[len(path)-1], goal, 1e-9), test.ShouldBeTrue)
	checkPath(t, mobile, path, defaultDeltaQ+1e-9)

	t.Run("reverse query", func(t *testing.T) {
		back, err := mp.Plan(ctx, goal, start)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, back[0], test.ShouldResemble, goal)
		test.That(t, referenceframe.ConfigurationsAlmostEqual(back[len(back)-1], start, 1e-9), test.ShouldBeTrue)
		checkPath(t, mobile, back, defaultDeltaQ+1e-9)
	})

	t.Run("adjacency matrix", func(t *testing.T) {
		adj := mp.AdjacencyMatrix()
		r, c := adj.Dims()
		test.That(t, r, test.ShouldEqual, 100)
		test.That(t, c, test.ShouldEqual, 100)
		nodes := mp.Nodes()
		edges := 0
		for i := 0; i < r; i++ {
			test.That(t, adj.At(i, i), test.ShouldEqual, 0.)
			for j := i + 1; j < c; j++ {
				test.That(t, adj.At(i, j), test.ShouldEqual, adj.At(j, i))
				if adj.At(i, j) == 0 {
					continue
				}
				edges++
				d, err := referenceframe.Distance(nodes[i], nodes[j])
				test.That(t, err, test.ShouldBeNil)
				test.That(t, adj.At(i, j), test.ShouldAlmostEqual, d)
			}
		}
		test.That(t, edges, test.ShouldBeGreaterThanOrEqualTo, 99)
	})

	t.Run("invalid endpoints", func(t *testing.T) {
		_, err := mp.Plan(ctx, spatialmath.NewZeroSE2(), goal)
		test.That(t, err, test.ShouldWrap, ErrInvalidStart)
		_, err = mp.Plan(ctx, start, spatialmath.NewZeroSE2())
		test.That(t, err, test.ShouldWrap, ErrInvalidGoal)
		_, err = mp.Plan(ctx, start, referenceframe.Joints{0, 0, 0})
		test.That(t, err, test.ShouldWrap, referenceframe.ErrTypeMismatch)
	})
}

func TestPRMGraphSearches(t *testing.T) {
	ctx := context.Background()
	start := spatialmath.NewSE2FromAngle(r2.Point{X: -0.9, Y: 0.9}, 0)
	goal := spatialmath.NewSE2FromAngle(r2.Point{X: 0.9, Y: -0.9}, 0)

	lengths := map[GraphSearch]float64{}
	for _, search := range []GraphSearch{FloydWarshall, Dijkstra} {
		opts := NewPRMOptions()
		opts.GraphSearch = search
		mp, err := NewPRM(mobileWithBox(5), opts, logging.NewTestLogger(t))
		test.That(t, err, test.ShouldBeNil)
		_, err = mp.Explore(ctx, 50)
		test.That(t, err, test.ShouldBeNil)

		path, err := mp.Plan(ctx, start, goal)
		test.That(t, err, test.ShouldBeNil)
		lengths[search], err = referenceframe.PathLength(path)
		test.That(t, err, test.ShouldBeNil)

		// a second query reuses the cached shortest paths
		again, err := mp.Plan(ctx, start, goal)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, len(again), test.ShouldEqual, len(path))
	}
	test.That(t, lengths[Dijkstra], test.ShouldAlmostEqual, lengths[FloydWarshall], 1e-9)
}

func TestPRMExploreGrowsRoadmap(t *testing.T) {
	ctx := context.Background()
	opts := NewPRMOptions()
	opts.ConnectionRadius = 0.8
	mp, err := NewPRM(mobileWithBox(2), opts, logging.NewTestLogger(t))
	test.That(t, err, test.ShouldBeNil)

	_, err = mp.Explore(ctx, 20)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, mp.Len(), test.ShouldEqual, 20)
	_, err = mp.Explore(ctx, 20)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, mp.Len(), test.ShouldEqual, 40)

	adj := mp.AdjacencyMatrix()
	r, _ := adj.Dims()
	test.That(t, r, test.ShouldEqual, 40)
	for i := 0; i < r; i++ {
		for j := 0; j < r; j++ {
			test.That(t, adj.At(i, j), test.ShouldBeLessThanOrEqualTo, 0.8)
		}
	}
}

func TestPRMBudget(t *testing.T) {
	// every sample collides, so nothing is ever added
	blocked := robot.NewMobileRobot(0.1, []spatialmath.Shape2D{spatialmath.NewSquare(r2.Point{}, 5)}, nil)
	opts := NewPRMOptions()
	opts.MaxExploreIter = 30
	logger, logs := logging.NewObservedTestLogger(t)
	mp, err := NewPRM(blocked, opts, logger)
	test.That(t, err, test.ShouldBeNil)

	added, err := mp.Explore(context.Background(), 10)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, added, test.ShouldEqual, 0)
	test.That(t, logs.FilterMessageSnippet("budget of 30 samples").Len(), test.ShouldEqual, 1)
}

func TestPRMConnectivityErrors(t *testing.T) {
	ctx := context.Background()
	// a wall splits the plane and the roadmap is only sampled right of it
	wall, err := spatialmath.NewPolygon([]r2.Point{{X: -0.2, Y: -10}, {X: 0.2, Y: -10}, {X: 0.2, Y: 10}, {X: -0.2, Y: 10}})
	test.That(t, err, test.ShouldBeNil)
	//nolint:gosec
	mobile := robot.NewMobileRobot(0.1, []spatialmath.Shape2D{wall}, rand.New(rand.NewSource(4)))
	mobile.SetBounds(r2.RectFromPoints(r2.Point{X: 0.5, Y: -1}, r2.Point{X: 1, Y: 1}))

	mp, err := NewPRM(mobile, nil, logging.NewTestLogger(t))
	test.That(t, err, test.ShouldBeNil)

	left := spatialmath.NewSE2FromAngle(r2.Point{X: -1}, 0)
	right := spatialmath.NewSE2FromAngle(r2.Point{X: 0.8}, 0)

	_, err = mp.Plan(ctx, right, left)
	test.That(t, err, test.ShouldWrap, ErrNoRoadmapPath)

	_, err = mp.Explore(ctx, 20)
	test.That(t, err, test.ShouldBeNil)

	_, err = mp.Plan(ctx, left, right)
	test.That(t, err, test.ShouldWrap, ErrNoStartConnection)
	_, err = mp.Plan(ctx, right, left)
	test.That(t, err, test.ShouldWrap, ErrNoGoalConnection)

	path, err := mp.Plan(ctx, right, spatialmath.NewSE2FromAngle(r2.Point{X: 0.8, Y: 0.5}, 0))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, path, test.ShouldNotBeEmpty)
}

func TestPRMEmptyAdjacency(t *testing.T) {
	mp, err := NewPRM(mobileWithBox(1), nil, nil)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, mp.AdjacencyMatrix().IsEmpty(), test.ShouldBeTrue)
	test.That(t, mp.Nodes(), test.ShouldBeEmpty)
}

// cancelOnSample cancels a context when its n-th sample is drawn.
type cancelOnSample struct {
	robot.Robot
	cancel  context.CancelFunc
	n       int
	samples int
}

func (r *cancelOnSample) SampleConfiguration() referenceframe.Configuration {
	r.samples++
	if r.cancel != nil && r.samples == r.n {
		r.cancel()
	}
	return r.Robot.SampleConfiguration()
}

func TestPRMCancelledExploreInvalidatesShortestPaths(t *testing.T) {
	ctx := context.Background()
	//nolint:gosec
	r := &cancelOnSample{Robot: robot.NewMobileRobot(0.1, nil, rand.New(rand.NewSource(3)))}
	mp, err := NewPRM(r, nil, logging.NewTestLogger(t))
	test.That(t, err, test.ShouldBeNil)

	added, err := mp.Explore(ctx, 10)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, added, test.ShouldEqual, 10)
	nodes := mp.Nodes()
	_, err = mp.Plan(ctx, nodes[9], nodes[0])
	test.That(t, err, test.ShouldBeNil)

	cancelCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	r.cancel, r.n, r.samples = cancel, 5, 0
	added, err = mp.Explore(cancelCtx, 10)
	test.That(t, err, test.ShouldBeError, context.Canceled)
	test.That(t, added, test.ShouldEqual, 5)
	test.That(t, mp.Len(), test.ShouldEqual, 15)

	nodes = mp.Nodes()
	path, err := mp.Plan(ctx, nodes[14], nodes[0])
	test.That(t, err, test.ShouldBeNil)
	test.That(t, path, test.ShouldNotBeEmpty)
	test.That(t, referenceframe.ConfigurationsAlmostEqual(path[len(path)-1], nodes[0], 1e-9), test.ShouldBeTrue)
}

func TestPRMDropsIsolatedSeed(t *testing.T) {
	ctx := context.Background()
	//nolint:gosec
	mp, err := NewPRM(robot.NewMobileRobot(0.1, nil, rand.New(rand.NewSource(6))), nil, logging.NewTestLogger(t))
	test.That(t, err, test.ShouldBeNil)

	added, err := mp.Explore(ctx, 1)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, added, test.ShouldEqual, 0)
	test.That(t, mp.Len(), test.ShouldEqual, 0)
	test.That(t, mp.AdjacencyMatrix().IsEmpty(), test.ShouldBeTrue)

	added, err = mp.Explore(ctx, 2)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, added, test.ShouldEqual, 2)
	adj := mp.AdjacencyMatrix()
	test.That(t, adj.At(0, 1), test.ShouldBeGreaterThan, 0)
	test.That(t, adj.At(1, 0), test.ShouldEqual, adj.At(0, 1))
}

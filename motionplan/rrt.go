package motionplan

import (
	"context"
	"math/rand"

	"github.com/samber/lo"

	"go.viam.com/robotoolbox/logging"
	"go.viam.com/robotoolbox/referenceframe"
	"go.viam.com/robotoolbox/robot"
)

// RRT grows a single rapidly-exploring random tree from the start configuration until it reaches
// the goal. Nothing is kept between calls to Plan.
type RRT struct {
	robot    robot.Robot
	opts     *RRTOptions
	randseed *rand.Rand
	logger   logging.Logger
	checker  *segmentChecker
	nm       *neighborManager
}

// NewRRT returns an RRT planner for r. Nil options mean the defaults and a nil random source is
// seeded with 1. The planner moves r while checking motions, so r must not be used elsewhere during
// planning.
func NewRRT(r robot.Robot, opts *RRTOptions, rSeed *rand.Rand, logger logging.Logger) (*RRT, error) {
	if opts == nil {
		opts = NewRRTOptions()
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if rSeed == nil {
		//nolint:gosec
		rSeed = rand.New(rand.NewSource(1))
	}
	if logger == nil {
		logger = logging.NewBlankLogger("rrt")
	}
	return &RRT{
		robot:    r,
		opts:     opts,
		randseed: rSeed,
		logger:   logger,
		checker:  &segmentChecker{robot: r, resolution: opts.resolution()},
		nm:       newNeighborManager(),
	}, nil
}

// Plan searches for a collision-free path from start to goal. Consecutive configurations of the
// returned path are at most DeltaQ apart, it begins with start and ends with goal.
// A search that runs out of iterations is not an error: Plan returns a nil path and a nil error.
func (mp *RRT) Plan(ctx context.Context, start, goal referenceframe.Configuration) ([]referenceframe.Configuration, error) {
	dGoal, err := referenceframe.Distance(start, goal)
	if err != nil {
		return nil, err
	}
	defer mp.checker.restore()()

	if ok, err := mp.checker.validConfiguration(start); err != nil {
		return nil, err
	} else if !ok {
		return nil, newInvalidStartError(start)
	}
	if ok, err := mp.checker.validConfiguration(goal); err != nil {
		return nil, err
	} else if !ok {
		return nil, newInvalidGoalError(goal)
	}

	root := newNode(referenceframe.CloneConfiguration(start), nil, 0)
	if dGoal == 0 {
		return root.pathToRoot(), nil
	}
	if dGoal <= mp.opts.DeltaQ {
		ok, err := mp.checker.validSegment(start, goal)
		if err != nil {
			return nil, err
		}
		if ok {
			return []referenceframe.Configuration{root.q, referenceframe.CloneConfiguration(goal)}, nil
		}
	}

	tree := []*node{root}
	for i := 0; i < mp.opts.MaxIterations; i++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		var target referenceframe.Configuration
		if mp.randseed.Float64() < mp.opts.PSampleGoal {
			target = goal
		} else {
			target = mp.robot.SampleConfiguration()
		}

		nearest, err := mp.nm.nearestNeighbor(ctx, target, tree)
		if err != nil {
			return nil, err
		}
		if nearest.dist == 0 {
			continue
		}

		step := min(nearest.dist, mp.opts.DeltaQ)
		var qNew referenceframe.Configuration
		if nearest.dist <= mp.opts.DeltaQ {
			qNew = referenceframe.CloneConfiguration(target)
		} else if qNew, err = referenceframe.Interpolate(nearest.node.q, target, mp.opts.DeltaQ); err != nil {
			return nil, err
		}

		ok, err := mp.checker.validSegment(nearest.node.q, qNew)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		added := newNode(qNew, nearest.node, nearest.node.cost+step)
		tree = append(tree, added)

		toGoal, err := referenceframe.Distance(qNew, goal)
		if err != nil {
			return nil, err
		}
		if toGoal > mp.opts.DeltaQ {
			continue
		}
		path := added.pathToRoot()
		if toGoal == 0 {
			mp.logger.CDebugf(ctx, "rrt reached the goal after %d iterations with %d nodes", i+1, len(tree))
			return path, nil
		}
		ok, err = mp.checker.validSegment(qNew, goal)
		if err != nil {
			return nil, err
		}
		if ok {
			mp.logger.CDebugf(ctx, "rrt reached the goal after %d iterations with %d nodes", i+1, len(tree))
			return append(path, referenceframe.CloneConfiguration(goal)), nil
		}
	}
	mp.logger.CDebugf(ctx, "rrt exhausted %d iterations with %d nodes without reaching the goal", mp.opts.MaxIterations, len(tree))
	return nil, nil
}

// RandomShortcut shortens path by repeatedly picking two waypoints at random and replacing everything
// between them with the straight motion, if that motion is collision-free and shorter. The first and
// last configurations never change and the total length never grows. path itself is not modified.
func (mp *RRT) RandomShortcut(
	ctx context.Context,
	path []referenceframe.Configuration,
	maxIterations int,
) ([]referenceframe.Configuration, error) {
	out := lo.Map(path, func(q referenceframe.Configuration, _ int) referenceframe.Configuration {
		return referenceframe.CloneConfiguration(q)
	})
	if len(out) < 3 {
		return out, nil
	}
	defer mp.checker.restore()()

	before, err := referenceframe.PathLength(out)
	if err != nil {
		return nil, err
	}
	accepted := 0
	for iter := 0; iter < maxIterations; iter++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		if len(out) < 3 {
			break
		}

		i, j := mp.randseed.Intn(len(out)), mp.randseed.Intn(len(out))
		if i > j {
			i, j = j, i
		}
		if j-i < 2 {
			continue
		}

		direct, err := referenceframe.Distance(out[i], out[j])
		if err != nil {
			return nil, err
		}
		current, err := referenceframe.PathLength(out[i : j+1])
		if err != nil {
			return nil, err
		}
		if direct >= current {
			continue
		}
		ok, err := mp.checker.validSegment(out[i], out[j])
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}

		segment, err := referenceframe.InterpolatePath(out[i], out[j], mp.opts.DeltaQ)
		if err != nil {
			return nil, err
		}
		next := make([]referenceframe.Configuration, 0, i+len(segment)+len(out)-j)
		next = append(next, out[:i+1]...)
		next = append(next, segment[:len(segment)-1]...)
		out = append(next, out[j:]...)
		accepted++
	}

	after, err := referenceframe.PathLength(out)
	if err != nil {
		return nil, err
	}
	mp.logger.CDebugf(ctx, "shortcut accepted %d of %d attempts, length %.4f -> %.4f", accepted, maxIterations, before, after)
	return out, nil
}

// Smooth runs RandomShortcut with the configured number of iterations.
func (mp *RRT) Smooth(ctx context.Context, path []referenceframe.Configuration) ([]referenceframe.Configuration, error) {
	return mp.RandomShortcut(ctx, path, mp.opts.ShortcutIterations)
}

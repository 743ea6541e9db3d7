package motionplan

import (
	"context"
	"math"

	"github.com/samber/lo"
	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/path"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/mat"

	"go.viam.com/robotoolbox/logging"
	"go.viam.com/robotoolbox/referenceframe"
	"go.viam.com/robotoolbox/robot"
)

// roadmapEdge is a collision-free motion between two roadmap nodes, stored from the lower id to the higher.
type roadmapEdge struct {
	// waypoints after the lower node, ending with the higher node
	path   []referenceframe.Configuration
	length float64
}

type edgeKey struct {
	from, to int64
}

// PRM is a probabilistic roadmap. Explore grows the roadmap, which persists across calls and is
// reused by every Plan.
type PRM struct {
	robot   robot.Robot
	opts    *PRMOptions
	logger  logging.Logger
	checker *segmentChecker

	nodes []*node
	edges map[edgeKey]*roadmapEdge
	graph *simple.WeightedUndirectedGraph

	// all shortest paths of the current roadmap, nil until needed
	shortest *path.AllShortest
}

// NewPRM returns a planner with an empty roadmap for r. Nil options mean the defaults. Roadmap nodes
// are drawn with r.SampleConfiguration, so r's random source decides the roadmap.
func NewPRM(r robot.Robot, opts *PRMOptions, logger logging.Logger) (*PRM, error) {
	if opts == nil {
		opts = NewPRMOptions()
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = logging.NewBlankLogger("prm")
	}
	return &PRM{
		robot:   r,
		opts:    opts,
		logger:  logger,
		checker: &segmentChecker{robot: r, resolution: opts.resolution()},
		edges:   map[edgeKey]*roadmapEdge{},
		graph:   simple.NewWeightedUndirectedGraph(0, math.Inf(1)),
	}, nil
}

// Len returns the number of roadmap nodes.
func (mp *PRM) Len() int {
	return len(mp.nodes)
}

// Nodes returns the roadmap configurations in the order they were added.
func (mp *PRM) Nodes() []referenceframe.Configuration {
	return lo.Map(mp.nodes, func(n *node, _ int) referenceframe.Configuration {
		return referenceframe.CloneConfiguration(n.q)
	})
}

// Explore adds maxNodes collision-free configurations to the roadmap. A sample is kept only if it
// connects to at least one node already in the roadmap. The first sample of an empty roadmap waits
// for a later sample to connect to it and is dropped if none does before Explore returns.
// Sampling stops early once the sampling budget is spent; the returned count says how many nodes were added.
func (mp *PRM) Explore(ctx context.Context, maxNodes int) (int, error) {
	defer mp.checker.restore()()

	added, samples, rejected, err := mp.sample(ctx, maxNodes)
	if len(mp.nodes) == 1 && len(mp.edges) == 0 {
		mp.graph.RemoveNode(mp.nodes[0].id)
		mp.nodes = mp.nodes[:0]
		added--
	}
	if err != nil {
		return added, err
	}
	mp.logger.Infof("prm explore added %d nodes (%d total, %d edges) from %d samples, %d in collision",
		added, len(mp.nodes), len(mp.edges), samples, rejected)
	return added, nil
}

// sample draws configurations until maxNodes of them have joined the roadmap, the budget is spent,
// or ctx is done.
func (mp *PRM) sample(ctx context.Context, maxNodes int) (added, samples, rejected int, err error) {
	budget := mp.opts.exploreBudget(maxNodes)
	for added < maxNodes {
		if samples >= budget {
			mp.logger.Warnf("prm explore used its budget of %d samples and added %d of %d nodes", budget, added, maxNodes)
			break
		}
		select {
		case <-ctx.Done():
			return added, samples, rejected, ctx.Err()
		default:
		}
		samples++

		q := mp.robot.SampleConfiguration()
		ok, err := mp.checker.validConfiguration(q)
		if err != nil {
			return added, samples, rejected, err
		}
		if !ok {
			rejected++
			continue
		}

		candidates, err := neighborsWithin(q, mp.nodes, mp.opts.ConnectionRadius)
		if err != nil {
			return added, samples, rejected, err
		}
		id := int64(len(mp.nodes))
		connected := map[int64]*roadmapEdge{}
		for _, nb := range candidates {
			waypoints, ok, err := mp.connect(nb.node.q, q)
			if err != nil {
				return added, samples, rejected, err
			}
			if ok {
				connected[nb.node.id] = &roadmapEdge{path: waypoints, length: nb.dist}
			}
		}
		if len(connected) == 0 && len(mp.nodes) > 0 {
			continue
		}

		mp.nodes = append(mp.nodes, &node{q: q, id: id})
		mp.graph.AddNode(simple.Node(id))
		for from, e := range connected {
			mp.edges[edgeKey{from, id}] = e
			mp.graph.SetWeightedEdge(mp.graph.NewWeightedEdge(simple.Node(from), simple.Node(id), e.length))
		}
		// cached shortest paths do not know the new node
		mp.shortest = nil
		added++
	}
	return added, samples, rejected, nil
}

// connect checks the straight motion from a to b. On success it returns its waypoints spaced at most
// DeltaQ apart, excluding a and ending with b.
func (mp *PRM) connect(a, b referenceframe.Configuration) ([]referenceframe.Configuration, bool, error) {
	dist, err := referenceframe.Distance(a, b)
	if err != nil {
		return nil, false, err
	}
	if dist == 0 {
		return []referenceframe.Configuration{}, true, nil
	}
	if dist > mp.opts.DeltaQ*float64(mp.opts.MaxConnectIter) {
		return nil, false, nil
	}
	ok, err := mp.checker.validSegment(a, b)
	if err != nil || !ok {
		return nil, false, err
	}
	waypoints, err := referenceframe.InterpolatePath(a, b, mp.opts.DeltaQ)
	if err != nil {
		return nil, false, err
	}
	return waypoints, true, nil
}

// closestConnection tries every roadmap node and returns the one with the shortest collision-free
// motion to or from q, along with that motion. toRoadmap selects the direction.
func (mp *PRM) closestConnection(
	ctx context.Context,
	q referenceframe.Configuration,
	toRoadmap bool,
) (*node, []referenceframe.Configuration, error) {
	candidates, err := neighborsWithin(q, mp.nodes, 0)
	if err != nil {
		return nil, nil, err
	}
	// candidates are sorted by distance and a motion is exactly as long as that distance,
	// so the first connection found is the shortest
	for _, nb := range candidates {
		select {
		case <-ctx.Done():
			return nil, nil, ctx.Err()
		default:
		}
		var waypoints []referenceframe.Configuration
		var ok bool
		if toRoadmap {
			waypoints, ok, err = mp.connect(q, nb.node.q)
		} else {
			waypoints, ok, err = mp.connect(nb.node.q, q)
		}
		if err != nil {
			return nil, nil, err
		}
		if ok {
			return nb.node, waypoints, nil
		}
	}
	return nil, nil, nil
}

// Plan connects start and goal to the roadmap and returns the shortest roadmap path between them.
// The path starts with start, ends with goal and consecutive configurations are at most DeltaQ apart.
func (mp *PRM) Plan(ctx context.Context, start, goal referenceframe.Configuration) ([]referenceframe.Configuration, error) {
	if _, err := referenceframe.Distance(start, goal); err != nil {
		return nil, err
	}
	if len(mp.nodes) == 0 {
		return nil, newEmptyRoadmapError()
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

	first, startPath, err := mp.closestConnection(ctx, start, true)
	if err != nil {
		return nil, err
	}
	if first == nil {
		return nil, ErrNoStartConnection
	}
	last, goalPath, err := mp.closestConnection(ctx, goal, false)
	if err != nil {
		return nil, err
	}
	if last == nil {
		return nil, ErrNoGoalConnection
	}

	route, err := mp.roadmapPath(first.id, last.id)
	if err != nil {
		return nil, err
	}

	plan := []referenceframe.Configuration{referenceframe.CloneConfiguration(start)}
	plan = append(plan, startPath...)
	for i := 1; i < len(route); i++ {
		plan = append(plan, mp.edgePath(route[i-1], route[i])...)
	}
	for _, q := range goalPath {
		plan = append(plan, referenceframe.CloneConfiguration(q))
	}
	mp.logger.CDebugf(ctx, "prm plan crosses %d roadmap nodes with %d waypoints", len(route), len(plan))
	return plan, nil
}

// roadmapPath returns the ids of the roadmap nodes on the shortest path from u to v.
func (mp *PRM) roadmapPath(u, v int64) ([]int64, error) {
	var nodes []graph.Node
	switch mp.opts.GraphSearch {
	case Dijkstra:
		nodes, _ = path.DijkstraFrom(simple.Node(u), mp.graph).To(v)
	default:
		if mp.shortest == nil {
			shortest, ok := path.FloydWarshall(mp.graph)
			if !ok {
				// edge weights are lengths, so a negative cycle cannot exist
				return nil, ErrNoRoadmapPath
			}
			mp.shortest = &shortest
		}
		nodes, _, _ = mp.shortest.Between(u, v)
	}
	if len(nodes) == 0 {
		return nil, ErrNoRoadmapPath
	}
	return lo.Map(nodes, func(n graph.Node, _ int) int64 { return n.ID() }), nil
}

// edgePath returns the waypoints of the roadmap edge from u to v, excluding u and ending with v.
func (mp *PRM) edgePath(u, v int64) []referenceframe.Configuration {
	if e, ok := mp.edges[edgeKey{u, v}]; ok {
		return lo.Map(e.path, func(q referenceframe.Configuration, _ int) referenceframe.Configuration {
			return referenceframe.CloneConfiguration(q)
		})
	}
	e := mp.edges[edgeKey{v, u}]
	// walking backwards, the waypoints before the last one and then u's own configuration
	reversed := make([]referenceframe.Configuration, 0, len(e.path))
	for i := len(e.path) - 2; i >= 0; i-- {
		reversed = append(reversed, referenceframe.CloneConfiguration(e.path[i]))
	}
	return append(reversed, referenceframe.CloneConfiguration(mp.nodes[v].q))
}

// AdjacencyMatrix returns the roadmap edge weights, with zero where two nodes are not connected.
func (mp *PRM) AdjacencyMatrix() *mat.Dense {
	n := len(mp.nodes)
	if n == 0 {
		return &mat.Dense{}
	}
	adj := mat.NewDense(n, n, nil)
	for k, e := range mp.edges {
		adj.Set(int(k.from), int(k.to), e.length)
		adj.Set(int(k.to), int(k.from), e.length)
	}
	return adj
}

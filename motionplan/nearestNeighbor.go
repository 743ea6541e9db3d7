package motionplan

import (
	"context"
	"math"
	"runtime"
	"slices"
	"sync"

	"go.viam.com/robotoolbox/referenceframe"
)

const neighborsBeforeParallelization = 1000

type neighbor struct {
	dist float64
	node *node
}

// neighborManager finds the nodes closest to a configuration. Large node sets are searched in
// parallel chunks; ties always resolve to the earliest node so results do not depend on scheduling.
type neighborManager struct {
	nCPU int
}

func newNeighborManager() *neighborManager {
	return &neighborManager{nCPU: runtime.NumCPU()}
}

func (nm *neighborManager) nearestNeighbor(
	ctx context.Context,
	seed referenceframe.Configuration,
	nodes []*node,
) (*neighbor, error) {
	if len(nodes) > neighborsBeforeParallelization && nm.nCPU > 1 {
		return nm.parallelNearestNeighbor(ctx, seed, nodes)
	}
	return nearestInChunk(seed, nodes)
}

func nearestInChunk(seed referenceframe.Configuration, nodes []*node) (*neighbor, error) {
	best := &neighbor{dist: math.Inf(1)}
	for _, n := range nodes {
		dist, err := referenceframe.Distance(seed, n.q)
		if err != nil {
			return nil, err
		}
		if dist < best.dist {
			best.dist = dist
			best.node = n
		}
	}
	return best, nil
}

func (nm *neighborManager) parallelNearestNeighbor(
	ctx context.Context,
	seed referenceframe.Configuration,
	nodes []*node,
) (*neighbor, error) {
	chunk := (len(nodes) + nm.nCPU - 1) / nm.nCPU
	results := make([]*neighbor, nm.nCPU)
	errs := make([]error, nm.nCPU)

	var wg sync.WaitGroup
	for i := 0; i < nm.nCPU; i++ {
		lo := i * chunk
		if lo >= len(nodes) {
			break
		}
		hi := min(lo+chunk, len(nodes))
		wg.Add(1)
		go func(i int, part []*node) {
			defer wg.Done()
			results[i], errs[i] = nearestInChunk(seed, part)
		}(i, nodes[lo:hi])
	}
	wg.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	best := &neighbor{dist: math.Inf(1)}
	for i, nn := range results {
		if errs[i] != nil {
			return nil, errs[i]
		}
		if nn != nil && nn.dist < best.dist {
			best = nn
		}
	}
	return best, nil
}

// neighborsWithin returns every node no further than radius from seed, closest first. A radius of
// zero or less returns all nodes.
func neighborsWithin(seed referenceframe.Configuration, nodes []*node, radius float64) ([]*neighbor, error) {
	found := make([]*neighbor, 0, len(nodes))
	for _, n := range nodes {
		dist, err := referenceframe.Distance(seed, n.q)
		if err != nil {
			return nil, err
		}
		if radius > 0 && dist > radius {
			continue
		}
		found = append(found, &neighbor{dist: dist, node: n})
	}
	slices.SortStableFunc(found, func(a, b *neighbor) int {
		switch {
		case a.dist < b.dist:
			return -1
		case a.dist > b.dist:
			return 1
		default:
			return 0
		}
	})
	return found, nil
}

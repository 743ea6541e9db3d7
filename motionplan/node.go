package motionplan

import (
	"github.com/samber/lo"

	"go.viam.com/robotoolbox/referenceframe"
)

// node is a configuration in a search tree or roadmap.
type node struct {
	q      referenceframe.Configuration
	parent *node

	// distance from the tree root along parent links
	cost float64

	// index in a roadmap
	id int64
}

func newNode(q referenceframe.Configuration, parent *node, cost float64) *node {
	return &node{q: q, parent: parent, cost: cost}
}

// pathToRoot returns the configurations from the root of n's tree down to n.
func (n *node) pathToRoot() []referenceframe.Configuration {
	path := []referenceframe.Configuration{}
	for cur := n; cur != nil; cur = cur.parent {
		path = append(path, cur.q)
	}
	return lo.Reverse(path)
}

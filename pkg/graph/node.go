package graph

import "github.com/matzehuels/depfetch/pkg/artifact"

// Node is one accepted occurrence of a dependency edge. Children are kept in
// the order the parent declared them.
type Node struct {
	Dependency artifact.Dependency
	Children   []*Node
}

// Coordinate returns the node's artifact coordinate.
func (n *Node) Coordinate() artifact.Coordinate {
	return n.Dependency.Coordinate
}

// Walk visits n and its descendants in pre-order. If fn returns false the
// node's children are skipped.
func (n *Node) Walk(fn func(n *Node, depth int) bool) {
	n.walk(fn, 0)
}

func (n *Node) walk(fn func(*Node, int) bool, depth int) {
	if !fn(n, depth) {
		return
	}
	for _, c := range n.Children {
		c.walk(fn, depth+1)
	}
}

// Count returns the number of nodes in the tree rooted at n.
func (n *Node) Count() int {
	count := 0
	n.Walk(func(*Node, int) bool {
		count++
		return true
	})
	return count
}

// Depth returns the length of the longest root-to-leaf path, counting nodes.
func (n *Node) Depth() int {
	deepest := 0
	n.Walk(func(_ *Node, d int) bool {
		deepest = max(deepest, d+1)
		return true
	})
	return deepest
}

// Flatten returns every node's dependency in pre-order. Repeated
// coordinates are kept, one entry per occurrence.
func (n *Node) Flatten() []artifact.Dependency {
	var out []artifact.Dependency
	n.Walk(func(c *Node, _ int) bool {
		out = append(out, c.Dependency)
		return true
	})
	return out
}

package graph

import (
	"strconv"

	"github.com/matzehuels/depfetch/pkg/artifact"
)

// Graph is the flat serialization of a resolved tree, used for reports and
// API responses. Node IDs are positional ("0" is the root, then pre-order),
// so repeated coordinates stay distinct.
type Graph struct {
	Nodes []ExportNode `json:"nodes" bson:"nodes"`
	Edges []Edge       `json:"edges" bson:"edges"`
}

// ExportNode is one tree node in a [Graph].
type ExportNode struct {
	ID         string         `json:"id" bson:"id"`
	Coordinate string         `json:"coordinate" bson:"coordinate"`
	Scope      artifact.Scope `json:"scope" bson:"scope"`
	Optional   bool           `json:"optional,omitempty" bson:"optional,omitempty"`
	Depth      int            `json:"depth" bson:"depth"`
}

// Edge connects a parent node ID to a child node ID.
type Edge struct {
	From string `json:"from" bson:"from"`
	To   string `json:"to" bson:"to"`
}

// Export converts the tree rooted at n into a [Graph].
func (n *Node) Export() Graph {
	var g Graph
	var visit func(node *Node, parent string, depth int)
	visit = func(node *Node, parent string, depth int) {
		id := strconv.Itoa(len(g.Nodes))
		g.Nodes = append(g.Nodes, ExportNode{
			ID:         id,
			Coordinate: node.Coordinate().String(),
			Scope:      node.Dependency.Scope,
			Optional:   node.Dependency.Optional,
			Depth:      depth,
		})
		if parent != "" {
			g.Edges = append(g.Edges, Edge{From: parent, To: id})
		}
		for _, c := range node.Children {
			visit(c, id, depth+1)
		}
	}
	visit(n, "", 0)
	return g
}

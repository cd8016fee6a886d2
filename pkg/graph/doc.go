// Package graph builds the resolved dependency tree of a root artifact.
//
// [Collect] walks a [Source] depth-first. Every edge accepted by the selector
// pipeline becomes its own [Node]; convergent paths to the same coordinate
// are not merged, so the tree mirrors declaration order exactly. Rejected
// edges produce no node and their subtrees are never requested from the
// source.
//
//	root, err := graph.Collect(ctx, artifact.Root(coord), repos, selector.Default(), src, graph.Options{})
//	if err != nil {
//	    return err
//	}
//	for _, dep := range root.Flatten() {
//	    fmt.Println(dep.Coordinate)
//	}
//
// The tree can be exported with [Node.Export] into the flat nodes/edges
// format used by reports and the HTTP API.
package graph

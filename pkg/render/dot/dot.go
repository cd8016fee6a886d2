// Package dot exports a resolved dependency tree to Graphviz.
//
// [ToDOT] produces DOT source in which every tree node is its own vertex, so
// an artifact reached through two paths appears twice, exactly as in the
// ASCII tree. [RenderSVG] lays the DOT out in-process with
// [github.com/goccy/go-graphviz].
package dot

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/depfetch/pkg/artifact"
	"github.com/matzehuels/depfetch/pkg/graph"
)

// Options configures DOT generation.
type Options struct {
	// Detailed adds scope and optional markers to node labels.
	Detailed bool
}

// ToDOT converts the tree rooted at root to Graphviz DOT format.
func ToDOT(root *graph.Node, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=12];\n")
	buf.WriteString("\n")

	if root == nil {
		buf.WriteString("}\n")
		return buf.String()
	}

	g := root.Export()
	for _, n := range g.Nodes {
		attrs := fmtAttrs(n, opts.Detailed)
		fmt.Fprintf(&buf, "  n%s [%s];\n", n.ID, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, e := range g.Edges {
		fmt.Fprintf(&buf, "  n%s -> n%s;\n", e.From, e.To)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtAttrs(n graph.ExportNode, detailed bool) []string {
	label := n.Coordinate
	if detailed {
		label += "\n" + string(n.Scope)
		if n.Optional {
			label += ", optional"
		}
	}
	attrs := []string{fmt.Sprintf("label=%q", label)}
	switch {
	case n.Depth == 0:
		attrs = append(attrs, "penwidth=2")
	case n.Scope == artifact.ScopeRuntime || n.Scope == artifact.ScopeTest:
		attrs = append(attrs, "style=\"rounded,filled,dashed\"", "fillcolor=lightgrey")
	}
	return attrs
}

// RenderSVG renders DOT source to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}

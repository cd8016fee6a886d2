package tree

import (
	"io"
	"iter"
	"strings"

	"github.com/matzehuels/depfetch/pkg/graph"
)

// Style holds the glyphs used to draw the tree. All four segments must have
// the same display width.
type Style struct {
	Indent   string // continuation beside a sibling still to come
	Blank    string // continuation with nothing to connect
	Branch   string // connector for a node with later siblings
	Terminal string // connector for the last sibling
}

// Built-in styles.
var (
	ASCII   = Style{Indent: "|   ", Blank: "    ", Branch: "+---", Terminal: `\---`}
	Unicode = Style{Indent: "│   ", Blank: "    ", Branch: "├───", Terminal: "└───"}
)

// StyleByName returns the style registered under name ("ascii" or "unicode").
func StyleByName(name string) (Style, bool) {
	switch strings.ToLower(name) {
	case "", "ascii":
		return ASCII, true
	case "unicode":
		return Unicode, true
	}
	return Style{}, false
}

// Printer renders trees with a fixed style.
type Printer struct {
	Style Style
	// Label formats a node; defaults to the coordinate's canonical string.
	Label func(n *graph.Node) string
}

// New returns a Printer using style.
func New(style Style) *Printer {
	return &Printer{Style: style}
}

// Lines returns the rendered lines of the tree rooted at root, in pre-order.
func (p *Printer) Lines(root *graph.Node) iter.Seq[string] {
	return func(yield func(string) bool) {
		if root == nil {
			return
		}
		r := &render{
			style:   p.Style,
			label:   p.Label,
			visited: make(map[int]int),
			yield:   yield,
		}
		if r.label == nil {
			r.label = func(n *graph.Node) string { return n.Coordinate().String() }
		}
		r.visit(root, "", 0, 0)
	}
}

// render is the state of one pass. visited counts, per depth, how many
// siblings at that depth have been emitted under the current parent.
type render struct {
	style   Style
	label   func(*graph.Node) string
	visited map[int]int
	yield   func(string) bool
}

func (r *render) visit(n *graph.Node, prefix string, depth, parentChildren int) bool {
	children := len(n.Children)
	r.visited[depth]++

	line := r.label(n)
	if depth > 0 {
		glyph := r.style.Branch
		if r.visited[depth] == parentChildren {
			glyph = r.style.Terminal
		}
		line = prefix + glyph + line
	}
	if !r.yield(line) {
		return false
	}
	if children == 0 {
		return true
	}

	childPrefix := prefix
	switch {
	case depth == 0:
	case children == 1 && children == parentChildren:
		childPrefix += r.style.Blank
	default:
		childPrefix += r.style.Indent
	}

	for _, c := range n.Children {
		if !r.visit(c, childPrefix, depth+1, children) {
			return false
		}
	}
	delete(r.visited, depth+1)
	return true
}

// Render returns the whole tree as a newline-terminated string.
func (p *Printer) Render(root *graph.Node) string {
	var b strings.Builder
	for line := range p.Lines(root) {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return b.String()
}

// Fprint writes the tree to w, one line per node.
func (p *Printer) Fprint(w io.Writer, root *graph.Node) error {
	for line := range p.Lines(root) {
		if _, err := io.WriteString(w, line+"\n"); err != nil {
			return err
		}
	}
	return nil
}

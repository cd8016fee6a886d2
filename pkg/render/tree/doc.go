// Package tree renders a resolved dependency tree as indented ASCII art.
//
// Output is one line per node in pre-order:
//
//	com.example:app:jar:1.0
//	+---org.slf4j:slf4j-api:jar:2.0.9
//	|   \---org.slf4j:slf4j-simple:jar:2.0.9
//	\---com.google.guava:guava:jar:32.1.3-jre
//	    \---com.google.guava:failureaccess:jar:1.0.1
//
// The root has no glyph. Every other node gets the terminal glyph when it is
// the last child of its parent and the branch glyph otherwise. Below a node
// the indentation grows by a vertical connector, except for a singleton chain
// (a sole child that itself has exactly one child), where the continuation is
// left blank because there is no sibling to connect to.
//
// [Printer.Lines] yields lines lazily; each call starts a fresh single-pass
// render of the given root.
package tree

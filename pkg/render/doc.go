// Package render groups the output formats for resolved dependency trees.
//
//   - [tree]: line-oriented ASCII or Unicode trees, the format logged for
//     every resolved root
//   - [dot]: Graphviz DOT export and SVG rendering for the tree command
//     and the HTTP API
package render

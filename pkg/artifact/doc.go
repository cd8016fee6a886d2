// Package artifact defines the identity of a versioned artifact and the
// dependency edges that connect artifacts.
//
// A [Coordinate] names one artifact version. Its string form is
//
//	group:name[:extension[:classifier]]:version
//
// where the last field is always the version, the first two are always the
// group and name, a four-field form adds the extension and a five-field form
// adds the extension and then the classifier. The extension defaults to "jar".
//
// A [Dependency] is an edge declared by a parent artifact: the child
// coordinate plus the parent's view of it (scope, optional flag and the
// exclusions the parent applies to the child's subtree).
package artifact

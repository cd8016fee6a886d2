// Package selector decides which dependency edges survive graph collection.
//
// A [Selector] is consulted once per candidate edge with the chain of edges
// leading to it (root first). Its [Decision] is final for the edge's whole
// subtree: an edge that is not included is never turned into a node and its
// children are never looked up.
//
// Selectors compose with [And]. The default pipeline rejects provided-scope
// edges, optional edges and edges excluded by any ancestor:
//
//	sel := selector.Default()
//	d := sel.Select(dep, ancestry)
//	if !d.Include {
//	    // skip dep and everything below it
//	}
package selector

import (
	"slices"

	"github.com/matzehuels/depfetch/pkg/artifact"
)

// Decision is the outcome of evaluating one edge.
type Decision struct {
	Include bool // edge becomes a graph node
	Descend bool // edge's children are explored
}

var (
	accept = Decision{Include: true, Descend: true}
	reject = Decision{}
)

// Selector evaluates a candidate edge against its ancestry. Implementations
// must be pure: the same edge and ancestry always yield the same decision.
type Selector interface {
	Select(dep artifact.Dependency, ancestry []artifact.Dependency) Decision
}

// Func adapts a predicate to a [Selector]. Descend mirrors Include.
type Func func(dep artifact.Dependency, ancestry []artifact.Dependency) bool

// Select implements [Selector].
func (f Func) Select(dep artifact.Dependency, ancestry []artifact.Dependency) Decision {
	if f(dep, ancestry) {
		return accept
	}
	return reject
}

// All accepts every edge.
var All Selector = Func(func(artifact.Dependency, []artifact.Dependency) bool { return true })

// ScopeSelector rejects edges whose scope is in Excluded. With no excluded
// scopes it accepts everything.
type ScopeSelector struct {
	Excluded []artifact.Scope
}

// Scope returns a [ScopeSelector] excluding the given scopes.
func Scope(excluded ...artifact.Scope) *ScopeSelector {
	return &ScopeSelector{Excluded: slices.Clone(excluded)}
}

// Select implements [Selector].
func (s *ScopeSelector) Select(dep artifact.Dependency, _ []artifact.Dependency) Decision {
	if slices.Contains(s.Excluded, dep.Scope) {
		return reject
	}
	return accept
}

// OptionalSelector rejects optional edges unless Allow is set.
type OptionalSelector struct {
	Allow bool
}

// Optional returns an [OptionalSelector] that rejects optional edges.
func Optional() *OptionalSelector {
	return &OptionalSelector{}
}

// Select implements [Selector].
func (s *OptionalSelector) Select(dep artifact.Dependency, _ []artifact.Dependency) Decision {
	if dep.Optional && !s.Allow {
		return reject
	}
	return accept
}

// ExclusionSelector rejects an edge when any ancestor declares an exclusion
// matching it. Exclusions therefore apply to all descendants, not only to
// direct children.
type ExclusionSelector struct{}

// Exclusion returns an [ExclusionSelector].
func Exclusion() ExclusionSelector {
	return ExclusionSelector{}
}

// Select implements [Selector].
func (ExclusionSelector) Select(dep artifact.Dependency, ancestry []artifact.Dependency) Decision {
	for _, a := range ancestry {
		if a.Excludes(dep.Coordinate) {
			return reject
		}
	}
	return accept
}

// AndSelector includes an edge only if every member includes it.
type AndSelector struct {
	selectors []Selector
}

// And combines selectors with logical AND. Nil members are skipped.
func And(selectors ...Selector) *AndSelector {
	s := &AndSelector{}
	for _, sel := range selectors {
		if sel != nil {
			s.selectors = append(s.selectors, sel)
		}
	}
	return s
}

// Select implements [Selector].
func (s *AndSelector) Select(dep artifact.Dependency, ancestry []artifact.Dependency) Decision {
	for _, sel := range s.selectors {
		if !sel.Select(dep, ancestry).Include {
			return reject
		}
	}
	return accept
}

// Default returns the standard pipeline: provided scope, optional edges and
// ancestor exclusions are all rejected.
func Default() Selector {
	return FromOptions(Options{ExcludedScopes: []artifact.Scope{artifact.ScopeProvided}})
}

// Options configures a pipeline built by [FromOptions].
type Options struct {
	ExcludedScopes []artifact.Scope // scopes rejected by the scope selector
	AllowOptional  bool             // keep optional edges
	NoScopeFilter  bool             // disable the scope selector entirely
}

// FromOptions builds an AND pipeline of scope, optional and exclusion
// selectors.
func FromOptions(opts Options) Selector {
	var scope Selector
	if !opts.NoScopeFilter {
		scope = Scope(opts.ExcludedScopes...)
	}
	return And(scope, &OptionalSelector{Allow: opts.AllowOptional}, Exclusion())
}

package artifact

import "strings"

// Scope is the declared usage context of a dependency edge.
type Scope string

// Dependency scopes.
const (
	ScopeCompile  Scope = "compile"
	ScopeProvided Scope = "provided"
	ScopeRuntime  Scope = "runtime"
	ScopeTest     Scope = "test"
	ScopeSystem   Scope = "system"
	ScopeNone     Scope = "none"
)

// Scopes lists every known scope in declaration order.
var Scopes = []Scope{ScopeCompile, ScopeProvided, ScopeRuntime, ScopeTest, ScopeSystem, ScopeNone}

// ParseScope maps a declared scope to a [Scope]. An empty scope is compile,
// matching how POM files default it; unrecognized values map to none.
func ParseScope(s string) Scope {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return ScopeCompile
	}
	for _, sc := range Scopes {
		if string(sc) == s {
			return sc
		}
	}
	return ScopeNone
}

// Exclusion removes every artifact matching Group:Name from the subtree of
// the edge that declares it. Either field may be "*".
type Exclusion struct {
	Group string `json:"group" bson:"group"`
	Name  string `json:"name" bson:"name"`
}

// ParseExclusion parses "group:name".
func ParseExclusion(s string) (Exclusion, bool) {
	group, name, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok || group == "" || name == "" {
		return Exclusion{}, false
	}
	return Exclusion{Group: group, Name: name}, true
}

// Matches reports whether c is excluded by e.
func (e Exclusion) Matches(c Coordinate) bool {
	return (e.Group == "*" || e.Group == c.Group) && (e.Name == "*" || e.Name == c.Name)
}

// String returns "group:name".
func (e Exclusion) String() string {
	return e.Group + ":" + e.Name
}

// Dependency is a directed edge from a parent artifact to Coordinate.
// Scope, Optional and Exclusions are declared by the parent.
type Dependency struct {
	Coordinate Coordinate  `json:"coordinate" bson:"coordinate"`
	Scope      Scope       `json:"scope" bson:"scope"`
	Optional   bool        `json:"optional,omitempty" bson:"optional,omitempty"`
	Exclusions []Exclusion `json:"exclusions,omitempty" bson:"exclusions,omitempty"`
}

// Root wraps a coordinate as the compile-scope root edge of a resolution.
func Root(c Coordinate, exclusions ...Exclusion) Dependency {
	return Dependency{Coordinate: c, Scope: ScopeCompile, Exclusions: exclusions}
}

// Excludes reports whether any of d's exclusions matches c.
func (d Dependency) Excludes(c Coordinate) bool {
	for _, e := range d.Exclusions {
		if e.Matches(c) {
			return true
		}
	}
	return false
}

// String returns the coordinate followed by the scope, e.g.
// "org.slf4j:slf4j-api:jar:2.0.9 (compile)".
func (d Dependency) String() string {
	s := d.Coordinate.String() + " (" + string(d.Scope)
	if d.Optional {
		s += ", optional"
	}
	return s + ")"
}

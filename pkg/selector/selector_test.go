package selector

import (
	"testing"

	"github.com/matzehuels/depfetch/pkg/artifact"
)

func dep(coord string, scope artifact.Scope, optional bool, ex ...artifact.Exclusion) artifact.Dependency {
	return artifact.Dependency{
		Coordinate: artifact.MustParse(coord),
		Scope:      scope,
		Optional:   optional,
		Exclusions: ex,
	}
}

func TestScopeSelector(t *testing.T) {
	s := Scope(artifact.ScopeProvided, artifact.ScopeTest)

	tests := []struct {
		scope artifact.Scope
		want  bool
	}{
		{artifact.ScopeCompile, true},
		{artifact.ScopeRuntime, true},
		{artifact.ScopeProvided, false},
		{artifact.ScopeTest, false},
		{artifact.ScopeNone, true},
	}
	for _, tt := range tests {
		t.Run(string(tt.scope), func(t *testing.T) {
			d := s.Select(dep("g:n:1", tt.scope, false), nil)
			if d.Include != tt.want || d.Descend != tt.want {
				t.Errorf("Select(%s) = %+v, want include=descend=%v", tt.scope, d, tt.want)
			}
		})
	}
}

func TestScopeSelectorNoop(t *testing.T) {
	s := Scope()
	for _, sc := range artifact.Scopes {
		if !s.Select(dep("g:n:1", sc, false), nil).Include {
			t.Errorf("empty scope selector rejected %s", sc)
		}
	}
}

func TestOptionalSelector(t *testing.T) {
	s := Optional()
	if s.Select(dep("g:n:1", artifact.ScopeCompile, true), nil).Include {
		t.Error("optional edge should be rejected")
	}
	if !s.Select(dep("g:n:1", artifact.ScopeCompile, false), nil).Include {
		t.Error("non-optional edge should be included")
	}

	s.Allow = true
	if !s.Select(dep("g:n:1", artifact.ScopeCompile, true), nil).Include {
		t.Error("optional edge should be included when allowed")
	}
}

func TestExclusionSelectorTransitive(t *testing.T) {
	root := dep("g:root:1", artifact.ScopeCompile, false, artifact.Exclusion{Group: "x", Name: "banned"})
	mid := dep("g:mid:1", artifact.ScopeCompile, false)
	leaf := dep("g:leaf:1", artifact.ScopeCompile, false)
	candidate := dep("x:banned:1", artifact.ScopeCompile, false)

	s := Exclusion()

	if s.Select(candidate, []artifact.Dependency{root}).Include {
		t.Error("direct child excluded by root should be rejected")
	}
	if s.Select(candidate, []artifact.Dependency{root, mid, leaf}).Include {
		t.Error("deep descendant excluded by root should be rejected")
	}
	if !s.Select(candidate, []artifact.Dependency{mid, leaf}).Include {
		t.Error("candidate without excluding ancestor should be included")
	}
}

func TestAnd(t *testing.T) {
	s := And(Scope(artifact.ScopeProvided), Optional(), nil, Exclusion())

	tests := []struct {
		name string
		dep  artifact.Dependency
		want bool
	}{
		{"compile", dep("g:n:1", artifact.ScopeCompile, false), true},
		{"provided", dep("g:n:1", artifact.ScopeProvided, false), false},
		{"optional", dep("g:n:1", artifact.ScopeCompile, true), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.Select(tt.dep, nil); got.Include != tt.want || got.Descend != got.Include {
				t.Errorf("Select() = %+v, want include=%v", got, tt.want)
			}
		})
	}
}

func TestDefault(t *testing.T) {
	s := Default()
	if s.Select(dep("g:n:1", artifact.ScopeProvided, false), nil).Include {
		t.Error("default pipeline should reject provided scope")
	}
	if !s.Select(dep("g:n:1", artifact.ScopeTest, false), nil).Include {
		t.Error("default pipeline should keep test scope")
	}
}

func TestFromOptions(t *testing.T) {
	s := FromOptions(Options{NoScopeFilter: true, AllowOptional: true, ExcludedScopes: []artifact.Scope{artifact.ScopeProvided}})
	if !s.Select(dep("g:n:1", artifact.ScopeProvided, true), nil).Include {
		t.Error("disabled scope filter with allowed optionals should include everything")
	}

	root := dep("g:root:1", artifact.ScopeCompile, false, artifact.Exclusion{Group: "g", Name: "n"})
	if s.Select(dep("g:n:1", artifact.ScopeCompile, false), []artifact.Dependency{root}).Include {
		t.Error("exclusions still apply when scope filtering is disabled")
	}
}

func TestSelectIsDeterministic(t *testing.T) {
	s := Default()
	root := dep("g:root:1", artifact.ScopeCompile, false, artifact.Exclusion{Group: "g", Name: "x"})
	d := dep("g:x:1", artifact.ScopeCompile, false)
	first := s.Select(d, []artifact.Dependency{root})
	for range 10 {
		if got := s.Select(d, []artifact.Dependency{root}); got != first {
			t.Fatalf("Select() = %+v, then %+v", first, got)
		}
	}
}

package artifact

import "testing"

func TestParseScope(t *testing.T) {
	tests := []struct {
		in   string
		want Scope
	}{
		{"", ScopeCompile},
		{"compile", ScopeCompile},
		{"PROVIDED", ScopeProvided},
		{" runtime ", ScopeRuntime},
		{"test", ScopeTest},
		{"system", ScopeSystem},
		{"import", ScopeNone},
	}
	for _, tt := range tests {
		if got := ParseScope(tt.in); got != tt.want {
			t.Errorf("ParseScope(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestExclusionMatches(t *testing.T) {
	c := MustParse("commons-logging:commons-logging:1.2")

	tests := []struct {
		ex   Exclusion
		want bool
	}{
		{Exclusion{"commons-logging", "commons-logging"}, true},
		{Exclusion{"commons-logging", "*"}, true},
		{Exclusion{"*", "commons-logging"}, true},
		{Exclusion{"*", "*"}, true},
		{Exclusion{"org.slf4j", "commons-logging"}, false},
		{Exclusion{"commons-logging", "other"}, false},
	}
	for _, tt := range tests {
		if got := tt.ex.Matches(c); got != tt.want {
			t.Errorf("%s.Matches(%s) = %v, want %v", tt.ex, c, got, tt.want)
		}
	}
}

func TestParseExclusion(t *testing.T) {
	ex, ok := ParseExclusion("org.slf4j:slf4j-api")
	if !ok || ex != (Exclusion{Group: "org.slf4j", Name: "slf4j-api"}) {
		t.Errorf("ParseExclusion() = %+v, %v", ex, ok)
	}
	for _, bad := range []string{"", "nocolon", ":x", "x:"} {
		if _, ok := ParseExclusion(bad); ok {
			t.Errorf("ParseExclusion(%q) should fail", bad)
		}
	}
}

func TestDependencyExcludes(t *testing.T) {
	d := Root(MustParse("g:root:1"), Exclusion{Group: "g", Name: "banned"})

	if !d.Excludes(MustParse("g:banned:2")) {
		t.Error("Excludes(g:banned) = false, want true")
	}
	if d.Excludes(MustParse("g:allowed:2")) {
		t.Error("Excludes(g:allowed) = true, want false")
	}
	if d.Scope != ScopeCompile {
		t.Errorf("Root scope = %q, want compile", d.Scope)
	}
}

func TestDependencyString(t *testing.T) {
	d := Dependency{Coordinate: MustParse("g:n:1"), Scope: ScopeRuntime, Optional: true}
	if got, want := d.String(), "g:n:jar:1 (runtime, optional)"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	deperrors "github.com/matzehuels/depfetch/pkg/errors"
)

func TestLoadDependencies(t *testing.T) {
	path := writeFile(t, DefaultDependencies, `[
  {"groupId": "com.google.guava", "artifactId": "guava", "version": "32.1.3-jre"},
  {"groupId": "org.example", "artifactId": "native", "classifier": "linux-x86_64", "extension": "so", "version": "1.0"}
]`)

	coords, err := LoadDependencies(path)
	if err != nil {
		t.Fatalf("LoadDependencies: %v", err)
	}
	want := []string{
		"com.google.guava:guava:jar:32.1.3-jre",
		"org.example:native:so:linux-x86_64:1.0",
	}
	if len(coords) != len(want) {
		t.Fatalf("got %d coordinates", len(coords))
	}
	for i, w := range want {
		if coords[i].String() != w {
			t.Errorf("coords[%d] = %s, want %s", i, coords[i], w)
		}
	}
}

func TestLoadDependenciesErrors(t *testing.T) {
	_, err := LoadDependencies(filepath.Join(t.TempDir(), "none.json"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing file: err = %v", err)
	}

	_, err = LoadDependencies(writeFile(t, "bad.json", `{"groupId": 1}`))
	if !deperrors.Is(err, deperrors.ErrCodeInvalidInput) {
		t.Errorf("bad json: err = %v", err)
	}
}

func TestLoadExtraRepositories(t *testing.T) {
	path := writeFile(t, DefaultExtraRepos, `[
  {"id": "jboss", "repourl": "https://repository.jboss.org/nexus/content/groups/public/"},
  {"id": "local", "repourl": "file:///srv/maven"}
]`)

	repos, err := LoadExtraRepositories(path)
	if err != nil {
		t.Fatalf("LoadExtraRepositories: %v", err)
	}
	if len(repos) != 2 || repos[0].ID != "jboss" || repos[1].URL != "file:///srv/maven" {
		t.Errorf("repos = %v", repos)
	}

	_, err = LoadExtraRepositories(writeFile(t, "bad.json", `[{"id": "x", "repourl": "not a url"}]`))
	if !deperrors.Is(err, deperrors.ErrCodeInvalidConfig) {
		t.Errorf("err = %v, want INVALID_CONFIG", err)
	}

	_, err = LoadExtraRepositories(filepath.Join(t.TempDir(), DefaultExtraRepos))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing file: err = %v", err)
	}
}

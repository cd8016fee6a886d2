package maven

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/matzehuels/depfetch/pkg/artifact"
	"github.com/matzehuels/depfetch/pkg/integrations"
	"github.com/matzehuels/depfetch/pkg/repository"
)

func TestTransportFetch(t *testing.T) {
	server, hits := repoServer(t, map[string]string{
		"/com/example/lib/1.0/lib-1.0.jar":         "jar",
		"/com/example/lib/1.0/lib-1.0-sources.jar": "src",
	})
	repos := repository.New(repository.Repository{ID: "test", URL: server.URL})
	dir := t.TempDir()
	tr := NewTransport(dir)
	ctx := context.Background()

	coord := artifact.MustParse("com.example:lib:1.0")
	path, err := tr.Fetch(ctx, repos, coord)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	want := filepath.Join(dir, "com", "example", "lib", "1.0", "lib-1.0.jar")
	if path != want {
		t.Errorf("path = %s, want %s", path, want)
	}
	if data, _ := os.ReadFile(path); string(data) != "jar" {
		t.Errorf("content = %q", data)
	}

	if _, err := tr.Fetch(ctx, repos, coord); err != nil {
		t.Fatal(err)
	}
	if hits.Load() != 1 {
		t.Errorf("existing file should be reused, hits = %d", hits.Load())
	}

	src, err := tr.Fetch(ctx, repos, coord.WithClassifier("sources"))
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Base(src) != "lib-1.0-sources.jar" {
		t.Errorf("sources path = %s", src)
	}
}

func TestTransportFallsThroughRepositories(t *testing.T) {
	empty, _ := repoServer(t, map[string]string{})
	full, _ := repoServer(t, map[string]string{"/org/x/y/2/y-2.jar": "y"})
	repos := repository.New(
		repository.Repository{ID: "empty", URL: empty.URL},
		repository.Repository{ID: "full", URL: full.URL},
	)

	if _, err := NewTransport(t.TempDir()).Fetch(context.Background(), repos, artifact.MustParse("org.x:y:2")); err != nil {
		t.Fatalf("Fetch: %v", err)
	}
}

func TestTransportSkipsFailingRepository(t *testing.T) {
	broken := forbiddenServer(t)
	full, _ := repoServer(t, map[string]string{"/org/x/y/2/y-2.jar": "y"})
	coord := artifact.MustParse("org.x:y:2")

	repos := repository.New(
		repository.Repository{ID: "broken", URL: broken.URL},
		repository.Repository{ID: "full", URL: full.URL},
	)
	path, err := NewTransport(t.TempDir()).Fetch(context.Background(), repos, coord)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if data, _ := os.ReadFile(path); string(data) != "y" {
		t.Errorf("content = %q", data)
	}

	empty, _ := repoServer(t, map[string]string{})
	repos = repository.New(
		repository.Repository{ID: "broken", URL: broken.URL},
		repository.Repository{ID: "empty", URL: empty.URL},
	)
	_, err = NewTransport(t.TempDir()).Fetch(context.Background(), repos, coord)
	if !errors.Is(err, integrations.ErrNetwork) {
		t.Fatalf("err = %v, want ErrNetwork", err)
	}
}

func TestTransportNotFound(t *testing.T) {
	server, _ := repoServer(t, map[string]string{})
	repos := repository.New(repository.Repository{ID: "test", URL: server.URL})
	dir := t.TempDir()

	_, err := NewTransport(dir).Fetch(context.Background(), repos, artifact.MustParse("org.x:y:2"))
	if !errors.Is(err, integrations.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "org", "x", "y", "2", "y-2.jar")); !os.IsNotExist(err) {
		t.Error("no file should be created")
	}
}

func TestNewTransportDefaultDir(t *testing.T) {
	if got := NewTransport("").Dir(); got != DefaultLocalRepository {
		t.Errorf("Dir() = %q", got)
	}
}

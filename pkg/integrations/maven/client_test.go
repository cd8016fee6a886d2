package maven

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/depfetch/pkg/artifact"
	"github.com/matzehuels/depfetch/pkg/cache"
	"github.com/matzehuels/depfetch/pkg/integrations"
	"github.com/matzehuels/depfetch/pkg/repository"
)

// repoServer serves files keyed by repository path and counts requests.
func repoServer(t *testing.T, files map[string]string) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		body, ok := files[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server, &hits
}

func testLogger() *log.Logger {
	return log.NewWithOptions(os.Stderr, log.Options{Level: log.ErrorLevel})
}

const parentPOM = `<?xml version="1.0"?>
<project>
  <groupId>com.example</groupId>
  <artifactId>parent</artifactId>
  <version>1.0</version>
  <packaging>pom</packaging>
  <properties>
    <guava.version>32.1.3-jre</guava.version>
  </properties>
  <dependencyManagement>
    <dependencies>
      <dependency>
        <groupId>com.google.guava</groupId>
        <artifactId>guava</artifactId>
        <version>${guava.version}</version>
      </dependency>
      <dependency>
        <groupId>javax.servlet</groupId>
        <artifactId>servlet-api</artifactId>
        <version>2.5</version>
        <scope>provided</scope>
      </dependency>
    </dependencies>
  </dependencyManagement>
</project>`

const libPOM = `<?xml version="1.0"?>
<project>
  <parent>
    <groupId>com.example</groupId>
    <artifactId>parent</artifactId>
    <version>1.0</version>
  </parent>
  <artifactId>lib</artifactId>
  <version>1.0</version>
  <properties>
    <slf4j.version>2.0.9</slf4j.version>
  </properties>
  <dependencies>
    <dependency>
      <groupId>org.slf4j</groupId>
      <artifactId>slf4j-api</artifactId>
      <version>${slf4j.version}</version>
    </dependency>
    <dependency>
      <groupId>com.google.guava</groupId>
      <artifactId>guava</artifactId>
      <exclusions>
        <exclusion>
          <groupId>com.google.code.findbugs</groupId>
          <artifactId>*</artifactId>
        </exclusion>
      </exclusions>
    </dependency>
    <dependency>
      <groupId>javax.servlet</groupId>
      <artifactId>servlet-api</artifactId>
    </dependency>
    <dependency>
      <groupId>${project.groupId}</groupId>
      <artifactId>lib-core</artifactId>
      <version>${project.version}</version>
      <type>test-jar</type>
      <scope>test</scope>
    </dependency>
    <dependency>
      <groupId>org.example</groupId>
      <artifactId>opt</artifactId>
      <version>3</version>
      <optional>true</optional>
    </dependency>
    <dependency>
      <groupId>org.example</groupId>
      <artifactId>broken</artifactId>
      <version>${undefined.version}</version>
    </dependency>
  </dependencies>
</project>`

func TestClientChildren(t *testing.T) {
	server, _ := repoServer(t, map[string]string{
		"/com/example/parent/1.0/parent-1.0.pom": parentPOM,
		"/com/example/lib/1.0/lib-1.0.pom":       libPOM,
	})
	repos := repository.New(repository.Repository{ID: "test", URL: server.URL})
	client := NewClient(nil, DefaultCacheTTL, testLogger())

	deps, err := client.Children(context.Background(), repos, artifact.MustParse("com.example:lib:1.0"))
	if err != nil {
		t.Fatalf("Children: %v", err)
	}

	want := []struct {
		coord    string
		scope    artifact.Scope
		optional bool
	}{
		{"org.slf4j:slf4j-api:jar:2.0.9", artifact.ScopeCompile, false},
		{"com.google.guava:guava:jar:32.1.3-jre", artifact.ScopeCompile, false},
		{"javax.servlet:servlet-api:jar:2.5", artifact.ScopeProvided, false},
		{"com.example:lib-core:jar:tests:1.0", artifact.ScopeTest, false},
		{"org.example:opt:jar:3", artifact.ScopeCompile, true},
	}
	if len(deps) != len(want) {
		t.Fatalf("got %d deps, want %d: %v", len(deps), len(want), deps)
	}
	for i, w := range want {
		d := deps[i]
		if d.Coordinate.String() != w.coord {
			t.Errorf("deps[%d] = %s, want %s", i, d.Coordinate, w.coord)
		}
		if d.Scope != w.scope {
			t.Errorf("deps[%d] scope = %s, want %s", i, d.Scope, w.scope)
		}
		if d.Optional != w.optional {
			t.Errorf("deps[%d] optional = %v, want %v", i, d.Optional, w.optional)
		}
	}

	guava := deps[1]
	if len(guava.Exclusions) != 1 || !guava.Excludes(artifact.MustParse("com.google.code.findbugs:jsr305:3.0.2")) {
		t.Errorf("guava exclusions = %v", guava.Exclusions)
	}
}

func TestClientRepositoryOrder(t *testing.T) {
	first, firstHits := repoServer(t, map[string]string{})
	second, _ := repoServer(t, map[string]string{
		"/org/example/a/1/a-1.pom": `<project><groupId>org.example</groupId><artifactId>a</artifactId><version>1</version></project>`,
	})
	repos := repository.New(
		repository.Repository{ID: "first", URL: first.URL},
		repository.Repository{ID: "second", URL: second.URL + "/"},
	)
	client := NewClient(nil, DefaultCacheTTL, testLogger())

	deps, err := client.Children(context.Background(), repos, artifact.MustParse("org.example:a:1"))
	if err != nil {
		t.Fatalf("Children: %v", err)
	}
	if len(deps) != 0 {
		t.Errorf("deps = %v, want none", deps)
	}
	if firstHits.Load() != 1 {
		t.Errorf("first repository hits = %d, want 1", firstHits.Load())
	}
}

// forbiddenServer answers every request with 403, which is not retried.
func forbiddenServer(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "forbidden", http.StatusForbidden)
	}))
	t.Cleanup(server.Close)
	return server
}

func TestClientSkipsFailingRepository(t *testing.T) {
	broken := forbiddenServer(t)
	good, _ := repoServer(t, map[string]string{
		"/org/example/a/1/a-1.pom": `<project><groupId>org.example</groupId><artifactId>a</artifactId><version>1</version></project>`,
	})
	client := NewClient(nil, DefaultCacheTTL, testLogger())
	coord := artifact.MustParse("org.example:a:1")

	repos := repository.New(
		repository.Repository{ID: "broken", URL: broken.URL},
		repository.Repository{ID: "good", URL: good.URL},
	)
	if _, err := client.Children(context.Background(), repos, coord); err != nil {
		t.Fatalf("Children: %v", err)
	}

	empty, _ := repoServer(t, map[string]string{})
	repos = repository.New(
		repository.Repository{ID: "broken", URL: broken.URL},
		repository.Repository{ID: "empty", URL: empty.URL},
	)
	_, err := NewClient(nil, DefaultCacheTTL, testLogger()).Children(context.Background(), repos, coord)
	if !errors.Is(err, integrations.ErrNetwork) {
		t.Fatalf("err = %v, want ErrNetwork", err)
	}
	if errors.Is(err, integrations.ErrNotFound) {
		t.Errorf("err = %v, should not be reported as not found", err)
	}
}

func TestClientNotFound(t *testing.T) {
	server, _ := repoServer(t, map[string]string{})
	repos := repository.New(repository.Repository{ID: "test", URL: server.URL})
	client := NewClient(nil, DefaultCacheTTL, testLogger())

	_, err := client.Children(context.Background(), repos, artifact.MustParse("org.example:missing:1"))
	if !errors.Is(err, integrations.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestClientCachesPOMs(t *testing.T) {
	server, hits := repoServer(t, map[string]string{
		"/com/example/parent/1.0/parent-1.0.pom": parentPOM,
		"/com/example/lib/1.0/lib-1.0.pom":       libPOM,
	})
	repos := repository.New(repository.Repository{ID: "test", URL: server.URL})
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	coord := artifact.MustParse("com.example:lib:1.0")

	if _, err := NewClient(fc, DefaultCacheTTL, testLogger()).Children(context.Background(), repos, coord); err != nil {
		t.Fatal(err)
	}
	if hits.Load() != 2 {
		t.Fatalf("hits = %d, want 2", hits.Load())
	}

	// A fresh client has an empty model memo but shares the persistent cache.
	if _, err := NewClient(fc, DefaultCacheTTL, testLogger()).Children(context.Background(), repos, coord); err != nil {
		t.Fatal(err)
	}
	if hits.Load() != 2 {
		t.Errorf("hits after cached run = %d, want 2", hits.Load())
	}
}

func TestClientImportedBOM(t *testing.T) {
	server, _ := repoServer(t, map[string]string{
		"/org/example/bom/5/bom-5.pom": `<project>
  <groupId>org.example</groupId><artifactId>bom</artifactId><version>5</version>
  <dependencyManagement><dependencies>
    <dependency><groupId>org.example</groupId><artifactId>x</artifactId><version>5.1</version></dependency>
  </dependencies></dependencyManagement>
</project>`,
		"/org/example/app/1/app-1.pom": `<project>
  <groupId>org.example</groupId><artifactId>app</artifactId><version>1</version>
  <dependencyManagement><dependencies>
    <dependency><groupId>org.example</groupId><artifactId>bom</artifactId><version>5</version><type>pom</type><scope>import</scope></dependency>
  </dependencies></dependencyManagement>
  <dependencies>
    <dependency><groupId>org.example</groupId><artifactId>x</artifactId></dependency>
  </dependencies>
</project>`,
	})
	repos := repository.New(repository.Repository{ID: "test", URL: server.URL})

	deps, err := NewClient(nil, DefaultCacheTTL, testLogger()).Children(context.Background(), repos, artifact.MustParse("org.example:app:1"))
	if err != nil {
		t.Fatal(err)
	}
	if len(deps) != 1 || deps[0].Coordinate.Version != "5.1" {
		t.Errorf("deps = %v, want org.example:x:5.1", deps)
	}
}

func TestClientFileRepository(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "org", "example", "local", "2", "local-2.pom")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	pom := `<project><groupId>org.example</groupId><artifactId>local</artifactId><version>2</version>
<dependencies><dependency><groupId>org.example</groupId><artifactId>dep</artifactId><version>1</version><scope>runtime</scope></dependency></dependencies></project>`
	if err := os.WriteFile(path, []byte(pom), 0o644); err != nil {
		t.Fatal(err)
	}
	repos := repository.New(repository.Repository{ID: "local", URL: "file://" + filepath.ToSlash(dir)})

	deps, err := NewClient(nil, DefaultCacheTTL, testLogger()).Children(context.Background(), repos, artifact.MustParse("org.example:local:2"))
	if err != nil {
		t.Fatal(err)
	}
	if len(deps) != 1 || deps[0].Scope != artifact.ScopeRuntime {
		t.Errorf("deps = %v", deps)
	}
}

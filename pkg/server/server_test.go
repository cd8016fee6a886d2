package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/depfetch/pkg/artifact"
	"github.com/matzehuels/depfetch/pkg/graph"
	"github.com/matzehuels/depfetch/pkg/integrations"
	"github.com/matzehuels/depfetch/pkg/report"
	"github.com/matzehuels/depfetch/pkg/repository"
	"github.com/matzehuels/depfetch/pkg/resolve"
)

func testServer(t *testing.T, sink report.Sink) *httptest.Server {
	t.Helper()
	src := graph.SourceFunc(func(_ context.Context, _ *repository.Aggregate, c artifact.Coordinate) ([]artifact.Dependency, error) {
		switch c.String() {
		case "com.example:lib:jar:1.0":
			return []artifact.Dependency{
				{Coordinate: artifact.MustParse("com.example:a:1.0"), Scope: artifact.ScopeCompile},
				{Coordinate: artifact.MustParse("com.example:b:1.0"), Scope: artifact.ScopeProvided},
			}, nil
		case "com.example:a:jar:1.0":
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %s", integrations.ErrNotFound, c)
	})
	tr := resolve.TransportFunc(func(_ context.Context, _ *repository.Aggregate, c artifact.Coordinate) (string, error) {
		if c.Classifier != "" {
			return "", integrations.ErrNotFound
		}
		return "/repo/" + c.Path(), nil
	})
	logger := log.NewWithOptions(os.Stderr, log.Options{Level: log.ErrorLevel})
	r := resolve.New(repository.NewDefault(), nil, src, tr, logger, resolve.Options{})

	server := httptest.NewServer(New(r, sink, logger))
	t.Cleanup(server.Close)
	return server
}

func get(t *testing.T, url string) (*http.Response, string) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	return resp, string(body)
}

func TestHealthz(t *testing.T) {
	server := testServer(t, nil)
	resp, body := get(t, server.URL+"/healthz")
	if resp.StatusCode != http.StatusOK || !strings.Contains(body, `"ok"`) {
		t.Errorf("status = %d, body = %s", resp.StatusCode, body)
	}
	if _, err := uuid.Parse(resp.Header.Get(RequestIDHeader)); err != nil {
		t.Errorf("request id %q is not a uuid", resp.Header.Get(RequestIDHeader))
	}
}

func TestRequestIDIsEchoed(t *testing.T) {
	server := testServer(t, nil)
	id := uuid.New().String()
	req, _ := http.NewRequest(http.MethodGet, server.URL+"/healthz", nil)
	req.Header.Set(RequestIDHeader, id)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.Header.Get(RequestIDHeader) != id {
		t.Errorf("request id = %q, want %q", resp.Header.Get(RequestIDHeader), id)
	}
}

func TestTree(t *testing.T) {
	server := testServer(t, nil)

	tests := []struct {
		name     string
		path     string
		status   int
		contains []string
		excludes []string
	}{
		{
			name:     "text",
			path:     "/tree/com.example:lib:1.0",
			status:   http.StatusOK,
			contains: []string{"com.example:lib:jar:1.0\n", `\---com.example:a:jar:1.0`},
			excludes: []string{"com.example:b"},
		},
		{
			name:     "json unicode",
			path:     "/tree/com.example:lib:1.0?format=json&style=unicode",
			status:   http.StatusOK,
			contains: []string{`"nodes":2`, "└───com.example:a:jar:1.0"},
		},
		{
			name:     "dot",
			path:     "/tree/com.example:lib:1.0?format=dot",
			status:   http.StatusOK,
			contains: []string{"digraph"},
		},
		{
			name:     "malformed",
			path:     "/tree/not-a-coordinate",
			status:   http.StatusBadRequest,
			contains: []string{"MALFORMED_COORDINATE"},
		},
		{
			name:     "unknown artifact",
			path:     "/tree/org.none:none:1",
			status:   http.StatusNotFound,
			contains: []string{"METADATA_NOT_FOUND"},
		},
		{
			name:   "bad style",
			path:   "/tree/com.example:lib:1.0?style=fancy",
			status: http.StatusBadRequest,
		},
		{
			name:   "bad format",
			path:   "/tree/com.example:lib:1.0?format=xml",
			status: http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := get(t, server.URL+tt.path)
			if resp.StatusCode != tt.status {
				t.Fatalf("status = %d, want %d; body = %s", resp.StatusCode, tt.status, body)
			}
			for _, s := range tt.contains {
				if !strings.Contains(body, s) {
					t.Errorf("body missing %q:\n%s", s, body)
				}
			}
			for _, s := range tt.excludes {
				if strings.Contains(body, s) {
					t.Errorf("body should not contain %q:\n%s", s, body)
				}
			}
		})
	}
}

type memorySink struct{ reports []*report.Report }

func (m *memorySink) Write(_ context.Context, r *report.Report) error {
	m.reports = append(m.reports, r)
	return nil
}
func (m *memorySink) Close(context.Context) error { return nil }

func TestResolve(t *testing.T) {
	sink := &memorySink{}
	server := testServer(t, sink)

	body, _ := json.Marshal(ResolveRequest{Coordinates: []string{"com.example:lib:1.0", "org.none:none:1"}, Sources: true})
	resp, err := http.Post(server.URL+"/resolve", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	var out ResolveResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	if out.RunID != resp.Header.Get(RequestIDHeader) {
		t.Errorf("run id = %q, header = %q", out.RunID, resp.Header.Get(RequestIDHeader))
	}
	if len(out.Reports) != 2 {
		t.Fatalf("got %d reports", len(out.Reports))
	}
	lib, missing := out.Reports[0], out.Reports[1]
	if !lib.OK || len(lib.Artifacts) != 2 || len(lib.Attachments) != 2 || lib.Attachments[0].Found {
		t.Errorf("lib report = %+v", lib)
	}
	if missing.OK || missing.ErrorCode != "METADATA_NOT_FOUND" {
		t.Errorf("missing report = %+v", missing)
	}
	if len(sink.reports) != 2 {
		t.Errorf("sink stored %d reports", len(sink.reports))
	}
}

func TestResolveBadRequests(t *testing.T) {
	server := testServer(t, nil)
	for _, body := range []string{"{", `{"coordinates": []}`} {
		resp, err := http.Post(server.URL+"/resolve", "application/json", strings.NewReader(body))
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("body %q: status = %d, want 400", body, resp.StatusCode)
		}
	}
}

func TestResolveMalformedCoordinateFailsOnlyItsRoot(t *testing.T) {
	sink := &memorySink{}
	server := testServer(t, sink)

	body, _ := json.Marshal(ResolveRequest{Coordinates: []string{"not-a-coordinate", "com.example:lib:1.0"}})
	resp, err := http.Post(server.URL+"/resolve", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var out ResolveResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	if len(out.Reports) != 2 {
		t.Fatalf("got %d reports, want 2", len(out.Reports))
	}
	bad, lib := out.Reports[0], out.Reports[1]
	if bad.OK || bad.ErrorCode != "MALFORMED_COORDINATE" || bad.Root != "not-a-coordinate" {
		t.Errorf("malformed report = %+v", bad)
	}
	if !lib.OK || lib.Root != "com.example:lib:jar:1.0" || len(lib.Artifacts) != 2 {
		t.Errorf("lib report = %+v", lib)
	}
	if len(sink.reports) != 2 {
		t.Errorf("sink stored %d reports, want 2", len(sink.reports))
	}
}

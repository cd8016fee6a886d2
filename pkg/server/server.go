// Package server exposes dependency trees and resolution over HTTP.
//
// Routes:
//
//	GET  /healthz               liveness check
//	GET  /tree/{coordinate}     collected tree as text, JSON or DOT
//	POST /resolve               fetch roots into the local repository
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"slices"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/matzehuels/depfetch/pkg/artifact"
	deperrors "github.com/matzehuels/depfetch/pkg/errors"
	"github.com/matzehuels/depfetch/pkg/render/dot"
	"github.com/matzehuels/depfetch/pkg/render/tree"
	"github.com/matzehuels/depfetch/pkg/report"
	"github.com/matzehuels/depfetch/pkg/resolve"
)

// RequestIDHeader carries the per-request identifier.
const RequestIDHeader = "X-Request-ID"

const shutdownTimeout = 10 * time.Second

// Server serves the HTTP API on top of a resolver.
type Server struct {
	resolver *resolve.Resolver
	sink     report.Sink
	logger   *log.Logger
	router   chi.Router
}

// New creates a server. sink may be nil to skip storing reports.
func New(resolver *resolve.Resolver, sink report.Sink, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{resolver: resolver, sink: sink, logger: logger}

	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)
	r.Get("/healthz", s.handleHealth)
	r.Get("/tree/{coordinate}", s.handleTree)
	r.Post("/resolve", s.handleResolve)
	s.router = r
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s, ReadHeaderTimeout: 10 * time.Second}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.logger.Info("listening", "addr", addr)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

type ctxKey struct{}

func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.New().String()
		}
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, id)))
	})
}

// RequestID returns the id assigned to the request carrying ctx.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", RequestID(r.Context()))
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type treeResponse struct {
	Root  string   `json:"root"`
	Lines []string `json:"lines"`
	Nodes int      `json:"nodes"`
}

func (s *Server) handleTree(w http.ResponseWriter, r *http.Request) {
	coord, err := artifact.Parse(chi.URLParam(r, "coordinate"))
	if err != nil {
		writeError(w, err)
		return
	}
	style, ok := tree.StyleByName(r.URL.Query().Get("style"))
	if !ok {
		writeError(w, deperrors.New(deperrors.ErrCodeInvalidInput, "unknown style %q", r.URL.Query().Get("style")))
		return
	}

	root, err := s.resolver.Collect(r.Context(), artifact.Root(coord))
	if err != nil {
		writeError(w, err)
		return
	}

	switch r.URL.Query().Get("format") {
	case "", "text":
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		tree.New(style).Fprint(w, root)
	case "json":
		writeJSON(w, http.StatusOK, treeResponse{
			Root:  coord.String(),
			Lines: slices.Collect(tree.New(style).Lines(root)),
			Nodes: root.Count(),
		})
	case "dot":
		w.Header().Set("Content-Type", "text/vnd.graphviz")
		w.Write([]byte(dot.ToDOT(root, dot.Options{Detailed: true})))
	default:
		writeError(w, deperrors.New(deperrors.ErrCodeInvalidInput, "unknown format %q", r.URL.Query().Get("format")))
	}
}

// ResolveRequest is the body of POST /resolve.
type ResolveRequest struct {
	Coordinates []string `json:"coordinates"`
	Javadoc     bool     `json:"javadoc"`
	Sources     bool     `json:"sources"`
}

// ResolveResponse is the reply of POST /resolve, one report per coordinate
// in request order.
type ResolveResponse struct {
	RunID   string           `json:"run_id"`
	Reports []*report.Report `json:"reports"`
}

func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request) {
	var req ResolveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, deperrors.Wrap(deperrors.ErrCodeInvalidInput, err, "invalid request body"))
		return
	}
	if len(req.Coordinates) == 0 {
		writeError(w, deperrors.New(deperrors.ErrCodeInvalidInput, "no coordinates given"))
		return
	}

	runID := RequestID(r.Context())
	resp := ResolveResponse{RunID: runID, Reports: make([]*report.Report, len(req.Coordinates))}

	// Malformed coordinates fail their own slot; the rest still run.
	var (
		roots []artifact.Dependency
		slots []int
	)
	for i, c := range req.Coordinates {
		coord, err := artifact.Parse(c)
		if err != nil {
			rep := report.FromOutcome(runID, resolve.Outcome{Err: err, StartedAt: time.Now()})
			rep.Root = c
			resp.Reports[i] = rep
			continue
		}
		roots = append(roots, artifact.Root(coord))
		slots = append(slots, i)
	}
	var kinds []string
	if req.Javadoc {
		kinds = append(kinds, resolve.Javadoc)
	}
	if req.Sources {
		kinds = append(kinds, resolve.Sources)
	}

	for j, o := range s.resolver.Run(r.Context(), roots, kinds) {
		resp.Reports[slots[j]] = report.FromOutcome(runID, o)
	}
	for _, rep := range resp.Reports {
		if s.sink == nil {
			break
		}
		if err := s.sink.Write(r.Context(), rep); err != nil {
			s.logger.Warn("failed to store report", "id", rep.ID, "err", err)
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

type errorResponse struct {
	Code  string `json:"code"`
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, err error) {
	code := deperrors.GetCode(err)
	writeJSON(w, code.HTTPStatus(), errorResponse{Code: string(code), Error: deperrors.UserMessage(err)})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

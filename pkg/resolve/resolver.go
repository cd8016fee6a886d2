package resolve

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/depfetch/pkg/artifact"
	"github.com/matzehuels/depfetch/pkg/errors"
	"github.com/matzehuels/depfetch/pkg/graph"
	"github.com/matzehuels/depfetch/pkg/observability"
	"github.com/matzehuels/depfetch/pkg/render/tree"
	"github.com/matzehuels/depfetch/pkg/repository"
	"github.com/matzehuels/depfetch/pkg/selector"
)

// DefaultConcurrency is the number of simultaneous downloads per root.
const DefaultConcurrency = 4

// Transport makes an artifact available locally and returns its path.
type Transport interface {
	Fetch(ctx context.Context, repos *repository.Aggregate, coord artifact.Coordinate) (string, error)
}

// TransportFunc adapts a function to [Transport].
type TransportFunc func(ctx context.Context, repos *repository.Aggregate, coord artifact.Coordinate) (string, error)

// Fetch implements [Transport].
func (f TransportFunc) Fetch(ctx context.Context, repos *repository.Aggregate, coord artifact.Coordinate) (string, error) {
	return f(ctx, repos, coord)
}

// Options configures a [Resolver].
type Options struct {
	Concurrency int           // simultaneous downloads (default: 4)
	Parallel    bool          // run batch roots concurrently
	Style       tree.Style    // tree style for logging (default: ASCII)
	Collect     graph.Options // passed to graph.Collect
}

// WithDefaults returns a copy of Options with zero values replaced by defaults.
func (o Options) WithDefaults() Options {
	opts := o
	if opts.Concurrency <= 0 {
		opts.Concurrency = DefaultConcurrency
	}
	if opts.Style == (tree.Style{}) {
		opts.Style = tree.ASCII
	}
	return opts
}

// Resolver collects, prints and fetches dependency trees.
//
// A Resolver holds no per-run state; one instance may serve many
// concurrent calls.
type Resolver struct {
	Repos     *repository.Aggregate
	Selector  selector.Selector
	Source    graph.Source
	Transport Transport
	Logger    *log.Logger
	Options   Options
}

// New creates a resolver. A nil selector uses [selector.Default]; a nil
// logger uses the default logger.
func New(repos *repository.Aggregate, sel selector.Selector, src graph.Source, tr Transport, logger *log.Logger, opts Options) *Resolver {
	if sel == nil {
		sel = selector.Default()
	}
	if logger == nil {
		logger = log.Default()
	}
	if repos == nil {
		repos = repository.NewDefault()
	}
	return &Resolver{
		Repos:     repos,
		Selector:  sel,
		Source:    src,
		Transport: tr,
		Logger:    logger,
		Options:   opts.WithDefaults(),
	}
}

// ResolvedArtifact is an artifact of the tree and where it was stored.
type ResolvedArtifact struct {
	Coordinate artifact.Coordinate `json:"coordinate" bson:"coordinate"`
	Path       string              `json:"path" bson:"path"`
}

// Result is the outcome of resolving a single root.
type Result struct {
	Root      *graph.Node
	Artifacts []ResolvedArtifact
}

// Collect builds the pruned dependency tree of root.
func (r *Resolver) Collect(ctx context.Context, root artifact.Dependency) (*graph.Node, error) {
	hooks := observability.Resolve()
	name := root.Coordinate.String()
	hooks.OnCollectStart(ctx, name)
	start := time.Now()

	opts := r.Options.Collect
	skip := opts.OnSkip
	opts.OnSkip = func(dep artifact.Dependency, parent artifact.Coordinate) {
		r.Logger.Debug("skipping dependency", "dependency", dep.String(), "parent", parent.String())
		if skip != nil {
			skip(dep, parent)
		}
	}

	node, err := graph.Collect(ctx, root, r.Repos, r.Selector, r.Source, opts)
	count := 0
	if node != nil {
		count = node.Count()
	}
	hooks.OnCollectComplete(ctx, name, count, time.Since(start), err)
	return node, err
}

// Resolve collects the tree of root and fetches every artifact in it.
func (r *Resolver) Resolve(ctx context.Context, root artifact.Dependency) (*Result, error) {
	node, err := r.Collect(ctx, root)
	if err != nil {
		return nil, err
	}
	return r.Fetch(ctx, node)
}

// Fetch downloads every artifact of a collected tree. Artifacts are listed
// in pre-order, one per tree node; a coordinate that occurs several times
// is downloaded once. Any failed download fails the whole root with
// TRANSPORT_FAILURE.
func (r *Resolver) Fetch(ctx context.Context, node *graph.Node) (*Result, error) {
	deps := node.Flatten()
	paths, err := r.fetchAll(ctx, unique(deps))
	if err != nil {
		return nil, err
	}
	artifacts := make([]ResolvedArtifact, len(deps))
	for i, d := range deps {
		artifacts[i] = ResolvedArtifact{Coordinate: d.Coordinate, Path: paths[d.Coordinate]}
	}
	return &Result{Root: node, Artifacts: artifacts}, nil
}

func (r *Resolver) fetchAll(ctx context.Context, coords []artifact.Coordinate) (map[artifact.Coordinate]string, error) {
	paths := make([]string, len(coords))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.Options.Concurrency)
	for i, c := range coords {
		g.Go(func() error {
			path, err := r.fetch(gctx, c)
			if err != nil {
				return errors.Wrap(errors.ErrCodeTransport, err, "cannot fetch %s", c)
			}
			paths[i] = path
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	out := make(map[artifact.Coordinate]string, len(coords))
	for i, c := range coords {
		out[c] = paths[i]
	}
	return out, nil
}

func (r *Resolver) fetch(ctx context.Context, c artifact.Coordinate) (string, error) {
	start := time.Now()
	path, err := r.Transport.Fetch(ctx, r.Repos, c)
	observability.Resolve().OnFetch(ctx, c.String(), time.Since(start), err)
	if err == nil {
		r.Logger.Debug("fetched", "artifact", c.String(), "path", path)
	}
	return path, err
}

// unique returns the coordinates of deps in order without repeats.
func unique(deps []artifact.Dependency) []artifact.Coordinate {
	coords := make([]artifact.Coordinate, len(deps))
	for i, d := range deps {
		coords[i] = d.Coordinate
	}
	return uniqueCoords(coords)
}

func uniqueCoords(coords []artifact.Coordinate) []artifact.Coordinate {
	seen := make(map[artifact.Coordinate]bool, len(coords))
	var out []artifact.Coordinate
	for _, c := range coords {
		if !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	return out
}

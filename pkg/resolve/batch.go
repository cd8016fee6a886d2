package resolve

import (
	"context"
	"slices"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/depfetch/pkg/artifact"
	"github.com/matzehuels/depfetch/pkg/graph"
	"github.com/matzehuels/depfetch/pkg/render/tree"
)

// Outcome is the result of one root in a batch. Exactly one of Result and
// Err is set. Tree and Lines are set whenever collection succeeded, even
// if a download failed afterwards.
type Outcome struct {
	Root        artifact.Dependency
	Tree        *graph.Node
	Result      *Result
	Lines       []string
	Attachments []AttachmentResult
	Err         error
	StartedAt   time.Time
	Duration    time.Duration
}

// OK reports whether the root resolved.
func (o Outcome) OK() bool { return o.Err == nil }

// MissingAttachments counts attachments that could not be fetched.
func (o Outcome) MissingAttachments() int {
	n := 0
	for _, a := range o.Attachments {
		if !a.Found() {
			n++
		}
	}
	return n
}

// Run resolves every root and, for each kind, its attachments. It returns
// one outcome per root in input order. A failing root is logged and
// recorded; it does not stop the batch.
func (r *Resolver) Run(ctx context.Context, roots []artifact.Dependency, kinds []string) []Outcome {
	out := make([]Outcome, len(roots))
	var mu sync.Mutex

	if !r.Options.Parallel {
		for i, root := range roots {
			out[i] = r.runOne(ctx, root, kinds, &mu)
		}
		return out
	}

	var g errgroup.Group
	for i, root := range roots {
		g.Go(func() error {
			out[i] = r.runOne(ctx, root, kinds, &mu)
			return nil
		})
	}
	g.Wait()
	return out
}

func (r *Resolver) runOne(ctx context.Context, root artifact.Dependency, kinds []string, logMu *sync.Mutex) Outcome {
	o := Outcome{Root: root, StartedAt: time.Now()}
	fail := func(err error) Outcome {
		r.Logger.Error("resolution failed", "root", root.Coordinate.String(), "err", err)
		o.Err = err
		o.Duration = time.Since(o.StartedAt)
		return o
	}

	node, err := r.Collect(ctx, root)
	if err != nil {
		return fail(err)
	}
	o.Tree = node
	o.Lines = slices.Collect(tree.New(r.Options.Style).Lines(node))

	logMu.Lock()
	for _, line := range o.Lines {
		r.Logger.Info(line)
	}
	logMu.Unlock()

	res, err := r.Fetch(ctx, node)
	if err != nil {
		return fail(err)
	}
	o.Result = res

	for _, kind := range kinds {
		o.Attachments = append(o.Attachments, r.ResolveAttachments(ctx, res.Artifacts, kind)...)
	}
	o.Duration = time.Since(o.StartedAt)
	return o
}

package graph

import (
	"context"
	stderrors "errors"

	"github.com/matzehuels/depfetch/pkg/artifact"
	"github.com/matzehuels/depfetch/pkg/errors"
	"github.com/matzehuels/depfetch/pkg/integrations"
	"github.com/matzehuels/depfetch/pkg/repository"
	"github.com/matzehuels/depfetch/pkg/selector"
)

// DefaultMaxDepth bounds recursion when a source reports a cycle.
const DefaultMaxDepth = 50

// Source describes the declared dependencies of a coordinate.
type Source interface {
	// Children returns the dependency edges declared by c, in declaration
	// order, consulting repos in order. A coordinate that cannot be found
	// in any repository must produce an error.
	Children(ctx context.Context, repos *repository.Aggregate, c artifact.Coordinate) ([]artifact.Dependency, error)
}

// SourceFunc adapts a function to a [Source].
type SourceFunc func(ctx context.Context, repos *repository.Aggregate, c artifact.Coordinate) ([]artifact.Dependency, error)

// Children implements [Source].
func (f SourceFunc) Children(ctx context.Context, repos *repository.Aggregate, c artifact.Coordinate) ([]artifact.Dependency, error) {
	return f(ctx, repos, c)
}

// Options configures [Collect].
type Options struct {
	MaxDepth int                                                       // maximum tree depth (default: 50)
	OnNode   func(dep artifact.Dependency, depth int)                  // called after a node is accepted (optional)
	OnSkip   func(dep artifact.Dependency, parent artifact.Coordinate) // called for rejected edges (optional)
}

// WithDefaults returns a copy of Options with zero values replaced by defaults.
func (o Options) WithDefaults() Options {
	opts := o
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = DefaultMaxDepth
	}
	if opts.OnNode == nil {
		opts.OnNode = func(artifact.Dependency, int) {}
	}
	if opts.OnSkip == nil {
		opts.OnSkip = func(artifact.Dependency, artifact.Coordinate) {}
	}
	return opts
}

// Collect builds the dependency tree below root. The root is always
// included. For every other edge sel decides, given the chain of ancestor
// edges, whether a node is created; src is asked for the children of every
// included node exactly once.
func Collect(ctx context.Context, root artifact.Dependency, repos *repository.Aggregate, sel selector.Selector, src Source, opts Options) (*Node, error) {
	if err := root.Coordinate.Validate(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeCollection, err, "cannot collect %s", root.Coordinate)
	}
	if sel == nil {
		sel = selector.All
	}
	c := &collector{
		ctx:   ctx,
		repos: repos,
		sel:   sel,
		src:   src,
		opts:  opts.WithDefaults(),
	}
	return c.collect(root, nil)
}

type collector struct {
	ctx   context.Context
	repos *repository.Aggregate
	sel   selector.Selector
	src   Source
	opts  Options
}

func (c *collector) collect(dep artifact.Dependency, ancestry []artifact.Dependency) (*Node, error) {
	if err := c.ctx.Err(); err != nil {
		return nil, err
	}
	depth := len(ancestry)
	if depth >= c.opts.MaxDepth {
		return nil, errors.New(errors.ErrCodeDepthExceeded,
			"dependency tree deeper than %d at %s", c.opts.MaxDepth, dep.Coordinate)
	}
	c.opts.OnNode(dep, depth)

	children, err := c.src.Children(c.ctx, c.repos, dep.Coordinate)
	if err != nil {
		switch {
		case errors.GetCode(err) == errors.ErrCodeMetadataNotFound || c.ctx.Err() != nil:
			return nil, err
		case stderrors.Is(err, integrations.ErrNetwork):
			return nil, errors.Wrap(errors.ErrCodeNetwork, err, "cannot describe %s", dep.Coordinate)
		}
		return nil, errors.Wrap(errors.ErrCodeMetadataNotFound, err, "cannot describe %s", dep.Coordinate)
	}

	node := &Node{Dependency: dep}
	// Full slice expression so sibling subtrees never share a backing array.
	path := append(ancestry[:len(ancestry):len(ancestry)], dep)
	for _, child := range children {
		if !c.sel.Select(child, path).Include {
			c.opts.OnSkip(child, dep.Coordinate)
			continue
		}
		sub, err := c.collect(child, path)
		if err != nil {
			return nil, err
		}
		node.Children = append(node.Children, sub)
	}
	return node, nil
}

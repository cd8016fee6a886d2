package resolve

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/depfetch/pkg/artifact"
	"github.com/matzehuels/depfetch/pkg/errors"
	"github.com/matzehuels/depfetch/pkg/observability"
)

// Attachment kinds published next to a primary artifact.
const (
	Javadoc = "javadoc"
	Sources = "sources"
)

// AttachmentResult records the fetch of one companion artifact.
// Err is non-nil (ATTACHMENT_NOT_FOUND) when it could not be fetched.
type AttachmentResult struct {
	Artifact artifact.Coordinate
	Kind     string
	Path     string
	Err      error
}

// Found reports whether the attachment was fetched.
func (a AttachmentResult) Found() bool { return a.Err == nil }

// ResolveAttachments fetches the kind companion of every resolved
// artifact. The result has one entry per input artifact, in input order;
// a coordinate listed several times is fetched once. Misses are logged as
// warnings and recorded; they never abort the remaining fetches.
func (r *Resolver) ResolveAttachments(ctx context.Context, artifacts []ResolvedArtifact, kind string) []AttachmentResult {
	coords := make([]artifact.Coordinate, len(artifacts))
	for i, a := range artifacts {
		coords[i] = a.Coordinate
	}
	distinct := uniqueCoords(coords)

	fetched := make([]AttachmentResult, len(distinct))
	var g errgroup.Group
	g.SetLimit(r.Options.Concurrency)
	for i, c := range distinct {
		g.Go(func() error {
			fetched[i] = r.attachment(ctx, c, kind)
			return nil
		})
	}
	g.Wait()

	byCoord := make(map[artifact.Coordinate]AttachmentResult, len(fetched))
	for _, res := range fetched {
		byCoord[res.Artifact] = res
	}
	out := make([]AttachmentResult, len(coords))
	for i, c := range coords {
		out[i] = byCoord[c]
	}
	return out
}

func (r *Resolver) attachment(ctx context.Context, a artifact.Coordinate, kind string) AttachmentResult {
	res := AttachmentResult{Artifact: a, Kind: kind}
	path, err := r.Transport.Fetch(ctx, r.Repos, a.WithClassifier(kind))
	observability.Resolve().OnAttachment(ctx, a.String(), kind, err)
	if err != nil {
		res.Err = errors.Wrap(errors.ErrCodeAttachmentNotFound, err, "no %s found for %s", kind, a)
		r.Logger.Warnf("no %s found for %s", kind, a)
		return res
	}
	res.Path = path
	return res
}

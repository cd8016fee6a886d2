package maven

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/matzehuels/depfetch/pkg/artifact"
	"github.com/matzehuels/depfetch/pkg/integrations"
	"github.com/matzehuels/depfetch/pkg/repository"
)

// DefaultLocalRepository is the directory artifacts are stored in when none is given.
const DefaultLocalRepository = "local-repo"

// Transport downloads artifact files into a local repository laid out like
// a Maven repository. Files already present are reused without a request.
type Transport struct {
	client *integrations.Client
	dir    string
}

// NewTransport returns a transport storing artifacts under dir.
func NewTransport(dir string) *Transport {
	if dir == "" {
		dir = DefaultLocalRepository
	}
	return &Transport{
		client: integrations.NewClient(nil, "", 0, nil),
		dir:    dir,
	}
}

// Dir returns the local repository root.
func (t *Transport) Dir() string { return t.dir }

// Path returns where coord is stored locally.
func (t *Transport) Path(coord artifact.Coordinate) string {
	return filepath.Join(t.dir, filepath.FromSlash(coord.Path()))
}

// Fetch makes coord available locally and returns its path. Repositories are
// tried in order; a repository without the file is skipped. If none has it
// the error wraps [integrations.ErrNotFound].
func (t *Transport) Fetch(ctx context.Context, repos *repository.Aggregate, coord artifact.Coordinate) (string, error) {
	dest := t.Path(coord)
	if info, err := os.Stat(dest); err == nil && info.Mode().IsRegular() {
		return dest, nil
	}

	var failed error
	for _, repo := range repos.All() {
		err := t.client.Download(ctx, repo.Resolve(coord.Path()), dest)
		switch {
		case err == nil:
			return dest, nil
		case ctx.Err() != nil:
			return "", ctx.Err()
		case !errors.Is(err, integrations.ErrNotFound) && failed == nil:
			failed = fmt.Errorf("download %s from %s: %w", coord, repo.ID, err)
		}
	}
	if failed != nil {
		return "", failed
	}
	return "", fmt.Errorf("%w: %s in %d repositories", integrations.ErrNotFound, coord, repos.Len())
}

package maven

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/matzehuels/depfetch/pkg/artifact"
	"github.com/matzehuels/depfetch/pkg/cache"
	"github.com/matzehuels/depfetch/pkg/integrations"
	"github.com/matzehuels/depfetch/pkg/repository"
)

const (
	// DefaultCacheTTL is how long raw POM documents stay in the shared cache.
	DefaultCacheTTL = 24 * time.Hour

	maxParentDepth = 16
	modelCacheSize = 1024
)

// Client reads dependency metadata from POM files hosted in Maven-layout
// repositories. It implements graph.Source.
//
// Repositories are consulted in the order of the aggregate; the first one
// that has the POM wins. Raw POM bytes are stored in the shared cache and
// parsed models are memoized in memory, so parents and BOMs shared by many
// artifacts are fetched once.
//
// All methods are safe for concurrent use.
type Client struct {
	*integrations.Client
	logger *log.Logger
	models *lru.Cache[string, *model]
}

// NewClient creates a metadata client. A nil cache disables persistent
// caching; a nil logger uses the default logger.
func NewClient(c cache.Cache, ttl time.Duration, logger *log.Logger) *Client {
	if logger == nil {
		logger = log.Default()
	}
	models, _ := lru.New[string, *model](modelCacheSize)
	return &Client{
		Client: integrations.NewClient(c, "pom:", ttl, nil),
		logger: logger,
		models: models,
	}
}

// Children returns the dependencies declared by coord's POM, with
// properties, parent inheritance and dependency management applied.
func (c *Client) Children(ctx context.Context, repos *repository.Aggregate, coord artifact.Coordinate) ([]artifact.Dependency, error) {
	m, err := c.model(ctx, repos, pomCoordinate(coord), 0)
	if err != nil {
		return nil, err
	}
	deps, skipped := m.dependencies()
	for _, s := range skipped {
		c.logger.Warn("skipping dependency with unresolved version", "artifact", coord.String(), "dependency", s)
	}
	return deps, nil
}

func (c *Client) model(ctx context.Context, repos *repository.Aggregate, coord artifact.Coordinate, depth int) (*model, error) {
	if depth > maxParentDepth {
		return nil, fmt.Errorf("pom hierarchy of %s deeper than %d levels", coord, maxParentDepth)
	}
	key := coord.String()
	if m, ok := c.models.Get(key); ok {
		return m, nil
	}

	data, err := c.fetchPOM(ctx, repos, coord)
	if err != nil {
		return nil, err
	}
	pom, err := parsePOM(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", coord, err)
	}

	var parent *model
	if pc, ok := pom.parentCoordinate(); ok {
		if parent, err = c.model(ctx, repos, pc, depth+1); err != nil {
			return nil, fmt.Errorf("parent of %s: %w", coord, err)
		}
	}

	m := newModel(pom, parent)
	for _, bom := range m.imports() {
		b, err := c.model(ctx, repos, bom, depth+1)
		if err != nil {
			return nil, fmt.Errorf("import of %s: %w", coord, err)
		}
		m.importManaged(b)
	}
	c.models.Add(key, m)
	return m, nil
}

func (c *Client) fetchPOM(ctx context.Context, repos *repository.Aggregate, coord artifact.Coordinate) ([]byte, error) {
	return c.Cached(ctx, coord.String(), false, func() ([]byte, error) {
		// A failing repository does not hide the ones after it; its error
		// is reported only when no repository served the POM.
		var failed error
		for _, repo := range repos.All() {
			data, err := c.GetBytes(ctx, repo.Resolve(coord.Path()))
			switch {
			case err == nil:
				return data, nil
			case ctx.Err() != nil:
				return nil, ctx.Err()
			case !errors.Is(err, integrations.ErrNotFound) && failed == nil:
				failed = fmt.Errorf("pom %s from %s: %w", coord, repo.ID, err)
			}
		}
		if failed != nil {
			return nil, failed
		}
		return nil, fmt.Errorf("%w: pom %s in %d repositories", integrations.ErrNotFound, coord, repos.Len())
	})
}

func pomCoordinate(c artifact.Coordinate) artifact.Coordinate {
	return artifact.New(c.Group, c.Name, "", "pom", c.Version)
}

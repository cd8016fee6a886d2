// Package cache stores raw bytes (POM files and repository metadata) between
// runs so repeated resolutions do not refetch unchanged documents.
//
// Three backends implement [Cache]:
//   - [FileCache]: one JSON envelope per key under a directory (CLI default)
//   - [RedisCache]: a shared Redis instance, for the HTTP server or CI fleets
//   - [NullCache]: caching disabled
//
// [Open] picks a backend from a single location string, and [Namespace]
// scopes keys so different kinds of documents never collide.
package cache

import (
	"context"
	"strings"
	"time"

	"github.com/matzehuels/depfetch/pkg/errors"
)

// Cache is a byte store with per-entry expiry. Implementations must be safe
// for concurrent use.
type Cache interface {
	// Get returns the cached bytes and whether the key was present and fresh.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A ttl of 0 means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Missing keys are not an error.
	Delete(ctx context.Context, key string) error
	// Close releases backend resources.
	Close() error
}

// Clearer is implemented by backends that can drop every entry they own.
type Clearer interface {
	Clear(ctx context.Context) (int, error)
}

// Open returns a cache for location:
//   - "" or "none": [NullCache]
//   - "redis://..." or "rediss://...": [RedisCache]
//   - anything else: a [FileCache] rooted at that directory
func Open(location string) (Cache, error) {
	switch {
	case location == "" || location == "none":
		return NewNullCache(), nil
	case strings.HasPrefix(location, "redis://"), strings.HasPrefix(location, "rediss://"):
		c, err := NewRedisCache(location)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "open redis cache")
		}
		return c, nil
	default:
		return NewFileCache(location)
	}
}

// Namespaced prefixes every key of an inner cache.
type Namespaced struct {
	inner  Cache
	prefix string
}

// Namespace returns a view of c whose keys are prefixed with prefix.
// Namespaces nest: Namespace(Namespace(c, "a:"), "b:") uses "a:b:".
func Namespace(c Cache, prefix string) Cache {
	if n, ok := c.(*Namespaced); ok {
		return &Namespaced{inner: n.inner, prefix: n.prefix + prefix}
	}
	return &Namespaced{inner: c, prefix: prefix}
}

// Get implements [Cache].
func (n *Namespaced) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return n.inner.Get(ctx, n.prefix+key)
}

// Set implements [Cache].
func (n *Namespaced) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return n.inner.Set(ctx, n.prefix+key, data, ttl)
}

// Delete implements [Cache].
func (n *Namespaced) Delete(ctx context.Context, key string) error {
	return n.inner.Delete(ctx, n.prefix+key)
}

// Clear implements [Clearer] when the inner cache does. The whole inner
// cache is cleared, not just this namespace.
func (n *Namespaced) Clear(ctx context.Context) (int, error) {
	c, ok := n.inner.(Clearer)
	if !ok {
		return 0, errors.New(errors.ErrCodeInvalidConfig, "cache backend %T cannot be cleared", n.inner)
	}
	return c.Clear(ctx)
}

// Close closes the inner cache.
func (n *Namespaced) Close() error {
	return n.inner.Close()
}

// NullCache is the disabled backend: every Get misses and writes are dropped.
type NullCache struct{}

// NewNullCache returns a [NullCache].
func NewNullCache() *NullCache { return &NullCache{} }

func (NullCache) Get(context.Context, string) ([]byte, bool, error)        { return nil, false, nil }
func (NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (NullCache) Delete(context.Context, string) error                     { return nil }
func (NullCache) Close() error                                             { return nil }

var (
	_ Cache = (*Namespaced)(nil)
	_ Cache = NullCache{}
)

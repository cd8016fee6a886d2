package integrations

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/matzehuels/depfetch/pkg/buildinfo"
	"github.com/matzehuels/depfetch/pkg/cache"
	"github.com/matzehuels/depfetch/pkg/httputil"
	"github.com/matzehuels/depfetch/pkg/observability"
)

var (
	// ErrNotFound means the repository answered but has no such document.
	ErrNotFound = errors.New("not found in repository")
	// ErrNetwork covers transport failures and unexpected statuses.
	ErrNetwork = errors.New("repository unreachable")
)

// RequestTimeout bounds a single repository request, body included.
const RequestTimeout = 30 * time.Second

// Client provides shared HTTP functionality for repository clients.
// It handles caching, retry logic, and common request headers, and reads
// file:// URLs straight from disk.
type Client struct {
	http    *http.Client
	cache   cache.Cache
	ttl     time.Duration
	headers map[string]string
}

// NewClient creates a Client whose cached documents live under namespace in c.
// Headers are applied to all requests made through this client.
// Pass nil for headers if no default headers are needed.
func NewClient(c cache.Cache, namespace string, ttl time.Duration, headers map[string]string) *Client {
	if c == nil {
		c = cache.NewNullCache()
	}
	return &Client{
		http:    &http.Client{Timeout: RequestTimeout},
		cache:   cache.Namespace(c, namespace),
		ttl:     ttl,
		headers: headers,
	}
}

// SetHTTPClient replaces the underlying HTTP client, e.g. for tests.
func (c *Client) SetHTTPClient(h *http.Client) {
	c.http = h
}

// Cached returns the bytes stored under key, or calls fetch and stores its
// result. If refresh is true, the cache is bypassed and fetch is always called.
// Transient fetch failures are retried.
func (c *Client) Cached(ctx context.Context, key string, refresh bool, fetch func() ([]byte, error)) ([]byte, error) {
	if !refresh {
		if data, ok, _ := c.cache.Get(ctx, key); ok {
			observability.Cache().OnCacheHit(ctx, "document")
			return data, nil
		}
		observability.Cache().OnCacheMiss(ctx, "document")
	}

	var data []byte
	err := httputil.RetryWithBackoff(ctx, func() error {
		var err error
		data, err = fetch()
		return err
	})
	if err != nil {
		return nil, err
	}
	if c.cache.Set(ctx, key, data, c.ttl) == nil {
		observability.Cache().OnCacheSet(ctx, "document", len(data))
	}
	return data, nil
}

// GetBytes fetches rawURL and returns the whole body.
func (c *Client) GetBytes(ctx context.Context, rawURL string) ([]byte, error) {
	body, err := c.open(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	defer body.Close()
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, &httputil.RetryableError{Err: fmt.Errorf("%w: %v", ErrNetwork, err)}
	}
	return data, nil
}

// Download streams rawURL to dest, creating parent directories. The file is
// written to a temporary name and renamed so a failed download never leaves
// a truncated artifact behind. Transient failures are retried.
func (c *Client) Download(ctx context.Context, rawURL, dest string) error {
	return httputil.RetryWithBackoff(ctx, func() error {
		return c.download(ctx, rawURL, dest)
	})
}

func (c *Client) download(ctx context.Context, rawURL, dest string) error {
	body, err := c.open(ctx, rawURL)
	if err != nil {
		return err
	}
	defer body.Close()

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(dest), ".part-*")
	if err != nil {
		return err
	}
	if _, err := io.Copy(tmp, body); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return &httputil.RetryableError{Err: fmt.Errorf("%w: %v", ErrNetwork, err)}
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), dest)
}

func (c *Client) open(ctx context.Context, rawURL string) (io.ReadCloser, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid url %q: %w", rawURL, err)
	}
	if u.Scheme == "file" {
		f, err := os.Open(filepath.FromSlash(u.Path))
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, rawURL)
		}
		return f, err
	}
	return c.doRequest(ctx, u)
}

func (c *Client) doRequest(ctx context.Context, u *url.URL) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", buildinfo.UserAgent())
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	hooks := observability.HTTP()
	hooks.OnRequest(ctx, req.Method, u.Host, u.Path)
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		hooks.OnError(ctx, req.Method, u.Host, u.Path, err)
		return nil, &httputil.RetryableError{Err: fmt.Errorf("%w: %v", ErrNetwork, err)}
	}
	hooks.OnResponse(ctx, req.Method, u.Host, u.Path, resp.StatusCode, time.Since(start))

	if err := checkStatus(resp.StatusCode, resp.Header); err != nil {
		resp.Body.Close()
		return nil, fmt.Errorf("%w: %s", err, u.Redacted())
	}
	return resp.Body, nil
}

func checkStatus(code int, h http.Header) error {
	switch {
	case code == http.StatusOK:
		return nil
	case code == http.StatusNotFound || code == http.StatusGone:
		return ErrNotFound
	case code == http.StatusTooManyRequests || code >= 500:
		return &httputil.RetryableError{
			Err:   fmt.Errorf("%w: status %d", ErrNetwork, code),
			After: httputil.RetryAfter(h, time.Now()),
		}
	default:
		return fmt.Errorf("%w: status %d", ErrNetwork, code)
	}
}

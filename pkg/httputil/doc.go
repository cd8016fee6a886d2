// Package httputil provides retry helpers for repository HTTP clients.
//
// A [Policy] re-runs an operation with exponential backoff, but only for
// errors the caller marked as transient by wrapping them in [RetryableError].
// A server-supplied Retry-After (see [RetryAfter]) stretches the next wait:
//
//	err := httputil.RetryWithBackoff(ctx, func() error {
//	    resp, err := client.Do(req)
//	    if err != nil {
//	        return &httputil.RetryableError{Err: err}
//	    }
//	    ...
//	})
//
// A 404 from a repository is not transient and is returned immediately, so a
// missing artifact costs one request per repository, not three.
package httputil

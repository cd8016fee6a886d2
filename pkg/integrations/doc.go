// Package integrations provides the shared HTTP plumbing used by repository
// clients.
//
// [Client] wraps an http.Client with:
//   - a namespaced [cache.Cache] for small documents such as POM files
//   - retries with exponential backoff for transient failures
//   - streaming downloads that never leave partial files behind
//   - file:// support, so a local directory can act as a repository
//
// Failures are classified with [ErrNotFound] and [ErrNetwork] so callers can
// tell "try the next repository" from "the network is broken".
//
// The maven subpackage builds the dependency metadata source and the
// artifact transport on top of this client.
package integrations

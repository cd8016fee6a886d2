// Package observability lets an application watch resolution, cache and
// HTTP traffic without the libraries depending on any logging or metrics
// stack. Hooks default to no-ops. An application installs its own set once:
//
//	restore := observability.Install(observability.Hooks{
//	    Resolve: myResolveHooks{},
//	    HTTP:    myHTTPHooks{},
//	})
//	defer restore()
//
// and libraries emit through the accessors:
//
//	observability.Resolve().OnCollectStart(ctx, root)
package observability

import (
	"context"
	"sync/atomic"
	"time"
)

// ResolveHooks observes dependency resolution.
type ResolveHooks interface {
	OnCollectStart(ctx context.Context, root string)
	OnCollectComplete(ctx context.Context, root string, nodes int, duration time.Duration, err error)
	OnFetch(ctx context.Context, coordinate string, duration time.Duration, err error)
	// OnAttachment reports a javadoc or sources lookup; err is set when the
	// companion artifact was unavailable.
	OnAttachment(ctx context.Context, coordinate, kind string, err error)
}

// CacheHooks observes the document cache. keyType names the kind of
// document, e.g. "document".
type CacheHooks interface {
	OnCacheHit(ctx context.Context, keyType string)
	OnCacheMiss(ctx context.Context, keyType string)
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// HTTPHooks observes repository requests.
type HTTPHooks interface {
	OnRequest(ctx context.Context, method, host, path string)
	OnResponse(ctx context.Context, method, host, path string, statusCode int, duration time.Duration)
	OnError(ctx context.Context, method, host, path string, err error)
}

// Hooks bundles one implementation per event family. Nil members keep the
// currently installed implementation.
type Hooks struct {
	Resolve ResolveHooks
	Cache   CacheHooks
	HTTP    HTTPHooks
}

// Noop is the default, silent set of hooks.
type Noop struct{}

func (Noop) OnCollectStart(context.Context, string)                                 {}
func (Noop) OnCollectComplete(context.Context, string, int, time.Duration, error)   {}
func (Noop) OnFetch(context.Context, string, time.Duration, error)                  {}
func (Noop) OnAttachment(context.Context, string, string, error)                    {}
func (Noop) OnCacheHit(context.Context, string)                                     {}
func (Noop) OnCacheMiss(context.Context, string)                                    {}
func (Noop) OnCacheSet(context.Context, string, int)                                {}
func (Noop) OnRequest(context.Context, string, string, string)                      {}
func (Noop) OnResponse(context.Context, string, string, string, int, time.Duration) {}
func (Noop) OnError(context.Context, string, string, string, error)                 {}

var noop = Hooks{Resolve: Noop{}, Cache: Noop{}, HTTP: Noop{}}

var installed atomic.Pointer[Hooks]

func init() { installed.Store(&noop) }

// Install replaces the current hooks and returns a function that puts the
// previous set back.
func Install(h Hooks) (restore func()) {
	prev := installed.Load()
	next := *prev
	if h.Resolve != nil {
		next.Resolve = h.Resolve
	}
	if h.Cache != nil {
		next.Cache = h.Cache
	}
	if h.HTTP != nil {
		next.HTTP = h.HTTP
	}
	installed.Store(&next)
	return func() { installed.Store(prev) }
}

// Reset restores the no-op hooks.
func Reset() { installed.Store(&noop) }

// Resolve returns the installed resolve hooks.
func Resolve() ResolveHooks { return installed.Load().Resolve }

// Cache returns the installed cache hooks.
func Cache() CacheHooks { return installed.Load().Cache }

// HTTP returns the installed HTTP hooks.
func HTTP() HTTPHooks { return installed.Load().HTTP }

package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger returns the CLI logger: timestamped, prefixed with the binary
// name, and filtered at level.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Prefix:          appName,
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// timed logs msg at info with the time elapsed since start, e.g.
//
//	defer timed(logger, "resolved roots", time.Now(), "count", 3)
func timed(l *log.Logger, msg string, start time.Time, keyvals ...any) {
	l.Info(msg, append(keyvals, "elapsed", time.Since(start).Round(time.Millisecond))...)
}

// debugHooks logs resolver, cache and HTTP events at debug level.
// It is installed when --verbose is set.
type debugHooks struct {
	logger *log.Logger
}

func (h debugHooks) OnCollectStart(_ context.Context, root string) {
	h.logger.Debug("collecting", "root", root)
}

func (h debugHooks) OnCollectComplete(_ context.Context, root string, nodes int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("collection failed", "root", root, "err", err)
		return
	}
	h.logger.Debug("collected", "root", root, "nodes", nodes, "duration", d.Round(time.Millisecond))
}

func (h debugHooks) OnFetch(_ context.Context, coord string, d time.Duration, err error) {
	h.logger.Debug("fetch", "artifact", coord, "duration", d.Round(time.Millisecond), "err", err)
}

func (h debugHooks) OnAttachment(_ context.Context, coord, kind string, err error) {
	h.logger.Debug("attachment", "artifact", coord, "kind", kind, "found", err == nil)
}

func (h debugHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h debugHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h debugHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h debugHooks) OnRequest(_ context.Context, method, host, path string) {
	h.logger.Debug("http request", "method", method, "host", host, "path", path)
}

func (h debugHooks) OnResponse(_ context.Context, method, host, path string, status int, d time.Duration) {
	h.logger.Debug("http response", "method", method, "host", host, "path", path, "status", status, "duration", d.Round(time.Millisecond))
}

func (h debugHooks) OnError(_ context.Context, method, host, path string, err error) {
	h.logger.Debug("http error", "method", method, "host", host, "path", path, "err", err)
}

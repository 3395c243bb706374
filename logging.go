package vg

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler discards every record; it is the default so the library stays
// silent until a host process opts in with SetLogger.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler         { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler              { return nopHandler{} }

var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(slog.New(nopHandler{}))
}

// SetLogger installs the logger used for non-fatal diagnostics: resource-cap
// exhaustion, concave-fill decomposition failures, and stencil clip overflow
// in non-debug builds. Safe to call concurrently with logging from any
// Context.
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(nopHandler{})
	}
	loggerPtr.Store(l)
}

func logger() *slog.Logger {
	return loggerPtr.Load()
}

// Package rlog is the renderer-wide logging singleton. It produces no
// output until SetLogger is called, so library code (parser, scene lowering,
// integrator) can log freely without forcing output on callers that don't
// configure anything.
package rlog

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler discards every record; Enabled returning false lets the slog
// call sites skip formatting entirely.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(newNopLogger())
}

// SetLogger installs l as the active logger. Pass nil to restore the
// silent default. Safe for concurrent use.
//
// Records emitted across this module, all at [slog.LevelInfo]: "rendering"
// when a render starts, "wrote image" when the PNG is written, and
// "directive ignored by the CPU backend" for Integrator and PixelFilter.
// No Debug or Warn records are emitted.
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)
}

// Logger returns the currently configured logger.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}

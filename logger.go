// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package ggscale

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/gogpu/gg"
	"github.com/gogpu/ggscale/surface"
)

// nopHandler is a slog.Handler that silently discards all log records.
// Enabled returns false so callers skip attribute formatting entirely.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

// loggerPtr stores the active logger. Accessed atomically so that
// SetLogger can race with the render loop without tearing.
var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(newNopLogger())
}

// SetLogger configures the logger for ggscale, its sub-packages and the
// underlying gg library. By default nothing is logged.
//
// Pass nil to restore the silent default.
//
// Log levels used by ggscale:
//   - [slog.LevelDebug]: scale step changes, throttled frame statistics
//   - [slog.LevelInfo]: controller lifecycle, surface registration
//   - [slog.LevelWarn]: pathological frame deltas that had to be clamped
//
// Example:
//
//	ggscale.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)

	// surface cannot import this package, so it keeps its own pointer.
	surface.SetLogger(l)
	gg.SetLogger(l)
}

// Logger returns the current logger used by ggscale.
// Safe for concurrent use.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}

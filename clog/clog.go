// Package clog is the ambient logging facade for colvex. It holds a single
// process-wide *zap.Logger, set once (typically by a host application) and
// read by every package below it; the zero value is a safe no-op logger so
// library code never needs a nil check.
package clog

import (
	"sync/atomic"

	"go.uber.org/zap"
)

var current atomic.Pointer[zap.Logger]

func init() {
	current.Store(zap.NewNop())
}

// SetLogger installs the process-wide logger. Intended to be called once,
// early, by the host application; colvex itself never constructs or
// configures a zap.Logger.
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	current.Store(l)
}

// L returns the current ambient logger.
func L() *zap.Logger {
	return current.Load()
}

// Named returns the ambient logger scoped under name, e.g. clog.Named("compress").
func Named(name string) *zap.Logger {
	return current.Load().Named(name)
}

package logging

import (
	"context"
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Mirror receives every entry the default logger writes. Used to ship
// logs to the telemetry backend without a second logging path in callers.
type Mirror interface {
	Emit(ctx context.Context, level zapcore.Level, msg string, fields []zap.Field)
}

var mirror atomic.Pointer[mirrorHolder]

type mirrorHolder struct {
	m Mirror
}

// SetMirror installs (or, with nil, removes) the global log mirror.
func SetMirror(m Mirror) {
	if m == nil {
		mirror.Store(nil)
		return
	}
	mirror.Store(&mirrorHolder{m: m})
}

func currentMirror() Mirror {
	holder := mirror.Load()
	if holder == nil {
		return nil
	}
	return holder.m
}

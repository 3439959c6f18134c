package log

import (
	"context"
	"log/slog"
	"runtime"
	"sync"
	"time"
)

// std is the process-wide logger.
var std = newState(defaultSettings())

type state struct {
	mu       sync.RWMutex
	settings settings
	logger   *slog.Logger
}

func newState(s settings) *state {
	return &state{settings: s, logger: slog.New(s.handler())}
}

func (st *state) current() *slog.Logger {
	st.mu.RLock()
	defer st.mu.RUnlock()

	return st.logger
}

func (st *state) snapshot() settings {
	st.mu.RLock()
	defer st.mu.RUnlock()

	return st.settings
}

func (st *state) reset(s settings) {
	st.mu.Lock()
	defer st.mu.Unlock()

	st.settings = s
	st.logger = slog.New(s.handler())
}

// Config applies opts to the process-wide logger. Settings not named by opts
// keep their current values. It is safe to call while other goroutines log.
func Config(opts ...Option) {
	std.mu.Lock()
	defer std.mu.Unlock()

	for _, opt := range opts {
		opt(&std.settings)
	}

	std.logger = slog.New(std.settings.handler())
}

// TraceContext logs per-entry detail.
func TraceContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	emit(ctx, LevelTrace, msg, attrs)
}

// DebugContext logs a message at [LevelDebug].
func DebugContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	emit(ctx, LevelDebug, msg, attrs)
}

// InfoContext logs a message at [LevelInfo].
func InfoContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	emit(ctx, LevelInfo, msg, attrs)
}

// WarnContext logs a message at [LevelWarn].
func WarnContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	emit(ctx, LevelWarn, msg, attrs)
}

// ErrorContext logs a message at [LevelError].
func ErrorContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	emit(ctx, LevelError, msg, attrs)
}

func emit(ctx context.Context, level Level, msg string, attrs []slog.Attr) {
	l := std.current()
	if !l.Enabled(ctx, slog.Level(level)) {
		return
	}

	// Skip runtime.Callers, emit, and the exported function.
	var pcs [1]uintptr
	runtime.Callers(3, pcs[:])

	r := slog.NewRecord(time.Now(), slog.Level(level), msg, pcs[0])
	r.AddAttrs(attrs...)

	_ = l.Handler().Handle(ctx, r)
}

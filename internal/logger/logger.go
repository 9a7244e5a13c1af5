// Package logger provides the service's environment-aware zerolog logger.
package logger

import (
	"context"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

type traceIDKey struct{}

// New builds the service logger.
//
// In the "development" environment, or when format is "console", it writes human-friendly
// colored output. Otherwise it writes structured JSON. An unknown level falls back to info.
func New(serviceName, version, env, hostname, level, format string) zerolog.Logger {
	return NewWithWriter(os.Stderr, serviceName, version, env, hostname, level, format)
}

// NewWithWriter is New with an explicit destination.
func NewWithWriter(w io.Writer, serviceName, version, env, hostname, level, format string) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339

	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}

	out := w
	if env == "development" || format == "console" {
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}

	return zerolog.New(out).
		Level(lvl).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("version", version).
		Str("env", env).
		Str("host", hostname).
		Logger()
}

// WithTraceID stores the request trace id on ctx.
func WithTraceID(ctx context.Context, traceID string) context.Context {
	if traceID == "" {
		return ctx
	}
	return context.WithValue(ctx, traceIDKey{}, traceID)
}

// TraceID returns the trace id stored on ctx, if any.
func TraceID(ctx context.Context) string {
	id, _ := ctx.Value(traceIDKey{}).(string)
	return id
}

// ContextLogger returns a copy of base enriched with the trace id carried by ctx.
func ContextLogger(ctx context.Context, base zerolog.Logger) *zerolog.Logger {
	l := base
	if id := TraceID(ctx); id != "" {
		l = base.With().Str("trace_id", id).Logger()
	}
	return &l
}

package gaugrid

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/hupe1980/gaugrid/order"
)

// Logger wraps slog.Logger with gaugrid-specific context.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	return &Logger{
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// WithShell adds the shell degree and ordering convention to the logger.
func (l *Logger) WithShell(L int, conv order.Convention) *Logger {
	return &Logger{
		Logger: l.Logger.With("l", L, "convention", string(conv)),
	}
}

// LogCompute logs one collocation call.
func (l *Logger) LogCompute(ctx context.Context, npoints, deriv int, spherical bool, duration time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "collocation failed",
			"points", npoints,
			"derivative_order", deriv,
			"error", err,
		)
		return
	}
	l.DebugContext(ctx, "collocation completed",
		"points", npoints,
		"derivative_order", deriv,
		"spherical", spherical,
		"duration", duration,
	)
}

package primego

import (
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with primego-specific context.
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
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
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
// Use this to disable logging entirely.
func NoopLogger() *Logger {
	return &Logger{
		Logger: slog.New(slog.DiscardHandler),
	}
}

// WithRange adds the sieved range to the logger.
func (l *Logger) WithRange(start, stop uint64) *Logger {
	return &Logger{
		Logger: l.Logger.With("start", start, "stop", stop),
	}
}

// WithSieveSize adds the sieve size field to the logger.
func (l *Logger) WithSieveSize(kib int) *Logger {
	return &Logger{
		Logger: l.Logger.With("sieve_size_kib", kib),
	}
}

// LogSieve logs a completed sieve run.
func (l *Logger) LogSieve(start, stop, segments uint64, err error) {
	if err != nil {
		l.Error("sieve failed",
			"start", start,
			"stop", stop,
			"error", err,
		)
	} else {
		l.Debug("sieve completed",
			"start", start,
			"stop", stop,
			"segments", segments,
		)
	}
}

package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
)

type contextKey struct{}

var loggerKey = contextKey{}

// Options controls how Initialize builds the default logger.
type Options struct {
	Debug   bool
	Verbose bool
	// Actions emits GitHub workflow commands for warnings and errors so they
	// show up as annotations on the run summary.
	Actions bool
	Output  io.Writer
}

func Initialize(opts Options) *slog.Logger {
	level := slog.LevelWarn

	if opts.Debug {
		level = slog.LevelDebug
	} else if opts.Verbose {
		level = slog.LevelInfo
	}

	out := opts.Output
	if out == nil {
		out = os.Stderr
	}

	handler := NewPrettyHandler(out, &slog.HandlerOptions{
		Level:     level,
		AddSource: opts.Debug,
	}, opts.Actions)

	l := slog.New(handler)
	slog.SetDefault(l)
	return l
}

func FromContext(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey).(*slog.Logger); ok {
		return l
	}
	return slog.Default()
}

func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

func With(ctx context.Context, args ...any) context.Context {
	l := FromContext(ctx).With(args...)
	return WithLogger(ctx, l)
}

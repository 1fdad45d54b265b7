package logging

import (
	"context"
	"log/slog"
	"os"
)

type ctxKey struct{}

// Init configures the process-wide logger. Development gets human-readable
// text output; everything else logs JSON for ingestion. Every record
// carries the service name and environment.
func Init(service, level, appEnv string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(level)}

	var handler slog.Handler
	switch appEnv {
	case "development", "test":
		handler = slog.NewTextHandler(os.Stdout, opts)
	default:
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	logger := slog.New(handler).With(
		slog.String("service", service),
		slog.String("env", appEnv),
	)
	slog.SetDefault(logger)
	return logger
}

// FromContext returns the request-scoped logger, which carries the
// request id once the logging middleware has run. Outside a request it
// falls back to the process logger.
func FromContext(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok {
		return l
	}
	return slog.Default()
}

func WithLogger(ctx context.Context, l *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

var levelNames = map[string]slog.Level{
	"debug":   slog.LevelDebug,
	"info":    slog.LevelInfo,
	"warn":    slog.LevelWarn,
	"warning": slog.LevelWarn,
	"error":   slog.LevelError,
}

func parseLevel(s string) slog.Level {
	if lvl, ok := levelNames[s]; ok {
		return lvl
	}
	return slog.LevelInfo
}

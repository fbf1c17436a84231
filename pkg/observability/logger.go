// Package observability provides the structured logger, metrics collection,
// and health checks shared by the TouchBase CLI and worker.
package observability

import (
	"context"
	"io"
	"log/slog"
	"os"
)

// LogFormat specifies the output format for logs.
type LogFormat string

const (
	LogFormatText LogFormat = "text"
	LogFormatJSON LogFormat = "json"
)

// LogLevel represents logging verbosity.
type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

// LogConfig configures the logger.
type LogConfig struct {
	Level  LogLevel
	Format LogFormat
	// Output is the writer for logs. Defaults to os.Stderr.
	Output io.Writer
	// AddSource adds source code location to entries.
	AddSource bool
	// ServiceName is included in all log entries.
	ServiceName string
}

// DefaultLogConfig returns text logging to stderr for development.
func DefaultLogConfig() LogConfig {
	return LogConfig{
		Level:       LogLevelInfo,
		Format:      LogFormatText,
		Output:      os.Stderr,
		ServiceName: "touchbase",
	}
}

// ProductionLogConfig returns JSON logging to stdout with source locations.
func ProductionLogConfig() LogConfig {
	return LogConfig{
		Level:       LogLevelInfo,
		Format:      LogFormatJSON,
		Output:      os.Stdout,
		AddSource:   true,
		ServiceName: "touchbase",
	}
}

// LoggerForApp builds the process logger from the configured environment and
// level: text in development (forced to debug), JSON in production.
func LoggerForApp(appEnv, level string) *slog.Logger {
	cfg := DefaultLogConfig()
	if appEnv == "production" {
		cfg = ProductionLogConfig()
	}
	if level != "" {
		cfg.Level = LogLevel(level)
	}
	if appEnv == "development" {
		cfg.Level = LogLevelDebug
	}
	return NewLogger(cfg)
}

// NewLogger creates a structured logger. Entries carry the service name and,
// when the context has them, the correlation and user IDs.
func NewLogger(cfg LogConfig) *slog.Logger {
	if cfg.Output == nil {
		cfg.Output = os.Stderr
	}

	opts := &slog.HandlerOptions{
		Level:     parseSlogLevel(cfg.Level),
		AddSource: cfg.AddSource,
	}

	var handler slog.Handler
	switch cfg.Format {
	case LogFormatJSON:
		handler = slog.NewJSONHandler(cfg.Output, opts)
	default:
		handler = slog.NewTextHandler(cfg.Output, opts)
	}

	var attrs []slog.Attr
	if cfg.ServiceName != "" {
		attrs = append(attrs, slog.String("service", cfg.ServiceName))
	}

	return slog.New(&contextHandler{handler: handler, attrs: attrs})
}

func parseSlogLevel(level LogLevel) slog.Level {
	switch level {
	case LogLevelDebug:
		return slog.LevelDebug
	case LogLevelWarn:
		return slog.LevelWarn
	case LogLevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// contextHandler adds the process attributes and the context's correlation
// and user IDs to every record.
type contextHandler struct {
	handler slog.Handler
	attrs   []slog.Attr
}

func (h *contextHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

func (h *contextHandler) Handle(ctx context.Context, r slog.Record) error {
	r.AddAttrs(h.attrs...)
	if id := CorrelationIDFromContext(ctx); id != "" {
		r.AddAttrs(slog.String(CorrelationIDKey, id))
	}
	if id := UserIDFromContext(ctx); id != "" {
		r.AddAttrs(slog.String(UserIDKey, id))
	}
	return h.handler.Handle(ctx, r)
}

func (h *contextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &contextHandler{handler: h.handler.WithAttrs(attrs), attrs: h.attrs}
}

func (h *contextHandler) WithGroup(name string) slog.Handler {
	return &contextHandler{handler: h.handler.WithGroup(name), attrs: h.attrs}
}

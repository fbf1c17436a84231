package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger(t *testing.T) {
	t.Run("creates text logger", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(LogConfig{
			Level:  LogLevelInfo,
			Format: LogFormatText,
			Output: &buf,
		})
		require.NotNil(t, logger)

		logger.Info("test message", "key", "value")

		assert.Contains(t, buf.String(), "test message")
		assert.Contains(t, buf.String(), "key=value")
	})

	t.Run("creates JSON logger", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(LogConfig{
			Level:  LogLevelInfo,
			Format: LogFormatJSON,
			Output: &buf,
		})

		logger.Info("test message", "key", "value")

		var entry map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		assert.Equal(t, "test message", entry["msg"])
		assert.Equal(t, "value", entry["key"])
	})

	t.Run("respects log level", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(LogConfig{
			Level:  LogLevelWarn,
			Format: LogFormatText,
			Output: &buf,
		})

		logger.Debug("debug message")
		logger.Info("info message")
		logger.Warn("warn message")
		logger.Error("error message")

		output := buf.String()
		assert.NotContains(t, output, "debug message")
		assert.NotContains(t, output, "info message")
		assert.Contains(t, output, "warn message")
		assert.Contains(t, output, "error message")
	})

	t.Run("adds service attribute", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(LogConfig{
			Level:       LogLevelInfo,
			Format:      LogFormatJSON,
			Output:      &buf,
			ServiceName: "touchbase-test",
		})

		logger.Info("test")

		var entry map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		assert.Equal(t, "touchbase-test", entry["service"])
	})

	t.Run("adds correlation and user IDs from context", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(LogConfig{
			Level:  LogLevelInfo,
			Format: LogFormatJSON,
			Output: &buf,
		})

		ctx := WithCorrelationID(context.Background(), "corr-123")
		ctx = WithUserID(ctx, "user-456")
		logger.InfoContext(ctx, "test message")

		var entry map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		assert.Equal(t, "corr-123", entry[CorrelationIDKey])
		assert.Equal(t, "user-456", entry[UserIDKey])
	})
}

func TestWithCorrelationID_GeneratesWhenEmpty(t *testing.T) {
	ctx := WithCorrelationID(context.Background(), "")
	assert.NotEmpty(t, CorrelationIDFromContext(ctx))

	assert.Empty(t, CorrelationIDFromContext(context.Background()))
}

func TestLoggerForApp(t *testing.T) {
	t.Run("development forces debug", func(t *testing.T) {
		logger := LoggerForApp("development", "error")
		assert.True(t, logger.Enabled(context.Background(), slog.LevelDebug))
	})

	t.Run("respects configured level", func(t *testing.T) {
		logger := LoggerForApp("test", "warn")
		assert.False(t, logger.Enabled(context.Background(), slog.LevelInfo))
		assert.True(t, logger.Enabled(context.Background(), slog.LevelWarn))
	})

	t.Run("production defaults to info", func(t *testing.T) {
		logger := LoggerForApp("production", "")
		assert.False(t, logger.Enabled(context.Background(), slog.LevelDebug))
		assert.True(t, logger.Enabled(context.Background(), slog.LevelInfo))
	})
}

func TestDefaultLogConfig(t *testing.T) {
	cfg := DefaultLogConfig()

	assert.Equal(t, LogLevelInfo, cfg.Level)
	assert.Equal(t, LogFormatText, cfg.Format)
	assert.Equal(t, "touchbase", cfg.ServiceName)
}

func TestProductionLogConfig(t *testing.T) {
	cfg := ProductionLogConfig()

	assert.Equal(t, LogFormatJSON, cfg.Format)
	assert.True(t, cfg.AddSource)
}

func TestParseSlogLevel(t *testing.T) {
	tests := []struct {
		input    LogLevel
		expected slog.Level
	}{
		{LogLevelDebug, slog.LevelDebug},
		{LogLevelInfo, slog.LevelInfo},
		{LogLevelWarn, slog.LevelWarn},
		{LogLevelError, slog.LevelError},
		{"unknown", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(string(tt.input), func(t *testing.T) {
			assert.Equal(t, tt.expected, parseSlogLevel(tt.input))
		})
	}
}

func TestContextHandler_WithAttrsKeepsContextLookup(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LogConfig{
		Level:  LogLevelInfo,
		Format: LogFormatJSON,
		Output: &buf,
	})

	child := logger.With("component", "scheduler")
	ctx := WithCorrelationID(context.Background(), "corr-789")
	child.InfoContext(ctx, "test")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "scheduler", entry["component"])
	assert.Equal(t, "corr-789", entry[CorrelationIDKey])
}

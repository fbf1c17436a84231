package observability

import (
	"log/slog"
	"time"
)

// Timer tracks the duration of one operation and records it as a log entry
// and metrics on stop.
type Timer struct {
	operation string
	start     time.Time
	logger    *slog.Logger
	metrics   Metrics
	tags      []Tag
}

// StartTimer creates a timer for the given operation.
func StartTimer(operation string) *Timer {
	return &Timer{operation: operation, start: time.Now()}
}

// WithLogger makes the timer log on stop.
func (t *Timer) WithLogger(logger *slog.Logger) *Timer {
	t.logger = logger
	return t
}

// WithMetrics makes the timer record operation metrics on stop.
func (t *Timer) WithMetrics(metrics Metrics) *Timer {
	t.metrics = metrics
	return t
}

// WithTags adds metric tags.
func (t *Timer) WithTags(tags ...Tag) *Timer {
	t.tags = append(t.tags, tags...)
	return t
}

// Stop records the operation duration.
func (t *Timer) Stop() time.Duration {
	return t.StopWithError(nil)
}

// StopWithError records the operation duration, counting the error when set.
func (t *Timer) StopWithError(err error) time.Duration {
	duration := time.Since(t.start)

	if t.logger != nil {
		if err != nil {
			t.logger.Error("operation failed",
				"operation", t.operation,
				"duration_ms", duration.Milliseconds(),
				"error", err.Error(),
			)
		} else {
			t.logger.Info("operation completed",
				"operation", t.operation,
				"duration_ms", duration.Milliseconds(),
			)
		}
	}

	if t.metrics != nil {
		tags := append(t.tags, T("operation", t.operation))
		t.metrics.Timing(MetricOperationDuration, duration, tags...)
		t.metrics.Counter(MetricOperationTotal, 1, tags...)
		if err != nil {
			t.metrics.Counter(MetricOperationErrors, 1, tags...)
		}
	}

	return duration
}

// Elapsed returns the elapsed time without stopping the timer.
func (t *Timer) Elapsed() time.Duration {
	return time.Since(t.start)
}

// TimeOperation times fn and records the outcome.
func TimeOperation(logger *slog.Logger, metrics Metrics, operation string, fn func() error) error {
	timer := StartTimer(operation).WithLogger(logger).WithMetrics(metrics)
	err := fn()
	timer.StopWithError(err)
	return err
}

package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/felixgeelhaar/touchbase/internal/scheduling/domain"
	"github.com/google/uuid"
)

// Pattern attempt type labels recorded by the snooze and completion flows.
const (
	PatternTypeCompleted    = "completed"
	PatternTypeSkip         = "skip"
	patternTypeSnoozePrefix = "snooze_"
)

// SchedulingHistory accumulates per-contact scheduling outcomes and answers
// pattern queries for the recurring scheduler. It implements PatternAnalyzer.
type SchedulingHistory struct {
	patterns domain.PatternRepository
	logger   *slog.Logger
	now      func() time.Time
}

// NewSchedulingHistory creates a pattern store service.
func NewSchedulingHistory(patterns domain.PatternRepository, logger *slog.Logger) *SchedulingHistory {
	if logger == nil {
		logger = slog.Default()
	}
	return &SchedulingHistory{
		patterns: patterns,
		logger:   logger,
		now:      func() time.Time { return time.Now() },
	}
}

// StoreReschedulingPattern appends an attempt to the contact's pattern record
// and persists the updated aggregates.
func (h *SchedulingHistory) StoreReschedulingPattern(ctx context.Context, contactID uuid.UUID, attemptType string, timestamp time.Time, success bool) error {
	record, err := h.patterns.Get(ctx, contactID)
	if err != nil {
		return fmt.Errorf("load pattern record: %w", err)
	}
	if record == nil {
		record = domain.NewPatternRecord(contactID)
	}

	record.Record(attemptType, timestamp, success)

	if err := h.patterns.Save(ctx, record); err != nil {
		return fmt.Errorf("save pattern record: %w", err)
	}

	h.logger.Debug("pattern attempt recorded",
		"contact_id", contactID,
		"type", attemptType,
		"success", success,
	)
	return nil
}

// AnalyzeContactPatterns summarizes the contact's trailing-window outcomes.
// Returns nil when no attempts fall inside the window.
func (h *SchedulingHistory) AnalyzeContactPatterns(ctx context.Context, contactID uuid.UUID, windowDays int) (*domain.PatternAnalysis, error) {
	record, err := h.patterns.Get(ctx, contactID)
	if err != nil {
		return nil, fmt.Errorf("load pattern record: %w", err)
	}
	if record == nil {
		return nil, nil
	}
	return record.Analyze(h.now(), windowDays), nil
}

// SuggestOptimalTime proposes the historically best hour strictly later than
// the base instant, rolling to the next day when no later hour has data.
func (h *SchedulingHistory) SuggestOptimalTime(ctx context.Context, contactID uuid.UUID, base time.Time) (time.Time, error) {
	analysis, err := h.AnalyzeContactPatterns(ctx, contactID, domain.PatternWindowDays)
	if err != nil {
		return time.Time{}, err
	}
	if analysis == nil {
		return base.Add(3 * time.Hour), nil
	}
	return analysis.SuggestOptimalHour(base), nil
}

// TrackSnooze records a snooze action as an unsuccessful attempt at the
// original instant, labeled with the snooze option taken.
func (h *SchedulingHistory) TrackSnooze(ctx context.Context, contactID uuid.UUID, fromTime, toTime time.Time, optionID string) error {
	return h.StoreReschedulingPattern(ctx, contactID, patternTypeSnoozePrefix+optionID, fromTime, false)
}

// TrackSkip records a skipped check-in.
func (h *SchedulingHistory) TrackSkip(ctx context.Context, contactID uuid.UUID, timestamp time.Time) error {
	return h.StoreReschedulingPattern(ctx, contactID, PatternTypeSkip, timestamp, false)
}

// TrackCompletion records a completed check-in as a successful attempt.
func (h *SchedulingHistory) TrackCompletion(ctx context.Context, contactID uuid.UUID, timestamp time.Time) error {
	return h.StoreReschedulingPattern(ctx, contactID, PatternTypeCompleted, timestamp, true)
}

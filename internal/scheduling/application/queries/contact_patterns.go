package queries

import (
	"context"
	"time"

	"github.com/felixgeelhaar/touchbase/internal/scheduling/application/services"
	"github.com/felixgeelhaar/touchbase/internal/scheduling/domain"
	"github.com/google/uuid"
)

// ContactPatternsQuery returns the trailing-window pattern analysis for a contact.
type ContactPatternsQuery struct {
	ContactID  uuid.UUID
	WindowDays int
}

// ContactPatternsResult is the read model for a contact's scheduling history.
type ContactPatternsResult struct {
	ContactID     uuid.UUID                         `json:"contact_id"`
	TotalAttempts int                               `json:"total_attempts"`
	Confidence    float64                           `json:"confidence"`
	Stale         bool                              `json:"stale"`
	LastAttempt   time.Time                         `json:"last_attempt"`
	ByHour        map[int]domain.BucketStats        `json:"by_hour"`
	ByDay         map[int]domain.BucketStats        `json:"by_day"`
	ByType        map[string]domain.BucketStats     `json:"by_type"`
}

// ContactPatternsHandler handles the ContactPatternsQuery.
type ContactPatternsHandler struct {
	history *services.SchedulingHistory
}

// NewContactPatternsHandler creates a new ContactPatternsHandler.
func NewContactPatternsHandler(history *services.SchedulingHistory) *ContactPatternsHandler {
	return &ContactPatternsHandler{history: history}
}

// Handle returns the analysis view, or nil when the contact has no attempts in
// the window.
func (h *ContactPatternsHandler) Handle(ctx context.Context, q ContactPatternsQuery) (*ContactPatternsResult, error) {
	windowDays := q.WindowDays
	if windowDays <= 0 {
		windowDays = domain.PatternWindowDays
	}

	analysis, err := h.history.AnalyzeContactPatterns(ctx, q.ContactID, windowDays)
	if err != nil {
		return nil, err
	}
	if analysis == nil {
		return nil, nil
	}

	return &ContactPatternsResult{
		ContactID:     analysis.ContactID,
		TotalAttempts: analysis.TotalAttempts,
		Confidence:    analysis.Confidence,
		Stale:         analysis.IsStale(time.Now()),
		LastAttempt:   analysis.LastAttempt,
		ByHour:        analysis.ByHour,
		ByDay:         analysis.ByDay,
		ByType:        analysis.ByType,
	}, nil
}

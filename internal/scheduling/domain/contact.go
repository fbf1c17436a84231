package domain

import (
	"time"

	"github.com/google/uuid"
)

// Priority influences how far scheduling may drift from a contact's preferred days.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityNormal Priority = "normal"
	PriorityLow    Priority = "low"
)

// FlexibilityDays returns how many days scheduling may drift for the priority.
func (p Priority) FlexibilityDays() int {
	switch p {
	case PriorityHigh:
		return 1
	case PriorityLow:
		return 5
	default:
		return 3
	}
}

// Score returns the fixed slot-scoring weight for the priority.
func (p Priority) Score() float64 {
	switch p {
	case PriorityHigh:
		return 1.0
	case PriorityLow:
		return 0.3
	default:
		return 0.5
	}
}

// SchedulingStatus tracks where a contact sits in the check-in lifecycle.
type SchedulingStatus string

const (
	StatusPending   SchedulingStatus = "pending"
	StatusScheduled SchedulingStatus = "scheduled"
	StatusSnoozed   SchedulingStatus = "snoozed"
	StatusSkipped   SchedulingStatus = "skipped"
	StatusCompleted SchedulingStatus = "completed"
)

// ContactProfile is the scheduling-relevant state of a contact.
type ContactProfile struct {
	ID                uuid.UUID
	UserID            uuid.UUID
	Name              string
	RelationshipType  string
	CustomSchedule    bool
	CustomPreferences *RelationshipPreferences
	Priority          Priority
	Frequency         Frequency
	CustomNextDate    *time.Time
	SnoozeCount       int
	LastSnoozeType    string
	Status            SchedulingStatus
}

// EffectivePriority returns the contact's priority, defaulting to normal.
func (c *ContactProfile) EffectivePriority() Priority {
	switch c.Priority {
	case PriorityHigh, PriorityNormal, PriorityLow:
		return c.Priority
	default:
		return PriorityNormal
	}
}

// SchedulingPatch is a partial update to a contact's scheduling state,
// applied by the contact persistence collaborator.
type SchedulingPatch struct {
	CustomNextDate      *time.Time
	ClearCustomNextDate bool
	LastSnoozeType      *string
	SnoozeCountDelta    int
	Status              *SchedulingStatus
}

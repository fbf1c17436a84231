package domain

import "errors"

var (
	ErrInvalidFrequency    = errors.New("invalid check-in frequency")
	ErrInvalidDate         = errors.New("invalid custom date")
	ErrNoSlotAvailable     = errors.New("no available time slot")
	ErrMaxAttemptsExceeded = errors.New("conflict resolution attempts exceeded")
	ErrInvalidSnoozeOption = errors.New("invalid snooze option")
	ErrReminderNotFound    = errors.New("reminder not found")
	ErrContactNotFound     = errors.New("contact not found")
)

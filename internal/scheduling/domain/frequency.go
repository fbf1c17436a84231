package domain

import "strings"

// Frequency represents how often a contact should be checked in on.
type Frequency string

const (
	FrequencyDaily     Frequency = "daily"
	FrequencyWeekly    Frequency = "weekly"
	FrequencyBiweekly  Frequency = "biweekly"
	FrequencyMonthly   Frequency = "monthly"
	FrequencyQuarterly Frequency = "quarterly"
	FrequencyYearly    Frequency = "yearly"
)

var frequencyOffsets = map[Frequency]int{
	FrequencyDaily:     1,
	FrequencyWeekly:    7,
	FrequencyBiweekly:  14,
	FrequencyMonthly:   30,
	FrequencyQuarterly: 90,
	FrequencyYearly:    365,
}

// ParseFrequency parses a frequency string case-insensitively.
func ParseFrequency(s string) (Frequency, error) {
	f := Frequency(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := frequencyOffsets[f]; !ok {
		return "", ErrInvalidFrequency
	}
	return f, nil
}

// IsValid checks if the frequency is one of the supported values.
func (f Frequency) IsValid() bool {
	_, ok := frequencyOffsets[f]
	return ok
}

// OffsetDays returns the number of days between check-ins for the frequency.
func (f Frequency) OffsetDays() (int, error) {
	days, ok := frequencyOffsets[f]
	if !ok {
		return 0, ErrInvalidFrequency
	}
	return days, nil
}

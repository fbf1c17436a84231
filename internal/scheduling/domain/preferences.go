package domain

// Defaults applied when a user has no stored scheduling preferences.
const (
	DefaultMinimumGapMinutes = 20
	DefaultOptimalGapMinutes = 1440
)

// DefaultActiveHours is the 09:00-17:00 fallback window.
func DefaultActiveHours() DayWindow {
	return DayWindow{Start: NewTimeOfDay(9, 0), End: NewTimeOfDay(17, 0)}
}

// RelationshipPreferences captures the calling policy for one relationship type
// (or a contact's custom override).
type RelationshipPreferences struct {
	ActiveHours   DayWindow        `json:"active_hours"`
	PreferredDays WeekdaySet       `json:"preferred_days,omitempty"`
	ExcludedTimes []ExcludedWindow `json:"excluded_times,omitempty"`
}

// SchedulingPreferences holds a user's check-in scheduling policy.
type SchedulingPreferences struct {
	MinimumGapMinutes   int                                `json:"minimum_gap_minutes"`
	OptimalGapMinutes   int                                `json:"optimal_gap_minutes"`
	GlobalExcludedTimes []ExcludedWindow                   `json:"global_excluded_times,omitempty"`
	RelationshipTypes   map[string]RelationshipPreferences `json:"relationship_types,omitempty"`
}

// DefaultSchedulingPreferences returns the policy used when a user has stored none.
func DefaultSchedulingPreferences() SchedulingPreferences {
	return SchedulingPreferences{
		MinimumGapMinutes: DefaultMinimumGapMinutes,
		OptimalGapMinutes: DefaultOptimalGapMinutes,
		RelationshipTypes: map[string]RelationshipPreferences{},
	}
}

// MinimumGap returns the configured minimum gap, falling back to the default.
func (p SchedulingPreferences) MinimumGap() int {
	if p.MinimumGapMinutes > 0 {
		return p.MinimumGapMinutes
	}
	return DefaultMinimumGapMinutes
}

// OptimalGap returns the configured optimal gap, falling back to the default.
func (p SchedulingPreferences) OptimalGap() int {
	if p.OptimalGapMinutes > 0 {
		return p.OptimalGapMinutes
	}
	return DefaultOptimalGapMinutes
}

// EffectivePreferences is the resolved policy for a specific contact.
type EffectivePreferences struct {
	ActiveHours   DayWindow
	PreferredDays WeekdaySet
	ExcludedTimes []ExcludedWindow
}

// ResolvePreferences resolves the active calling policy for a contact.
// Precedence: contact custom schedule, then the relationship-type entry,
// then the global default (09:00-17:00 on weekdays). Never fails.
func ResolvePreferences(contact *ContactProfile, prefs SchedulingPreferences) EffectivePreferences {
	if contact != nil && contact.CustomSchedule && contact.CustomPreferences != nil {
		custom := contact.CustomPreferences
		excluded := custom.ExcludedTimes
		if excluded == nil {
			excluded = []ExcludedWindow{}
		}
		return EffectivePreferences{
			ActiveHours:   custom.ActiveHours,
			PreferredDays: custom.PreferredDays,
			ExcludedTimes: excluded,
		}
	}

	if contact != nil && contact.RelationshipType != "" {
		if rel, ok := prefs.RelationshipTypes[contact.RelationshipType]; ok {
			excluded := rel.ExcludedTimes
			if excluded == nil {
				excluded = []ExcludedWindow{}
			}
			return EffectivePreferences{
				ActiveHours:   rel.ActiveHours,
				PreferredDays: rel.PreferredDays,
				ExcludedTimes: excluded,
			}
		}
	}

	return EffectivePreferences{
		ActiveHours:   DefaultActiveHours(),
		PreferredDays: Weekdays(),
		ExcludedTimes: []ExcludedWindow{},
	}
}

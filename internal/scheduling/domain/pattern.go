package domain

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// Pattern analysis tuning.
const (
	PatternWindowDays       = 90
	MaxPatternAgeDays       = 30
	MinPatternConfidence    = 0.5
	patternTargetPerMonth   = 10.0
	patternTargetVolume     = 20.0
	patternTargetWindowDays = 90.0
)

// PatternAttempt is one recorded scheduling outcome for a contact.
type PatternAttempt struct {
	Timestamp time.Time `json:"timestamp"`
	Type      string    `json:"type"`
	HourOfDay int       `json:"hour_of_day"`
	Weekday   int       `json:"weekday"`
	Success   bool      `json:"success"`
}

// BucketStats counts attempts and successes within one aggregation bucket.
type BucketStats struct {
	Attempts  int `json:"attempts"`
	Successes int `json:"successes"`
}

// SuccessRate returns successes/attempts, or 0 for an empty bucket.
func (b BucketStats) SuccessRate() float64 {
	if b.Attempts == 0 {
		return 0
	}
	return float64(b.Successes) / float64(b.Attempts)
}

// PatternRecord accumulates per-contact scheduling outcomes and their
// hour/day/type aggregates. The aggregates are always derived from the
// attempt log; they never drift independently.
type PatternRecord struct {
	ContactID uuid.UUID              `json:"contact_id"`
	Attempts  []PatternAttempt       `json:"attempts"`
	ByHour    map[int]BucketStats    `json:"by_hour"`
	ByDay     map[int]BucketStats    `json:"by_day"`
	ByType    map[string]BucketStats `json:"by_type"`
}

// NewPatternRecord creates an empty record for a contact.
func NewPatternRecord(contactID uuid.UUID) *PatternRecord {
	return &PatternRecord{
		ContactID: contactID,
		Attempts:  []PatternAttempt{},
		ByHour:    map[int]BucketStats{},
		ByDay:     map[int]BucketStats{},
		ByType:    map[string]BucketStats{},
	}
}

// Record appends an attempt and updates the three aggregate tables.
func (p *PatternRecord) Record(attemptType string, timestamp time.Time, success bool) {
	attempt := PatternAttempt{
		Timestamp: timestamp,
		Type:      attemptType,
		HourOfDay: timestamp.Hour(),
		Weekday:   int(timestamp.Weekday()),
		Success:   success,
	}
	p.Attempts = append(p.Attempts, attempt)

	bump := func(stats BucketStats) BucketStats {
		stats.Attempts++
		if success {
			stats.Successes++
		}
		return stats
	}
	if p.ByHour == nil {
		p.ByHour = map[int]BucketStats{}
	}
	if p.ByDay == nil {
		p.ByDay = map[int]BucketStats{}
	}
	if p.ByType == nil {
		p.ByType = map[string]BucketStats{}
	}
	p.ByHour[attempt.HourOfDay] = bump(p.ByHour[attempt.HourOfDay])
	p.ByDay[attempt.Weekday] = bump(p.ByDay[attempt.Weekday])
	p.ByType[attempt.Type] = bump(p.ByType[attempt.Type])
}

// PatternAnalysis summarizes a contact's trailing-window scheduling outcomes.
type PatternAnalysis struct {
	ContactID     uuid.UUID
	TotalAttempts int
	ByHour        map[int]BucketStats
	ByDay         map[int]BucketStats
	ByType        map[string]BucketStats
	Confidence    float64
	LastAttempt   time.Time
}

// Analyze filters the record to the trailing window ending at now and computes
// per-bucket success rates plus an overall confidence score. Returns nil when no
// attempts remain in the window.
func (p *PatternRecord) Analyze(now time.Time, windowDays int) *PatternAnalysis {
	if windowDays <= 0 {
		windowDays = PatternWindowDays
	}
	cutoff := now.AddDate(0, 0, -windowDays)

	analysis := &PatternAnalysis{
		ContactID: p.ContactID,
		ByHour:    map[int]BucketStats{},
		ByDay:     map[int]BucketStats{},
		ByType:    map[string]BucketStats{},
	}

	bump := func(stats BucketStats, success bool) BucketStats {
		stats.Attempts++
		if success {
			stats.Successes++
		}
		return stats
	}

	for _, a := range p.Attempts {
		if a.Timestamp.Before(cutoff) {
			continue
		}
		analysis.TotalAttempts++
		analysis.ByHour[a.HourOfDay] = bump(analysis.ByHour[a.HourOfDay], a.Success)
		analysis.ByDay[a.Weekday] = bump(analysis.ByDay[a.Weekday], a.Success)
		analysis.ByType[a.Type] = bump(analysis.ByType[a.Type], a.Success)
		if a.Timestamp.After(analysis.LastAttempt) {
			analysis.LastAttempt = a.Timestamp
		}
	}

	if analysis.TotalAttempts == 0 {
		return nil
	}

	analysis.Confidence = CalculateConfidenceScore(analysis.TotalAttempts, windowDays)
	return analysis
}

// IsStale reports whether the latest attempt in the analysis is older than
// MaxPatternAgeDays relative to now.
func (a *PatternAnalysis) IsStale(now time.Time) bool {
	return a.LastAttempt.Before(now.AddDate(0, 0, -MaxPatternAgeDays))
}

// CalculateConfidenceScore blends monthly attempt frequency (40%), absolute
// attempt volume (40%), and window breadth (20%), each capped at 1.0. The
// result is rounded to two decimals; zero attempts always score zero.
func CalculateConfidenceScore(attempts, windowDays int) float64 {
	if attempts <= 0 {
		return 0
	}
	if windowDays <= 0 {
		windowDays = PatternWindowDays
	}

	months := float64(windowDays) / 30.0
	frequency := math.Min(float64(attempts)/months/patternTargetPerMonth, 1.0)
	volume := math.Min(float64(attempts)/patternTargetVolume, 1.0)
	breadth := math.Min(float64(windowDays)/patternTargetWindowDays, 1.0)

	score := frequency*0.4 + volume*0.4 + breadth*0.2
	return math.Round(score*100) / 100
}

// SuggestOptimalHour picks the hour strictly later than base's hour with the
// highest historical success rate. When no later hour has stats, the best hour
// overall is used and the suggestion rolls to the next day. With no hourly
// stats at all, the suggestion is base plus three hours.
func (a *PatternAnalysis) SuggestOptimalHour(base time.Time) time.Time {
	if len(a.ByHour) == 0 {
		return base.Add(3 * time.Hour)
	}

	bestLater, bestLaterRate := -1, -1.0
	bestAny, bestAnyRate := -1, -1.0
	for hour, stats := range a.ByHour {
		rate := stats.SuccessRate()
		if rate > bestAnyRate || (rate == bestAnyRate && hour < bestAny) {
			bestAny, bestAnyRate = hour, rate
		}
		if hour > base.Hour() && (rate > bestLaterRate || (rate == bestLaterRate && hour < bestLater)) {
			bestLater, bestLaterRate = hour, rate
		}
	}

	if bestLater >= 0 {
		return time.Date(base.Year(), base.Month(), base.Day(), bestLater, base.Minute(), 0, 0, base.Location())
	}

	next := base.AddDate(0, 0, 1)
	return time.Date(next.Year(), next.Month(), next.Day(), bestAny, base.Minute(), 0, 0, base.Location())
}

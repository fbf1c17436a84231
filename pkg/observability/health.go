package observability

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"
)

// Status of one dependency check or of the whole process.
type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusDegraded  Status = "degraded"
	StatusUnhealthy Status = "unhealthy"
)

// CheckFunc probes one dependency. A nil error means healthy.
type CheckFunc func(ctx context.Context) error

// CheckResult is the outcome of a single check.
type CheckResult struct {
	Status   Status        `json:"status"`
	Error    string        `json:"error,omitempty"`
	Duration time.Duration `json:"duration_ns"`
}

// Report aggregates all check outcomes.
type Report struct {
	Status    Status                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Checks    map[string]CheckResult `json:"checks"`
}

type registeredCheck struct {
	check    CheckFunc
	critical bool
}

// HealthRegistry runs named dependency checks. A failing critical check makes
// the process unhealthy; a failing non-critical one only degrades it.
type HealthRegistry struct {
	mu     sync.RWMutex
	checks map[string]registeredCheck
}

// NewHealthRegistry creates an empty registry.
func NewHealthRegistry() *HealthRegistry {
	return &HealthRegistry{checks: map[string]registeredCheck{}}
}

// Register adds a named check.
func (r *HealthRegistry) Register(name string, critical bool, check CheckFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.checks[name] = registeredCheck{check: check, critical: critical}
}

// Run executes every registered check and aggregates the result.
func (r *HealthRegistry) Run(ctx context.Context) Report {
	return r.run(ctx, false)
}

func (r *HealthRegistry) run(ctx context.Context, criticalOnly bool) Report {
	r.mu.RLock()
	checks := make(map[string]registeredCheck, len(r.checks))
	for name, c := range r.checks {
		checks[name] = c
	}
	r.mu.RUnlock()

	report := Report{
		Status:    StatusHealthy,
		Timestamp: time.Now(),
		Checks:    make(map[string]CheckResult, len(checks)),
	}

	for name, c := range checks {
		if criticalOnly && !c.critical {
			continue
		}
		start := time.Now()
		err := c.check(ctx)
		result := CheckResult{Status: StatusHealthy, Duration: time.Since(start)}
		if err != nil {
			result.Error = err.Error()
			if c.critical {
				result.Status = StatusUnhealthy
				report.Status = StatusUnhealthy
			} else {
				result.Status = StatusDegraded
				if report.Status == StatusHealthy {
					report.Status = StatusDegraded
				}
			}
		}
		report.Checks[name] = result
	}

	return report
}

// Handler serves the full report as JSON; 503 when any critical check fails.
func (r *HealthRegistry) Handler(timeout time.Duration) http.HandlerFunc {
	return r.handler(timeout, false)
}

// ReadyHandler serves only the critical checks, for readiness probes.
func (r *HealthRegistry) ReadyHandler(timeout time.Duration) http.HandlerFunc {
	return r.handler(timeout, true)
}

func (r *HealthRegistry) handler(timeout time.Duration, criticalOnly bool) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		ctx, cancel := context.WithTimeout(req.Context(), timeout)
		defer cancel()

		report := r.run(ctx, criticalOnly)

		w.Header().Set("Content-Type", "application/json")
		if report.Status == StatusUnhealthy {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		_ = json.NewEncoder(w).Encode(report)
	}
}

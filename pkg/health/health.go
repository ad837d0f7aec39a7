// Package health reports process health for the search engine. Checks run
// in-process and sequentially; the engine has no remote dependencies, so a
// check is a cheap local probe. The aggregate report is served next to the
// metrics endpoint.
package health

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"
)

// Status is the health state of a check or the process overall.
type Status string

const (
	StatusUp       Status = "up"
	StatusDegraded Status = "degraded"
	StatusDown     Status = "down"
)

// worse reports whether a outranks b in severity.
func (a Status) worse(b Status) bool {
	rank := map[Status]int{StatusUp: 0, StatusDegraded: 1, StatusDown: 2}
	return rank[a] > rank[b]
}

// Check probes one aspect of the process and returns its status with an
// optional human-readable note.
type Check func(ctx context.Context) (Status, string)

// CheckResult is the outcome of a single check run.
type CheckResult struct {
	Status  Status        `json:"status"`
	Message string        `json:"message,omitempty"`
	Latency time.Duration `json:"latency_ns"`
}

// Report aggregates every check plus process uptime. The overall status is
// the worst individual status.
type Report struct {
	Status    Status                 `json:"status"`
	Uptime    string                 `json:"uptime"`
	Checks    map[string]CheckResult `json:"checks"`
	Timestamp time.Time              `json:"timestamp"`
}

// Checker runs registered checks on demand.
type Checker struct {
	mu      sync.RWMutex
	names   []string
	checks  map[string]Check
	started time.Time
}

func NewChecker() *Checker {
	return &Checker{
		checks:  make(map[string]Check),
		started: time.Now(),
	}
}

// Register adds a named check. Re-registering a name replaces the check but
// keeps its position.
func (c *Checker) Register(name string, check Check) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.checks[name]; !exists {
		c.names = append(c.names, name)
	}
	c.checks[name] = check
}

// Run executes every check in registration order and aggregates the results.
func (c *Checker) Run(ctx context.Context) Report {
	c.mu.RLock()
	names := append([]string(nil), c.names...)
	checks := make(map[string]Check, len(c.checks))
	for name, check := range c.checks {
		checks[name] = check
	}
	started := c.started
	c.mu.RUnlock()

	report := Report{
		Status:    StatusUp,
		Uptime:    time.Since(started).Round(time.Second).String(),
		Checks:    make(map[string]CheckResult, len(names)),
		Timestamp: time.Now().UTC(),
	}
	for _, name := range names {
		begin := time.Now()
		status, message := checks[name](ctx)
		report.Checks[name] = CheckResult{
			Status:  status,
			Message: message,
			Latency: time.Since(begin),
		}
		if status.worse(report.Status) {
			report.Status = status
		}
	}
	return report
}

// LiveHandler answers liveness probes: the process is up if it can respond.
func (c *Checker) LiveHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "alive"})
	}
}

// ReadyHandler answers readiness probes with the full report; anything other
// than StatusUp maps to 503.
func (c *Checker) ReadyHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()
		report := c.Run(ctx)
		w.Header().Set("Content-Type", "application/json")
		if report.Status != StatusUp {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		json.NewEncoder(w).Encode(report)
	}
}

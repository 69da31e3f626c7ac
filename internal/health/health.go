package health

import (
	"context"
	"sync"
	"time"
)

type Status string

const (
	StatusHealthy  Status = "healthy"
	StatusDegraded Status = "degraded"
)

// Check probes one component dependency
type Check interface {
	Name() string
	Check(ctx context.Context) Result
}

// Result is the outcome of a single component probe
type Result struct {
	Name     string        `json:"name"`
	Status   Status        `json:"status"`
	Message  string        `json:"message,omitempty"`
	Duration time.Duration `json:"duration,omitempty"`
}

// Checker aggregates component probes into one overall status. Every
// dependency of the assistant has a fallback, so an unavailable component
// degrades service rather than taking it down; there is no unhealthy state.
type Checker struct {
	mu     sync.RWMutex
	checks []Check
}

// NewChecker creates an empty health checker
func NewChecker() *Checker {
	return &Checker{}
}

// Register adds a component probe
func (c *Checker) Register(check Check) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.checks = append(c.checks, check)
}

// Run probes all registered components concurrently
func (c *Checker) Run(ctx context.Context) map[string]Result {
	c.mu.RLock()
	checks := make([]Check, len(c.checks))
	copy(checks, c.checks)
	c.mu.RUnlock()

	results := make(map[string]Result, len(checks))
	var wg sync.WaitGroup
	var mu sync.Mutex
	for _, check := range checks {
		wg.Add(1)
		go func(check Check) {
			defer wg.Done()
			start := time.Now()
			result := check.Check(ctx)
			result.Duration = time.Since(start)
			mu.Lock()
			results[check.Name()] = result
			mu.Unlock()
		}(check)
	}
	wg.Wait()
	return results
}

// Overall reduces component results to a single status
func (c *Checker) Overall(results map[string]Result) Status {
	for _, result := range results {
		if result.Status == StatusDegraded {
			return StatusDegraded
		}
	}
	return StatusHealthy
}

// AvailabilityCheck probes a component through its availability predicate
type AvailabilityCheck struct {
	name      string
	available func(ctx context.Context) bool
}

// NewAvailabilityCheck wraps an availability predicate as a Check
func NewAvailabilityCheck(name string, available func(ctx context.Context) bool) *AvailabilityCheck {
	return &AvailabilityCheck{name: name, available: available}
}

func (a *AvailabilityCheck) Name() string { return a.name }

func (a *AvailabilityCheck) Check(ctx context.Context) Result {
	result := Result{Name: a.name, Status: StatusHealthy}
	if !a.available(ctx) {
		result.Status = StatusDegraded
		result.Message = "component unavailable, serving from fallback"
	}
	return result
}

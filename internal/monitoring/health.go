package monitoring

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"
)

type ProbeStatus string

const (
	StatusUp       ProbeStatus = "up"
	StatusDown     ProbeStatus = "down"
	StatusDegraded ProbeStatus = "degraded"
)

// ProbeResult is one check's outcome. Component is filled in from the check name.
type ProbeResult struct {
	Component string        `json:"component"`
	Status    ProbeStatus   `json:"status"`
	Details   string        `json:"details,omitempty"`
	Duration  time.Duration `json:"duration"`
}

// HealthReport carries the worst status across the evaluated checks.
type HealthReport struct {
	Success bool          `json:"success"`
	Status  ProbeStatus   `json:"status"`
	Checks  []ProbeResult `json:"checks"`
}

type Check struct {
	Name string
	Run  func(ctx context.Context) ProbeResult
}

// NewCheck wraps fn as a named check. A nil fn always reports down.
func NewCheck(name string, fn func(ctx context.Context) ProbeResult) Check {
	if fn == nil {
		fn = func(context.Context) ProbeResult {
			return ProbeResult{Status: StatusDown, Details: "probe not implemented"}
		}
	}
	return Check{Name: name, Run: fn}
}

// probeSet is a check list that accepts registration while evaluations run.
type probeSet struct {
	mu     sync.RWMutex
	checks []Check
}

func (p *probeSet) add(check Check) {
	if check.Name == "" {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.checks = append(p.checks, check)
}

func (p *probeSet) snapshot() []Check {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return slices.Clone(p.checks)
}

// HealthManager holds the liveness and readiness probes. Checks of one evaluation run
// concurrently; results keep registration order.
type HealthManager struct {
	liveness  probeSet
	readiness probeSet
}

func NewHealthManager() *HealthManager {
	return &HealthManager{}
}

// RegisterLiveness adds a liveness probe. Unnamed checks are ignored.
func (m *HealthManager) RegisterLiveness(check Check) { m.liveness.add(check) }

// RegisterReadiness adds a readiness probe. Unnamed checks are ignored.
func (m *HealthManager) RegisterReadiness(check Check) { m.readiness.add(check) }

func (m *HealthManager) EvaluateLiveness(ctx context.Context) HealthReport {
	return evaluate(ctx, m.liveness.snapshot())
}

func (m *HealthManager) EvaluateReadiness(ctx context.Context) HealthReport {
	return evaluate(ctx, m.readiness.snapshot())
}

func evaluate(ctx context.Context, checks []Check) HealthReport {
	if ctx == nil {
		ctx = context.Background()
	}

	results := make([]ProbeResult, len(checks))
	var wg sync.WaitGroup
	for i, check := range checks {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = runCheck(ctx, check)
		}()
	}
	wg.Wait()

	status := StatusUp
	for _, result := range results {
		status = Worst(status, result.Status)
	}
	return HealthReport{Success: status == StatusUp, Status: status, Checks: results}
}

// runCheck never lets a probe panic escape; an empty status counts as down.
func runCheck(ctx context.Context, check Check) (result ProbeResult) {
	started := time.Now()
	defer func() {
		if rec := recover(); rec != nil {
			result = ProbeResult{Status: StatusDown, Details: fmt.Sprint(rec)}
		}
		if result.Status == "" {
			result.Status = StatusDown
		}
		if result.Duration == 0 {
			result.Duration = time.Since(started)
		}
		result.Component = check.Name
	}()
	return check.Run(ctx)
}

// Worst returns the more severe of two statuses.
func Worst(a, b ProbeStatus) ProbeStatus {
	switch {
	case a == StatusDown || b == StatusDown:
		return StatusDown
	case a == StatusDegraded || b == StatusDegraded:
		return StatusDegraded
	default:
		return StatusUp
	}
}

// ResultFromError maps err to a result: nil is up, a timeout or cancellation is degraded,
// anything else is down.
func ResultFromError(component string, err error, duration time.Duration) ProbeResult {
	result := ProbeResult{Component: component, Status: StatusUp, Duration: max(duration, 0)}
	switch {
	case err == nil:
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		result.Status, result.Details = StatusDegraded, err.Error()
	default:
		result.Status, result.Details = StatusDown, err.Error()
	}
	return result
}

package checks

import (
	"context"
	"fmt"

	"github.com/deskward/deskward/internal/monitoring"
)

// Backlogged is implemented by queues that can report how full they are.
type Backlogged interface {
	Backlog() (queued, capacity int)
}

// AuditQueue reports degraded once the audit queue is at least threshold full (0..1).
// A full queue drops events, so it reports down.
func AuditQueue(queue Backlogged, threshold float64) monitoring.Check {
	if threshold <= 0 || threshold > 1 {
		threshold = 0.8
	}

	return monitoring.NewCheck("audit_queue", func(ctx context.Context) monitoring.ProbeResult {
		if queue == nil {
			return monitoring.ProbeResult{Status: monitoring.StatusUp, Details: "audit queue not configured"}
		}

		queued, capacity := queue.Backlog()
		details := fmt.Sprintf("%d/%d queued", queued, capacity)
		switch {
		case capacity > 0 && queued >= capacity:
			return monitoring.ProbeResult{Status: monitoring.StatusDown, Details: details}
		case capacity > 0 && float64(queued) >= threshold*float64(capacity):
			return monitoring.ProbeResult{Status: monitoring.StatusDegraded, Details: details}
		default:
			return monitoring.ProbeResult{Status: monitoring.StatusUp, Details: details}
		}
	})
}

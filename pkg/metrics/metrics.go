package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// AuthAttempts records login attempts by result (success|failure).
	AuthAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "deskward_auth_attempts_total",
			Help: "Total number of authentication attempts",
		},
		[]string{"result"},
	)

	// PermissionChecks counts fine-grained permission evaluations (allowed|denied|error).
	PermissionChecks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "deskward_permission_checks_total",
			Help: "Total number of permission checks",
		},
		[]string{"permission", "result"},
	)

	// GuardDecisions counts authorization pipeline outcomes per guard.
	GuardDecisions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "deskward_guard_decisions_total",
			Help: "Authorization guard decisions by guard and outcome",
		},
		[]string{"guard", "outcome"},
	)

	// TenantOverwrites counts client-supplied tenant ids that disagreed with the principal.
	TenantOverwrites = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "deskward_tenant_overwrites_total",
			Help: "Client supplied organization ids replaced by the caller's organization",
		},
		[]string{"target"},
	)

	// AuditDropped counts audit events discarded because the sink buffer was full.
	AuditDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "deskward_audit_events_dropped_total",
			Help: "Audit events dropped by the asynchronous recorder",
		},
	)

	// RequestsInFlight tracks requests currently being served.
	RequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "deskward_http_requests_in_flight",
			Help: "HTTP requests currently being served",
		},
	)

	// APILatency measures HTTP request latencies by route template.
	APILatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "deskward_api_latency_seconds",
			Help:    "API endpoint latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)

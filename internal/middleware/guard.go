package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/deskward/deskward/internal/tenancy"
	"github.com/deskward/deskward/pkg/metrics"
	"github.com/deskward/deskward/pkg/response"
)

// Guard builds the authorization middleware chain. It translates tenancy decisions into HTTP
// responses and forwards audit events to the sink.
type Guard struct {
	opts tenancy.Options
	sink tenancy.AuditSink
}

// NewGuard returns a Guard. A nil sink discards audit events.
func NewGuard(opts tenancy.Options, sink tenancy.AuditSink) *Guard {
	if sink == nil {
		sink = tenancy.NopSink{}
	}
	if opts.TenantField == "" {
		opts.TenantField = tenancy.DefaultTenantField
	}
	if opts.Messages.NotFound == "" {
		opts.Messages = tenancy.MessagesFor(tenancy.DefaultLocale)
	}
	return &Guard{opts: opts, sink: sink}
}

// Options exposes the guard configuration.
func (g *Guard) Options() tenancy.Options { return g.opts }

func (g *Guard) record(event tenancy.Event) {
	g.sink.Record(event)
}

// abort writes the terminal response for a denied decision.
func (g *Guard) abort(c *gin.Context, guard string, d tenancy.Decision) {
	metrics.GuardDecisions.WithLabelValues(guard, d.Outcome.String()).Inc()

	msgs := g.opts.Messages
	body := response.Denial{Error: msgs.ForDecision(d)}

	status := http.StatusInternalServerError
	switch d.Outcome {
	case tenancy.Unauthenticated:
		status = http.StatusUnauthorized
	case tenancy.Forbidden:
		status = http.StatusForbidden
		body.Message = msgs.ForbiddenDetail
		body.UserRole = d.UserRole
		body.RequiredRoles = d.RequiredRoles
	case tenancy.NotFound:
		status = http.StatusNotFound
	case tenancy.ValidationError:
		status = http.StatusBadRequest
	}

	response.Deny(c, status, body)
}

func allowed(guard string) {
	metrics.GuardDecisions.WithLabelValues(guard, tenancy.Allow.String()).Inc()
}

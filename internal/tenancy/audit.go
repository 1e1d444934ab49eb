package tenancy

import "time"

// Audit event actions.
const (
	ActionRoleDenied       = "gate.role_denied"
	ActionPermissionDenied = "gate.permission_denied"
	ActionCrossTenant      = "scope.cross_tenant"
	ActionTenantOverwrite  = "filter.tenant_overwrite"
	ActionTenantRejected   = "filter.tenant_rejected"
	ActionRelatedRejected  = "related.rejected"
)

// Event results.
const (
	ResultDenied  = "denied"
	ResultWarning = "warning"
)

// Event is a structured denial or warning handed to an AuditSink.
type Event struct {
	Action         string
	Result         string
	UserID         string
	Email          string
	OrganizationID string
	Role           string
	Path           string
	Resource       string
	ResourceID     string
	Field          string
	Supplied       string
	RequiredRoles  []string
	Permission     string
	OccurredAt     time.Time
}

// NewEvent prefills the principal identity of an event.
func NewEvent(action, result string, principal *Principal, path string) Event {
	event := Event{
		Action:     action,
		Result:     result,
		Path:       path,
		OccurredAt: time.Now().UTC(),
	}
	if principal != nil {
		event.UserID = principal.UserID
		event.Email = principal.Email
		event.OrganizationID = principal.OrganizationID
		event.Role = principal.Role
	}
	return event
}

// AuditSink accepts audit events. Record must not block the caller and must not fail the
// request; sinks that can fail drop the event and log instead.
type AuditSink interface {
	Record(Event)
}

// AuditSinkFunc adapts a function to AuditSink.
type AuditSinkFunc func(Event)

func (f AuditSinkFunc) Record(e Event) { f(e) }

// NopSink discards every event.
type NopSink struct{}

func (NopSink) Record(Event) {}

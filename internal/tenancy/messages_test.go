package tenancy

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMessagesForLocale(t *testing.T) {
	require.Equal(t, "Resource not found", MessagesFor("en").NotFound)
	require.Equal(t, "Recurso não encontrado", MessagesFor("pt-BR").NotFound)
	require.Equal(t, "Recurso não encontrado", MessagesFor("pt_br").NotFound)
	require.Equal(t, "Resource not found", MessagesFor("fr").NotFound)
	require.Equal(t, "Resource not found", MessagesFor("").NotFound)
}

func TestMessagesForDecision(t *testing.T) {
	msgs := MessagesFor("pt-BR")

	require.Equal(t, msgs.Forbidden, msgs.ForDecision(Decision{Outcome: Forbidden}))
	require.Equal(t, "assigneeId não pertence a esta organização",
		msgs.ForDecision(Decision{Outcome: ValidationError, Field: "assigneeId", Reason: ReasonForeignTenant}))
	require.Equal(t, msgs.InvalidPayload, msgs.ForDecision(Decision{Outcome: ValidationError, Reason: ReasonMalformed}))
	require.Empty(t, msgs.ForDecision(Decision{Outcome: Allow}))
}

func TestNewOptionsDefaults(t *testing.T) {
	opts := NewOptions("", "", nil, false)
	require.Equal(t, DefaultTenantField, opts.TenantField)
	require.Equal(t, DefaultRelatedUserFields, opts.RelatedUserFields)
	require.Equal(t, "Resource not found", opts.Messages.NotFound)

	opts = NewOptions("orgId", "pt-BR", []string{" ownerId ", ""}, true)
	require.Equal(t, "orgId", opts.TenantField)
	require.Equal(t, []string{"ownerId"}, opts.RelatedUserFields)
	require.True(t, opts.StrictTenantInput)
}

func TestPrincipalContext(t *testing.T) {
	_, ok := PrincipalFromContext(context.Background())
	require.False(t, ok)

	ctx := WithPrincipal(context.Background(), Principal{UserID: "u1", OrganizationID: "org-1", Role: "agent"})
	principal, ok := PrincipalFromContext(ctx)
	require.True(t, ok)
	require.Equal(t, "org-1", principal.OrganizationID)
	require.True(t, principal.HasRole("org-admin", "agent"))
	require.True(t, principal.Valid())
}

func TestNewEventCopiesPrincipal(t *testing.T) {
	principal := &Principal{UserID: "u1", OrganizationID: "org-1", Role: "agent", Email: "a@example.com"}
	event := NewEvent(ActionCrossTenant, ResultDenied, principal, "/api/tickets/t-1")

	require.Equal(t, "a@example.com", event.Email)
	require.Equal(t, "org-1", event.OrganizationID)
	require.Equal(t, "agent", event.Role)
	require.False(t, event.OccurredAt.IsZero())

	var captured []Event
	sink := AuditSinkFunc(func(e Event) { captured = append(captured, e) })
	sink.Record(event)
	NopSink{}.Record(event)
	require.Len(t, captured, 1)
}

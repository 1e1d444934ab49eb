package tenancy

import "strings"

// DefaultTenantField is the query parameter and body field carrying the organization id.
const DefaultTenantField = "organizationId"

// DefaultRelatedUserFields are the body fields that reference users.
var DefaultRelatedUserFields = []string{"assigneeId", "requesterId"}

// Options configures the guards. It is built once at start-up and shared read-only.
type Options struct {
	TenantField       string
	RelatedUserFields []string
	// StrictTenantInput rejects client-supplied tenant ids that disagree with the principal
	// instead of overwriting them.
	StrictTenantInput bool
	Messages          Messages
}

// NewOptions returns Options with defaults applied for empty values.
func NewOptions(tenantField, locale string, relatedFields []string, strict bool) Options {
	opts := Options{
		TenantField:       strings.TrimSpace(tenantField),
		StrictTenantInput: strict,
		Messages:          MessagesFor(locale),
	}
	if opts.TenantField == "" {
		opts.TenantField = DefaultTenantField
	}

	for _, field := range relatedFields {
		if field = strings.TrimSpace(field); field != "" {
			opts.RelatedUserFields = append(opts.RelatedUserFields, field)
		}
	}
	if len(opts.RelatedUserFields) == 0 {
		opts.RelatedUserFields = append([]string(nil), DefaultRelatedUserFields...)
	}
	return opts
}

package tenancy

import (
	"fmt"
	"strings"
)

// FilterResult describes what a filter did to the tenant field.
type FilterResult struct {
	Decision Decision
	// Value is the organization id the downstream handler must use.
	Value string
	// Supplied is the client value, rendered as text, when one was present.
	Supplied string
	// Overwritten is set when a client value disagreed with the principal.
	Overwritten bool
}

// QueryInput is the input of the read filter.
type QueryInput struct {
	Principal *Principal
	Field     string
	// Supplied holds every value the client sent for Field.
	Supplied []string
	Strict   bool
}

// FilterQuery computes the organization filter for a list route. The result is always the
// principal's organization; any different client value is reported as overwritten, or
// rejected in strict mode.
func FilterQuery(in QueryInput) FilterResult {
	if in.Principal == nil {
		return FilterResult{Decision: unauthenticated()}
	}

	org := in.Principal.OrganizationID
	result := FilterResult{Decision: allow(), Value: org}
	for _, value := range in.Supplied {
		if value == "" || value == org {
			continue
		}
		result.Supplied = value
		result.Overwritten = true
		break
	}

	if result.Overwritten && in.Strict {
		result.Decision = invalidField(in.Field, ReasonTenantMismatch)
	}
	return result
}

// BodyInput is the input of the write filter. Body is the decoded JSON object.
type BodyInput struct {
	Principal *Principal
	Field     string
	Body      map[string]any
	Strict    bool
}

// FilterBody forces the tenant field of a create or update body to the principal's
// organization. The body map is modified in place; a nil body is replaced by a new map which
// is returned alongside the result.
func FilterBody(in BodyInput) (map[string]any, FilterResult) {
	if in.Principal == nil {
		return in.Body, FilterResult{Decision: unauthenticated()}
	}

	body := in.Body
	if body == nil {
		body = make(map[string]any, 1)
	}

	org := in.Principal.OrganizationID
	result := FilterResult{Decision: allow(), Value: org}

	if raw, ok := body[in.Field]; ok && raw != nil {
		supplied, isString := raw.(string)
		if !isString {
			supplied = fmt.Sprint(raw)
		}
		if !isString || (strings.TrimSpace(supplied) != "" && supplied != org) {
			result.Supplied = supplied
			result.Overwritten = true
		}
	}

	if result.Overwritten && in.Strict {
		result.Decision = invalidField(in.Field, ReasonTenantMismatch)
		return body, result
	}

	body[in.Field] = org
	return body, result
}

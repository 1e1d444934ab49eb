package tenancy

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// UserFinder reports whether a user exists inside an organization.
type UserFinder interface {
	UserInOrganization(ctx context.Context, userID, organizationID string) (bool, error)
}

// UserFinderFunc adapts a function to UserFinder.
type UserFinderFunc func(ctx context.Context, userID, organizationID string) (bool, error)

func (f UserFinderFunc) UserInOrganization(ctx context.Context, userID, organizationID string) (bool, error) {
	return f(ctx, userID, organizationID)
}

// RelatedInput is the input of the related-entity check.
type RelatedInput struct {
	Principal *Principal
	Body      map[string]any
	// Fields are checked in order; the first failing field ends the evaluation.
	Fields []string
}

// ValidateRelated confirms that each configured user reference in the body points at a user of
// the principal's organization. Absent, null and empty-string fields are skipped. A value that
// is not a string is rejected for its field.
func ValidateRelated(ctx context.Context, in RelatedInput, finder UserFinder) (Decision, error) {
	if in.Principal == nil {
		return unauthenticated(), nil
	}
	if finder == nil {
		return Decision{}, errors.New("tenancy: user finder is required")
	}

	for _, field := range in.Fields {
		raw, ok := in.Body[field]
		if !ok || raw == nil {
			continue
		}
		userID, isString := raw.(string)
		if !isString {
			return invalidField(field, ReasonForeignTenant), nil
		}
		userID = strings.TrimSpace(userID)
		if userID == "" {
			continue
		}

		found, err := finder.UserInOrganization(ctx, userID, in.Principal.OrganizationID)
		if err != nil {
			return Decision{}, fmt.Errorf("tenancy: related user %s: %w", field, err)
		}
		if !found {
			return invalidField(field, ReasonForeignTenant), nil
		}
	}
	return allow(), nil
}

package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/deskward/deskward/internal/tenancy"
	"github.com/deskward/deskward/pkg/errors"
	"github.com/deskward/deskward/pkg/response"
)

// ValidateRelatedUsers rejects writes whose body references a user outside the principal's
// organization through one of the configured fields.
func (g *Guard) ValidateRelatedUsers(finder tenancy.UserFinder) gin.HandlerFunc {
	fields := append([]string(nil), g.opts.RelatedUserFields...)

	return func(c *gin.Context) {
		principal := PrincipalFrom(c)
		if principal == nil {
			g.abort(c, "related", tenancy.Decision{Outcome: tenancy.Unauthenticated})
			return
		}

		body, err := jsonBody(c)
		if err != nil {
			g.abort(c, "related", tenancy.Decision{Outcome: tenancy.ValidationError, Reason: tenancy.ReasonMalformed})
			return
		}

		decision, err := tenancy.ValidateRelated(c.Request.Context(), tenancy.RelatedInput{
			Principal: principal,
			Body:      body,
			Fields:    fields,
		}, finder)
		if err != nil {
			response.Error(c, errors.ErrInternalServer.WithInternal(err))
			c.Abort()
			return
		}
		if !decision.Allowed() {
			event := tenancy.NewEvent(tenancy.ActionRelatedRejected, tenancy.ResultDenied, principal, c.Request.URL.Path)
			event.Field = decision.Field
			g.record(event)
			g.abort(c, "related", decision)
			return
		}

		allowed("related")
		c.Next()
	}
}

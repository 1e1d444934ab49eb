package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/deskward/deskward/internal/tenancy"
	"github.com/deskward/deskward/pkg/errors"
	"github.com/deskward/deskward/pkg/metrics"
	"github.com/deskward/deskward/pkg/response"
)

// TenantScope loads the resource named by the path parameter param inside the principal's
// organization and caches it for the handler (see ScopedResource). Requests without the
// parameter pass through. A resource of another organization is answered exactly like a
// missing one.
func TenantScope[T any](g *Guard, resource, param string, finder tenancy.ScopeFinder[T]) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal := PrincipalFrom(c)
		id := c.Param(param)

		row, decision, err := tenancy.Scope[T](c.Request.Context(), tenancy.ScopeInput{
			Principal:  principal,
			ResourceID: id,
		}, finder)
		if err != nil {
			metrics.GuardDecisions.WithLabelValues("scope", "error").Inc()
			response.Error(c, errors.ErrInternalServer.WithInternal(err))
			c.Abort()
			return
		}
		if !decision.Allowed() {
			if decision.Outcome == tenancy.NotFound {
				event := tenancy.NewEvent(tenancy.ActionCrossTenant, tenancy.ResultDenied, principal, c.Request.URL.Path)
				event.Resource = resource
				event.ResourceID = decision.ResourceID
				g.record(event)
			}
			g.abort(c, "scope", decision)
			return
		}

		if id != "" {
			c.Set(CtxResourceKey, row)
		}
		allowed("scope")
		c.Next()
	}
}

// TenantQuery forces the organization query parameter of list routes to the principal's
// organization.
func (g *Guard) TenantQuery() gin.HandlerFunc {
	field := g.opts.TenantField

	return func(c *gin.Context) {
		principal := PrincipalFrom(c)
		query := c.Request.URL.Query()

		result := tenancy.FilterQuery(tenancy.QueryInput{
			Principal: principal,
			Field:     field,
			Supplied:  query[field],
			Strict:    g.opts.StrictTenantInput,
		})
		if result.Overwritten {
			g.recordOverwrite(c, principal, "query", field, result)
		}
		if !result.Decision.Allowed() {
			g.abort(c, "query_filter", result.Decision)
			return
		}

		query.Set(field, result.Value)
		c.Request.URL.RawQuery = query.Encode()
		c.Set(CtxTenantKey, result.Value)
		allowed("query_filter")
		c.Next()
	}
}

// TenantBody forces the organization field of create and update bodies to the principal's
// organization. The rewritten body replaces the request body.
func (g *Guard) TenantBody() gin.HandlerFunc {
	field := g.opts.TenantField

	return func(c *gin.Context) {
		principal := PrincipalFrom(c)
		if principal == nil {
			g.abort(c, "body_filter", tenancy.Decision{Outcome: tenancy.Unauthenticated})
			return
		}

		body, err := jsonBody(c)
		if err != nil {
			g.abort(c, "body_filter", tenancy.Decision{Outcome: tenancy.ValidationError, Reason: tenancy.ReasonMalformed})
			return
		}

		body, result := tenancy.FilterBody(tenancy.BodyInput{
			Principal: principal,
			Field:     field,
			Body:      body,
			Strict:    g.opts.StrictTenantInput,
		})
		if result.Overwritten {
			g.recordOverwrite(c, principal, "body", field, result)
		}
		if !result.Decision.Allowed() {
			g.abort(c, "body_filter", result.Decision)
			return
		}

		if err := replaceBody(c, body); err != nil {
			response.Error(c, errors.ErrInternalServer.WithInternal(err))
			c.Abort()
			return
		}
		c.Set(CtxTenantKey, result.Value)
		allowed("body_filter")
		c.Next()
	}
}

func (g *Guard) recordOverwrite(c *gin.Context, principal *tenancy.Principal, target, field string, result tenancy.FilterResult) {
	metrics.TenantOverwrites.WithLabelValues(target).Inc()

	action, outcome := tenancy.ActionTenantOverwrite, tenancy.ResultWarning
	if !result.Decision.Allowed() {
		action, outcome = tenancy.ActionTenantRejected, tenancy.ResultDenied
	}
	event := tenancy.NewEvent(action, outcome, principal, c.Request.URL.Path)
	event.Field = field
	event.Supplied = result.Supplied
	g.record(event)
}

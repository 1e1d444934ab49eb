package handlers

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/deskward/deskward/internal/middleware"
	"github.com/deskward/deskward/internal/tenancy"
	appErrors "github.com/deskward/deskward/pkg/errors"
	"github.com/deskward/deskward/pkg/logger"
	"github.com/deskward/deskward/pkg/response"
)

// requestContext safely returns the request context with a background fallback for tests.
func requestContext(c *gin.Context) context.Context {
	if c == nil {
		return context.Background()
	}
	if req := c.Request; req != nil {
		return req.Context()
	}
	return context.Background()
}

// requirePrincipal returns the authenticated principal or writes a 401.
func requirePrincipal(c *gin.Context) (*tenancy.Principal, bool) {
	principal := middleware.PrincipalFrom(c)
	if principal == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return nil, false
	}
	return principal, true
}

// scoped returns the resource loaded by the tenant scope guard. A missing value means the
// route was registered without the guard.
func scoped[T any](c *gin.Context) (T, bool) {
	resource, ok := middleware.ScopedResource[T](c)
	if !ok {
		writeError(c, errors.New("handlers: scoped resource missing from context"))
	}
	return resource, ok
}

// writeError renders err; unexpected errors are logged before being hidden behind a 500.
func writeError(c *gin.Context, err error) {
	var appErr *appErrors.AppError
	if !errors.As(err, &appErr) {
		logger.WithModule("handlers").Error("request failed",
			zap.String("path", c.Request.URL.Path),
			zap.Error(err),
		)
	}
	response.Error(c, err)
}

package middleware

import (
	stderrors "errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/deskward/deskward/pkg/errors"
	"github.com/deskward/deskward/pkg/logger"
	"github.com/deskward/deskward/pkg/response"
)

// Recovery turns a handler panic into INTERNAL_SERVER_ERROR. The panic value is logged with
// the stack and the caller identity, never echoed to the client. http.ErrAbortHandler is
// re-raised so net/http can drop the connection.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			recovered := recover()
			if recovered == nil {
				return
			}
			if err, ok := recovered.(error); ok && stderrors.Is(err, http.ErrAbortHandler) {
				panic(recovered)
			}

			fields := []zap.Field{
				zap.String("method", c.Request.Method),
				zap.String("path", c.Request.URL.Path),
				zap.Any("panic", recovered),
				zap.Stack("stack"),
			}
			if principal := PrincipalFrom(c); principal != nil {
				fields = append(fields,
					zap.String("user_id", principal.UserID),
					zap.String("organization_id", principal.OrganizationID),
				)
			}
			logger.WithModule("http").Error("handler panicked", fields...)

			if c.Writer.Written() {
				c.Abort()
				return
			}
			response.Error(c, errors.ErrInternalServer)
			c.Abort()
		}()
		c.Next()
	}
}

func NotFoundHandler(c *gin.Context) {
	response.Error(c, errors.ErrNotFound.WithMessagef("route %s not found", c.Request.URL.Path))
}

func MethodNotAllowedHandler(c *gin.Context) {
	response.Error(c, errors.ErrMethodNotAllowed.WithMessagef("method %s not allowed on %s", c.Request.Method, c.Request.URL.Path))
}

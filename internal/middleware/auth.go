package middleware

import (
	stderrors "errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	iauth "github.com/deskward/deskward/internal/auth"
	"github.com/deskward/deskward/pkg/errors"
	"github.com/deskward/deskward/pkg/response"
)

const bearerRealm = `Bearer realm="deskward"`

var errTokenExpired = errors.New("TOKEN_EXPIRED", "Access token expired", http.StatusUnauthorized)

// Auth verifies the bearer token and attaches its principal. Every failure is a 401 so the
// response never reveals whether an account exists.
func Auth(jwt *iauth.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			c.Header("WWW-Authenticate", bearerRealm)
			response.Error(c, errors.ErrUnauthorized)
			c.Abort()
			return
		}

		claims, err := jwt.ValidateAccessToken(token)
		if err != nil {
			c.Header("WWW-Authenticate", bearerRealm+`, error="invalid_token"`)
			if stderrors.Is(err, iauth.ErrTokenExpired) {
				response.Error(c, errTokenExpired)
			} else {
				response.Error(c, errors.ErrUnauthorized)
			}
			c.Abort()
			return
		}

		c.Set(CtxClaimsKey, claims)
		SetPrincipal(c, claims.Principal())
		c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func serveWithSecurityHeaders(t *testing.T, development bool) http.Header {
	t.Helper()

	r := gin.New()
	r.Use(SecurityHeaders(development))
	r.GET("/api/tickets", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true})
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/tickets", nil))
	require.Equal(t, http.StatusOK, w.Code)
	return w.Header()
}

func TestSecurityHeadersProduction(t *testing.T) {
	headers := serveWithSecurityHeaders(t, false)

	require.Equal(t, "DENY", headers.Get("X-Frame-Options"))
	require.Equal(t, "nosniff", headers.Get("X-Content-Type-Options"))
	require.Equal(t, "max-age=31536000; includeSubDomains", headers.Get("Strict-Transport-Security"))
	require.Equal(t, DefaultContentSecurityPolicy, headers.Get("Content-Security-Policy"))
	require.Equal(t, "no-referrer", headers.Get("Referrer-Policy"))
	require.Contains(t, headers.Get("Permissions-Policy"), "camera=()")
}

func TestSecurityHeadersDevelopmentSkipsHSTS(t *testing.T) {
	headers := serveWithSecurityHeaders(t, true)

	require.Empty(t, headers.Get("Strict-Transport-Security"))
}

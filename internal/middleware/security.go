package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/unrolled/secure"
)

const (
	// DefaultContentSecurityPolicy allows nothing to load; the API serves JSON only.
	DefaultContentSecurityPolicy = "default-src 'none'; frame-ancestors 'none'"

	hstsMaxAge = 365 * 24 * 60 * 60
)

// SecurityHeaders hardens every response. Outside development the HSTS header is sent even
// on plain HTTP, since TLS is expected to terminate at a proxy in front of the API.
func SecurityHeaders(development bool) gin.HandlerFunc {
	policy := secure.New(secure.Options{
		IsDevelopment:         development,
		FrameDeny:             true,
		ContentTypeNosniff:    true,
		STSSeconds:            hstsMaxAge,
		STSIncludeSubdomains:  true,
		ForceSTSHeader:        !development,
		SSLProxyHeaders:       map[string]string{"X-Forwarded-Proto": "https"},
		ContentSecurityPolicy: DefaultContentSecurityPolicy,
		ReferrerPolicy:        "no-referrer",
		PermissionsPolicy:     "geolocation=(), microphone=(), camera=()",
	})
	return wrapHTTP(policy.Handler)
}

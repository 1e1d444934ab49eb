package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// wrapHTTP runs a net/http middleware inside the gin chain. The chain continues only when the
// wrapped middleware calls its next handler; otherwise the response it wrote is final.
func wrapHTTP(mw func(http.Handler) http.Handler) gin.HandlerFunc {
	return func(c *gin.Context) {
		passed := false
		mw(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
			passed = true
			c.Request = r
		})).ServeHTTP(c.Writer, c.Request)

		if !passed {
			c.Abort()
			return
		}
		c.Next()
	}
}

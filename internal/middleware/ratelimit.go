package middleware

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-chi/httprate"

	"github.com/deskward/deskward/pkg/errors"
	"github.com/deskward/deskward/pkg/response"
)

// RateLimit limits requests per client IP within a sliding window. The counters live in
// memory, so limits apply per instance.
func RateLimit(maxRequests int, window time.Duration) gin.HandlerFunc {
	if maxRequests <= 0 || window <= 0 {
		return func(c *gin.Context) { c.Next() }
	}

	limiter := httprate.Limit(maxRequests, window,
		httprate.WithKeyFuncs(httprate.KeyByIP, httprate.KeyByEndpoint),
		httprate.WithLimitHandler(func(w http.ResponseWriter, _ *http.Request) {
			appErr := errors.ErrTooManyRequests
			w.Header().Set("Content-Type", "application/json; charset=utf-8")
			w.WriteHeader(appErr.StatusCode)
			_ = json.NewEncoder(w).Encode(response.Response{
				Success: false,
				Error:   &response.ErrorInfo{Code: appErr.Code, Message: appErr.Message},
			})
		}),
	)
	return wrapHTTP(limiter)
}

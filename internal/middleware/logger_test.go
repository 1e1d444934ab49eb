package middleware

import (
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/deskward/deskward/pkg/logger"
	"github.com/deskward/deskward/pkg/response"
)

func TestLoggerMiddleware(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	restore := logger.Replace(zap.New(core))
	t.Cleanup(restore)

	r := gin.New()
	r.Use(Logger())
	r.GET("/ping", authenticateAs(&agentPrincipal), func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})

	w := doJSON(t, r, http.MethodGet, "/ping", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "pong", w.Body.String())

	entries := logs.FilterMessage("request").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	require.Equal(t, "/ping", fields["path"])
	require.EqualValues(t, http.StatusOK, fields["status"])
	require.Equal(t, "org-1", fields["organization_id"])
	require.Equal(t, "user-1", fields["user_id"])
}

func TestLoggerMiddlewareRecordsServerErrors(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	restore := logger.Replace(zap.New(core))
	t.Cleanup(restore)

	r := gin.New()
	r.Use(Logger())
	r.GET("/api/tickets", func(c *gin.Context) {
		response.Error(c, errors.New("database is locked"))
	})

	w := doJSON(t, r, http.MethodGet, "/api/tickets", nil)
	require.Equal(t, http.StatusInternalServerError, w.Code)
	require.NotContains(t, w.Body.String(), "locked")

	entries := logs.FilterMessage("request").All()
	require.Len(t, entries, 1)
	require.Equal(t, zap.ErrorLevel, entries[0].Level)
	require.Equal(t, []any{"database is locked"}, entries[0].ContextMap()["errors"])
}

package logger

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestInitConfiguresGlobalLogger(t *testing.T) {
	restore := Replace(zap.NewNop())
	t.Cleanup(restore)

	require.NoError(t, Init(Options{Level: "debug"}))
	require.True(t, Logger().Core().Enabled(zap.DebugLevel))
}

func TestInitFallsBackToInfo(t *testing.T) {
	restore := Replace(zap.NewNop())
	t.Cleanup(restore)

	require.NoError(t, Init(Options{Level: "loud", Development: true}))
	require.False(t, Logger().Core().Enabled(zap.DebugLevel))
	require.True(t, Logger().Core().Enabled(zap.InfoLevel))
}

func TestReplaceRestoresPrevious(t *testing.T) {
	core, recorded := observer.New(zap.InfoLevel)
	restore := Replace(zap.New(core))

	WithModule("audit").Info("recorded", zap.String("action", "tenancy.cross_tenant"))
	restore()
	WithModule("audit").Info("dropped")

	entries := recorded.All()
	require.Len(t, entries, 1)
	require.Equal(t, "recorded", entries[0].Message)
	require.Equal(t, "audit", entries[0].ContextMap()["module"])

	Replace(nil)()
	require.NotNil(t, Logger())
}

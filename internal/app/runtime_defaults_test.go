package app

import (
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestApplyRuntimeDefaults(t *testing.T) {
	t.Run("generates missing jwt secret", func(t *testing.T) {
		cfg := &Config{}
		cfg.Auth.JWT.Secret = "   "

		generated, err := ApplyRuntimeDefaults(cfg)
		require.NoError(t, err)
		require.Equal(t, []string{"auth.jwt.secret"}, generated)
		require.GreaterOrEqual(t, len(cfg.Auth.JWT.Secret), 64)
	})

	t.Run("keeps configured secret", func(t *testing.T) {
		cfg := &Config{}
		cfg.Auth.JWT.Secret = strings.Repeat("k", 40)

		generated, err := ApplyRuntimeDefaults(cfg)
		require.NoError(t, err)
		require.Empty(t, generated)
		require.Equal(t, strings.Repeat("k", 40), cfg.Auth.JWT.Secret)
	})

	t.Run("rejects nil config", func(t *testing.T) {
		_, err := ApplyRuntimeDefaults(nil)
		require.EqualError(t, err, "config is nil")
	})
}

func TestGenerateSecretIsURLSafe(t *testing.T) {
	secret, err := generateSecret(12)
	require.NoError(t, err)

	decoded, err := base64.RawURLEncoding.DecodeString(secret)
	require.NoError(t, err)
	require.Len(t, decoded, 12)

	other, err := generateSecret(12)
	require.NoError(t, err)
	require.NotEqual(t, secret, other)

	_, err = generateSecret(0)
	require.Error(t, err)
}

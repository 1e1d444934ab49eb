package crypto

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("secret")
	require.NoError(t, err)

	require.True(t, VerifyPassword(hash, "secret"))
	require.False(t, VerifyPassword(hash, "incorrect"))
}

func TestHashPasswordRejectsBlank(t *testing.T) {
	_, err := HashPassword("   ")
	require.ErrorIs(t, err, ErrEmptyPassword)
}

func TestVerifyPasswordWithoutHash(t *testing.T) {
	require.False(t, VerifyPassword("", "anything"))
}

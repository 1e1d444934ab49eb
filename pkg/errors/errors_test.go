package errors

import (
	stdErrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestErrorIncludesInternal(t *testing.T) {
	err := Wrap(stdErrors.New("boom"), "failed")
	require.Equal(t, "failed: boom", err.Error())
}

func TestWithInternalCopies(t *testing.T) {
	base := New("TEST", "test", 400)
	with := base.WithInternal(stdErrors.New("oops"))

	require.NotSame(t, base, with)
	require.Nil(t, base.Internal)
	require.NotNil(t, with.Internal)
}

func TestFromErrorUnwrapsWrappedAppError(t *testing.T) {
	wrapped := fmt.Errorf("ticket lookup: %w", ErrNotFound)
	require.Same(t, ErrNotFound, FromError(wrapped))

	raw := stdErrors.New("raw")
	out := FromError(raw)
	require.Equal(t, ErrInternalServer.Code, out.Code)
	require.ErrorIs(t, out, raw)

	require.Nil(t, FromError(nil))
}

func TestNewBadRequestKeepsSentinelUntouched(t *testing.T) {
	err := NewBadRequest("invalid payload")
	require.Equal(t, ErrBadRequest.Code, err.Code)
	require.Equal(t, "invalid payload", err.Message)
	require.Equal(t, ErrBadRequest.StatusCode, err.StatusCode)
	require.Equal(t, "Invalid request", ErrBadRequest.Message)
}

func TestIsMatchesCopiesOfSentinel(t *testing.T) {
	custom := ErrNotFound.WithMessagef("ticket %s not found", "t-1")
	require.Equal(t, "ticket t-1 not found", custom.Message)
	require.ErrorIs(t, fmt.Errorf("load: %w", custom), ErrNotFound)
	require.NotErrorIs(t, custom, ErrForbidden)

	var nilErr *AppError
	require.False(t, nilErr.Is(ErrNotFound))
}

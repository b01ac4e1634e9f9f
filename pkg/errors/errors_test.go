package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsMatchesWrappedAppError(t *testing.T) {
	err := fmt.Errorf("loading community: %w", NotFound("Community", nil))

	assert.True(t, Is(err, CodeNotFound))
	assert.True(t, IsNotFound(err))
	assert.False(t, Is(err, CodeUnavailable))
	assert.False(t, Is(stderrors.New("plain"), CodeNotFound))
}

func TestConstructorsCarryStatus(t *testing.T) {
	cases := []struct {
		err    *AppError
		code   string
		status int
	}{
		{NotFound("User", nil), CodeNotFound, http.StatusNotFound},
		{Validation("text is required"), CodeValidation, http.StatusBadRequest},
		{Transient("write failed", stderrors.New("deadline")), CodeUnavailable, http.StatusServiceUnavailable},
		{Forbidden("not a participant", nil), CodeForbidden, http.StatusForbidden},
		{Conflict("exists"), CodeConflict, http.StatusConflict},
		{TooManyRequests("slow down"), CodeTooManyRequests, http.StatusTooManyRequests},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.code, tc.err.Code)
		assert.Equal(t, tc.status, tc.err.Status)
	}
}

func TestUnwrapExposesCause(t *testing.T) {
	cause := stderrors.New("rpc error")
	err := Transient("Failed to update user", cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "rpc error")
}

package middleware

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticVerifier map[string]string

func (v staticVerifier) VerifyToken(_ context.Context, token string) (string, error) {
	if uid, ok := v[token]; ok {
		return uid, nil
	}
	return "", fmt.Errorf("unknown token")
}

func run(t *testing.T, req *http.Request) (string, error) {
	t.Helper()
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	m := NewAuthMiddleware(staticVerifier{"good": "alice"})
	var seen string
	err := m.Authenticate(func(c echo.Context) error {
		seen = UserID(c)
		return nil
	})(c)
	return seen, err
}

func statusOf(t *testing.T, err error) int {
	t.Helper()
	httpErr, ok := err.(*echo.HTTPError)
	require.True(t, ok, "want *echo.HTTPError, got %T", err)
	return httpErr.Code
}

func TestAuthenticateBearer(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer good")

	uid, err := run(t, req)
	require.NoError(t, err)
	assert.Equal(t, "alice", uid)
}

func TestAuthenticateQueryToken(t *testing.T) {
	uid, err := run(t, httptest.NewRequest(http.MethodGet, "/ws/chats?token=good", nil))
	require.NoError(t, err)
	assert.Equal(t, "alice", uid)
}

func TestAuthenticateRejects(t *testing.T) {
	_, err := run(t, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, statusOf(t, err))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Token good")
	_, err = run(t, req)
	assert.Equal(t, http.StatusUnauthorized, statusOf(t, err))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer bad")
	_, err = run(t, req)
	assert.Equal(t, http.StatusUnauthorized, statusOf(t, err))
}

package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"outdoormatch/internal/usecase"
	"outdoormatch/pkg/logger"
)

const uidKey = "uid"

type AuthMiddleware struct {
	verifier usecase.TokenVerifier
}

func NewAuthMiddleware(verifier usecase.TokenVerifier) *AuthMiddleware {
	return &AuthMiddleware{
		verifier: verifier,
	}
}

// Authenticate requires a Bearer token. Browsers cannot set headers on a
// WebSocket handshake, so a ?token= query parameter is accepted when the
// header is absent.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		idToken := c.QueryParam("token")

		if authHeader := c.Request().Header.Get("Authorization"); authHeader != "" {
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid authorization format")
			}
			idToken = parts[1]
		}

		if idToken == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "Authorization header is required")
		}

		uid, err := m.verifier.VerifyToken(c.Request().Context(), idToken)
		if err != nil {
			logger.Debug("Token rejected: %v", err)
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid or expired token")
		}

		c.Set(uidKey, uid)
		return next(c)
	}
}

// UserID is the uid Authenticate stored on the context, or "".
func UserID(c echo.Context) string {
	uid, _ := c.Get(uidKey).(string)
	return uid
}

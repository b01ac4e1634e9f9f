package handler

import (
	"strings"

	"github.com/labstack/echo/v4"

	"outdoormatch/pkg/errors"
	"outdoormatch/pkg/response"
)

// TokenIssuer mints tokens the development verifier accepts.
type TokenIssuer interface {
	Issue(uid string) string
}

type DevTokenHandler struct {
	issuer TokenIssuer
}

var devTokenHandler *DevTokenHandler

func NewDevTokenHandler(issuer TokenIssuer) *DevTokenHandler {
	return &DevTokenHandler{
		issuer: issuer,
	}
}

func SetupDevTokenHandler(issuer TokenIssuer) {
	devTokenHandler = NewDevTokenHandler(issuer)
}

// GetDevTokenHandler is nil unless SetupDevTokenHandler was called.
func GetDevTokenHandler() *DevTokenHandler {
	return devTokenHandler
}

// IssueToken returns a token for any uid, signed up or not.
func (h *DevTokenHandler) IssueToken(c echo.Context) error {
	uid := c.Param("uid")
	if uid == "" || len(uid) > 128 || strings.ContainsAny(uid, " \t\n/") {
		return response.Error(c, errors.Validation("uid must be 1-128 characters without spaces or slashes"))
	}

	return response.Success(c, map[string]string{
		"uid":   uid,
		"token": h.issuer.Issue(uid),
	})
}

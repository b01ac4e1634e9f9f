package router

import (
	"github.com/labstack/echo/v4"

	"outdoormatch/internal/adapter/api/handler"
)

// SetupDevRouter only registers routes when a dev token handler was set up,
// which happens with the in-memory backend.
func SetupDevRouter(e *echo.Echo) {
	devTokenHandler := handler.GetDevTokenHandler()
	if devTokenHandler == nil {
		return
	}

	e.GET("/_dev/token/:uid", devTokenHandler.IssueToken)
}

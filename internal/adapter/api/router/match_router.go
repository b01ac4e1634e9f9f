package router

import (
	"github.com/labstack/echo/v4"

	"outdoormatch/internal/adapter/api/handler"
	"outdoormatch/internal/adapter/api/middleware"
)

func SetupMatchRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	matchHandler := handler.GetMatchHandler()

	matches := e.Group("/v1/matches")
	matches.Use(authMiddleware.Authenticate)

	matches.POST("/:userId/check", matchHandler.Check)
}

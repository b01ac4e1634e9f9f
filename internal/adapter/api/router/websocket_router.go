package router

import (
	"github.com/labstack/echo/v4"

	"outdoormatch/internal/adapter/api/handler"
	"outdoormatch/internal/adapter/api/middleware"
)

func SetupWebSocketRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	wsHandler := handler.GetWebSocketHandler()

	wsGroup := e.Group("/v1/ws")
	wsGroup.Use(authMiddleware.Authenticate)

	wsGroup.GET("/chats", wsHandler.WatchChats)
	wsGroup.GET("/chats/:id", wsHandler.WatchChat)
}

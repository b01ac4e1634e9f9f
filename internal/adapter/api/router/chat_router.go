package router

import (
	"github.com/labstack/echo/v4"

	"outdoormatch/internal/adapter/api/handler"
	"outdoormatch/internal/adapter/api/middleware"
)

// SetupChatRouter sets up chat routes. Chats are created by matches, never
// directly.
func SetupChatRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	chatHandler := handler.GetChatHandler()

	chatGroup := e.Group("/v1/chats")
	chatGroup.Use(authMiddleware.Authenticate)

	chatGroup.GET("", chatHandler.GetUserChats)
	chatGroup.GET("/:id", chatHandler.GetChatByID)
	chatGroup.POST("/:id/messages", chatHandler.SendMessage)
}

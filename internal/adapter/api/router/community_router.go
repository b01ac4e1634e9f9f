package router

import (
	"github.com/labstack/echo/v4"

	"outdoormatch/internal/adapter/api/handler"
	"outdoormatch/internal/adapter/api/middleware"
)

func SetupCommunityRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	communityHandler := handler.GetCommunityHandler()

	communities := e.Group("/v1/communities")
	communities.Use(authMiddleware.Authenticate)

	communities.GET("", communityHandler.ListCommunities)
	communities.GET("/:id", communityHandler.GetCommunity)
	communities.POST("/:id/join", communityHandler.JoinCommunity)
	communities.GET("/:id/members/active", communityHandler.ListActiveMembers)
	communities.GET("/:id/availability", communityHandler.GetAvailability)
	communities.PUT("/:id/availability/:day", communityHandler.ToggleAvailability)
}

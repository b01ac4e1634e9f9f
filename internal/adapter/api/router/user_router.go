package router

import (
	"github.com/labstack/echo/v4"

	"outdoormatch/internal/adapter/api/handler"
	"outdoormatch/internal/adapter/api/middleware"
)

func SetupUserRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	profileHandler := handler.GetProfileHandler()

	users := e.Group("/v1/users")
	users.Use(authMiddleware.Authenticate)

	users.POST("/me", profileHandler.CreateProfile)
	users.GET("/me", profileHandler.GetMyProfile)
	users.PUT("/me/notes", profileHandler.UpdateNotes)
	users.PUT("/me/photo", profileHandler.UploadPhoto)
	users.GET("/me/checked", profileHandler.ListChecked)
	users.GET("/me/communities", profileHandler.ListMyCommunities)
	users.GET("/:id", profileHandler.GetProfile)
}

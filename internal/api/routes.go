package api

import (
	"github.com/gin-gonic/gin"

	"restaurant-media-organizer/internal/api/handlers"
	"restaurant-media-organizer/internal/api/middleware"
)

// SetupRoutes configures all application routes
func SetupRoutes(router *gin.Engine, h *handlers.Handler, jwtSecret string) {
	router.GET("/health", handlers.Health)

	api := router.Group("/api")
	api.Use(middleware.JWTAuth(jwtSecret))
	{
		api.GET("/ws", h.Subscribe)
		setupBusinessRoutes(api.Group("/businesses/:id"), h)
	}
}

// setupBusinessRoutes configures the media routes of one business
func setupBusinessRoutes(rg *gin.RouterGroup, h *handlers.Handler) {
	rg.GET("", h.GetBusiness)

	images := rg.Group("/images")
	{
		images.POST("", h.UploadImages)
		images.POST("/move", h.MoveImages)
		images.DELETE("/:imageId", h.DeleteImage)
	}

	folders := rg.Group("/folders")
	{
		folders.POST("", h.CreateFolder)
		folders.PATCH("", h.RenameFolder)
		folders.DELETE("", h.DeleteFolder)
	}

	export := rg.Group("/export")
	{
		export.GET("/csv", h.ExportCSV)
		export.GET("/json", h.ExportJSON)
	}
}

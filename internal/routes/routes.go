package routes

import (
	"github.com/gin-gonic/gin"

	"carelink_backend/internal/handlers"
)

// RegisterRoutes registers the HTTP API.
func RegisterRoutes(ginRouter *gin.Engine, appHandlers *handlers.AppHandlers) {
	api := ginRouter.Group("/api/v1")
	{
		appHandlers.HealthHandler.RegisterRoutes(api)
		appHandlers.ChatHandler.RegisterRoutes(api)
		appHandlers.NotificationHandler.RegisterRoutes(api)
		appHandlers.EventHandler.RegisterRoutes(api)
		appHandlers.AttachmentHandler.RegisterRoutes(api)
	}
}

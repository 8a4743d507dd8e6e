package notifications

import (
	"cinebook/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// SetupNotificationRoutes configures announcement routes
func SetupNotificationRoutes(rg *gin.RouterGroup, controller *Controller) {
	// Admin routes - broadcasting is an admin operation
	admin := rg.Group("/admin/notifications")
	admin.Use(middleware.JWTAuth(), middleware.RequireAdmin())
	{
		admin.POST("/broadcast", controller.Broadcast) // POST /api/v1/admin/notifications/broadcast
	}
}

package showtimes

import (
	"cinebook/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// SetupShowtimeRoutes configures showtime catalog routes
func SetupShowtimeRoutes(rg *gin.RouterGroup, controller *Controller) {
	// Public routes - anyone can browse the catalog
	public := rg.Group("/showtimes")
	{
		public.GET("", controller.ListShowtimes)    // GET /api/v1/showtimes
		public.GET("/:id", controller.GetShowtime)  // GET /api/v1/showtimes/:id
	}

	// Admin routes - scheduling is an admin operation
	admin := rg.Group("/admin/showtimes")
	admin.Use(middleware.JWTAuth(), middleware.RequireAdmin())
	{
		admin.POST("", controller.CreateShowtime) // POST /api/v1/admin/showtimes
	}
}

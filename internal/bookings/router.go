package bookings

import (
	"cinebook/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// SetupBookingRoutes configures booking lifecycle and verification routes
func SetupBookingRoutes(rg *gin.RouterGroup, controller *Controller) {
	// Public routes - booking does not require an account
	public := rg.Group("/bookings")
	{
		public.GET("/occupied-seats", controller.GetOccupiedSeats) // GET  /api/v1/bookings/occupied-seats
		public.POST("", controller.CreateBooking)                  // POST /api/v1/bookings
		public.GET("/:reference", controller.GetBooking)           // GET  /api/v1/bookings/:reference
		public.GET("/:reference/ticket", controller.GetTicket)     // GET  /api/v1/bookings/:reference/ticket

		public.POST("/:reference/cancel", controller.CancelBooking)            // POST /api/v1/bookings/:reference/cancel
		public.POST("/:reference/payment-proof", controller.UploadPaymentProof) // POST /api/v1/bookings/:reference/payment-proof
	}

	// Authenticated customer routes
	authed := rg.Group("/bookings")
	authed.Use(middleware.JWTAuth())
	{
		authed.GET("/my-bookings", controller.MyBookings) // GET /api/v1/bookings/my-bookings
	}

	// Admin routes - payment review and gate verification
	admin := rg.Group("/admin/bookings")
	admin.Use(middleware.JWTAuth(), middleware.RequireAdmin())
	{
		admin.POST("/confirm-payment", controller.ConfirmPayment) // POST /api/v1/admin/bookings/confirm-payment
		admin.POST("/scan-ticket", controller.ScanTicket)         // POST /api/v1/admin/bookings/scan-ticket
		admin.POST("/verify-manual", controller.VerifyManual)     // POST /api/v1/admin/bookings/verify-manual
	}
}

package bundles

import (
	"cinebook/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// SetupBundleRoutes configures bundle catalog and order routes
func SetupBundleRoutes(rg *gin.RouterGroup, controller *Controller) {
	// Public catalog
	rg.GET("/bundles", controller.ListBundles) // GET /api/v1/bundles

	// Public order routes
	orders := rg.Group("/bundle-orders")
	{
		orders.POST("", controller.CreateOrder)                              // POST /api/v1/bundle-orders
		orders.GET("/:reference", controller.GetOrder)                       // GET  /api/v1/bundle-orders/:reference
		orders.POST("/:reference/payment-proof", controller.UploadPaymentProof) // POST /api/v1/bundle-orders/:reference/payment-proof
	}

	// Authenticated customer routes
	authed := rg.Group("/bundle-orders")
	authed.Use(middleware.JWTAuth())
	{
		authed.GET("/my-orders", controller.MyOrders) // GET /api/v1/bundle-orders/my-orders
	}

	// Admin routes - catalog management, payment review, pickup verification
	admin := rg.Group("/admin")
	admin.Use(middleware.JWTAuth(), middleware.RequireAdmin())
	{
		admin.POST("/bundles", controller.CreateBundle)                      // POST /api/v1/admin/bundles
		admin.POST("/bundle-orders/confirm-payment", controller.ConfirmPayment) // POST /api/v1/admin/bundle-orders/confirm-payment
		admin.POST("/bundle-orders/scan", controller.VerifyOrder)            // POST /api/v1/admin/bundle-orders/scan
	}
}

// api/routes/router.go
package routes

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"cinebook/internal/bookings"
	"cinebook/internal/bundles"
	"cinebook/internal/notifications"
	"cinebook/internal/seats"
	"cinebook/internal/shared/config"
	"cinebook/internal/shared/database"
	"cinebook/internal/showtimes"
	"cinebook/pkg/cache"
	"cinebook/pkg/logger"
	"cinebook/pkg/storage"
)

// Router holds all route dependencies
type Router struct {
	config   *config.Config
	db       *database.DB
	cache    cache.Service
	storage  storage.Service
	notifier notifications.Port
	log      *logger.Logger

	// shared across route groups for dependency injection
	showtimeService showtimes.Service
	seatService     seats.Service
}

// NewRouter creates a new router instance
func NewRouter(cfg *config.Config, db *database.DB, cacheService cache.Service, storageService storage.Service, notifier notifications.Port, log *logger.Logger) *Router {
	return &Router{
		config:   cfg,
		db:       db,
		cache:    cacheService,
		storage:  storageService,
		notifier: notifier,
		log:      log,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	// Health check and basic info endpoints
	r.setupHealthRoutes(engine)

	// API routes
	api := engine.Group(r.config.GetAPIBasePath())
	{
		// Showtime catalog first, later groups depend on its service
		r.setupShowtimeRoutes(api)

		// Booking lifecycle and ticket verification
		r.setupBookingRoutes(api)

		// Bundle catalog and orders
		r.setupBundleRoutes(api)

		// Admin broadcast
		r.setupNotificationRoutes(api)
	}
}

// setupHealthRoutes sets up health check and system status routes
func (r *Router) setupHealthRoutes(engine *gin.Engine) {
	engine.GET("/health", func(c *gin.Context) {
		if err := r.db.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":    "unhealthy",
				"error":     err.Error(),
				"timestamp": time.Now(),
				"service":   "cinebook-backend",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now(),
			"service":   "cinebook-backend",
		})
	})

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
			"version": r.config.APIVersion,
		})
	})

	engine.GET("/status", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":      "operational",
			"api_version": r.config.APIVersion,
			"timestamp":   time.Now(),
		})
	})
}

// setupShowtimeRoutes configures showtime catalog routes
func (r *Router) setupShowtimeRoutes(rg *gin.RouterGroup) {
	showtimeRepo := showtimes.NewRepository(r.db.GetPostgreSQL())
	showtimeService := showtimes.NewService(showtimeRepo)
	showtimeController := showtimes.NewController(showtimeService)

	// Store for dependency injection into bookings
	r.showtimeService = showtimeService

	showtimes.SetupShowtimeRoutes(rg, showtimeController)
}

// setupBookingRoutes configures booking and verification routes
func (r *Router) setupBookingRoutes(rg *gin.RouterGroup) {
	seatRepo := seats.NewRepository(r.db.GetPostgreSQL())
	seatService := seats.NewService(seatRepo, r.config)
	if r.cache != nil {
		seatService.SetCacheService(r.cache)
	}
	r.seatService = seatService

	bookingRepo := bookings.NewRepository(r.db.GetPostgreSQL(), seatRepo)
	bookingService := bookings.NewService(
		bookingRepo,
		seatService,
		r.showtimeService,
		r.storage,
		r.notifier,
		r.config,
		r.log,
	)
	bookingController := bookings.NewController(bookingService)

	bookings.SetupBookingRoutes(rg, bookingController)
}

// setupBundleRoutes configures bundle catalog and order routes
func (r *Router) setupBundleRoutes(rg *gin.RouterGroup) {
	bundleRepo := bundles.NewRepository(r.db.GetPostgreSQL())
	bundleService := bundles.NewService(bundleRepo, r.storage, r.log)
	bundleController := bundles.NewController(bundleService)

	bundles.SetupBundleRoutes(rg, bundleController)
}

// setupNotificationRoutes configures admin broadcast routes
func (r *Router) setupNotificationRoutes(rg *gin.RouterGroup) {
	notificationController := notifications.NewController(r.notifier, r.log)

	notifications.SetupNotificationRoutes(rg, notificationController)
}

package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/ulule/limiter/v3"

	"github.com/ignatzorin/pata-backend/internal/config"
	"github.com/ignatzorin/pata-backend/internal/http/handlers"
	"github.com/ignatzorin/pata-backend/internal/http/middleware"
	"github.com/ignatzorin/pata-backend/internal/metrics"
	"github.com/ignatzorin/pata-backend/internal/models"
)

// Deps собирает всё, что нужно для построения маршрутов.
type Deps struct {
	Auth          *handlers.AuthHandler
	Listings      *handlers.ListingHandler
	Admin         *handlers.AdminHandler
	Foundations   *handlers.FoundationHandler
	Notifications *handlers.NotificationHandler
	Media         *handlers.MediaHandler
	WS            *handlers.WSHandler
	Health        *handlers.HealthHandler
	// Seed регистрируется только в development.
	Seed *handlers.SeedHandler

	Authenticator  middleware.Authenticator
	RateLimitStore limiter.Store
	Metrics        *metrics.Metrics
	Gatherer       prometheus.Gatherer
}

func SetupRouter(cfg *config.Config, d Deps) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()
	r.Use(middleware.MetricsMiddleware(d.Metrics))
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))

	r.GET("/health", d.Health.Health)
	if d.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{})))
	}
	r.StaticFS("/media", http.Dir(cfg.MediaStoragePath))

	requireAuth := middleware.AuthMiddleware(d.Authenticator)
	optionalAuth := middleware.OptionalAuthMiddleware(d.Authenticator)
	requireAdmin := middleware.RequireRole(models.RoleAdmin)

	api := r.Group("/api")
	api.GET("/ws", d.WS.Handle)

	if d.Seed != nil && cfg.Env == "development" {
		api.POST("/seed", d.Seed.Seed)
	}

	authGroup := api.Group("/auth")
	{
		authRateLimit := middleware.RateLimitMiddleware(d.RateLimitStore, "auth", cfg.RateLimitLimit, cfg.RateLimitPeriod)
		authGroup.POST("/register", authRateLimit, d.Auth.Register)
		authGroup.POST("/login", authRateLimit, d.Auth.Login)
		authGroup.GET("/me", requireAuth, d.Auth.Me)
	}

	listings := api.Group("/listings")
	{
		contactRateLimit := middleware.RateLimitMiddleware(d.RateLimitStore, "contact", cfg.RateLimitLimit, cfg.RateLimitPeriod)

		listings.GET("", d.Listings.List)
		listings.GET("/type/:type", d.Listings.ListByType)
		listings.GET("/stats", d.Listings.Stats)
		listings.GET("/mine", requireAuth, d.Listings.ListMine)
		listings.GET("/:id", middleware.UUIDValidator("id"), optionalAuth, d.Listings.Get)
		listings.POST("", optionalAuth, d.Listings.Create)
		listings.PATCH("/:id/adopt", middleware.UUIDValidator("id"), requireAuth, d.Listings.MarkAdopted)
		listings.PATCH("/:id/found", middleware.UUIDValidator("id"), requireAuth, d.Listings.MarkFound)
		listings.POST("/:id/contact", middleware.UUIDValidator("id"), contactRateLimit, d.Listings.Contact)
	}

	admin := api.Group("/admin")
	admin.Use(requireAuth, requireAdmin)
	{
		admin.GET("/listings", d.Admin.ListListings)
		admin.PATCH("/listings/:id/approve", middleware.UUIDValidator("id"), d.Admin.Approve)
		admin.PATCH("/listings/:id/reject", middleware.UUIDValidator("id"), d.Admin.Reject)
	}

	api.GET("/foundations", d.Foundations.List)
	api.GET("/foundations/:id", middleware.UUIDValidator("id"), d.Foundations.Get)

	protected := api.Group("/")
	protected.Use(requireAuth)
	{
		protected.POST("/foundations", d.Foundations.Create)

		protected.GET("/notifications", d.Notifications.ListNotifications)
		protected.GET("/notifications/unread/count", d.Notifications.GetUnreadCount)
		protected.PUT("/notifications/read-all", d.Notifications.MarkAllAsRead)
		protected.PUT("/notifications/:id/read", middleware.UUIDValidator("id"), d.Notifications.MarkAsRead)

		protected.POST("/media/photos", d.Media.UploadPhoto)
		protected.DELETE("/media/:id", middleware.UUIDValidator("id"), d.Media.DeleteMedia)
	}

	return r
}

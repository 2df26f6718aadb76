package http

import (
	"github.com/gin-gonic/gin"
	"github.com/panellens/backend/config"
	"github.com/panellens/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler, log *zap.Logger) *gin.Engine {
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	if log == nil {
		log = zap.NewNop()
	}

	router := gin.New()

	// With no trusted proxies, ClientIP is the connection's remote address
	if err := router.SetTrustedProxies(cfg.Server.TrustedProxies); err != nil {
		log.Warn("Invalid trusted proxies, ignoring forwarded headers", zap.Error(err))
		_ = router.SetTrustedProxies(nil)
	}

	router.Use(logger.Recovery(log))
	router.Use(logger.GinMiddleware(log))
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))
	router.Use(RateLimitMiddleware(cfg.RateLimit.PerIP))

	router.GET("/health", handler.HealthCheck)

	v1 := router.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/login", handler.Login)
			auth.POST("/logout", handler.Logout)
		}

		protected := v1.Group("")
		protected.Use(SessionMiddleware(handler.auth, handler.cookie.Name))
		{
			inference := protected.Group("/inference")
			{
				inference.POST("/product", handler.InferProduct)
				inference.POST("/enrich", handler.EnrichTable)
			}

			shipments := protected.Group("/shipments")
			{
				shipments.GET("", handler.ListShipments)
				shipments.GET("/summary", handler.ShipmentSummary)
				shipments.GET("/filters", handler.FilterOptions)
				shipments.GET("/export.csv", handler.ExportShipments)
			}
		}
	}

	return router
}

package http

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/macrohero/backend/config"
	"github.com/macrohero/backend/internal/metrics"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler, log logrus.FieldLogger) *gin.Engine {
	// Set Gin mode based on environment
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(RecoveryMiddleware(log))
	router.Use(LoggerMiddleware(log))
	router.Use(MetricsMiddleware())
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	router.GET("/health", handler.HealthCheck)
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		plans := v1.Group("/plans")
		{
			plans.POST("", handler.CreatePlan)
			plans.GET("/:id", handler.GetPlan)
			plans.POST("/:id/load", handler.LoadPlan)
			plans.POST("/:id/meals/:slot/refresh", handler.RefreshMeal)
			plans.DELETE("/:id", handler.DeletePlan)
		}
	}

	return router
}

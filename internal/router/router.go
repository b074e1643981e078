package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/sellerpulse/ads-optimizer-backend/internal/handlers"
	"github.com/sellerpulse/ads-optimizer-backend/internal/middleware"
)

// Handlers bundles everything the router mounts
type Handlers struct {
	Status       *handlers.StatusHandler
	Optimization *handlers.OptimizationHandler
	Keyword      *handlers.KeywordHandler
	Budget       *handlers.BudgetHandler
	Protection   *handlers.ProtectionHandler
	Alert        *handlers.AlertHandler
	Sync         *handlers.SyncHandler
	Report       *handlers.ReportHandler
}

// SetupRouter configures the Gin router with the optimizer API routes
func SetupRouter(h *Handlers) *gin.Engine {
	// Set Gin mode
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(middleware.Logger())

	// Configure CORS
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-API-Key"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	logrus.Info("Swagger UI endpoint registered at /swagger/index.html")

	// API v1 routes
	api := r.Group("/api/v1")
	{
		api.GET("/health", h.Status.Health)

		protected := api.Group("")
		protected.Use(middleware.APIKeyAuth())
		{
			protected.GET("/status", h.Status.GetStatus)

			protected.POST("/optimization/run", h.Optimization.RunOptimization)
			protected.GET("/optimization/history", h.Optimization.GetHistory)

			protected.POST("/keywords/optimize", h.Keyword.RunOptimization)

			protected.GET("/budget/status", h.Budget.GetStatus)
			protected.GET("/budget/history", h.Budget.GetHistory)
			protected.POST("/budget/redistribute", h.Budget.Redistribute)

			protected.POST("/protection/check", h.Protection.RunCheck)
			protected.GET("/protection/settings", h.Protection.GetSettings)

			protected.GET("/alerts", h.Alert.GetAlerts)

			protected.POST("/sync/run", h.Sync.RunSync)

			protected.GET("/reports/optimization/export", h.Report.ExportOptimizationReport)
		}
	}

	return r
}

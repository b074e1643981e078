package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/sellerpulse/ads-optimizer-backend/docs"
	"github.com/sellerpulse/ads-optimizer-backend/internal/amazon"
	"github.com/sellerpulse/ads-optimizer-backend/internal/config"
	"github.com/sellerpulse/ads-optimizer-backend/internal/database"
	"github.com/sellerpulse/ads-optimizer-backend/internal/database/repository"
	"github.com/sellerpulse/ads-optimizer-backend/internal/handlers"
	"github.com/sellerpulse/ads-optimizer-backend/internal/router"
	"github.com/sellerpulse/ads-optimizer-backend/internal/scheduler"
	"github.com/sellerpulse/ads-optimizer-backend/internal/services"
	"github.com/sellerpulse/ads-optimizer-backend/internal/services/excel"
	"github.com/sellerpulse/ads-optimizer-backend/internal/utils"
)

// @title Ads Optimizer API
// @version 1.0
// @description Amazon Advertising campaign auto-optimization service

// @BasePath /api/v1
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	docs.SwaggerInfo.BasePath = getEnv("BASE_PATH", "/api/v1")

	// Configure logging
	configureLogging()

	// Initialize Sentry
	utils.InitSentry()

	// Initialize database connection
	db, err := database.InitDB()
	if err != nil {
		logrus.Fatalf("Failed to initialize database: %v", err)
	}

	// Amazon Advertising gateway
	amazonConfig := config.GetAmazonConfig()
	if !amazonConfig.IsConfigured() {
		logrus.Warn("Amazon Advertising credentials are not fully configured; remote calls will fail")
	}
	authService := amazon.NewAuthService(amazonConfig)
	client := amazon.NewClient(amazonConfig, authService)

	// Repositories
	campaignRepo := repository.NewCampaignRepository(db)
	keywordRepo := repository.NewKeywordRepository(db)
	metricRepo := repository.NewMetricRepository(db)
	budgetRepo := repository.NewBudgetRepository(db)
	actionRepo := repository.NewActionRepository(db)
	alertRepo := repository.NewAlertRepository(db)

	// Initialize RabbitMQ service for alert publishing
	var alertService *services.AlertService
	rabbitMQService, err := services.NewRabbitMQService()
	if err != nil {
		logrus.Warnf("Failed to initialize RabbitMQ, alerts will not be published: %v", err)
		alertService = services.NewAlertService(alertRepo, nil)
	} else {
		logrus.Info("RabbitMQ service initialized")
		defer rabbitMQService.Close()
		alertService = services.NewAlertService(alertRepo, rabbitMQService)
	}
	guard := services.NewRunGuard()
	budgetService := services.NewBudgetService(budgetRepo, metricRepo, campaignRepo, actionRepo, alertService)
	optimizationService := services.NewOptimizationService(campaignRepo, metricRepo, actionRepo, client, budgetService, guard)
	keywordService := services.NewKeywordService(campaignRepo, keywordRepo, actionRepo, client, guard)
	protectionService := services.NewProtectionService(campaignRepo, keywordRepo, metricRepo, actionRepo, alertService, client)
	syncService := services.NewSyncService(campaignRepo, keywordRepo, metricRepo, client)
	reportService := excel.NewReportService(actionRepo, alertRepo, budgetRepo, getEnv("EXPORTS_DIR", "exports"))

	// Background scheduler
	sched := scheduler.NewScheduler(syncService, optimizationService, keywordService, budgetService, protectionService, scheduler.DefaultIntervals())
	if getEnv("SCHEDULER_ENABLED", "true") == "true" {
		sched.Start()
		defer sched.Stop()
	} else {
		logrus.Info("Scheduler disabled by SCHEDULER_ENABLED")
	}

	// Router
	r := router.SetupRouter(&router.Handlers{
		Status:       handlers.NewStatusHandler(amazonConfig, authService, syncService, guard),
		Optimization: handlers.NewOptimizationHandler(optimizationService),
		Keyword:      handlers.NewKeywordHandler(keywordService),
		Budget:       handlers.NewBudgetHandler(budgetService),
		Protection:   handlers.NewProtectionHandler(protectionService),
		Alert:        handlers.NewAlertHandler(alertService),
		Sync:         handlers.NewSyncHandler(syncService),
		Report:       handlers.NewReportHandler(reportService),
	})

	// Configure HTTP server
	port := getEnv("PORT", "8080")
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", port),
		Handler: r,
	}

	// Start server in a goroutine
	go func() {
		logrus.Infof("Server starting on port %s", port)
		logrus.Infof("API Health Check: http://localhost:%s/api/v1/health", port)
		logrus.Infof("Swagger UI: http://localhost:%s/swagger/index.html", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logrus.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logrus.Fatalf("Server forced to shutdown: %v", err)
	}

	logrus.Info("Server exited properly")
}

func configureLogging() {
	logLevel := getEnv("LOG_LEVEL", "info")
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

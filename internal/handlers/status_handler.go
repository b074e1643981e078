package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sellerpulse/ads-optimizer-backend/internal/amazon"
	"github.com/sellerpulse/ads-optimizer-backend/internal/config"
	"github.com/sellerpulse/ads-optimizer-backend/internal/services"
)

type StatusHandler struct {
	amazonConfig *config.AmazonConfig
	authService  *amazon.AuthService
	syncService  *services.SyncService
	guard        *services.RunGuard
	startedAt    time.Time
}

func NewStatusHandler(amazonConfig *config.AmazonConfig, authService *amazon.AuthService, syncService *services.SyncService, guard *services.RunGuard) *StatusHandler {
	return &StatusHandler{
		amazonConfig: amazonConfig,
		authService:  authService,
		syncService:  syncService,
		guard:        guard,
		startedAt:    time.Now(),
	}
}

// Health godoc
// @Summary Health check
// @Description Liveness probe
// @Tags status
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/health [get]
func (h *StatusHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// GetStatus godoc
// @Summary Get optimizer status
// @Description Get configuration, token and run state of the optimizer
// @Tags status
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Router /api/v1/status [get]
func (h *StatusHandler) GetStatus(c *gin.Context) {
	var lastSync interface{}
	if t := h.syncService.LastSyncTime(); !t.IsZero() {
		lastSync = t
	}

	c.JSON(http.StatusOK, gin.H{
		"amazon_configured":    h.amazonConfig.IsConfigured(),
		"token_valid":          h.authService.HasValidToken(),
		"optimization_running": h.guard.IsRunning(),
		"last_sync":            lastSync,
		"uptime_seconds":       int(time.Since(h.startedAt).Seconds()),
	})
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sellerpulse/ads-optimizer-backend/internal/services"
)

type ProtectionHandler struct {
	protectionService *services.ProtectionService
}

func NewProtectionHandler(protectionService *services.ProtectionService) *ProtectionHandler {
	return &ProtectionHandler{
		protectionService: protectionService,
	}
}

// RunCheck godoc
// @Summary Run protection check
// @Description Run the daily cap, spend spike and bid ceiling checks immediately
// @Tags protection
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /api/v1/protection/check [post]
func (h *ProtectionHandler) RunCheck(c *gin.Context) {
	if err := h.protectionService.RunProtectionCheck(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Protection check failed", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Protection check completed"})
}

// GetSettings godoc
// @Summary Get protection settings
// @Description Get the active spend and bid protection limits
// @Tags protection
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Router /api/v1/protection/settings [get]
func (h *ProtectionHandler) GetSettings(c *gin.Context) {
	cfg := h.protectionService.GetSettings()
	c.JSON(http.StatusOK, gin.H{
		"max_daily_spend": cfg.MaxDailySpend,
		"max_keyword_bid": cfg.MaxKeywordBid,
		"spike_threshold": cfg.SpikeThreshold,
	})
}

package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/sellerpulse/ads-optimizer-backend/internal/services"
)

type AlertHandler struct {
	alertService *services.AlertService
}

func NewAlertHandler(alertService *services.AlertService) *AlertHandler {
	return &AlertHandler{
		alertService: alertService,
	}
}

// GetAlerts godoc
// @Summary Get recent alerts
// @Description Get the most recent protection and budget alerts, newest first
// @Tags alerts
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param limit query int false "Maximum records to return" default(100)
// @Success 200 {array} models.Alert
// @Failure 401 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /api/v1/alerts [get]
func (h *AlertHandler) GetAlerts(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))

	alerts, err := h.alertService.GetRecent(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get alerts", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, alerts)
}

package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/sellerpulse/ads-optimizer-backend/internal/services"
)

type OptimizationHandler struct {
	optimizationService *services.OptimizationService
}

func NewOptimizationHandler(optimizationService *services.OptimizationService) *OptimizationHandler {
	return &OptimizationHandler{
		optimizationService: optimizationService,
	}
}

// RunOptimization godoc
// @Summary Run campaign optimization
// @Description Evaluate every non-archived campaign and apply lifecycle/budget actions. Returns an empty list when a pass is already running.
// @Tags optimization
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /api/v1/optimization/run [post]
func (h *OptimizationHandler) RunOptimization(c *gin.Context) {
	actions, err := h.optimizationService.RunOptimization(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Optimization run failed", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"actions_taken": len(actions),
		"actions":       actions,
	})
}

// GetHistory godoc
// @Summary Get optimization history
// @Description Get the most recent optimization actions, newest first
// @Tags optimization
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param limit query int false "Maximum records to return" default(100)
// @Success 200 {array} models.OptimizationAction
// @Failure 401 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /api/v1/optimization/history [get]
func (h *OptimizationHandler) GetHistory(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))

	actions, err := h.optimizationService.GetRecentActions(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get optimization history", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, actions)
}

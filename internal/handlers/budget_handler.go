package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/sellerpulse/ads-optimizer-backend/internal/services"
)

type BudgetHandler struct {
	budgetService *services.BudgetService
}

func NewBudgetHandler(budgetService *services.BudgetService) *BudgetHandler {
	return &BudgetHandler{
		budgetService: budgetService,
	}
}

// GetStatus godoc
// @Summary Get monthly budget status
// @Description Get the current month's budget ledger with projections
// @Tags budget
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} models.BudgetStatus
// @Failure 401 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /api/v1/budget/status [get]
func (h *BudgetHandler) GetStatus(c *gin.Context) {
	status, err := h.budgetService.GetCurrentMonthStatus()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get budget status", "details": err.Error()})
		return
	}

	recommended, err := h.budgetService.GetRecommendedDailyBudget()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute recommended budget", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":                   status,
		"recommended_daily_budget": recommended,
	})
}

// GetHistory godoc
// @Summary Get budget history
// @Description Get the monthly budget ledger for past months, newest first
// @Tags budget
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param months query int false "Number of months" default(12)
// @Success 200 {array} models.BudgetHistoryEntry
// @Failure 401 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /api/v1/budget/history [get]
func (h *BudgetHandler) GetHistory(c *gin.Context) {
	months, _ := strconv.Atoi(c.DefaultQuery("months", "12"))

	entries, err := h.budgetService.GetBudgetHistory(months)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get budget history", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, entries)
}

// Redistribute godoc
// @Summary Redistribute campaign budgets
// @Description Re-split daily budgets across enabled campaigns by trailing performance
// @Tags budget
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /api/v1/budget/redistribute [post]
func (h *BudgetHandler) Redistribute(c *gin.Context) {
	actions, err := h.budgetService.RedistributeBudget()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Budget redistribution failed", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"campaigns_adjusted": len(actions),
		"actions":            actions,
	})
}

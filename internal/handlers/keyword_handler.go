package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sellerpulse/ads-optimizer-backend/internal/services"
)

type KeywordHandler struct {
	keywordService *services.KeywordService
}

func NewKeywordHandler(keywordService *services.KeywordService) *KeywordHandler {
	return &KeywordHandler{
		keywordService: keywordService,
	}
}

// RunOptimization godoc
// @Summary Run keyword optimization
// @Description Mine search terms, promote/pause keywords and retune bids for every enabled campaign. Returns zero counts when a pass is already running.
// @Tags keywords
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} models.KeywordOptimizationResult
// @Failure 401 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /api/v1/keywords/optimize [post]
func (h *KeywordHandler) RunOptimization(c *gin.Context) {
	result, err := h.keywordService.RunOptimization(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Keyword optimization failed", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

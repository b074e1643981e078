package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sellerpulse/ads-optimizer-backend/internal/services"
)

type SyncHandler struct {
	syncService *services.SyncService
}

func NewSyncHandler(syncService *services.SyncService) *SyncHandler {
	return &SyncHandler{
		syncService: syncService,
	}
}

// RunSync godoc
// @Summary Sync remote state
// @Description Pull campaigns, keywords and daily metrics from Amazon into the local store. Calls within the cache window return the previous result marked skipped.
// @Tags sync
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} services.SyncResult
// @Failure 401 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /api/v1/sync/run [post]
func (h *SyncHandler) RunSync(c *gin.Context) {
	result, err := h.syncService.SyncAll(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Sync failed", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/sellerpulse/ads-optimizer-backend/internal/services/excel"
)

type ReportHandler struct {
	reportService *excel.Service
}

func NewReportHandler(reportService *excel.Service) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
	}
}

// ExportOptimizationReport godoc
// @Summary Export optimization report
// @Description Export recent optimization actions, alerts and the budget ledger as an Excel workbook
// @Tags reports
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security ApiKeyAuth
// @Param limit query int false "Maximum actions to include" default(1000)
// @Success 200 {file} file
// @Failure 401 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /api/v1/reports/optimization/export [get]
func (h *ReportHandler) ExportOptimizationReport(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "1000"))

	result, err := h.reportService.ExportOptimizationReport(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to export report", "details": err.Error()})
		return
	}

	c.FileAttachment(result.FilePath, result.Filename)
}

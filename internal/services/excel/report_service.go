package excel

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/sellerpulse/ads-optimizer-backend/internal/database/repository"
)

// Service builds Excel exports of optimization activity
type Service struct {
	actionRepo *repository.ActionRepository
	alertRepo  *repository.AlertRepository
	budgetRepo *repository.BudgetRepository
	exportsDir string
}

// NewReportService creates a new report export service
func NewReportService(
	actionRepo *repository.ActionRepository,
	alertRepo *repository.AlertRepository,
	budgetRepo *repository.BudgetRepository,
	exportsDir string) *Service {
	if _, err := os.Stat(exportsDir); os.IsNotExist(err) {
		os.MkdirAll(exportsDir, 0755)
	}

	return &Service{
		actionRepo: actionRepo,
		alertRepo:  alertRepo,
		budgetRepo: budgetRepo,
		exportsDir: exportsDir,
	}
}

// ExportResult contains the result of an export operation
type ExportResult struct {
	Success  bool
	Message  string
	Filename string
	FilePath string
}

// ExportOptimizationReport writes the recent optimization actions, alerts and
// the monthly budget ledger into one workbook.
func (s *Service) ExportOptimizationReport(actionLimit int) (*ExportResult, error) {
	if actionLimit <= 0 || actionLimit > 5000 {
		actionLimit = 1000
	}

	actions, err := s.actionRepo.GetRecent(actionLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to get actions: %w", err)
	}
	alerts, err := s.alertRepo.GetRecent(actionLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to get alerts: %w", err)
	}
	budgets, err := s.budgetRepo.GetRecent(12)
	if err != nil {
		return nil, fmt.Errorf("failed to get budget history: %w", err)
	}

	timestamp := time.Now().Unix()
	filename := fmt.Sprintf("optimization_report_%d.xlsx", timestamp)
	filePath := filepath.Join(s.exportsDir, filename)

	f := excelize.NewFile()

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"D9E1F2"}, // Light blue
			Pattern: 1,
		},
	})

	criticalStyle, _ := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"FFC7CE"}, // Light red
			Pattern: 1,
		},
	})

	// Actions sheet
	const actionsSheet = "Actions"
	f.SetSheetName("Sheet1", actionsSheet)
	actionHeaders := []string{"Timestamp", "Campaign ID", "Keyword", "Action", "Old Value", "New Value", "Reason"}
	for i, h := range actionHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(actionsSheet, cell, h)
		f.SetCellStyle(actionsSheet, cell, cell, headerStyle)
	}
	for row, a := range actions {
		values := []interface{}{
			a.CreatedAt.Format("2006-01-02 15:04:05"),
			a.CampaignID,
			a.KeywordText,
			a.Action,
			a.OldValue,
			a.NewValue,
			a.Reason,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(actionsSheet, cell, v)
		}
	}

	// Alerts sheet
	const alertsSheet = "Alerts"
	f.NewSheet(alertsSheet)
	alertHeaders := []string{"Timestamp", "Type", "Severity", "Campaign", "Title", "Message"}
	for i, h := range alertHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(alertsSheet, cell, h)
		f.SetCellStyle(alertsSheet, cell, cell, headerStyle)
	}
	for row, a := range alerts {
		values := []interface{}{
			a.CreatedAt.Format("2006-01-02 15:04:05"),
			a.Type,
			a.Severity,
			a.CampaignName,
			a.Title,
			a.Message,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(alertsSheet, cell, v)
		}
		if a.Severity == "CRITICAL" {
			start, _ := excelize.CoordinatesToCellName(1, row+2)
			end, _ := excelize.CoordinatesToCellName(len(values), row+2)
			f.SetCellStyle(alertsSheet, start, end, criticalStyle)
		}
	}

	// Budget sheet
	const budgetSheet = "Budget"
	f.NewSheet(budgetSheet)
	budgetHeaders := []string{"Month", "Total Budget", "Spent", "Remaining"}
	for i, h := range budgetHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(budgetSheet, cell, h)
		f.SetCellStyle(budgetSheet, cell, cell, headerStyle)
	}
	for row, b := range budgets {
		values := []interface{}{
			b.Month.Format("2006-01"),
			b.TotalBudget,
			b.Spent,
			b.Remaining,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(budgetSheet, cell, v)
		}
	}

	if err := f.SaveAs(filePath); err != nil {
		return nil, fmt.Errorf("failed to save report file: %w", err)
	}

	return &ExportResult{
		Success:  true,
		Message:  fmt.Sprintf("Exported %d actions, %d alerts, %d budget months", len(actions), len(alerts), len(budgets)),
		Filename: filename,
		FilePath: filePath,
	}, nil
}

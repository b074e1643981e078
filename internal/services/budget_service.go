package services

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/sellerpulse/ads-optimizer-backend/internal/config"
	"github.com/sellerpulse/ads-optimizer-backend/internal/models"
)

const (
	// Recorded spend and the metric-table sum may drift by float noise;
	// anything beyond a cent triggers a ledger rewrite.
	spendTolerance = 0.01

	budgetWarningPercent = 80.0

	redistributionWindow = 7 * 24 * time.Hour
	campaignBudgetMin    = 10.0
	campaignBudgetMax    = 200.0
)

type BudgetService struct {
	budgetRepo   budgetStore
	metricRepo   metricStore
	campaignRepo campaignStore
	actionRepo   actionStore
	alerts       *AlertService
	budgetCfg    *config.BudgetConfig

	now func() time.Time
}

func NewBudgetService(budgetRepo budgetStore, metricRepo metricStore, campaignRepo campaignStore, actionRepo actionStore, alerts *AlertService) *BudgetService {
	return &BudgetService{
		budgetRepo:   budgetRepo,
		metricRepo:   metricRepo,
		campaignRepo: campaignRepo,
		actionRepo:   actionRepo,
		alerts:       alerts,
		budgetCfg:    config.GetBudgetConfig(),
		now:          time.Now,
	}
}

// GetCurrentMonthStatus returns the ledger view for the running month,
// creating the month's record on first access and reconciling its spent
// figure against the metrics table.
func (s *BudgetService) GetCurrentMonthStatus() (*models.BudgetStatus, error) {
	now := s.now()
	record, err := s.currentRecord(now)
	if err != nil {
		return nil, err
	}

	monthStart := monthFloor(now)
	actualSpent, err := s.metricRepo.SumSpendBetween(monthStart, now)
	if err != nil {
		return nil, fmt.Errorf("failed to sum month spend: %w", err)
	}

	if math.Abs(record.Spent-actualSpent) > spendTolerance {
		record.Spent = actualSpent
		record.Remaining = record.TotalBudget - actualSpent
		if err := s.budgetRepo.Update(record); err != nil {
			return nil, fmt.Errorf("failed to reconcile budget record: %w", err)
		}
	}

	daysInMonth := monthStart.AddDate(0, 1, 0).Sub(monthStart).Hours() / 24
	daysElapsed := now.Day()
	daysRemaining := int(daysInMonth) - daysElapsed

	avgDaily := record.Spent / float64(daysElapsed)
	perRemainingDay := record.Remaining
	if daysRemaining > 0 {
		perRemainingDay = record.Remaining / float64(daysRemaining)
	}

	percentUsed := 0.0
	if record.TotalBudget > 0 {
		percentUsed = record.Spent / record.TotalBudget * 100
	}

	return &models.BudgetStatus{
		Month:                 monthStart.Format("2006-01"),
		TotalBudget:           record.TotalBudget,
		Spent:                 round2(record.Spent),
		Remaining:             round2(record.Remaining),
		PercentUsed:           round2(percentUsed),
		AverageDailySpend:     round2(avgDaily),
		ProjectedMonthlySpend: round2(avgDaily * daysInMonth),
		DaysElapsed:           daysElapsed,
		DaysRemaining:         daysRemaining,
		BudgetPerRemainingDay: round2(perRemainingDay),
	}, nil
}

// CanSpendMore reports whether the month still has budget left
func (s *BudgetService) CanSpendMore() (bool, error) {
	status, err := s.GetCurrentMonthStatus()
	if err != nil {
		return false, err
	}
	return status.Remaining > 0, nil
}

// GetRecommendedDailyBudget spreads the remaining budget across the
// remaining days of the month.
func (s *BudgetService) GetRecommendedDailyBudget() (float64, error) {
	status, err := s.GetCurrentMonthStatus()
	if err != nil {
		return 0, err
	}
	if status.Remaining <= 0 {
		return 0, nil
	}
	days := status.DaysRemaining
	if days < 1 {
		days = 1
	}
	return round2(status.Remaining / float64(days)), nil
}

// CheckBudget reconciles the month ledger and raises alerts when spend
// crosses the warning or exceeded thresholds. Run daily by the scheduler.
func (s *BudgetService) CheckBudget() (*models.BudgetStatus, error) {
	status, err := s.GetCurrentMonthStatus()
	if err != nil {
		return nil, err
	}

	switch {
	case status.PercentUsed >= 100:
		s.raise(&AlertInput{
			Type:     models.AlertTypeBudgetExceeded,
			Severity: models.AlertSeverityCritical,
			Title:    "Monthly budget exceeded",
			Message:  fmt.Sprintf("Spent %.2f of %.2f (%.1f%%) for %s", status.Spent, status.TotalBudget, status.PercentUsed, status.Month),
			Data:     map[string]interface{}{"spent": status.Spent, "total_budget": status.TotalBudget},
		})
	case status.PercentUsed >= budgetWarningPercent:
		s.raise(&AlertInput{
			Type:     models.AlertTypeBudgetWarning,
			Severity: models.AlertSeverityWarning,
			Title:    "Monthly budget warning",
			Message:  fmt.Sprintf("Spent %.2f of %.2f (%.1f%%) for %s", status.Spent, status.TotalBudget, status.PercentUsed, status.Month),
			Data:     map[string]interface{}{"spent": status.Spent, "total_budget": status.TotalBudget},
		})
	}

	return status, nil
}

// GetBudgetHistory returns the last n months of the ledger, newest first
func (s *BudgetService) GetBudgetHistory(months int) ([]*models.BudgetHistoryEntry, error) {
	if months <= 0 || months > 36 {
		months = 12
	}
	records, err := s.budgetRepo.GetRecent(months)
	if err != nil {
		return nil, err
	}

	entries := make([]*models.BudgetHistoryEntry, 0, len(records))
	for _, r := range records {
		percentUsed := 0.0
		if r.TotalBudget > 0 {
			percentUsed = r.Spent / r.TotalBudget * 100
		}
		entries = append(entries, &models.BudgetHistoryEntry{
			Month:       r.Month.Format("2006-01"),
			TotalBudget: r.TotalBudget,
			Spent:       round2(r.Spent),
			Remaining:   round2(r.Remaining),
			PercentUsed: round2(percentUsed),
			UnderBudget: r.Spent <= r.TotalBudget,
		})
	}
	return entries, nil
}

// RedistributeBudget re-splits daily budgets across enabled campaigns by
// trailing 7 day performance. Strong performers gain budget, weak ones
// lose it; results are clamped to the per-campaign bounds. A failure on
// one campaign does not abort the rest.
func (s *BudgetService) RedistributeBudget() ([]*models.CampaignAction, error) {
	campaigns, err := s.campaignRepo.GetByStatus(models.CampaignStatusEnabled)
	if err != nil {
		return nil, fmt.Errorf("failed to load enabled campaigns: %w", err)
	}

	now := s.now()
	start := now.Add(-redistributionWindow)

	type rated struct {
		campaign *models.Campaign
		acos     float64
		spend    float64
		sales    float64
	}

	ratings := make([]rated, 0, len(campaigns))
	for _, c := range campaigns {
		metrics, err := s.metricRepo.FindBetween(c.CampaignID, start, now)
		if err != nil {
			logrus.Warnf("Budget redistribution: failed to load metrics for campaign %s: %v", c.CampaignID, err)
			continue
		}
		var spend, sales float64
		for _, m := range metrics {
			spend += m.Spend
			sales += m.Sales
		}
		ratings = append(ratings, rated{campaign: c, acos: computeAcos(spend, sales), spend: spend, sales: sales})
	}

	// Best performers first so they are resized before the budget tightens
	sort.SliceStable(ratings, func(i, j int) bool {
		return ratings[i].acos < ratings[j].acos
	})

	actions := make([]*models.CampaignAction, 0)
	for _, r := range ratings {
		factor := 1.0
		reason := ""
		switch {
		case r.acos < 10 && r.sales > 50:
			factor = 1.5
			reason = fmt.Sprintf("Excellent performance (ACoS: %.2f%%, sales: %.2f)", r.acos, r.sales)
		case r.acos >= 10 && r.acos < 20 && r.sales > 20:
			factor = 1.25
			reason = fmt.Sprintf("Good performance (ACoS: %.2f%%, sales: %.2f)", r.acos, r.sales)
		case r.acos >= 20 && r.acos < 35:
			// average performers keep their budget
		case r.acos >= 35 || (r.spend > 50 && r.sales < 10):
			factor = 0.5
			reason = fmt.Sprintf("Poor performance (ACoS: %.2f%%, spend: %.2f, sales: %.2f)", r.acos, r.spend, r.sales)
		}

		newBudget := round2(clamp(r.campaign.Budget*factor, campaignBudgetMin, campaignBudgetMax))
		if newBudget == r.campaign.Budget {
			continue
		}

		if err := s.campaignRepo.UpdateBudget(r.campaign.CampaignID, newBudget); err != nil {
			logrus.Errorf("Budget redistribution: failed to update campaign %s: %v", r.campaign.CampaignID, err)
			continue
		}

		action := &models.CampaignAction{
			CampaignID:   r.campaign.CampaignID,
			CampaignName: r.campaign.Name,
			Action:       models.ActionBudgetSet,
			OldValue:     fmt.Sprintf("%.2f", r.campaign.Budget),
			NewValue:     fmt.Sprintf("%.2f", newBudget),
			Reason:       reason,
		}
		actions = append(actions, action)

		if err := s.actionRepo.Create(&models.OptimizationAction{
			CampaignID: r.campaign.CampaignID,
			Action:     models.ActionBudgetSet,
			OldValue:   action.OldValue,
			NewValue:   action.NewValue,
			Reason:     reason,
			CreatedAt:  now,
		}); err != nil {
			logrus.Warnf("Failed to record budget action for campaign %s: %v", r.campaign.CampaignID, err)
		}
	}

	logrus.Infof("Budget redistribution complete: %d campaigns adjusted", len(actions))
	return actions, nil
}

func (s *BudgetService) currentRecord(now time.Time) (*models.BudgetRecord, error) {
	monthStart := monthFloor(now)
	record, err := s.budgetRepo.GetByMonth(monthStart)
	if err != nil {
		return nil, fmt.Errorf("failed to load budget record: %w", err)
	}
	if record != nil {
		return record, nil
	}

	record = &models.BudgetRecord{
		Month:       monthStart,
		TotalBudget: s.budgetCfg.MonthlyMax,
		Spent:       0,
		Remaining:   s.budgetCfg.MonthlyMax,
	}
	if err := s.budgetRepo.Create(record); err != nil {
		return nil, fmt.Errorf("failed to create budget record: %w", err)
	}
	return record, nil
}

func (s *BudgetService) raise(input *AlertInput) {
	if s.alerts == nil {
		return
	}
	if err := s.alerts.Send(input); err != nil {
		logrus.Warnf("Failed to raise budget alert: %v", err)
	}
}

func monthFloor(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// computeAcos returns spend as a percentage of sales. Spend with no sales
// yields the sentinel so it sorts and tiers as the worst possible ACoS.
func computeAcos(spend, sales float64) float64 {
	if sales > 0 {
		return spend / sales * 100
	}
	if spend > 0 {
		return models.AcosNoSales
	}
	return 0
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

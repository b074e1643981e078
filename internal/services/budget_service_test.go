package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sellerpulse/ads-optimizer-backend/internal/models"
)

func newTestBudgetService(budgets *fakeBudgetStore, metrics *fakeMetricStore, campaigns *fakeCampaignStore, actions *fakeActionStore, alerts *fakeAlertStore) *BudgetService {
	svc := NewBudgetService(budgets, metrics, campaigns, actions, NewAlertService(alerts, nil))
	svc.now = func() time.Time { return testNow }
	return svc
}

func TestBudgetStatusCreatesMonthRecordLazily(t *testing.T) {
	budgets := newFakeBudgetStore()
	metrics := newFakeMetricStore(
		&models.PerformanceMetric{CampaignID: "c1", Date: testNow.AddDate(0, 0, -1), Spend: 300},
		&models.PerformanceMetric{CampaignID: "c2", Date: testNow.AddDate(0, 0, -2), Spend: 200},
	)
	svc := newTestBudgetService(budgets, metrics, newFakeCampaignStore(), newFakeActionStore(), newFakeAlertStore())

	status, err := svc.GetCurrentMonthStatus()
	require.NoError(t, err)
	require.Len(t, budgets.records, 1)

	assert.Equal(t, "2026-08", status.Month)
	assert.Equal(t, 2000.0, status.TotalBudget)
	assert.Equal(t, 500.0, status.Spent)
	assert.Equal(t, 1500.0, status.Remaining)
	assert.Equal(t, 20, status.DaysElapsed)
	assert.Equal(t, 11, status.DaysRemaining)
	assert.Equal(t, 25.0, status.AverageDailySpend)
	assert.Equal(t, 775.0, status.ProjectedMonthlySpend)
	assert.Equal(t, 25.0, status.PercentUsed)

	// Conservation after every recompute
	assert.Equal(t, status.TotalBudget-status.Spent, status.Remaining)
}

func TestBudgetStatusReconcilesDriftedSpend(t *testing.T) {
	month := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	budgets := newFakeBudgetStore(&models.BudgetRecord{Month: month, TotalBudget: 2000, Spent: 100, Remaining: 1900})
	metrics := newFakeMetricStore(
		&models.PerformanceMetric{CampaignID: "c1", Date: testNow.AddDate(0, 0, -1), Spend: 400},
	)
	svc := newTestBudgetService(budgets, metrics, newFakeCampaignStore(), newFakeActionStore(), newFakeAlertStore())

	status, err := svc.GetCurrentMonthStatus()
	require.NoError(t, err)

	assert.Equal(t, 400.0, status.Spent)
	assert.Equal(t, 1600.0, status.Remaining)
	assert.Equal(t, 1, budgets.updates)
}

func TestBudgetStatusToleratesFloatNoise(t *testing.T) {
	month := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	budgets := newFakeBudgetStore(&models.BudgetRecord{Month: month, TotalBudget: 2000, Spent: 400.005, Remaining: 1599.995})
	metrics := newFakeMetricStore(
		&models.PerformanceMetric{CampaignID: "c1", Date: testNow.AddDate(0, 0, -1), Spend: 400},
	)
	svc := newTestBudgetService(budgets, metrics, newFakeCampaignStore(), newFakeActionStore(), newFakeAlertStore())

	_, err := svc.GetCurrentMonthStatus()
	require.NoError(t, err)
	assert.Equal(t, 0, budgets.updates)
}

func TestCheckBudgetRaisesWarningAndCritical(t *testing.T) {
	cases := []struct {
		name     string
		spend    float64
		wantType string
	}{
		{"warning at 80 percent", 1700, models.AlertTypeBudgetWarning},
		{"critical when exceeded", 2100, models.AlertTypeBudgetExceeded},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			alerts := newFakeAlertStore()
			metrics := newFakeMetricStore(
				&models.PerformanceMetric{CampaignID: "c1", Date: testNow.AddDate(0, 0, -1), Spend: tc.spend},
			)
			svc := newTestBudgetService(newFakeBudgetStore(), metrics, newFakeCampaignStore(), newFakeActionStore(), alerts)

			_, err := svc.CheckBudget()
			require.NoError(t, err)
			require.Len(t, alerts.alerts, 1)
			assert.Equal(t, tc.wantType, alerts.alerts[0].Type)
		})
	}
}

func redistributionMetrics(campaignID string, spend, sales float64) []*models.PerformanceMetric {
	return []*models.PerformanceMetric{
		{CampaignID: campaignID, Date: testNow.AddDate(0, 0, -1), Spend: spend, Sales: sales},
	}
}

func TestRedistributeBudgetTiers(t *testing.T) {
	excellent := &models.Campaign{CampaignID: "exc", Status: models.CampaignStatusEnabled, Budget: 100}
	good := &models.Campaign{CampaignID: "good", Status: models.CampaignStatusEnabled, Budget: 100}
	average := &models.Campaign{CampaignID: "avg", Status: models.CampaignStatusEnabled, Budget: 100}
	poor := &models.Campaign{CampaignID: "poor", Status: models.CampaignStatusEnabled, Budget: 100}

	campaigns := newFakeCampaignStore(poor, average, good, excellent)
	var rows []*models.PerformanceMetric
	rows = append(rows, redistributionMetrics("exc", 5, 100)...)   // ACoS 5, sales 100
	rows = append(rows, redistributionMetrics("good", 4.5, 30)...) // ACoS 15, sales 30
	rows = append(rows, redistributionMetrics("avg", 25, 100)...)  // ACoS 25
	rows = append(rows, redistributionMetrics("poor", 40, 100)...) // ACoS 40
	metrics := newFakeMetricStore(rows...)
	actions := newFakeActionStore()

	svc := newTestBudgetService(newFakeBudgetStore(), metrics, campaigns, actions, newFakeAlertStore())
	result, err := svc.RedistributeBudget()
	require.NoError(t, err)

	assert.Equal(t, 150.0, campaigns.budgetUpdates["exc"])
	assert.Equal(t, 125.0, campaigns.budgetUpdates["good"])
	assert.Equal(t, 50.0, campaigns.budgetUpdates["poor"])
	_, avgTouched := campaigns.budgetUpdates["avg"]
	assert.False(t, avgTouched, "average tier keeps its budget")

	// Best performers are evaluated first
	require.Len(t, result, 3)
	assert.Equal(t, "exc", result[0].CampaignID)
	assert.Equal(t, "good", result[1].CampaignID)
	assert.Equal(t, "poor", result[2].CampaignID)
	assert.Len(t, actions.actions, 3)
}

func TestRedistributeBudgetClamps(t *testing.T) {
	big := &models.Campaign{CampaignID: "big", Status: models.CampaignStatusEnabled, Budget: 180}
	small := &models.Campaign{CampaignID: "small", Status: models.CampaignStatusEnabled, Budget: 15}

	campaigns := newFakeCampaignStore(big, small)
	var rows []*models.PerformanceMetric
	rows = append(rows, redistributionMetrics("big", 5, 100)...)    // excellent, 270 clamped to 200
	rows = append(rows, redistributionMetrics("small", 40, 100)...) // poor, 7.50 clamped to 10
	metrics := newFakeMetricStore(rows...)

	svc := newTestBudgetService(newFakeBudgetStore(), metrics, campaigns, newFakeActionStore(), newFakeAlertStore())
	_, err := svc.RedistributeBudget()
	require.NoError(t, err)

	assert.Equal(t, 200.0, campaigns.budgetUpdates["big"])
	assert.Equal(t, 10.0, campaigns.budgetUpdates["small"])
}

func TestRedistributeBudgetZeroSalesSpenderIsPoor(t *testing.T) {
	burner := &models.Campaign{CampaignID: "burn", Status: models.CampaignStatusEnabled, Budget: 100}
	campaigns := newFakeCampaignStore(burner)
	metrics := newFakeMetricStore(redistributionMetrics("burn", 60, 0)...)

	svc := newTestBudgetService(newFakeBudgetStore(), metrics, campaigns, newFakeActionStore(), newFakeAlertStore())
	_, err := svc.RedistributeBudget()
	require.NoError(t, err)

	assert.Equal(t, 50.0, campaigns.budgetUpdates["burn"])
}

func TestRedistributeBudgetPartialFailureIsolation(t *testing.T) {
	first := &models.Campaign{CampaignID: "c1", Status: models.CampaignStatusEnabled, Budget: 100}
	second := &models.Campaign{CampaignID: "c2", Status: models.CampaignStatusEnabled, Budget: 100}
	campaigns := newFakeCampaignStore(first, second)
	campaigns.failBudgetUpdate["c1"] = true

	var rows []*models.PerformanceMetric
	rows = append(rows, redistributionMetrics("c1", 5, 100)...)
	rows = append(rows, redistributionMetrics("c2", 40, 100)...)
	metrics := newFakeMetricStore(rows...)

	svc := newTestBudgetService(newFakeBudgetStore(), metrics, campaigns, newFakeActionStore(), newFakeAlertStore())
	result, err := svc.RedistributeBudget()
	require.NoError(t, err)

	require.Len(t, result, 1)
	assert.Equal(t, "c2", result[0].CampaignID)
	assert.Equal(t, 50.0, campaigns.budgetUpdates["c2"])
}

func TestBudgetHistoryMapsLedger(t *testing.T) {
	budgets := newFakeBudgetStore(
		&models.BudgetRecord{Month: time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC), TotalBudget: 2000, Spent: 1954.01, Remaining: 45.99},
		&models.BudgetRecord{Month: time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC), TotalBudget: 2000, Spent: 2100, Remaining: -100},
	)
	svc := newTestBudgetService(budgets, newFakeMetricStore(), newFakeCampaignStore(), newFakeActionStore(), newFakeAlertStore())

	entries, err := svc.GetBudgetHistory(12)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, "2026-07", entries[0].Month)
	assert.True(t, entries[0].UnderBudget)
	assert.Equal(t, 97.70, entries[0].PercentUsed)
	assert.False(t, entries[1].UnderBudget)
}

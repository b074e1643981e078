package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sellerpulse/ads-optimizer-backend/internal/models"
)

var testNow = time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)

func newTestOptimizationService(campaigns *fakeCampaignStore, metrics *fakeMetricStore, actions *fakeActionStore, gateway *fakeGateway) *OptimizationService {
	svc := NewOptimizationService(campaigns, metrics, actions, gateway, &fakeSpendGate{can: true}, NewRunGuard())
	svc.now = func() time.Time { return testNow }
	return svc
}

// dailyMetrics spreads spend/sales evenly over the given number of recent days
func dailyMetrics(campaignID string, days int, spend, sales float64) []*models.PerformanceMetric {
	out := make([]*models.PerformanceMetric, 0, days)
	for i := 1; i <= days; i++ {
		out = append(out, &models.PerformanceMetric{
			CampaignID: campaignID,
			Date:       testNow.AddDate(0, 0, -i),
			Spend:      spend / float64(days),
			Sales:      sales / float64(days),
		})
	}
	return out
}

func TestOptimizationPausesCampaignInPauseRange(t *testing.T) {
	campaign := &models.Campaign{CampaignID: "c1", Name: "Garden", Status: models.CampaignStatusEnabled, Budget: 50}
	campaigns := newFakeCampaignStore(campaign)
	metrics := newFakeMetricStore(dailyMetrics("c1", 5, 50, 100)...) // ACoS 50%
	actions := newFakeActionStore()
	gateway := newFakeGateway()

	svc := newTestOptimizationService(campaigns, metrics, actions, gateway)
	result, err := svc.RunOptimization(context.Background())
	require.NoError(t, err)
	require.Len(t, result, 1)

	assert.Equal(t, models.ActionPause, result[0].Action)
	assert.Equal(t, models.CampaignStatusPaused, campaigns.statusUpdates["c1"])
	assert.Len(t, gateway.callsTo("PUT", "/sp/campaigns/c1"), 1)
	require.Len(t, actions.actions, 1)
	assert.Contains(t, actions.actions[0].Reason, "50.00")
}

func TestOptimizationArchivesAbovePauseMax(t *testing.T) {
	campaign := &models.Campaign{CampaignID: "c1", Status: models.CampaignStatusEnabled, Budget: 50}
	campaigns := newFakeCampaignStore(campaign)
	metrics := newFakeMetricStore(dailyMetrics("c1", 5, 70, 100)...) // ACoS 70%
	svc := newTestOptimizationService(campaigns, metrics, newFakeActionStore(), newFakeGateway())

	result, err := svc.RunOptimization(context.Background())
	require.NoError(t, err)
	require.Len(t, result, 1)

	assert.Equal(t, models.ActionArchive, result[0].Action)
	assert.Equal(t, models.CampaignStatusArchived, campaigns.statusUpdates["c1"])
}

func TestOptimizationScalesWithinTargetRange(t *testing.T) {
	campaign := &models.Campaign{CampaignID: "c1", Status: models.CampaignStatusEnabled, Budget: 50}
	campaigns := newFakeCampaignStore(campaign)
	metrics := newFakeMetricStore(dailyMetrics("c1", 7, 80, 1000)...) // ACoS 8%
	svc := newTestOptimizationService(campaigns, metrics, newFakeActionStore(), newFakeGateway())

	result, err := svc.RunOptimization(context.Background())
	require.NoError(t, err)
	require.Len(t, result, 1)

	assert.Equal(t, models.ActionBudgetIncrease, result[0].Action)
	assert.Equal(t, "55.00", result[0].NewValue)
	assert.Equal(t, 55.00, campaigns.budgetUpdates["c1"])
}

func TestOptimizationAggressiveScaleBelowTargetMin(t *testing.T) {
	campaign := &models.Campaign{CampaignID: "c1", Status: models.CampaignStatusEnabled, Budget: 50}
	campaigns := newFakeCampaignStore(campaign)
	metrics := newFakeMetricStore(dailyMetrics("c1", 5, 30, 1000)...) // ACoS 3%
	svc := newTestOptimizationService(campaigns, metrics, newFakeActionStore(), newFakeGateway())

	result, err := svc.RunOptimization(context.Background())
	require.NoError(t, err)
	require.Len(t, result, 1)

	assert.Equal(t, models.ActionBudgetIncrease, result[0].Action)
	assert.Equal(t, 60.00, campaigns.budgetUpdates["c1"])
}

func TestOptimizationReducesBetweenTargetMaxAndPauseMin(t *testing.T) {
	campaign := &models.Campaign{CampaignID: "c1", Status: models.CampaignStatusEnabled, Budget: 50}
	campaigns := newFakeCampaignStore(campaign)
	metrics := newFakeMetricStore(dailyMetrics("c1", 5, 250, 1000)...) // ACoS 25%
	svc := newTestOptimizationService(campaigns, metrics, newFakeActionStore(), newFakeGateway())

	result, err := svc.RunOptimization(context.Background())
	require.NoError(t, err)
	require.Len(t, result, 1)

	assert.Equal(t, models.ActionBudgetDecrease, result[0].Action)
	assert.Equal(t, 42.50, campaigns.budgetUpdates["c1"])
}

func TestOptimizationBudgetCapProducesNoAction(t *testing.T) {
	campaign := &models.Campaign{CampaignID: "c1", Status: models.CampaignStatusEnabled, Budget: 100}
	campaigns := newFakeCampaignStore(campaign)
	metrics := newFakeMetricStore(dailyMetrics("c1", 5, 80, 1000)...) // ACoS 8%, already at cap
	gateway := newFakeGateway()
	svc := newTestOptimizationService(campaigns, metrics, newFakeActionStore(), gateway)

	result, err := svc.RunOptimization(context.Background())
	require.NoError(t, err)
	assert.Empty(t, result)
	assert.Empty(t, gateway.callsTo("PUT", "/sp/campaigns/c1"))
}

func TestOptimizationSkipsInsufficientData(t *testing.T) {
	campaign := &models.Campaign{CampaignID: "c1", Status: models.CampaignStatusEnabled, Budget: 50}
	campaigns := newFakeCampaignStore(campaign)
	metrics := newFakeMetricStore(dailyMetrics("c1", 2, 70, 100)...) // only 2 metric days
	svc := newTestOptimizationService(campaigns, metrics, newFakeActionStore(), newFakeGateway())

	result, err := svc.RunOptimization(context.Background())
	require.NoError(t, err)
	assert.Empty(t, result)
	assert.Empty(t, campaigns.statusUpdates)
}

func TestOptimizationZeroSalesSpendScalesBudget(t *testing.T) {
	// Spend with zero sales computes ACoS 0 at campaign level, which lands in
	// the aggressive-scale branch.
	campaign := &models.Campaign{CampaignID: "c1", Status: models.CampaignStatusEnabled, Budget: 50}
	campaigns := newFakeCampaignStore(campaign)
	metrics := newFakeMetricStore(dailyMetrics("c1", 5, 40, 0)...)
	svc := newTestOptimizationService(campaigns, metrics, newFakeActionStore(), newFakeGateway())

	result, err := svc.RunOptimization(context.Background())
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, models.ActionBudgetIncrease, result[0].Action)
}

func TestOptimizationSkipsArchivedCampaigns(t *testing.T) {
	campaign := &models.Campaign{CampaignID: "c1", Status: models.CampaignStatusArchived, Budget: 50}
	campaigns := newFakeCampaignStore(campaign)
	metrics := newFakeMetricStore(dailyMetrics("c1", 5, 80, 1000)...)
	svc := newTestOptimizationService(campaigns, metrics, newFakeActionStore(), newFakeGateway())

	result, err := svc.RunOptimization(context.Background())
	require.NoError(t, err)
	assert.Empty(t, result)
}

func TestOptimizationSkipsWhenMonthlyBudgetExhausted(t *testing.T) {
	campaign := &models.Campaign{CampaignID: "c1", Status: models.CampaignStatusEnabled, Budget: 50}
	campaigns := newFakeCampaignStore(campaign)
	metrics := newFakeMetricStore(dailyMetrics("c1", 5, 50, 100)...) // ACoS 50%, would pause
	gateway := newFakeGateway()
	svc := newTestOptimizationService(campaigns, metrics, newFakeActionStore(), gateway)
	svc.budget = &fakeSpendGate{can: false}

	result, err := svc.RunOptimization(context.Background())
	require.NoError(t, err)
	assert.Empty(t, result)
	assert.Empty(t, campaigns.statusUpdates)
	assert.Empty(t, gateway.calls)
}

func TestOptimizationSingleFlight(t *testing.T) {
	campaign := &models.Campaign{CampaignID: "c1", Status: models.CampaignStatusEnabled, Budget: 50}
	campaigns := newFakeCampaignStore(campaign)
	metrics := newFakeMetricStore(dailyMetrics("c1", 5, 80, 1000)...)
	gateway := newFakeGateway()
	svc := newTestOptimizationService(campaigns, metrics, newFakeActionStore(), gateway)

	blocked := make(chan struct{})
	release := make(chan struct{})
	// Hold the first run open by blocking inside the gateway
	slowGateway := &blockingGateway{fakeGateway: gateway, blocked: blocked, release: release}
	svc.gateway = slowGateway

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, err := svc.RunOptimization(context.Background())
		assert.NoError(t, err)
	}()

	<-blocked
	second, err := svc.RunOptimization(context.Background())
	require.NoError(t, err)
	assert.Empty(t, second)

	close(release)
	wg.Wait()
}

// blockingGateway signals when a call arrives and waits for release
type blockingGateway struct {
	*fakeGateway
	blocked chan struct{}
	release chan struct{}
	once    sync.Once
}

func (b *blockingGateway) Put(ctx context.Context, path string, body interface{}, out interface{}) error {
	b.once.Do(func() { close(b.blocked) })
	<-b.release
	return b.fakeGateway.Put(ctx, path, body, out)
}

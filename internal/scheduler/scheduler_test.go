package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/sellerpulse/ads-optimizer-backend/internal/models"
	"github.com/sellerpulse/ads-optimizer-backend/internal/services"
)

type stubSync struct{ calls atomic.Int32 }

func (s *stubSync) SyncAll(ctx context.Context) (*services.SyncResult, error) {
	s.calls.Add(1)
	return &services.SyncResult{}, nil
}

type stubCampaign struct{ calls atomic.Int32 }

func (s *stubCampaign) RunOptimization(ctx context.Context) ([]*models.CampaignAction, error) {
	s.calls.Add(1)
	return nil, nil
}

type stubKeyword struct{ calls atomic.Int32 }

func (s *stubKeyword) RunOptimization(ctx context.Context) (*models.KeywordOptimizationResult, error) {
	s.calls.Add(1)
	return &models.KeywordOptimizationResult{}, nil
}

type stubBudget struct {
	canSpend bool

	checks        atomic.Int32
	redistributes atomic.Int32
}

func (s *stubBudget) CheckBudget() (*models.BudgetStatus, error) {
	s.checks.Add(1)
	return &models.BudgetStatus{}, nil
}

func (s *stubBudget) CanSpendMore() (bool, error) {
	return s.canSpend, nil
}

func (s *stubBudget) RedistributeBudget() ([]*models.CampaignAction, error) {
	s.redistributes.Add(1)
	return nil, nil
}

type stubProtection struct{ calls atomic.Int32 }

func (s *stubProtection) RunProtectionCheck(ctx context.Context) error {
	s.calls.Add(1)
	return nil
}

func shortIntervals() Intervals {
	return Intervals{
		Sync:           10 * time.Millisecond,
		Campaign:       10 * time.Millisecond,
		Keyword:        10 * time.Millisecond,
		Budget:         10 * time.Millisecond,
		Redistribution: 10 * time.Millisecond,
		Protection:     10 * time.Millisecond,
	}
}

func TestSchedulerFiresAllJobsAndStops(t *testing.T) {
	sync := &stubSync{}
	campaign := &stubCampaign{}
	keyword := &stubKeyword{}
	budget := &stubBudget{canSpend: true}
	protection := &stubProtection{}

	s := NewScheduler(sync, campaign, keyword, budget, protection, shortIntervals())
	s.Start()
	time.Sleep(100 * time.Millisecond)
	s.Stop()

	// The sync runs once up front, then per tick
	assert.GreaterOrEqual(t, sync.calls.Load(), int32(2))
	assert.GreaterOrEqual(t, campaign.calls.Load(), int32(1))
	assert.GreaterOrEqual(t, keyword.calls.Load(), int32(1))
	assert.GreaterOrEqual(t, budget.checks.Load(), int32(1))
	assert.GreaterOrEqual(t, budget.redistributes.Load(), int32(1))
	assert.GreaterOrEqual(t, protection.calls.Load(), int32(1))

	after := campaign.calls.Load()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, after, campaign.calls.Load())
}

func TestSchedulerSkipsRedistributionWhenBudgetExhausted(t *testing.T) {
	budget := &stubBudget{canSpend: false}

	s := NewScheduler(&stubSync{}, &stubCampaign{}, &stubKeyword{}, budget, &stubProtection{}, shortIntervals())
	s.Start()
	time.Sleep(100 * time.Millisecond)
	s.Stop()

	assert.GreaterOrEqual(t, budget.checks.Load(), int32(1))
	assert.Zero(t, budget.redistributes.Load())
}

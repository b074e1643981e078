package services

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/sellerpulse/ads-optimizer-backend/internal/amazon"
	"github.com/sellerpulse/ads-optimizer-backend/internal/config"
	"github.com/sellerpulse/ads-optimizer-backend/internal/models"
)

const (
	optimizationWindow = 7 * 24 * time.Hour
	minMetricDays      = 3

	scaleFactor      = 1.10
	aggressiveFactor = 1.20
	reduceFactor     = 0.85

	dailyBudgetCap   = 100.0
	dailyBudgetFloor = 5.0
)

// spendGate reports whether the monthly budget still has headroom
type spendGate interface {
	CanSpendMore() (bool, error)
}

// OptimizationService drives the campaign-level decision loop: it reads
// trailing performance, decides a lifecycle or budget action per campaign,
// pushes it to Amazon and records it.
type OptimizationService struct {
	campaignRepo campaignStore
	metricRepo   metricStore
	actionRepo   actionStore
	gateway      adsGateway
	thresholds   *config.AcosThresholds
	budget       spendGate
	guard        *RunGuard

	now func() time.Time
}

func NewOptimizationService(campaignRepo campaignStore, metricRepo metricStore, actionRepo actionStore, gateway adsGateway, budget spendGate, guard *RunGuard) *OptimizationService {
	return &OptimizationService{
		campaignRepo: campaignRepo,
		metricRepo:   metricRepo,
		actionRepo:   actionRepo,
		gateway:      gateway,
		thresholds:   config.GetAcosThresholds(),
		budget:       budget,
		guard:        guard,
		now:          time.Now,
	}
}

// RunOptimization evaluates every non-archived campaign and applies the
// resulting actions. A trigger arriving while another optimization pass is
// active returns an empty result, as does a trigger while the monthly budget
// is exhausted; a failure on one campaign does not abort the others.
func (s *OptimizationService) RunOptimization(ctx context.Context) ([]*models.CampaignAction, error) {
	if !s.guard.TryAcquire() {
		logrus.Warn("Campaign optimization skipped: a pass is already running")
		return []*models.CampaignAction{}, nil
	}
	defer s.guard.Release()

	can, err := s.budget.CanSpendMore()
	if err != nil {
		return nil, fmt.Errorf("failed to check monthly budget: %w", err)
	}
	if !can {
		logrus.Warn("Campaign optimization skipped: monthly budget exhausted")
		return []*models.CampaignAction{}, nil
	}

	campaigns, err := s.campaignRepo.GetByStatus(models.CampaignStatusEnabled, models.CampaignStatusPaused)
	if err != nil {
		return nil, fmt.Errorf("failed to load campaigns: %w", err)
	}

	logrus.Infof("Campaign optimization started: %d campaigns", len(campaigns))

	actions := make([]*models.CampaignAction, 0)
	for _, campaign := range campaigns {
		action, err := s.optimizeCampaign(ctx, campaign)
		if err != nil {
			logrus.Errorf("Failed to optimize campaign %s: %v", campaign.CampaignID, err)
			continue
		}
		if action != nil {
			actions = append(actions, action)
		}
	}

	logrus.Infof("Campaign optimization finished: %d actions taken", len(actions))
	return actions, nil
}

// GetRecentActions returns the latest audit records, newest first
func (s *OptimizationService) GetRecentActions(limit int) ([]*models.OptimizationAction, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	return s.actionRepo.GetRecent(limit)
}

func (s *OptimizationService) optimizeCampaign(ctx context.Context, campaign *models.Campaign) (*models.CampaignAction, error) {
	now := s.now()
	metrics, err := s.metricRepo.FindBetween(campaign.CampaignID, now.Add(-optimizationWindow), now)
	if err != nil {
		return nil, fmt.Errorf("failed to load metrics: %w", err)
	}
	if len(metrics) < minMetricDays {
		logrus.Debugf("Campaign %s skipped: only %d metric days", campaign.CampaignID, len(metrics))
		return nil, nil
	}

	var spend, sales float64
	for _, m := range metrics {
		spend += m.Spend
		sales += m.Sales
	}

	// Note: zero sales yields 0 here, not the 999 sentinel, so spend with
	// no sales ranks as excellent.
	acos := 0.0
	if sales > 0 {
		acos = spend / sales * 100
	}

	action, err := s.decide(ctx, campaign, acos)
	if err != nil {
		return nil, err
	}
	if action == nil {
		return nil, nil
	}

	if err := s.actionRepo.Create(&models.OptimizationAction{
		CampaignID: campaign.CampaignID,
		Action:     action.Action,
		OldValue:   action.OldValue,
		NewValue:   action.NewValue,
		Reason:     action.Reason,
		CreatedAt:  now,
	}); err != nil {
		logrus.Warnf("Failed to record action for campaign %s: %v", campaign.CampaignID, err)
	}
	if err := s.campaignRepo.TouchLastOptimized(campaign.CampaignID, now); err != nil {
		logrus.Warnf("Failed to stamp campaign %s: %v", campaign.CampaignID, err)
	}

	return action, nil
}

func (s *OptimizationService) decide(ctx context.Context, campaign *models.Campaign, acos float64) (*models.CampaignAction, error) {
	t := s.thresholds

	switch {
	case acos >= t.PauseMin && acos <= t.PauseMax && campaign.Status == models.CampaignStatusEnabled:
		reason := fmt.Sprintf("ACoS in pause range (ACoS: %.2f%%)", acos)
		return s.setState(ctx, campaign, models.CampaignStatusPaused, models.ActionPause, reason)

	case acos > t.PauseMax:
		reason := fmt.Sprintf("ACoS above archive threshold (ACoS: %.2f%%)", acos)
		return s.setState(ctx, campaign, models.CampaignStatusArchived, models.ActionArchive, reason)

	case acos >= t.TargetMin && acos <= t.TargetMax:
		reason := fmt.Sprintf("ACoS within target range (ACoS: %.2f%%)", acos)
		target := math.Min(campaign.Budget*scaleFactor, dailyBudgetCap)
		return s.setBudget(ctx, campaign, target, models.ActionBudgetIncrease, reason)

	case acos < t.TargetMin:
		reason := fmt.Sprintf("ACoS below target range (ACoS: %.2f%%)", acos)
		target := math.Min(campaign.Budget*aggressiveFactor, dailyBudgetCap)
		return s.setBudget(ctx, campaign, target, models.ActionBudgetIncrease, reason)

	case acos > t.TargetMax && acos < t.PauseMin:
		reason := fmt.Sprintf("ACoS above target range (ACoS: %.2f%%)", acos)
		target := math.Max(campaign.Budget*reduceFactor, dailyBudgetFloor)
		return s.setBudget(ctx, campaign, target, models.ActionBudgetDecrease, reason)

	case campaign.Status == models.CampaignStatusPaused && acos < t.TargetMax:
		reason := fmt.Sprintf("ACoS recovered (ACoS: %.2f%%)", acos)
		return s.setState(ctx, campaign, models.CampaignStatusEnabled, models.ActionEnable, reason)
	}

	return nil, nil
}

func (s *OptimizationService) setState(ctx context.Context, campaign *models.Campaign, state, actionType, reason string) (*models.CampaignAction, error) {
	path := fmt.Sprintf("/sp/campaigns/%s", campaign.CampaignID)
	update := amazon.CampaignUpdate{State: amazonState(state)}
	if err := s.gateway.Put(ctx, path, update, nil); err != nil {
		return nil, fmt.Errorf("failed to push campaign state: %w", err)
	}
	if err := s.campaignRepo.UpdateStatus(campaign.CampaignID, state); err != nil {
		return nil, fmt.Errorf("failed to update local status: %w", err)
	}

	return &models.CampaignAction{
		CampaignID:   campaign.CampaignID,
		CampaignName: campaign.Name,
		Action:       actionType,
		OldValue:     campaign.Status,
		NewValue:     state,
		Reason:       reason,
	}, nil
}

func (s *OptimizationService) setBudget(ctx context.Context, campaign *models.Campaign, target float64, actionType, reason string) (*models.CampaignAction, error) {
	newBudget := round2(target)
	if newBudget == campaign.Budget {
		return nil, nil
	}

	path := fmt.Sprintf("/sp/campaigns/%s", campaign.CampaignID)
	update := amazon.CampaignUpdate{DailyBudget: &newBudget}
	if err := s.gateway.Put(ctx, path, update, nil); err != nil {
		return nil, fmt.Errorf("failed to push campaign budget: %w", err)
	}
	if err := s.campaignRepo.UpdateBudget(campaign.CampaignID, newBudget); err != nil {
		return nil, fmt.Errorf("failed to update local budget: %w", err)
	}

	return &models.CampaignAction{
		CampaignID:   campaign.CampaignID,
		CampaignName: campaign.Name,
		Action:       actionType,
		OldValue:     fmt.Sprintf("%.2f", campaign.Budget),
		NewValue:     fmt.Sprintf("%.2f", newBudget),
		Reason:       reason,
	}, nil
}

// amazonState maps local status values to the lowercase states the API expects
func amazonState(status string) string {
	switch status {
	case models.CampaignStatusEnabled:
		return "enabled"
	case models.CampaignStatusPaused:
		return "paused"
	case models.CampaignStatusArchived:
		return "archived"
	}
	return status
}

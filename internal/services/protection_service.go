package services

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/sellerpulse/ads-optimizer-backend/internal/amazon"
	"github.com/sellerpulse/ads-optimizer-backend/internal/config"
	"github.com/sellerpulse/ads-optimizer-backend/internal/models"
)

const (
	spikeAverageWindow = 30 * 24 * time.Hour

	// Minimum trailing average before spike detection applies, so brand-new
	// campaigns with near-zero history are not flagged on their first spend.
	spikeAverageFloor = 5.0

	spikeBidFactor = 0.70
)

// ProtectionService enforces hard spend and bid ceilings on its own clock,
// independent of the optimizers. It can pause campaigns and shrink bids
// regardless of what the optimization pass decided.
type ProtectionService struct {
	campaignRepo campaignStore
	keywordRepo  keywordStore
	metricRepo   metricStore
	actionRepo   actionStore
	alerts       *AlertService
	gateway      adsGateway
	cfg          *config.ProtectionConfig
	bidLimits    *config.BidLimits

	now func() time.Time
}

func NewProtectionService(campaignRepo campaignStore, keywordRepo keywordStore, metricRepo metricStore, actionRepo actionStore, alerts *AlertService, gateway adsGateway) *ProtectionService {
	return &ProtectionService{
		campaignRepo: campaignRepo,
		keywordRepo:  keywordRepo,
		metricRepo:   metricRepo,
		actionRepo:   actionRepo,
		alerts:       alerts,
		gateway:      gateway,
		cfg:          config.GetProtectionConfig(),
		bidLimits:    config.GetBidLimits(),
		now:          time.Now,
	}
}

// GetSettings returns the active protection limits
func (s *ProtectionService) GetSettings() *config.ProtectionConfig {
	return s.cfg
}

// RunProtectionCheck runs the three independent protection checks. A failure
// on one campaign is logged and does not block the others.
func (s *ProtectionService) RunProtectionCheck(ctx context.Context) error {
	campaigns, err := s.campaignRepo.GetByStatus(models.CampaignStatusEnabled)
	if err != nil {
		return fmt.Errorf("failed to load enabled campaigns: %w", err)
	}

	for _, campaign := range campaigns {
		if err := s.checkDailyCap(ctx, campaign); err != nil {
			logrus.Errorf("Daily cap check failed for campaign %s: %v", campaign.CampaignID, err)
		}
	}
	for _, campaign := range campaigns {
		if err := s.checkSpendSpike(ctx, campaign); err != nil {
			logrus.Errorf("Spike check failed for campaign %s: %v", campaign.CampaignID, err)
		}
	}
	if err := s.enforceBidCeiling(ctx); err != nil {
		logrus.Errorf("Bid ceiling enforcement failed: %v", err)
	}

	return nil
}

// checkDailyCap force-pauses a campaign whose spend today reached the hard ceiling
func (s *ProtectionService) checkDailyCap(ctx context.Context, campaign *models.Campaign) error {
	now := s.now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	todaySpend, err := s.metricRepo.SumCampaignSpendBetween(campaign.CampaignID, dayStart, now)
	if err != nil {
		return fmt.Errorf("failed to sum today's spend: %w", err)
	}
	if todaySpend < s.cfg.MaxDailySpend {
		return nil
	}

	path := fmt.Sprintf("/sp/campaigns/%s", campaign.CampaignID)
	if err := s.gateway.Put(ctx, path, amazon.CampaignUpdate{State: "paused"}, nil); err != nil {
		return fmt.Errorf("failed to force-pause campaign: %w", err)
	}
	if err := s.campaignRepo.UpdateStatus(campaign.CampaignID, models.CampaignStatusPaused); err != nil {
		return fmt.Errorf("failed to persist force-pause: %w", err)
	}

	reason := fmt.Sprintf("Daily spend %.2f reached hard cap %.2f", todaySpend, s.cfg.MaxDailySpend)
	if err := s.actionRepo.Create(&models.OptimizationAction{
		CampaignID: campaign.CampaignID,
		Action:     models.ActionForcePause,
		OldValue:   models.CampaignStatusEnabled,
		NewValue:   models.CampaignStatusPaused,
		Reason:     reason,
		CreatedAt:  now,
	}); err != nil {
		logrus.Warnf("Failed to record force-pause for campaign %s: %v", campaign.CampaignID, err)
	}

	s.raise(&AlertInput{
		Type:         models.AlertTypeDailyCap,
		Severity:     models.AlertSeverityCritical,
		Title:        "Campaign force-paused: daily spend cap reached",
		Message:      reason,
		CampaignID:   campaign.CampaignID,
		CampaignName: campaign.Name,
		Data:         map[string]interface{}{"today_spend": todaySpend, "max_daily_spend": s.cfg.MaxDailySpend},
	})
	return nil
}

// checkSpendSpike shrinks all of a campaign's keyword bids when today's spend
// far exceeds its trailing average.
func (s *ProtectionService) checkSpendSpike(ctx context.Context, campaign *models.Campaign) error {
	now := s.now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	todaySpend, err := s.metricRepo.SumCampaignSpendBetween(campaign.CampaignID, dayStart, now)
	if err != nil {
		return fmt.Errorf("failed to sum today's spend: %w", err)
	}
	trailingSpend, err := s.metricRepo.SumCampaignSpendBetween(campaign.CampaignID, now.Add(-spikeAverageWindow), dayStart)
	if err != nil {
		return fmt.Errorf("failed to sum trailing spend: %w", err)
	}

	avgDaily := trailingSpend / (spikeAverageWindow.Hours() / 24)
	if avgDaily <= spikeAverageFloor || todaySpend <= avgDaily*s.cfg.SpikeThreshold {
		return nil
	}

	keywords, err := s.keywordRepo.GetEnabledByCampaign(campaign.CampaignID)
	if err != nil {
		return fmt.Errorf("failed to load keywords: %w", err)
	}

	reduced := 0
	for _, kw := range keywords {
		newBid := round2(clamp(kw.Bid*spikeBidFactor, s.bidLimits.Min, s.bidLimits.Max))
		if newBid == kw.Bid {
			continue
		}
		path := fmt.Sprintf("/sp/keywords/%s", kw.KeywordID)
		if err := s.gateway.Put(ctx, path, amazon.KeywordUpdate{Bid: &newBid}, nil); err != nil {
			logrus.Warnf("Failed to shrink bid for keyword %q: %v", kw.KeywordText, err)
			continue
		}
		if err := s.keywordRepo.UpdateBid(kw.ID, newBid); err != nil {
			logrus.Warnf("Failed to persist bid for keyword %q: %v", kw.KeywordText, err)
		}
		reduced++
	}

	reason := fmt.Sprintf("Spend spike: today %.2f vs %.2f daily average, %d bids reduced", todaySpend, avgDaily, reduced)
	if err := s.actionRepo.Create(&models.OptimizationAction{
		CampaignID: campaign.CampaignID,
		Action:     models.ActionBidsReduced,
		NewValue:   fmt.Sprintf("%d", reduced),
		Reason:     reason,
		CreatedAt:  now,
	}); err != nil {
		logrus.Warnf("Failed to record spike action for campaign %s: %v", campaign.CampaignID, err)
	}

	s.raise(&AlertInput{
		Type:         models.AlertTypeCostSpike,
		Severity:     models.AlertSeverityWarning,
		Title:        "Spend spike detected",
		Message:      reason,
		CampaignID:   campaign.CampaignID,
		CampaignName: campaign.Name,
		Data:         map[string]interface{}{"today_spend": todaySpend, "average_daily_spend": avgDaily, "bids_reduced": reduced},
	})
	return nil
}

// enforceBidCeiling forces every bid above the hard ceiling back down to it
func (s *ProtectionService) enforceBidCeiling(ctx context.Context) error {
	keywords, err := s.keywordRepo.GetEnabledWithBidAbove(s.cfg.MaxKeywordBid)
	if err != nil {
		return fmt.Errorf("failed to load over-ceiling keywords: %w", err)
	}
	if len(keywords) == 0 {
		return nil
	}

	now := s.now()
	capped := 0
	ceiling := s.cfg.MaxKeywordBid
	for _, kw := range keywords {
		path := fmt.Sprintf("/sp/keywords/%s", kw.KeywordID)
		if err := s.gateway.Put(ctx, path, amazon.KeywordUpdate{Bid: &ceiling}, nil); err != nil {
			logrus.Warnf("Failed to cap bid for keyword %q: %v", kw.KeywordText, err)
			continue
		}
		if err := s.keywordRepo.UpdateBid(kw.ID, ceiling); err != nil {
			logrus.Warnf("Failed to persist capped bid for keyword %q: %v", kw.KeywordText, err)
		}
		if err := s.actionRepo.Create(&models.OptimizationAction{
			CampaignID:  kw.CampaignID,
			KeywordText: kw.KeywordText,
			Action:      models.ActionBidCapEnforced,
			OldValue:    fmt.Sprintf("%.2f", kw.Bid),
			NewValue:    fmt.Sprintf("%.2f", ceiling),
			Reason:      fmt.Sprintf("Bid above hard ceiling %.2f", ceiling),
			CreatedAt:   now,
		}); err != nil {
			logrus.Warnf("Failed to record bid cap for keyword %q: %v", kw.KeywordText, err)
		}
		capped++
	}

	if capped > 0 {
		s.raise(&AlertInput{
			Type:     models.AlertTypeBidCap,
			Severity: models.AlertSeverityWarning,
			Title:    "Keyword bids capped",
			Message:  fmt.Sprintf("%d keyword bids were above the %.2f ceiling and were reduced", capped, ceiling),
			Data:     map[string]interface{}{"keywords_capped": capped, "ceiling": ceiling},
		})
	}
	return nil
}

func (s *ProtectionService) raise(input *AlertInput) {
	if s.alerts == nil {
		return
	}
	if err := s.alerts.Send(input); err != nil {
		logrus.Warnf("Failed to raise protection alert: %v", err)
	}
}

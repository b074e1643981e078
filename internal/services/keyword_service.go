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
	searchTermWindow = 30 * 24 * time.Hour
	bidTuningWindow  = 14 * 24 * time.Hour
	pauseWindow      = 30 * 24 * time.Hour

	// Bid updates below this relative change are skipped so converged
	// keywords stop oscillating.
	bidChangeThreshold = 0.10

	negativeAcosLimit   = 60.0
	negativeClicksMin   = 5
	wastedClicksMin     = 20
	lowCTRImpressions   = 1000
	lowCTRLimit         = 0.1
	positiveAcosLimit   = 15.0
	positiveSalesMin    = 3.0
	positiveCTRMin      = 0.5
	positiveConvRateMin = 5.0
	pauseAcosLimit      = 60.0
	pauseClicksMin      = 10
	pauseWastedClicks   = 30

	reportDateLayout = "20060102"
)

var reportMetrics = []string{"impressions", "clicks", "cost", "sales14d", "attributedConversions14d"}

// KeywordService mines search terms into negative and positive keywords,
// pauses losers and retunes bids per enabled campaign.
type KeywordService struct {
	campaignRepo campaignStore
	keywordRepo  keywordStore
	actionRepo   actionStore
	gateway      adsGateway
	bidLimits    *config.BidLimits
	guard        *RunGuard

	now func() time.Time
}

func NewKeywordService(campaignRepo campaignStore, keywordRepo keywordStore, actionRepo actionStore, gateway adsGateway, guard *RunGuard) *KeywordService {
	return &KeywordService{
		campaignRepo: campaignRepo,
		keywordRepo:  keywordRepo,
		actionRepo:   actionRepo,
		gateway:      gateway,
		bidLimits:    config.GetBidLimits(),
		guard:        guard,
		now:          time.Now,
	}
}

// RunOptimization runs the keyword pass over every enabled campaign.
// A trigger arriving while another optimization pass is active returns an
// empty result; a failure on one campaign does not abort the others.
func (s *KeywordService) RunOptimization(ctx context.Context) (*models.KeywordOptimizationResult, error) {
	if !s.guard.TryAcquire() {
		logrus.Warn("Keyword optimization skipped: a pass is already running")
		return &models.KeywordOptimizationResult{}, nil
	}
	defer s.guard.Release()

	campaigns, err := s.campaignRepo.GetByStatus(models.CampaignStatusEnabled)
	if err != nil {
		return nil, fmt.Errorf("failed to load enabled campaigns: %w", err)
	}

	logrus.Infof("Keyword optimization started: %d campaigns", len(campaigns))

	result := &models.KeywordOptimizationResult{}
	for _, campaign := range campaigns {
		if err := s.optimizeCampaignKeywords(ctx, campaign, result); err != nil {
			logrus.Errorf("Keyword optimization failed for campaign %s: %v", campaign.CampaignID, err)
		}
	}

	if err := s.actionRepo.CreateRun(&models.OptimizationRun{
		Type:                  "KEYWORD",
		NegativeKeywordsAdded: result.NegativeKeywordsAdded,
		PositiveKeywordsAdded: result.PositiveKeywordsAdded,
		KeywordsPaused:        result.KeywordsPaused,
		BidsAdjusted:          result.BidsAdjusted,
		ExecutedAt:            s.now(),
	}); err != nil {
		logrus.Warnf("Failed to record keyword optimization run: %v", err)
	}

	logrus.Infof("Keyword optimization finished: %d negative, %d positive, %d paused, %d bids",
		result.NegativeKeywordsAdded, result.PositiveKeywordsAdded, result.KeywordsPaused, result.BidsAdjusted)
	return result, nil
}

func (s *KeywordService) optimizeCampaignKeywords(ctx context.Context, campaign *models.Campaign, result *models.KeywordOptimizationResult) error {
	terms, err := s.fetchSearchTerms(ctx, campaign.CampaignID)
	if err != nil {
		return fmt.Errorf("failed to fetch search terms: %w", err)
	}

	s.promoteNegatives(ctx, campaign, terms, result)
	s.promotePositives(ctx, campaign, terms, result)

	keywords, err := s.keywordRepo.GetEnabledByCampaign(campaign.CampaignID)
	if err != nil {
		return fmt.Errorf("failed to load keywords: %w", err)
	}
	if len(keywords) == 0 {
		return nil
	}

	pauseStats, err := s.fetchKeywordStats(ctx, keywords, pauseWindow)
	if err != nil {
		return fmt.Errorf("failed to fetch keyword pause report: %w", err)
	}
	remaining := s.pauseKeywords(ctx, campaign, keywords, pauseStats, result)

	bidStats, err := s.fetchKeywordStats(ctx, remaining, bidTuningWindow)
	if err != nil {
		return fmt.Errorf("failed to fetch keyword bid report: %w", err)
	}
	s.adjustBids(ctx, campaign, remaining, bidStats, result)
	return nil
}

func (s *KeywordService) fetchSearchTerms(ctx context.Context, campaignID string) ([]amazon.ReportRow, error) {
	now := s.now()
	req := amazon.SearchTermReportRequest{
		CampaignIDFilter: []string{campaignID},
		StartDate:        now.Add(-searchTermWindow).Format(reportDateLayout),
		EndDate:          now.Format(reportDateLayout),
		Metrics:          reportMetrics,
	}
	var rows []amazon.ReportRow
	if err := s.gateway.Post(ctx, "/sp/reports/searchTerms", req, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *KeywordService) fetchKeywordStats(ctx context.Context, keywords []*models.Keyword, window time.Duration) (map[string]amazon.ReportRow, error) {
	ids := make([]string, 0, len(keywords))
	for _, k := range keywords {
		if k.KeywordID != "" {
			ids = append(ids, k.KeywordID)
		}
	}
	if len(ids) == 0 {
		return map[string]amazon.ReportRow{}, nil
	}

	now := s.now()
	req := amazon.KeywordReportRequest{
		KeywordIDFilter: ids,
		StartDate:       now.Add(-window).Format(reportDateLayout),
		EndDate:         now.Format(reportDateLayout),
		Metrics:         reportMetrics,
	}
	var rows []amazon.ReportRow
	if err := s.gateway.Post(ctx, "/sp/reports/keywords", req, &rows); err != nil {
		return nil, err
	}

	stats := make(map[string]amazon.ReportRow, len(rows))
	for _, row := range rows {
		agg := stats[row.KeywordID]
		agg.KeywordID = row.KeywordID
		agg.Impressions += row.Impressions
		agg.Clicks += row.Clicks
		agg.Cost += row.Cost
		agg.Sales14d += row.Sales14d
		agg.AttributedConversions14d += row.AttributedConversions14d
		stats[row.KeywordID] = agg
	}
	return stats, nil
}

// promoteNegatives blocks search terms that burn spend without converting
func (s *KeywordService) promoteNegatives(ctx context.Context, campaign *models.Campaign, terms []amazon.ReportRow, result *models.KeywordOptimizationResult) {
	for _, term := range terms {
		if term.Query == "" {
			continue
		}
		acos := computeAcos(term.Cost, term.Sales14d)
		ctr := 0.0
		if term.Impressions > 0 {
			ctr = float64(term.Clicks) / float64(term.Impressions) * 100
		}

		isNegative := (acos > negativeAcosLimit && term.Clicks >= negativeClicksMin) ||
			(term.Clicks >= wastedClicksMin && term.Sales14d == 0) ||
			(term.Impressions >= lowCTRImpressions && ctr < lowCTRLimit)
		if !isNegative {
			continue
		}

		existing, err := s.keywordRepo.GetByCampaignAndText(campaign.CampaignID, term.Query)
		if err != nil {
			logrus.Warnf("Failed to look up keyword %q: %v", term.Query, err)
			continue
		}
		if existing != nil {
			continue
		}

		create := amazon.NegativeKeywordCreate{
			CampaignID:  campaign.CampaignID,
			AdGroupID:   term.AdGroupID,
			KeywordText: term.Query,
			MatchType:   "negativePhrase",
			State:       "enabled",
		}
		if err := s.gateway.Post(ctx, "/sp/negativeKeywords", create, nil); err != nil {
			logrus.Warnf("Failed to create negative keyword %q: %v", term.Query, err)
			continue
		}

		if err := s.keywordRepo.Create(&models.Keyword{
			CampaignID:  campaign.CampaignID,
			AdGroupID:   term.AdGroupID,
			KeywordText: term.Query,
			MatchType:   models.MatchTypeNegativePhrase,
			Status:      models.KeywordStatusEnabled,
			LastUpdated: s.now(),
		}); err != nil {
			logrus.Warnf("Failed to persist negative keyword %q: %v", term.Query, err)
		}

		s.recordAction(campaign.CampaignID, term.Query, models.ActionNegativeAdded, "", models.MatchTypeNegativePhrase,
			fmt.Sprintf("Blocked search term (ACoS: %.2f%%, clicks: %d, CTR: %.2f%%)", acos, term.Clicks, ctr))
		result.NegativeKeywordsAdded++
	}
}

// promotePositives graduates converting search terms into exact-match keywords
func (s *KeywordService) promotePositives(ctx context.Context, campaign *models.Campaign, terms []amazon.ReportRow, result *models.KeywordOptimizationResult) {
	for _, term := range terms {
		if term.Query == "" || term.Clicks == 0 {
			continue
		}
		acos := computeAcos(term.Cost, term.Sales14d)
		ctr := 0.0
		if term.Impressions > 0 {
			ctr = float64(term.Clicks) / float64(term.Impressions) * 100
		}
		convRate := float64(term.AttributedConversions14d) / float64(term.Clicks) * 100

		if acos >= positiveAcosLimit || term.Sales14d < positiveSalesMin || ctr <= positiveCTRMin || convRate <= positiveConvRateMin {
			continue
		}

		existing, err := s.keywordRepo.GetByCampaignAndText(campaign.CampaignID, term.Query)
		if err != nil {
			logrus.Warnf("Failed to look up keyword %q: %v", term.Query, err)
			continue
		}
		if existing != nil {
			continue
		}

		cpc := s.bidLimits.DefaultCPC
		if term.Clicks > 0 {
			cpc = term.Cost / float64(term.Clicks)
		}
		bid := s.computeBid(acos, convRate, cpc)

		create := amazon.KeywordCreate{
			CampaignID:  campaign.CampaignID,
			AdGroupID:   term.AdGroupID,
			KeywordText: term.Query,
			MatchType:   "exact",
			State:       "enabled",
			Bid:         bid,
		}
		if err := s.gateway.Post(ctx, "/sp/keywords", create, nil); err != nil {
			logrus.Warnf("Failed to create keyword %q: %v", term.Query, err)
			continue
		}

		if err := s.keywordRepo.Create(&models.Keyword{
			CampaignID:  campaign.CampaignID,
			AdGroupID:   term.AdGroupID,
			KeywordText: term.Query,
			MatchType:   models.MatchTypeExact,
			Status:      models.KeywordStatusEnabled,
			Bid:         bid,
			LastUpdated: s.now(),
		}); err != nil {
			logrus.Warnf("Failed to persist keyword %q: %v", term.Query, err)
		}

		s.recordAction(campaign.CampaignID, term.Query, models.ActionPositiveAdded, "", fmt.Sprintf("%.2f", bid),
			fmt.Sprintf("Promoted search term (ACoS: %.2f%%, conv rate: %.2f%%)", acos, convRate))
		result.PositiveKeywordsAdded++
	}
}

// pauseKeywords stops keywords that keep spending without selling and
// returns the ones still enabled.
func (s *KeywordService) pauseKeywords(ctx context.Context, campaign *models.Campaign, keywords []*models.Keyword, stats map[string]amazon.ReportRow, result *models.KeywordOptimizationResult) []*models.Keyword {
	remaining := make([]*models.Keyword, 0, len(keywords))
	for _, kw := range keywords {
		row, ok := stats[kw.KeywordID]
		if !ok {
			remaining = append(remaining, kw)
			continue
		}

		acos := computeAcos(row.Cost, row.Sales14d)
		shouldPause := (acos > pauseAcosLimit && row.Clicks >= pauseClicksMin) ||
			(row.Clicks >= pauseWastedClicks && row.Sales14d == 0)
		if !shouldPause {
			remaining = append(remaining, kw)
			continue
		}

		path := fmt.Sprintf("/sp/keywords/%s", kw.KeywordID)
		if err := s.gateway.Put(ctx, path, amazon.KeywordUpdate{State: "paused"}, nil); err != nil {
			logrus.Warnf("Failed to pause keyword %q: %v", kw.KeywordText, err)
			remaining = append(remaining, kw)
			continue
		}
		if err := s.keywordRepo.UpdateStatus(kw.ID, models.KeywordStatusPaused); err != nil {
			logrus.Warnf("Failed to persist pause of keyword %q: %v", kw.KeywordText, err)
		}

		s.recordAction(campaign.CampaignID, kw.KeywordText, models.ActionKeywordPaused, models.KeywordStatusEnabled, models.KeywordStatusPaused,
			fmt.Sprintf("Unprofitable keyword (ACoS: %.2f%%, clicks: %d)", acos, row.Clicks))
		result.KeywordsPaused++
	}
	return remaining
}

// adjustBids recomputes every enabled keyword's bid and pushes changes
// above the relative threshold.
func (s *KeywordService) adjustBids(ctx context.Context, campaign *models.Campaign, keywords []*models.Keyword, stats map[string]amazon.ReportRow, result *models.KeywordOptimizationResult) {
	for _, kw := range keywords {
		row, ok := stats[kw.KeywordID]
		if !ok {
			continue
		}

		acos := computeAcos(row.Cost, row.Sales14d)
		cpc := s.bidLimits.DefaultCPC
		convRate := 0.0
		if row.Clicks > 0 {
			cpc = row.Cost / float64(row.Clicks)
			convRate = float64(row.AttributedConversions14d) / float64(row.Clicks) * 100
		}

		newBid := s.computeBid(acos, convRate, cpc)
		if kw.Bid > 0 && math.Abs(newBid-kw.Bid)/kw.Bid <= bidChangeThreshold {
			continue
		}
		if newBid == kw.Bid {
			continue
		}

		path := fmt.Sprintf("/sp/keywords/%s", kw.KeywordID)
		if err := s.gateway.Put(ctx, path, amazon.KeywordUpdate{Bid: &newBid}, nil); err != nil {
			logrus.Warnf("Failed to push bid for keyword %q: %v", kw.KeywordText, err)
			continue
		}
		if err := s.keywordRepo.UpdateBid(kw.ID, newBid); err != nil {
			logrus.Warnf("Failed to persist bid for keyword %q: %v", kw.KeywordText, err)
		}

		s.recordAction(campaign.CampaignID, kw.KeywordText, models.ActionBidAdjusted,
			fmt.Sprintf("%.2f", kw.Bid), fmt.Sprintf("%.2f", newBid),
			fmt.Sprintf("Bid retuned (ACoS: %.2f%%, conv rate: %.2f%%)", acos, convRate))
		result.BidsAdjusted++
	}
}

// computeBid scales the observed CPC by a performance multiplier and clamps
// the result to the configured bid window.
func (s *KeywordService) computeBid(acos, convRate, cpc float64) float64 {
	multiplier := 0.70
	switch {
	case acos < 10 && convRate > 10:
		multiplier = 1.30
	case acos < 15 && convRate > 5:
		multiplier = 1.15
	case acos < 25:
		multiplier = 1.00
	case acos < 40:
		multiplier = 0.85
	}
	return round2(clamp(cpc*multiplier, s.bidLimits.Min, s.bidLimits.Max))
}

func (s *KeywordService) recordAction(campaignID, keywordText, action, oldValue, newValue, reason string) {
	if err := s.actionRepo.Create(&models.OptimizationAction{
		CampaignID:  campaignID,
		KeywordText: keywordText,
		Action:      action,
		OldValue:    oldValue,
		NewValue:    newValue,
		Reason:      reason,
		CreatedAt:   s.now(),
	}); err != nil {
		logrus.Warnf("Failed to record keyword action for %q: %v", keywordText, err)
	}
}

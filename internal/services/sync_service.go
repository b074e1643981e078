package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/sellerpulse/ads-optimizer-backend/internal/amazon"
	"github.com/sellerpulse/ads-optimizer-backend/internal/models"
)

const (
	// Successive sync triggers within this window reuse the previous sync
	syncCacheTTL = 5 * time.Minute

	metricSyncWindow = 30 * 24 * time.Hour
	acosWindow       = 7 * 24 * time.Hour
)

// SyncResult summarizes one sync pass
type SyncResult struct {
	CampaignsSynced int       `json:"campaigns_synced"`
	KeywordsSynced  int       `json:"keywords_synced"`
	MetricsUpserted int       `json:"metrics_upserted"`
	Skipped         bool      `json:"skipped"`
	SyncedAt        time.Time `json:"synced_at"`
}

// SyncService mirrors remote campaign, keyword and daily performance state
// into the local store. Runs are throttled by a short cache window since a
// full pass is expensive against the rate-limited API.
type SyncService struct {
	campaignRepo campaignStore
	keywordRepo  keywordStore
	metricRepo   metricStore
	gateway      adsGateway

	mu       sync.Mutex
	lastSync time.Time
	lastRes  *SyncResult

	now func() time.Time
}

func NewSyncService(campaignRepo campaignStore, keywordRepo keywordStore, metricRepo metricStore, gateway adsGateway) *SyncService {
	return &SyncService{
		campaignRepo: campaignRepo,
		keywordRepo:  keywordRepo,
		metricRepo:   metricRepo,
		gateway:      gateway,
		now:          time.Now,
	}
}

// LastSyncTime returns when the last full sync finished, zero if never
func (s *SyncService) LastSyncTime() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSync
}

// SyncAll pulls campaigns, daily metrics and keywords from Amazon and
// upserts them locally. A call inside the cache window returns the previous
// result marked as skipped.
func (s *SyncService) SyncAll(ctx context.Context) (*SyncResult, error) {
	s.mu.Lock()
	if s.lastRes != nil && s.now().Sub(s.lastSync) < syncCacheTTL {
		cached := *s.lastRes
		cached.Skipped = true
		s.mu.Unlock()
		return &cached, nil
	}
	s.mu.Unlock()

	now := s.now()
	result := &SyncResult{SyncedAt: now}

	remote, err := s.gateway.GetCampaigns(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch campaigns: %w", err)
	}

	metrics, err := s.fetchDailyMetrics(ctx, remote)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch campaign metrics: %w", err)
	}

	for _, raw := range metrics {
		if err := s.metricRepo.Upsert(raw); err != nil {
			logrus.Warnf("Failed to upsert metric for campaign %s on %s: %v", raw.CampaignID, raw.Date.Format("2006-01-02"), err)
			continue
		}
		result.MetricsUpserted++
	}

	for _, rc := range remote {
		campaign := &models.Campaign{
			CampaignID: rc.CampaignID,
			Name:       rc.Name,
			Status:     strings.ToUpper(rc.State),
			Budget:     rc.DailyBudget,
		}
		if acos, ok := s.trailingAcos(rc.CampaignID, now); ok {
			campaign.CurrentAcos = &acos
		}
		if err := s.campaignRepo.Upsert(campaign); err != nil {
			logrus.Warnf("Failed to upsert campaign %s: %v", rc.CampaignID, err)
			continue
		}
		result.CampaignsSynced++
	}

	synced, err := s.syncKeywords(ctx, now)
	if err != nil {
		logrus.Warnf("Keyword sync failed: %v", err)
	}
	result.KeywordsSynced = synced

	s.mu.Lock()
	s.lastSync = now
	s.lastRes = result
	s.mu.Unlock()

	logrus.Infof("Sync finished: %d campaigns, %d keywords, %d metrics", result.CampaignsSynced, result.KeywordsSynced, result.MetricsUpserted)
	return result, nil
}

func (s *SyncService) fetchDailyMetrics(ctx context.Context, campaigns []amazon.CampaignData) ([]*models.PerformanceMetric, error) {
	if len(campaigns) == 0 {
		return nil, nil
	}

	ids := make([]string, 0, len(campaigns))
	for _, c := range campaigns {
		ids = append(ids, c.CampaignID)
	}

	now := s.now()
	req := amazon.CampaignReportRequest{
		CampaignIDFilter: ids,
		StartDate:        now.Add(-metricSyncWindow).Format(reportDateLayout),
		EndDate:          now.Format(reportDateLayout),
		Metrics:          reportMetrics,
		Segment:          "date",
	}
	var rows []amazon.ReportRow
	if err := s.gateway.Post(ctx, "/sp/reports/campaigns", req, &rows); err != nil {
		return nil, err
	}

	metrics := make([]*models.PerformanceMetric, 0, len(rows))
	for _, row := range rows {
		date, err := time.Parse(reportDateLayout, row.Date)
		if err != nil {
			logrus.Warnf("Skipping report row with bad date %q: %v", row.Date, err)
			continue
		}
		metrics = append(metrics, &models.PerformanceMetric{
			CampaignID:  row.CampaignID,
			Date:        date,
			Impressions: row.Impressions,
			Clicks:      row.Clicks,
			Spend:       row.Cost,
			Sales:       row.Sales14d,
			Conversions: row.AttributedConversions14d,
		})
	}
	return metrics, nil
}

// trailingAcos computes the campaign's last-known ACoS over the short window
func (s *SyncService) trailingAcos(campaignID string, now time.Time) (float64, bool) {
	metrics, err := s.metricRepo.FindBetween(campaignID, now.Add(-acosWindow), now)
	if err != nil || len(metrics) == 0 {
		return 0, false
	}
	var spend, sales float64
	for _, m := range metrics {
		spend += m.Spend
		sales += m.Sales
	}
	if spend == 0 && sales == 0 {
		return 0, false
	}
	return round2(computeAcos(spend, sales)), true
}

func (s *SyncService) syncKeywords(ctx context.Context, now time.Time) (int, error) {
	var remote []amazon.KeywordData
	if err := s.gateway.Get(ctx, "/sp/keywords?stateFilter=enabled,paused", &remote); err != nil {
		return 0, err
	}
	if len(remote) == 0 {
		return 0, nil
	}

	ids := make([]string, 0, len(remote))
	for _, k := range remote {
		ids = append(ids, k.KeywordID)
	}
	req := amazon.KeywordReportRequest{
		KeywordIDFilter: ids,
		StartDate:       now.Add(-metricSyncWindow).Format(reportDateLayout),
		EndDate:         now.Format(reportDateLayout),
		Metrics:         reportMetrics,
	}
	var rows []amazon.ReportRow
	if err := s.gateway.Post(ctx, "/sp/reports/keywords", req, &rows); err != nil {
		return 0, err
	}

	stats := make(map[string]amazon.ReportRow, len(rows))
	for _, row := range rows {
		agg := stats[row.KeywordID]
		agg.Impressions += row.Impressions
		agg.Clicks += row.Clicks
		agg.Cost += row.Cost
		agg.Sales14d += row.Sales14d
		agg.AttributedConversions14d += row.AttributedConversions14d
		stats[row.KeywordID] = agg
	}

	synced := 0
	for _, rk := range remote {
		existing, err := s.keywordRepo.GetByKeywordID(rk.KeywordID)
		if err != nil {
			logrus.Warnf("Failed to look up keyword %s: %v", rk.KeywordID, err)
			continue
		}

		row := stats[rk.KeywordID]
		if existing == nil {
			existing = &models.Keyword{
				KeywordID:   rk.KeywordID,
				CampaignID:  rk.CampaignID,
				AdGroupID:   rk.AdGroupID,
				KeywordText: rk.KeywordText,
				MatchType:   strings.ToUpper(rk.MatchType),
			}
		}
		existing.Status = strings.ToUpper(rk.State)
		existing.Bid = rk.Bid
		existing.Impressions = row.Impressions
		existing.Clicks = row.Clicks
		existing.Spend = row.Cost
		existing.Sales = row.Sales14d
		existing.Conversions = row.AttributedConversions14d
		existing.LastUpdated = now

		if existing.ID == "" {
			err = s.keywordRepo.Create(existing)
		} else {
			err = s.keywordRepo.Update(existing)
		}
		if err != nil {
			logrus.Warnf("Failed to upsert keyword %s: %v", rk.KeywordID, err)
			continue
		}
		synced++
	}
	return synced, nil
}

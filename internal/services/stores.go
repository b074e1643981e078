package services

import (
	"context"
	"time"

	"github.com/sellerpulse/ads-optimizer-backend/internal/amazon"
	"github.com/sellerpulse/ads-optimizer-backend/internal/models"
)

// Storage and gateway contracts consumed by the optimizer services. The
// repository package satisfies the stores; internal/amazon satisfies the
// gateway. Tests substitute fakes.

type campaignStore interface {
	GetByStatus(statuses ...string) ([]*models.Campaign, error)
	UpdateStatus(campaignID, status string) error
	UpdateBudget(campaignID string, budget float64) error
	TouchLastOptimized(campaignID string, at time.Time) error
	Upsert(campaign *models.Campaign) error
}

type keywordStore interface {
	Create(keyword *models.Keyword) error
	GetByKeywordID(keywordID string) (*models.Keyword, error)
	GetByCampaignAndText(campaignID, text string) (*models.Keyword, error)
	GetEnabledByCampaign(campaignID string) ([]*models.Keyword, error)
	GetEnabledWithBidAbove(ceiling float64) ([]*models.Keyword, error)
	Update(keyword *models.Keyword) error
	UpdateBid(id string, bid float64) error
	UpdateStatus(id, status string) error
}

type metricStore interface {
	Upsert(metric *models.PerformanceMetric) error
	FindBetween(campaignID string, start, end time.Time) ([]*models.PerformanceMetric, error)
	SumSpendBetween(start, end time.Time) (float64, error)
	SumCampaignSpendBetween(campaignID string, start, end time.Time) (float64, error)
}

type budgetStore interface {
	GetByMonth(month time.Time) (*models.BudgetRecord, error)
	Create(record *models.BudgetRecord) error
	Update(record *models.BudgetRecord) error
	GetRecent(months int) ([]*models.BudgetRecord, error)
}

type actionStore interface {
	Create(action *models.OptimizationAction) error
	GetRecent(limit int) ([]*models.OptimizationAction, error)
	CreateRun(run *models.OptimizationRun) error
}

type alertStore interface {
	Create(alert *models.Alert) error
	GetRecent(limit int) ([]*models.Alert, error)
}

// adsGateway is the slice of the Amazon client the optimizers call
type adsGateway interface {
	Get(ctx context.Context, path string, out interface{}) error
	Post(ctx context.Context, path string, body interface{}, out interface{}) error
	Put(ctx context.Context, path string, body interface{}, out interface{}) error
	GetCampaigns(ctx context.Context, stateFilter string) ([]amazon.CampaignData, error)
}

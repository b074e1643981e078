package repository

import (
	"time"

	"github.com/sellerpulse/ads-optimizer-backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type MetricRepository struct {
	db *gorm.DB
}

func NewMetricRepository(db *gorm.DB) *MetricRepository {
	return &MetricRepository{db: db}
}

// Upsert inserts the daily metric or replaces the same campaign/day row on re-sync
func (r *MetricRepository) Upsert(metric *models.PerformanceMetric) error {
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "campaign_id"}, {Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"impressions", "clicks", "spend", "sales", "conversions", "updated_at",
		}),
	}).Create(metric).Error
}

// FindBetween retrieves a campaign's daily metrics within [start, end]
func (r *MetricRepository) FindBetween(campaignID string, start, end time.Time) ([]*models.PerformanceMetric, error) {
	var metrics []*models.PerformanceMetric
	err := r.db.Where("campaign_id = ? AND date >= ? AND date <= ?", campaignID, start, end).
		Order("date").Find(&metrics).Error
	return metrics, err
}

// SumSpendBetween returns the total spend across all campaigns within [start, end]
func (r *MetricRepository) SumSpendBetween(start, end time.Time) (float64, error) {
	var total float64
	err := r.db.Model(&models.PerformanceMetric{}).
		Where("date >= ? AND date <= ?", start, end).
		Select("COALESCE(SUM(spend), 0)").Scan(&total).Error
	return total, err
}

// SumCampaignSpendBetween returns one campaign's total spend within [start, end]
func (r *MetricRepository) SumCampaignSpendBetween(campaignID string, start, end time.Time) (float64, error) {
	var total float64
	err := r.db.Model(&models.PerformanceMetric{}).
		Where("campaign_id = ? AND date >= ? AND date <= ?", campaignID, start, end).
		Select("COALESCE(SUM(spend), 0)").Scan(&total).Error
	return total, err
}

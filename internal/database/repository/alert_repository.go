package repository

import (
	"github.com/sellerpulse/ads-optimizer-backend/internal/models"

	"gorm.io/gorm"
)

type AlertRepository struct {
	db *gorm.DB
}

func NewAlertRepository(db *gorm.DB) *AlertRepository {
	return &AlertRepository{db: db}
}

// Create appends an alert. Alerts are never mutated.
func (r *AlertRepository) Create(alert *models.Alert) error {
	return r.db.Create(alert).Error
}

// GetRecent retrieves the most recent alerts, newest first
func (r *AlertRepository) GetRecent(limit int) ([]*models.Alert, error) {
	var alerts []*models.Alert
	err := r.db.Order("created_at DESC").Limit(limit).Find(&alerts).Error
	return alerts, err
}

// GetRecentBySeverity retrieves the most recent alerts of a given severity
func (r *AlertRepository) GetRecentBySeverity(severity string, limit int) ([]*models.Alert, error) {
	var alerts []*models.Alert
	err := r.db.Where("severity = ?", severity).
		Order("created_at DESC").Limit(limit).Find(&alerts).Error
	return alerts, err
}

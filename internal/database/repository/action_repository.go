package repository

import (
	"github.com/sellerpulse/ads-optimizer-backend/internal/models"

	"gorm.io/gorm"
)

type ActionRepository struct {
	db *gorm.DB
}

func NewActionRepository(db *gorm.DB) *ActionRepository {
	return &ActionRepository{db: db}
}

// Create appends an optimization action. Actions are never updated or deleted.
func (r *ActionRepository) Create(action *models.OptimizationAction) error {
	return r.db.Create(action).Error
}

// GetRecent retrieves the most recent actions, newest first
func (r *ActionRepository) GetRecent(limit int) ([]*models.OptimizationAction, error) {
	var actions []*models.OptimizationAction
	err := r.db.Order("created_at DESC").Limit(limit).Find(&actions).Error
	return actions, err
}

// GetRecentByCampaign retrieves a campaign's most recent actions, newest first
func (r *ActionRepository) GetRecentByCampaign(campaignID string, limit int) ([]*models.OptimizationAction, error) {
	var actions []*models.OptimizationAction
	err := r.db.Where("campaign_id = ?", campaignID).
		Order("created_at DESC").Limit(limit).Find(&actions).Error
	return actions, err
}

// CreateRun records the summary of one optimization run
func (r *ActionRepository) CreateRun(run *models.OptimizationRun) error {
	return r.db.Create(run).Error
}

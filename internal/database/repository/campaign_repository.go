package repository

import (
	"time"

	"github.com/sellerpulse/ads-optimizer-backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CampaignRepository struct {
	db *gorm.DB
}

func NewCampaignRepository(db *gorm.DB) *CampaignRepository {
	return &CampaignRepository{db: db}
}

// Create creates a new campaign
func (r *CampaignRepository) Create(campaign *models.Campaign) error {
	return r.db.Create(campaign).Error
}

// GetByStatus retrieves all campaigns in any of the given statuses
func (r *CampaignRepository) GetByStatus(statuses ...string) ([]*models.Campaign, error) {
	var campaigns []*models.Campaign
	err := r.db.Where("status IN ?", statuses).Order("created_at").Find(&campaigns).Error
	return campaigns, err
}

// Update updates a campaign
func (r *CampaignRepository) Update(campaign *models.Campaign) error {
	return r.db.Save(campaign).Error
}

// UpdateStatus sets the status of a campaign by its Amazon campaign ID
func (r *CampaignRepository) UpdateStatus(campaignID, status string) error {
	return r.db.Model(&models.Campaign{}).
		Where("campaign_id = ?", campaignID).
		Updates(map[string]interface{}{"status": status, "updated_at": time.Now()}).Error
}

// UpdateBudget sets the daily budget of a campaign by its Amazon campaign ID
func (r *CampaignRepository) UpdateBudget(campaignID string, budget float64) error {
	return r.db.Model(&models.Campaign{}).
		Where("campaign_id = ?", campaignID).
		Updates(map[string]interface{}{"budget": budget, "updated_at": time.Now()}).Error
}

// TouchLastOptimized stamps the campaign's last optimization time
func (r *CampaignRepository) TouchLastOptimized(campaignID string, at time.Time) error {
	return r.db.Model(&models.Campaign{}).
		Where("campaign_id = ?", campaignID).
		Update("last_optimized", at).Error
}

// Upsert inserts the campaign or updates the synced fields when the Amazon
// campaign ID already exists locally.
func (r *CampaignRepository) Upsert(campaign *models.Campaign) error {
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "campaign_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"name", "status", "budget", "current_acos", "updated_at",
		}),
	}).Create(campaign).Error
}

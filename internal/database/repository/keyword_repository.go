package repository

import (
	"errors"
	"time"

	"github.com/sellerpulse/ads-optimizer-backend/internal/models"

	"gorm.io/gorm"
)

type KeywordRepository struct {
	db *gorm.DB
}

func NewKeywordRepository(db *gorm.DB) *KeywordRepository {
	return &KeywordRepository{db: db}
}

// Create creates a new keyword
func (r *KeywordRepository) Create(keyword *models.Keyword) error {
	return r.db.Create(keyword).Error
}

// GetByKeywordID retrieves a keyword by its Amazon keyword ID
func (r *KeywordRepository) GetByKeywordID(keywordID string) (*models.Keyword, error) {
	var keyword models.Keyword
	if err := r.db.First(&keyword, "keyword_id = ?", keywordID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil // Return nil, nil when not found
		}
		return nil, err
	}
	return &keyword, nil
}

// GetByCampaignAndText retrieves a keyword by campaign and exact text
func (r *KeywordRepository) GetByCampaignAndText(campaignID, text string) (*models.Keyword, error) {
	var keyword models.Keyword
	if err := r.db.First(&keyword, "campaign_id = ? AND keyword_text = ?", campaignID, text).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil // Return nil, nil when not found
		}
		return nil, err
	}
	return &keyword, nil
}

// GetEnabledByCampaign retrieves all enabled keywords of a campaign
func (r *KeywordRepository) GetEnabledByCampaign(campaignID string) ([]*models.Keyword, error) {
	var keywords []*models.Keyword
	err := r.db.Where("campaign_id = ? AND status = ?", campaignID, models.KeywordStatusEnabled).
		Find(&keywords).Error
	return keywords, err
}

// GetEnabledWithBidAbove retrieves enabled keywords whose bid exceeds the ceiling
func (r *KeywordRepository) GetEnabledWithBidAbove(ceiling float64) ([]*models.Keyword, error) {
	var keywords []*models.Keyword
	err := r.db.Where("status = ? AND bid > ?", models.KeywordStatusEnabled, ceiling).
		Find(&keywords).Error
	return keywords, err
}

// Update updates a keyword
func (r *KeywordRepository) Update(keyword *models.Keyword) error {
	return r.db.Save(keyword).Error
}

// UpdateBid sets the bid of a keyword
func (r *KeywordRepository) UpdateBid(id string, bid float64) error {
	return r.db.Model(&models.Keyword{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"bid": bid, "last_updated": time.Now()}).Error
}

// UpdateStatus sets the status of a keyword
func (r *KeywordRepository) UpdateStatus(id, status string) error {
	return r.db.Model(&models.Keyword{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"status": status, "last_updated": time.Now()}).Error
}

package models

import (
	"time"
)

// Campaign status values. ARCHIVED is terminal: no rule re-enables an archived campaign.
const (
	CampaignStatusEnabled  = "ENABLED"
	CampaignStatusPaused   = "PAUSED"
	CampaignStatusArchived = "ARCHIVED"
)

// Campaign represents one Amazon Sponsored Products campaign tracked locally
type Campaign struct {
	ID         string `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	CampaignID string `json:"campaign_id" gorm:"type:varchar(64);uniqueIndex;not null"` // Amazon campaign ID
	Name       string `json:"name" gorm:"type:varchar(255);not null"`
	Status     string `json:"status" gorm:"type:varchar(20);index;default:'ENABLED'"`

	// Daily budget in account currency
	Budget     float64 `json:"budget" gorm:"not null"`
	TargetAcos float64 `json:"target_acos" gorm:"default:0"`

	// Last ACoS observed during sync; nil until the first performance report lands
	CurrentAcos *float64 `json:"current_acos"`

	LastOptimized *time.Time `json:"last_optimized"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// TableName specifies the table name for the Campaign model
func (Campaign) TableName() string {
	return "campaigns"
}

// IsArchived reports whether the campaign reached its terminal state
func (c *Campaign) IsArchived() bool {
	return c.Status == CampaignStatusArchived
}

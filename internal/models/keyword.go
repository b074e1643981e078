package models

import (
	"time"
)

// Keyword match types
const (
	MatchTypeExact          = "EXACT"
	MatchTypePhrase         = "PHRASE"
	MatchTypeBroad          = "BROAD"
	MatchTypeNegativePhrase = "NEGATIVE_PHRASE"
)

// Keyword status values
const (
	KeywordStatusEnabled = "ENABLED"
	KeywordStatusPaused  = "PAUSED"
)

// Keyword represents one keyword or negative keyword under a campaign.
// Keywords are paused but never hard-deleted.
type Keyword struct {
	ID          string `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	KeywordID   string `json:"keyword_id" gorm:"type:varchar(64);index"` // Amazon keyword ID
	CampaignID  string `json:"campaign_id" gorm:"type:varchar(64);index;not null"`
	AdGroupID   string `json:"ad_group_id" gorm:"type:varchar(64)"`
	KeywordText string `json:"keyword_text" gorm:"type:varchar(255);not null"`
	MatchType   string `json:"match_type" gorm:"type:varchar(20);default:'EXACT'"`
	Status      string `json:"status" gorm:"type:varchar(20);index;default:'ENABLED'"`

	// Bid per click, clamped to the configured [min, max] window on every write
	Bid float64 `json:"bid" gorm:"default:0"`

	// Trailing performance counters refreshed on each sync
	Impressions int     `json:"impressions" gorm:"default:0"`
	Clicks      int     `json:"clicks" gorm:"default:0"`
	Spend       float64 `json:"spend" gorm:"default:0"`
	Sales       float64 `json:"sales" gorm:"default:0"`
	Conversions int     `json:"conversions" gorm:"default:0"`

	LastUpdated time.Time `json:"last_updated"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName specifies the table name for the Keyword model
func (Keyword) TableName() string {
	return "keywords"
}

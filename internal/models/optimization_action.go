package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Action kinds recorded in the optimization audit log
const (
	ActionPause          = "PAUSE"
	ActionArchive        = "ARCHIVE"
	ActionEnable         = "ENABLE"
	ActionBudgetIncrease = "BUDGET_INCREASE"
	ActionBudgetDecrease = "BUDGET_DECREASE"
	ActionBudgetSet      = "BUDGET_REDISTRIBUTED"
	ActionNegativeAdded  = "NEGATIVE_ADDED"
	ActionPositiveAdded  = "POSITIVE_ADDED"
	ActionKeywordPaused  = "KEYWORD_PAUSED"
	ActionBidAdjusted    = "BID_ADJUSTED"
	ActionForcePause     = "FORCE_PAUSE"
	ActionBidsReduced    = "BIDS_REDUCED"
	ActionBidCapEnforced = "BID_CAP_ENFORCED"
)

// OptimizationAction is an immutable audit record of one decision.
// Rows are append-only: never mutated or deleted.
type OptimizationAction struct {
	ID          string `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	CampaignID  string `json:"campaign_id" gorm:"type:varchar(64);index;not null"`
	KeywordText string `json:"keyword_text,omitempty" gorm:"type:varchar(255)"`
	Action      string `json:"action" gorm:"type:varchar(32);not null"`
	OldValue    string `json:"old_value" gorm:"type:varchar(64)"`
	NewValue    string `json:"new_value" gorm:"type:varchar(64)"`
	Reason      string `json:"reason" gorm:"type:text"`

	CreatedAt time.Time `json:"created_at" gorm:"index"`
}

// BeforeCreate is a GORM hook that runs before creating a new record
func (a *OptimizationAction) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for the OptimizationAction model
func (OptimizationAction) TableName() string {
	return "optimization_actions"
}

// OptimizationRun is the per-run summary written after each keyword optimization pass
type OptimizationRun struct {
	ID   string `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	Type string `json:"type" gorm:"type:varchar(32);not null"`

	NegativeKeywordsAdded int `json:"negative_keywords_added" gorm:"default:0"`
	PositiveKeywordsAdded int `json:"positive_keywords_added" gorm:"default:0"`
	KeywordsPaused        int `json:"keywords_paused" gorm:"default:0"`
	BidsAdjusted          int `json:"bids_adjusted" gorm:"default:0"`

	ExecutedAt time.Time `json:"executed_at"`
}

// TableName specifies the table name for the OptimizationRun model
func (OptimizationRun) TableName() string {
	return "optimization_runs"
}

// CampaignAction is the result of one campaign-level decision as reported to callers
type CampaignAction struct {
	CampaignID   string `json:"campaign_id" example:"123456789"`
	CampaignName string `json:"campaign_name" example:"Auto - Garden Tools"`
	Action       string `json:"action" example:"BUDGET_INCREASE"`
	OldValue     string `json:"old_value" example:"50.00"`
	NewValue     string `json:"new_value" example:"55.00"`
	Reason       string `json:"reason" example:"ACoS within target range (ACoS: 8.00%)"`
}

// KeywordOptimizationResult aggregates counts of one keyword optimization run
type KeywordOptimizationResult struct {
	NegativeKeywordsAdded int `json:"negative_keywords_added" example:"3"`
	PositiveKeywordsAdded int `json:"positive_keywords_added" example:"1"`
	KeywordsPaused        int `json:"keywords_paused" example:"2"`
	BidsAdjusted          int `json:"bids_adjusted" example:"7"`
}

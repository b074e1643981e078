package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Alert severities
const (
	AlertSeverityInfo     = "INFO"
	AlertSeverityWarning  = "WARNING"
	AlertSeverityCritical = "CRITICAL"
)

// Alert types raised by the protection guard and budget tracker
const (
	AlertTypeBudgetExceeded = "BUDGET_EXCEEDED"
	AlertTypeBudgetWarning  = "BUDGET_WARNING"
	AlertTypeCostSpike      = "HIGH_COST_SPIKE"
	AlertTypeDailyCap       = "DAILY_SPEND_CAP"
	AlertTypeBidCap         = "BID_CAP_ENFORCED"
)

// Alert is one raised protection/budget event. Rows are never mutated.
type Alert struct {
	ID       string `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	Type     string `json:"type" gorm:"type:varchar(32);index;not null"`
	Severity string `json:"severity" gorm:"type:varchar(16);not null"`
	Title    string `json:"title" gorm:"type:varchar(255)"`
	Message  string `json:"message" gorm:"type:text"`

	CampaignID   string `json:"campaign_id,omitempty" gorm:"type:varchar(64);index"`
	CampaignName string `json:"campaign_name,omitempty" gorm:"type:varchar(255)"`

	// Arbitrary event payload serialized as JSON
	Data string `json:"data,omitempty" gorm:"type:text"`

	CreatedAt time.Time `json:"created_at" gorm:"index"`
}

// BeforeCreate is a GORM hook that runs before creating a new record
func (a *Alert) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for the Alert model
func (Alert) TableName() string {
	return "alerts"
}

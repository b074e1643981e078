package models

import (
	"time"
)

// AcosNoSales is the conventional "infinitely bad" ACoS used when spend occurred
// with literally zero attributable sales, so such entities rank worst instead of
// dividing by zero.
const AcosNoSales = 999.0

// PerformanceMetric is a daily performance aggregate for a campaign.
// One row per campaign per day, upserted if re-synced the same day.
type PerformanceMetric struct {
	ID         string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	CampaignID string    `json:"campaign_id" gorm:"type:varchar(64);not null;uniqueIndex:idx_metrics_campaign_date"`
	Date       time.Time `json:"date" gorm:"not null;uniqueIndex:idx_metrics_campaign_date"`

	Impressions int     `json:"impressions" gorm:"default:0"`
	Clicks      int     `json:"clicks" gorm:"default:0"`
	Spend       float64 `json:"spend" gorm:"default:0"`
	Sales       float64 `json:"sales" gorm:"default:0"`
	Conversions int     `json:"conversions" gorm:"default:0"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for the PerformanceMetric model
func (PerformanceMetric) TableName() string {
	return "performance_metrics"
}

// Acos returns spend/sales*100, or the no-sales sentinel when spend occurred
// without attributable sales.
func (m *PerformanceMetric) Acos() float64 {
	if m.Sales > 0 {
		return m.Spend / m.Sales * 100
	}
	if m.Spend > 0 {
		return AcosNoSales
	}
	return 0
}

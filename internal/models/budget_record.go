package models

import (
	"time"
)

// BudgetRecord is the monthly spend ledger for the whole advertising account.
// Month is normalized to the first day of the month and is unique.
type BudgetRecord struct {
	ID    string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	Month time.Time `json:"month" gorm:"uniqueIndex;not null"`

	TotalBudget float64 `json:"total_budget" gorm:"not null"`
	Spent       float64 `json:"spent" gorm:"default:0"`
	Remaining   float64 `json:"remaining" gorm:"default:0"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for the BudgetRecord model
func (BudgetRecord) TableName() string {
	return "budget_records"
}

// BudgetStatus is the computed view of the current month's ledger
type BudgetStatus struct {
	Month                 string  `json:"month" example:"2026-08"`
	TotalBudget           float64 `json:"total_budget" example:"2000"`
	Spent                 float64 `json:"spent" example:"812.44"`
	Remaining             float64 `json:"remaining" example:"1187.56"`
	PercentUsed           float64 `json:"percent_used" example:"40.62"`
	AverageDailySpend     float64 `json:"average_daily_spend" example:"27.08"`
	ProjectedMonthlySpend float64 `json:"projected_monthly_spend" example:"839.72"`
	DaysElapsed           int     `json:"days_elapsed" example:"30"`
	DaysRemaining         int     `json:"days_remaining" example:"1"`
	BudgetPerRemainingDay float64 `json:"budget_per_remaining_day" example:"1187.56"`
}

// BudgetHistoryEntry is one month of the ledger as returned by the history endpoint
type BudgetHistoryEntry struct {
	Month       string  `json:"month" example:"2026-07"`
	TotalBudget float64 `json:"total_budget" example:"2000"`
	Spent       float64 `json:"spent" example:"1954.01"`
	Remaining   float64 `json:"remaining" example:"45.99"`
	PercentUsed float64 `json:"percent_used" example:"97.70"`
	UnderBudget bool    `json:"under_budget" example:"true"`
}

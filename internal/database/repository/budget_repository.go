package repository

import (
	"errors"
	"time"

	"github.com/sellerpulse/ads-optimizer-backend/internal/models"

	"gorm.io/gorm"
)

type BudgetRepository struct {
	db *gorm.DB
}

func NewBudgetRepository(db *gorm.DB) *BudgetRepository {
	return &BudgetRepository{db: db}
}

// GetByMonth retrieves the budget record for a month (first-of-month date)
func (r *BudgetRepository) GetByMonth(month time.Time) (*models.BudgetRecord, error) {
	var record models.BudgetRecord
	if err := r.db.First(&record, "month = ?", month).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil // Return nil, nil when not found
		}
		return nil, err
	}
	return &record, nil
}

// Create creates a new monthly budget record
func (r *BudgetRepository) Create(record *models.BudgetRecord) error {
	return r.db.Create(record).Error
}

// Update updates a budget record
func (r *BudgetRepository) Update(record *models.BudgetRecord) error {
	return r.db.Save(record).Error
}

// GetRecent retrieves the most recent monthly records, newest first
func (r *BudgetRepository) GetRecent(months int) ([]*models.BudgetRecord, error) {
	var records []*models.BudgetRecord
	err := r.db.Order("month DESC").Limit(months).Find(&records).Error
	return records, err
}

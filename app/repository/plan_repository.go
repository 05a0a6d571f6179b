package repository

import (
	"gorm.io/gorm"

	"github.com/magforge/pressdesk/app/models"
)

// planRepository implements the PlanRepository interface
type planRepository struct {
	db *gorm.DB
}

// NewPlanRepository creates a new plan repository instance
func NewPlanRepository(db *gorm.DB) PlanRepository {
	return &planRepository{db: db}
}

// ListActiveByBrand retrieves the purchasable plans of a brand
func (r *planRepository) ListActiveByBrand(brandID uint) ([]models.SubscriptionPlan, error) {
	var plans []models.SubscriptionPlan
	err := r.db.Where("brand_id = ? AND is_active = ?", brandID, true).
		Order("price_inr ASC").
		Find(&plans).Error
	if err != nil {
		return nil, err
	}
	return plans, nil
}

// ListAdmin retrieves plans without the is_active gate, optionally
// filtered by brand and active flag.
func (r *planRepository) ListAdmin(brandID uint, isActive *bool) ([]models.SubscriptionPlan, error) {
	query := r.db.Model(&models.SubscriptionPlan{})
	if brandID != 0 {
		query = query.Where("brand_id = ?", brandID)
	}
	if isActive != nil {
		query = query.Where("is_active = ?", *isActive)
	}
	var plans []models.SubscriptionPlan
	if err := query.Order("brand_id ASC, price_inr ASC").Find(&plans).Error; err != nil {
		return nil, err
	}
	return plans, nil
}

// GetByID retrieves a plan by its ID
func (r *planRepository) GetByID(id uint) (*models.SubscriptionPlan, error) {
	var plan models.SubscriptionPlan
	if err := r.db.First(&plan, id).Error; err != nil {
		return nil, err
	}
	return &plan, nil
}

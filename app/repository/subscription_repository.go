package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/magforge/pressdesk/app/models"
)

// subscriptionRepository implements the SubscriptionRepository interface
type subscriptionRepository struct {
	db *gorm.DB
}

// NewSubscriptionRepository creates a new subscription repository instance
func NewSubscriptionRepository(db *gorm.DB) SubscriptionRepository {
	return &subscriptionRepository{db: db}
}

// Create creates a new subscription in the database
func (r *subscriptionRepository) Create(sub *models.Subscription) error {
	return r.db.Create(sub).Error
}

// GetByID retrieves a subscription with its brand and plan
func (r *subscriptionRepository) GetByID(id uint) (*models.Subscription, error) {
	var sub models.Subscription
	if err := r.db.Preload("Brand").Preload("Plan").First(&sub, id).Error; err != nil {
		return nil, err
	}
	return &sub, nil
}

// ListByUser retrieves a user's subscriptions, optionally per brand
func (r *subscriptionRepository) ListByUser(userID uint, brandID uint) ([]models.Subscription, error) {
	query := r.db.Where("user_id = ?", userID)
	if brandID != 0 {
		query = query.Where("brand_id = ?", brandID)
	}
	var subs []models.Subscription
	err := query.Preload("Brand").Preload("Plan").
		Order("end_at DESC").
		Find(&subs).Error
	if err != nil {
		return nil, err
	}
	return subs, nil
}

// List retrieves a paginated, filtered list for the admin view
func (r *subscriptionRepository) List(filter SubscriptionFilter) ([]models.Subscription, int64, error) {
	query := r.db.Model(&models.Subscription{})
	if filter.BrandID != 0 {
		query = query.Where("brand_id = ?", filter.BrandID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var subs []models.Subscription
	err := query.Preload("Brand").Preload("Plan").
		Order("created_at DESC").
		Offset(filter.Offset).
		Limit(filter.Limit).
		Find(&subs).Error
	if err != nil {
		return nil, 0, err
	}
	return subs, total, nil
}

// Update updates an existing subscription
func (r *subscriptionRepository) Update(sub *models.Subscription) error {
	return r.db.Save(sub).Error
}

// Delete removes a subscription
func (r *subscriptionRepository) Delete(id uint) error {
	return r.db.Delete(&models.Subscription{}, id).Error
}

// GetActive retrieves the active subscription of a user for a brand
func (r *subscriptionRepository) GetActive(userID, brandID uint) (*models.Subscription, error) {
	var sub models.Subscription
	err := r.db.Where("user_id = ? AND brand_id = ? AND status = ?",
		userID, brandID, models.SubscriptionStatusActive).First(&sub).Error
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

// HasCurrent reports whether the user holds an unexpired active
// subscription for the brand at the given instant.
func (r *subscriptionRepository) HasCurrent(userID, brandID uint, now time.Time) (bool, error) {
	var count int64
	err := r.db.Model(&models.Subscription{}).
		Where("user_id = ? AND brand_id = ? AND status = ? AND start_at <= ? AND end_at > ?",
			userID, brandID, models.SubscriptionStatusActive, now, now).
		Count(&count).Error
	return count > 0, err
}

// ExpireActive force-expires any active subscription of the pair,
// used when an admin grants a replacement window.
func (r *subscriptionRepository) ExpireActive(userID, brandID uint) error {
	return r.db.Model(&models.Subscription{}).
		Where("user_id = ? AND brand_id = ? AND status = ?", userID, brandID, models.SubscriptionStatusActive).
		Update("status", models.SubscriptionStatusExpired).Error
}

// CountByStatus returns the number of subscriptions in a status
func (r *subscriptionRepository) CountByStatus(status string) (int64, error) {
	var count int64
	err := r.db.Model(&models.Subscription{}).Where("status = ?", status).Count(&count).Error
	return count, err
}

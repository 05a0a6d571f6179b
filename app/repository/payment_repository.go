package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/magforge/pressdesk/app/models"
)

// paymentRepository implements the PaymentRepository interface
type paymentRepository struct {
	db *gorm.DB
}

// NewPaymentRepository creates a new payment repository instance
func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

// List retrieves a paginated, filtered slice of the payment ledger
func (r *paymentRepository) List(filter PaymentFilter) ([]models.Payment, int64, error) {
	query := r.db.Model(&models.Payment{})
	if filter.BrandID != 0 {
		query = query.Where("brand_id = ?", filter.BrandID)
	}
	if filter.UserID != 0 {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var payments []models.Payment
	err := query.Preload("Refunds").
		Order("created_at DESC").
		Offset(filter.Offset).
		Limit(filter.Limit).
		Find(&payments).Error
	if err != nil {
		return nil, 0, err
	}
	return payments, total, nil
}

// GetByID retrieves one ledger entry with refunds and webhook trail
func (r *paymentRepository) GetByID(id uint) (*models.Payment, error) {
	var payment models.Payment
	err := r.db.Preload("Refunds").Preload("WebhookEvents").First(&payment, id).Error
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

// CountPaid counts settled payments, optionally per brand and since a cutoff
func (r *paymentRepository) CountPaid(brandID uint, since *time.Time) (int64, error) {
	query := r.db.Model(&models.Payment{}).Where("status = ?", models.PaymentStatusPaid)
	if brandID != 0 {
		query = query.Where("brand_id = ?", brandID)
	}
	if since != nil {
		query = query.Where("paid_at >= ?", *since)
	}
	var count int64
	err := query.Count(&count).Error
	return count, err
}

package payments

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/magforge/pressdesk/app/models"
)

// Repository provides the DB operations used by the orchestrator.
type Repository interface {
	FindActivePlan(planID uint) (*models.SubscriptionPlan, error)
	FindPlan(planID uint) (*models.SubscriptionPlan, error)

	CreatePayment(payment *models.Payment) error
	GetPaymentByOrderID(gatewayOrderID string) (*models.Payment, error)
	GetPaymentByGatewayPaymentID(gatewayPaymentID string) (*models.Payment, error)
	// MarkPaymentPaid applies the paid transition only while the entry
	// is still payable and reports whether the update applied.
	MarkPaymentPaid(paymentID uint, gatewayPaymentID, signature string, paidAt time.Time) (bool, error)
	MarkPaymentFailed(paymentID uint, failure models.PaymentFailure, failedAt time.Time) error
	MarkPaymentRefunded(paymentID uint, refundedAt time.Time) error
	LinkSubscription(paymentID, subscriptionID uint) error
	AddRefund(refund *models.PaymentRefund) error
	// RecordWebhookEvent inserts the event id if unseen and reports
	// whether a row was created.
	RecordWebhookEvent(event *models.PaymentWebhookEvent) (bool, error)

	GetActiveSubscription(userID, brandID uint) (*models.Subscription, error)
	CreateSubscription(sub *models.Subscription) error
	ExtendSubscription(subscriptionID uint, endAt time.Time, lastPaymentID uint) error
	GetSubscription(id uint) (*models.Subscription, error)
}

type gormRepository struct {
	db *gorm.DB
}

// NewRepository creates a payments repository backed by GORM.
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) FindActivePlan(planID uint) (*models.SubscriptionPlan, error) {
	var plan models.SubscriptionPlan
	err := r.db.Where("id = ? AND is_active = ?", planID, true).First(&plan).Error
	if err != nil {
		return nil, err
	}
	return &plan, nil
}

func (r *gormRepository) FindPlan(planID uint) (*models.SubscriptionPlan, error) {
	var plan models.SubscriptionPlan
	if err := r.db.First(&plan, planID).Error; err != nil {
		return nil, err
	}
	return &plan, nil
}

func (r *gormRepository) CreatePayment(payment *models.Payment) error {
	return r.db.Create(payment).Error
}

func (r *gormRepository) GetPaymentByOrderID(gatewayOrderID string) (*models.Payment, error) {
	var payment models.Payment
	err := r.db.Where("gateway_order_id = ?", gatewayOrderID).First(&payment).Error
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *gormRepository) GetPaymentByGatewayPaymentID(gatewayPaymentID string) (*models.Payment, error) {
	var payment models.Payment
	err := r.db.Where("gateway_payment_id = ?", gatewayPaymentID).First(&payment).Error
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *gormRepository) MarkPaymentPaid(paymentID uint, gatewayPaymentID, signature string, paidAt time.Time) (bool, error) {
	result := r.db.Model(&models.Payment{}).
		Where("id = ? AND status IN ?", paymentID, []string{models.PaymentStatusCreated, models.PaymentStatusAttempted}).
		Updates(map[string]interface{}{
			"status":             models.PaymentStatusPaid,
			"gateway_payment_id": gatewayPaymentID,
			"gateway_signature":  signature,
			"paid_at":            paidAt,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *gormRepository) MarkPaymentFailed(paymentID uint, failure models.PaymentFailure, failedAt time.Time) error {
	return r.db.Model(&models.Payment{}).
		Where("id = ?", paymentID).
		Updates(map[string]interface{}{
			"status":              models.PaymentStatusFailed,
			"failed_at":           failedAt,
			"failure_code":        failure.Code,
			"failure_description": failure.Description,
			"failure_source":      failure.Source,
			"failure_step":        failure.Step,
			"failure_reason":      failure.Reason,
		}).Error
}

func (r *gormRepository) MarkPaymentRefunded(paymentID uint, refundedAt time.Time) error {
	return r.db.Model(&models.Payment{}).
		Where("id = ? AND status = ?", paymentID, models.PaymentStatusPaid).
		Updates(map[string]interface{}{
			"status":      models.PaymentStatusRefunded,
			"refunded_at": refundedAt,
		}).Error
}

func (r *gormRepository) LinkSubscription(paymentID, subscriptionID uint) error {
	return r.db.Model(&models.Payment{}).
		Where("id = ?", paymentID).
		Update("subscription_id", subscriptionID).Error
}

func (r *gormRepository) AddRefund(refund *models.PaymentRefund) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "refund_id"}},
		DoNothing: true,
	}).Create(refund).Error
}

func (r *gormRepository) RecordWebhookEvent(event *models.PaymentWebhookEvent) (bool, error) {
	result := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "event_id"}},
		DoNothing: true,
	}).Create(event)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *gormRepository) GetActiveSubscription(userID, brandID uint) (*models.Subscription, error) {
	var sub models.Subscription
	err := r.db.Where("user_id = ? AND brand_id = ? AND status = ?",
		userID, brandID, models.SubscriptionStatusActive).First(&sub).Error
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *gormRepository) CreateSubscription(sub *models.Subscription) error {
	return r.db.Create(sub).Error
}

func (r *gormRepository) ExtendSubscription(subscriptionID uint, endAt time.Time, lastPaymentID uint) error {
	return r.db.Model(&models.Subscription{}).
		Where("id = ?", subscriptionID).
		Updates(map[string]interface{}{
			"end_at":          endAt,
			"last_payment_id": lastPaymentID,
		}).Error
}

func (r *gormRepository) GetSubscription(id uint) (*models.Subscription, error) {
	var sub models.Subscription
	if err := r.db.First(&sub, id).Error; err != nil {
		return nil, err
	}
	return &sub, nil
}

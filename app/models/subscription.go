package models

import "time"

const (
	SubscriptionStatusActive    = "active"
	SubscriptionStatusExpired   = "expired"
	SubscriptionStatusCancelled = "cancelled"
)

// Subscription is a user's access window to one brand. At most one
// active row may exist per (user, brand); renewals extend EndAt on
// the existing row instead of creating a second one.
type Subscription struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	UserID        uint      `gorm:"not null;index:idx_subscriptions_user_brand_status,priority:1;index" json:"user_id"`
	BrandID       uint      `gorm:"not null;index:idx_subscriptions_user_brand_status,priority:2;index" json:"brand_id"`
	PlanID        uint      `gorm:"not null;index" json:"plan_id"`
	StartAt       time.Time `gorm:"not null" json:"start_at"`
	EndAt         time.Time `gorm:"not null;index" json:"end_at"`
	Status        string    `gorm:"type:varchar(20);default:'active';index:idx_subscriptions_user_brand_status,priority:3;index" json:"status"`
	LastPaymentID *uint     `gorm:"index" json:"last_payment_id,omitempty"`

	Brand *Brand            `gorm:"foreignKey:BrandID" json:"brand,omitempty"`
	Plan  *SubscriptionPlan `gorm:"foreignKey:PlanID" json:"plan,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// IsCurrent reports whether the subscription grants access right now.
func (s *Subscription) IsCurrent(now time.Time) bool {
	return s.Status == SubscriptionStatusActive && s.EndAt.After(now)
}

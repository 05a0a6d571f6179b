package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	PlanPeriodMonthly = "monthly"
	PlanPeriodYearly  = "yearly"
)

// SubscriptionPlan is a purchasable access plan for one brand. Prices
// are stored in whole rupees; the payment ledger captures the charged
// amount in paise at order time, so later price edits never alter
// existing ledger entries.
type SubscriptionPlan struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	BrandID   uint           `gorm:"not null;index" json:"brand_id" validate:"required"`
	Name      string         `gorm:"type:varchar(150);not null" json:"name" validate:"required,max=150"`
	Period    string         `gorm:"type:varchar(10);default:'yearly';index" json:"period" validate:"omitempty,oneof=monthly yearly"`
	PriceINR  int64          `gorm:"not null" json:"price_inr" validate:"required,min=1"`
	IsActive  bool           `gorm:"default:true;index" json:"is_active"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// PeriodEnd returns the end of the access window granted by one purchase.
func (p *SubscriptionPlan) PeriodEnd(from time.Time) time.Time {
	if p.Period == PlanPeriodMonthly {
		return from.AddDate(0, 1, 0)
	}
	return from.AddDate(1, 0, 0)
}

package models

import "time"

// Payment lifecycle states. A payment moves forward only: created or
// attempted may become paid, and only paid may become refunded.
const (
	PaymentStatusCreated   = "created"
	PaymentStatusAttempted = "attempted"
	PaymentStatusPaid      = "paid"
	PaymentStatusFailed    = "failed"
	PaymentStatusCancelled = "cancelled"
	PaymentStatusExpired   = "expired"
	PaymentStatusRefunded  = "refunded"
)

// PaymentFailure carries the gateway's error detail for a failed payment.
type PaymentFailure struct {
	Code        string `gorm:"type:varchar(50)" json:"code"`
	Description string `gorm:"type:varchar(255)" json:"description"`
	Source      string `gorm:"type:varchar(50)" json:"source"`
	Step        string `gorm:"type:varchar(50)" json:"step"`
	Reason      string `gorm:"type:varchar(100)" json:"reason"`
}

// PaymentClient records where the purchase was initiated from.
type PaymentClient struct {
	Platform  string `gorm:"type:varchar(20);default:'unknown'" json:"platform"`
	DeviceID  string `gorm:"type:varchar(100)" json:"device_id"`
	IP        string `gorm:"type:varchar(45)" json:"ip"`
	UserAgent string `gorm:"type:varchar(255)" json:"user_agent"`
}

// Payment is the ledger entry for one purchase attempt. Gateway order
// and payment ids are globally unique when present; the amount is
// captured in paise at order-creation time.
type Payment struct {
	ID      uint `gorm:"primaryKey" json:"id"`
	UserID  uint `gorm:"not null;index:idx_payments_user_status,priority:1;index" json:"user_id"`
	BrandID uint `gorm:"not null;index:idx_payments_brand_status,priority:1;index" json:"brand_id"`
	PlanID  uint `gorm:"not null;index" json:"plan_id"`

	AmountPaise int64  `gorm:"not null" json:"amount_paise"`
	Currency    string `gorm:"type:varchar(10);default:'INR'" json:"currency"`
	Status      string `gorm:"type:varchar(20);default:'created';index;index:idx_payments_user_status,priority:2;index:idx_payments_brand_status,priority:2" json:"status"`

	GatewayOrderID   string `gorm:"type:varchar(64);uniqueIndex;default:null" json:"gateway_order_id"`
	GatewayPaymentID string `gorm:"type:varchar(64);uniqueIndex;default:null" json:"gateway_payment_id"`
	GatewaySignature string `gorm:"type:varchar(128)" json:"-"`

	SubscriptionID *uint `gorm:"index" json:"subscription_id,omitempty"`

	Failure PaymentFailure `gorm:"embedded;embeddedPrefix:failure_" json:"failure"`
	Client  PaymentClient  `gorm:"embedded;embeddedPrefix:client_" json:"client"`

	Refunds       []PaymentRefund       `gorm:"foreignKey:PaymentID" json:"refunds,omitempty"`
	WebhookEvents []PaymentWebhookEvent `gorm:"foreignKey:PaymentID" json:"webhook_events,omitempty"`

	AttemptedAt *time.Time `gorm:"type:timestamp;default:null" json:"attempted_at,omitempty"`
	PaidAt      *time.Time `gorm:"type:timestamp;default:null" json:"paid_at,omitempty"`
	FailedAt    *time.Time `gorm:"type:timestamp;default:null" json:"failed_at,omitempty"`
	CancelledAt *time.Time `gorm:"type:timestamp;default:null" json:"cancelled_at,omitempty"`
	RefundedAt  *time.Time `gorm:"type:timestamp;default:null" json:"refunded_at,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// PaymentRefund is one refund issued against a paid payment.
type PaymentRefund struct {
	ID               uint       `gorm:"primaryKey" json:"id"`
	PaymentID        uint       `gorm:"not null;index" json:"payment_id"`
	RefundID         string     `gorm:"type:varchar(64);uniqueIndex;default:null" json:"refund_id"`
	AmountPaise      int64      `gorm:"default:0" json:"amount_paise"`
	Status           string     `gorm:"type:varchar(30)" json:"status"`
	GatewayCreatedAt *time.Time `gorm:"type:timestamp;default:null" json:"gateway_created_at,omitempty"`
	Notes            string     `gorm:"type:varchar(255)" json:"notes"`
	CreatedAt        time.Time  `gorm:"autoCreateTime" json:"created_at"`
}

// PaymentWebhookEvent records one delivered gateway event. EventID is
// globally unique, which is what makes redelivered webhooks no-ops.
type PaymentWebhookEvent struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	PaymentID  uint      `gorm:"not null;index" json:"payment_id"`
	EventID    string    `gorm:"type:varchar(100);not null;uniqueIndex" json:"event_id"`
	EventType  string    `gorm:"type:varchar(100)" json:"event_type"`
	ReceivedAt time.Time `gorm:"autoCreateTime" json:"received_at"`
}

// CanBePaid reports whether the payment may still transition to paid.
func (p *Payment) CanBePaid() bool {
	return p.Status == PaymentStatusCreated || p.Status == PaymentStatusAttempted
}

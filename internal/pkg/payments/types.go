package payments

import (
	"errors"

	"github.com/magforge/pressdesk/app/models"
	"github.com/magforge/pressdesk/internal/pkg/env"
)

var (
	// ErrInvalidPlan means the requested plan is missing or inactive.
	ErrInvalidPlan = errors.New("plan missing or inactive")
	// ErrSignatureMismatch means a payment confirmation failed the HMAC check.
	ErrSignatureMismatch = errors.New("payment signature mismatch")
	// ErrPaymentNotFound means no ledger entry matches the gateway order id.
	ErrPaymentNotFound = errors.New("payment not found")
	// ErrPlanNotFound means a ledger entry references a plan that no longer exists.
	ErrPlanNotFound = errors.New("plan not found")
)

// Config carries the gateway credentials and renewal policy.
type Config struct {
	KeyID         string
	KeySecret     string
	WebhookSecret string
	// RenewFixedYear keeps the legacy renewal rule of extending an
	// existing subscription by one year regardless of plan period.
	RenewFixedYear bool
}

// LoadConfig reads the gateway configuration from the environment.
func LoadConfig() Config {
	return Config{
		KeyID:          env.GetEnv("RAZORPAY_KEY_ID", ""),
		KeySecret:      env.GetEnv("RAZORPAY_KEY_SECRET", ""),
		WebhookSecret:  env.GetEnv("RAZORPAY_WEBHOOK_SECRET", ""),
		RenewFixedYear: env.GetEnv("PAYMENT_RENEW_FIXED_YEAR", "false") == "true",
	}
}

// ClientInfo records where a purchase was initiated from.
type ClientInfo struct {
	Platform  string
	DeviceID  string
	IP        string
	UserAgent string
}

// OrderResult is the response of CreateOrder, everything a client
// needs to open the gateway checkout.
type OrderResult struct {
	PaymentID      uint   `json:"payment_id"`
	GatewayOrderID string `json:"gateway_order_id"`
	AmountPaise    int64  `json:"amount_paise"`
	Currency       string `json:"currency"`
	PlanName       string `json:"plan_name"`
	KeyID          string `json:"key_id"`
}

// VerifyInput is the client-side payment confirmation.
type VerifyInput struct {
	OrderID   string
	PaymentID string
	Signature string
}

// VerifyResult reports the outcome of a payment confirmation.
// AlreadyProcessed is true when the ledger entry was paid before this
// call, in which case nothing was written.
type VerifyResult struct {
	Payment          *models.Payment      `json:"payment"`
	Subscription     *models.Subscription `json:"subscription,omitempty"`
	AlreadyProcessed bool                 `json:"already_processed"`
}

// WebhookResult reports how a gateway event was handled. Processed is
// false only for duplicate deliveries.
type WebhookResult struct {
	Processed bool   `json:"processed"`
	Reason    string `json:"reason,omitempty"`
}

// RemoteOrderInput is the request for a gateway-side order.
type RemoteOrderInput struct {
	AmountPaise int64
	Currency    string
	Receipt     string
	Notes       map[string]interface{}
}

// Gateway is the payment provider client. The production
// implementation wraps razorpay-go; tests inject a fake.
type Gateway interface {
	CreateRemoteOrder(input RemoteOrderInput) (gatewayOrderID string, err error)
}

package payments

import "encoding/json"

// WebhookEvent is the gateway's raw event envelope. Only the fields
// the orchestrator consumes are mapped; everything else is ignored.
type WebhookEvent struct {
	ID      string         `json:"id"`
	Event   string         `json:"event"`
	Payload WebhookPayload `json:"payload"`
}

// WebhookPayload holds the entity wrappers Razorpay nests per type.
type WebhookPayload struct {
	Payment *EntityWrapper[PaymentEntity] `json:"payment,omitempty"`
	Order   *EntityWrapper[OrderEntity]   `json:"order,omitempty"`
	Refund  *EntityWrapper[RefundEntity]  `json:"refund,omitempty"`
}

// EntityWrapper matches the {"entity": {...}} nesting of the payload.
type EntityWrapper[T any] struct {
	Entity T `json:"entity"`
}

// PaymentEntity is the payment object inside captured/failed events.
type PaymentEntity struct {
	ID               string `json:"id"`
	OrderID          string `json:"order_id"`
	ErrorCode        string `json:"error_code"`
	ErrorDescription string `json:"error_description"`
	ErrorSource      string `json:"error_source"`
	ErrorStep        string `json:"error_step"`
	ErrorReason      string `json:"error_reason"`
}

// OrderEntity is the order object inside order.paid events.
type OrderEntity struct {
	ID string `json:"id"`
}

// RefundEntity is the refund object inside refund.* events.
type RefundEntity struct {
	ID        string `json:"id"`
	PaymentID string `json:"payment_id"`
	Amount    int64  `json:"amount"`
	Status    string `json:"status"`
	CreatedAt int64  `json:"created_at"`
}

// ParseWebhookEvent decodes a raw webhook body.
func ParseWebhookEvent(rawBody []byte) (*WebhookEvent, error) {
	var event WebhookEvent
	if err := json.Unmarshal(rawBody, &event); err != nil {
		return nil, err
	}
	return &event, nil
}

type eventCategory int

const (
	categoryUnknown eventCategory = iota
	categoryCaptured
	categoryFailed
	categoryRefund
)

// categorize maps the gateway's event type strings onto the closed
// set of categories the orchestrator dispatches on. terminal is true
// for the refund event that completes a refund.
func categorize(eventType string) (category eventCategory, terminal bool) {
	switch eventType {
	case "payment.captured", "order.paid":
		return categoryCaptured, false
	case "payment.failed":
		return categoryFailed, false
	case "refund.processed":
		return categoryRefund, true
	case "refund.created", "refund.speed_changed", "refund.failed":
		return categoryRefund, false
	default:
		return categoryUnknown, false
	}
}

// orderIDFromEvent pulls the gateway order id out of a captured event,
// preferring the payment entity and falling back to the order entity.
func orderIDFromEvent(event *WebhookEvent) string {
	if event.Payload.Payment != nil && event.Payload.Payment.Entity.OrderID != "" {
		return event.Payload.Payment.Entity.OrderID
	}
	if event.Payload.Order != nil {
		return event.Payload.Order.Entity.ID
	}
	return ""
}

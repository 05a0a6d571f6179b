package payments

import "testing"

func TestCategorize(t *testing.T) {
	tests := []struct {
		eventType string
		category  eventCategory
		terminal  bool
	}{
		{"payment.captured", categoryCaptured, false},
		{"order.paid", categoryCaptured, false},
		{"payment.failed", categoryFailed, false},
		{"refund.created", categoryRefund, false},
		{"refund.processed", categoryRefund, true},
		{"refund.speed_changed", categoryRefund, false},
		{"refund.failed", categoryRefund, false},
		{"payment.authorized", categoryUnknown, false},
		{"subscription.charged", categoryUnknown, false},
		{"", categoryUnknown, false},
	}
	for _, tt := range tests {
		category, terminal := categorize(tt.eventType)
		if category != tt.category || terminal != tt.terminal {
			t.Fatalf("categorize(%q) = (%v, %v), want (%v, %v)",
				tt.eventType, category, terminal, tt.category, tt.terminal)
		}
	}
}

func TestParseWebhookEvent(t *testing.T) {
	raw := []byte(`{
		"id": "evt_1",
		"event": "payment.failed",
		"payload": {
			"payment": {
				"entity": {
					"id": "pay_1",
					"order_id": "order_x",
					"error_code": "E1",
					"error_description": "card declined",
					"error_source": "bank",
					"error_step": "authorization",
					"error_reason": "insufficient_funds"
				}
			}
		}
	}`)

	event, err := ParseWebhookEvent(raw)
	if err != nil {
		t.Fatalf("ParseWebhookEvent: %v", err)
	}
	if event.ID != "evt_1" || event.Event != "payment.failed" {
		t.Fatalf("envelope = %q/%q", event.ID, event.Event)
	}
	entity := event.Payload.Payment.Entity
	if entity.OrderID != "order_x" || entity.ErrorCode != "E1" {
		t.Fatalf("payment entity = %+v", entity)
	}
}

func TestParseWebhookEventMalformed(t *testing.T) {
	if _, err := ParseWebhookEvent([]byte("not-json")); err == nil {
		t.Fatal("expected error for malformed body")
	}
}

func TestOrderIDFromEvent(t *testing.T) {
	fromPayment := &WebhookEvent{Payload: WebhookPayload{
		Payment: &EntityWrapper[PaymentEntity]{Entity: PaymentEntity{OrderID: "order_a"}},
	}}
	if got := orderIDFromEvent(fromPayment); got != "order_a" {
		t.Fatalf("orderIDFromEvent = %q, want order_a", got)
	}

	fromOrder := &WebhookEvent{Payload: WebhookPayload{
		Order: &EntityWrapper[OrderEntity]{Entity: OrderEntity{ID: "order_b"}},
	}}
	if got := orderIDFromEvent(fromOrder); got != "order_b" {
		t.Fatalf("orderIDFromEvent = %q, want order_b", got)
	}

	if got := orderIDFromEvent(&WebhookEvent{}); got != "" {
		t.Fatalf("orderIDFromEvent = %q, want empty", got)
	}
}

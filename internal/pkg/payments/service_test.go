package payments

import (
	"context"
	"errors"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/magforge/pressdesk/app/models"
)

type fakeGateway struct {
	orderID   string
	err       error
	lastInput RemoteOrderInput
	calls     int
}

func (g *fakeGateway) CreateRemoteOrder(input RemoteOrderInput) (string, error) {
	g.calls++
	g.lastInput = input
	if g.err != nil {
		return "", g.err
	}
	return g.orderID, nil
}

type fakeRepository struct {
	plans         map[uint]*models.SubscriptionPlan
	payments      map[uint]*models.Payment
	subscriptions map[uint]*models.Subscription
	events        map[string]uint
	refunds       []*models.PaymentRefund
	nextPaymentID uint
	nextSubID     uint
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		plans:         map[uint]*models.SubscriptionPlan{},
		payments:      map[uint]*models.Payment{},
		subscriptions: map[uint]*models.Subscription{},
		events:        map[string]uint{},
	}
}

func (r *fakeRepository) FindActivePlan(planID uint) (*models.SubscriptionPlan, error) {
	plan, ok := r.plans[planID]
	if !ok || !plan.IsActive {
		return nil, gorm.ErrRecordNotFound
	}
	return plan, nil
}

func (r *fakeRepository) FindPlan(planID uint) (*models.SubscriptionPlan, error) {
	plan, ok := r.plans[planID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return plan, nil
}

func (r *fakeRepository) CreatePayment(payment *models.Payment) error {
	r.nextPaymentID++
	payment.ID = r.nextPaymentID
	r.payments[payment.ID] = payment
	return nil
}

func (r *fakeRepository) GetPaymentByOrderID(gatewayOrderID string) (*models.Payment, error) {
	for _, p := range r.payments {
		if p.GatewayOrderID == gatewayOrderID {
			copy := *p
			return &copy, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeRepository) GetPaymentByGatewayPaymentID(gatewayPaymentID string) (*models.Payment, error) {
	for _, p := range r.payments {
		if p.GatewayPaymentID == gatewayPaymentID {
			copy := *p
			return &copy, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeRepository) MarkPaymentPaid(paymentID uint, gatewayPaymentID, signature string, paidAt time.Time) (bool, error) {
	p, ok := r.payments[paymentID]
	if !ok || !p.CanBePaid() {
		return false, nil
	}
	p.Status = models.PaymentStatusPaid
	p.GatewayPaymentID = gatewayPaymentID
	p.GatewaySignature = signature
	p.PaidAt = &paidAt
	return true, nil
}

func (r *fakeRepository) MarkPaymentFailed(paymentID uint, failure models.PaymentFailure, failedAt time.Time) error {
	p := r.payments[paymentID]
	p.Status = models.PaymentStatusFailed
	p.Failure = failure
	p.FailedAt = &failedAt
	return nil
}

func (r *fakeRepository) MarkPaymentRefunded(paymentID uint, refundedAt time.Time) error {
	p := r.payments[paymentID]
	if p.Status != models.PaymentStatusPaid {
		return nil
	}
	p.Status = models.PaymentStatusRefunded
	p.RefundedAt = &refundedAt
	return nil
}

func (r *fakeRepository) LinkSubscription(paymentID, subscriptionID uint) error {
	r.payments[paymentID].SubscriptionID = &subscriptionID
	return nil
}

func (r *fakeRepository) AddRefund(refund *models.PaymentRefund) error {
	for _, existing := range r.refunds {
		if existing.RefundID == refund.RefundID {
			return nil
		}
	}
	r.refunds = append(r.refunds, refund)
	return nil
}

func (r *fakeRepository) RecordWebhookEvent(event *models.PaymentWebhookEvent) (bool, error) {
	if _, seen := r.events[event.EventID]; seen {
		return false, nil
	}
	r.events[event.EventID] = event.PaymentID
	return true, nil
}

func (r *fakeRepository) GetActiveSubscription(userID, brandID uint) (*models.Subscription, error) {
	for _, s := range r.subscriptions {
		if s.UserID == userID && s.BrandID == brandID && s.Status == models.SubscriptionStatusActive {
			return s, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeRepository) CreateSubscription(sub *models.Subscription) error {
	r.nextSubID++
	sub.ID = r.nextSubID
	r.subscriptions[sub.ID] = sub
	return nil
}

func (r *fakeRepository) ExtendSubscription(subscriptionID uint, endAt time.Time, lastPaymentID uint) error {
	s := r.subscriptions[subscriptionID]
	s.EndAt = endAt
	s.LastPaymentID = &lastPaymentID
	return nil
}

func (r *fakeRepository) GetSubscription(id uint) (*models.Subscription, error) {
	s, ok := r.subscriptions[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return s, nil
}

var testTime = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func newTestService(repo *fakeRepository, gateway *fakeGateway) *Service {
	svc := NewService(repo, gateway, Config{
		KeyID:         "rzp_test_key",
		KeySecret:     "test-key-secret",
		WebhookSecret: "test-hook-secret",
	})
	svc.now = func() time.Time { return testTime }
	return svc
}

func yearlyPlan() *models.SubscriptionPlan {
	return &models.SubscriptionPlan{
		ID:       1,
		BrandID:  10,
		Name:     "Annual Print+Digital",
		Period:   models.PlanPeriodYearly,
		PriceINR: 999,
		IsActive: true,
	}
}

func TestCreateOrder(t *testing.T) {
	repo := newFakeRepository()
	repo.plans[1] = yearlyPlan()
	gateway := &fakeGateway{orderID: "order_abc"}
	svc := newTestService(repo, gateway)

	result, err := svc.CreateOrder(context.Background(), 7, 1, ClientInfo{Platform: "android", IP: "10.0.0.1"})
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}
	if result.AmountPaise != 99900 {
		t.Fatalf("AmountPaise = %d, want 99900", result.AmountPaise)
	}
	if result.GatewayOrderID != "order_abc" || result.PlanName != "Annual Print+Digital" {
		t.Fatalf("result = %+v", result)
	}

	payment := repo.payments[result.PaymentID]
	if payment == nil {
		t.Fatal("ledger entry not created")
	}
	if payment.Status != models.PaymentStatusCreated {
		t.Fatalf("status = %q, want created", payment.Status)
	}
	if payment.BrandID != 10 || payment.Client.Platform != "android" {
		t.Fatalf("payment = %+v", payment)
	}
	if gateway.lastInput.Notes["plan_id"] != "1" || gateway.lastInput.Notes["brand_id"] != "10" {
		t.Fatalf("gateway notes = %v", gateway.lastInput.Notes)
	}
}

func TestCreateOrderInactivePlan(t *testing.T) {
	repo := newFakeRepository()
	plan := yearlyPlan()
	plan.IsActive = false
	repo.plans[1] = plan
	svc := newTestService(repo, &fakeGateway{orderID: "order_abc"})

	if _, err := svc.CreateOrder(context.Background(), 7, 1, ClientInfo{}); !errors.Is(err, ErrInvalidPlan) {
		t.Fatalf("err = %v, want ErrInvalidPlan", err)
	}
	if len(repo.payments) != 0 {
		t.Fatal("ledger entry created for inactive plan")
	}
}

func TestCreateOrderGatewayFailureLeavesNoLedgerEntry(t *testing.T) {
	repo := newFakeRepository()
	repo.plans[1] = yearlyPlan()
	gateway := &fakeGateway{err: errors.New("gateway down")}
	svc := newTestService(repo, gateway)

	if _, err := svc.CreateOrder(context.Background(), 7, 1, ClientInfo{}); err == nil {
		t.Fatal("expected gateway error")
	}
	if len(repo.payments) != 0 {
		t.Fatal("ledger entry created despite gateway failure")
	}
}

func createPaidOrder(t *testing.T, svc *Service, repo *fakeRepository) (*OrderResult, VerifyInput) {
	t.Helper()
	order, err := svc.CreateOrder(context.Background(), 7, 1, ClientInfo{})
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}
	input := VerifyInput{
		OrderID:   order.GatewayOrderID,
		PaymentID: "pay_1",
		Signature: SignPayload([]byte(order.GatewayOrderID+"|pay_1"), "test-key-secret"),
	}
	return order, input
}

func TestVerifyPaymentActivatesSubscription(t *testing.T) {
	repo := newFakeRepository()
	repo.plans[1] = yearlyPlan()
	svc := newTestService(repo, &fakeGateway{orderID: "order_abc"})
	_, input := createPaidOrder(t, svc, repo)

	result, err := svc.VerifyPayment(context.Background(), input)
	if err != nil {
		t.Fatalf("VerifyPayment: %v", err)
	}
	if result.AlreadyProcessed {
		t.Fatal("first confirmation reported as already processed")
	}
	if result.Payment.Status != models.PaymentStatusPaid {
		t.Fatalf("status = %q, want paid", result.Payment.Status)
	}
	if result.Subscription == nil || result.Subscription.Status != models.SubscriptionStatusActive {
		t.Fatalf("subscription = %+v", result.Subscription)
	}
	wantEnd := testTime.AddDate(1, 0, 0)
	if !result.Subscription.EndAt.Equal(wantEnd) {
		t.Fatalf("EndAt = %v, want %v", result.Subscription.EndAt, wantEnd)
	}
	if result.Payment.SubscriptionID == nil || *result.Payment.SubscriptionID != result.Subscription.ID {
		t.Fatal("subscription not linked back onto the ledger entry")
	}
}

func TestVerifyPaymentIdempotent(t *testing.T) {
	repo := newFakeRepository()
	repo.plans[1] = yearlyPlan()
	svc := newTestService(repo, &fakeGateway{orderID: "order_abc"})
	_, input := createPaidOrder(t, svc, repo)

	if _, err := svc.VerifyPayment(context.Background(), input); err != nil {
		t.Fatalf("first VerifyPayment: %v", err)
	}
	second, err := svc.VerifyPayment(context.Background(), input)
	if err != nil {
		t.Fatalf("second VerifyPayment: %v", err)
	}
	if !second.AlreadyProcessed {
		t.Fatal("second confirmation not reported as already processed")
	}
	if len(repo.subscriptions) != 1 {
		t.Fatalf("subscriptions = %d, want 1", len(repo.subscriptions))
	}
	if second.Subscription == nil {
		t.Fatal("idempotent path lost the linked subscription")
	}
}

func TestVerifyPaymentSignatureMismatch(t *testing.T) {
	repo := newFakeRepository()
	repo.plans[1] = yearlyPlan()
	svc := newTestService(repo, &fakeGateway{orderID: "order_abc"})
	order, input := createPaidOrder(t, svc, repo)
	input.Signature = "forged"

	for i := 0; i < 3; i++ {
		if _, err := svc.VerifyPayment(context.Background(), input); !errors.Is(err, ErrSignatureMismatch) {
			t.Fatalf("err = %v, want ErrSignatureMismatch", err)
		}
	}
	if repo.payments[order.PaymentID].Status != models.PaymentStatusCreated {
		t.Fatal("forged signature mutated the ledger entry")
	}
}

func TestVerifyPaymentUnknownOrder(t *testing.T) {
	repo := newFakeRepository()
	svc := newTestService(repo, &fakeGateway{})

	input := VerifyInput{
		OrderID:   "order_missing",
		PaymentID: "pay_1",
		Signature: SignPayload([]byte("order_missing|pay_1"), "test-key-secret"),
	}
	if _, err := svc.VerifyPayment(context.Background(), input); !errors.Is(err, ErrPaymentNotFound) {
		t.Fatalf("err = %v, want ErrPaymentNotFound", err)
	}
}

func TestVerifyPaymentRenewalExtendsExistingWindow(t *testing.T) {
	repo := newFakeRepository()
	plan := yearlyPlan()
	plan.Period = models.PlanPeriodMonthly
	repo.plans[1] = plan
	svc := newTestService(repo, &fakeGateway{orderID: "order_abc"})

	existingEnd := testTime.AddDate(0, 2, 0)
	repo.subscriptions[99] = &models.Subscription{
		ID: 99, UserID: 7, BrandID: 10, PlanID: 1,
		StartAt: testTime.AddDate(0, -1, 0), EndAt: existingEnd,
		Status: models.SubscriptionStatusActive,
	}
	repo.nextSubID = 99

	_, input := createPaidOrder(t, svc, repo)
	result, err := svc.VerifyPayment(context.Background(), input)
	if err != nil {
		t.Fatalf("VerifyPayment: %v", err)
	}
	if result.Subscription.ID != 99 {
		t.Fatal("renewal created a second active subscription")
	}
	wantEnd := existingEnd.AddDate(0, 1, 0)
	if !result.Subscription.EndAt.Equal(wantEnd) {
		t.Fatalf("EndAt = %v, want %v", result.Subscription.EndAt, wantEnd)
	}
	if len(repo.subscriptions) != 1 {
		t.Fatalf("subscriptions = %d, want 1", len(repo.subscriptions))
	}
}

func TestVerifyPaymentRenewalFixedYearPolicy(t *testing.T) {
	repo := newFakeRepository()
	plan := yearlyPlan()
	plan.Period = models.PlanPeriodMonthly
	repo.plans[1] = plan
	gateway := &fakeGateway{orderID: "order_abc"}
	svc := NewService(repo, gateway, Config{
		KeyID:          "rzp_test_key",
		KeySecret:      "test-key-secret",
		RenewFixedYear: true,
	})
	svc.now = func() time.Time { return testTime }

	existingEnd := testTime.AddDate(0, 1, 0)
	repo.subscriptions[5] = &models.Subscription{
		ID: 5, UserID: 7, BrandID: 10, PlanID: 1,
		StartAt: testTime.AddDate(0, -11, 0), EndAt: existingEnd,
		Status: models.SubscriptionStatusActive,
	}
	repo.nextSubID = 5

	_, input := createPaidOrder(t, svc, repo)
	result, err := svc.VerifyPayment(context.Background(), input)
	if err != nil {
		t.Fatalf("VerifyPayment: %v", err)
	}
	wantEnd := existingEnd.AddDate(1, 0, 0)
	if !result.Subscription.EndAt.Equal(wantEnd) {
		t.Fatalf("EndAt = %v, want %v", result.Subscription.EndAt, wantEnd)
	}
}

func capturedEvent(id, orderID, paymentID string) *WebhookEvent {
	return &WebhookEvent{
		ID:    id,
		Event: "payment.captured",
		Payload: WebhookPayload{
			Payment: &EntityWrapper[PaymentEntity]{Entity: PaymentEntity{ID: paymentID, OrderID: orderID}},
		},
	}
}

func TestWebhookCapturedActivatesOnce(t *testing.T) {
	repo := newFakeRepository()
	repo.plans[1] = yearlyPlan()
	svc := newTestService(repo, &fakeGateway{orderID: "order_abc"})
	order, _ := createPaidOrder(t, svc, repo)

	first, err := svc.HandleWebhook(context.Background(), capturedEvent("evt_1", order.GatewayOrderID, "pay_1"))
	if err != nil {
		t.Fatalf("HandleWebhook: %v", err)
	}
	if !first.Processed {
		t.Fatalf("first delivery = %+v", first)
	}
	if repo.payments[order.PaymentID].Status != models.PaymentStatusPaid {
		t.Fatal("captured event did not settle the entry")
	}
	if len(repo.subscriptions) != 1 {
		t.Fatalf("subscriptions = %d, want 1", len(repo.subscriptions))
	}

	second, err := svc.HandleWebhook(context.Background(), capturedEvent("evt_1", order.GatewayOrderID, "pay_1"))
	if err != nil {
		t.Fatalf("HandleWebhook redelivery: %v", err)
	}
	if second.Processed || second.Reason != "duplicate_event" {
		t.Fatalf("redelivery = %+v", second)
	}
	if len(repo.subscriptions) != 1 {
		t.Fatal("redelivery activated a second subscription")
	}
}

func TestWebhookAfterClientVerifyDoesNotDoubleActivate(t *testing.T) {
	repo := newFakeRepository()
	repo.plans[1] = yearlyPlan()
	svc := newTestService(repo, &fakeGateway{orderID: "order_abc"})
	order, input := createPaidOrder(t, svc, repo)

	if _, err := svc.VerifyPayment(context.Background(), input); err != nil {
		t.Fatalf("VerifyPayment: %v", err)
	}
	result, err := svc.HandleWebhook(context.Background(), capturedEvent("evt_9", order.GatewayOrderID, "pay_1"))
	if err != nil {
		t.Fatalf("HandleWebhook: %v", err)
	}
	if !result.Processed {
		t.Fatalf("result = %+v", result)
	}
	if len(repo.subscriptions) != 1 {
		t.Fatalf("subscriptions = %d, want 1", len(repo.subscriptions))
	}
}

func TestWebhookFailedRecordsFailureDetail(t *testing.T) {
	repo := newFakeRepository()
	repo.plans[1] = yearlyPlan()
	svc := newTestService(repo, &fakeGateway{orderID: "order_x"})
	order, _ := createPaidOrder(t, svc, repo)

	event := &WebhookEvent{
		ID:    "evt_1",
		Event: "payment.failed",
		Payload: WebhookPayload{
			Payment: &EntityWrapper[PaymentEntity]{Entity: PaymentEntity{
				ID:        "pay_f",
				OrderID:   order.GatewayOrderID,
				ErrorCode: "E1",
			}},
		},
	}
	result, err := svc.HandleWebhook(context.Background(), event)
	if err != nil {
		t.Fatalf("HandleWebhook: %v", err)
	}
	if !result.Processed {
		t.Fatalf("result = %+v", result)
	}
	payment := repo.payments[order.PaymentID]
	if payment.Status != models.PaymentStatusFailed || payment.Failure.Code != "E1" {
		t.Fatalf("payment = %+v", payment)
	}

	redelivery, err := svc.HandleWebhook(context.Background(), event)
	if err != nil {
		t.Fatalf("HandleWebhook redelivery: %v", err)
	}
	if redelivery.Processed || redelivery.Reason != "duplicate_event" {
		t.Fatalf("redelivery = %+v", redelivery)
	}
}

func TestWebhookRefundProcessed(t *testing.T) {
	repo := newFakeRepository()
	repo.plans[1] = yearlyPlan()
	svc := newTestService(repo, &fakeGateway{orderID: "order_abc"})
	order, input := createPaidOrder(t, svc, repo)
	if _, err := svc.VerifyPayment(context.Background(), input); err != nil {
		t.Fatalf("VerifyPayment: %v", err)
	}

	event := &WebhookEvent{
		ID:    "evt_r1",
		Event: "refund.processed",
		Payload: WebhookPayload{
			Refund: &EntityWrapper[RefundEntity]{Entity: RefundEntity{
				ID:        "rfnd_1",
				PaymentID: "pay_1",
				Amount:    99900,
				Status:    "processed",
				CreatedAt: testTime.Unix(),
			}},
		},
	}
	result, err := svc.HandleWebhook(context.Background(), event)
	if err != nil {
		t.Fatalf("HandleWebhook: %v", err)
	}
	if !result.Processed {
		t.Fatalf("result = %+v", result)
	}
	if repo.payments[order.PaymentID].Status != models.PaymentStatusRefunded {
		t.Fatal("refund.processed did not mark the entry refunded")
	}
	if len(repo.refunds) != 1 || repo.refunds[0].AmountPaise != 99900 {
		t.Fatalf("refunds = %+v", repo.refunds)
	}
}

func TestWebhookRefundCreatedKeepsPaid(t *testing.T) {
	repo := newFakeRepository()
	repo.plans[1] = yearlyPlan()
	svc := newTestService(repo, &fakeGateway{orderID: "order_abc"})
	order, input := createPaidOrder(t, svc, repo)
	if _, err := svc.VerifyPayment(context.Background(), input); err != nil {
		t.Fatalf("VerifyPayment: %v", err)
	}

	event := &WebhookEvent{
		ID:    "evt_r0",
		Event: "refund.created",
		Payload: WebhookPayload{
			Refund: &EntityWrapper[RefundEntity]{Entity: RefundEntity{
				ID:        "rfnd_1",
				PaymentID: "pay_1",
				Amount:    99900,
				Status:    "created",
			}},
		},
	}
	if _, err := svc.HandleWebhook(context.Background(), event); err != nil {
		t.Fatalf("HandleWebhook: %v", err)
	}
	if repo.payments[order.PaymentID].Status != models.PaymentStatusPaid {
		t.Fatal("refund.created must not change the payment status")
	}
	if len(repo.refunds) != 1 {
		t.Fatalf("refunds = %d, want 1", len(repo.refunds))
	}
}

func TestWebhookUnknownEventType(t *testing.T) {
	repo := newFakeRepository()
	svc := newTestService(repo, &fakeGateway{})

	result, err := svc.HandleWebhook(context.Background(), &WebhookEvent{ID: "evt_u", Event: "invoice.paid"})
	if err != nil {
		t.Fatalf("HandleWebhook: %v", err)
	}
	if !result.Processed {
		t.Fatalf("unknown event must be absorbed, got %+v", result)
	}
}

func TestWebhookUnknownOrderAbsorbed(t *testing.T) {
	repo := newFakeRepository()
	svc := newTestService(repo, &fakeGateway{})

	result, err := svc.HandleWebhook(context.Background(), capturedEvent("evt_1", "order_ghost", "pay_1"))
	if err != nil {
		t.Fatalf("HandleWebhook: %v", err)
	}
	if !result.Processed || result.Reason != "payment_not_found" {
		t.Fatalf("result = %+v", result)
	}
}

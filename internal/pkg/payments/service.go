package payments

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/magforge/pressdesk/app/models"
)

// Service orchestrates the payment ledger and subscription windows
// around the gateway. All money amounts are paise.
type Service struct {
	repo    Repository
	gateway Gateway
	cfg     Config
	now     func() time.Time
}

// NewService creates an orchestrator from injected collaborators.
func NewService(repo Repository, gateway Gateway, cfg Config) *Service {
	return &Service{
		repo:    repo,
		gateway: gateway,
		cfg:     cfg,
		now:     time.Now,
	}
}

// NewServiceFromDB creates an orchestrator backed by GORM and the
// production Razorpay client.
func NewServiceFromDB(db *gorm.DB, cfg Config) *Service {
	return NewService(NewRepository(db), NewRazorpayGateway(cfg.KeyID, cfg.KeySecret), cfg)
}

// CreateOrder opens a gateway order for a plan purchase and inserts
// the ledger entry. A gateway failure leaves no ledger row, so the
// client may simply retry.
func (s *Service) CreateOrder(ctx context.Context, userID, planID uint, client ClientInfo) (*OrderResult, error) {
	_ = ctx
	plan, err := s.repo.FindActivePlan(planID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidPlan
		}
		return nil, err
	}

	amountPaise := plan.PriceINR * 100
	gatewayOrderID, err := s.gateway.CreateRemoteOrder(RemoteOrderInput{
		AmountPaise: amountPaise,
		Currency:    "INR",
		Receipt:     uuid.NewString(),
		Notes: map[string]interface{}{
			"user_id":  fmt.Sprintf("%d", userID),
			"plan_id":  fmt.Sprintf("%d", plan.ID),
			"brand_id": fmt.Sprintf("%d", plan.BrandID),
		},
	})
	if err != nil {
		return nil, err
	}

	payment := &models.Payment{
		UserID:         userID,
		BrandID:        plan.BrandID,
		PlanID:         plan.ID,
		AmountPaise:    amountPaise,
		Currency:       "INR",
		Status:         models.PaymentStatusCreated,
		GatewayOrderID: gatewayOrderID,
		Client: models.PaymentClient{
			Platform:  client.Platform,
			DeviceID:  client.DeviceID,
			IP:        client.IP,
			UserAgent: client.UserAgent,
		},
	}
	if err := s.repo.CreatePayment(payment); err != nil {
		return nil, err
	}

	return &OrderResult{
		PaymentID:      payment.ID,
		GatewayOrderID: gatewayOrderID,
		AmountPaise:    amountPaise,
		Currency:       "INR",
		PlanName:       plan.Name,
		KeyID:          s.cfg.KeyID,
	}, nil
}

// VerifyPayment settles a checkout confirmation. The signature is
// checked before any lookup; a mismatch mutates nothing. Confirmations
// for already-paid entries are idempotent no-ops.
func (s *Service) VerifyPayment(ctx context.Context, input VerifyInput) (*VerifyResult, error) {
	_ = ctx
	if !VerifyPaymentSignature(input.OrderID, input.PaymentID, input.Signature, s.cfg.KeySecret) {
		return nil, ErrSignatureMismatch
	}

	payment, err := s.repo.GetPaymentByOrderID(input.OrderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}

	if payment.Status == models.PaymentStatusPaid {
		return s.alreadyProcessed(payment)
	}

	paidAt := s.now()
	applied, err := s.repo.MarkPaymentPaid(payment.ID, input.PaymentID, input.Signature, paidAt)
	if err != nil {
		return nil, err
	}
	if !applied {
		// Lost the race against a concurrent confirmation or webhook.
		current, err := s.repo.GetPaymentByOrderID(input.OrderID)
		if err != nil {
			return nil, err
		}
		return s.alreadyProcessed(current)
	}

	payment.Status = models.PaymentStatusPaid
	payment.GatewayPaymentID = input.PaymentID
	payment.GatewaySignature = input.Signature
	payment.PaidAt = &paidAt

	subscription, err := s.activateSubscription(payment)
	if err != nil {
		return nil, err
	}
	if err := s.repo.LinkSubscription(payment.ID, subscription.ID); err != nil {
		return nil, err
	}
	payment.SubscriptionID = &subscription.ID

	return &VerifyResult{Payment: payment, Subscription: subscription}, nil
}

func (s *Service) alreadyProcessed(payment *models.Payment) (*VerifyResult, error) {
	result := &VerifyResult{Payment: payment, AlreadyProcessed: true}
	if payment.SubscriptionID != nil {
		subscription, err := s.repo.GetSubscription(*payment.SubscriptionID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		result.Subscription = subscription
	}
	return result, nil
}

// HandleWebhook applies one gateway event. Redelivered events are
// detected by the globally unique event id and reported as
// duplicate_event without mutation. Unknown event types are absorbed.
func (s *Service) HandleWebhook(ctx context.Context, event *WebhookEvent) (*WebhookResult, error) {
	_ = ctx
	category, terminal := categorize(event.Event)

	switch category {
	case categoryCaptured:
		return s.handleCaptured(event)
	case categoryFailed:
		return s.handleFailed(event)
	case categoryRefund:
		return s.handleRefund(event, terminal)
	default:
		return &WebhookResult{Processed: true, Reason: "ignored_event_type"}, nil
	}
}

func (s *Service) handleCaptured(event *WebhookEvent) (*WebhookResult, error) {
	orderID := orderIDFromEvent(event)
	if orderID == "" {
		return &WebhookResult{Processed: true, Reason: "malformed_event"}, nil
	}

	payment, result, err := s.locateAndRecord(event, orderID, "")
	if payment == nil {
		return result, err
	}

	if !payment.CanBePaid() {
		return &WebhookResult{Processed: true}, nil
	}

	gatewayPaymentID := ""
	if event.Payload.Payment != nil {
		gatewayPaymentID = event.Payload.Payment.Entity.ID
	}
	applied, err := s.repo.MarkPaymentPaid(payment.ID, gatewayPaymentID, "", s.now())
	if err != nil {
		return nil, err
	}
	if applied && payment.SubscriptionID == nil {
		payment.Status = models.PaymentStatusPaid
		subscription, err := s.activateSubscription(payment)
		if err != nil {
			return nil, err
		}
		if err := s.repo.LinkSubscription(payment.ID, subscription.ID); err != nil {
			return nil, err
		}
	}
	return &WebhookResult{Processed: true}, nil
}

func (s *Service) handleFailed(event *WebhookEvent) (*WebhookResult, error) {
	if event.Payload.Payment == nil || event.Payload.Payment.Entity.OrderID == "" {
		return &WebhookResult{Processed: true, Reason: "malformed_event"}, nil
	}
	entity := event.Payload.Payment.Entity

	payment, result, err := s.locateAndRecord(event, entity.OrderID, "")
	if payment == nil {
		return result, err
	}

	failure := models.PaymentFailure{
		Code:        entity.ErrorCode,
		Description: entity.ErrorDescription,
		Source:      entity.ErrorSource,
		Step:        entity.ErrorStep,
		Reason:      entity.ErrorReason,
	}
	if err := s.repo.MarkPaymentFailed(payment.ID, failure, s.now()); err != nil {
		return nil, err
	}
	return &WebhookResult{Processed: true}, nil
}

func (s *Service) handleRefund(event *WebhookEvent, terminal bool) (*WebhookResult, error) {
	if event.Payload.Refund == nil || event.Payload.Refund.Entity.PaymentID == "" {
		return &WebhookResult{Processed: true, Reason: "malformed_event"}, nil
	}
	entity := event.Payload.Refund.Entity

	payment, result, err := s.locateAndRecord(event, "", entity.PaymentID)
	if payment == nil {
		return result, err
	}

	var gatewayCreatedAt *time.Time
	if entity.CreatedAt > 0 {
		t := time.Unix(entity.CreatedAt, 0)
		gatewayCreatedAt = &t
	}
	refund := &models.PaymentRefund{
		PaymentID:        payment.ID,
		RefundID:         entity.ID,
		AmountPaise:      entity.Amount,
		Status:           entity.Status,
		GatewayCreatedAt: gatewayCreatedAt,
	}
	if err := s.repo.AddRefund(refund); err != nil {
		return nil, err
	}
	if terminal {
		if err := s.repo.MarkPaymentRefunded(payment.ID, s.now()); err != nil {
			return nil, err
		}
	}
	return &WebhookResult{Processed: true}, nil
}

// locateAndRecord finds the target ledger entry and records the event
// id. A nil payment means the caller should return the result as is:
// either the entry is unknown or the event was already recorded.
func (s *Service) locateAndRecord(event *WebhookEvent, orderID, gatewayPaymentID string) (*models.Payment, *WebhookResult, error) {
	var payment *models.Payment
	var err error
	if orderID != "" {
		payment, err = s.repo.GetPaymentByOrderID(orderID)
	} else {
		payment, err = s.repo.GetPaymentByGatewayPaymentID(gatewayPaymentID)
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &WebhookResult{Processed: true, Reason: "payment_not_found"}, nil
		}
		return nil, nil, err
	}

	created, err := s.repo.RecordWebhookEvent(&models.PaymentWebhookEvent{
		PaymentID: payment.ID,
		EventID:   event.ID,
		EventType: event.Event,
	})
	if err != nil {
		return nil, nil, err
	}
	if !created {
		return nil, &WebhookResult{Processed: false, Reason: "duplicate_event"}, nil
	}
	return payment, nil, nil
}

// VerifyWebhookSignature checks the delivery signature against the
// configured webhook secret.
func (s *Service) VerifyWebhookSignature(rawBody []byte, signature string) bool {
	return VerifyWebhookSignature(rawBody, signature, s.cfg.WebhookSecret)
}

// activateSubscription extends the user's active subscription for the
// brand or opens a new access window. Callers must have settled the
// ledger entry first.
func (s *Service) activateSubscription(payment *models.Payment) (*models.Subscription, error) {
	plan, err := s.repo.FindPlan(payment.PlanID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}

	existing, err := s.repo.GetActiveSubscription(payment.UserID, payment.BrandID)
	if err == nil {
		endAt := plan.PeriodEnd(existing.EndAt)
		if s.cfg.RenewFixedYear {
			endAt = existing.EndAt.AddDate(1, 0, 0)
		}
		if err := s.repo.ExtendSubscription(existing.ID, endAt, payment.ID); err != nil {
			return nil, err
		}
		existing.EndAt = endAt
		existing.LastPaymentID = &payment.ID
		return existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	now := s.now()
	subscription := &models.Subscription{
		UserID:        payment.UserID,
		BrandID:       payment.BrandID,
		PlanID:        plan.ID,
		StartAt:       now,
		EndAt:         plan.PeriodEnd(now),
		Status:        models.SubscriptionStatusActive,
		LastPaymentID: &payment.ID,
	}
	if err := s.repo.CreateSubscription(subscription); err != nil {
		return nil, err
	}
	return subscription, nil
}

package controllers

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/magforge/pressdesk/app/repository"
	"github.com/magforge/pressdesk/internal/pkg/payments"
	"github.com/magforge/pressdesk/internal/pkg/usercontext"
)

var paymentService *payments.Service

// SetPaymentService wires the payment orchestrator into the handlers.
func SetPaymentService(svc *payments.Service) {
	paymentService = svc
}

// HandlePaymentCreateOrder opens a gateway order for a plan purchase.
func HandlePaymentCreateOrder(c *fiber.Ctx) error {
	if paymentService == nil {
		return jsonError(c, fiber.StatusServiceUnavailable, "service_unavailable", "Payments are not configured")
	}

	var req struct {
		PlanID   uint   `json:"plan_id"`
		Platform string `json:"platform"`
		DeviceID string `json:"device_id"`
	}
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid request body")
	}
	if req.PlanID == 0 {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "plan_id is required")
	}

	userCtx := usercontext.GetUserContext(c)
	order, err := paymentService.CreateOrder(c.Context(), userCtx.UserID, req.PlanID, clientInfoFromRequest(c, req.Platform, req.DeviceID))
	if err != nil {
		if errors.Is(err, payments.ErrInvalidPlan) {
			return jsonError(c, fiber.StatusBadRequest, "invalid_plan", "Plan missing or inactive")
		}
		log.Printf("[Payments] order creation failed: %v", err)
		return jsonError(c, fiber.StatusBadGateway, "gateway_error", "Payment gateway unavailable, please retry")
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"order": order})
}

// HandlePaymentVerify settles a checkout confirmation from the client.
func HandlePaymentVerify(c *fiber.Ctx) error {
	if paymentService == nil {
		return jsonError(c, fiber.StatusServiceUnavailable, "service_unavailable", "Payments are not configured")
	}

	var req struct {
		OrderID   string `json:"razorpay_order_id"`
		PaymentID string `json:"razorpay_payment_id"`
		Signature string `json:"razorpay_signature"`
	}
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid request body")
	}
	if req.OrderID == "" || req.PaymentID == "" || req.Signature == "" {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "order id, payment id and signature are required")
	}

	result, err := paymentService.VerifyPayment(c.Context(), payments.VerifyInput{
		OrderID:   req.OrderID,
		PaymentID: req.PaymentID,
		Signature: req.Signature,
	})
	if err != nil {
		switch {
		case errors.Is(err, payments.ErrSignatureMismatch):
			return jsonError(c, fiber.StatusBadRequest, "signature_mismatch", "Payment signature verification failed")
		case errors.Is(err, payments.ErrPaymentNotFound):
			return jsonError(c, fiber.StatusNotFound, "not_found", "Unknown payment order")
		case errors.Is(err, payments.ErrPlanNotFound):
			return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Plan no longer exists")
		default:
			log.Printf("[Payments] verification failed: %v", err)
			return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Payment verification failed")
		}
	}
	return c.JSON(result)
}

// HandlePaymentWebhook receives gateway events. The signature is
// checked over the exact raw body before the payload is trusted.
// Processing errors still return 200 so the gateway does not stall
// its delivery queue; failures are logged for reconciliation.
func HandlePaymentWebhook(c *fiber.Ctx) error {
	if paymentService == nil {
		return jsonError(c, fiber.StatusServiceUnavailable, "service_unavailable", "Payments are not configured")
	}

	rawBody := c.Body()
	signature := c.Get("X-Razorpay-Signature")
	if !paymentService.VerifyWebhookSignature(rawBody, signature) {
		return jsonError(c, fiber.StatusBadRequest, "signature_mismatch", "Webhook signature verification failed")
	}

	event, err := payments.ParseWebhookEvent(rawBody)
	if err != nil {
		log.Printf("[Payments] malformed webhook body: %v", err)
		return c.JSON(fiber.Map{"processed": true, "reason": "malformed_event"})
	}

	result, err := paymentService.HandleWebhook(c.Context(), event)
	if err != nil {
		log.Printf("[Payments] webhook %s (%s) failed: %v", event.ID, event.Event, err)
		return c.JSON(fiber.Map{"processed": false, "reason": "internal_error"})
	}
	return c.JSON(result)
}

// HandlePaymentListAdmin returns the filtered payment ledger.
func HandlePaymentListAdmin(c *fiber.Ctx) error {
	page, offset, limit := parsePagination(c)
	paymentsList, total, err := repository.GetGlobalRepositories().Payment.List(repository.PaymentFilter{
		BrandID: queryUint(c, "brand_id"),
		UserID:  queryUint(c, "user_id"),
		Status:  c.Query("status"),
		Offset:  offset,
		Limit:   limit,
	})
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to list payments")
	}
	return c.JSON(paginated(paymentsList, page, limit, total))
}

// HandlePaymentGetAdmin returns one ledger entry with its refund and
// webhook trail.
func HandlePaymentGetAdmin(c *fiber.Ctx) error {
	payment, err := repository.GetGlobalRepositories().Payment.GetByID(paramID(c, "id"))
	if err != nil {
		return jsonError(c, fiber.StatusNotFound, "not_found", "Payment not found")
	}
	return c.JSON(fiber.Map{"payment": payment})
}

package controllers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/magforge/pressdesk/app/models"
	"github.com/magforge/pressdesk/app/repository"
	"github.com/magforge/pressdesk/internal/pkg/usercontext"
)

// HandleSubscriptionsMe lists the caller's subscriptions.
func HandleSubscriptionsMe(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	subs, err := repository.GetGlobalRepositories().Subscription.ListByUser(userCtx.UserID, queryUint(c, "brand_id"))
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to list subscriptions")
	}
	return c.JSON(fiber.Map{"subscriptions": subs})
}

// HandlePlanList returns the purchasable plans of a brand.
func HandlePlanList(c *fiber.Ctx) error {
	brandID := queryUint(c, "brand_id")
	if brandID == 0 {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "brand_id is required")
	}
	plans, err := repository.GetGlobalRepositories().Plan.ListActiveByBrand(brandID)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to list plans")
	}
	return c.JSON(fiber.Map{"plans": plans})
}

// HandlePlanListAdmin returns plans without the is_active gate.
func HandlePlanListAdmin(c *fiber.Ctx) error {
	var isActive *bool
	if c.Query("is_active") != "" {
		v := c.QueryBool("is_active", true)
		isActive = &v
	}
	plans, err := repository.GetGlobalRepositories().Plan.ListAdmin(queryUint(c, "brand_id"), isActive)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to list plans")
	}
	return c.JSON(fiber.Map{"plans": plans})
}

// HandleSubscriptionListAdmin returns the filtered subscription ledger.
func HandleSubscriptionListAdmin(c *fiber.Ctx) error {
	page, offset, limit := parsePagination(c)
	subs, total, err := repository.GetGlobalRepositories().Subscription.List(repository.SubscriptionFilter{
		BrandID: queryUint(c, "brand_id"),
		Status:  c.Query("status"),
		Offset:  offset,
		Limit:   limit,
	})
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to list subscriptions")
	}
	return c.JSON(paginated(subs, page, limit, total))
}

// HandleSubscriptionGrant opens an access window without a payment,
// for comp copies and offline renewals. An existing active window for
// the pair is expired first so the single-active invariant holds.
func HandleSubscriptionGrant(c *fiber.Ctx) error {
	var req struct {
		UserID  uint       `json:"user_id"`
		PlanID  uint       `json:"plan_id"`
		StartAt *time.Time `json:"start_at"`
		EndAt   *time.Time `json:"end_at"`
	}
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid request body")
	}
	if req.UserID == 0 || req.PlanID == 0 {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "user_id and plan_id are required")
	}

	repos := repository.GetGlobalRepositories()
	if _, err := repos.User.GetByID(req.UserID); err != nil {
		return jsonError(c, fiber.StatusNotFound, "not_found", "User not found")
	}
	plan, err := repos.Plan.GetByID(req.PlanID)
	if err != nil {
		return jsonError(c, fiber.StatusNotFound, "not_found", "Plan not found")
	}

	start := time.Now()
	if req.StartAt != nil {
		start = *req.StartAt
	}
	end := plan.PeriodEnd(start)
	if req.EndAt != nil {
		end = *req.EndAt
	}
	if !end.After(start) {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "end_at must be after start_at")
	}

	if err := repos.Subscription.ExpireActive(req.UserID, plan.BrandID); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to grant subscription")
	}
	sub := &models.Subscription{
		UserID:  req.UserID,
		BrandID: plan.BrandID,
		PlanID:  plan.ID,
		StartAt: start,
		EndAt:   end,
		Status:  models.SubscriptionStatusActive,
	}
	if err := repos.Subscription.Create(sub); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to grant subscription")
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"subscription": sub})
}

// HandleSubscriptionUpdate adjusts a subscription's window or status.
func HandleSubscriptionUpdate(c *fiber.Ctx) error {
	repos := repository.GetGlobalRepositories()
	sub, err := repos.Subscription.GetByID(paramID(c, "id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusNotFound, "not_found", "Subscription not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load subscription")
	}

	var req struct {
		StartAt *time.Time `json:"start_at"`
		EndAt   *time.Time `json:"end_at"`
		Status  string     `json:"status"`
	}
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid request body")
	}

	if req.StartAt != nil {
		sub.StartAt = *req.StartAt
	}
	if req.EndAt != nil {
		sub.EndAt = *req.EndAt
	}
	if req.Status != "" {
		switch req.Status {
		case models.SubscriptionStatusActive, models.SubscriptionStatusExpired, models.SubscriptionStatusCancelled:
			sub.Status = req.Status
		default:
			return jsonError(c, fiber.StatusBadRequest, "bad_request", "Unknown subscription status")
		}
	}
	if !sub.EndAt.After(sub.StartAt) {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "end_at must be after start_at")
	}

	sub.Brand = nil
	sub.Plan = nil
	if err := repos.Subscription.Update(sub); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to update subscription")
	}
	return c.JSON(fiber.Map{"subscription": sub})
}

// HandleSubscriptionDelete removes a subscription row entirely.
func HandleSubscriptionDelete(c *fiber.Ctx) error {
	repos := repository.GetGlobalRepositories()
	id := paramID(c, "id")
	if _, err := repos.Subscription.GetByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusNotFound, "not_found", "Subscription not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load subscription")
	}
	if err := repos.Subscription.Delete(id); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to delete subscription")
	}
	return c.JSON(fiber.Map{"message": "Subscription deleted"})
}

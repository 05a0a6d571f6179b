package controllers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/magforge/pressdesk/app/models"
	"github.com/magforge/pressdesk/app/repository"
)

// HandleAdminOverview returns the counts dashboard. An optional
// brand_id narrows the edition and payment counts to one brand.
func HandleAdminOverview(c *fiber.Ctx) error {
	repos := repository.GetGlobalRepositories()
	brandID := queryUint(c, "brand_id")

	now := time.Now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	brands, err := repos.Brand.CountNotArchived()
	if err != nil {
		return overviewError(c)
	}
	editionsTotal, err := repos.Edition.CountPublished(brandID, nil)
	if err != nil {
		return overviewError(c)
	}
	editionsThisMonth, err := repos.Edition.CountPublished(brandID, &monthStart)
	if err != nil {
		return overviewError(c)
	}
	users, err := repos.User.Count()
	if err != nil {
		return overviewError(c)
	}
	activeSubs, err := repos.Subscription.CountByStatus(models.SubscriptionStatusActive)
	if err != nil {
		return overviewError(c)
	}
	paidTotal, err := repos.Payment.CountPaid(brandID, nil)
	if err != nil {
		return overviewError(c)
	}
	paidThisMonth, err := repos.Payment.CountPaid(brandID, &monthStart)
	if err != nil {
		return overviewError(c)
	}

	return c.JSON(fiber.Map{
		"brands": brands,
		"editions_published": fiber.Map{
			"total":      editionsTotal,
			"this_month": editionsThisMonth,
		},
		"users":                users,
		"active_subscriptions": activeSubs,
		"payments_paid": fiber.Map{
			"total":      paidTotal,
			"this_month": paidThisMonth,
		},
	})
}

func overviewError(c *fiber.Ctx) error {
	return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to build overview")
}

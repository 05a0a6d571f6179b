package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/magforge/pressdesk/app/models"
	"github.com/magforge/pressdesk/app/repository"
	"github.com/magforge/pressdesk/internal/pkg/cache"
	"github.com/magforge/pressdesk/internal/pkg/usercontext"
)

const readerFeedCacheTTL = 5 * time.Minute

// HandleReaderFeed lists published editions for readers, optionally
// narrowed by brand slug and language. Responses are cached briefly;
// publish and unpublish drop the cache.
func HandleReaderFeed(c *fiber.Ctx) error {
	page, offset, limit := parsePagination(c)
	brandSlug := c.Query("brand")
	language := c.Query("language")

	cacheKey := fmt.Sprintf("reader:feed:%s:%s:%d:%d", brandSlug, language, page, limit)
	if cached, err := cache.Get(cacheKey); err == nil && cached != "" {
		c.Set("Content-Type", "application/json")
		return c.SendString(cached)
	}

	repos := repository.GetGlobalRepositories()
	filter := repository.EditionFilter{
		Status:   models.EditionStatusPublished,
		Language: language,
		Offset:   offset,
		Limit:    limit,
	}
	if brandSlug != "" {
		brand, err := repos.Brand.GetBySlug(brandSlug)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return jsonError(c, fiber.StatusNotFound, "not_found", "Brand not found")
			}
			return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load brand")
		}
		if brand.Status == models.BrandStatusArchived {
			return jsonError(c, fiber.StatusNotFound, "not_found", "Brand not found")
		}
		filter.BrandID = brand.ID
	}

	editions, total, err := repos.Edition.List(filter)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load feed")
	}

	body := paginated(editions, page, limit, total)
	if encoded, err := json.Marshal(body); err == nil {
		if err := cache.Set(cacheKey, string(encoded), readerFeedCacheTTL); err != nil {
			log.Printf("[Reader] feed cache write failed: %v", err)
		}
	}
	return c.JSON(body)
}

// HandleReaderEditionSections serves the published sections of an
// edition. Brands in subscribers_only mode require an active
// subscription; public_preview brands serve everyone.
func HandleReaderEditionSections(c *fiber.Ctx) error {
	repos := repository.GetGlobalRepositories()
	edition, err := repos.Edition.GetByID(paramID(c, "id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusNotFound, "not_found", "Edition not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load edition")
	}
	if !edition.IsPublished() {
		return jsonError(c, fiber.StatusNotFound, "not_found", "Edition not found")
	}

	brand := edition.Brand
	if brand == nil {
		brand, err = repos.Brand.GetByID(edition.BrandID)
		if err != nil {
			return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load brand")
		}
	}

	if brand.AccessMode != models.AccessModePublicPreview {
		userCtx := usercontext.GetUserContext(c)
		if !userCtx.IsLoggedIn {
			return jsonError(c, fiber.StatusUnauthorized, "unauthorized", "Subscription required")
		}
		ok, err := repos.Subscription.HasCurrent(userCtx.UserID, edition.BrandID, time.Now())
		if err != nil {
			return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to check subscription")
		}
		if !ok {
			return jsonError(c, fiber.StatusForbidden, "subscription_required", "No active subscription for this publication")
		}
	}

	sections, err := repos.Section.ListPublishedByEdition(edition.ID)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load sections")
	}
	return c.JSON(fiber.Map{"edition": edition, "sections": sections})
}

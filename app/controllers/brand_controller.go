package controllers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/magforge/pressdesk/app/models"
	"github.com/magforge/pressdesk/app/repository"
)

type brandRequest struct {
	Name              string              `json:"name"`
	Slug              string              `json:"slug"`
	PublisherName     string              `json:"publisher_name"`
	WebsiteURL        string              `json:"website_url"`
	PublishedBy       string              `json:"published_by"`
	Languages         []string            `json:"languages"`
	LogoURL           string              `json:"logo_url"`
	BannerURL         string              `json:"banner_url"`
	DefaultTemplateID *uint               `json:"default_template_id"`
	AccessMode        string              `json:"access_mode"`
	Images            []models.BrandImage `json:"images"`
}

// HandleBrandList returns brands filtered by status and search text.
func HandleBrandList(c *fiber.Ctx) error {
	page, offset, limit := parsePagination(c)
	brands, total, err := repository.GetGlobalRepositories().Brand.List(repository.BrandFilter{
		Status: c.Query("status"),
		Search: c.Query("q"),
		Offset: offset,
		Limit:  limit,
	})
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to list brands")
	}
	return c.JSON(paginated(brands, page, limit, total))
}

// HandleBrandGet returns one brand by id.
func HandleBrandGet(c *fiber.Ctx) error {
	brand, err := repository.GetGlobalRepositories().Brand.GetByID(paramID(c, "id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusNotFound, "not_found", "Brand not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load brand")
	}
	return c.JSON(fiber.Map{"brand": brand})
}

// HandleBrandCreate creates a brand. Slugs are unique across brands.
func HandleBrandCreate(c *fiber.Ctx) error {
	var req brandRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid request body")
	}

	brand := &models.Brand{
		Name:              strings.TrimSpace(req.Name),
		Slug:              strings.TrimSpace(strings.ToLower(req.Slug)),
		PublisherName:     req.PublisherName,
		WebsiteURL:        req.WebsiteURL,
		PublishedBy:       req.PublishedBy,
		LogoURL:           req.LogoURL,
		BannerURL:         req.BannerURL,
		DefaultTemplateID: req.DefaultTemplateID,
		AccessMode:        req.AccessMode,
		Status:            models.BrandStatusActive,
		Images:            req.Images,
	}
	if len(req.Languages) > 0 {
		brand.Languages = strings.Join(req.Languages, ",")
	} else {
		brand.Languages = "en"
	}
	if brand.AccessMode == "" {
		brand.AccessMode = models.AccessModeSubscribersOnly
	}
	if err := brand.Validate(); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", err.Error())
	}

	repos := repository.GetGlobalRepositories()
	if _, err := repos.Brand.GetBySlug(brand.Slug); err == nil {
		return jsonError(c, fiber.StatusConflict, "conflict", "Slug already in use")
	}
	if err := repos.Brand.Create(brand); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to create brand")
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"brand": brand})
}

// HandleBrandUpdate updates brand fields and, when provided, replaces
// the image set.
func HandleBrandUpdate(c *fiber.Ctx) error {
	repos := repository.GetGlobalRepositories()
	brand, err := repos.Brand.GetByID(paramID(c, "id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusNotFound, "not_found", "Brand not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load brand")
	}

	var req brandRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid request body")
	}

	if req.Name != "" {
		brand.Name = strings.TrimSpace(req.Name)
	}
	if req.Slug != "" {
		slug := strings.TrimSpace(strings.ToLower(req.Slug))
		if slug != brand.Slug {
			if _, err := repos.Brand.GetBySlug(slug); err == nil {
				return jsonError(c, fiber.StatusConflict, "conflict", "Slug already in use")
			}
			brand.Slug = slug
		}
	}
	if req.PublisherName != "" {
		brand.PublisherName = req.PublisherName
	}
	if req.WebsiteURL != "" {
		brand.WebsiteURL = req.WebsiteURL
	}
	if req.PublishedBy != "" {
		brand.PublishedBy = req.PublishedBy
	}
	if req.LogoURL != "" {
		brand.LogoURL = req.LogoURL
	}
	if req.BannerURL != "" {
		brand.BannerURL = req.BannerURL
	}
	if req.DefaultTemplateID != nil {
		brand.DefaultTemplateID = req.DefaultTemplateID
	}
	if req.Languages != nil {
		brand.Languages = strings.Join(req.Languages, ",")
	}
	if req.AccessMode != "" {
		brand.AccessMode = req.AccessMode
	}
	if err := brand.Validate(); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", err.Error())
	}

	if req.Images != nil {
		if err := repos.Brand.ReplaceImages(brand.ID, req.Images); err != nil {
			return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to update brand images")
		}
	}
	brand.Images = nil
	if err := repos.Brand.Update(brand); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to update brand")
	}

	updated, err := repos.Brand.GetByID(brand.ID)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load brand")
	}
	return c.JSON(fiber.Map{"brand": updated})
}

// HandleBrandArchive retires a brand. Nothing is deleted; archived
// brands just stop appearing in reader and admin default listings.
func HandleBrandArchive(c *fiber.Ctx) error {
	brand, err := repository.GetGlobalRepositories().Brand.Archive(paramID(c, "id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusNotFound, "not_found", "Brand not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to archive brand")
	}
	return c.JSON(fiber.Map{"brand": brand, "message": "Brand archived"})
}

package controllers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/magforge/pressdesk/app/models"
	"github.com/magforge/pressdesk/app/repository"
)

type templateRequest struct {
	BrandID  uint                  `json:"brand_id"`
	Name     string                `json:"name"`
	Language string                `json:"language"`
	IsActive *bool                 `json:"is_active"`
	Slots    []models.TemplateSlot `json:"slots"`
}

// HandleTemplateList returns the templates of a brand.
func HandleTemplateList(c *fiber.Ctx) error {
	brandID := queryUint(c, "brand_id")
	if brandID == 0 {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "brand_id is required")
	}
	templates, err := repository.GetGlobalRepositories().Template.ListByBrand(brandID, c.QueryBool("active_only", false))
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to list templates")
	}
	return c.JSON(fiber.Map{"templates": templates})
}

// HandleTemplateGet returns one template with its slots.
func HandleTemplateGet(c *fiber.Ctx) error {
	template, err := repository.GetGlobalRepositories().Template.GetByIDWithSlots(paramID(c, "id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusNotFound, "not_found", "Template not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load template")
	}
	return c.JSON(fiber.Map{"template": template})
}

// HandleTemplateCreate creates a template with its slot layout.
// (brand, name) is unique; slot keys must be unique within the layout.
func HandleTemplateCreate(c *fiber.Ctx) error {
	var req templateRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid request body")
	}
	if req.BrandID == 0 || strings.TrimSpace(req.Name) == "" {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "brand_id and name are required")
	}
	if err := validateSlotKeys(req.Slots); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", err.Error())
	}

	repos := repository.GetGlobalRepositories()
	if _, err := repos.Brand.GetByID(req.BrandID); err != nil {
		return jsonError(c, fiber.StatusNotFound, "not_found", "Brand not found")
	}

	template := &models.Template{
		BrandID:  req.BrandID,
		Name:     strings.TrimSpace(req.Name),
		Language: req.Language,
		IsActive: true,
		Slots:    req.Slots,
	}
	if req.IsActive != nil {
		template.IsActive = *req.IsActive
	}
	if err := repos.Template.Create(template); err != nil {
		return jsonError(c, fiber.StatusConflict, "conflict", "Template name already in use for this brand")
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"template": template})
}

// HandleTemplateUpdate updates template metadata and, when provided,
// replaces the slot layout. Editions already stamped keep their
// sections; layout changes only affect future stamping.
func HandleTemplateUpdate(c *fiber.Ctx) error {
	repos := repository.GetGlobalRepositories()
	template, err := repos.Template.GetByID(paramID(c, "id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusNotFound, "not_found", "Template not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load template")
	}

	var req templateRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid request body")
	}

	if req.Name != "" {
		template.Name = strings.TrimSpace(req.Name)
	}
	if req.Language != "" {
		template.Language = req.Language
	}
	if req.IsActive != nil {
		template.IsActive = *req.IsActive
	}
	if err := repos.Template.Update(template); err != nil {
		return jsonError(c, fiber.StatusConflict, "conflict", "Template name already in use for this brand")
	}

	if req.Slots != nil {
		if err := validateSlotKeys(req.Slots); err != nil {
			return jsonError(c, fiber.StatusBadRequest, "bad_request", err.Error())
		}
		if err := repos.Template.ReplaceSlots(template.ID, req.Slots); err != nil {
			return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to update slots")
		}
	}

	updated, err := repos.Template.GetByIDWithSlots(template.ID)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load template")
	}
	return c.JSON(fiber.Map{"template": updated})
}

// HandleTemplateSetActive toggles template availability for new editions.
func HandleTemplateSetActive(c *fiber.Ctx) error {
	var req struct {
		IsActive bool `json:"is_active"`
	}
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid request body")
	}

	repos := repository.GetGlobalRepositories()
	id := paramID(c, "id")
	if _, err := repos.Template.GetByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusNotFound, "not_found", "Template not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load template")
	}
	if err := repos.Template.SetActive(id, req.IsActive); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to update template")
	}
	return c.JSON(fiber.Map{"message": "Template updated", "is_active": req.IsActive})
}

func validateSlotKeys(slots []models.TemplateSlot) error {
	seen := make(map[string]struct{}, len(slots))
	for _, slot := range slots {
		key := strings.TrimSpace(slot.Key)
		if key == "" {
			return errors.New("slot key must not be empty")
		}
		if _, dup := seen[key]; dup {
			return errors.New("duplicate slot key: " + key)
		}
		seen[key] = struct{}{}
	}
	return nil
}

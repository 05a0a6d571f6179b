package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/magforge/pressdesk/app/models"
	"github.com/magforge/pressdesk/app/repository"
	"github.com/magforge/pressdesk/internal/pkg/usercontext"
)

// HandleAllocationCreate assigns an author to an edition. The author
// must hold the AUTHOR role for the edition's brand.
func HandleAllocationCreate(c *fiber.Ctx) error {
	var req struct {
		EditionID uint `json:"edition_id"`
		AuthorID  uint `json:"author_id"`
	}
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid request body")
	}
	if req.EditionID == 0 || req.AuthorID == 0 {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "edition_id and author_id are required")
	}

	repos := repository.GetGlobalRepositories()
	edition, err := repos.Edition.GetByID(req.EditionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusNotFound, "not_found", "Edition not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load edition")
	}

	author, err := repos.User.GetByIDWithRoles(req.AuthorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusNotFound, "not_found", "Author not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load author")
	}
	if !authorHasBrandRole(author, edition.BrandID) {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "User is not an author for this brand")
	}

	userCtx := usercontext.GetUserContext(c)
	allocation := &models.AuthorAllocation{
		BrandID:    edition.BrandID,
		EditionID:  edition.ID,
		AuthorID:   author.ID,
		AssignedBy: userCtx.UserID,
		Status:     models.AllocationStatusActive,
	}
	if err := repos.Allocation.Create(allocation); err != nil {
		return jsonError(c, fiber.StatusConflict, "conflict", "Author already allocated to this edition")
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"allocation": allocation})
}

// HandleAllocationList lists allocations, optionally for one edition.
func HandleAllocationList(c *fiber.Ctx) error {
	allocations, err := repository.GetGlobalRepositories().Allocation.List(queryUint(c, "edition_id"))
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to list allocations")
	}
	return c.JSON(fiber.Map{"allocations": allocations})
}

// HandleAllocationRevoke withdraws an allocation, keeping its row.
func HandleAllocationRevoke(c *fiber.Ctx) error {
	allocation, err := repository.GetGlobalRepositories().Allocation.Revoke(paramID(c, "id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusNotFound, "not_found", "Allocation not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to revoke allocation")
	}
	return c.JSON(fiber.Map{"allocation": allocation, "message": "Allocation revoked"})
}

func authorHasBrandRole(user *models.User, brandID uint) bool {
	for _, r := range user.Roles {
		if r.Role == models.ROLE_AUTHOR && r.BrandID != nil && *r.BrandID == brandID {
			return true
		}
	}
	return false
}

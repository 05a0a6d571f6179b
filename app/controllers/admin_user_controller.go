package controllers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/magforge/pressdesk/app/models"
	"github.com/magforge/pressdesk/app/repository"
)

type roleGrant struct {
	Role    string `json:"role"`
	BrandID *uint  `json:"brand_id"`
}

// HandleAdminUserList returns users filtered by role, brand, status
// and search text.
func HandleAdminUserList(c *fiber.Ctx) error {
	page, offset, limit := parsePagination(c)
	users, total, err := repository.GetGlobalRepositories().User.List(repository.UserFilter{
		Role:    c.Query("role"),
		Query:   c.Query("q"),
		BrandID: queryUint(c, "brand_id"),
		Status:  c.Query("status"),
		Offset:  offset,
		Limit:   limit,
	})
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to list users")
	}
	return c.JSON(paginated(users, page, limit, total))
}

// HandleAdminUserCreate creates a staff or reader account with an
// explicit role set.
func HandleAdminUserCreate(c *fiber.Ctx) error {
	var req struct {
		Email       string      `json:"email"`
		Phone       string      `json:"phone"`
		Password    string      `json:"password"`
		DisplayName string      `json:"display_name"`
		Roles       []roleGrant `json:"roles"`
	}
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid request body")
	}
	if len(req.Password) < 8 {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Password must be at least 8 characters")
	}

	user, err := models.CreateUser(strings.TrimSpace(strings.ToLower(req.Email)), strings.TrimSpace(req.Phone), req.Password, req.DisplayName)
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", err.Error())
	}
	if roles, err := rolesFromGrants(req.Roles); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", err.Error())
	} else if len(roles) > 0 {
		user.Roles = roles
	}

	if err := repository.GetGlobalRepositories().User.Create(user); err != nil {
		return jsonError(c, fiber.StatusConflict, "conflict", "Email or phone already registered")
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"user": user})
}

// HandleAdminUserSetRoles replaces a user's role grants.
func HandleAdminUserSetRoles(c *fiber.Ctx) error {
	var req struct {
		Roles []roleGrant `json:"roles"`
	}
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid request body")
	}
	roles, err := rolesFromGrants(req.Roles)
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", err.Error())
	}

	repos := repository.GetGlobalRepositories()
	id := paramID(c, "id")
	if _, err := repos.User.GetByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusNotFound, "not_found", "User not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load user")
	}
	if err := repos.User.SetRoles(id, roles); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to update roles")
	}

	user, err := repos.User.GetByIDWithRoles(id)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load user")
	}
	return c.JSON(fiber.Map{"user": user})
}

// HandleAdminUserSetStatus blocks or unblocks an account.
func HandleAdminUserSetStatus(c *fiber.Ctx) error {
	var req struct {
		Status string `json:"status"`
	}
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid request body")
	}
	if req.Status != models.STATUS_ACTIVE && req.Status != models.STATUS_BLOCKED {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Unknown status")
	}

	repos := repository.GetGlobalRepositories()
	id := paramID(c, "id")
	if _, err := repos.User.GetByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusNotFound, "not_found", "User not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load user")
	}
	if err := repos.User.UpdateStatus(id, req.Status); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to update status")
	}
	return c.JSON(fiber.Map{"message": "Status updated", "status": req.Status})
}

func rolesFromGrants(grants []roleGrant) ([]models.UserRole, error) {
	roles := make([]models.UserRole, 0, len(grants))
	for _, g := range grants {
		switch g.Role {
		case models.ROLE_SUPER_ADMIN, models.ROLE_USER:
			roles = append(roles, models.UserRole{Role: g.Role})
		case models.ROLE_ADMIN, models.ROLE_AUTHOR:
			if g.BrandID == nil || *g.BrandID == 0 {
				return nil, errors.New(g.Role + " grants require a brand_id")
			}
			roles = append(roles, models.UserRole{Role: g.Role, BrandID: g.BrandID})
		default:
			return nil, errors.New("unknown role: " + g.Role)
		}
	}
	return roles, nil
}

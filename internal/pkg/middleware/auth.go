package middleware

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/magforge/pressdesk/app/repository"
	"github.com/magforge/pressdesk/internal/pkg/security"
	"github.com/magforge/pressdesk/internal/pkg/usercontext"
)

// RequireAuth authenticates requests carrying a bearer access token
// and loads the user (with role grants) into the request context.
func RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := extractBearerToken(c)
		if token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized", "message": "No token provided"})
		}

		claims, err := security.ParseToken(token, security.TokenTypeAccess)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized", "message": "Invalid or expired token"})
		}

		repo := repository.GetGlobalFactory().GetUserRepository()
		user, err := repo.GetByIDWithRoles(claims.UserID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized", "message": "Invalid or inactive user"})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Authentication failed"})
		}
		if !user.IsActive() {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized", "message": "Invalid or inactive user"})
		}

		usercontext.SetUserContext(c, usercontext.UserContext{
			UserID:      user.ID,
			DisplayName: user.DisplayName,
			Email:       user.Email,
			IsLoggedIn:  true,
			Roles:       user.Roles,
		})

		return c.Next()
	}
}

// OptionalAuth loads the user context when a valid bearer token is
// present and continues anonymously otherwise. Reader routes use it
// so public_preview content stays reachable without an account.
func OptionalAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := extractBearerToken(c)
		if token == "" {
			return c.Next()
		}
		claims, err := security.ParseToken(token, security.TokenTypeAccess)
		if err != nil {
			return c.Next()
		}
		user, err := repository.GetGlobalFactory().GetUserRepository().GetByIDWithRoles(claims.UserID)
		if err != nil || !user.IsActive() {
			return c.Next()
		}
		usercontext.SetUserContext(c, usercontext.UserContext{
			UserID:      user.ID,
			DisplayName: user.DisplayName,
			Email:       user.Email,
			IsLoggedIn:  true,
			Roles:       user.Roles,
		})
		return c.Next()
	}
}

// RequireRole gates a route to users holding at least one of the roles.
func RequireRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userCtx := usercontext.GetUserContext(c)
		if !userCtx.IsLoggedIn {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized", "message": "Login required"})
		}
		if !userCtx.HasAnyRole(roles...) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "forbidden", "message": "Insufficient permissions"})
		}
		return c.Next()
	}
}

// RequireBrandAccess enforces per-brand scoping for ADMIN/AUTHOR
// users. Requests that name no brand pass through; the handler is
// expected to scope by entity instead.
func RequireBrandAccess() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userCtx := usercontext.GetUserContext(c)
		if !userCtx.IsLoggedIn {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized", "message": "Login required"})
		}

		brandID := brandIDFromRequest(c)
		if brandID == 0 {
			return c.Next()
		}
		if !userCtx.CanAccessBrand(brandID) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "forbidden", "message": "No access to this brand"})
		}
		return c.Next()
	}
}

func extractBearerToken(c *fiber.Ctx) string {
	auth := strings.TrimSpace(c.Get("Authorization"))
	if strings.HasPrefix(strings.ToLower(auth), "bearer ") {
		return strings.TrimSpace(auth[7:])
	}
	return ""
}

func brandIDFromRequest(c *fiber.Ctx) uint {
	for _, v := range []string{c.Params("brandId"), c.Query("brand_id"), c.Query("brandId")} {
		if v == "" {
			continue
		}
		if id, err := strconv.ParseUint(v, 10, 32); err == nil {
			return uint(id)
		}
	}
	return 0
}

package usercontext

import (
	"github.com/gofiber/fiber/v2"
	"github.com/magforge/pressdesk/app/models"
)

const (
	KeyUserContext = "USER_CONTEXT"
	KeyUserID      = "USER_ID"
	KeyIsAdmin     = "USER_IS_ADMIN"
)

// UserContext is the authenticated identity attached to a request.
type UserContext struct {
	UserID      uint
	DisplayName string
	Email       string
	IsLoggedIn  bool
	Roles       []models.UserRole
}

// GetUserContext reads the user context from fiber locals; the zero
// value (not logged in) is returned when auth middleware did not run.
func GetUserContext(c *fiber.Ctx) UserContext {
	if v, ok := c.Locals(KeyUserContext).(UserContext); ok {
		return v
	}
	return UserContext{}
}

// SetUserContext stores the user context on the request.
func SetUserContext(c *fiber.Ctx, ctx UserContext) {
	c.Locals(KeyUserContext, ctx)
	c.Locals(KeyUserID, ctx.UserID)
	c.Locals(KeyIsAdmin, ctx.HasAnyRole(models.ROLE_SUPER_ADMIN, models.ROLE_ADMIN))
}

// HasRole reports whether the context holds the role under any scope.
func (u UserContext) HasRole(role string) bool {
	for _, r := range u.Roles {
		if r.Role == role {
			return true
		}
	}
	return false
}

// HasAnyRole reports whether the context holds at least one of the roles.
func (u UserContext) HasAnyRole(roles ...string) bool {
	for _, role := range roles {
		if u.HasRole(role) {
			return true
		}
	}
	return false
}

// CanAccessBrand mirrors models.User.CanAccessBrand for the request
// scope: SUPER_ADMIN always passes, ADMIN/AUTHOR need the brand grant.
func (u UserContext) CanAccessBrand(brandID uint) bool {
	for _, r := range u.Roles {
		if r.Role == models.ROLE_SUPER_ADMIN {
			return true
		}
		if (r.Role == models.ROLE_ADMIN || r.Role == models.ROLE_AUTHOR) && r.BrandID != nil && *r.BrandID == brandID {
			return true
		}
	}
	return false
}

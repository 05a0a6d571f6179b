package controllers

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/magforge/pressdesk/app/models"
	"github.com/magforge/pressdesk/app/repository"
	"github.com/magforge/pressdesk/internal/pkg/security"
	"github.com/magforge/pressdesk/internal/pkg/usercontext"
)

type registerRequest struct {
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// HandleRegister creates a reader account and signs it in.
func HandleRegister(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid request body")
	}
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	req.Phone = strings.TrimSpace(req.Phone)

	if req.Email == "" && req.Phone == "" {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Email or phone is required")
	}
	if len(req.Password) < 8 {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Password must be at least 8 characters")
	}

	repos := repository.GetGlobalRepositories()
	if req.Email != "" {
		if _, err := repos.User.GetByEmail(req.Email); err == nil {
			return jsonError(c, fiber.StatusConflict, "conflict", "Email already registered")
		}
	}
	if req.Phone != "" {
		if _, err := repos.User.GetByPhone(req.Phone); err == nil {
			return jsonError(c, fiber.StatusConflict, "conflict", "Phone already registered")
		}
	}

	user, err := models.CreateUser(req.Email, req.Phone, req.Password, req.DisplayName)
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", err.Error())
	}
	if err := repos.User.Create(user); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to create user")
	}

	return issueTokens(c, user, fiber.StatusCreated)
}

// HandleLogin signs a user in with email or phone plus password.
func HandleLogin(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid request body")
	}

	repos := repository.GetGlobalRepositories()
	var user *models.User
	var err error
	switch {
	case strings.TrimSpace(req.Email) != "":
		user, err = repos.User.GetByEmail(strings.TrimSpace(strings.ToLower(req.Email)))
	case strings.TrimSpace(req.Phone) != "":
		user, err = repos.User.GetByPhone(strings.TrimSpace(req.Phone))
	default:
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Email or phone is required")
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusUnauthorized, "unauthorized", "Invalid credentials")
		}
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Login failed")
	}

	if !models.CheckPasswordHash(req.Password, user.PasswordHash) {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized", "Invalid credentials")
	}
	if !user.IsActive() {
		return jsonError(c, fiber.StatusForbidden, "forbidden", "Account is blocked")
	}

	if err := repos.User.TouchLastLogin(user.ID); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Login failed")
	}
	return issueTokens(c, user, fiber.StatusOK)
}

// HandleRefresh rotates a refresh session and issues fresh tokens.
// The presented token is revoked whether or not rotation succeeds
// past that point, so a leaked token can be redeemed at most once.
func HandleRefresh(c *fiber.Ctx) error {
	var req refreshRequest
	if err := c.BodyParser(&req); err != nil || req.RefreshToken == "" {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "refresh_token is required")
	}

	claims, err := security.ParseToken(req.RefreshToken, security.TokenTypeRefresh)
	if err != nil {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized", "Invalid refresh token")
	}

	repos := repository.GetGlobalRepositories()
	session, err := repos.Session.GetUsable(claims.UserID, security.HashRefreshToken(req.RefreshToken), time.Now())
	if err != nil {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized", "Session expired or revoked")
	}
	if err := repos.Session.Revoke(session.ID); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Refresh failed")
	}

	user, err := repos.User.GetByIDWithRoles(claims.UserID)
	if err != nil || !user.IsActive() {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized", "Invalid or inactive user")
	}
	return issueTokens(c, user, fiber.StatusOK)
}

// HandleLogout revokes the presented refresh session.
func HandleLogout(c *fiber.Ctx) error {
	var req refreshRequest
	if err := c.BodyParser(&req); err != nil || req.RefreshToken == "" {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "refresh_token is required")
	}

	claims, err := security.ParseToken(req.RefreshToken, security.TokenTypeRefresh)
	if err != nil {
		// Expired or malformed tokens have nothing to revoke.
		return c.JSON(fiber.Map{"message": "Logged out"})
	}

	repos := repository.GetGlobalRepositories()
	if err := repos.Session.RevokeByUserAndHash(claims.UserID, security.HashRefreshToken(req.RefreshToken)); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Logout failed")
	}
	return c.JSON(fiber.Map{"message": "Logged out"})
}

// HandleMe returns the authenticated user's profile and role grants.
func HandleMe(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	user, err := repository.GetGlobalRepositories().User.GetByIDWithRoles(userCtx.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusNotFound, "not_found", "User not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load user")
	}
	return c.JSON(fiber.Map{"user": user})
}

func issueTokens(c *fiber.Ctx, user *models.User, status int) error {
	accessToken, err := security.GenerateAccessToken(user.ID)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to issue tokens")
	}
	refreshToken, err := security.GenerateRefreshToken(user.ID)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to issue tokens")
	}

	session := &models.UserSession{
		UserID:           user.ID,
		RefreshTokenHash: security.HashRefreshToken(refreshToken),
		ExpiresAt:        time.Now().Add(security.RefreshTokenTTL()),
	}
	if err := repository.GetGlobalRepositories().Session.Create(session); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to issue tokens")
	}

	return c.Status(status).JSON(fiber.Map{
		"user":          user,
		"access_token":  accessToken,
		"refresh_token": refreshToken,
	})
}

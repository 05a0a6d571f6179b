package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/magforge/pressdesk/app/models"
)

// sessionRepository implements the SessionRepository interface
type sessionRepository struct {
	db *gorm.DB
}

// NewSessionRepository creates a new session repository instance
func NewSessionRepository(db *gorm.DB) SessionRepository {
	return &sessionRepository{db: db}
}

// Create stores a new refresh session
func (r *sessionRepository) Create(session *models.UserSession) error {
	return r.db.Create(session).Error
}

// GetUsable finds a live session matching the user and token hash
func (r *sessionRepository) GetUsable(userID uint, refreshTokenHash string, now time.Time) (*models.UserSession, error) {
	var session models.UserSession
	err := r.db.Where("user_id = ? AND refresh_token_hash = ? AND revoked_at IS NULL AND expires_at > ?",
		userID, refreshTokenHash, now).First(&session).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// Revoke marks a session as no longer redeemable
func (r *sessionRepository) Revoke(id uint) error {
	return r.db.Model(&models.UserSession{}).Where("id = ?", id).Update("revoked_at", time.Now()).Error
}

// RevokeByUserAndHash revokes the session behind a presented refresh token
func (r *sessionRepository) RevokeByUserAndHash(userID uint, refreshTokenHash string) error {
	return r.db.Model(&models.UserSession{}).
		Where("user_id = ? AND refresh_token_hash = ? AND revoked_at IS NULL", userID, refreshTokenHash).
		Update("revoked_at", time.Now()).Error
}

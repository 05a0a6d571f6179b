package models

import "time"

// UserSession tracks one issued refresh token per device. Only the
// SHA-256 hash of the token is stored; a session is usable until it
// expires or is revoked (rotation revokes the old row).
type UserSession struct {
	ID               uint       `gorm:"primaryKey" json:"id"`
	UserID           uint       `gorm:"not null;index" json:"user_id"`
	RefreshTokenHash string     `gorm:"type:varchar(64);not null;index" json:"-"`
	Platform         string     `gorm:"type:varchar(20);default:'unknown'" json:"platform"`
	DeviceID         string     `gorm:"type:varchar(100)" json:"device_id"`
	DeviceName       string     `gorm:"type:varchar(150)" json:"device_name"`
	IP               string     `gorm:"type:varchar(45)" json:"-"`
	UserAgent        string     `gorm:"type:varchar(255)" json:"-"`
	ExpiresAt        time.Time  `gorm:"not null;index" json:"expires_at"`
	RevokedAt        *time.Time `gorm:"type:timestamp;default:null" json:"revoked_at,omitempty"`
	CreatedAt        time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

// IsUsable reports whether the session can still redeem a refresh token.
func (s *UserSession) IsUsable(now time.Time) bool {
	return s.RevokedAt == nil && s.ExpiresAt.After(now)
}

package models

import (
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	ROLE_SUPER_ADMIN = "SUPER_ADMIN"
	ROLE_ADMIN       = "ADMIN"
	ROLE_AUTHOR      = "AUTHOR"
	ROLE_USER        = "USER"

	STATUS_ACTIVE  = "active"
	STATUS_BLOCKED = "blocked"
)

// User is a back-office account. Either Email or Phone must be set;
// both are unique when present.
type User struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Email        string         `gorm:"type:varchar(200);uniqueIndex;default:null" json:"email" validate:"omitempty,email,max=200"`
	Phone        string         `gorm:"type:varchar(20);uniqueIndex;default:null" json:"phone" validate:"omitempty,max=20"`
	PasswordHash string         `gorm:"type:text" json:"-"`
	DisplayName  string         `gorm:"type:varchar(150)" json:"display_name" validate:"max=150"`
	FirstName    string         `gorm:"type:varchar(100)" json:"first_name" validate:"max=100"`
	LastName     string         `gorm:"type:varchar(100)" json:"last_name" validate:"max=100"`
	PhotoURL     string         `gorm:"type:varchar(255)" json:"profile_photo_url" validate:"max=255"`
	Status       string         `gorm:"type:varchar(20);default:'active';index" json:"status" validate:"oneof=active blocked"`
	LastLoginAt  *time.Time     `gorm:"type:timestamp;default:null" json:"last_login_at,omitempty"`
	Roles        []UserRole     `gorm:"foreignKey:UserID" json:"roles,omitempty"`
	CreatedAt    time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

// UserRole grants one role to one user. ADMIN and AUTHOR grants are
// scoped to a brand via BrandID; SUPER_ADMIN and USER rows keep it nil.
type UserRole struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	UserID  uint   `gorm:"not null;index:ux_user_roles_user_role_brand,unique,priority:1" json:"user_id"`
	Role    string `gorm:"type:varchar(20);not null;index:ux_user_roles_user_role_brand,unique,priority:2;index" json:"role"`
	BrandID *uint  `gorm:"index:ux_user_roles_user_role_brand,unique,priority:3;index" json:"brand_id,omitempty"`
}

func (u *User) Validate() error {
	return validator.New().Struct(u)
}

// CreateUser builds an active user with a hashed password and the
// default USER role. It does not persist anything.
func CreateUser(email, phone, password, displayName string) (*User, error) {
	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	u := &User{
		Email:        email,
		Phone:        phone,
		PasswordHash: hash,
		DisplayName:  displayName,
		Status:       STATUS_ACTIVE,
		Roles:        []UserRole{{Role: ROLE_USER}},
	}

	if err := u.Validate(); err != nil {
		return nil, err
	}
	return u, nil
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)

	return string(bytes), err
}

// CheckPasswordHash compares the given password with the stored hash.
func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))

	return err == nil
}

// IsActive reports whether the user status is active
func (u *User) IsActive() bool {
	return u.Status == STATUS_ACTIVE
}

// HasRole reports whether the user holds the role under any brand scope.
func (u *User) HasRole(role string) bool {
	for _, r := range u.Roles {
		if r.Role == role {
			return true
		}
	}
	return false
}

// HasAnyRole reports whether the user holds at least one of the roles.
func (u *User) HasAnyRole(roles ...string) bool {
	for _, role := range roles {
		if u.HasRole(role) {
			return true
		}
	}
	return false
}

// CanAccessBrand reports whether the user may manage the given brand.
// SUPER_ADMIN passes everywhere; ADMIN and AUTHOR need a role row
// scoped to the brand.
func (u *User) CanAccessBrand(brandID uint) bool {
	for _, r := range u.Roles {
		if r.Role == ROLE_SUPER_ADMIN {
			return true
		}
		if (r.Role == ROLE_ADMIN || r.Role == ROLE_AUTHOR) && r.BrandID != nil && *r.BrandID == brandID {
			return true
		}
	}
	return false
}

package models

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

const (
	AccessModeSubscribersOnly = "subscribers_only"
	AccessModePublicPreview   = "public_preview"

	BrandStatusActive   = "active"
	BrandStatusArchived = "archived"
)

// Brand is one magazine title. Deleting a brand archives it; editions
// and subscriptions keep their references.
type Brand struct {
	ID                uint           `gorm:"primaryKey" json:"id"`
	Name              string         `gorm:"type:varchar(150);not null" json:"name" validate:"required,max=150"`
	Slug              string         `gorm:"type:varchar(150);not null;uniqueIndex" json:"slug" validate:"required,max=150"`
	PublisherName     string         `gorm:"type:varchar(150)" json:"publisher_name"`
	WebsiteURL        string         `gorm:"type:varchar(255)" json:"website_url"`
	PublishedBy       string         `gorm:"type:varchar(150)" json:"published_by"`
	Languages         string         `gorm:"type:varchar(50);default:'en'" json:"languages"`
	LogoURL           string         `gorm:"type:varchar(255)" json:"logo_url"`
	BannerURL         string         `gorm:"type:varchar(255)" json:"banner_url"`
	DefaultTemplateID *uint          `gorm:"index" json:"default_template_id,omitempty"`
	AccessMode        string         `gorm:"type:varchar(20);default:'subscribers_only'" json:"access_mode" validate:"omitempty,oneof=subscribers_only public_preview"`
	Status            string         `gorm:"type:varchar(20);default:'active';index" json:"status" validate:"omitempty,oneof=active archived"`
	Images            []BrandImage   `gorm:"foreignKey:BrandID" json:"images,omitempty"`
	CreatedAt         time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`
}

// BrandImage is one gallery image attached to a brand.
type BrandImage struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	BrandID   uint   `gorm:"not null;index" json:"brand_id"`
	URL       string `gorm:"type:varchar(255);not null" json:"url"`
	Label     string `gorm:"type:varchar(150)" json:"label"`
	SortOrder int    `gorm:"default:0" json:"order"`
}

func (b *Brand) Validate() error {
	return validator.New().Struct(b)
}

// SupportedLanguages splits the stored language list.
func (b *Brand) SupportedLanguages() []string {
	parts := strings.Split(b.Languages, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if lang := strings.TrimSpace(p); lang != "" {
			out = append(out, lang)
		}
	}
	return out
}

// SupportsLanguage reports whether the brand publishes in the language.
func (b *Brand) SupportsLanguage(lang string) bool {
	for _, l := range b.SupportedLanguages() {
		if l == lang {
			return true
		}
	}
	return false
}

package models

import (
	"time"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

const (
	EditionStatusDraft     = "draft"
	EditionStatusInReview  = "in_review"
	EditionStatusPublished = "published"
	EditionStatusArchived  = "archived"
)

// EditionMasthead is the printed header block of an edition.
type EditionMasthead struct {
	TitleLine       string `gorm:"type:varchar(200)" json:"title_line"`
	OrgLine         string `gorm:"type:varchar(200)" json:"org_line"`
	WebsiteLine     string `gorm:"type:varchar(200)" json:"website_line"`
	PublishedByLine string `gorm:"type:varchar(200)" json:"published_by_line"`
}

// Edition is one issue of a brand. (brand_id, year, month, language)
// is unique; sections are stamped from the referenced template.
type Edition struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	BrandID  uint   `gorm:"not null;index:ux_editions_brand_issue,unique,priority:1;index" json:"brand_id" validate:"required"`
	Year     int    `gorm:"not null;index:ux_editions_brand_issue,unique,priority:2" json:"year" validate:"required,min=1900,max=3000"`
	Month    int    `gorm:"not null;index:ux_editions_brand_issue,unique,priority:3" json:"month" validate:"required,min=1,max=12"`
	Language string `gorm:"type:varchar(10);not null;index:ux_editions_brand_issue,unique,priority:4;index" json:"language" validate:"required,oneof=en te ta hi"`

	PublicationDate *time.Time `gorm:"type:timestamp;default:null" json:"publication_date,omitempty"`

	Volume     string `gorm:"type:varchar(50)" json:"volume"`
	EditionNo  string `gorm:"type:varchar(50)" json:"edition_no"`
	CoverTitle string `gorm:"type:varchar(200)" json:"cover_title"`

	Masthead EditionMasthead `gorm:"embedded;embeddedPrefix:masthead_" json:"masthead"`

	CoverFrontURL string `gorm:"type:varchar(255)" json:"cover_front_url"`
	CoverBackURL  string `gorm:"type:varchar(255)" json:"cover_back_url"`
	PDFURL        string `gorm:"type:varchar(255)" json:"pdf_url"`

	TemplateID uint  `gorm:"not null;index" json:"template_id" validate:"required"`
	ManagedBy  *uint `gorm:"index" json:"managed_by,omitempty"`

	Status      string     `gorm:"type:varchar(20);default:'draft';index" json:"status"`
	PublishedAt *time.Time `gorm:"type:timestamp;default:null" json:"published_at,omitempty"`

	Brand    *Brand    `gorm:"foreignKey:BrandID" json:"brand,omitempty"`
	Template *Template `gorm:"foreignKey:TemplateID" json:"template,omitempty"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (e *Edition) Validate() error {
	return validator.New().Struct(e)
}

// IsPublished reports whether the edition is visible to readers.
func (e *Edition) IsPublished() bool {
	return e.Status == EditionStatusPublished
}

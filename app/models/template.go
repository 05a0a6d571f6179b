package models

import (
	"time"

	"gorm.io/gorm"
)

// Template defines the slot layout an edition is stamped from.
// (brand_id, name) is unique.
type Template struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	BrandID   uint           `gorm:"not null;index:ux_templates_brand_name,unique,priority:1;index" json:"brand_id" validate:"required"`
	Name      string         `gorm:"type:varchar(150);not null;index:ux_templates_brand_name,unique,priority:2" json:"name" validate:"required,max=150"`
	Language  string         `gorm:"type:varchar(10);default:'en'" json:"language" validate:"omitempty,oneof=en te ta hi multi"`
	IsActive  bool           `gorm:"default:true;index" json:"is_active"`
	Slots     []TemplateSlot `gorm:"foreignKey:TemplateID" json:"slots,omitempty"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TemplateSlot is one position in the template. Its Default* fields
// seed the section content when an edition is generated.
type TemplateSlot struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	TemplateID uint   `gorm:"not null;index:ux_template_slots_template_key,unique,priority:1" json:"template_id"`
	Key        string `gorm:"type:varchar(100);not null;index:ux_template_slots_template_key,unique,priority:2" json:"key" validate:"required,max=100"`
	Label      string `gorm:"type:varchar(150);not null" json:"label" validate:"required,max=150"`
	SortOrder  int    `gorm:"not null;default:0" json:"order"`
	Required   bool   `gorm:"default:true" json:"required"`

	AllowAudio      bool `gorm:"default:true" json:"allow_audio"`
	AllowImages     bool `gorm:"default:true" json:"allow_images"`
	AllowVerses     bool `gorm:"default:true" json:"allow_verses"`
	AllowLists      bool `gorm:"default:true" json:"allow_lists"`
	AllowHighlights bool `gorm:"default:true" json:"allow_highlights"`

	DefaultSectionType  string `gorm:"type:varchar(30);default:'other'" json:"default_section_type"`
	DefaultTitle        string `gorm:"type:varchar(200)" json:"default_title"`
	DefaultSubtitle     string `gorm:"type:varchar(200)" json:"default_subtitle"`
	DefaultSummary      string `gorm:"type:text" json:"default_summary"`
	DefaultBody         string `gorm:"type:text" json:"default_body"`
	DefaultAuthorName   string `gorm:"type:varchar(150)" json:"default_author_print_name"`
	DefaultSourceCredit string `gorm:"type:varchar(150)" json:"default_source_credit"`
}

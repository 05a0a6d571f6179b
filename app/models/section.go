package models

import (
	"encoding/json"
	"strings"
	"time"
)

const (
	SectionStatusEmpty     = "empty"
	SectionStatusDraft     = "draft"
	SectionStatusInReview  = "in_review"
	SectionStatusApproved  = "approved"
	SectionStatusPublished = "published"
)

// SectionTypes is the closed set of accepted content types.
var SectionTypes = []string{
	"editorial", "story", "message", "testimony", "field_report",
	"devotional", "announcement", "prayer", "closing", "other",
}

// SectionContent is the editable body of a section. The list-shaped
// parts (verses, highlights, lists, images, audio) are stored as JSON
// documents; the API treats them as opaque arrays/objects.
type SectionContent struct {
	SectionType     string `gorm:"type:varchar(30);not null;default:'other'" json:"section_type"`
	Title           string `gorm:"type:varchar(200)" json:"title"`
	Subtitle        string `gorm:"type:varchar(200)" json:"subtitle"`
	AuthorPrintName string `gorm:"type:varchar(150)" json:"author_print_name"`
	SourceCredit    string `gorm:"type:varchar(150)" json:"source_credit"`
	Summary         string `gorm:"type:text" json:"summary"`
	Body            string `gorm:"type:longtext" json:"body"`
	PageNumber      int    `gorm:"default:0" json:"page_number"`

	BibleVerses json.RawMessage `gorm:"type:json" json:"bible_verses,omitempty"`
	Highlights  json.RawMessage `gorm:"type:json" json:"highlights,omitempty"`
	Lists       json.RawMessage `gorm:"type:json" json:"lists,omitempty"`
	Images      json.RawMessage `gorm:"type:json" json:"images,omitempty"`
	Audio       json.RawMessage `gorm:"type:json" json:"audio,omitempty"`
}

// SectionReview carries the review trail of a section.
type SectionReview struct {
	SubmittedAt   *time.Time `gorm:"type:timestamp;default:null" json:"submitted_at,omitempty"`
	ReviewedBy    *uint      `json:"reviewed_by,omitempty"`
	ReviewedAt    *time.Time `gorm:"type:timestamp;default:null" json:"reviewed_at,omitempty"`
	ReviewerNotes string     `gorm:"type:text" json:"reviewer_notes"`
}

// Section is one slot of an edition. (edition_id, slot_key) is unique.
// Status machine: empty -> draft -> in_review -> approved -> published;
// reject sends in_review back to draft.
type Section struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	EditionID uint   `gorm:"not null;index:ux_sections_edition_slot,unique,priority:1;index" json:"edition_id"`
	BrandID   uint   `gorm:"not null;index" json:"brand_id"`
	SlotKey   string `gorm:"type:varchar(100);not null;index:ux_sections_edition_slot,unique,priority:2" json:"slot_key"`
	SlotLabel string `gorm:"type:varchar(150)" json:"slot_label"`
	SlotOrder int    `gorm:"not null;default:0;index" json:"slot_order"`

	Content SectionContent `gorm:"embedded" json:"content"`
	Status  string         `gorm:"type:varchar(20);default:'empty';index" json:"status"`

	CreatedBy *uint `json:"created_by,omitempty"`
	UpdatedBy *uint `json:"updated_by,omitempty"`

	Review SectionReview `gorm:"embedded;embeddedPrefix:review_" json:"review"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// HasContent reports whether any of title, summary or body is filled.
func (c *SectionContent) HasContent() bool {
	return strings.TrimSpace(c.Title) != "" ||
		strings.TrimSpace(c.Summary) != "" ||
		strings.TrimSpace(c.Body) != ""
}

// StatusFromContent derives empty/draft from the content. Statuses past
// draft are never derived; they only move through the review flow.
func (c *SectionContent) StatusFromContent() string {
	if c.HasContent() {
		return SectionStatusDraft
	}
	return SectionStatusEmpty
}

// IsValidSectionType reports membership in the closed type set.
func IsValidSectionType(t string) bool {
	for _, s := range SectionTypes {
		if s == t {
			return true
		}
	}
	return false
}

// ReadyForPublish reports whether every section clears the publish
// gate (approved or already published).
func ReadyForPublish(sections []Section) bool {
	for _, s := range sections {
		if s.Status != SectionStatusApproved && s.Status != SectionStatusPublished {
			return false
		}
	}
	return true
}

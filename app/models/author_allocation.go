package models

import "time"

const (
	AllocationStatusActive  = "active"
	AllocationStatusRevoked = "revoked"
)

// AuthorAllocation assigns an author to work on an edition. One row
// per (edition, author); revoking keeps the row for the audit trail.
type AuthorAllocation struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	BrandID    uint   `gorm:"not null;index" json:"brand_id"`
	EditionID  uint   `gorm:"not null;index:ux_allocations_edition_author,unique,priority:1;index" json:"edition_id"`
	AuthorID   uint   `gorm:"not null;index:ux_allocations_edition_author,unique,priority:2;index" json:"author_id"`
	AssignedBy uint   `gorm:"not null" json:"assigned_by"`
	Status     string `gorm:"type:varchar(20);default:'active';index" json:"status"`

	Author  *User    `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	Edition *Edition `gorm:"foreignKey:EditionID" json:"edition,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

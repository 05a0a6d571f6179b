package repository

import (
	"gorm.io/gorm"

	"github.com/magforge/pressdesk/app/models"
)

// sectionRepository implements the SectionRepository interface
type sectionRepository struct {
	db *gorm.DB
}

// NewSectionRepository creates a new section repository instance
func NewSectionRepository(db *gorm.DB) SectionRepository {
	return &sectionRepository{db: db}
}

// CreateMany inserts the stamped sections of a fresh edition
func (r *sectionRepository) CreateMany(sections []models.Section) error {
	if len(sections) == 0 {
		return nil
	}
	return r.db.Create(&sections).Error
}

// GetByID retrieves a section by its ID
func (r *sectionRepository) GetByID(id uint) (*models.Section, error) {
	var section models.Section
	if err := r.db.First(&section, id).Error; err != nil {
		return nil, err
	}
	return &section, nil
}

// GetByEditionAndSlot retrieves the section occupying a slot key
func (r *sectionRepository) GetByEditionAndSlot(editionID uint, slotKey string) (*models.Section, error) {
	var section models.Section
	err := r.db.Where("edition_id = ? AND slot_key = ?", editionID, slotKey).First(&section).Error
	if err != nil {
		return nil, err
	}
	return &section, nil
}

// ListByEdition retrieves all sections of an edition in layout order
func (r *sectionRepository) ListByEdition(editionID uint) ([]models.Section, error) {
	var sections []models.Section
	err := r.db.Where("edition_id = ?", editionID).
		Order("slot_order ASC, id ASC").
		Find(&sections).Error
	if err != nil {
		return nil, err
	}
	return sections, nil
}

// ListPublishedByEdition retrieves only the published sections of an
// edition, the view served to readers.
func (r *sectionRepository) ListPublishedByEdition(editionID uint) ([]models.Section, error) {
	var sections []models.Section
	err := r.db.Where("edition_id = ? AND status = ?", editionID, models.SectionStatusPublished).
		Order("slot_order ASC, id ASC").
		Find(&sections).Error
	if err != nil {
		return nil, err
	}
	return sections, nil
}

// Update updates an existing section
func (r *sectionRepository) Update(section *models.Section) error {
	return r.db.Save(section).Error
}

// UpdateStatusByEdition moves every section of an edition to a status
func (r *sectionRepository) UpdateStatusByEdition(editionID uint, toStatus string) error {
	return r.db.Model(&models.Section{}).
		Where("edition_id = ?", editionID).
		Update("status", toStatus).Error
}

// UpdateStatusByEditionWhere moves only sections currently in
// fromStatus, used when unpublishing demotes published sections.
func (r *sectionRepository) UpdateStatusByEditionWhere(editionID uint, fromStatus, toStatus string) error {
	return r.db.Model(&models.Section{}).
		Where("edition_id = ? AND status = ?", editionID, fromStatus).
		Update("status", toStatus).Error
}

// Delete removes a section
func (r *sectionRepository) Delete(id uint) error {
	return r.db.Delete(&models.Section{}, id).Error
}

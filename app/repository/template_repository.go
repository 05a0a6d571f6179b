package repository

import (
	"gorm.io/gorm"

	"github.com/magforge/pressdesk/app/models"
)

// templateRepository implements the TemplateRepository interface
type templateRepository struct {
	db *gorm.DB
}

// NewTemplateRepository creates a new template repository instance
func NewTemplateRepository(db *gorm.DB) TemplateRepository {
	return &templateRepository{db: db}
}

// Create creates a new template together with its slots
func (r *templateRepository) Create(template *models.Template) error {
	return r.db.Create(template).Error
}

// GetByID retrieves a template without its slots
func (r *templateRepository) GetByID(id uint) (*models.Template, error) {
	var template models.Template
	if err := r.db.First(&template, id).Error; err != nil {
		return nil, err
	}
	return &template, nil
}

// GetByIDWithSlots retrieves a template with slots in layout order
func (r *templateRepository) GetByIDWithSlots(id uint) (*models.Template, error) {
	var template models.Template
	err := r.db.Preload("Slots", func(db *gorm.DB) *gorm.DB {
		return db.Order("sort_order ASC, id ASC")
	}).First(&template, id).Error
	if err != nil {
		return nil, err
	}
	return &template, nil
}

// ListByBrand retrieves templates of a brand, optionally only active ones
func (r *templateRepository) ListByBrand(brandID uint, activeOnly bool) ([]models.Template, error) {
	query := r.db.Where("brand_id = ?", brandID)
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	var templates []models.Template
	err := query.Preload("Slots", func(db *gorm.DB) *gorm.DB {
		return db.Order("sort_order ASC, id ASC")
	}).Order("created_at DESC").Find(&templates).Error
	if err != nil {
		return nil, err
	}
	return templates, nil
}

// Update updates template metadata without touching slots
func (r *templateRepository) Update(template *models.Template) error {
	return r.db.Omit("Slots").Save(template).Error
}

// ReplaceSlots swaps the full slot set of a template
func (r *templateRepository) ReplaceSlots(templateID uint, slots []models.TemplateSlot) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("template_id = ?", templateID).Delete(&models.TemplateSlot{}).Error; err != nil {
			return err
		}
		for i := range slots {
			slots[i].ID = 0
			slots[i].TemplateID = templateID
		}
		if len(slots) == 0 {
			return nil
		}
		return tx.Create(&slots).Error
	})
}

// SetActive toggles whether a template can be used for new editions
func (r *templateRepository) SetActive(id uint, active bool) error {
	return r.db.Model(&models.Template{}).Where("id = ?", id).Update("is_active", active).Error
}

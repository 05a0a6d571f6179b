package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/magforge/pressdesk/app/models"
)

// editionRepository implements the EditionRepository interface
type editionRepository struct {
	db *gorm.DB
}

// NewEditionRepository creates a new edition repository instance
func NewEditionRepository(db *gorm.DB) EditionRepository {
	return &editionRepository{db: db}
}

// Create creates a new edition in the database
func (r *editionRepository) Create(edition *models.Edition) error {
	return r.db.Create(edition).Error
}

// GetByID retrieves an edition with its brand and template
func (r *editionRepository) GetByID(id uint) (*models.Edition, error) {
	var edition models.Edition
	if err := r.db.Preload("Brand").Preload("Template").First(&edition, id).Error; err != nil {
		return nil, err
	}
	return &edition, nil
}

// Exists reports whether a brand already has an issue for the given
// year, month and language.
func (r *editionRepository) Exists(brandID uint, year, month int, language string) (bool, error) {
	var count int64
	err := r.db.Model(&models.Edition{}).
		Where("brand_id = ? AND year = ? AND month = ? AND language = ?", brandID, year, month, language).
		Count(&count).Error
	return count > 0, err
}

// Update updates an existing edition
func (r *editionRepository) Update(edition *models.Edition) error {
	return r.db.Save(edition).Error
}

// List retrieves a paginated, filtered list of editions
func (r *editionRepository) List(filter EditionFilter) ([]models.Edition, int64, error) {
	query := r.db.Model(&models.Edition{})
	if filter.BrandID != 0 {
		query = query.Where("brand_id = ?", filter.BrandID)
	}
	if filter.Year != 0 {
		query = query.Where("year = ?", filter.Year)
	}
	if filter.Month != 0 {
		query = query.Where("month = ?", filter.Month)
	}
	if filter.Language != "" {
		query = query.Where("language = ?", filter.Language)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var editions []models.Edition
	err := query.Preload("Brand").
		Order("year DESC, month DESC, id DESC").
		Offset(filter.Offset).
		Limit(filter.Limit).
		Find(&editions).Error
	if err != nil {
		return nil, 0, err
	}
	return editions, total, nil
}

// CountPublished counts published editions, optionally per brand and
// only those published after a cutoff.
func (r *editionRepository) CountPublished(brandID uint, since *time.Time) (int64, error) {
	query := r.db.Model(&models.Edition{}).Where("status = ?", models.EditionStatusPublished)
	if brandID != 0 {
		query = query.Where("brand_id = ?", brandID)
	}
	if since != nil {
		query = query.Where("published_at >= ?", *since)
	}
	var count int64
	err := query.Count(&count).Error
	return count, err
}

package repository

import (
	"gorm.io/gorm"

	"github.com/magforge/pressdesk/app/models"
)

// brandRepository implements the BrandRepository interface
type brandRepository struct {
	db *gorm.DB
}

// NewBrandRepository creates a new brand repository instance
func NewBrandRepository(db *gorm.DB) BrandRepository {
	return &brandRepository{db: db}
}

// Create creates a new brand in the database
func (r *brandRepository) Create(brand *models.Brand) error {
	return r.db.Create(brand).Error
}

// GetByID retrieves a brand with its images
func (r *brandRepository) GetByID(id uint) (*models.Brand, error) {
	var brand models.Brand
	if err := r.db.Preload("Images").First(&brand, id).Error; err != nil {
		return nil, err
	}
	return &brand, nil
}

// GetBySlug retrieves a brand by its URL slug
func (r *brandRepository) GetBySlug(slug string) (*models.Brand, error) {
	var brand models.Brand
	if err := r.db.Preload("Images").Where("slug = ?", slug).First(&brand).Error; err != nil {
		return nil, err
	}
	return &brand, nil
}

// Update updates an existing brand
func (r *brandRepository) Update(brand *models.Brand) error {
	return r.db.Save(brand).Error
}

// Archive marks a brand as archived and returns the updated row
func (r *brandRepository) Archive(id uint) (*models.Brand, error) {
	brand, err := r.GetByID(id)
	if err != nil {
		return nil, err
	}
	brand.Status = models.BrandStatusArchived
	if err := r.db.Model(brand).Update("status", models.BrandStatusArchived).Error; err != nil {
		return nil, err
	}
	return brand, nil
}

// List retrieves a paginated, filtered list of brands
func (r *brandRepository) List(filter BrandFilter) ([]models.Brand, int64, error) {
	query := r.db.Model(&models.Brand{})
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where("name LIKE ? OR slug LIKE ?", like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var brands []models.Brand
	err := query.Preload("Images").
		Order("created_at DESC").
		Offset(filter.Offset).
		Limit(filter.Limit).
		Find(&brands).Error
	if err != nil {
		return nil, 0, err
	}
	return brands, total, nil
}

// ReplaceImages swaps the full image set of a brand
func (r *brandRepository) ReplaceImages(brandID uint, images []models.BrandImage) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("brand_id = ?", brandID).Delete(&models.BrandImage{}).Error; err != nil {
			return err
		}
		for i := range images {
			images[i].ID = 0
			images[i].BrandID = brandID
		}
		if len(images) == 0 {
			return nil
		}
		return tx.Create(&images).Error
	})
}

// CountNotArchived returns the number of live brands
func (r *brandRepository) CountNotArchived() (int64, error) {
	var count int64
	err := r.db.Model(&models.Brand{}).Where("status <> ?", models.BrandStatusArchived).Count(&count).Error
	return count, err
}

// CountByStatus returns the number of brands in the given status
func (r *brandRepository) CountByStatus(status string) (int64, error) {
	var count int64
	err := r.db.Model(&models.Brand{}).Where("status = ?", status).Count(&count).Error
	return count, err
}

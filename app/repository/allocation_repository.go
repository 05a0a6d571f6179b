package repository

import (
	"gorm.io/gorm"

	"github.com/magforge/pressdesk/app/models"
)

// allocationRepository implements the AllocationRepository interface
type allocationRepository struct {
	db *gorm.DB
}

// NewAllocationRepository creates a new allocation repository instance
func NewAllocationRepository(db *gorm.DB) AllocationRepository {
	return &allocationRepository{db: db}
}

// Create stores a new author allocation
func (r *allocationRepository) Create(allocation *models.AuthorAllocation) error {
	return r.db.Create(allocation).Error
}

// GetByID retrieves an allocation by its ID
func (r *allocationRepository) GetByID(id uint) (*models.AuthorAllocation, error) {
	var allocation models.AuthorAllocation
	if err := r.db.First(&allocation, id).Error; err != nil {
		return nil, err
	}
	return &allocation, nil
}

// List retrieves allocations, optionally scoped to one edition
func (r *allocationRepository) List(editionID uint) ([]models.AuthorAllocation, error) {
	query := r.db.Model(&models.AuthorAllocation{})
	if editionID != 0 {
		query = query.Where("edition_id = ?", editionID)
	}
	var allocations []models.AuthorAllocation
	if err := query.Order("created_at DESC").Find(&allocations).Error; err != nil {
		return nil, err
	}
	return allocations, nil
}

// Revoke withdraws an allocation and returns the updated row
func (r *allocationRepository) Revoke(id uint) (*models.AuthorAllocation, error) {
	allocation, err := r.GetByID(id)
	if err != nil {
		return nil, err
	}
	allocation.Status = models.AllocationStatusRevoked
	if err := r.db.Model(allocation).Update("status", models.AllocationStatusRevoked).Error; err != nil {
		return nil, err
	}
	return allocation, nil
}

package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/magforge/pressdesk/app/models"
)

// UserFilter narrows admin user listings.
type UserFilter struct {
	Role    string
	Query   string
	BrandID uint
	Status  string
	Offset  int
	Limit   int
}

// UserRepository defines the interface for user-related database operations
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id uint) (*models.User, error)
	GetByIDWithRoles(id uint) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	GetByPhone(phone string) (*models.User, error)
	Update(user *models.User) error
	UpdateStatus(id uint, status string) error
	SetRoles(userID uint, roles []models.UserRole) error
	List(filter UserFilter) ([]models.User, int64, error)
	Count() (int64, error)
	CountByStatus(status string) (int64, error)
	TouchLastLogin(id uint) error
}

// SessionRepository defines the interface for refresh-session operations
type SessionRepository interface {
	Create(session *models.UserSession) error
	GetUsable(userID uint, refreshTokenHash string, now time.Time) (*models.UserSession, error)
	Revoke(id uint) error
	RevokeByUserAndHash(userID uint, refreshTokenHash string) error
}

// BrandFilter narrows brand listings.
type BrandFilter struct {
	Status string
	Search string
	Offset int
	Limit  int
}

// BrandRepository defines the interface for brand-related database operations
type BrandRepository interface {
	Create(brand *models.Brand) error
	GetByID(id uint) (*models.Brand, error)
	GetBySlug(slug string) (*models.Brand, error)
	Update(brand *models.Brand) error
	Archive(id uint) (*models.Brand, error)
	List(filter BrandFilter) ([]models.Brand, int64, error)
	ReplaceImages(brandID uint, images []models.BrandImage) error
	CountNotArchived() (int64, error)
	CountByStatus(status string) (int64, error)
}

// TemplateRepository defines the interface for template-related database operations
type TemplateRepository interface {
	Create(template *models.Template) error
	GetByID(id uint) (*models.Template, error)
	GetByIDWithSlots(id uint) (*models.Template, error)
	ListByBrand(brandID uint, activeOnly bool) ([]models.Template, error)
	Update(template *models.Template) error
	ReplaceSlots(templateID uint, slots []models.TemplateSlot) error
	SetActive(id uint, active bool) error
}

// EditionFilter narrows edition listings.
type EditionFilter struct {
	BrandID  uint
	Year     int
	Month    int
	Language string
	Status   string
	Offset   int
	Limit    int
}

// EditionRepository defines the interface for edition-related database operations
type EditionRepository interface {
	Create(edition *models.Edition) error
	GetByID(id uint) (*models.Edition, error)
	Exists(brandID uint, year, month int, language string) (bool, error)
	Update(edition *models.Edition) error
	List(filter EditionFilter) ([]models.Edition, int64, error)
	CountPublished(brandID uint, since *time.Time) (int64, error)
}

// SectionRepository defines the interface for section-related database operations
type SectionRepository interface {
	CreateMany(sections []models.Section) error
	GetByID(id uint) (*models.Section, error)
	GetByEditionAndSlot(editionID uint, slotKey string) (*models.Section, error)
	ListByEdition(editionID uint) ([]models.Section, error)
	ListPublishedByEdition(editionID uint) ([]models.Section, error)
	Update(section *models.Section) error
	UpdateStatusByEdition(editionID uint, toStatus string) error
	UpdateStatusByEditionWhere(editionID uint, fromStatus, toStatus string) error
	Delete(id uint) error
}

// AllocationRepository defines the interface for author-allocation operations
type AllocationRepository interface {
	Create(allocation *models.AuthorAllocation) error
	GetByID(id uint) (*models.AuthorAllocation, error)
	List(editionID uint) ([]models.AuthorAllocation, error)
	Revoke(id uint) (*models.AuthorAllocation, error)
}

// PlanRepository defines the interface for subscription-plan lookups
type PlanRepository interface {
	ListActiveByBrand(brandID uint) ([]models.SubscriptionPlan, error)
	ListAdmin(brandID uint, isActive *bool) ([]models.SubscriptionPlan, error)
	GetByID(id uint) (*models.SubscriptionPlan, error)
}

// SubscriptionFilter narrows admin subscription listings.
type SubscriptionFilter struct {
	BrandID uint
	Status  string
	Offset  int
	Limit   int
}

// SubscriptionRepository defines the interface for subscription operations
type SubscriptionRepository interface {
	Create(sub *models.Subscription) error
	GetByID(id uint) (*models.Subscription, error)
	ListByUser(userID uint, brandID uint) ([]models.Subscription, error)
	List(filter SubscriptionFilter) ([]models.Subscription, int64, error)
	Update(sub *models.Subscription) error
	Delete(id uint) error
	GetActive(userID, brandID uint) (*models.Subscription, error)
	HasCurrent(userID, brandID uint, now time.Time) (bool, error)
	ExpireActive(userID, brandID uint) error
	CountByStatus(status string) (int64, error)
}

// PaymentFilter narrows admin ledger listings.
type PaymentFilter struct {
	BrandID uint
	UserID  uint
	Status  string
	Offset  int
	Limit   int
}

// PaymentRepository defines the interface for ledger listings. Payment
// state transitions live in internal/pkg/payments, not here.
type PaymentRepository interface {
	List(filter PaymentFilter) ([]models.Payment, int64, error)
	GetByID(id uint) (*models.Payment, error)
	CountPaid(brandID uint, since *time.Time) (int64, error)
}

// Repositories struct holds all repository instances
type Repositories struct {
	User         UserRepository
	Session      SessionRepository
	Brand        BrandRepository
	Template     TemplateRepository
	Edition      EditionRepository
	Section      SectionRepository
	Allocation   AllocationRepository
	Plan         PlanRepository
	Subscription SubscriptionRepository
	Payment      PaymentRepository
}

// NewRepositories creates a new instance of all repositories
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		User:         NewUserRepository(db),
		Session:      NewSessionRepository(db),
		Brand:        NewBrandRepository(db),
		Template:     NewTemplateRepository(db),
		Edition:      NewEditionRepository(db),
		Section:      NewSectionRepository(db),
		Allocation:   NewAllocationRepository(db),
		Plan:         NewPlanRepository(db),
		Subscription: NewSubscriptionRepository(db),
		Payment:      NewPaymentRepository(db),
	}
}

package controllers

import (
	"errors"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/magforge/pressdesk/app/models"
	"github.com/magforge/pressdesk/app/repository"
	"github.com/magforge/pressdesk/internal/pkg/cache"
	"github.com/magforge/pressdesk/internal/pkg/usercontext"
)

type editionRequest struct {
	BrandID    uint   `json:"brand_id"`
	Year       int    `json:"year"`
	Month      int    `json:"month"`
	Language   string `json:"language"`
	TemplateID uint   `json:"template_id"`

	PublicationDate *time.Time `json:"publication_date"`
	Volume          string     `json:"volume"`
	EditionNo       string     `json:"edition_no"`
	CoverTitle      string     `json:"cover_title"`

	Masthead *models.EditionMasthead `json:"masthead"`

	CoverFrontURL string `json:"cover_front_url"`
	CoverBackURL  string `json:"cover_back_url"`
	PDFURL        string `json:"pdf_url"`
}

// HandleEditionList returns editions filtered by brand, issue and status.
func HandleEditionList(c *fiber.Ctx) error {
	page, offset, limit := parsePagination(c)
	editions, total, err := repository.GetGlobalRepositories().Edition.List(repository.EditionFilter{
		BrandID:  queryUint(c, "brand_id"),
		Year:     c.QueryInt("year", 0),
		Month:    c.QueryInt("month", 0),
		Language: c.Query("language"),
		Status:   c.Query("status"),
		Offset:   offset,
		Limit:    limit,
	})
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to list editions")
	}
	return c.JSON(paginated(editions, page, limit, total))
}

// HandleEditionGet returns one edition.
func HandleEditionGet(c *fiber.Ctx) error {
	edition, err := repository.GetGlobalRepositories().Edition.GetByID(paramID(c, "id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusNotFound, "not_found", "Edition not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load edition")
	}
	return c.JSON(fiber.Map{"edition": edition})
}

// HandleEditionCreate creates an issue and stamps its sections from
// the template layout. One issue per (brand, year, month, language).
func HandleEditionCreate(c *fiber.Ctx) error {
	var req editionRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid request body")
	}

	repos := repository.GetGlobalRepositories()
	brand, err := repos.Brand.GetByID(req.BrandID)
	if err != nil {
		return jsonError(c, fiber.StatusNotFound, "not_found", "Brand not found")
	}
	template, err := repos.Template.GetByIDWithSlots(req.TemplateID)
	if err != nil {
		return jsonError(c, fiber.StatusNotFound, "not_found", "Template not found")
	}
	if template.BrandID != brand.ID {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Template belongs to a different brand")
	}
	if !template.IsActive {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Template is not active")
	}

	exists, err := repos.Edition.Exists(req.BrandID, req.Year, req.Month, req.Language)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to create edition")
	}
	if exists {
		return jsonError(c, fiber.StatusConflict, "conflict", "Edition already exists for this issue")
	}

	userCtx := usercontext.GetUserContext(c)
	edition := &models.Edition{
		BrandID:         req.BrandID,
		Year:            req.Year,
		Month:           req.Month,
		Language:        req.Language,
		TemplateID:      template.ID,
		PublicationDate: req.PublicationDate,
		Volume:          req.Volume,
		EditionNo:       req.EditionNo,
		CoverTitle:      req.CoverTitle,
		CoverFrontURL:   req.CoverFrontURL,
		CoverBackURL:    req.CoverBackURL,
		PDFURL:          req.PDFURL,
		ManagedBy:       &userCtx.UserID,
		Status:          models.EditionStatusDraft,
	}
	if req.Masthead != nil {
		edition.Masthead = *req.Masthead
	}
	if err := edition.Validate(); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", err.Error())
	}
	if err := repos.Edition.Create(edition); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to create edition")
	}

	sections := sectionsFromSlots(edition, template.Slots, nil, models.SectionStatusEmpty)
	if err := repos.Section.CreateMany(sections); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to stamp sections")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"edition": edition, "sections": sections})
}

// HandleEditionUpdate patches issue metadata. The issue key and the
// publication status are not editable here.
func HandleEditionUpdate(c *fiber.Ctx) error {
	repos := repository.GetGlobalRepositories()
	edition, err := repos.Edition.GetByID(paramID(c, "id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusNotFound, "not_found", "Edition not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load edition")
	}

	var req editionRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid request body")
	}

	if req.PublicationDate != nil {
		edition.PublicationDate = req.PublicationDate
	}
	if req.Volume != "" {
		edition.Volume = req.Volume
	}
	if req.EditionNo != "" {
		edition.EditionNo = req.EditionNo
	}
	if req.CoverTitle != "" {
		edition.CoverTitle = req.CoverTitle
	}
	if req.Masthead != nil {
		edition.Masthead = *req.Masthead
	}
	if req.CoverFrontURL != "" {
		edition.CoverFrontURL = req.CoverFrontURL
	}
	if req.CoverBackURL != "" {
		edition.CoverBackURL = req.CoverBackURL
	}
	if req.PDFURL != "" {
		edition.PDFURL = req.PDFURL
	}

	edition.Brand = nil
	edition.Template = nil
	if err := repos.Edition.Update(edition); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to update edition")
	}
	return c.JSON(fiber.Map{"edition": edition})
}

// HandleEditionPublish makes an issue visible to readers. Every
// section must have cleared review; section statuses cascade to
// published and the reader feed cache is dropped.
func HandleEditionPublish(c *fiber.Ctx) error {
	repos := repository.GetGlobalRepositories()
	edition, err := repos.Edition.GetByID(paramID(c, "id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusNotFound, "not_found", "Edition not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load edition")
	}
	if edition.IsPublished() {
		return c.JSON(fiber.Map{"edition": edition, "message": "Edition already published"})
	}

	sections, err := repos.Section.ListByEdition(edition.ID)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load sections")
	}
	if len(sections) == 0 {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Edition has no sections")
	}
	if !models.ReadyForPublish(sections) {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "All sections must be approved before publishing")
	}

	now := time.Now()
	edition.Status = models.EditionStatusPublished
	edition.PublishedAt = &now
	edition.Brand = nil
	edition.Template = nil
	if err := repos.Edition.Update(edition); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to publish edition")
	}
	if err := repos.Section.UpdateStatusByEdition(edition.ID, models.SectionStatusPublished); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to publish sections")
	}

	invalidateReaderCache(edition.BrandID)
	return c.JSON(fiber.Map{"edition": edition, "message": "Edition published"})
}

// HandleEditionUnpublish pulls an issue back to draft. Published
// sections are demoted to approved so a later re-publish passes the
// gate unchanged.
func HandleEditionUnpublish(c *fiber.Ctx) error {
	repos := repository.GetGlobalRepositories()
	edition, err := repos.Edition.GetByID(paramID(c, "id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusNotFound, "not_found", "Edition not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load edition")
	}
	if !edition.IsPublished() {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Edition is not published")
	}

	edition.Status = models.EditionStatusDraft
	edition.PublishedAt = nil
	edition.Brand = nil
	edition.Template = nil
	if err := repos.Edition.Update(edition); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to unpublish edition")
	}
	if err := repos.Section.UpdateStatusByEditionWhere(edition.ID, models.SectionStatusPublished, models.SectionStatusApproved); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to demote sections")
	}

	invalidateReaderCache(edition.BrandID)
	return c.JSON(fiber.Map{"edition": edition, "message": "Edition unpublished"})
}

// HandleEditionGenerateSections stamps any template slots that have no
// section yet. Existing sections are untouched, so the operation is
// safe to repeat after a template gained slots.
func HandleEditionGenerateSections(c *fiber.Ctx) error {
	repos := repository.GetGlobalRepositories()
	edition, err := repos.Edition.GetByID(paramID(c, "id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusNotFound, "not_found", "Edition not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load edition")
	}

	template, err := repos.Template.GetByIDWithSlots(edition.TemplateID)
	if err != nil {
		return jsonError(c, fiber.StatusNotFound, "not_found", "Template not found")
	}
	existing, err := repos.Section.ListByEdition(edition.ID)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load sections")
	}

	taken := make(map[string]struct{}, len(existing))
	for _, s := range existing {
		taken[s.SlotKey] = struct{}{}
	}
	sections := sectionsFromSlots(edition, template.Slots, taken, models.SectionStatusDraft)
	if err := repos.Section.CreateMany(sections); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to generate sections")
	}

	return c.JSON(fiber.Map{"created": len(sections), "sections": sections})
}

// HandleEditionSections lists an edition's sections in slot order.
func HandleEditionSections(c *fiber.Ctx) error {
	editionID := paramID(c, "id")
	if _, err := repository.GetGlobalRepositories().Edition.GetByID(editionID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusNotFound, "not_found", "Edition not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load edition")
	}
	sections, err := repository.GetGlobalRepositories().Section.ListByEdition(editionID)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to list sections")
	}
	return c.JSON(fiber.Map{"sections": sections})
}

// sectionsFromSlots materializes sections for slots not present in
// taken, seeding content from the slot defaults.
func sectionsFromSlots(edition *models.Edition, slots []models.TemplateSlot, taken map[string]struct{}, status string) []models.Section {
	sections := make([]models.Section, 0, len(slots))
	for _, slot := range slots {
		if taken != nil {
			if _, ok := taken[slot.Key]; ok {
				continue
			}
		}
		sections = append(sections, models.Section{
			EditionID: edition.ID,
			BrandID:   edition.BrandID,
			SlotKey:   slot.Key,
			SlotLabel: slot.Label,
			SlotOrder: slot.SortOrder,
			Status:    status,
			Content: models.SectionContent{
				SectionType:     slot.DefaultSectionType,
				Title:           slot.DefaultTitle,
				Subtitle:        slot.DefaultSubtitle,
				Summary:         slot.DefaultSummary,
				Body:            slot.DefaultBody,
				AuthorPrintName: slot.DefaultAuthorName,
				SourceCredit:    slot.DefaultSourceCredit,
			},
		})
	}
	return sections
}

// invalidateReaderCache drops the cached reader feed for a brand.
// Cache errors only get logged; publishing must not fail on Redis.
func invalidateReaderCache(brandID uint) {
	if err := cache.DeleteByPattern("reader:feed:*"); err != nil {
		log.Printf("[Editions] reader cache invalidation failed for brand %d: %v", brandID, err)
	}
}

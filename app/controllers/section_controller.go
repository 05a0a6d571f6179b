package controllers

import (
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/magforge/pressdesk/app/models"
	"github.com/magforge/pressdesk/app/repository"
	"github.com/magforge/pressdesk/internal/pkg/usercontext"
)

// sectionContentRequest is a sparse patch: nil pointers leave the
// stored value alone, non-nil pointers overwrite it.
type sectionContentRequest struct {
	SectionType     *string          `json:"section_type"`
	Title           *string          `json:"title"`
	Subtitle        *string          `json:"subtitle"`
	AuthorPrintName *string          `json:"author_print_name"`
	SourceCredit    *string          `json:"source_credit"`
	Summary         *string          `json:"summary"`
	Body            *string          `json:"body"`
	PageNumber      *int             `json:"page_number"`
	BibleVerses     *json.RawMessage `json:"bible_verses"`
	Highlights      *json.RawMessage `json:"highlights"`
	Lists           *json.RawMessage `json:"lists"`
	Images          *json.RawMessage `json:"images"`
	Audio           *json.RawMessage `json:"audio"`
}

// HandleSectionGet returns one section.
func HandleSectionGet(c *fiber.Ctx) error {
	section, err := loadSection(c)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"section": section})
}

// HandleSectionUpdate patches section content. The status is recomputed
// as empty or draft from the content; sections already in review or
// beyond are locked against edits.
func HandleSectionUpdate(c *fiber.Ctx) error {
	section, err := loadSection(c)
	if err != nil {
		return err
	}
	if section.Status == models.SectionStatusApproved || section.Status == models.SectionStatusPublished {
		return jsonError(c, fiber.StatusConflict, "conflict", "Section is locked after approval")
	}

	var req sectionContentRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid request body")
	}
	if req.SectionType != nil && !models.IsValidSectionType(*req.SectionType) {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Unknown section type")
	}

	applyContentPatch(&section.Content, &req)
	if section.Status != models.SectionStatusInReview {
		section.Status = section.Content.StatusFromContent()
	}
	userCtx := usercontext.GetUserContext(c)
	section.UpdatedBy = &userCtx.UserID

	if err := repository.GetGlobalRepositories().Section.Update(section); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to update section")
	}
	return c.JSON(fiber.Map{"section": section})
}

// HandleSectionSubmit moves a drafted section into review. Sections
// without content cannot be submitted.
func HandleSectionSubmit(c *fiber.Ctx) error {
	section, err := loadSection(c)
	if err != nil {
		return err
	}
	if !section.Content.HasContent() {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Empty sections cannot be submitted for review")
	}
	if section.Status != models.SectionStatusDraft {
		return jsonError(c, fiber.StatusConflict, "conflict", "Only drafted sections can be submitted")
	}

	now := time.Now()
	section.Status = models.SectionStatusInReview
	section.Review.SubmittedAt = &now

	if err := repository.GetGlobalRepositories().Section.Update(section); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to submit section")
	}
	return c.JSON(fiber.Map{"section": section})
}

// HandleSectionApprove clears a section for publishing.
func HandleSectionApprove(c *fiber.Ctx) error {
	return reviewSection(c, models.SectionStatusApproved)
}

// HandleSectionReject sends a section back to draft with notes.
func HandleSectionReject(c *fiber.Ctx) error {
	return reviewSection(c, models.SectionStatusDraft)
}

func reviewSection(c *fiber.Ctx, toStatus string) error {
	section, err := loadSection(c)
	if err != nil {
		return err
	}
	if section.Status != models.SectionStatusInReview {
		return jsonError(c, fiber.StatusConflict, "conflict", "Section is not in review")
	}

	var req struct {
		Notes string `json:"notes"`
	}
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid request body")
		}
	}

	now := time.Now()
	userCtx := usercontext.GetUserContext(c)
	section.Status = toStatus
	section.Review.ReviewedBy = &userCtx.UserID
	section.Review.ReviewedAt = &now
	section.Review.ReviewerNotes = req.Notes

	if err := repository.GetGlobalRepositories().Section.Update(section); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to review section")
	}
	return c.JSON(fiber.Map{"section": section})
}

// HandleSectionCreate adds a one-off slot to an edition. Repeating the
// call for an existing (edition, slot_key) returns the existing row.
func HandleSectionCreate(c *fiber.Ctx) error {
	var req struct {
		SlotKey   string `json:"slot_key"`
		SlotLabel string `json:"slot_label"`
		SlotOrder int    `json:"slot_order"`
	}
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid request body")
	}
	req.SlotKey = strings.TrimSpace(req.SlotKey)
	if req.SlotKey == "" {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "slot_key is required")
	}

	repos := repository.GetGlobalRepositories()
	edition, err := repos.Edition.GetByID(paramID(c, "id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusNotFound, "not_found", "Edition not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load edition")
	}

	if existing, err := repos.Section.GetByEditionAndSlot(edition.ID, req.SlotKey); err == nil {
		return c.JSON(fiber.Map{"section": existing, "created": false})
	}

	userCtx := usercontext.GetUserContext(c)
	section := models.Section{
		EditionID: edition.ID,
		BrandID:   edition.BrandID,
		SlotKey:   req.SlotKey,
		SlotLabel: req.SlotLabel,
		SlotOrder: req.SlotOrder,
		Status:    models.SectionStatusEmpty,
		CreatedBy: &userCtx.UserID,
		Content:   models.SectionContent{SectionType: "other"},
	}
	if err := repos.Section.CreateMany([]models.Section{section}); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to create section")
	}

	created, err := repos.Section.GetByEditionAndSlot(edition.ID, req.SlotKey)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load section")
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"section": created, "created": true})
}

// HandleSectionDelete removes a section from an edition.
func HandleSectionDelete(c *fiber.Ctx) error {
	section, err := loadSection(c)
	if err != nil {
		return err
	}
	if section.Status == models.SectionStatusPublished {
		return jsonError(c, fiber.StatusConflict, "conflict", "Published sections cannot be deleted")
	}
	if err := repository.GetGlobalRepositories().Section.Delete(section.ID); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to delete section")
	}
	return c.JSON(fiber.Map{"message": "Section deleted"})
}

func loadSection(c *fiber.Ctx) (*models.Section, error) {
	section, err := repository.GetGlobalRepositories().Section.GetByID(paramID(c, "id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, jsonError(c, fiber.StatusNotFound, "not_found", "Section not found")
		}
		return nil, jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load section")
	}
	return section, nil
}

func applyContentPatch(content *models.SectionContent, req *sectionContentRequest) {
	if req.SectionType != nil {
		content.SectionType = *req.SectionType
	}
	if req.Title != nil {
		content.Title = *req.Title
	}
	if req.Subtitle != nil {
		content.Subtitle = *req.Subtitle
	}
	if req.AuthorPrintName != nil {
		content.AuthorPrintName = *req.AuthorPrintName
	}
	if req.SourceCredit != nil {
		content.SourceCredit = *req.SourceCredit
	}
	if req.Summary != nil {
		content.Summary = *req.Summary
	}
	if req.Body != nil {
		content.Body = *req.Body
	}
	if req.PageNumber != nil {
		content.PageNumber = *req.PageNumber
	}
	if req.BibleVerses != nil {
		content.BibleVerses = *req.BibleVerses
	}
	if req.Highlights != nil {
		content.Highlights = *req.Highlights
	}
	if req.Lists != nil {
		content.Lists = *req.Lists
	}
	if req.Images != nil {
		content.Images = *req.Images
	}
	if req.Audio != nil {
		content.Audio = *req.Audio
	}
}

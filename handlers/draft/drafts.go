package draft

import (
	"github.com/gofiber/fiber/v2"
	"github.com/opencoder/opencoder-api/model"
	"github.com/opencoder/opencoder-api/services"
	"github.com/opencoder/opencoder-api/utils/middleware"
	"github.com/opencoder/opencoder-api/utils/response"
	"gorm.io/gorm"
)

// CreateDraftRequest represents a manual draft creation request
type CreateDraftRequest struct {
	AssignmentID uint   `json:"assignment_id" validate:"required"`
	Content      string `json:"content"`
}

// UpdateDraftRequest represents a draft update request. Nil fields are left
// untouched.
type UpdateDraftRequest struct {
	Content  *string `json:"content"`
	Feedback *string `json:"feedback"`
}

// CreateDraft creates a hand-written draft for an assignment the user owns
func (h *DraftHandler) CreateDraft(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "")
	}

	var req CreateDraftRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.AssignmentID == 0 {
		return response.BadRequest(c, "Assignment id is required")
	}

	var assignment model.Assignment
	err := h.db.Where("id = ? AND user_id = ?", req.AssignmentID, user.ID).First(&assignment).Error
	if err == gorm.ErrRecordNotFound {
		return response.NotFound(c, "Assignment not found")
	}
	if err != nil {
		return response.InternalServerError(c, "")
	}

	d := model.Draft{
		UserID:       user.ID,
		AssignmentID: assignment.ID,
		Content:      req.Content,
		Status:       model.DraftStatusDraft,
	}
	if err := h.db.Create(&d).Error; err != nil {
		return response.InternalServerError(c, "Failed to create draft")
	}

	return response.Created(c, d)
}

// ListDrafts returns the user's drafts, optionally filtered by assignment
func (h *DraftHandler) ListDrafts(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "")
	}

	query := h.db.Where("user_id = ?", user.ID)
	if assignmentID := c.QueryInt("assignment_id"); assignmentID > 0 {
		query = query.Where("assignment_id = ?", assignmentID)
	}

	var drafts []model.Draft
	if err := query.Order("created_at DESC").Find(&drafts).Error; err != nil {
		return response.InternalServerError(c, "")
	}

	return response.Success(c, drafts)
}

// ListAssignmentDrafts returns the user's drafts for one assignment
func (h *DraftHandler) ListAssignmentDrafts(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "")
	}

	assignmentID, err := c.ParamsInt("id")
	if err != nil || assignmentID <= 0 {
		return response.BadRequest(c, "Invalid assignment id")
	}

	var assignment model.Assignment
	err = h.db.Where("id = ? AND user_id = ?", assignmentID, user.ID).First(&assignment).Error
	if err == gorm.ErrRecordNotFound {
		return response.NotFound(c, "Assignment not found")
	}
	if err != nil {
		return response.InternalServerError(c, "")
	}

	var drafts []model.Draft
	err = h.db.Where("user_id = ? AND assignment_id = ?", user.ID, assignment.ID).
		Order("created_at DESC").Find(&drafts).Error
	if err != nil {
		return response.InternalServerError(c, "")
	}

	return response.Success(c, drafts)
}

// GetDraft returns one draft
func (h *DraftHandler) GetDraft(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "")
	}

	draftID, err := c.ParamsInt("id")
	if err != nil || draftID <= 0 {
		return response.BadRequest(c, "Invalid draft id")
	}

	d, err := h.ownedDraft(uint(draftID), user.ID)
	if err == services.ErrNotFound {
		return response.NotFound(c, "Draft not found")
	}
	if err != nil {
		return response.InternalServerError(c, "")
	}

	return response.Success(c, d)
}

// UpdateDraft edits draft content or feedback. Submitted drafts are frozen
// and drafts mid-generation cannot be edited; editing an errored draft moves
// it back to draft state.
func (h *DraftHandler) UpdateDraft(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "")
	}

	draftID, err := c.ParamsInt("id")
	if err != nil || draftID <= 0 {
		return response.BadRequest(c, "Invalid draft id")
	}

	d, err := h.ownedDraft(uint(draftID), user.ID)
	if err == services.ErrNotFound {
		return response.NotFound(c, "Draft not found")
	}
	if err != nil {
		return response.InternalServerError(c, "")
	}

	if d.Status == model.DraftStatusSubmitted {
		return response.Conflict(c, "Submitted drafts cannot be edited")
	}
	if d.Status == model.DraftStatusGenerating {
		return response.Conflict(c, "Draft content is still being generated")
	}

	var req UpdateDraftRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	updates := map[string]interface{}{}
	if req.Content != nil {
		updates["content"] = *req.Content
		if d.Status == model.DraftStatusError {
			updates["status"] = model.DraftStatusDraft
		}
	}
	if req.Feedback != nil {
		updates["feedback"] = *req.Feedback
	}
	if len(updates) == 0 {
		return response.Success(c, d)
	}

	if err := h.db.Model(d).Updates(updates).Error; err != nil {
		return response.InternalServerError(c, "Failed to update draft")
	}
	if err := h.db.First(d, d.ID).Error; err != nil {
		return response.InternalServerError(c, "")
	}

	return response.Success(c, d)
}

// DeleteDraft soft-deletes a draft; submitted drafts stay as the record of
// what was turned in
func (h *DraftHandler) DeleteDraft(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "")
	}

	draftID, err := c.ParamsInt("id")
	if err != nil || draftID <= 0 {
		return response.BadRequest(c, "Invalid draft id")
	}

	d, err := h.ownedDraft(uint(draftID), user.ID)
	if err == services.ErrNotFound {
		return response.NotFound(c, "Draft not found")
	}
	if err != nil {
		return response.InternalServerError(c, "")
	}

	if d.Status == model.DraftStatusSubmitted {
		return response.Conflict(c, "Submitted drafts cannot be deleted")
	}

	if err := h.db.Delete(d).Error; err != nil {
		return response.InternalServerError(c, "Failed to delete draft")
	}

	return response.SuccessWithMessage(c, "Draft deleted", nil)
}

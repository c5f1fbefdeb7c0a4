package draft

import (
	"github.com/opencoder/opencoder-api/model"
	"github.com/opencoder/opencoder-api/services"
	googlesvc "github.com/opencoder/opencoder-api/services/google"
	"gorm.io/gorm"
)

// DraftHandler serves draft CRUD plus the generate, export and submit flows
type DraftHandler struct {
	db         *gorm.DB
	generation *services.GenerationService
	submission *services.SubmissionService
	pdf        *services.PDFGenerator
	googleAuth *googlesvc.AuthService
}

// NewDraftHandler creates a new draft handler
func NewDraftHandler(db *gorm.DB, generation *services.GenerationService, submission *services.SubmissionService, pdf *services.PDFGenerator, googleAuth *googlesvc.AuthService) *DraftHandler {
	return &DraftHandler{
		db:         db,
		generation: generation,
		submission: submission,
		pdf:        pdf,
		googleAuth: googleAuth,
	}
}

// ownedDraft loads a draft scoped to the user
func (h *DraftHandler) ownedDraft(draftID, userID uint) (*model.Draft, error) {
	var d model.Draft
	err := h.db.Where("id = ? AND user_id = ?", draftID, userID).First(&d).Error
	if err == gorm.ErrRecordNotFound {
		return nil, services.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

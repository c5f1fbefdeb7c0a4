package services

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/opencoder/opencoder-api/model"
	"github.com/opencoder/opencoder-api/utils/pdfvalidation"
	"gorm.io/gorm"
)

// SubmissionService turns a local draft into a turned-in Classroom
// submission: render to PDF, upload to Drive, attach and turn in. All
// preconditions are checked before any remote call; there are no retries, a
// failed attempt leaves the draft untouched and the user resubmits.
type SubmissionService struct {
	db         *gorm.DB
	pdf        *PDFGenerator
	folderName string
}

// NewSubmissionService creates a new submission service
func NewSubmissionService(db *gorm.DB, pdf *PDFGenerator, folderName string) *SubmissionService {
	return &SubmissionService{db: db, pdf: pdf, folderName: folderName}
}

// Submit performs the full turn-in flow for a draft. connect is called only
// after the local preconditions pass, so users without a usable Google
// credential get the auth error before anything is rendered or uploaded.
func (s *SubmissionService) Submit(user *model.User, draftID uint, connect func() (FileClient, Submitter, error)) (*model.Draft, error) {
	var draft model.Draft
	err := s.db.Where("id = ? AND user_id = ?", draftID, user.ID).First(&draft).Error
	if err == gorm.ErrRecordNotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if draft.Status == model.DraftStatusSubmitted {
		return nil, ErrAlreadySubmitted
	}
	if draft.Status == model.DraftStatusGenerating {
		return nil, ErrDraftGenerating
	}

	var assignment model.Assignment
	err = s.db.Where("id = ? AND user_id = ?", draft.AssignmentID, user.ID).First(&assignment).Error
	if err == gorm.ErrRecordNotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var course model.Course
	err = s.db.Where("id = ? AND user_id = ?", assignment.CourseID, user.ID).First(&course).Error
	if err == gorm.ErrRecordNotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	files, submitter, err := connect()
	if err != nil {
		return nil, err
	}

	author := user.FullName
	if author == "" {
		author = user.Email
	}
	pdfPath, err := s.pdf.Render(PDFMeta{
		Title:  assignment.Title,
		Author: author,
		Course: course.Name,
	}, draft.Content)
	if err != nil {
		return nil, fmt.Errorf("failed to render submission pdf: %w", err)
	}
	defer os.Remove(pdfPath)

	check, err := pdfvalidation.ValidatePDFFile(pdfPath)
	if err != nil {
		return nil, fmt.Errorf("failed to validate submission pdf: %w", err)
	}
	if !check.Valid {
		return nil, fmt.Errorf("rendered submission pdf rejected: %s", check.Error)
	}

	// A missing folder degrades to the Drive root rather than blocking the
	// submission.
	folderID, err := files.FindOrCreateFolder(s.folderName)
	if err != nil {
		log.Printf("submission: folder %q unavailable, uploading to root: %v", s.folderName, err)
		folderID = ""
	}

	fileName := fmt.Sprintf("%s - %s.pdf", assignment.Title, author)
	uploaded, err := files.Upload(pdfPath, fileName, "application/pdf", folderID)
	if err != nil {
		return nil, fmt.Errorf("failed to upload submission: %w", err)
	}
	if uploaded == nil || uploaded.ID == "" {
		return nil, ErrUploadFailed
	}

	// The three Classroom calls form one logical turn-in; any failure aborts
	// without touching local state.
	submissionID, err := submitter.CreateSubmission(course.GoogleCourseID, assignment.GoogleAssignmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to submit to classroom: %w", err)
	}
	if err := submitter.AttachDriveFile(course.GoogleCourseID, assignment.GoogleAssignmentID, submissionID, uploaded.ID); err != nil {
		return nil, fmt.Errorf("failed to submit to classroom: %w", err)
	}
	if err := submitter.TurnIn(course.GoogleCourseID, assignment.GoogleAssignmentID, submissionID); err != nil {
		return nil, fmt.Errorf("failed to submit to classroom: %w", err)
	}

	now := time.Now()
	res := s.db.Model(&model.Draft{}).
		Where("id = ? AND status <> ?", draft.ID, model.DraftStatusSubmitted).
		Updates(map[string]interface{}{
			"status":          model.DraftStatusSubmitted,
			"submission_date": &now,
		})
	if res.Error != nil {
		return nil, res.Error
	}

	draft.Status = model.DraftStatusSubmitted
	draft.SubmissionDate = &now
	return &draft, nil
}

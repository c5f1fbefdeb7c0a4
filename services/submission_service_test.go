package services

import (
	"errors"
	"os"
	"testing"

	"github.com/opencoder/opencoder-api/model"
	googlesvc "github.com/opencoder/opencoder-api/services/google"
	"gorm.io/gorm"
)

type recordingFiles struct {
	uploadResult *googlesvc.DriveFile
	uploadErr    error
	folderErr    error
	uploadedPath string
}

func (r *recordingFiles) Download(fileID string) ([]byte, error) {
	return nil, errors.New("not implemented")
}

func (r *recordingFiles) Upload(localPath, name, mimeType, folderID string) (*googlesvc.DriveFile, error) {
	r.uploadedPath = localPath
	return r.uploadResult, r.uploadErr
}

func (r *recordingFiles) FindOrCreateFolder(name string) (string, error) {
	if r.folderErr != nil {
		return "", r.folderErr
	}
	return "folder-1", nil
}

type recordingSubmitter struct {
	createCalls int
	attachCalls int
	turnInCalls int
	createErr   error
	attachErr   error
	turnInErr   error
}

func (r *recordingSubmitter) CreateSubmission(courseID, courseWorkID string) (string, error) {
	r.createCalls++
	if r.createErr != nil {
		return "", r.createErr
	}
	return "sub-1", nil
}

func (r *recordingSubmitter) AttachDriveFile(courseID, courseWorkID, submissionID, driveFileID string) error {
	r.attachCalls++
	return r.attachErr
}

func (r *recordingSubmitter) TurnIn(courseID, courseWorkID, submissionID string) error {
	r.turnInCalls++
	return r.turnInErr
}

func submissionFixture(t *testing.T, db *gorm.DB, user *model.User, status string) *model.Draft {
	t.Helper()

	course := model.Course{GoogleCourseID: "c-1", UserID: user.ID, Name: "Algorithms"}
	if err := db.Create(&course).Error; err != nil {
		t.Fatalf("creating course: %v", err)
	}
	assignment := model.Assignment{
		GoogleAssignmentID: "cw-1",
		CourseID:           course.ID,
		UserID:             user.ID,
		Title:              "Essay",
	}
	if err := db.Create(&assignment).Error; err != nil {
		t.Fatalf("creating assignment: %v", err)
	}
	draft := model.Draft{
		UserID:       user.ID,
		AssignmentID: assignment.ID,
		Content:      "# Essay\n\nSome content.",
		Status:       status,
	}
	if err := db.Create(&draft).Error; err != nil {
		t.Fatalf("creating draft: %v", err)
	}
	return &draft
}

func TestSubmitSuccess(t *testing.T) {
	db := newTestDB(t)
	user := newTestUser(t, db)
	draft := submissionFixture(t, db, user, model.DraftStatusDraft)

	files := &recordingFiles{uploadResult: &googlesvc.DriveFile{ID: "file-1", Name: "essay.pdf"}}
	submitter := &recordingSubmitter{}
	svc := NewSubmissionService(db, NewPDFGenerator(), "Submissions")

	out, err := svc.Submit(user, draft.ID, func() (FileClient, Submitter, error) {
		return files, submitter, nil
	})
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if out.Status != model.DraftStatusSubmitted || out.SubmissionDate == nil {
		t.Fatalf("expected submitted draft with date, got %+v", out)
	}
	if submitter.createCalls != 1 || submitter.attachCalls != 1 || submitter.turnInCalls != 1 {
		t.Fatalf("expected one call each, got %+v", submitter)
	}

	var stored model.Draft
	db.First(&stored, draft.ID)
	if stored.Status != model.DraftStatusSubmitted {
		t.Fatalf("expected stored status submitted, got %q", stored.Status)
	}

	// Temp PDF is always removed
	if files.uploadedPath == "" {
		t.Fatal("expected an uploaded path")
	}
	if _, err := os.Stat(files.uploadedPath); !os.IsNotExist(err) {
		t.Fatalf("expected temp pdf removed, stat err: %v", err)
	}
}

func TestSubmitMissingUploadIDAborts(t *testing.T) {
	db := newTestDB(t)
	user := newTestUser(t, db)
	draft := submissionFixture(t, db, user, model.DraftStatusDraft)

	files := &recordingFiles{uploadResult: &googlesvc.DriveFile{ID: ""}}
	submitter := &recordingSubmitter{}
	svc := NewSubmissionService(db, NewPDFGenerator(), "Submissions")

	_, err := svc.Submit(user, draft.ID, func() (FileClient, Submitter, error) {
		return files, submitter, nil
	})
	if !errors.Is(err, ErrUploadFailed) {
		t.Fatalf("expected ErrUploadFailed, got %v", err)
	}
	if submitter.createCalls != 0 {
		t.Fatal("no classroom calls expected after failed upload")
	}

	var stored model.Draft
	db.First(&stored, draft.ID)
	if stored.Status != model.DraftStatusDraft {
		t.Fatalf("status must be unchanged, got %q", stored.Status)
	}
}

func TestSubmitTurnInFailureLeavesDraftUntouched(t *testing.T) {
	db := newTestDB(t)
	user := newTestUser(t, db)
	draft := submissionFixture(t, db, user, model.DraftStatusDraft)

	files := &recordingFiles{uploadResult: &googlesvc.DriveFile{ID: "file-1"}}
	submitter := &recordingSubmitter{turnInErr: errors.New("turn in rejected")}
	svc := NewSubmissionService(db, NewPDFGenerator(), "Submissions")

	_, err := svc.Submit(user, draft.ID, func() (FileClient, Submitter, error) {
		return files, submitter, nil
	})
	if err == nil {
		t.Fatal("expected error from turn in")
	}

	var stored model.Draft
	db.First(&stored, draft.ID)
	if stored.Status != model.DraftStatusDraft || stored.SubmissionDate != nil {
		t.Fatalf("draft must be untouched after failure, got %+v", stored)
	}
	if _, err := os.Stat(files.uploadedPath); !os.IsNotExist(err) {
		t.Fatalf("expected temp pdf removed, stat err: %v", err)
	}
}

func TestSubmitAlreadySubmitted(t *testing.T) {
	db := newTestDB(t)
	user := newTestUser(t, db)
	draft := submissionFixture(t, db, user, model.DraftStatusSubmitted)

	svc := NewSubmissionService(db, NewPDFGenerator(), "Submissions")

	connectCalled := false
	_, err := svc.Submit(user, draft.ID, func() (FileClient, Submitter, error) {
		connectCalled = true
		return nil, nil, nil
	})
	if !errors.Is(err, ErrAlreadySubmitted) {
		t.Fatalf("expected ErrAlreadySubmitted, got %v", err)
	}
	if connectCalled {
		t.Fatal("connect must not run when preconditions fail")
	}
}

func TestSubmitAuthErrorBeforeRender(t *testing.T) {
	db := newTestDB(t)
	user := newTestUser(t, db)
	draft := submissionFixture(t, db, user, model.DraftStatusDraft)

	svc := NewSubmissionService(db, NewPDFGenerator(), "Submissions")

	_, err := svc.Submit(user, draft.ID, func() (FileClient, Submitter, error) {
		return nil, nil, googlesvc.ErrAuthRequired
	})
	if !errors.Is(err, googlesvc.ErrAuthRequired) {
		t.Fatalf("expected ErrAuthRequired, got %v", err)
	}
}

func TestSubmitFolderFailureDegradesToRoot(t *testing.T) {
	db := newTestDB(t)
	user := newTestUser(t, db)
	draft := submissionFixture(t, db, user, model.DraftStatusDraft)

	files := &recordingFiles{
		uploadResult: &googlesvc.DriveFile{ID: "file-1"},
		folderErr:    errors.New("folder query failed"),
	}
	submitter := &recordingSubmitter{}
	svc := NewSubmissionService(db, NewPDFGenerator(), "Submissions")

	out, err := svc.Submit(user, draft.ID, func() (FileClient, Submitter, error) {
		return files, submitter, nil
	})
	if err != nil {
		t.Fatalf("submit should survive folder failure: %v", err)
	}
	if out.Status != model.DraftStatusSubmitted {
		t.Fatalf("expected submitted, got %q", out.Status)
	}
}

package services

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/opencoder/opencoder-api/model"
	"gorm.io/gorm"
)

var errTest = errors.New("model unavailable")

func generationFixture(t *testing.T, db *gorm.DB, user *model.User) *model.Assignment {
	t.Helper()

	course := model.Course{GoogleCourseID: "c-1", UserID: user.ID, Name: "Algorithms"}
	if err := db.Create(&course).Error; err != nil {
		t.Fatalf("creating course: %v", err)
	}
	assignment := model.Assignment{
		GoogleAssignmentID: "cw-1",
		CourseID:           course.ID,
		UserID:             user.ID,
		Title:              "Essay on sorting",
		Description:        "Write 500 words about quicksort.",
	}
	if err := db.Create(&assignment).Error; err != nil {
		t.Fatalf("creating assignment: %v", err)
	}
	return &assignment
}

func newTestGenerationService(db *gorm.DB) *GenerationService {
	generator := NewAIGenerator("test-model", 0.7, NewNLPProcessor())
	return NewGenerationService(db, generator)
}

func TestStartGenerationCreatesPlaceholder(t *testing.T) {
	db := newTestDB(t)
	user := newTestUser(t, db)
	assignment := generationFixture(t, db, user)
	svc := newTestGenerationService(db)

	draft, task, err := svc.StartGeneration(user, assignment.ID, GenerationParams{})
	if err != nil {
		t.Fatalf("start generation failed: %v", err)
	}
	if draft.Content != PlaceholderContent || draft.Status != model.DraftStatusGenerating {
		t.Fatalf("unexpected placeholder draft: %+v", draft)
	}
	if task.Status != model.TaskStatusRunning || task.DraftID != draft.ID {
		t.Fatalf("unexpected task: %+v", task)
	}

	// The worker runs async; wait for the task to finish
	deadline := time.Now().Add(5 * time.Second)
	for {
		var stored model.GenerationTask
		if err := db.First(&stored, "id = ?", task.ID).Error; err != nil {
			t.Fatalf("loading task: %v", err)
		}
		if stored.Status != model.TaskStatusRunning {
			if stored.Status != model.TaskStatusCompleted {
				t.Fatalf("expected completed task, got %+v", stored)
			}
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("generation did not finish in time")
		}
		time.Sleep(10 * time.Millisecond)
	}

	var updated model.Draft
	db.First(&updated, draft.ID)
	if updated.Status != model.DraftStatusDraft {
		t.Fatalf("expected draft status after generation, got %q", updated.Status)
	}
	if updated.Content == PlaceholderContent || updated.Content == "" {
		t.Fatalf("expected generated content, got %q", updated.Content)
	}
}

func TestStartGenerationUnknownAssignment(t *testing.T) {
	db := newTestDB(t)
	user := newTestUser(t, db)
	svc := newTestGenerationService(db)

	_, _, err := svc.StartGeneration(user, 9999, GenerationParams{})
	if err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGenerationDoesNotClobberEditedDraft(t *testing.T) {
	db := newTestDB(t)
	user := newTestUser(t, db)
	assignment := generationFixture(t, db, user)
	svc := newTestGenerationService(db)

	// Simulate a stale task: the draft already left the generating state
	draft := model.Draft{
		UserID:       user.ID,
		AssignmentID: assignment.ID,
		Content:      "user edited content",
		Status:       model.DraftStatusDraft,
	}
	if err := db.Create(&draft).Error; err != nil {
		t.Fatalf("creating draft: %v", err)
	}
	task := model.GenerationTask{
		ID:      uuid.NewString(),
		DraftID: draft.ID,
		UserID:  user.ID,
		Status:  model.TaskStatusRunning,
	}
	if err := db.Create(&task).Error; err != nil {
		t.Fatalf("creating task: %v", err)
	}

	svc.run(task.ID, draft.ID, assignment, GenerationParams{})

	var stored model.Draft
	db.First(&stored, draft.ID)
	if stored.Content != "user edited content" {
		t.Fatalf("stale task must not overwrite edits, got %q", stored.Content)
	}

	var storedTask model.GenerationTask
	db.First(&storedTask, "id = ?", task.ID)
	if storedTask.Status != model.TaskStatusCompleted {
		t.Fatalf("task should still complete, got %q", storedTask.Status)
	}
}

func TestFinishWithErrorMarksDraftAndTask(t *testing.T) {
	db := newTestDB(t)
	user := newTestUser(t, db)
	assignment := generationFixture(t, db, user)
	svc := newTestGenerationService(db)

	draft := model.Draft{
		UserID:       user.ID,
		AssignmentID: assignment.ID,
		Content:      PlaceholderContent,
		Status:       model.DraftStatusGenerating,
	}
	db.Create(&draft)
	task := model.GenerationTask{
		ID:      uuid.NewString(),
		DraftID: draft.ID,
		UserID:  user.ID,
		Status:  model.TaskStatusRunning,
	}
	db.Create(&task)

	svc.finishWithError(task.ID, draft.ID, errTest)

	var stored model.Draft
	db.First(&stored, draft.ID)
	if stored.Status != model.DraftStatusError || stored.Feedback != errTest.Error() {
		t.Fatalf("expected errored draft with feedback, got %+v", stored)
	}
	if stored.Content != "Error generating content: "+errTest.Error() {
		t.Fatalf("error must replace the draft content, got %q", stored.Content)
	}

	var storedTask model.GenerationTask
	db.First(&storedTask, "id = ?", task.ID)
	if storedTask.Status != model.TaskStatusFailed || storedTask.ErrorMsg != errTest.Error() {
		t.Fatalf("expected failed task with message, got %+v", storedTask)
	}
	if storedTask.CompletedAt == nil {
		t.Fatal("expected completion timestamp")
	}
}

func TestGetTaskScopedToUser(t *testing.T) {
	db := newTestDB(t)
	user := newTestUser(t, db)
	assignment := generationFixture(t, db, user)
	svc := newTestGenerationService(db)

	draft := model.Draft{UserID: user.ID, AssignmentID: assignment.ID, Status: model.DraftStatusDraft}
	db.Create(&draft)
	task := model.GenerationTask{ID: uuid.NewString(), DraftID: draft.ID, UserID: user.ID, Status: model.TaskStatusCompleted}
	db.Create(&task)

	got, err := svc.GetTask(user.ID, task.ID)
	if err != nil || got.ID != task.ID {
		t.Fatalf("expected task, got %v / %v", got, err)
	}

	if _, err := svc.GetTask(user.ID+1, task.ID); err != ErrNotFound {
		t.Fatalf("foreign task must be not found, got %v", err)
	}
}

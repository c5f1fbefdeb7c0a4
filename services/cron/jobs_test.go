package cron

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/opencoder/opencoder-api/model"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestManager(t *testing.T) (*CronManager, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("opening test db: %v", err)
	}
	err = db.AutoMigrate(&model.Draft{}, &model.GenerationTask{}, &model.CronJobLog{})
	if err != nil {
		t.Fatalf("migrating: %v", err)
	}
	return NewCronManager(db), db
}

func staleTask(t *testing.T, db *gorm.DB, draftStatus string, age time.Duration) (model.Draft, model.GenerationTask) {
	t.Helper()

	draft := model.Draft{
		UserID:       1,
		AssignmentID: 1,
		Content:      "Generating content...",
		Status:       draftStatus,
	}
	if err := db.Create(&draft).Error; err != nil {
		t.Fatalf("creating draft: %v", err)
	}
	task := model.GenerationTask{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().Add(-age),
		DraftID:   draft.ID,
		UserID:    1,
		Status:    model.TaskStatusRunning,
	}
	if err := db.Create(&task).Error; err != nil {
		t.Fatalf("creating task: %v", err)
	}
	return draft, task
}

func TestSweepStaleGenerations(t *testing.T) {
	m, db := newTestManager(t)

	staleDraft, stale := staleTask(t, db, model.DraftStatusGenerating, time.Hour)
	freshDraft, fresh := staleTask(t, db, model.DraftStatusGenerating, time.Minute)

	m.SweepStaleGenerations()

	var task model.GenerationTask
	db.First(&task, "id = ?", stale.ID)
	if task.Status != model.TaskStatusFailed || task.ErrorMsg != "generation timed out" {
		t.Fatalf("stale task should be failed, got %+v", task)
	}
	if task.CompletedAt == nil {
		t.Fatal("expected completion timestamp on swept task")
	}

	var d model.Draft
	db.First(&d, staleDraft.ID)
	if d.Status != model.DraftStatusError {
		t.Fatalf("stale draft should be errored, got %q", d.Status)
	}
	if d.Content != "Error generating content: generation timed out" {
		t.Fatalf("error must replace the draft content, got %q", d.Content)
	}

	// Fresh structs: reusing the ones above would add their primary keys to
	// the WHERE clause and silently return the stale rows' values.
	var freshTask model.GenerationTask
	db.First(&freshTask, "id = ?", fresh.ID)
	if freshTask.Status != model.TaskStatusRunning {
		t.Fatalf("fresh task must stay running, got %q", freshTask.Status)
	}
	var freshD model.Draft
	db.First(&freshD, freshDraft.ID)
	if freshD.Status != model.DraftStatusGenerating {
		t.Fatalf("fresh draft must stay generating, got %q", freshD.Status)
	}
}

func TestSweepLeavesEditedDraftAlone(t *testing.T) {
	m, db := newTestManager(t)

	// The draft already left the generating state before the sweep ran
	draft, task := staleTask(t, db, model.DraftStatusDraft, time.Hour)
	db.Model(&model.Draft{}).Where("id = ?", draft.ID).
		Update("content", "user edited content")

	m.SweepStaleGenerations()

	var swept model.GenerationTask
	db.First(&swept, "id = ?", task.ID)
	if swept.Status != model.TaskStatusFailed {
		t.Fatalf("task should still be failed, got %q", swept.Status)
	}

	var d model.Draft
	db.First(&d, draft.ID)
	if d.Status != model.DraftStatusDraft || d.Content != "user edited content" {
		t.Fatalf("edited draft must be untouched, got %+v", d)
	}
}

func TestCleanupOldData(t *testing.T) {
	m, db := newTestManager(t)

	old := model.GenerationTask{ID: uuid.NewString(), DraftID: 1, UserID: 1, Status: model.TaskStatusCompleted}
	db.Create(&old)
	past := time.Now().AddDate(0, 0, -40)
	db.Model(&model.GenerationTask{}).Where("id = ?", old.ID).
		Update("completed_at", &past)

	recent := model.GenerationTask{ID: uuid.NewString(), DraftID: 2, UserID: 1, Status: model.TaskStatusCompleted}
	db.Create(&recent)
	now := time.Now()
	db.Model(&model.GenerationTask{}).Where("id = ?", recent.ID).
		Update("completed_at", &now)

	m.CleanupOldData()

	var count int64
	db.Model(&model.GenerationTask{}).Count(&count)
	if count != 1 {
		t.Fatalf("expected only the recent task to survive, got %d", count)
	}
	var kept model.GenerationTask
	if err := db.First(&kept, "id = ?", recent.ID).Error; err != nil {
		t.Fatalf("recent task should survive cleanup: %v", err)
	}
}

package services

import (
	"errors"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/opencoder/opencoder-api/model"
	googlesvc "github.com/opencoder/opencoder-api/services/google"
	"google.golang.org/api/classroom/v1"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	err = db.AutoMigrate(
		&model.User{},
		&model.Course{},
		&model.Assignment{},
		&model.Material{},
		&model.Draft{},
		&model.GenerationTask{},
		&model.CronJobLog{},
	)
	if err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

func newTestUser(t *testing.T, db *gorm.DB) *model.User {
	t.Helper()

	user := &model.User{
		Email:    "student@example.com",
		FullName: "Test Student",
		IsActive: true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

type fakeDirectory struct {
	courses       []*classroom.Course
	courseWork    []*classroom.CourseWork
	announcements []*classroom.Announcement
	err           error
}

func (f *fakeDirectory) ListCourses(pageSize int64) ([]*classroom.Course, error) {
	return f.courses, f.err
}

func (f *fakeDirectory) ListCourseWork(courseID string, pageSize int64) ([]*classroom.CourseWork, error) {
	return f.courseWork, f.err
}

func (f *fakeDirectory) ListAnnouncements(courseID string, pageSize int64) ([]*classroom.Announcement, error) {
	return f.announcements, f.err
}

type fakeFiles struct {
	contents    map[string][]byte
	downloadErr error
}

func (f *fakeFiles) Download(fileID string) ([]byte, error) {
	if f.downloadErr != nil {
		return nil, f.downloadErr
	}
	data, ok := f.contents[fileID]
	if !ok {
		return nil, errors.New("no such file")
	}
	return data, nil
}

func (f *fakeFiles) Upload(localPath, name, mimeType, folderID string) (*googlesvc.DriveFile, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeFiles) FindOrCreateFolder(name string) (string, error) {
	return "", errors.New("not implemented")
}

func TestSyncCoursesIdempotent(t *testing.T) {
	db := newTestDB(t)
	user := newTestUser(t, db)
	svc := NewSyncService(db)

	directory := &fakeDirectory{courses: []*classroom.Course{
		{Id: "c-1", Name: "Algorithms", Section: "A"},
		{Id: "c-2", Name: "Databases"},
	}}

	first, err := svc.SyncCourses(user, directory)
	if err != nil {
		t.Fatalf("first sync failed: %v", err)
	}
	if len(first) != 2 {
		t.Fatalf("expected 2 courses, got %d", len(first))
	}

	second, err := svc.SyncCourses(user, directory)
	if err != nil {
		t.Fatalf("second sync failed: %v", err)
	}
	if len(second) != 2 {
		t.Fatalf("expected 2 courses after resync, got %d", len(second))
	}

	var count int64
	db.Model(&model.Course{}).Count(&count)
	if count != 2 {
		t.Fatalf("expected 2 rows in courses, got %d", count)
	}
}

func TestSyncCoursesUpdatesChangedName(t *testing.T) {
	db := newTestDB(t)
	user := newTestUser(t, db)
	svc := NewSyncService(db)

	directory := &fakeDirectory{courses: []*classroom.Course{{Id: "c-1", Name: "Algorithms"}}}
	if _, err := svc.SyncCourses(user, directory); err != nil {
		t.Fatalf("sync failed: %v", err)
	}

	directory.courses[0].Name = "Advanced Algorithms"
	if _, err := svc.SyncCourses(user, directory); err != nil {
		t.Fatalf("resync failed: %v", err)
	}

	var course model.Course
	if err := db.Where("google_course_id = ?", "c-1").First(&course).Error; err != nil {
		t.Fatalf("loading course: %v", err)
	}
	if course.Name != "Advanced Algorithms" {
		t.Fatalf("expected updated name, got %q", course.Name)
	}
}

func TestSyncCoursesKeepsNameOnBlankRemote(t *testing.T) {
	db := newTestDB(t)
	user := newTestUser(t, db)
	svc := NewSyncService(db)

	directory := &fakeDirectory{courses: []*classroom.Course{{Id: "c-1", Name: "Algorithms"}}}
	if _, err := svc.SyncCourses(user, directory); err != nil {
		t.Fatalf("sync failed: %v", err)
	}

	directory.courses[0].Name = ""
	if _, err := svc.SyncCourses(user, directory); err != nil {
		t.Fatalf("resync failed: %v", err)
	}

	var course model.Course
	db.Where("google_course_id = ?", "c-1").First(&course)
	if course.Name != "Algorithms" {
		t.Fatalf("blank remote name should not clobber local, got %q", course.Name)
	}
}

func TestComposeDueDate(t *testing.T) {
	due := composeDueDate(
		&classroom.Date{Year: 2026, Month: 9, Day: 15},
		&classroom.TimeOfDay{Hours: 23, Minutes: 59},
	)
	if due == nil {
		t.Fatal("expected a due date")
	}
	want := time.Date(2026, time.September, 15, 23, 59, 0, 0, time.UTC)
	if !due.Equal(want) {
		t.Fatalf("expected %v, got %v", want, *due)
	}

	if composeDueDate(&classroom.Date{Year: 2026, Month: 9, Day: 15}, nil) != nil {
		t.Fatal("missing time should yield no due date")
	}
	if composeDueDate(nil, &classroom.TimeOfDay{Hours: 1}) != nil {
		t.Fatal("missing date should yield no due date")
	}

	// time.Date would normalize Feb 30 to Mar 2; treat it as invalid instead
	if composeDueDate(
		&classroom.Date{Year: 2026, Month: 2, Day: 30},
		&classroom.TimeOfDay{Hours: 10},
	) != nil {
		t.Fatal("impossible date should yield no due date")
	}
}

func TestSyncAssignmentsMaterials(t *testing.T) {
	db := newTestDB(t)
	user := newTestUser(t, db)
	svc := NewSyncService(db)

	course := model.Course{GoogleCourseID: "c-1", UserID: user.ID, Name: "Algorithms"}
	if err := db.Create(&course).Error; err != nil {
		t.Fatalf("creating course: %v", err)
	}

	directory := &fakeDirectory{courseWork: []*classroom.CourseWork{
		{
			Id:    "cw-1",
			Title: "Essay",
			Materials: []*classroom.Material{
				{DriveFile: &classroom.SharedDriveFile{DriveFile: &classroom.DriveFile{Id: "f-1", Title: "Notes"}}},
				{Link: &classroom.Link{Url: "https://example.com/spec", Title: "Spec"}},
				{}, // no variant set
			},
		},
	}}
	files := &fakeFiles{contents: map[string][]byte{"f-1": []byte("lecture notes")}}

	assignments, err := svc.SyncAssignments(user, &course, directory, files)
	if err != nil {
		t.Fatalf("sync failed: %v", err)
	}
	if len(assignments) != 1 {
		t.Fatalf("expected 1 assignment, got %d", len(assignments))
	}

	var materials []model.Material
	db.Where("assignment_id = ?", assignments[0].ID).Order("id").Find(&materials)
	if len(materials) != 3 {
		t.Fatalf("expected 3 materials, got %d", len(materials))
	}
	if materials[0].Type != model.MaterialTypeDriveFile || materials[0].Content != "lecture notes" {
		t.Fatalf("unexpected drive material: %+v", materials[0])
	}
	if materials[1].Type != model.MaterialTypeLink || materials[1].URL != "https://example.com/spec" {
		t.Fatalf("unexpected link material: %+v", materials[1])
	}
	if materials[2].Type != model.MaterialTypeUnknown {
		t.Fatalf("expected unknown material type, got %q", materials[2].Type)
	}

	// Re-sync must not duplicate materials
	if _, err := svc.SyncAssignments(user, &course, directory, files); err != nil {
		t.Fatalf("resync failed: %v", err)
	}
	var count int64
	db.Model(&model.Material{}).Count(&count)
	if count != 3 {
		t.Fatalf("expected 3 materials after resync, got %d", count)
	}
}

func TestSyncMaterialsDownloadFailureSentinel(t *testing.T) {
	db := newTestDB(t)
	user := newTestUser(t, db)
	svc := NewSyncService(db)

	course := model.Course{GoogleCourseID: "c-1", UserID: user.ID, Name: "Algorithms"}
	db.Create(&course)

	directory := &fakeDirectory{courseWork: []*classroom.CourseWork{
		{
			Id:    "cw-1",
			Title: "Essay",
			Materials: []*classroom.Material{
				{DriveFile: &classroom.SharedDriveFile{DriveFile: &classroom.DriveFile{Id: "f-1", Title: "Notes"}}},
			},
		},
	}}
	files := &fakeFiles{downloadErr: errors.New("quota exceeded")}

	if _, err := svc.SyncAssignments(user, &course, directory, files); err != nil {
		t.Fatalf("sync failed: %v", err)
	}

	var mat model.Material
	db.Where("google_material_id = ?", "f-1").First(&mat)
	if mat.Content != model.ContentDownloadFailed {
		t.Fatalf("expected download failure sentinel, got %q", mat.Content)
	}

	// A later successful download replaces the sentinel
	files.downloadErr = nil
	files.contents = map[string][]byte{"f-1": []byte("recovered")}
	if _, err := svc.SyncAssignments(user, &course, directory, files); err != nil {
		t.Fatalf("resync failed: %v", err)
	}
	db.Where("google_material_id = ?", "f-1").First(&mat)
	if mat.Content != "recovered" {
		t.Fatalf("expected recovered content, got %q", mat.Content)
	}
}

func TestSyncMaterialsKeepsContentWhenRedownloadEmpty(t *testing.T) {
	db := newTestDB(t)
	user := newTestUser(t, db)
	svc := NewSyncService(db)

	course := model.Course{GoogleCourseID: "c-1", UserID: user.ID, Name: "Algorithms"}
	db.Create(&course)

	directory := &fakeDirectory{courseWork: []*classroom.CourseWork{
		{
			Id:    "cw-1",
			Title: "Essay",
			Materials: []*classroom.Material{
				{DriveFile: &classroom.SharedDriveFile{DriveFile: &classroom.DriveFile{Id: "f-1", Title: "Notes"}}},
			},
		},
	}}
	files := &fakeFiles{contents: map[string][]byte{"f-1": []byte("original")}}

	if _, err := svc.SyncAssignments(user, &course, directory, files); err != nil {
		t.Fatalf("sync failed: %v", err)
	}

	// Sync without a file client: captured content survives
	if _, err := svc.SyncAssignments(user, &course, directory, nil); err != nil {
		t.Fatalf("resync failed: %v", err)
	}

	var mat model.Material
	db.Where("google_material_id = ?", "f-1").First(&mat)
	if mat.Content != "original" {
		t.Fatalf("expected content preserved, got %q", mat.Content)
	}
}

package services

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log"
	"time"
	"unicode/utf8"

	"github.com/opencoder/opencoder-api/model"
	"google.golang.org/api/classroom/v1"
	"gorm.io/gorm"
)

const defaultPageSize = 100

// SyncService reconciles remote Classroom state into the local database.
// Reconciliation is an upsert keyed by remote ids; nothing is deleted locally
// when it disappears remotely.
type SyncService struct {
	db *gorm.DB
}

// NewSyncService creates a new sync service
func NewSyncService(db *gorm.DB) *SyncService {
	return &SyncService{db: db}
}

// SyncCourses fetches the user's remote courses and upserts them locally.
// A failure on one course is logged and skipped so the rest still land.
func (s *SyncService) SyncCourses(user *model.User, client DirectoryClient) ([]model.Course, error) {
	remote, err := client.ListCourses(defaultPageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch remote courses: %w", err)
	}

	courses := make([]model.Course, 0, len(remote))
	for _, rc := range remote {
		if rc == nil || rc.Id == "" {
			continue
		}
		course, err := s.upsertCourse(user.ID, rc)
		if err != nil {
			log.Printf("course sync: skipping course %s: %v", rc.Id, err)
			continue
		}
		courses = append(courses, *course)
	}

	return courses, nil
}

func (s *SyncService) upsertCourse(userID uint, rc *classroom.Course) (*model.Course, error) {
	var course model.Course
	err := s.db.Where("google_course_id = ? AND user_id = ?", rc.Id, userID).First(&course).Error
	if err != nil && err != gorm.ErrRecordNotFound {
		return nil, err
	}

	if err == gorm.ErrRecordNotFound {
		course = model.Course{
			GoogleCourseID: rc.Id,
			UserID:         userID,
			Name:           rc.Name,
			Section:        rc.Section,
			Description:    rc.Description,
			Room:           rc.Room,
		}
		if course.Name == "" {
			course.Name = "Untitled course"
		}
		if err := s.db.Create(&course).Error; err != nil {
			return nil, err
		}
		return &course, nil
	}

	// Existing row: overwrite fields the remote actually sent, keep local
	// values where the payload left them blank.
	updates := map[string]interface{}{}
	if rc.Name != "" && rc.Name != course.Name {
		updates["name"] = rc.Name
	}
	if rc.Section != course.Section {
		updates["section"] = rc.Section
	}
	if rc.Description != course.Description {
		updates["description"] = rc.Description
	}
	if rc.Room != course.Room {
		updates["room"] = rc.Room
	}
	if len(updates) > 0 {
		if err := s.db.Model(&course).Updates(updates).Error; err != nil {
			return nil, err
		}
	}

	return &course, nil
}

// SyncAssignments fetches coursework for a course and upserts assignments and
// their materials. Per-item failures are isolated like in SyncCourses.
func (s *SyncService) SyncAssignments(user *model.User, course *model.Course, directory DirectoryClient, files FileClient) ([]model.Assignment, error) {
	remote, err := directory.ListCourseWork(course.GoogleCourseID, defaultPageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch remote coursework: %w", err)
	}

	assignments := make([]model.Assignment, 0, len(remote))
	for _, cw := range remote {
		if cw == nil || cw.Id == "" {
			continue
		}
		assignment, err := s.upsertAssignment(user.ID, course.ID, cw)
		if err != nil {
			log.Printf("assignment sync: skipping coursework %s: %v", cw.Id, err)
			continue
		}
		if err := s.syncMaterials(assignment, cw.Materials, files); err != nil {
			log.Printf("assignment sync: materials for coursework %s: %v", cw.Id, err)
		}
		assignments = append(assignments, *assignment)
	}

	return assignments, nil
}

func (s *SyncService) upsertAssignment(userID, courseID uint, cw *classroom.CourseWork) (*model.Assignment, error) {
	due := composeDueDate(cw.DueDate, cw.DueTime)

	var assignment model.Assignment
	err := s.db.Where("google_assignment_id = ? AND course_id = ?", cw.Id, courseID).First(&assignment).Error
	if err != nil && err != gorm.ErrRecordNotFound {
		return nil, err
	}

	if err == gorm.ErrRecordNotFound {
		assignment = model.Assignment{
			GoogleAssignmentID: cw.Id,
			CourseID:           courseID,
			UserID:             userID,
			Title:              cw.Title,
			Description:        cw.Description,
			DueDate:            due,
		}
		if assignment.Title == "" {
			assignment.Title = "Untitled assignment"
		}
		if err := s.db.Create(&assignment).Error; err != nil {
			return nil, err
		}
		return &assignment, nil
	}

	updates := map[string]interface{}{
		"due_date": due,
	}
	if cw.Title != "" {
		updates["title"] = cw.Title
	}
	if cw.Description != assignment.Description {
		updates["description"] = cw.Description
	}
	if err := s.db.Model(&assignment).Updates(updates).Error; err != nil {
		return nil, err
	}
	assignment.DueDate = due
	if cw.Title != "" {
		assignment.Title = cw.Title
	}
	assignment.Description = cw.Description

	return &assignment, nil
}

// syncMaterials upserts the attachments of one assignment. Drive file content
// is downloaded when a file client is available; download or decode failures
// store a sentinel marker instead of failing the sync.
func (s *SyncService) syncMaterials(assignment *model.Assignment, materials []*classroom.Material, files FileClient) error {
	for pos, rm := range materials {
		if rm == nil {
			continue
		}

		matType, remoteID, url, title := classifyMaterial(rm)
		key := dedupKey(assignment.ID, remoteID, url, title, pos)

		var existing model.Material
		err := s.db.Where("dedup_key = ? AND assignment_id = ?", key, assignment.ID).First(&existing).Error
		if err != nil && err != gorm.ErrRecordNotFound {
			return err
		}

		content := ""
		if matType == model.MaterialTypeDriveFile && remoteID != "" && files != nil {
			content = downloadContent(files, remoteID)
		}

		if err == gorm.ErrRecordNotFound {
			mat := model.Material{
				GoogleMaterialID: remoteID,
				DedupKey:         key,
				AssignmentID:     assignment.ID,
				Title:            title,
				Type:             matType,
				URL:              url,
				Content:          content,
			}
			if err := s.db.Create(&mat).Error; err != nil {
				return err
			}
			continue
		}

		updates := map[string]interface{}{
			"title": title,
			"type":  matType,
			"url":   url,
		}
		// Never replace previously captured content with nothing.
		if content != "" {
			updates["content"] = content
		}
		if err := s.db.Model(&existing).Updates(updates).Error; err != nil {
			return err
		}
	}

	return nil
}

func downloadContent(files FileClient, fileID string) string {
	data, err := files.Download(fileID)
	if err != nil {
		log.Printf("material sync: download of %s failed: %v", fileID, err)
		return model.ContentDownloadFailed
	}
	if !utf8.Valid(data) {
		return model.ContentDecodeFailed
	}
	return string(data)
}

// classifyMaterial maps the remote material union onto a local type tag plus
// the id, URL and title of the winning variant. Precedence when a payload
// carries several variants: drive file, then video, link and form.
func classifyMaterial(m *classroom.Material) (matType, remoteID, url, title string) {
	switch {
	case m.DriveFile != nil && m.DriveFile.DriveFile != nil:
		df := m.DriveFile.DriveFile
		return model.MaterialTypeDriveFile, df.Id, df.AlternateLink, fallbackTitle(df.Title, "Drive file")
	case m.YoutubeVideo != nil:
		return model.MaterialTypeYouTube, m.YoutubeVideo.Id, m.YoutubeVideo.AlternateLink, fallbackTitle(m.YoutubeVideo.Title, "YouTube video")
	case m.Link != nil:
		return model.MaterialTypeLink, "", m.Link.Url, fallbackTitle(m.Link.Title, m.Link.Url)
	case m.Form != nil:
		return model.MaterialTypeForm, "", m.Form.FormUrl, fallbackTitle(m.Form.Title, "Form")
	default:
		return model.MaterialTypeUnknown, "", "", "Unknown material"
	}
}

func fallbackTitle(title, fallback string) string {
	if title != "" {
		return title
	}
	if fallback != "" {
		return fallback
	}
	return "Untitled material"
}

// dedupKey prefers the remote id, then the URL, then a hash of the stable
// parts of the payload so even unkeyed materials survive re-syncs once.
func dedupKey(assignmentID uint, remoteID, url, title string, position int) string {
	if remoteID != "" {
		return remoteID
	}
	if url != "" {
		return url
	}
	sum := sha256.Sum256([]byte(fmt.Sprintf("%d|%s|%d", assignmentID, title, position)))
	return hex.EncodeToString(sum[:])
}

// composeDueDate builds a UTC timestamp from the split remote date and time.
// Both halves must be present. time.Date silently normalizes impossible
// dates, so the components are checked against the round-tripped value and
// anything that moved is treated as no due date.
func composeDueDate(d *classroom.Date, t *classroom.TimeOfDay) *time.Time {
	if d == nil || t == nil {
		return nil
	}
	if d.Year == 0 || d.Month == 0 || d.Day == 0 {
		return nil
	}

	due := time.Date(int(d.Year), time.Month(d.Month), int(d.Day),
		int(t.Hours), int(t.Minutes), 0, 0, time.UTC)

	if due.Year() != int(d.Year) || due.Month() != time.Month(d.Month) || due.Day() != int(d.Day) ||
		due.Hour() != int(t.Hours) || due.Minute() != int(t.Minutes) {
		return nil
	}

	return &due
}

package services

import (
	"github.com/opencoder/opencoder-api/services/google"
	"google.golang.org/api/classroom/v1"
)

// DirectoryClient lists remote courses, coursework and announcements
type DirectoryClient interface {
	ListCourses(pageSize int64) ([]*classroom.Course, error)
	ListCourseWork(courseID string, pageSize int64) ([]*classroom.CourseWork, error)
	ListAnnouncements(courseID string, pageSize int64) ([]*classroom.Announcement, error)
}

// FileClient reads and writes remote file storage
type FileClient interface {
	Download(fileID string) ([]byte, error)
	Upload(localPath, name, mimeType, folderID string) (*google.DriveFile, error)
	FindOrCreateFolder(name string) (string, error)
}

// Submitter performs the three-step coursework turn-in
type Submitter interface {
	CreateSubmission(courseID, courseWorkID string) (string, error)
	AttachDriveFile(courseID, courseWorkID, submissionID, driveFileID string) error
	TurnIn(courseID, courseWorkID, submissionID string) error
}

package google

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"
	"google.golang.org/api/classroom/v1"
	"google.golang.org/api/option"
)

// ClassroomClient wraps the Google Classroom API for one authenticated user.
// Read paths (courses, coursework, announcements) feed reconciliation; the
// three submission calls compose one logical turn-in.
type ClassroomClient struct {
	svc *classroom.Service
}

// NewClassroom builds a Classroom client from a user token
func (a *AuthService) NewClassroom(ctx context.Context, tok *oauth2.Token) (*ClassroomClient, error) {
	svc, err := classroom.NewService(ctx, option.WithTokenSource(a.TokenSource(ctx, tok)))
	if err != nil {
		return nil, fmt.Errorf("failed to create classroom client: %w", err)
	}
	return &ClassroomClient{svc: svc}, nil
}

// ListCourses returns the caller's courses in remote order
func (c *ClassroomClient) ListCourses(pageSize int64) ([]*classroom.Course, error) {
	resp, err := c.svc.Courses.List().PageSize(pageSize).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}
	return resp.Courses, nil
}

// ListCourseWork returns coursework for a course, each item optionally
// carrying embedded materials and split due date/time components
func (c *ClassroomClient) ListCourseWork(courseID string, pageSize int64) ([]*classroom.CourseWork, error) {
	resp, err := c.svc.Courses.CourseWork.List(courseID).PageSize(pageSize).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list coursework for course %s: %w", courseID, err)
	}
	return resp.CourseWork, nil
}

// GetCourseWork returns one coursework item with its materials
func (c *ClassroomClient) GetCourseWork(courseID, courseWorkID string) (*classroom.CourseWork, error) {
	cw, err := c.svc.Courses.CourseWork.Get(courseID, courseWorkID).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get coursework %s: %w", courseWorkID, err)
	}
	return cw, nil
}

// ListAnnouncements returns announcements for a course
func (c *ClassroomClient) ListAnnouncements(courseID string, pageSize int64) ([]*classroom.Announcement, error) {
	resp, err := c.svc.Courses.Announcements.List(courseID).PageSize(pageSize).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list announcements for course %s: %w", courseID, err)
	}
	return resp.Announcements, nil
}

// CreateSubmission resolves the caller's student submission id for a piece of
// coursework. Classroom creates the submission shell when the student is
// enrolled, so "create" means locating that shell and returning its id.
func (c *ClassroomClient) CreateSubmission(courseID, courseWorkID string) (string, error) {
	resp, err := c.svc.Courses.CourseWork.StudentSubmissions.
		List(courseID, courseWorkID).
		UserId("me").
		PageSize(1).
		Do()
	if err != nil {
		return "", fmt.Errorf("failed to create student submission: %w", err)
	}
	if len(resp.StudentSubmissions) == 0 {
		return "", fmt.Errorf("no student submission available for coursework %s", courseWorkID)
	}
	return resp.StudentSubmissions[0].Id, nil
}

// AttachDriveFile attaches an uploaded Drive file to a student submission
func (c *ClassroomClient) AttachDriveFile(courseID, courseWorkID, submissionID, driveFileID string) error {
	req := &classroom.ModifyAttachmentsRequest{
		AddAttachments: []*classroom.Attachment{
			{DriveFile: &classroom.DriveFile{Id: driveFileID}},
		},
	}
	_, err := c.svc.Courses.CourseWork.StudentSubmissions.
		ModifyAttachments(courseID, courseWorkID, submissionID, req).
		Do()
	if err != nil {
		return fmt.Errorf("failed to attach file to submission %s: %w", submissionID, err)
	}
	return nil
}

// TurnIn finalizes a student submission
func (c *ClassroomClient) TurnIn(courseID, courseWorkID, submissionID string) error {
	_, err := c.svc.Courses.CourseWork.StudentSubmissions.
		TurnIn(courseID, courseWorkID, submissionID, &classroom.TurnInStudentSubmissionRequest{}).
		Do()
	if err != nil {
		return fmt.Errorf("failed to turn in submission %s: %w", submissionID, err)
	}
	return nil
}

package model

import (
	"time"

	"gorm.io/gorm"
)

// Assignment is a local mirror of Google Classroom coursework, keyed by the
// remote coursework id within its course. DueDate stays NULL when the remote
// date/time components do not form a valid timestamp.
type Assignment struct {
	ID                 uint           `gorm:"primaryKey" json:"id"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"-"`
	GoogleAssignmentID string         `gorm:"not null;uniqueIndex:idx_assignments_remote_course" json:"google_assignment_id"`
	CourseID           uint           `gorm:"not null;uniqueIndex:idx_assignments_remote_course;index" json:"course_id"`
	UserID             uint           `gorm:"not null;index" json:"user_id"`
	Title              string         `gorm:"not null" json:"title"`
	Description        string         `gorm:"type:text" json:"description,omitempty"`
	DueDate            *time.Time     `json:"due_date,omitempty"`

	// Relationships
	User      User       `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Course    Course     `gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE" json:"-"`
	Drafts    []Draft    `gorm:"foreignKey:AssignmentID;constraint:OnDelete:CASCADE" json:"-"`
	Materials []Material `gorm:"foreignKey:AssignmentID;constraint:OnDelete:CASCADE" json:"materials,omitempty"`
}

package model

import (
	"time"

	"gorm.io/gorm"
)

// Course is a local mirror of a Google Classroom course, keyed by the remote
// course id within the owning user's scope.
type Course struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
	GoogleCourseID string         `gorm:"not null;uniqueIndex:idx_courses_remote_user" json:"google_course_id"`
	UserID         uint           `gorm:"not null;uniqueIndex:idx_courses_remote_user;index" json:"user_id"`
	Name           string         `gorm:"not null" json:"name"`
	Section        string         `json:"section,omitempty"`
	Description    string         `gorm:"type:text" json:"description,omitempty"`
	Room           string         `json:"room,omitempty"`

	// Relationships
	User        User         `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Assignments []Assignment `gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE" json:"assignments,omitempty"`
}

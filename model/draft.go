package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Draft lifecycle states. A draft moves draft -> generating -> draft|error,
// and finally to submitted; SubmissionDate is stamped only on success.
const (
	DraftStatusDraft      = "draft"
	DraftStatusGenerating = "generating"
	DraftStatusError      = "error"
	DraftStatusSubmitted  = "submitted"
)

// Draft is a unit of generated or hand-written content for one assignment by
// one user. Its assignment must belong to the same user.
type Draft struct {
	ID               uint           `gorm:"primaryKey" json:"id"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`
	UserID           uint           `gorm:"not null;index" json:"user_id"`
	AssignmentID     uint           `gorm:"not null;index" json:"assignment_id"`
	Content          string         `gorm:"type:text" json:"content"`
	Status           string         `gorm:"type:varchar(20);not null;default:'draft'" json:"status"`
	Feedback         string         `gorm:"type:text" json:"feedback,omitempty"`
	SubmissionDate   *time.Time     `json:"submission_date,omitempty"`
	GenerationParams datatypes.JSON `json:"generation_params,omitempty"`

	// Relationships
	User       User       `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Assignment Assignment `gorm:"foreignKey:AssignmentID;constraint:OnDelete:CASCADE" json:"-"`
}

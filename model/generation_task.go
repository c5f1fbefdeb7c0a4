package model

import (
	"time"

	"gorm.io/gorm"
)

// Generation task states.
const (
	TaskStatusRunning   = "running"
	TaskStatusCompleted = "completed"
	TaskStatusFailed    = "failed"
)

// GenerationTask is the result record for one background content-generation
// attempt, keyed by a UUID handed back to the caller. The draft row itself is
// only ever updated through a guarded transition from "generating", so a
// stale task cannot clobber a newer manual edit.
type GenerationTask struct {
	ID          string         `gorm:"type:varchar(36);primaryKey" json:"id"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
	DraftID     uint           `gorm:"not null;index" json:"draft_id"`
	UserID      uint           `gorm:"not null;index" json:"user_id"`
	Status      string         `gorm:"type:varchar(20);not null" json:"status"`
	ErrorMsg    string         `gorm:"type:text" json:"error_msg,omitempty"`
	CompletedAt *time.Time     `json:"completed_at,omitempty"`

	// Relationships
	Draft Draft `gorm:"foreignKey:DraftID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName specifies the table name for GenerationTask
func (GenerationTask) TableName() string {
	return "generation_tasks"
}

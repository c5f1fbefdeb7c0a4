package model

import (
	"time"

	"gorm.io/gorm"
)

// Material type tags. Remote payloads that carry none of the known variant
// keys classify as MaterialTypeUnknown.
const (
	MaterialTypeDriveFile = "drive_file"
	MaterialTypeYouTube   = "youtube"
	MaterialTypeLink      = "link"
	MaterialTypeForm      = "form"
	MaterialTypeUnknown   = "unknown"
)

// Sentinel content markers, distinct from "never attempted" (empty content).
const (
	ContentDownloadFailed = "[Content download failed]"
	ContentDecodeFailed   = "[Error decoding content]"
)

// Material is an attachment to an Assignment with the heterogeneous remote
// payload shapes normalized into one row. DedupKey is the remote material id
// when present, the URL otherwise, or a synthetic hash for unkeyed payloads,
// so repeated syncs never accumulate duplicates.
type Material struct {
	ID               uint           `gorm:"primaryKey" json:"id"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`
	GoogleMaterialID string         `gorm:"index" json:"google_material_id,omitempty"`
	DedupKey         string         `gorm:"not null;uniqueIndex:idx_materials_dedup_assignment" json:"-"`
	AssignmentID     uint           `gorm:"not null;uniqueIndex:idx_materials_dedup_assignment;index" json:"assignment_id"`
	Title            string         `gorm:"not null" json:"title"`
	Type             string         `gorm:"type:varchar(20);not null" json:"type"`
	URL              string         `json:"url,omitempty"`
	Content          string         `gorm:"type:text" json:"content,omitempty"`
	ProcessedContent string         `gorm:"type:text" json:"processed_content,omitempty"`

	// Relationships
	Assignment Assignment `gorm:"foreignKey:AssignmentID;constraint:OnDelete:CASCADE" json:"-"`
}

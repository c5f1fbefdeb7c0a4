package model

import (
	"time"

	"gorm.io/gorm"
)

// User represents a registered user. Local accounts carry a password hash;
// Google-linked accounts carry the Google identity and OAuth token pair.
type User struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
	Email        string         `gorm:"uniqueIndex;not null" json:"email"`
	FullName     string         `json:"full_name"`
	PasswordHash string         `json:"-"` // Empty for Google OAuth users
	IsActive     bool           `gorm:"default:true" json:"is_active"`
	IsSuperuser  bool           `gorm:"default:false" json:"-"`

	// Google account linkage. Token fields are rewritten on every OAuth
	// refresh; an empty access token means Google features are unavailable.
	GoogleID           string     `gorm:"index" json:"-"`
	GoogleAccessToken  string     `gorm:"type:text" json:"-"`
	GoogleRefreshToken string     `gorm:"type:text" json:"-"`
	TokenExpiry        *time.Time `json:"-"`

	// Relationships
	Courses     []Course     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Assignments []Assignment `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Drafts      []Draft      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

// HasGoogleToken reports whether the user holds a Google access token at all.
func (u *User) HasGoogleToken() bool {
	return u.GoogleAccessToken != ""
}

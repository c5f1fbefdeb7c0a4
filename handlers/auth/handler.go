package auth

import (
	"time"

	"github.com/opencoder/opencoder-api/model"
	"github.com/opencoder/opencoder-api/services/google"
	authutil "github.com/opencoder/opencoder-api/utils/auth"
	"github.com/opencoder/opencoder-api/utils/middleware"
	"gorm.io/gorm"
)

// AuthHandler handles authentication-related requests
type AuthHandler struct {
	db                   *gorm.DB
	jwtManager           *authutil.JWTManager
	googleAuth           *google.AuthService
	bruteForceProtection *middleware.BruteForceProtection
	frontendCallback     string
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(db *gorm.DB, jwtManager *authutil.JWTManager, googleAuth *google.AuthService, bruteForceProtection *middleware.BruteForceProtection, frontendCallback string) *AuthHandler {
	return &AuthHandler{
		db:                   db,
		jwtManager:           jwtManager,
		googleAuth:           googleAuth,
		bruteForceProtection: bruteForceProtection,
		frontendCallback:     frontendCallback,
	}
}

// UserResponse represents user data in responses
type UserResponse struct {
	ID           uint      `json:"id"`
	Email        string    `json:"email"`
	FullName     string    `json:"full_name"`
	IsActive     bool      `json:"is_active"`
	IsSuperuser  bool      `json:"is_superuser"`
	GoogleLinked bool      `json:"google_linked"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func toUserResponse(user *model.User) UserResponse {
	return UserResponse{
		ID:           user.ID,
		Email:        user.Email,
		FullName:     user.FullName,
		IsActive:     user.IsActive,
		IsSuperuser:  user.IsSuperuser,
		GoogleLinked: user.HasGoogleToken(),
		CreatedAt:    user.CreatedAt,
		UpdatedAt:    user.UpdatedAt,
	}
}

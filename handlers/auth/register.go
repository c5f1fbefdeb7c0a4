package auth

import (
	"github.com/gofiber/fiber/v2"
	"github.com/opencoder/opencoder-api/model"
	authutil "github.com/opencoder/opencoder-api/utils/auth"
	"github.com/opencoder/opencoder-api/utils/response"
	"github.com/opencoder/opencoder-api/utils/validation"
)

// RegisterRequest represents a user registration request
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	FullName string `json:"full_name" validate:"required,min=2"`
}

// RegisterResponse represents a successful registration response
type RegisterResponse struct {
	User        UserResponse `json:"user"`
	AccessToken string       `json:"access_token"`
	ExpiresIn   int          `json:"expires_in"` // in seconds
}

// Register handles user registration
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	// Validate request
	if req.Email == "" || req.Password == "" || req.FullName == "" {
		return response.BadRequest(c, "Email, password, and full name are required")
	}

	if !validation.ValidateEmail(req.Email) {
		return response.BadRequest(c, "Invalid email format")
	}
	req.FullName = validation.SanitizeString(req.FullName)

	// Validate password strength
	if !authutil.IsPasswordValid(req.Password) {
		return response.BadRequest(c, "Password must be at least 8 characters long")
	}

	// Check if user already exists
	var existingUser model.User
	if err := h.db.Where("email = ?", req.Email).First(&existingUser).Error; err == nil {
		return response.Conflict(c, "User with this email already exists")
	}

	// Hash password
	hashedPassword, err := authutil.HashPassword(req.Password)
	if err != nil {
		return response.InternalServerError(c, "Failed to process password")
	}

	// Create user
	user := model.User{
		Email:        req.Email,
		PasswordHash: hashedPassword,
		FullName:     req.FullName,
		IsActive:     true,
	}

	if err := h.db.Create(&user).Error; err != nil {
		return response.InternalServerError(c, "Failed to create user")
	}

	accessToken, _, err := h.jwtManager.GenerateAccessToken(user.ID, user.Email)
	if err != nil {
		return response.InternalServerError(c, "Failed to generate access token")
	}

	res := RegisterResponse{
		User:        toUserResponse(&user),
		AccessToken: accessToken,
		ExpiresIn:   24 * 60 * 60, // 24 hours in seconds
	}

	return response.Created(c, res)
}

package auth

import (
	"github.com/gofiber/fiber/v2"
	"github.com/opencoder/opencoder-api/model"
	"github.com/opencoder/opencoder-api/utils/auth"
	"github.com/opencoder/opencoder-api/utils/response"
)

// LoginRequest represents a user login request
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse represents a successful login response
type LoginResponse struct {
	User        UserResponse `json:"user"`
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	ExpiresIn   int          `json:"expires_in"` // in seconds
}

// Login handles user login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	// Validate request
	if req.Email == "" || req.Password == "" {
		return response.BadRequest(c, "Email and password are required")
	}

	ip := c.IP()

	// Find user by email
	var user model.User
	if err := h.db.Where("email = ?", req.Email).First(&user).Error; err != nil {
		// Record failed attempt even if user not found
		if h.bruteForceProtection != nil {
			h.bruteForceProtection.RecordFailedAttempt(c, ip)
		}
		return response.Unauthorized(c, "Invalid email or password")
	}

	// Google-only accounts carry no local password
	if user.PasswordHash == "" {
		if h.bruteForceProtection != nil {
			h.bruteForceProtection.RecordFailedAttempt(c, ip)
		}
		return response.Unauthorized(c, "Invalid email or password")
	}

	// Verify password
	if err := auth.VerifyPassword(user.PasswordHash, req.Password); err != nil {
		if h.bruteForceProtection != nil {
			h.bruteForceProtection.RecordFailedAttempt(c, ip)
		}
		return response.Unauthorized(c, "Invalid email or password")
	}

	if !user.IsActive {
		return response.Forbidden(c, "Inactive user")
	}

	// Clear failed attempts on successful login
	if h.bruteForceProtection != nil {
		h.bruteForceProtection.RecordSuccessfulAttempt(c, ip)
	}

	accessToken, _, err := h.jwtManager.GenerateAccessToken(user.ID, user.Email)
	if err != nil {
		return response.InternalServerError(c, "Failed to generate access token")
	}

	res := LoginResponse{
		User:        toUserResponse(&user),
		AccessToken: accessToken,
		TokenType:   "bearer",
		ExpiresIn:   24 * 60 * 60, // 24 hours in seconds
	}

	return response.Success(c, res)
}

package auth

import (
	"github.com/gofiber/fiber/v2"
	"github.com/opencoder/opencoder-api/utils/middleware"
	"github.com/opencoder/opencoder-api/utils/response"
)

// Me returns the authenticated user's profile
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "")
	}
	return response.Success(c, toUserResponse(user))
}

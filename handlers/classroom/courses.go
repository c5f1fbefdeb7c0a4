package classroom

import (
	"github.com/gofiber/fiber/v2"
	"github.com/opencoder/opencoder-api/services"
	"github.com/opencoder/opencoder-api/utils/middleware"
	"github.com/opencoder/opencoder-api/utils/response"
)

// ListCourses syncs the user's courses from Google Classroom and returns the
// local mirror
func (h *ClassroomHandler) ListCourses(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "")
	}

	directory, _, err := h.clients(c, user)
	if err != nil {
		return googleError(c, err)
	}

	courses, err := h.sync.SyncCourses(user, directory)
	if err != nil {
		return response.UpstreamFailure(c, "Failed to sync courses from Google Classroom")
	}

	return response.Success(c, courses)
}

// GetCourse returns one locally synced course
func (h *ClassroomHandler) GetCourse(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "")
	}

	courseID, err := c.ParamsInt("id")
	if err != nil || courseID <= 0 {
		return response.BadRequest(c, "Invalid course id")
	}

	course, err := h.ownedCourse(uint(courseID), user.ID)
	if err == services.ErrNotFound {
		return response.NotFound(c, "Course not found")
	}
	if err != nil {
		return response.InternalServerError(c, "")
	}

	return response.Success(c, course)
}

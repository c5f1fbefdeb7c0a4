package draft

import (
	"fmt"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/opencoder/opencoder-api/model"
	"github.com/opencoder/opencoder-api/services"
	"github.com/opencoder/opencoder-api/utils/middleware"
	"github.com/opencoder/opencoder-api/utils/response"
)

// ExportPDF renders a draft into a downloadable PDF
func (h *DraftHandler) ExportPDF(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "")
	}

	draftID, err := c.ParamsInt("id")
	if err != nil || draftID <= 0 {
		return response.BadRequest(c, "Invalid draft id")
	}

	d, err := h.ownedDraft(uint(draftID), user.ID)
	if err == services.ErrNotFound {
		return response.NotFound(c, "Draft not found")
	}
	if err != nil {
		return response.InternalServerError(c, "")
	}

	if d.Status == model.DraftStatusGenerating {
		return response.Conflict(c, "Draft content is still being generated")
	}

	var assignment model.Assignment
	if err := h.db.Where("id = ?", d.AssignmentID).First(&assignment).Error; err != nil {
		return response.InternalServerError(c, "")
	}
	var course model.Course
	if err := h.db.Where("id = ?", assignment.CourseID).First(&course).Error; err != nil {
		return response.InternalServerError(c, "")
	}

	author := user.FullName
	if author == "" {
		author = user.Email
	}

	path, err := h.pdf.Render(services.PDFMeta{
		Title:  assignment.Title,
		Author: author,
		Course: course.Name,
	}, d.Content)
	if err != nil {
		return response.InternalServerError(c, "Failed to render PDF")
	}
	defer os.Remove(path)

	data, err := os.ReadFile(path)
	if err != nil {
		return response.InternalServerError(c, "Failed to read rendered PDF")
	}

	filename := fmt.Sprintf("draft-%d.pdf", d.ID)
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename=%q`, filename))
	return c.Send(data)
}

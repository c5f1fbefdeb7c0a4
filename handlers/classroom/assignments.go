package classroom

import (
	"github.com/gofiber/fiber/v2"
	"github.com/opencoder/opencoder-api/model"
	"github.com/opencoder/opencoder-api/services"
	"github.com/opencoder/opencoder-api/utils/middleware"
	"github.com/opencoder/opencoder-api/utils/response"
	"gorm.io/gorm"
)

const announcementPageSize = 50

// AnnouncementResponse is the trimmed remote announcement payload
type AnnouncementResponse struct {
	ID            string `json:"id"`
	Text          string `json:"text"`
	AlternateLink string `json:"alternate_link,omitempty"`
	CreationTime  string `json:"creation_time,omitempty"`
	UpdateTime    string `json:"update_time,omitempty"`
}

// ListAssignments syncs coursework for a course from Google Classroom and
// returns the local mirror, materials included
func (h *ClassroomHandler) ListAssignments(c *fiber.Ctx) error {
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

	directory, files, err := h.clients(c, user)
	if err != nil {
		return googleError(c, err)
	}

	assignments, err := h.sync.SyncAssignments(user, course, directory, files)
	if err != nil {
		return response.UpstreamFailure(c, "Failed to sync assignments from Google Classroom")
	}

	return response.Success(c, assignments)
}

// GetAssignment returns one locally synced assignment with its materials
func (h *ClassroomHandler) GetAssignment(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "")
	}

	assignmentID, err := c.ParamsInt("id")
	if err != nil || assignmentID <= 0 {
		return response.BadRequest(c, "Invalid assignment id")
	}

	var assignment model.Assignment
	err = h.db.Preload("Materials").
		Where("id = ? AND user_id = ?", assignmentID, user.ID).
		First(&assignment).Error
	if err == gorm.ErrRecordNotFound {
		return response.NotFound(c, "Assignment not found")
	}
	if err != nil {
		return response.InternalServerError(c, "")
	}

	return response.Success(c, assignment)
}

// ListMaterials returns the locally stored materials of an assignment
func (h *ClassroomHandler) ListMaterials(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "")
	}

	assignmentID, err := c.ParamsInt("id")
	if err != nil || assignmentID <= 0 {
		return response.BadRequest(c, "Invalid assignment id")
	}

	var assignment model.Assignment
	err = h.db.Where("id = ? AND user_id = ?", assignmentID, user.ID).First(&assignment).Error
	if err == gorm.ErrRecordNotFound {
		return response.NotFound(c, "Assignment not found")
	}
	if err != nil {
		return response.InternalServerError(c, "")
	}

	var materials []model.Material
	if err := h.db.Where("assignment_id = ?", assignment.ID).Find(&materials).Error; err != nil {
		return response.InternalServerError(c, "")
	}

	return response.Success(c, materials)
}

// ListAnnouncements proxies course announcements straight from Google; they
// are not mirrored locally
func (h *ClassroomHandler) ListAnnouncements(c *fiber.Ctx) error {
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

	directory, _, err := h.clients(c, user)
	if err != nil {
		return googleError(c, err)
	}

	remote, err := directory.ListAnnouncements(course.GoogleCourseID, announcementPageSize)
	if err != nil {
		return response.UpstreamFailure(c, "Failed to fetch announcements from Google Classroom")
	}

	announcements := make([]AnnouncementResponse, 0, len(remote))
	for _, a := range remote {
		if a == nil {
			continue
		}
		announcements = append(announcements, AnnouncementResponse{
			ID:            a.Id,
			Text:          a.Text,
			AlternateLink: a.AlternateLink,
			CreationTime:  a.CreationTime,
			UpdateTime:    a.UpdateTime,
		})
	}

	return response.Success(c, announcements)
}

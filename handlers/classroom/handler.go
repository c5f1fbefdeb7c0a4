package classroom

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/opencoder/opencoder-api/model"
	"github.com/opencoder/opencoder-api/services"
	googlesvc "github.com/opencoder/opencoder-api/services/google"
	"github.com/opencoder/opencoder-api/utils/response"
	"gorm.io/gorm"
)

// ClassroomHandler serves the course, assignment and material endpoints. GET
// on the collection routes syncs from Google before answering; the item
// routes answer from the local mirror only.
type ClassroomHandler struct {
	db         *gorm.DB
	sync       *services.SyncService
	googleAuth *googlesvc.AuthService
}

// NewClassroomHandler creates a new classroom handler
func NewClassroomHandler(db *gorm.DB, sync *services.SyncService, googleAuth *googlesvc.AuthService) *ClassroomHandler {
	return &ClassroomHandler{
		db:         db,
		sync:       sync,
		googleAuth: googleAuth,
	}
}

// clients builds authenticated Classroom and Drive clients for the user
func (h *ClassroomHandler) clients(c *fiber.Ctx, user *model.User) (*googlesvc.ClassroomClient, *googlesvc.DriveClient, error) {
	ctx := c.Context()

	tok, err := h.googleAuth.TokenForUser(ctx, h.db, user)
	if err != nil {
		return nil, nil, err
	}

	directory, err := h.googleAuth.NewClassroom(ctx, tok)
	if err != nil {
		return nil, nil, err
	}
	files, err := h.googleAuth.NewDrive(ctx, tok)
	if err != nil {
		return nil, nil, err
	}

	return directory, files, nil
}

// ownedCourse loads a course scoped to the user
func (h *ClassroomHandler) ownedCourse(courseID, userID uint) (*model.Course, error) {
	var course model.Course
	err := h.db.Where("id = ? AND user_id = ?", courseID, userID).First(&course).Error
	if err == gorm.ErrRecordNotFound {
		return nil, services.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &course, nil
}

// googleError translates credential and upstream failures into responses
func googleError(c *fiber.Ctx, err error) error {
	if errors.Is(err, googlesvc.ErrAuthRequired) {
		return response.GoogleAuthRequired(c)
	}
	return response.UpstreamFailure(c, "Google API request failed")
}

package draft

import (
	"github.com/gofiber/fiber/v2"
	"github.com/opencoder/opencoder-api/model"
	"github.com/opencoder/opencoder-api/services"
	"github.com/opencoder/opencoder-api/utils/middleware"
	"github.com/opencoder/opencoder-api/utils/response"
	"github.com/opencoder/opencoder-api/utils/validation"
)

var paramsValidator = validation.NewValidator()

// GenerateResponse is returned when a generation run is accepted
type GenerateResponse struct {
	Draft  model.Draft `json:"draft"`
	TaskID string      `json:"task_id"`
}

// Generate starts a background content generation run for an assignment.
// The response carries the placeholder draft and a task id to poll.
func (h *DraftHandler) Generate(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "")
	}

	assignmentID, err := c.ParamsInt("id")
	if err != nil || assignmentID <= 0 {
		return response.BadRequest(c, "Invalid assignment id")
	}

	var params services.GenerationParams
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&params); err != nil {
			return response.BadRequest(c, "Invalid generation parameters")
		}
		if err := paramsValidator.ValidateStruct(params); err != nil {
			return response.ValidationError(c, err)
		}
	}

	d, task, err := h.generation.StartGeneration(user, uint(assignmentID), params)
	if err == services.ErrNotFound {
		return response.NotFound(c, "Assignment not found")
	}
	if err != nil {
		return response.InternalServerError(c, "Failed to start generation")
	}

	return response.Accepted(c, GenerateResponse{
		Draft:  *d,
		TaskID: task.ID,
	})
}

// GetGenerationTask returns the state of one generation run
func (h *DraftHandler) GetGenerationTask(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "")
	}

	taskID := c.Params("id")
	if taskID == "" {
		return response.BadRequest(c, "Invalid task id")
	}

	task, err := h.generation.GetTask(user.ID, taskID)
	if err == services.ErrNotFound {
		return response.NotFound(c, "Generation task not found")
	}
	if err != nil {
		return response.InternalServerError(c, "")
	}

	return response.Success(c, task)
}

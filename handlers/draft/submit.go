package draft

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/opencoder/opencoder-api/services"
	googlesvc "github.com/opencoder/opencoder-api/services/google"
	"github.com/opencoder/opencoder-api/utils/middleware"
	"github.com/opencoder/opencoder-api/utils/response"
)

// Submit turns a draft in to Google Classroom: it is rendered to PDF,
// uploaded to Drive, attached to the student submission and turned in
func (h *DraftHandler) Submit(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "")
	}

	draftID, err := c.ParamsInt("id")
	if err != nil || draftID <= 0 {
		return response.BadRequest(c, "Invalid draft id")
	}

	ctx := c.Context()
	connect := func() (services.FileClient, services.Submitter, error) {
		tok, err := h.googleAuth.TokenForUser(ctx, h.db, user)
		if err != nil {
			return nil, nil, err
		}
		files, err := h.googleAuth.NewDrive(ctx, tok)
		if err != nil {
			return nil, nil, err
		}
		submitter, err := h.googleAuth.NewClassroom(ctx, tok)
		if err != nil {
			return nil, nil, err
		}
		return files, submitter, nil
	}

	d, err := h.submission.Submit(user, uint(draftID), connect)
	switch {
	case err == nil:
		return response.SuccessWithMessage(c, "Draft submitted to Google Classroom", d)
	case errors.Is(err, services.ErrNotFound):
		return response.NotFound(c, "Draft not found")
	case errors.Is(err, services.ErrAlreadySubmitted):
		return response.Conflict(c, "Draft has already been submitted")
	case errors.Is(err, services.ErrDraftGenerating):
		return response.Conflict(c, "Draft content is still being generated")
	case errors.Is(err, googlesvc.ErrAuthRequired):
		return response.GoogleAuthRequired(c)
	case errors.Is(err, services.ErrUploadFailed):
		return response.UpstreamFailure(c, "Drive upload did not return a file id")
	default:
		return response.UpstreamFailure(c, "Failed to submit draft to Google Classroom")
	}
}

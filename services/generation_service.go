package services

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/opencoder/opencoder-api/model"
	"gorm.io/gorm"
)

// PlaceholderContent is what a draft holds while generation runs
const PlaceholderContent = "Generating content..."

// GenerationService runs content generation in the background. Each request
// creates a draft in "generating" state plus a task row the client polls;
// the worker only writes the draft back through a transition guarded on that
// state, so a slow task never overwrites content the user edited meanwhile.
type GenerationService struct {
	db        *gorm.DB
	generator *AIGenerator
}

// NewGenerationService creates a new generation service
func NewGenerationService(db *gorm.DB, generator *AIGenerator) *GenerationService {
	return &GenerationService{db: db, generator: generator}
}

// StartGeneration creates a placeholder draft for the assignment and kicks
// off a background worker. It returns the draft and the task id to poll.
func (s *GenerationService) StartGeneration(user *model.User, assignmentID uint, params GenerationParams) (*model.Draft, *model.GenerationTask, error) {
	var assignment model.Assignment
	err := s.db.Where("id = ? AND user_id = ?", assignmentID, user.ID).First(&assignment).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil, ErrNotFound
	}
	if err != nil {
		return nil, nil, err
	}

	rawParams, err := json.Marshal(params)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to encode generation params: %w", err)
	}

	draft := model.Draft{
		UserID:           user.ID,
		AssignmentID:     assignment.ID,
		Content:          PlaceholderContent,
		Status:           model.DraftStatusGenerating,
		GenerationParams: rawParams,
	}
	if err := s.db.Create(&draft).Error; err != nil {
		return nil, nil, err
	}

	task := model.GenerationTask{
		ID:      uuid.NewString(),
		DraftID: draft.ID,
		UserID:  user.ID,
		Status:  model.TaskStatusRunning,
	}
	if err := s.db.Create(&task).Error; err != nil {
		return nil, nil, err
	}

	go s.run(task.ID, draft.ID, &assignment, params)

	return &draft, &task, nil
}

// run executes one generation attempt to completion
func (s *GenerationService) run(taskID string, draftID uint, assignment *model.Assignment, params GenerationParams) {
	var materials []model.Material
	if err := s.db.Where("assignment_id = ?", assignment.ID).Find(&materials).Error; err != nil {
		log.Printf("generation %s: loading materials: %v", taskID, err)
		materials = nil
	}

	result, err := s.generator.Generate(assignment, materials, params)
	if err != nil {
		s.finishWithError(taskID, draftID, err)
		return
	}

	rawParams, _ := json.Marshal(result.Params)

	// Guarded transition: only a draft still in "generating" may be written.
	res := s.db.Model(&model.Draft{}).
		Where("id = ? AND status = ?", draftID, model.DraftStatusGenerating).
		Updates(map[string]interface{}{
			"content":           result.Content,
			"status":            model.DraftStatusDraft,
			"generation_params": rawParams,
		})
	if res.Error != nil {
		s.finishWithError(taskID, draftID, res.Error)
		return
	}
	if res.RowsAffected == 0 {
		log.Printf("generation %s: draft %d left generating state, result discarded", taskID, draftID)
	}

	s.completeTask(taskID, model.TaskStatusCompleted, "")
}

func (s *GenerationService) finishWithError(taskID string, draftID uint, cause error) {
	log.Printf("generation %s failed: %v", taskID, cause)

	// The error replaces the placeholder content so a client that only polls
	// the draft sees the failure.
	if err := s.db.Model(&model.Draft{}).
		Where("id = ? AND status = ?", draftID, model.DraftStatusGenerating).
		Updates(map[string]interface{}{
			"content":  fmt.Sprintf("Error generating content: %s", cause.Error()),
			"status":   model.DraftStatusError,
			"feedback": cause.Error(),
		}).Error; err != nil {
		log.Printf("generation %s: marking draft failed: %v", taskID, err)
	}

	s.completeTask(taskID, model.TaskStatusFailed, cause.Error())
}

func (s *GenerationService) completeTask(taskID, status, errMsg string) {
	now := time.Now()
	if err := s.db.Model(&model.GenerationTask{}).
		Where("id = ?", taskID).
		Updates(map[string]interface{}{
			"status":       status,
			"error_msg":    errMsg,
			"completed_at": &now,
		}).Error; err != nil {
		log.Printf("generation %s: updating task: %v", taskID, err)
	}
}

// GetTask returns the task owned by the user
func (s *GenerationService) GetTask(userID uint, taskID string) (*model.GenerationTask, error) {
	var task model.GenerationTask
	err := s.db.Where("id = ? AND user_id = ?", taskID, userID).First(&task).Error
	if err == gorm.ErrRecordNotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &task, nil
}

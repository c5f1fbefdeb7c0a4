package cron

import (
	"fmt"
	"time"

	"github.com/opencoder/opencoder-api/model"
)

// staleGenerationDeadline is how long a generation run may stay in flight
// before the sweeper declares it dead. Generation is in-process, so anything
// older than this was lost to a crash or restart.
const staleGenerationDeadline = 30 * time.Minute

// SweepStaleGenerations fails generation tasks and their drafts that have
// been running longer than the deadline. Drafts are moved through the same
// guarded transition the worker uses, so a draft the user already edited out
// of "generating" stays untouched.
func (m *CronManager) SweepStaleGenerations() {
	jobName := "sweep_stale_generations"
	cutoff := time.Now().Add(-staleGenerationDeadline)

	var stale []model.GenerationTask
	err := m.db.Where("status = ? AND created_at < ?", model.TaskStatusRunning, cutoff).
		Find(&stale).Error
	if err != nil {
		m.logJobError(jobName, err)
		return
	}

	failed := 0
	for _, task := range stale {
		now := time.Now()
		err := m.db.Model(&model.GenerationTask{}).
			Where("id = ? AND status = ?", task.ID, model.TaskStatusRunning).
			Updates(map[string]interface{}{
				"status":       model.TaskStatusFailed,
				"error_msg":    "generation timed out",
				"completed_at": &now,
			}).Error
		if err != nil {
			m.logJobError(jobName, err)
			return
		}

		err = m.db.Model(&model.Draft{}).
			Where("id = ? AND status = ?", task.DraftID, model.DraftStatusGenerating).
			Updates(map[string]interface{}{
				"content":  "Error generating content: generation timed out",
				"status":   model.DraftStatusError,
				"feedback": "generation timed out",
			}).Error
		if err != nil {
			m.logJobError(jobName, err)
			return
		}

		failed++
	}

	m.logJobComplete(jobName, fmt.Sprintf("Failed %d stale generation task(s)", failed))
}

// CleanupOldData removes aged rows that only exist for observability:
// completed generation tasks and cron job logs past their retention windows.
func (m *CronManager) CleanupOldData() {
	jobName := "cleanup_old_data"

	taskCutoff := time.Now().AddDate(0, 0, -30)
	taskResult := m.db.Unscoped().
		Where("status IN ? AND completed_at < ?",
			[]string{model.TaskStatusCompleted, model.TaskStatusFailed}, taskCutoff).
		Delete(&model.GenerationTask{})
	if taskResult.Error != nil {
		m.logJobError(jobName, taskResult.Error)
		return
	}

	logCutoff := time.Now().AddDate(0, 0, -90)
	logResult := m.db.Unscoped().
		Where("created_at < ?", logCutoff).
		Delete(&model.CronJobLog{})
	if logResult.Error != nil {
		m.logJobError(jobName, logResult.Error)
		return
	}

	m.logJobComplete(jobName, fmt.Sprintf(
		"Deleted %d old generation task(s) and %d old cron log(s)",
		taskResult.RowsAffected, logResult.RowsAffected))
}

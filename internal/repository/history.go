package repository

import (
	"github.com/miroshx/task-tracker/internal/models"
	"gorm.io/gorm"
)

// HistoryRecorder appends immutable audit entries for task mutations.
// The task id is passed explicitly; attributing the entry by "most recently
// updated task" would mis-file it under concurrent writers.
type HistoryRecorder struct{}

// Record writes one history row inside the caller's transaction. For create
// entries the recorded status is always to_do, whatever the input carried.
func (HistoryRecorder) Record(tx *gorm.DB, taskID uint, changes models.ChangeSet, actor *models.User, change models.TaskChangeType) error {
	if change == models.ChangeCreate {
		changes["status"] = string(models.StatusToDo)
	}
	entry := models.TaskHistory{
		TaskID:     taskID,
		ChangeType: change,
		ChangeData: changes,
		UserID:     actor.ID,
	}
	return tx.Create(&entry).Error
}

// ForTask returns a task's history ordered by timestamp ascending. Rows
// survive deletion of the task itself, so this never checks task existence.
func (HistoryRecorder) ForTask(db *gorm.DB, taskID uint) ([]models.TaskHistory, error) {
	var entries []models.TaskHistory
	err := db.Where("task_id = ?", taskID).Order("timestamp ASC").Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

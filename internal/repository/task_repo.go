package repository

import (
	"errors"
	"strings"

	"github.com/miroshx/task-tracker/internal/models"
	"github.com/miroshx/task-tracker/internal/workflow"
	"gorm.io/gorm"
)

// TaskInput carries the mutable task fields for create and update operations.
// Status is ignored on create (tasks always start at to_do) and is the
// requested target status on update.
type TaskInput struct {
	Number      int
	Type        models.TaskType
	Priority    models.TaskPriority
	Status      models.TaskStatus
	Title       string
	Description string
	AssigneeID  *uint
}

// changes flattens the input into the history payload.
func (in TaskInput) changes() models.ChangeSet {
	cs := models.ChangeSet{
		"number":      in.Number,
		"type":        string(in.Type),
		"priority":    string(in.Priority),
		"status":      string(in.Status),
		"title":       in.Title,
		"description": in.Description,
	}
	if in.AssigneeID != nil {
		cs["assignee_id"] = *in.AssigneeID
	} else {
		cs["assignee_id"] = nil
	}
	return cs
}

// SearchFilter holds the optional search criteria; zero values mean
// "not filtered". Supplied filters are combined with AND.
type SearchFilter struct {
	Text     string
	ID       uint
	Creator  string
	Assignee string
}

// TaskRepository owns task CRUD, workflow transitions and parent/child
// linkage. Every mutating operation runs in its own transaction and writes
// exactly one history row; validation happens before anything is written.
type TaskRepository struct {
	db      *gorm.DB
	history HistoryRecorder
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// resolveAssignee loads the referenced user, or nil for an unassigned task.
func resolveAssignee(tx *gorm.DB, id *uint) (*models.User, error) {
	if id == nil {
		return nil, nil
	}
	return store[models.User]{db: tx}.byID(*id)
}

// numberTaken reports whether another task (excluding excludeID, 0 for none)
// already uses the given number. Checked up front so a user-supplied duplicate
// fails as a validation error instead of a constraint violation.
func numberTaken(tx *gorm.DB, number int, excludeID uint) (bool, error) {
	var count int64
	query := tx.Model(&models.Task{}).Where("number = ?", number)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Create persists a new task for creator. The task starts at to_do no matter
// what status the input carries; the assignee must be valid for to_do.
func (r *TaskRepository) Create(input TaskInput, creator *models.User) (*models.Task, error) {
	return r.create(input, nil, creator)
}

// CreateChild persists a new task linked under parentID, which must resolve
// to an existing task.
func (r *TaskRepository) CreateChild(input TaskInput, parentID uint, creator *models.User) (*models.Task, error) {
	return r.create(input, &parentID, creator)
}

func (r *TaskRepository) create(input TaskInput, parentID *uint, creator *models.User) (*models.Task, error) {
	if input.Type == "" {
		input.Type = models.TypeTask
	}
	if input.Priority == "" {
		input.Priority = models.PriorityLow
	}

	var task models.Task
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if parentID != nil {
			if _, err := (store[models.Task]{db: tx}).byID(*parentID); err != nil {
				return err
			}
		}
		if taken, err := numberTaken(tx, input.Number, 0); err != nil {
			return err
		} else if taken {
			return ErrDuplicateNumber
		}
		assignee, err := resolveAssignee(tx, input.AssigneeID)
		if err != nil {
			return err
		}
		if !workflow.IsValidAssignee(models.StatusToDo, assignee) {
			return ErrInvalidAssignee
		}

		task = models.Task{
			Number:      input.Number,
			Type:        input.Type,
			Priority:    input.Priority,
			Status:      models.StatusToDo,
			Title:       input.Title,
			Description: input.Description,
			CreatorID:   creator.ID,
			AssigneeID:  input.AssigneeID,
			ParentID:    parentID,
		}
		if err := tx.Create(&task).Error; err != nil {
			return err
		}
		return r.history.Record(tx, task.ID, input.changes(), creator, models.ChangeCreate)
	})
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// GetByID returns the task with its direct children, creator and assignee
// loaded. A miss is always ErrNotFound.
func (r *TaskRepository) GetByID(id uint) (*models.Task, error) {
	var task models.Task
	err := r.db.Preload("Children").Preload("Creator").Preload("Assignee").First(&task, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &task, nil
}

// Update overwrites all mutable fields of a task. The requested status must
// be to_do, wontfix, the current status or its single successor; the assignee
// must be valid for the requested status. On any failure nothing is written.
func (r *TaskRepository) Update(input TaskInput, id uint, actor *models.User) (*models.Task, error) {
	var task models.Task
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&task, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if !workflow.IsValidTransition(task.Status, input.Status) {
			return ErrInvalidTransition
		}
		if taken, err := numberTaken(tx, input.Number, task.ID); err != nil {
			return err
		} else if taken {
			return ErrDuplicateNumber
		}
		// Empty type/priority keep their current values.
		if input.Type == "" {
			input.Type = task.Type
		}
		if input.Priority == "" {
			input.Priority = task.Priority
		}
		assignee, err := resolveAssignee(tx, input.AssigneeID)
		if err != nil {
			return err
		}
		if !workflow.IsValidAssignee(input.Status, assignee) {
			return ErrInvalidAssignee
		}

		task.Number = input.Number
		task.Type = input.Type
		task.Priority = input.Priority
		task.Status = input.Status
		task.Title = input.Title
		task.Description = input.Description
		task.AssigneeID = input.AssigneeID
		if err := tx.Save(&task).Error; err != nil {
			return err
		}
		return r.history.Record(tx, task.ID, input.changes(), actor, models.ChangeUpdate)
	})
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// AdvanceStatus moves a task one step forward in the workflow. Terminal
// tasks (done, wontfix) cannot advance; wontfix is reachable only through
// Update. The assignee must be valid for the computed next status.
func (r *TaskRepository) AdvanceStatus(id uint, assigneeID *uint, actor *models.User) (*models.Task, error) {
	var task models.Task
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&task, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		next, err := workflow.Next(task.Status)
		if err != nil {
			return ErrInvalidTransition
		}
		assignee, err := resolveAssignee(tx, assigneeID)
		if err != nil {
			return err
		}
		if !workflow.IsValidAssignee(next, assignee) {
			return ErrInvalidAssignee
		}

		task.Status = next
		task.AssigneeID = assigneeID
		if err := tx.Save(&task).Error; err != nil {
			return err
		}
		changes := models.ChangeSet{"status": string(next)}
		if assigneeID != nil {
			changes["assignee_id"] = *assigneeID
		} else {
			changes["assignee_id"] = nil
		}
		return r.history.Record(tx, task.ID, changes, actor, models.ChangeUpdate)
	})
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// Delete hard-deletes a task. History rows are left in place as the audit
// trail; the manager-only rule is enforced by the caller.
func (r *TaskRepository) Delete(id uint) error {
	result := r.db.Delete(&models.Task{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Search returns tasks matching the conjunction of the supplied filters,
// ordered by last_updated_at ascending. Text matches title or description,
// creator/assignee match usernames; all substring matches are
// case-insensitive.
func (r *TaskRepository) Search(filter SearchFilter) ([]models.Task, error) {
	query := r.db.Model(&models.Task{}).Preload("Creator").Preload("Assignee")

	if filter.Text != "" {
		pattern := likePattern(filter.Text)
		query = query.Where("(LOWER(tasks.title) LIKE ? OR LOWER(tasks.description) LIKE ?)", pattern, pattern)
	}
	if filter.ID != 0 {
		query = query.Where("tasks.id = ?", filter.ID)
	}
	if filter.Creator != "" {
		query = query.
			Joins("JOIN users AS creators ON creators.id = tasks.creator_id").
			Where("LOWER(creators.username) LIKE ?", likePattern(filter.Creator))
	}
	if filter.Assignee != "" {
		query = query.
			Joins("JOIN users AS assignees ON assignees.id = tasks.assignee_id").
			Where("LOWER(assignees.username) LIKE ?", likePattern(filter.Assignee))
	}

	var tasks []models.Task
	if err := query.Order("tasks.last_updated_at ASC").Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

func likePattern(s string) string {
	return "%" + strings.ToLower(s) + "%"
}

// List returns all tasks with children loaded, ordered by one of the fixed
// sort keys. An unrecognized key fails with ErrBadSortKey.
func (r *TaskRepository) List(sortKey string) ([]models.Task, error) {
	clause, err := OrderClause(sortKey)
	if err != nil {
		return nil, err
	}
	var tasks []models.Task
	err = r.db.Preload("Children").Preload("Creator").Preload("Assignee").
		Order(clause).Find(&tasks).Error
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

// History returns the audit entries for a task, oldest first.
func (r *TaskRepository) History(taskID uint) ([]models.TaskHistory, error) {
	return r.history.ForTask(r.db, taskID)
}

package models

import (
	"time"
)

// TaskStatus represents a task's position in the workflow
type TaskStatus string

const (
	StatusToDo       TaskStatus = "to_do"
	StatusInProgress TaskStatus = "in_progress"
	StatusCodeReview TaskStatus = "code_review"
	StatusDevTest    TaskStatus = "dev_test"
	StatusTesting    TaskStatus = "testing"
	StatusDone       TaskStatus = "done"
	StatusWontfix    TaskStatus = "wontfix"
)

// TaskPriority represents the priority of a task
type TaskPriority string

const (
	PriorityCritical TaskPriority = "critical"
	PriorityHigh     TaskPriority = "high"
	PriorityMedium   TaskPriority = "medium"
	PriorityLow      TaskPriority = "low"
)

// TaskType represents the type of a task (task, bug)
type TaskType string

const (
	TypeTask TaskType = "task"
	TypeBug  TaskType = "bug"
)

// Task represents a task in the system.
// LastUpdatedAt is bumped by GORM on every write; search ordering relies on it.
type Task struct {
	ID            uint         `json:"id" gorm:"primaryKey"`
	Number        int          `json:"number" gorm:"uniqueIndex;not null"`
	Type          TaskType     `json:"type" gorm:"not null;default:'task'"`
	Priority      TaskPriority `json:"priority" gorm:"not null;default:'low'"`
	Status        TaskStatus   `json:"status" gorm:"not null;default:'to_do'"`
	Title         string       `json:"title" gorm:"index"`
	Description   string       `json:"description"`
	CreatedAt     time.Time    `json:"created_at" gorm:"autoCreateTime"`
	LastUpdatedAt time.Time    `json:"last_updated_at" gorm:"column:last_updated_at;autoUpdateTime"`
	CreatorID     uint         `json:"creator_id" gorm:"not null"`
	Creator       *User        `json:"creator,omitempty" gorm:"foreignKey:CreatorID"`
	AssigneeID    *uint        `json:"assignee_id"`
	Assignee      *User        `json:"assignee,omitempty" gorm:"foreignKey:AssigneeID"`
	ParentID      *uint        `json:"parent_id"`
	Children      []Task       `json:"children,omitempty" gorm:"foreignKey:ParentID"`
}

// TableName specifies the table name for Task Model
func (Task) TableName() string {
	return "tasks"
}

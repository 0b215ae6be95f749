package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// TaskChangeType classifies a history entry
type TaskChangeType string

const (
	ChangeCreate TaskChangeType = "create"
	ChangeUpdate TaskChangeType = "update"
)

// ChangeSet is the structured payload of fields touched by one mutation.
// It is stored as a JSON column.
type ChangeSet map[string]any

// Value implements driver.Valuer.
func (c ChangeSet) Value() (driver.Value, error) {
	if c == nil {
		return nil, nil
	}
	b, err := json.Marshal(c)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (c *ChangeSet) Scan(src any) error {
	if src == nil {
		*c = nil
		return nil
	}
	var b []byte
	switch v := src.(type) {
	case []byte:
		b = v
	case string:
		b = []byte(v)
	default:
		return fmt.Errorf("unsupported change_data column type %T", src)
	}
	return json.Unmarshal(b, c)
}

// TaskHistory is an immutable audit entry for one task mutation.
// Rows are only ever inserted; nothing in the system updates or deletes them,
// and deleting a task leaves its history behind on purpose.
type TaskHistory struct {
	ID         uint           `json:"id" gorm:"primaryKey"`
	TaskID     uint           `json:"task_id" gorm:"index;not null"`
	ChangeType TaskChangeType `json:"change_type" gorm:"not null"`
	ChangeData ChangeSet      `json:"change_data" gorm:"type:text"`
	Timestamp  time.Time      `json:"timestamp" gorm:"autoCreateTime"`
	UserID     uint           `json:"user_id"`
}

// TableName specifies the table name for TaskHistory Model
func (TaskHistory) TableName() string {
	return "task_history"
}

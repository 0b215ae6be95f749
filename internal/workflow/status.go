package workflow

import (
	"errors"

	"github.com/miroshx/task-tracker/internal/models"
)

// ErrInvalidState is returned when a status has no successor in the sequence.
var ErrInvalidState = errors.New("status has no next state")

// sequence is the fixed forward order of the workflow. wontfix sits outside
// it as a side-exit reachable from any status via explicit update only.
var sequence = []models.TaskStatus{
	models.StatusToDo,
	models.StatusInProgress,
	models.StatusCodeReview,
	models.StatusDevTest,
	models.StatusTesting,
	models.StatusDone,
}

// Next returns the status immediately following current in the sequence.
// done and wontfix have no successor.
func Next(current models.TaskStatus) (models.TaskStatus, error) {
	for i, s := range sequence {
		if s == current {
			if i == len(sequence)-1 {
				return "", ErrInvalidState
			}
			return sequence[i+1], nil
		}
	}
	return "", ErrInvalidState
}

// KnownStatus reports whether s is one of the workflow statuses.
func KnownStatus(s models.TaskStatus) bool {
	if s == models.StatusWontfix {
		return true
	}
	for _, st := range sequence {
		if st == s {
			return true
		}
	}
	return false
}

// IsValidTransition reports whether a task may move from current to requested.
// Allowed targets are a reset to to_do, an abandon to wontfix, the single
// next status in the sequence, or staying put.
func IsValidTransition(current, requested models.TaskStatus) bool {
	if requested == models.StatusToDo || requested == models.StatusWontfix {
		return true
	}
	if requested == current {
		return KnownStatus(requested)
	}
	next, err := Next(current)
	if err != nil {
		return false
	}
	return requested == next
}

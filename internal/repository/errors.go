package repository

import "errors"

// Sentinel errors surfaced by the repositories. Handlers translate these to
// HTTP statuses; anything else is a storage failure.
var (
	ErrNotFound          = errors.New("record not found")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrInvalidAssignee   = errors.New("assignee not allowed for status")
	ErrBadSortKey        = errors.New("unknown sort key")
	ErrUsernameTaken     = errors.New("username already taken")
	ErrDuplicateNumber   = errors.New("task number already in use")
)

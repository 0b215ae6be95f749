package workflow

import (
	"github.com/miroshx/task-tracker/internal/models"
)

// IsValidAssignee decides whether assignee may hold a task in targetStatus.
// A nil assignee is fine everywhere except in_progress, which requires one.
// Team leads are unconstrained; test engineers may not hold a task mid
// development (in_progress, code_review, dev_test); developers may not hold
// one in testing. Every other role/status combination is invalid.
func IsValidAssignee(targetStatus models.TaskStatus, assignee *models.User) bool {
	if assignee == nil {
		return targetStatus != models.StatusInProgress
	}
	switch assignee.Role {
	case models.RoleTeamLead:
		return true
	case models.RoleTestEngineer:
		switch targetStatus {
		case models.StatusInProgress, models.StatusCodeReview, models.StatusDevTest:
			return false
		}
		return true
	case models.RoleDeveloper:
		return targetStatus != models.StatusTesting
	}
	return false
}

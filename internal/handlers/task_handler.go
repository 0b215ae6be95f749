package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/miroshx/task-tracker/internal/cache"
	"github.com/miroshx/task-tracker/internal/database"
	"github.com/miroshx/task-tracker/internal/middleware"
	"github.com/miroshx/task-tracker/internal/models"
	"github.com/miroshx/task-tracker/internal/repository"

	"github.com/gin-gonic/gin"
)

// ListCacheTTL bounds how long a listing response may be served from cache.
// Overridden from config at startup.
var ListCacheTTL = 60 * time.Second

// listCache holds listing results per sort key. It is cleared on every task
// mutation so cached and direct reads always agree.
var listCache = cache.New[string, []models.Task]()

func taskRepo() *repository.TaskRepository {
	return repository.NewTaskRepository(database.GetDB())
}

// TaskRequest is the payload for creating or updating a task. Status is
// ignored on create and required on update.
type TaskRequest struct {
	Number      int                 `json:"number" binding:"required"`
	Type        models.TaskType     `json:"type" binding:"omitempty,oneof=task bug"`
	Priority    models.TaskPriority `json:"priority" binding:"omitempty,oneof=critical high medium low"`
	Status      models.TaskStatus   `json:"status"`
	Title       string              `json:"title" binding:"required"`
	Description string              `json:"description"`
	AssigneeID  *uint               `json:"assignee_id"`
}

func (req TaskRequest) toInput() repository.TaskInput {
	return repository.TaskInput{
		Number:      req.Number,
		Type:        req.Type,
		Priority:    req.Priority,
		Status:      req.Status,
		Title:       req.Title,
		Description: req.Description,
		AssigneeID:  req.AssigneeID,
	}
}

// writeRepoError maps repository errors onto HTTP statuses: validation
// failures are bad requests, misses are 404, everything else is a storage
// failure.
func writeRepoError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	case errors.Is(err, repository.ErrInvalidTransition),
		errors.Is(err, repository.ErrInvalidAssignee),
		errors.Is(err, repository.ErrBadSortKey),
		errors.Is(err, repository.ErrUsernameTaken),
		errors.Is(err, repository.ErrDuplicateNumber):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Storage failure"})
	}
}

/// parseID reads the :id path param; it names a task on the task routes and a
// user on the user routes, so the error stays generic.
func parseID(c *gin.Context) (uint, bool) {
	id64, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid id"})
		return 0, false
	}
	return uint(id64), true
}

// CreateTask handles POST /api/tasks.
// New tasks always start at to_do, whatever status the payload carries.
func CreateTask(c *gin.Context) {
	var req TaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task, err := taskRepo().Create(req.toInput(), middleware.CurrentUser(c))
	if err != nil {
		writeRepoError(c, err)
		return
	}

	listCache.Clear()
	c.JSON(http.StatusCreated, task)
}

// CreateChildTask handles POST /api/tasks/:id/children.
// The path id names the parent, which must exist.
func CreateChildTask(c *gin.Context) {
	parentID, ok := parseID(c)
	if !ok {
		return
	}

	var req TaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task, err := taskRepo().CreateChild(req.toInput(), parentID, middleware.CurrentUser(c))
	if err != nil {
		writeRepoError(c, err)
		return
	}

	listCache.Clear()
	c.JSON(http.StatusCreated, task)
}

// GetTaskByID handles GET /api/tasks/:id.
// The task comes back with its direct children loaded.
func GetTaskByID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	task, err := taskRepo().GetByID(id)
	if err != nil {
		writeRepoError(c, err)
		return
	}

	c.JSON(http.StatusOK, task)
}

// ListTasks handles GET /api/tasks?sort=KEY.
// Responses are cached per sort key for ListCacheTTL.
func ListTasks(c *gin.Context) {
	sortKey := c.Query("sort")
	if sortKey == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "sort query parameter is required"})
		return
	}

	if tasks, ok := listCache.Get(sortKey); ok {
		c.JSON(http.StatusOK, gin.H{"tasks": tasks, "count": len(tasks)})
		return
	}

	tasks, err := taskRepo().List(sortKey)
	if err != nil {
		writeRepoError(c, err)
		return
	}

	listCache.Set(sortKey, tasks, ListCacheTTL)
	c.JSON(http.StatusOK, gin.H{"tasks": tasks, "count": len(tasks)})
}

// UpdateTask handles PUT /api/tasks/:id.
// The whole mutable field set is replaced; an invalid status transition or
// assignee rejects the update with nothing applied.
func UpdateTask(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req TaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Status == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "status is required"})
		return
	}

	task, err := taskRepo().Update(req.toInput(), id, middleware.CurrentUser(c))
	if err != nil {
		writeRepoError(c, err)
		return
	}

	listCache.Clear()
	c.JSON(http.StatusOK, task)
}

// AdvanceTaskStatus handles PATCH /api/tasks/:id/next-status.
// Moves the task one step forward; optional assignee_id query param sets the
// new assignee (omitted means unassigned).
func AdvanceTaskStatus(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var assigneeID *uint
	if raw := c.Query("assignee_id"); raw != "" && raw != "0" {
		v, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid assignee_id"})
			return
		}
		u := uint(v)
		assigneeID = &u
	}

	task, err := taskRepo().AdvanceStatus(id, assigneeID, middleware.CurrentUser(c))
	if err != nil {
		writeRepoError(c, err)
		return
	}

	listCache.Clear()
	c.JSON(http.StatusOK, task)
}

// DeleteTask handles DELETE /api/tasks/:id (manager only, enforced in the
// route chain). History rows for the task are left behind as audit trail.
func DeleteTask(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := taskRepo().Delete(id); err != nil {
		writeRepoError(c, err)
		return
	}

	listCache.Clear()
	c.JSON(http.StatusOK, gin.H{
		"message": "Task deleted successfully",
		"id":      id,
	})
}

// SearchTasks handles GET /api/tasks/search.
// All supplied filters are ANDed; results come back ordered by
// last_updated_at ascending.
func SearchTasks(c *gin.Context) {
	filter := repository.SearchFilter{
		Text:     c.Query("text"),
		Creator:  c.Query("creator"),
		Assignee: c.Query("assignee"),
	}
	if raw := c.Query("id"); raw != "" {
		v, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid id filter"})
			return
		}
		filter.ID = uint(v)
	}

	tasks, err := taskRepo().Search(filter)
	if err != nil {
		writeRepoError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"tasks": tasks, "count": len(tasks)})
}

// GetTaskHistory handles GET /api/tasks/:id/history.
// Entries survive task deletion, so this works for deleted tasks too.
func GetTaskHistory(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	entries, err := taskRepo().History(id)
	if err != nil {
		writeRepoError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"history": entries, "count": len(entries)})
}

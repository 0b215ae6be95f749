package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/miroshx/task-tracker/internal/auth"
	"github.com/miroshx/task-tracker/internal/database"
	"github.com/miroshx/task-tracker/internal/middleware"
	"github.com/miroshx/task-tracker/internal/models"
	"github.com/miroshx/task-tracker/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupTaskRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db, err := testutil.NewInMemoryDB()
	require.NoError(t, err)
	database.DB = db
	listCache.Clear()

	r := gin.New()
	api := r.Group("/api")
	api.Use(middleware.AuthMiddleware(db))
	api.POST("/tasks", CreateTask)
	api.POST("/tasks/:id/children", CreateChildTask)
	api.GET("/tasks", ListTasks)
	api.GET("/tasks/search", SearchTasks)
	api.GET("/tasks/:id", GetTaskByID)
	api.GET("/tasks/:id/history", GetTaskHistory)
	api.PUT("/tasks/:id", UpdateTask)
	api.PATCH("/tasks/:id/next-status", AdvanceTaskStatus)
	api.DELETE("/tasks/:id", middleware.RequireManager(), DeleteTask)
	return r, db
}

func bearerFor(t *testing.T, user *models.User) string {
	t.Helper()
	token, err := auth.GenerateToken(user.ID, user.Username, time.Hour)
	require.NoError(t, err)
	return "Bearer " + token
}

func doJSON(t *testing.T, r *gin.Engine, method, path, authHeader string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	var body *bytes.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	} else {
		body = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCreateTask_AlwaysStartsAtToDo(t *testing.T) {
	r, db := setupTaskRouter(t)
	lead, err := testutil.SeedUser(db, "lead", models.RoleTeamLead)
	require.NoError(t, err)

	w := doJSON(t, r, http.MethodPost, "/api/tasks", bearerFor(t, lead), map[string]any{
		"number": 1,
		"title":  "First",
		"status": "done", // must be overridden
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var created models.Task
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	require.Equal(t, models.StatusToDo, created.Status)

	// One create history row with status forced to to_do.
	var entries []models.TaskHistory
	require.NoError(t, db.Where("task_id = ?", created.ID).Find(&entries).Error)
	require.Len(t, entries, 1)
	require.Equal(t, models.ChangeCreate, entries[0].ChangeType)
	require.Equal(t, "to_do", entries[0].ChangeData["status"])
}

func TestCreateTask_DuplicateNumberIsBadRequest(t *testing.T) {
	r, db := setupTaskRouter(t)
	lead, err := testutil.SeedUser(db, "lead", models.RoleTeamLead)
	require.NoError(t, err)

	token := bearerFor(t, lead)
	w := doJSON(t, r, http.MethodPost, "/api/tasks", token, map[string]any{
		"number": 5,
		"title":  "First",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	// Reusing the number is a client error, not a storage failure.
	w = doJSON(t, r, http.MethodPost, "/api/tasks", token, map[string]any{
		"number": 5,
		"title":  "Second",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Contains(t, w.Body.String(), "task number already in use")
}

func TestCreateChildTask_UnknownParent(t *testing.T) {
	r, db := setupTaskRouter(t)
	lead, err := testutil.SeedUser(db, "lead", models.RoleTeamLead)
	require.NoError(t, err)

	w := doJSON(t, r, http.MethodPost, "/api/tasks/99/children", bearerFor(t, lead), map[string]any{
		"number": 2,
		"title":  "child",
	})
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateTask_InvalidAssigneeRejected(t *testing.T) {
	r, db := setupTaskRouter(t)
	lead, err := testutil.SeedUser(db, "lead", models.RoleTeamLead)
	require.NoError(t, err)
	dev, err := testutil.SeedUser(db, "dev", models.RoleDeveloper)
	require.NoError(t, err)

	w := doJSON(t, r, http.MethodPost, "/api/tasks", bearerFor(t, lead), map[string]any{
		"number": 1, "title": "T",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var created models.Task
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	// A status jump past the successor is a bad request.
	w = doJSON(t, r, http.MethodPut, fmt.Sprintf("/api/tasks/%d", created.ID), bearerFor(t, lead), map[string]any{
		"number": 1, "title": "T", "status": "testing", "assignee_id": dev.ID,
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdvanceTask_Flow(t *testing.T) {
	r, db := setupTaskRouter(t)
	lead, err := testutil.SeedUser(db, "lead", models.RoleTeamLead)
	require.NoError(t, err)
	dev, err := testutil.SeedUser(db, "dev", models.RoleDeveloper)
	require.NoError(t, err)

	w := doJSON(t, r, http.MethodPost, "/api/tasks", bearerFor(t, lead), map[string]any{
		"number": 1, "title": "T",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var created models.Task
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	// Advancing into in_progress without an assignee is rejected.
	w = doJSON(t, r, http.MethodPatch, fmt.Sprintf("/api/tasks/%d/next-status", created.ID), bearerFor(t, lead), nil)
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodPatch,
		fmt.Sprintf("/api/tasks/%d/next-status?assignee_id=%d", created.ID, dev.ID), bearerFor(t, lead), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var advanced models.Task
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &advanced))
	require.Equal(t, models.StatusInProgress, advanced.Status)
}

func TestDeleteTask_ManagerOnly(t *testing.T) {
	r, db := setupTaskRouter(t)
	lead, err := testutil.SeedUser(db, "lead", models.RoleTeamLead)
	require.NoError(t, err)
	mgr, err := testutil.SeedUser(db, "boss", models.RoleManager)
	require.NoError(t, err)

	w := doJSON(t, r, http.MethodPost, "/api/tasks", bearerFor(t, lead), map[string]any{
		"number": 1, "title": "T",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var created models.Task
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	w = doJSON(t, r, http.MethodDelete, fmt.Sprintf("/api/tasks/%d", created.ID), bearerFor(t, lead), nil)
	require.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(t, r, http.MethodDelete, fmt.Sprintf("/api/tasks/%d", created.ID), bearerFor(t, mgr), nil)
	require.Equal(t, http.StatusOK, w.Code)

	// History outlives the task.
	w = doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/tasks/%d/history", created.ID), bearerFor(t, mgr), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Count int `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, 1, resp.Count)
}

func TestListTasks_SortKeys(t *testing.T) {
	r, db := setupTaskRouter(t)
	lead, err := testutil.SeedUser(db, "lead", models.RoleTeamLead)
	require.NoError(t, err)

	for _, n := range []int{2, 1} {
		w := doJSON(t, r, http.MethodPost, "/api/tasks", bearerFor(t, lead), map[string]any{
			"number": n, "title": fmt.Sprintf("task %d", n),
		})
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w := doJSON(t, r, http.MethodGet, "/api/tasks?sort=number_asc", bearerFor(t, lead), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Tasks []models.Task `json:"tasks"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Tasks, 2)
	require.Equal(t, 1, resp.Tasks[0].Number)

	w = doJSON(t, r, http.MethodGet, "/api/tasks?sort=bogus", bearerFor(t, lead), nil)
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/tasks", bearerFor(t, lead), nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListTasks_CacheStaysConsistent(t *testing.T) {
	r, db := setupTaskRouter(t)
	lead, err := testutil.SeedUser(db, "lead", models.RoleTeamLead)
	require.NoError(t, err)

	w := doJSON(t, r, http.MethodGet, "/api/tasks?sort=number_asc", bearerFor(t, lead), nil)
	require.Equal(t, http.StatusOK, w.Code)

	// A mutation clears the cache, so the next read sees the new task.
	w = doJSON(t, r, http.MethodPost, "/api/tasks", bearerFor(t, lead), map[string]any{
		"number": 1, "title": "fresh",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/tasks?sort=number_asc", bearerFor(t, lead), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Count int `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, 1, resp.Count)
}

func TestSearchTasks_ByCreator(t *testing.T) {
	r, db := setupTaskRouter(t)
	alice, err := testutil.SeedUser(db, "alice", models.RoleTeamLead)
	require.NoError(t, err)
	bob, err := testutil.SeedUser(db, "bob", models.RoleTeamLead)
	require.NoError(t, err)

	w := doJSON(t, r, http.MethodPost, "/api/tasks", bearerFor(t, alice), map[string]any{
		"number": 1, "title": "hers",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	w = doJSON(t, r, http.MethodPost, "/api/tasks", bearerFor(t, bob), map[string]any{
		"number": 2, "title": "his",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/tasks/search?creator=ali", bearerFor(t, alice), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Tasks []models.Task `json:"tasks"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Tasks, 1)
	require.Equal(t, "hers", resp.Tasks[0].Title)
}

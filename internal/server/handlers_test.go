package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/balkashynov/taskboard/internal/db"
	"github.com/balkashynov/taskboard/internal/models"
)

func setupServer(t *testing.T) *Server {
	t.Helper()
	require.NoError(t, db.Initialize(":memory:"))
	t.Cleanup(func() {
		_ = db.Close()
		db.DB = nil
	})
	return New(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func doJSON(t *testing.T, s *Server, method, path string, body any) (*http.Response, map[string]json.RawMessage) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.App().Test(req, -1)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()

	var envelope map[string]json.RawMessage
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &envelope))
	}
	return resp, envelope
}

func decodeTask(t *testing.T, s *Server, method, path string, body any, wantStatus int) models.Task {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.App().Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, wantStatus, resp.StatusCode)

	var task models.Task
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&task))
	return task
}

func createCategory(t *testing.T, s *Server, name string) models.Category {
	t.Helper()

	var buf bytes.Buffer
	require.NoError(t, json.NewEncoder(&buf).Encode(map[string]string{"name": name}))
	req := httptest.NewRequest(http.MethodPost, "/categories", &buf)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.App().Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var category models.Category
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&category))
	return category
}

func futureDate() string {
	return time.Now().AddDate(0, 0, 7).Format("2006-01-02")
}

func taskBody(categoryID uint) map[string]any {
	return map[string]any{
		"name":        "Write report",
		"description": "Quarterly numbers",
		"duedate":     futureDate(),
		"owner":       "alice",
		"categoryId":  categoryID,
	}
}

func TestCreateCategoryEndpoint(t *testing.T) {
	s := setupServer(t)

	category := createCategory(t, s, "Work")
	assert.NotZero(t, category.ID)
	assert.Equal(t, "Work", category.Name)
}

func TestCreateCategoryValidation(t *testing.T) {
	s := setupServer(t)

	resp, envelope := doJSON(t, s, http.MethodPost, "/categories", map[string]string{"name": ""})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var errs map[string]string
	require.NoError(t, json.Unmarshal(envelope["errors"], &errs))
	assert.Equal(t, "A category value is required.", errs["name"])
}

func TestListCategoriesEndpoint(t *testing.T) {
	s := setupServer(t)
	createCategory(t, s, "Work")
	createCategory(t, s, "Home")

	req := httptest.NewRequest(http.MethodGet, "/categories", nil)
	resp, err := s.App().Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var categories []models.Category
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&categories))
	assert.Len(t, categories, 2)
}

func TestCreateTaskEndpoint(t *testing.T) {
	s := setupServer(t)
	category := createCategory(t, s, "Work")

	body := taskBody(category.ID)
	// A client-sent status must not survive; new tasks are always OPEN
	body["status"] = models.StatusClosed

	task := decodeTask(t, s, http.MethodPost, "/tasks", body, http.StatusCreated)
	assert.NotZero(t, task.ID)
	assert.Equal(t, models.StatusOpen, task.Status)
	assert.Equal(t, "alice", task.Owner)
	require.NotNil(t, task.Category)
	assert.Equal(t, "Work", task.Category.Name)
}

// Category id arrives as a number from some clients and a string from
// others; both must coerce.
func TestCreateTaskCategoryIDAsString(t *testing.T) {
	s := setupServer(t)
	category := createCategory(t, s, "Work")

	body := taskBody(category.ID)
	body["categoryId"] = fmt.Sprintf("%d", category.ID)

	task := decodeTask(t, s, http.MethodPost, "/tasks", body, http.StatusCreated)
	assert.Equal(t, category.ID, task.CategoryID)
}

func TestCreateTaskValidationErrors(t *testing.T) {
	s := setupServer(t)

	resp, envelope := doJSON(t, s, http.MethodPost, "/tasks", map[string]any{
		"name":        "",
		"description": "",
		"duedate":     "2020-01-01",
		"owner":       "",
		"categoryId":  0,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var errs map[string]string
	require.NoError(t, json.Unmarshal(envelope["errors"], &errs))
	assert.Equal(t, "Title is required.", errs["name"])
	assert.Equal(t, "Owner is required.", errs["owner"])
	assert.Equal(t, "Due date cannot be earlier than today.", errs["duedate"])
	assert.Equal(t, "Category ID must be a positive integer.", errs["categoryId"])
}

func TestListTasksEndpoint(t *testing.T) {
	s := setupServer(t)
	category := createCategory(t, s, "Work")
	created := decodeTask(t, s, http.MethodPost, "/tasks", taskBody(category.ID), http.StatusCreated)

	deleted := decodeTask(t, s, http.MethodPost, "/tasks", taskBody(category.ID), http.StatusCreated)
	decodeTask(t, s, http.MethodPut, "/tasks",
		map[string]any{"id": deleted.ID, "status": models.StatusDeleted}, http.StatusOK)

	req := httptest.NewRequest(http.MethodGet, "/tasks", nil)
	resp, err := s.App().Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var tasks []models.Task
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&tasks))
	require.Len(t, tasks, 1)
	assert.Equal(t, created.ID, tasks[0].ID)
}

func TestGetTaskEndpoint(t *testing.T) {
	s := setupServer(t)
	category := createCategory(t, s, "Work")
	created := decodeTask(t, s, http.MethodPost, "/tasks", taskBody(category.ID), http.StatusCreated)

	task := decodeTask(t, s, http.MethodGet, fmt.Sprintf("/tasks/%d", created.ID), nil, http.StatusOK)
	assert.Equal(t, created.ID, task.ID)
}

func TestGetTaskErrors(t *testing.T) {
	s := setupServer(t)

	resp, envelope := doJSON(t, s, http.MethodGet, "/tasks/abc", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.JSONEq(t, `"Invalid task ID"`, string(envelope["error"]))

	resp, envelope = doJSON(t, s, http.MethodGet, "/tasks/9999", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.JSONEq(t, `"Task not found"`, string(envelope["error"]))
}

func TestUpdateTaskEndpoint(t *testing.T) {
	s := setupServer(t)
	work := createCategory(t, s, "Work")
	home := createCategory(t, s, "Home")
	created := decodeTask(t, s, http.MethodPost, "/tasks", taskBody(work.ID), http.StatusCreated)

	task := decodeTask(t, s, http.MethodPut, fmt.Sprintf("/tasks/%d", created.ID), map[string]any{
		"name":        "Paint fence",
		"description": "White, two coats",
		"duedate":     futureDate(),
		"owner":       "bob",
		"status":      models.StatusInProgress,
		"categoryId":  home.ID,
	}, http.StatusOK)

	assert.Equal(t, "Paint fence", task.Name)
	assert.Equal(t, "bob", task.Owner)
	assert.Equal(t, models.StatusInProgress, task.Status)
	assert.Equal(t, home.ID, task.CategoryID)
}

func TestUpdateTaskErrors(t *testing.T) {
	s := setupServer(t)
	category := createCategory(t, s, "Work")
	created := decodeTask(t, s, http.MethodPost, "/tasks", taskBody(category.ID), http.StatusCreated)
	path := fmt.Sprintf("/tasks/%d", created.ID)

	tests := []struct {
		name       string
		path       string
		body       map[string]any
		wantStatus int
		wantError  string
	}{
		{
			name:       "bad id",
			path:       "/tasks/abc",
			body:       taskBody(category.ID),
			wantStatus: http.StatusBadRequest,
			wantError:  "Invalid task ID",
		},
		{
			name: "bad due date",
			path: path,
			body: map[string]any{
				"name": "x", "description": "y", "duedate": "nope",
				"owner": "alice", "status": models.StatusOpen, "categoryId": category.ID,
			},
			wantStatus: http.StatusBadRequest,
			wantError:  "Invalid due date",
		},
		{
			name: "bad category id",
			path: path,
			body: map[string]any{
				"name": "x", "description": "y", "duedate": futureDate(),
				"owner": "alice", "status": models.StatusOpen, "categoryId": "abc",
			},
			wantStatus: http.StatusBadRequest,
			wantError:  "Invalid category ID",
		},
		{
			name: "bad status",
			path: path,
			body: map[string]any{
				"name": "x", "description": "y", "duedate": futureDate(),
				"owner": "alice", "status": "DONE", "categoryId": category.ID,
			},
			wantStatus: http.StatusBadRequest,
			wantError:  "Invalid status",
		},
		{
			name: "missing task",
			path: "/tasks/9999",
			body: map[string]any{
				"name": "x", "description": "y", "duedate": futureDate(),
				"owner": "alice", "status": models.StatusOpen, "categoryId": category.ID,
			},
			wantStatus: http.StatusNotFound,
			wantError:  "Task not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, envelope := doJSON(t, s, http.MethodPut, tt.path, tt.body)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			assert.JSONEq(t, fmt.Sprintf("%q", tt.wantError), string(envelope["error"]))
		})
	}
}

func TestUpdateTaskStatusEndpoint(t *testing.T) {
	s := setupServer(t)
	category := createCategory(t, s, "Work")
	created := decodeTask(t, s, http.MethodPost, "/tasks", taskBody(category.ID), http.StatusCreated)

	task := decodeTask(t, s, http.MethodPut, "/tasks",
		map[string]any{"id": created.ID, "status": models.StatusClosed}, http.StatusOK)
	assert.Equal(t, models.StatusClosed, task.Status)

	// Delete is a status write too; the row survives and stays fetchable
	task = decodeTask(t, s, http.MethodPut, "/tasks",
		map[string]any{"id": created.ID, "status": models.StatusDeleted}, http.StatusOK)
	assert.Equal(t, models.StatusDeleted, task.Status)

	task = decodeTask(t, s, http.MethodGet, fmt.Sprintf("/tasks/%d", created.ID), nil, http.StatusOK)
	assert.Equal(t, models.StatusDeleted, task.Status)
}

func TestUpdateTaskStatusErrors(t *testing.T) {
	s := setupServer(t)

	tests := []struct {
		name       string
		body       map[string]any
		wantStatus int
		wantError  string
	}{
		{
			name:       "missing id",
			body:       map[string]any{"status": models.StatusClosed},
			wantStatus: http.StatusBadRequest,
			wantError:  "Task ID is required",
		},
		{
			name:       "invalid status",
			body:       map[string]any{"id": 1, "status": "DONE"},
			wantStatus: http.StatusBadRequest,
			wantError:  "Invalid status",
		},
		{
			name:       "missing task",
			body:       map[string]any{"id": 9999, "status": models.StatusClosed},
			wantStatus: http.StatusNotFound,
			wantError:  "Task not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, envelope := doJSON(t, s, http.MethodPut, "/tasks", tt.body)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			assert.JSONEq(t, fmt.Sprintf("%q", tt.wantError), string(envelope["error"]))
		})
	}
}

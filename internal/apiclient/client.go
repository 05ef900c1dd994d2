// Package apiclient is the terminal client's view of the taskboard HTTP
// API. Wire errors map onto the same taxonomy the server uses: per-field
// validation errors, not-found, and a generic failure for everything else.
package apiclient

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/balkashynov/taskboard/internal/models"
)

// ErrNotFound is returned when the server reports a missing task
var ErrNotFound = errors.New("task not found")

// ValidationError carries the server's per-field error map
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for %d field(s)", len(e.Fields))
}

// TaskPayload is the wire shape for creating and updating tasks
type TaskPayload struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	DueDate     string `json:"duedate"`
	Owner       string `json:"owner"`
	CategoryID  uint   `json:"categoryId"`
	Status      string `json:"status,omitempty"`
}

type statusPayload struct {
	ID     uint   `json:"id"`
	Status string `json:"status"`
}

type categoryPayload struct {
	Name string `json:"name"`
}

// Client talks to a taskboard server. One client is constructed per
// program run and reused for every call.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a client for the given base URL, e.g. http://localhost:8080
func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// ListTasks fetches the default listing (DELETED rows already excluded,
// ordered by due date ascending).
func (c *Client) ListTasks() ([]models.Task, error) {
	var tasks []models.Task
	if err := c.do(http.MethodGet, "/tasks", nil, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// GetTask fetches a single task by id
func (c *Client) GetTask(id uint) (*models.Task, error) {
	var task models.Task
	if err := c.do(http.MethodGet, fmt.Sprintf("/tasks/%d", id), nil, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// CreateTask submits a new task. The server forces status to OPEN.
func (c *Client) CreateTask(p TaskPayload) (*models.Task, error) {
	var task models.Task
	if err := c.do(http.MethodPost, "/tasks", p, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// UpdateTask overwrites the full field set of a task
func (c *Client) UpdateTask(id uint, p TaskPayload) (*models.Task, error) {
	var task models.Task
	if err := c.do(http.MethodPut, fmt.Sprintf("/tasks/%d", id), p, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// UpdateTaskStatus uses the status-only update path; close and delete are
// both status transitions.
func (c *Client) UpdateTaskStatus(id uint, status string) (*models.Task, error) {
	var task models.Task
	if err := c.do(http.MethodPut, "/tasks", statusPayload{ID: id, Status: status}, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// ListCategories fetches all categories
func (c *Client) ListCategories() ([]models.Category, error) {
	var categories []models.Category
	if err := c.do(http.MethodGet, "/categories", nil, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// CreateCategory creates a new category
func (c *Client) CreateCategory(name string) (*models.Category, error) {
	var category models.Category
	if err := c.do(http.MethodPost, "/categories", categoryPayload{Name: name}, &category); err != nil {
		return nil, err
	}
	return &category, nil
}

// do performs one request and decodes either the success body into out or
// the error envelope into the matching error type.
func (c *Client) do(method, path string, body, out any) error {
	var reqBody *bytes.Buffer
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(raw)
	} else {
		reqBody = &bytes.Buffer{}
	}

	req, err := http.NewRequest(method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out == nil {
			return nil
		}
		return json.NewDecoder(resp.Body).Decode(out)
	}

	var envelope struct {
		Error  string            `json:"error"`
		Errors map[string]string `json:"errors"`
	}
	_ = json.NewDecoder(resp.Body).Decode(&envelope)

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case len(envelope.Errors) > 0:
		return &ValidationError{Fields: envelope.Errors}
	case envelope.Error != "":
		return errors.New(envelope.Error)
	default:
		return fmt.Errorf("server returned %s", resp.Status)
	}
}

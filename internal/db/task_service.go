package db

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/balkashynov/taskboard/internal/models"
)

// ErrTaskNotFound is returned when no task row matches the requested id.
var ErrTaskNotFound = errors.New("task not found")

// CreateTaskRequest holds the normalized data needed to create a new task
type CreateTaskRequest struct {
	Name        string
	Description string
	DueDate     time.Time
	Owner       string
	CategoryID  uint
}

// CreateTask creates a new task. The status is always forced to OPEN here,
// regardless of anything the caller submitted.
func CreateTask(req CreateTaskRequest) (*models.Task, error) {
	task := models.Task{
		Name:        req.Name,
		Description: req.Description,
		DueDate:     req.DueDate,
		Status:      models.StatusOpen,
		Owner:       req.Owner,
		CategoryID:  req.CategoryID,
	}

	if err := DB.Create(&task).Error; err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	// Load the category relationship for the response
	if err := DB.Preload("Category").First(&task, task.ID).Error; err != nil {
		return nil, fmt.Errorf("failed to reload task #%d: %w", task.ID, err)
	}

	return &task, nil
}

// GetTasks retrieves all tasks that are not soft-deleted, with their
// category joined, ordered by due date ascending.
func GetTasks() ([]models.Task, error) {
	var tasks []models.Task

	err := DB.Where("status <> ?", models.StatusDeleted).
		Preload("Category").
		Order("due_date ASC").
		Find(&tasks).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch tasks: %w", err)
	}

	return tasks, nil
}

// GetTaskByID retrieves a task by ID with its category. DELETED tasks are
// still reachable here; only the listing hides them.
func GetTaskByID(id uint) (*models.Task, error) {
	var task models.Task

	err := DB.Preload("Category").First(&task, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to fetch task #%d: %w", id, err)
	}

	return &task, nil
}

// UpdateTaskRequest holds the full field set written by UpdateTask
type UpdateTaskRequest struct {
	Name        string
	Description string
	DueDate     time.Time
	Owner       string
	Status      string
	CategoryID  uint
}

// UpdateTask overwrites every mutable field of the task. There are no
// partial-patch semantics: fields the caller left zero are written as-is.
func UpdateTask(id uint, req UpdateTaskRequest) (*models.Task, error) {
	task, err := GetTaskByID(id)
	if err != nil {
		return nil, err
	}

	// A map keeps gorm from skipping zero values
	updates := map[string]any{
		"name":        req.Name,
		"description": req.Description,
		"due_date":    req.DueDate,
		"owner":       req.Owner,
		"status":      req.Status,
		"category_id": req.CategoryID,
	}

	if err := DB.Model(task).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update task #%d: %w", id, err)
	}

	return GetTaskByID(id)
}

// UpdateTaskStatus writes only the status column. Close and delete in the
// UI are expressed through this path; DELETED is a soft flag, the row stays.
func UpdateTaskStatus(id uint, status string) (*models.Task, error) {
	task, err := GetTaskByID(id)
	if err != nil {
		return nil, err
	}

	if err := DB.Model(task).Update("status", status).Error; err != nil {
		return nil, fmt.Errorf("failed to update task #%d status: %w", id, err)
	}

	return GetTaskByID(id)
}

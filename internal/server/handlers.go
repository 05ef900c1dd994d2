package server

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/balkashynov/taskboard/internal/db"
	"github.com/balkashynov/taskboard/internal/models"
	"github.com/balkashynov/taskboard/internal/validation"
)

// createTaskIn is the wire shape for task creation and full updates.
// Due date and category id are accepted as either strings or numbers, so
// they decode into loose types and are coerced during validation.
type createTaskIn struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	DueDate     string `json:"duedate"`
	Owner       string `json:"owner"`
	CategoryID  any    `json:"categoryId"`
	Status      string `json:"status"`
}

type createCategoryIn struct {
	Name string `json:"name"`
}

type statusUpdateIn struct {
	ID     any    `json:"id"`
	Status string `json:"status"`
}

// asNumberString renders a loosely-typed JSON value as its decimal string
// so validation can coerce it. JSON numbers decode as float64.
func asNumberString(v any) string {
	switch n := v.(type) {
	case float64:
		return strconv.FormatInt(int64(n), 10)
	case string:
		return strings.TrimSpace(n)
	default:
		return ""
	}
}

func errorJSON(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(fiber.Map{"error": msg})
}

// handleCreateCategory creates a category after validating its name
func (s *Server) handleCreateCategory(c *fiber.Ctx) error {
	var in createCategoryIn
	if err := c.BodyParser(&in); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid request body")
	}

	if errs := validation.ValidateCategory(in.Name); errs != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": errs})
	}

	category, err := db.CreateCategory(strings.TrimSpace(in.Name))
	if err != nil {
		s.log.Error("create category failed", "error", err)
		return errorJSON(c, fiber.StatusInternalServerError, "Failed to create category")
	}

	return c.Status(fiber.StatusCreated).JSON(category)
}

// handleListCategories returns every category
func (s *Server) handleListCategories(c *fiber.Ctx) error {
	categories, err := db.GetCategories()
	if err != nil {
		s.log.Error("list categories failed", "error", err)
		return errorJSON(c, fiber.StatusInternalServerError, "An error occurred while fetching categories.")
	}
	return c.JSON(categories)
}

// handleCreateTask validates the payload and creates the task with status
// forced to OPEN, whatever the request body said.
func (s *Server) handleCreateTask(c *fiber.Ctx) error {
	var in createTaskIn
	if err := c.BodyParser(&in); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid request body")
	}

	data, errs := validation.ValidateTask(validation.TaskPayload{
		Name:        in.Name,
		Description: in.Description,
		DueDate:     in.DueDate,
		Owner:       in.Owner,
		CategoryID:  asNumberString(in.CategoryID),
	})
	if errs != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": errs})
	}

	task, err := db.CreateTask(db.CreateTaskRequest{
		Name:        data.Name,
		Description: data.Description,
		DueDate:     data.DueDate,
		Owner:       data.Owner,
		CategoryID:  data.CategoryID,
	})
	if err != nil {
		s.log.Error("create task failed", "error", err)
		return errorJSON(c, fiber.StatusInternalServerError, "Failed to create task")
	}

	return c.Status(fiber.StatusCreated).JSON(task)
}

// handleListTasks returns all tasks that are not DELETED, with categories
// joined, ordered by due date ascending.
func (s *Server) handleListTasks(c *fiber.Ctx) error {
	tasks, err := db.GetTasks()
	if err != nil {
		s.log.Error("list tasks failed", "error", err)
		return errorJSON(c, fiber.StatusInternalServerError, "Failed to retrieve tasks")
	}
	return c.JSON(tasks)
}

// handleGetTask fetches a single task by id
func (s *Server) handleGetTask(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid task ID")
	}

	task, err := db.GetTaskByID(uint(id))
	if err != nil {
		if errors.Is(err, db.ErrTaskNotFound) {
			return errorJSON(c, fiber.StatusNotFound, "Task not found")
		}
		s.log.Error("get task failed", "id", id, "error", err)
		return errorJSON(c, fiber.StatusInternalServerError, "Failed to retrieve task")
	}

	return c.JSON(task)
}

// handleUpdateTask overwrites the full field set of a task. There are no
// partial-patch semantics; omitted fields are treated as intentional
// overwrites.
func (s *Server) handleUpdateTask(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid task ID")
	}

	var in createTaskIn
	if err := c.BodyParser(&in); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid request body")
	}

	dueDate, err := validation.ParseDueDate(in.DueDate)
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid due date")
	}
	categoryID, err := strconv.ParseUint(asNumberString(in.CategoryID), 10, 32)
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid category ID")
	}
	if !models.ValidStatus(in.Status) {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid status")
	}

	task, err := db.UpdateTask(uint(id), db.UpdateTaskRequest{
		Name:        in.Name,
		Description: in.Description,
		DueDate:     dueDate,
		Owner:       in.Owner,
		Status:      in.Status,
		CategoryID:  uint(categoryID),
	})
	if err != nil {
		if errors.Is(err, db.ErrTaskNotFound) {
			return errorJSON(c, fiber.StatusNotFound, "Task not found")
		}
		s.log.Error("update task failed", "id", id, "error", err)
		return errorJSON(c, fiber.StatusInternalServerError, "Failed to update task")
	}

	return c.JSON(task)
}

// handleUpdateTaskStatus writes only the status of a task. This is how the
// close and delete actions are expressed; delete never removes the row.
func (s *Server) handleUpdateTaskStatus(c *fiber.Ctx) error {
	var in statusUpdateIn
	if err := c.BodyParser(&in); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid request body")
	}

	idStr := asNumberString(in.ID)
	if idStr == "" {
		return errorJSON(c, fiber.StatusBadRequest, "Task ID is required")
	}
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid task ID")
	}
	if !models.ValidStatus(in.Status) {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid status")
	}

	task, err := db.UpdateTaskStatus(uint(id), in.Status)
	if err != nil {
		if errors.Is(err, db.ErrTaskNotFound) {
			return errorJSON(c, fiber.StatusNotFound, "Task not found")
		}
		s.log.Error("update task status failed", "id", id, "error", err)
		return errorJSON(c, fiber.StatusInternalServerError, "Failed to update task")
	}

	return c.JSON(task)
}

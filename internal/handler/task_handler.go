package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"planify/internal/auth"
	"planify/internal/errors"
	"planify/internal/model"
	"planify/internal/service"
)

// FlexBool unmarshals either a JSON bool or the literal strings legacy
// clients send ("yes", "true") and normalizes to a bool.
type FlexBool bool

// UnmarshalJSON implements json.Unmarshaler.
func (b *FlexBool) UnmarshalJSON(data []byte) error {
	var v interface{}
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	switch val := v.(type) {
	case bool:
		*b = FlexBool(val)
	case string:
		*b = FlexBool(val == "yes" || val == "true")
	default:
		return fmt.Errorf("completed must be a boolean or string, got %T", v)
	}
	return nil
}

// TaskRequest represents a task create payload.
type TaskRequest struct {
	Title       string    `json:"title" validate:"required"`
	Description string    `json:"description"`
	Priority    string    `json:"priority" validate:"omitempty,oneof=low medium high"`
	DueDate     time.Time `json:"dueDate"`
	Completed   FlexBool  `json:"completed"`
}

// TaskUpdateRequest represents a partial task update. Only fields present in
// the payload are applied.
type TaskUpdateRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Priority    *string    `json:"priority" validate:"omitempty,oneof=low medium high"`
	DueDate     *time.Time `json:"dueDate"`
	Completed   *FlexBool  `json:"completed"`
}

// BulkCreateRequest wraps a batch of task create payloads.
type BulkCreateRequest struct {
	Tasks []TaskRequest `json:"tasks" validate:"required,min=1,dive"`
}

// BulkCreateResponse reports a completed bulk import.
type BulkCreateResponse struct {
	Message string       `json:"message"`
	Tasks   []model.Task `json:"tasks"`
}

// TaskHandler handles task endpoints. Every route requires an authenticated
// user; ownership is taken from the request context, never the payload.
type TaskHandler struct {
	taskService service.TaskService
}

// NewTaskHandler creates a new task handler.
func NewTaskHandler(taskService service.TaskService) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

func (r *TaskRequest) toModel() model.Task {
	return model.Task{
		Title:       r.Title,
		Description: r.Description,
		Priority:    r.Priority,
		DueDate:     r.DueDate,
		Completed:   bool(r.Completed),
	}
}

// List godoc
// @Summary List the caller's tasks, newest first
// @Tags tasks
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.Task
// @Failure 401 {object} errors.ErrorResponse
// @Router /task/gp [get]
func (h *TaskHandler) List(c echo.Context) error {
	current := auth.CurrentUser(c)
	tasks, err := h.taskService.List(c.Request().Context(), current.ID)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	if tasks == nil {
		tasks = []model.Task{}
	}
	return c.JSON(http.StatusOK, tasks)
}

// Create godoc
// @Summary Create a task owned by the caller
// @Tags tasks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body TaskRequest true "Task fields"
// @Success 201 {object} model.Task
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /task/gp [post]
func (h *TaskHandler) Create(c echo.Context) error {
	var req TaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid request body",
			Code:  "VALIDATION_ERROR",
		})
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: err.Error(),
			Code:  "VALIDATION_ERROR",
		})
	}

	current := auth.CurrentUser(c)
	task := req.toModel()
	created, err := h.taskService.Create(c.Request().Context(), current.ID, &task)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusCreated, created)
}

// Get godoc
// @Summary Get one of the caller's tasks by id
// @Tags tasks
// @Produce json
// @Security BearerAuth
// @Param id path string true "Task ID"
// @Success 200 {object} model.Task
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /task/gp/{id} [get]
func (h *TaskHandler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return taskNotFound()
	}

	current := auth.CurrentUser(c)
	task, err := h.taskService.Get(c.Request().Context(), current.ID, id)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, task)
}

// Update godoc
// @Summary Partially update one of the caller's tasks
// @Tags tasks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Task ID"
// @Param request body TaskUpdateRequest true "Fields to change"
// @Success 200 {object} model.Task
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /task/gp/{id} [put]
func (h *TaskHandler) Update(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return taskNotFound()
	}

	var req TaskUpdateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid request body",
			Code:  "VALIDATION_ERROR",
		})
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: err.Error(),
			Code:  "VALIDATION_ERROR",
		})
	}

	fields := map[string]interface{}{}
	if req.Title != nil {
		fields["title"] = *req.Title
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}
	if req.Priority != nil {
		fields["priority"] = *req.Priority
	}
	if req.DueDate != nil {
		fields["due_date"] = *req.DueDate
	}
	if req.Completed != nil {
		fields["completed"] = bool(*req.Completed)
	}

	current := auth.CurrentUser(c)
	task, err := h.taskService.Update(c.Request().Context(), current.ID, id, fields)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, task)
}

// Delete godoc
// @Summary Delete one of the caller's tasks
// @Tags tasks
// @Security BearerAuth
// @Param id path string true "Task ID"
// @Success 204
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /task/gp/{id} [delete]
func (h *TaskHandler) Delete(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return taskNotFound()
	}

	current := auth.CurrentUser(c)
	if err := h.taskService.Delete(c.Request().Context(), current.ID, id); err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.NoContent(http.StatusNoContent)
}

// BulkCreate godoc
// @Summary Create many tasks owned by the caller
// @Tags tasks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body BulkCreateRequest true "Tasks to import"
// @Success 201 {object} BulkCreateResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /task/bulk [post]
func (h *TaskHandler) BulkCreate(c echo.Context) error {
	var req BulkCreateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid request body",
			Code:  "VALIDATION_ERROR",
		})
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: err.Error(),
			Code:  "VALIDATION_ERROR",
		})
	}

	tasks := make([]model.Task, len(req.Tasks))
	for i, t := range req.Tasks {
		tasks[i] = t.toModel()
	}

	current := auth.CurrentUser(c)
	created, err := h.taskService.BulkCreate(c.Request().Context(), current.ID, tasks)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusCreated, BulkCreateResponse{
		Message: fmt.Sprintf("Successfully created %d tasks", len(created)),
		Tasks:   created,
	})
}

// Stats godoc
// @Summary Aggregate counts over the caller's tasks
// @Tags tasks
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.TaskStats
// @Failure 401 {object} errors.ErrorResponse
// @Router /task/stats [get]
func (h *TaskHandler) Stats(c echo.Context) error {
	current := auth.CurrentUser(c)
	stats, err := h.taskService.Stats(c.Request().Context(), current.ID)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, stats)
}

func taskNotFound() *echo.HTTPError {
	return echo.NewHTTPError(http.StatusNotFound, errors.ErrorResponse{
		Error: "task not found",
		Code:  "TASK_NOT_FOUND",
	})
}

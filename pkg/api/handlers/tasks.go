package handlers

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/realtyaura/aura/pkg/api/errors"
	"github.com/realtyaura/aura/pkg/followup"
	"github.com/realtyaura/aura/pkg/models"
	"github.com/realtyaura/aura/pkg/store"
)

// TaskHandler handles task and viewing endpoints
type TaskHandler struct {
	store     *store.Store
	followUps *followup.Service
}

// NewTaskHandler creates a new task handler
func NewTaskHandler(st *store.Store, followUps *followup.Service) *TaskHandler {
	return &TaskHandler{store: st, followUps: followUps}
}

// List godoc
// @Summary List tasks
// @Tags Tasks
// @Produce json
// @Param status query string false "Task status"
// @Param contact_id query int false "Contact ID"
// @Param open query bool false "Only tasks that are not completed"
// @Success 200 {object} models.ListResponse
// @Security BearerAuth
// @Router /api/v1/tasks [get]
func (h *TaskHandler) List(c echo.Context) error {
	items, err := h.store.ListTasks(c.Request().Context(), store.TaskFilter{
		Status:    c.QueryParam("status"),
		ContactID: int64(intQuery(c, "contact_id", 0)),
		OpenOnly:  c.QueryParam("open") == "true",
	})
	return list(c, items, err)
}

// Create godoc
// @Summary Create a task
// @Tags Tasks
// @Accept json
// @Produce json
// @Param request body models.CreateTaskRequest true "Task"
// @Success 201 {object} models.Task
// @Failure 400 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /api/v1/tasks [post]
func (h *TaskHandler) Create(c echo.Context) error {
	var req models.CreateTaskRequest
	if ok, err := bind(c, &req); !ok {
		return err
	}
	task := &models.Task{
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		Priority:    req.Priority,
		AssignedTo:  req.AssignedTo,
		ContactID:   req.ContactID,
		PropertyID:  req.PropertyID,
		DueDate:     req.DueDate,
	}
	if err := h.store.CreateTask(c.Request().Context(), task); err != nil {
		return errors.FromDomain(c, err)
	}
	return c.JSON(http.StatusCreated, task)
}

// Complete godoc
// @Summary Complete a task
// @Tags Tasks
// @Produce json
// @Param id path int true "Task ID"
// @Success 200 {object} models.Task
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /api/v1/tasks/{id}/complete [post]
func (h *TaskHandler) Complete(c echo.Context) error {
	id, ok, err := idParam(c, "id")
	if !ok {
		return err
	}
	ctx := c.Request().Context()
	if err := h.store.CompleteTask(ctx, id); err != nil {
		return errors.FromDomain(c, err)
	}
	task, err := h.store.GetTask(ctx, id)
	if err != nil {
		return errors.FromDomain(c, err)
	}
	return c.JSON(http.StatusOK, task)
}

// Overdue godoc
// @Summary List overdue tasks
// @Description Tasks not completed whose due date has passed, most overdue first
// @Tags Tasks
// @Produce json
// @Success 200 {object} models.ListResponse
// @Security BearerAuth
// @Router /api/v1/tasks/overdue [get]
func (h *TaskHandler) Overdue(c echo.Context) error {
	items, err := h.followUps.OverdueTasks(c.Request().Context())
	return list(c, items, err)
}

// ScheduleViewing godoc
// @Summary Schedule a property viewing
// @Description Creates a high priority viewing task and marks the contact as Viewing Scheduled for the property
// @Tags Tasks
// @Accept json
// @Produce json
// @Param request body models.ScheduleViewingRequest true "Viewing"
// @Success 201 {object} models.Task
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /api/v1/viewings [post]
func (h *TaskHandler) ScheduleViewing(c echo.Context) error {
	var req models.ScheduleViewingRequest
	if ok, err := bind(c, &req); !ok {
		return err
	}
	task, err := h.followUps.ScheduleViewing(c.Request().Context(), req.ContactID, req.PropertyID, req.ViewingDate)
	if err != nil {
		return errors.FromDomain(c, err)
	}
	return c.JSON(http.StatusCreated, task)
}

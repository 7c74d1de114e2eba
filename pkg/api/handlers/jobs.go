package handlers

import (
	"context"
	"net/http"
	"slices"

	"github.com/labstack/echo/v4"

	"github.com/realtyaura/aura/pkg/api/errors"
	"github.com/realtyaura/aura/pkg/models"
)

// JobRunner lists and triggers scheduled jobs
type JobRunner interface {
	Jobs() []string
	RunNow(ctx context.Context, name string) error
}

// JobsHandler handles scheduled job endpoints
type JobsHandler struct {
	runner JobRunner
}

// NewJobsHandler creates a new jobs handler
func NewJobsHandler(runner JobRunner) *JobsHandler {
	return &JobsHandler{runner: runner}
}

// List godoc
// @Summary List scheduled jobs
// @Tags Jobs
// @Produce json
// @Success 200 {object} models.ListResponse
// @Security BearerAuth
// @Router /api/v1/jobs [get]
func (h *JobsHandler) List(c echo.Context) error {
	return list(c, h.runner.Jobs(), nil)
}

// Run godoc
// @Summary Run a scheduled job now
// @Tags Jobs
// @Produce json
// @Param name path string true "Job name"
// @Success 200 {object} models.SuccessResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /api/v1/jobs/{name}/run [post]
func (h *JobsHandler) Run(c echo.Context) error {
	name := c.Param("name")
	if !slices.Contains(h.runner.Jobs(), name) {
		return errors.NotFoundError(c, "job")
	}
	if err := h.runner.RunNow(c.Request().Context(), name); err != nil {
		return errors.InternalError(c, err)
	}
	return c.JSON(http.StatusOK, models.SuccessResponse{Success: true, Message: "Job " + name + " completed"})
}

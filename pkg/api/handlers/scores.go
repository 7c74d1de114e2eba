package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/realtyaura/aura/pkg/api/errors"
	"github.com/realtyaura/aura/pkg/export"
	"github.com/realtyaura/aura/pkg/leadscoring"
	"github.com/realtyaura/aura/pkg/models"
)

// ScoreHandler handles lead scoring endpoints
type ScoreHandler struct {
	service *leadscoring.Service
}

// NewScoreHandler creates a new score handler
func NewScoreHandler(service *leadscoring.Service) *ScoreHandler {
	return &ScoreHandler{service: service}
}

// Run godoc
// @Summary Score every lead
// @Description Recomputes all lead scores and replaces the stored run
// @Tags Scores
// @Produce json
// @Success 200 {object} models.ListResponse
// @Failure 500 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /api/v1/scores/run [post]
func (h *ScoreHandler) Run(c echo.Context) error {
	scores, err := h.service.ScoreAllLeads(c.Request().Context())
	return list(c, scores, err)
}

// List godoc
// @Summary Stored lead scores
// @Description Scores of the last run, highest first
// @Tags Scores
// @Produce json
// @Success 200 {object} models.ListResponse
// @Security BearerAuth
// @Router /api/v1/scores [get]
func (h *ScoreHandler) List(c echo.Context) error {
	scores, err := h.service.StoredScores(c.Request().Context())
	return list(c, scores, err)
}

// Distribution godoc
// @Summary Score distribution
// @Description Counts stored scores per band: excellent, good, fair, poor, critical
// @Tags Scores
// @Produce json
// @Success 200 {object} map[string]int
// @Security BearerAuth
// @Router /api/v1/scores/distribution [get]
func (h *ScoreHandler) Distribution(c echo.Context) error {
	dist, err := h.service.GetScoreDistribution(c.Request().Context())
	if err != nil {
		return errors.FromDomain(c, err)
	}
	return c.JSON(http.StatusOK, dist)
}

// Export godoc
// @Summary Export lead scores
// @Description Scores every lead and downloads the result as CSV or Excel. Stored scores are not changed.
// @Tags Scores
// @Produce text/csv
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param format query string false "csv or xlsx" default(csv)
// @Success 200 {file} file
// @Failure 400 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /api/v1/scores/export [get]
func (h *ScoreHandler) Export(c echo.Context) error {
	format, err := export.ParseFormat(c.QueryParam("format"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid_format",
			Message: err.Error(),
		})
	}
	scores, err := h.service.PreviewScores(c.Request().Context())
	if err != nil {
		return errors.FromDomain(c, err)
	}
	data, err := export.LeadScores(scores, format)
	if err != nil {
		return errors.InternalError(c, err)
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+format.Filename()+`"`)
	return c.Blob(http.StatusOK, format.ContentType(), data)
}

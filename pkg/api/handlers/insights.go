package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/realtyaura/aura/pkg/analytics"
	"github.com/realtyaura/aura/pkg/api/errors"
)

// InsightsHandler handles market and performance endpoints
type InsightsHandler struct {
	service *analytics.Service
}

// NewInsightsHandler creates a new insights handler
func NewInsightsHandler(service *analytics.Service) *InsightsHandler {
	return &InsightsHandler{service: service}
}

// Market godoc
// @Summary Market insights
// @Description Available properties grouped by type with price statistics. format=text returns the chat rendering.
// @Tags Insights
// @Produce json
// @Produce plain
// @Param area query string false "Area contains"
// @Param format query string false "json or text"
// @Success 200 {object} analytics.MarketInsights
// @Security BearerAuth
// @Router /api/v1/insights/market [get]
func (h *InsightsHandler) Market(c echo.Context) error {
	mi, err := h.service.MarketInsights(c.Request().Context(), c.QueryParam("area"))
	if err != nil {
		return errors.FromDomain(c, err)
	}
	if c.QueryParam("format") == "text" {
		return c.String(http.StatusOK, analytics.FormatMarket(mi))
	}
	return c.JSON(http.StatusOK, mi)
}

// Performance godoc
// @Summary Agent performance metrics
// @Description Pipeline value, closings in the last 30 days, conversion and task completion rates
// @Tags Insights
// @Produce json
// @Produce plain
// @Param format query string false "json or text"
// @Success 200 {object} analytics.PerformanceMetrics
// @Security BearerAuth
// @Router /api/v1/insights/performance [get]
func (h *InsightsHandler) Performance(c echo.Context) error {
	pm, err := h.service.PerformanceMetrics(c.Request().Context())
	if err != nil {
		return errors.FromDomain(c, err)
	}
	if c.QueryParam("format") == "text" {
		return c.String(http.StatusOK, analytics.FormatPerformance(pm))
	}
	return c.JSON(http.StatusOK, pm)
}

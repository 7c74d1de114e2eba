package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/realtyaura/aura/pkg/analytics"
	"github.com/realtyaura/aura/pkg/api/errors"
	"github.com/realtyaura/aura/pkg/deals"
	"github.com/realtyaura/aura/pkg/models"
	"github.com/realtyaura/aura/pkg/store"
)

// DealHandler handles deal endpoints
type DealHandler struct {
	store     *store.Store
	deals     *deals.Service
	analytics *analytics.Service
}

// NewDealHandler creates a new deal handler
func NewDealHandler(st *store.Store, d *deals.Service, a *analytics.Service) *DealHandler {
	return &DealHandler{store: st, deals: d, analytics: a}
}

// List godoc
// @Summary List deals
// @Tags Deals
// @Produce json
// @Param status query string false "Deal status"
// @Success 200 {object} models.ListResponse
// @Security BearerAuth
// @Router /api/v1/deals [get]
func (h *DealHandler) List(c echo.Context) error {
	items, err := h.store.ListDeals(c.Request().Context(), c.QueryParam("status"))
	return list(c, items, err)
}

// Get godoc
// @Summary Get a deal
// @Tags Deals
// @Produce json
// @Param id path int true "Deal ID"
// @Success 200 {object} models.Deal
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /api/v1/deals/{id} [get]
func (h *DealHandler) Get(c echo.Context) error {
	id, ok, err := idParam(c, "id")
	if !ok {
		return err
	}
	deal, err := h.store.GetDeal(c.Request().Context(), id)
	if err != nil {
		return errors.FromDomain(c, err)
	}
	return c.JSON(http.StatusOK, deal)
}

// Create godoc
// @Summary Open a deal
// @Tags Deals
// @Accept json
// @Produce json
// @Param request body models.CreateDealRequest true "Deal"
// @Success 201 {object} models.Deal
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /api/v1/deals [post]
func (h *DealHandler) Create(c echo.Context) error {
	var req models.CreateDealRequest
	if ok, err := bind(c, &req); !ok {
		return err
	}
	deal := &models.Deal{
		ContactID:  req.ContactID,
		PropertyID: req.PropertyID,
		DealType:   req.DealType,
		DealValue:  req.DealValue,
		Commission: req.Commission,
		Notes:      req.Notes,
	}
	ctx := c.Request().Context()
	if err := h.deals.Create(ctx, deal); err != nil {
		return errors.FromDomain(c, err)
	}
	h.analytics.InvalidateCache(ctx)
	return c.JSON(http.StatusCreated, deal)
}

// UpdateStatus godoc
// @Summary Move a deal through the pipeline
// @Description Closing a deal posts an announcement to Slack when configured
// @Tags Deals
// @Accept json
// @Produce json
// @Param id path int true "Deal ID"
// @Param request body models.UpdateDealStatusRequest true "New status"
// @Success 200 {object} models.Deal
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /api/v1/deals/{id}/status [put]
func (h *DealHandler) UpdateStatus(c echo.Context) error {
	id, ok, err := idParam(c, "id")
	if !ok {
		return err
	}
	var req models.UpdateDealStatusRequest
	if ok, err := bind(c, &req); !ok {
		return err
	}
	ctx := c.Request().Context()
	deal, err := h.deals.UpdateStatus(ctx, id, req.Status)
	if err != nil {
		return errors.FromDomain(c, err)
	}
	h.analytics.InvalidateCache(ctx)
	return c.JSON(http.StatusOK, deal)
}

// Predict godoc
// @Summary Predict the probability a deal closes
// @Tags Deals
// @Produce json
// @Param id path int true "Deal ID"
// @Success 200 {object} scoring.DealPrediction
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /api/v1/deals/{id}/prediction [get]
func (h *DealHandler) Predict(c echo.Context) error {
	id, ok, err := idParam(c, "id")
	if !ok {
		return err
	}
	prediction, err := h.deals.PredictCloseProbability(c.Request().Context(), id)
	if err != nil {
		return errors.FromDomain(c, err)
	}
	return c.JSON(http.StatusOK, prediction)
}

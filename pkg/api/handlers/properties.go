package handlers

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/realtyaura/aura/pkg/analytics"
	"github.com/realtyaura/aura/pkg/api/errors"
	"github.com/realtyaura/aura/pkg/matching"
	"github.com/realtyaura/aura/pkg/models"
	"github.com/realtyaura/aura/pkg/store"
)

// PropertyHandler handles property and relationship endpoints
type PropertyHandler struct {
	store     *store.Store
	matching  *matching.Service
	analytics *analytics.Service
}

// NewPropertyHandler creates a new property handler
func NewPropertyHandler(st *store.Store, m *matching.Service, a *analytics.Service) *PropertyHandler {
	return &PropertyHandler{store: st, matching: m, analytics: a}
}

// List godoc
// @Summary List properties
// @Tags Properties
// @Produce json
// @Param area query string false "Area contains"
// @Param type query string false "Property type"
// @Param status query string false "Listing status"
// @Param building query string false "Building contains"
// @Param q query string false "Free-text search"
// @Param limit query int false "Maximum results"
// @Success 200 {object} models.ListResponse
// @Security BearerAuth
// @Router /api/v1/properties [get]
func (h *PropertyHandler) List(c echo.Context) error {
	items, err := h.store.ListProperties(c.Request().Context(), store.PropertyFilter{
		Area:         c.QueryParam("area"),
		PropertyType: c.QueryParam("type"),
		Status:       c.QueryParam("status"),
		Building:     c.QueryParam("building"),
		Query:        c.QueryParam("q"),
		Limit:        intQuery(c, "limit", 0),
	})
	return list(c, items, err)
}

// Get godoc
// @Summary Get a property
// @Tags Properties
// @Produce json
// @Param id path int true "Property ID"
// @Success 200 {object} models.Property
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /api/v1/properties/{id} [get]
func (h *PropertyHandler) Get(c echo.Context) error {
	id, ok, err := idParam(c, "id")
	if !ok {
		return err
	}
	p, err := h.store.GetProperty(c.Request().Context(), id)
	if err != nil {
		return errors.FromDomain(c, err)
	}
	return c.JSON(http.StatusOK, p)
}

// Create godoc
// @Summary Create a property
// @Tags Properties
// @Accept json
// @Produce json
// @Param request body models.CreatePropertyRequest true "Property"
// @Success 201 {object} models.Property
// @Failure 400 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /api/v1/properties [post]
func (h *PropertyHandler) Create(c echo.Context) error {
	var req models.CreatePropertyRequest
	if ok, err := bind(c, &req); !ok {
		return err
	}
	p := &models.Property{
		Building:     strings.TrimSpace(req.Building),
		Unit:         strings.TrimSpace(req.Unit),
		Area:         req.Area,
		PropertyType: req.PropertyType,
		Bedrooms:     req.Bedrooms,
		Bathrooms:    req.Bathrooms,
		SizeSqft:     req.SizeSqft,
		Price:        req.Price,
		Status:       req.Status,
		Description:  req.Description,
		Amenities:    req.Amenities,
	}
	ctx := c.Request().Context()
	if err := h.store.CreateProperty(ctx, p); err != nil {
		return errors.FromDomain(c, err)
	}
	h.analytics.InvalidateCache(ctx)
	return c.JSON(http.StatusCreated, p)
}

// Update godoc
// @Summary Update a property
// @Tags Properties
// @Accept json
// @Produce json
// @Param id path int true "Property ID"
// @Param request body models.UpdatePropertyRequest true "Fields to change"
// @Success 200 {object} models.Property
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /api/v1/properties/{id} [patch]
func (h *PropertyHandler) Update(c echo.Context) error {
	id, ok, err := idParam(c, "id")
	if !ok {
		return err
	}
	var req models.UpdatePropertyRequest
	if ok, err := bind(c, &req); !ok {
		return err
	}

	fields := map[string]any{}
	if req.Price != nil {
		fields["price"] = *req.Price
	}
	if req.Status != nil {
		fields["status"] = *req.Status
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}
	if req.Amenities != nil {
		fields["amenities"] = *req.Amenities
	}

	ctx := c.Request().Context()
	if err := h.store.UpdateProperty(ctx, id, fields); err != nil {
		return errors.FromDomain(c, err)
	}
	h.analytics.InvalidateCache(ctx)
	p, err := h.store.GetProperty(ctx, id)
	if err != nil {
		return errors.FromDomain(c, err)
	}
	return c.JSON(http.StatusOK, p)
}

// Buyers godoc
// @Summary Match buyers for a property
// @Description Ranks every non-owner contact by buyer match score
// @Tags Properties
// @Produce json
// @Param id path int true "Property ID"
// @Param limit query int false "Maximum matches" default(10)
// @Success 200 {object} models.ListResponse
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /api/v1/properties/{id}/buyers [get]
func (h *PropertyHandler) Buyers(c echo.Context) error {
	id, ok, err := idParam(c, "id")
	if !ok {
		return err
	}
	matches, err := h.matching.MatchBuyers(c.Request().Context(), id)
	if err != nil {
		return errors.FromDomain(c, err)
	}
	if n := intQuery(c, "limit", 10); len(matches) > n {
		matches = matches[:n]
	}
	return list(c, matches, nil)
}

// Relationships godoc
// @Summary List contacts related to a property
// @Tags Properties
// @Produce json
// @Param id path int true "Property ID"
// @Success 200 {object} models.ListResponse
// @Security BearerAuth
// @Router /api/v1/properties/{id}/relationships [get]
func (h *PropertyHandler) Relationships(c echo.Context) error {
	id, ok, err := idParam(c, "id")
	if !ok {
		return err
	}
	items, err := h.store.ListRelationships(c.Request().Context(), id)
	return list(c, items, err)
}

// Link godoc
// @Summary Relate a contact to a property
// @Tags Properties
// @Accept json
// @Produce json
// @Param request body models.LinkRequest true "Relationship"
// @Success 201 {object} models.SuccessResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /api/v1/relationships [post]
func (h *PropertyHandler) Link(c echo.Context) error {
	var req models.LinkRequest
	if ok, err := bind(c, &req); !ok {
		return err
	}
	ctx := c.Request().Context()
	if _, err := h.store.GetContact(ctx, req.ContactID); err != nil {
		return errors.FromDomain(c, err)
	}
	if _, err := h.store.GetProperty(ctx, req.PropertyID); err != nil {
		return errors.FromDomain(c, err)
	}
	if err := h.store.LinkContactProperty(ctx, req.ContactID, req.PropertyID, req.RelationshipType); err != nil {
		return errors.FromDomain(c, err)
	}
	return c.JSON(http.StatusCreated, models.SuccessResponse{Success: true, Message: "Relationship saved"})
}

// Unlink godoc
// @Summary Remove a contact-property relationship
// @Tags Properties
// @Accept json
// @Produce json
// @Param request body models.LinkRequest true "Relationship"
// @Success 200 {object} models.SuccessResponse
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /api/v1/relationships [delete]
func (h *PropertyHandler) Unlink(c echo.Context) error {
	var req models.LinkRequest
	if ok, err := bind(c, &req); !ok {
		return err
	}
	err := h.store.UnlinkContactProperty(c.Request().Context(), req.ContactID, req.PropertyID, req.RelationshipType)
	if err != nil {
		return errors.FromDomain(c, err)
	}
	return c.JSON(http.StatusOK, models.SuccessResponse{Success: true, Message: "Relationship removed"})
}

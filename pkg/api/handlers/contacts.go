package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/realtyaura/aura/pkg/api/errors"
	"github.com/realtyaura/aura/pkg/contacts"
	"github.com/realtyaura/aura/pkg/followup"
	"github.com/realtyaura/aura/pkg/models"
	"github.com/realtyaura/aura/pkg/store"
)

// ContactHandler handles contact endpoints
type ContactHandler struct {
	store     *store.Store
	contacts  *contacts.Service
	followUps *followup.Service
}

// NewContactHandler creates a new contact handler
func NewContactHandler(st *store.Store, svc *contacts.Service, followUps *followup.Service) *ContactHandler {
	return &ContactHandler{store: st, contacts: svc, followUps: followUps}
}

// List godoc
// @Summary List contacts
// @Description List contacts, optionally filtered by lead status or a name/email query
// @Tags Contacts
// @Produce json
// @Param status query string false "Lead status (Hot, Warm, Cold)"
// @Param q query string false "Name or email contains"
// @Param limit query int false "Maximum results"
// @Success 200 {object} models.ListResponse
// @Failure 500 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /api/v1/contacts [get]
func (h *ContactHandler) List(c echo.Context) error {
	items, err := h.store.ListContacts(c.Request().Context(), store.ContactFilter{
		Status: c.QueryParam("status"),
		Query:  c.QueryParam("q"),
		Limit:  intQuery(c, "limit", 0),
	})
	return list(c, items, err)
}

// Get godoc
// @Summary Get a contact
// @Tags Contacts
// @Produce json
// @Param id path int true "Contact ID"
// @Success 200 {object} models.Contact
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /api/v1/contacts/{id} [get]
func (h *ContactHandler) Get(c echo.Context) error {
	id, ok, err := idParam(c, "id")
	if !ok {
		return err
	}
	contact, err := h.store.GetContact(c.Request().Context(), id)
	if err != nil {
		return errors.FromDomain(c, err)
	}
	return c.JSON(http.StatusOK, contact)
}

// Create godoc
// @Summary Create a contact
// @Description Lead status is normalized and the phone stored in E.164 when it parses
// @Tags Contacts
// @Accept json
// @Produce json
// @Param request body models.CreateContactRequest true "Contact"
// @Success 201 {object} models.Contact
// @Failure 400 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /api/v1/contacts [post]
func (h *ContactHandler) Create(c echo.Context) error {
	var req models.CreateContactRequest
	if ok, err := bind(c, &req); !ok {
		return err
	}
	contact, err := h.contacts.Create(c.Request().Context(), req)
	if err != nil {
		return errors.FromDomain(c, err)
	}
	return c.JSON(http.StatusCreated, contact)
}

// Update godoc
// @Summary Update a contact
// @Tags Contacts
// @Accept json
// @Produce json
// @Param id path int true "Contact ID"
// @Param request body models.UpdateContactRequest true "Fields to change"
// @Success 200 {object} models.Contact
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /api/v1/contacts/{id} [patch]
func (h *ContactHandler) Update(c echo.Context) error {
	id, ok, err := idParam(c, "id")
	if !ok {
		return err
	}
	var req models.UpdateContactRequest
	if ok, err := bind(c, &req); !ok {
		return err
	}
	contact, err := h.contacts.Update(c.Request().Context(), id, req)
	if err != nil {
		return errors.FromDomain(c, err)
	}
	return c.JSON(http.StatusOK, contact)
}

// MarkContacted godoc
// @Summary Mark a contact as contacted now
// @Tags Contacts
// @Produce json
// @Param id path int true "Contact ID"
// @Success 200 {object} models.SuccessResponse
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /api/v1/contacts/{id}/contacted [post]
func (h *ContactHandler) MarkContacted(c echo.Context) error {
	id, ok, err := idParam(c, "id")
	if !ok {
		return err
	}
	if err := h.followUps.MarkContacted(c.Request().Context(), id); err != nil {
		return errors.FromDomain(c, err)
	}
	return c.JSON(http.StatusOK, models.SuccessResponse{Success: true, Message: "Contact marked as contacted"})
}

// Properties godoc
// @Summary List properties related to a contact
// @Tags Contacts
// @Produce json
// @Param id path int true "Contact ID"
// @Param relationship query string false "Relationship type" default(Interested)
// @Success 200 {object} models.ListResponse
// @Security BearerAuth
// @Router /api/v1/contacts/{id}/properties [get]
func (h *ContactHandler) Properties(c echo.Context) error {
	id, ok, err := idParam(c, "id")
	if !ok {
		return err
	}
	rel := c.QueryParam("relationship")
	if rel == "" {
		rel = models.RelationshipInterested
	}
	items, err := h.store.PropertiesRelatedTo(c.Request().Context(), id, rel)
	return list(c, items, err)
}

package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/realtyaura/aura/pkg/api/errors"
	"github.com/realtyaura/aura/pkg/followup"
	"github.com/realtyaura/aura/pkg/models"
)

// FollowUpHandler handles follow-up, briefing and email endpoints
type FollowUpHandler struct {
	service *followup.Service
}

// NewFollowUpHandler creates a new follow-up handler
func NewFollowUpHandler(service *followup.Service) *FollowUpHandler {
	return &FollowUpHandler{service: service}
}

// Due godoc
// @Summary List contacts due for follow-up
// @Description Contacts past their follow-up interval, highest priority first
// @Tags Follow-ups
// @Produce json
// @Param limit query int false "Maximum results"
// @Success 200 {object} models.ListResponse
// @Security BearerAuth
// @Router /api/v1/followups [get]
func (h *FollowUpHandler) Due(c echo.Context) error {
	due, err := h.service.FollowUpsDue(c.Request().Context())
	if err == nil {
		if n := intQuery(c, "limit", 0); n > 0 && len(due) > n {
			due = due[:n]
		}
	}
	return list(c, due, err)
}

// DailySummary godoc
// @Summary Daily briefing
// @Description Follow-ups, overdue tasks and today's viewings. format=text returns the rendered briefing.
// @Tags Follow-ups
// @Produce json
// @Produce plain
// @Param format query string false "json or text"
// @Success 200 {object} followup.DailySummary
// @Security BearerAuth
// @Router /api/v1/briefing [get]
func (h *FollowUpHandler) DailySummary(c echo.Context) error {
	summary, err := h.service.DailySummary(c.Request().Context())
	if err != nil {
		return errors.FromDomain(c, err)
	}
	if c.QueryParam("format") == "text" {
		return c.String(http.StatusOK, followup.FormatBriefing(summary))
	}
	return c.JSON(http.StatusOK, summary)
}

// DraftEmail godoc
// @Summary Draft a follow-up email
// @Description Personalizes a stored template for the contact without sending it
// @Tags Email
// @Accept json
// @Produce json
// @Param request body models.EmailRequest true "Contact and template"
// @Success 200 {object} followup.EmailDraft
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /api/v1/emails/draft [post]
func (h *FollowUpHandler) DraftEmail(c echo.Context) error {
	var req models.EmailRequest
	if ok, err := bind(c, &req); !ok {
		return err
	}
	draft, err := h.service.DraftEmail(c.Request().Context(), req.ContactID, req.Template)
	if err != nil {
		return errors.FromDomain(c, err)
	}
	return c.JSON(http.StatusOK, draft)
}

// SendEmail godoc
// @Summary Send a follow-up email
// @Description Drafts the template, sends it through SendGrid and marks the contact as contacted
// @Tags Email
// @Accept json
// @Produce json
// @Param request body models.EmailRequest true "Contact and template"
// @Success 200 {object} followup.EmailDraft
// @Failure 400 {object} models.ErrorResponse
// @Failure 503 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /api/v1/emails/send [post]
func (h *FollowUpHandler) SendEmail(c echo.Context) error {
	var req models.EmailRequest
	if ok, err := bind(c, &req); !ok {
		return err
	}
	draft, err := h.service.SendFollowUpEmail(c.Request().Context(), req.ContactID, req.Template)
	if err != nil {
		return errors.FromDomain(c, err)
	}
	return c.JSON(http.StatusOK, draft)
}

// ComposeEmail godoc
// @Summary Compose a follow-up email with the language model
// @Tags Email
// @Accept json
// @Produce json
// @Param request body models.ComposeEmailRequest true "Contact and last interaction"
// @Success 200 {object} followup.EmailDraft
// @Failure 503 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /api/v1/emails/compose [post]
func (h *FollowUpHandler) ComposeEmail(c echo.Context) error {
	var req models.ComposeEmailRequest
	if ok, err := bind(c, &req); !ok {
		return err
	}
	draft, err := h.service.ComposeEmail(c.Request().Context(), req.ContactID, req.Interaction)
	if err != nil {
		return errors.FromDomain(c, err)
	}
	return c.JSON(http.StatusOK, draft)
}

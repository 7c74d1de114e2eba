package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/realtyaura/aura/pkg/models"
	"github.com/realtyaura/aura/pkg/phone"
)

// PhoneHandler handles phone validation endpoints.
type PhoneHandler struct {
	region string
}

// NewPhoneHandler creates a new phone handler. Numbers without a country
// code are read in region.
func NewPhoneHandler(region string) *PhoneHandler {
	return &PhoneHandler{region: region}
}

// ValidatePhone godoc
// @Summary Validate a phone number
// @Description Validate and normalize a phone number with international format support
// @Tags Phone
// @Accept json
// @Produce json
// @Param request body models.ValidatePhoneRequest true "Phone validation request"
// @Success 200 {object} phone.ValidationResult
// @Failure 400 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /api/v1/phone/validate [post]
func (h *PhoneHandler) ValidatePhone(c echo.Context) error {
	var req models.ValidatePhoneRequest
	if ok, err := bind(c, &req); !ok {
		return err
	}
	if req.Region == "" {
		req.Region = h.region
	}

	result, err := phone.Validate(req.Phone, req.Region)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
	}
	return c.JSON(http.StatusOK, result)
}

package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/realtyaura/aura/pkg/api/errors"
	"github.com/realtyaura/aura/pkg/models"
)

var validate = validator.New()

// bind decodes the request body into req and validates it. ok is false when
// a 400 response has already been written.
func bind(c echo.Context, req any) (bool, error) {
	if err := c.Bind(req); err != nil {
		return false, c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request body",
		})
	}
	if err := validate.Struct(req); err != nil {
		return false, c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
	}
	return true, nil
}

// idParam reads a positive integer path parameter. ok is false when a 400
// response has already been written.
func idParam(c echo.Context, name string) (int64, bool, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false, c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid_id",
			Message: "Invalid " + name,
		})
	}
	return id, true, nil
}

// intQuery reads an optional integer query parameter
func intQuery(c echo.Context, name string, def int) int {
	if v, err := strconv.Atoi(c.QueryParam(name)); err == nil && v > 0 {
		return v
	}
	return def
}

// list writes a collection wrapped in a ListResponse
func list[T any](c echo.Context, items []T, err error) error {
	if err != nil {
		return errors.FromDomain(c, err)
	}
	if items == nil {
		items = []T{}
	}
	return c.JSON(http.StatusOK, models.ListResponse{Success: true, Data: items, Count: len(items)})
}

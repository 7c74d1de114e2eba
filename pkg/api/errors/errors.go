package errors

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/realtyaura/aura/pkg/domain"
	"github.com/realtyaura/aura/pkg/logger"
	"github.com/realtyaura/aura/pkg/models"
)

var log logger.Logger = logger.NewNop()

// SetLogger sets the logger that records the details hidden from clients
func SetLogger(l logger.Logger) {
	if l != nil {
		log = l
	}
}

func requestFields(c echo.Context, err error) []any {
	return []any{
		"path", c.Request().URL.Path,
		"request_id", c.Response().Header().Get(echo.HeaderXRequestID),
		"error", err,
	}
}

// ValidationError returns a validation error. Validation messages are safe to
// show and are passed through.
func ValidationError(c echo.Context, err error) error {
	log.Warn("validation error", requestFields(c, err)...)

	msg := "Invalid request data. Please check your input and try again."
	if de, ok := domain.AsDomainError(err); ok && de.Code == domain.ErrCodeValidation {
		msg = de.Message
	}
	return c.JSON(http.StatusBadRequest, models.ErrorResponse{
		Error:   "validation_error",
		Message: msg,
	})
}

// DatabaseError returns a generic database error without exposing internal details
func DatabaseError(c echo.Context, err error) error {
	log.Error("database error", requestFields(c, err)...)

	return c.JSON(http.StatusInternalServerError, models.ErrorResponse{
		Error:   "database_error",
		Message: "A database error occurred. Please try again later.",
	})
}

// InternalError returns a generic internal server error
func InternalError(c echo.Context, err error) error {
	log.Error("internal error", requestFields(c, err)...)

	return c.JSON(http.StatusInternalServerError, models.ErrorResponse{
		Error:   "internal_error",
		Message: "An internal error occurred. Please try again later.",
	})
}

// UnauthorizedError returns a generic unauthorized error
func UnauthorizedError(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, models.ErrorResponse{
		Error:   "unauthorized",
		Message: "You are not authorized to access this resource.",
	})
}

// NotFoundError returns a not found error naming the resource
func NotFoundError(c echo.Context, resource string) error {
	return c.JSON(http.StatusNotFound, models.ErrorResponse{
		Error:   "not_found",
		Message: resource + " not found",
	})
}

// ConflictError returns a conflict error
func ConflictError(c echo.Context, message string) error {
	return c.JSON(http.StatusConflict, models.ErrorResponse{
		Error:   "conflict",
		Message: message,
	})
}

// UnavailableError reports an integration that is not configured
func UnavailableError(c echo.Context, err error) error {
	log.Warn("feature unavailable", requestFields(c, err)...)

	msg := "This feature is not configured."
	if de, ok := domain.AsDomainError(err); ok {
		msg = de.Message
	}
	return c.JSON(http.StatusServiceUnavailable, models.ErrorResponse{
		Error:   "unavailable",
		Message: msg,
	})
}

// FromDomain writes the response matching err's domain code
func FromDomain(c echo.Context, err error) error {
	de, ok := domain.AsDomainError(err)
	if !ok {
		return InternalError(c, err)
	}
	switch de.Code {
	case domain.ErrCodeNotFound:
		return c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "not_found", Message: de.Message})
	case domain.ErrCodeValidation:
		return ValidationError(c, err)
	case domain.ErrCodeConflict:
		return ConflictError(c, de.Message)
	case domain.ErrCodeUnauthorized:
		return UnauthorizedError(c)
	case domain.ErrCodeUnavailable:
		return UnavailableError(c, err)
	default:
		return InternalError(c, err)
	}
}

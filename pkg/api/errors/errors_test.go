package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/realtyaura/aura/pkg/domain"
	"github.com/realtyaura/aura/pkg/models"
)

func newContext(method, path string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, path, nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func parseBody(t *testing.T, rec *httptest.ResponseRecorder) models.ErrorResponse {
	t.Helper()
	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestValidationError(t *testing.T) {
	t.Run("Generic message for raw errors", func(t *testing.T) {
		c, rec := newContext(http.MethodPost, "/api/v1/contacts")
		require.NoError(t, ValidationError(c, errors.New("Key: 'Name' Error:Field validation for 'Name' failed")))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		body := parseBody(t, rec)
		assert.Equal(t, "validation_error", body.Error)
		assert.NotContains(t, body.Message, "Key:")
	})

	t.Run("Domain message passes through", func(t *testing.T) {
		c, rec := newContext(http.MethodPost, "/api/v1/chat")
		require.NoError(t, ValidationError(c, domain.NewValidationError("message is required")))
		assert.Equal(t, "message is required", parseBody(t, rec).Message)
	})
}

func TestInternalErrorsHideDetails(t *testing.T) {
	secret := errors.New("sqlite: no such table: Contacts at /var/lib/aura.db")

	c, rec := newContext(http.MethodGet, "/api/v1/contacts")
	require.NoError(t, DatabaseError(c, secret))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "sqlite")

	c, rec = newContext(http.MethodGet, "/api/v1/contacts")
	require.NoError(t, InternalError(c, secret))
	assert.Equal(t, "internal_error", parseBody(t, rec).Error)
	assert.NotContains(t, rec.Body.String(), "/var/lib")
}

func TestFromDomain(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
		msg    string
	}{
		{"not found", domain.NewNotFoundError("contact"), http.StatusNotFound, "not_found", "contact not found"},
		{"wrapped not found", fmt.Errorf("load: %w", domain.NewNotFoundError("deal")), http.StatusNotFound, "not_found", "deal not found"},
		{"validation", domain.NewValidationError("viewing_date must be RFC3339"), http.StatusBadRequest, "validation_error", "viewing_date must be RFC3339"},
		{"conflict", domain.NewConflictError("already linked"), http.StatusConflict, "conflict", "already linked"},
		{"unauthorized", domain.NewUnauthorizedError(), http.StatusUnauthorized, "unauthorized", ""},
		{"unavailable", domain.NewUnavailableError("LLM"), http.StatusServiceUnavailable, "unavailable", "LLM is not configured"},
		{"internal domain", domain.NewInternalError(errors.New("disk")), http.StatusInternalServerError, "internal_error", ""},
		{"plain error", errors.New("boom"), http.StatusInternalServerError, "internal_error", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := newContext(http.MethodGet, "/api/v1/x")
			require.NoError(t, FromDomain(c, tt.err))

			assert.Equal(t, tt.status, rec.Code)
			body := parseBody(t, rec)
			assert.Equal(t, tt.code, body.Error)
			if tt.msg != "" {
				assert.Equal(t, tt.msg, body.Message)
			}
		})
	}
}

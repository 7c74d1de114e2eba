package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/realtyaura/aura/pkg/api/errors"
	"github.com/realtyaura/aura/pkg/auth"
	"github.com/realtyaura/aura/pkg/models"
)

// AuthHandler handles token renewal
type AuthHandler struct {
	secret string
	ttl    time.Duration
	now    func() time.Time
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(secret string, ttl time.Duration) *AuthHandler {
	return &AuthHandler{secret: secret, ttl: ttl, now: time.Now}
}

// Renew godoc
// @Summary Renew the API token
// @Description Issues a fresh token for the subject of the presented token. First tokens are minted with `aura token`.
// @Tags Auth
// @Produce json
// @Success 200 {object} models.TokenResponse
// @Failure 401 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /api/v1/auth/token [post]
func (h *AuthHandler) Renew(c echo.Context) error {
	subject, _ := c.Get("subject").(string)
	if subject == "" {
		return errors.UnauthorizedError(c)
	}
	token, expires, err := auth.GenerateToken(subject, h.secret, h.ttl, h.now())
	if err != nil {
		return errors.InternalError(c, err)
	}
	return c.JSON(http.StatusOK, models.TokenResponse{Token: token, ExpiresAt: expires.Unix()})
}

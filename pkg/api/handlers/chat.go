package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/realtyaura/aura/pkg/api/errors"
	"github.com/realtyaura/aura/pkg/assistant"
	"github.com/realtyaura/aura/pkg/models"
)

// ChatHandler handles the assistant endpoint
type ChatHandler struct {
	router *assistant.Router
}

// NewChatHandler creates a new chat handler
func NewChatHandler(router *assistant.Router) *ChatHandler {
	return &ChatHandler{router: router}
}

// Chat godoc
// @Summary Ask the assistant
// @Description Routes the message to a CRM action by keyword, falling back to the language model
// @Tags Chat
// @Accept json
// @Produce json
// @Param request body models.ChatRequest true "Message"
// @Success 200 {object} models.ChatResponse
// @Failure 400 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /api/v1/chat [post]
func (h *ChatHandler) Chat(c echo.Context) error {
	var req models.ChatRequest
	if ok, err := bind(c, &req); !ok {
		return err
	}
	resp, err := h.router.Handle(c.Request().Context(), req.Message)
	if err != nil {
		return errors.FromDomain(c, err)
	}
	return c.JSON(http.StatusOK, resp)
}

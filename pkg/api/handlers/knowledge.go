package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/realtyaura/aura/pkg/api/errors"
	"github.com/realtyaura/aura/pkg/knowledge"
	"github.com/realtyaura/aura/pkg/models"
)

const maxUploadBytes = 20 << 20

// KnowledgeHandler handles knowledge base endpoints
type KnowledgeHandler struct {
	service *knowledge.Service
}

// NewKnowledgeHandler creates a new knowledge handler
func NewKnowledgeHandler(service *knowledge.Service) *KnowledgeHandler {
	return &KnowledgeHandler{service: service}
}

// Upload godoc
// @Summary Upload a document
// @Description Stores the file in the knowledge directory and ingests it. A CSV with a name,email,phone,lead_status header imports contacts.
// @Tags Knowledge
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Document"
// @Success 201 {object} knowledge.IngestResult
// @Failure 400 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /api/v1/knowledge/upload [post]
func (h *KnowledgeHandler) Upload(c echo.Context) error {
	c.Request().Body = http.MaxBytesReader(c.Response(), c.Request().Body, maxUploadBytes)
	file, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid_request",
			Message: "A file field is required",
		})
	}
	src, err := file.Open()
	if err != nil {
		return errors.InternalError(c, err)
	}
	defer src.Close()

	result, err := h.service.Upload(c.Request().Context(), file.Filename, src)
	if err != nil {
		return errors.FromDomain(c, err)
	}
	return c.JSON(http.StatusCreated, result)
}

// Ingest godoc
// @Summary Ingest the knowledge directory
// @Description Re-reads every file in the knowledge directory
// @Tags Knowledge
// @Produce json
// @Success 200 {object} map[string]int
// @Security BearerAuth
// @Router /api/v1/knowledge/ingest [post]
func (h *KnowledgeHandler) Ingest(c echo.Context) error {
	n, err := h.service.IngestDir(c.Request().Context())
	if err != nil {
		return errors.FromDomain(c, err)
	}
	return c.JSON(http.StatusOK, map[string]int{"ingested": n})
}

// Search godoc
// @Summary Search documents
// @Description Documents containing every word of q, newest first
// @Tags Knowledge
// @Produce json
// @Param q query string true "Search terms"
// @Param limit query int false "Maximum results" default(10)
// @Success 200 {object} models.ListResponse
// @Security BearerAuth
// @Router /api/v1/knowledge/search [get]
func (h *KnowledgeHandler) Search(c echo.Context) error {
	results, err := h.service.Search(c.Request().Context(), c.QueryParam("q"), intQuery(c, "limit", 10))
	return list(c, results, err)
}

// Get godoc
// @Summary Get a document
// @Tags Knowledge
// @Produce json
// @Param id path int true "Document ID"
// @Success 200 {object} models.KnowledgeDocument
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /api/v1/knowledge/{id} [get]
func (h *KnowledgeHandler) Get(c echo.Context) error {
	id, ok, err := idParam(c, "id")
	if !ok {
		return err
	}
	doc, err := h.service.Get(c.Request().Context(), id)
	if err != nil {
		return errors.FromDomain(c, err)
	}
	return c.JSON(http.StatusOK, doc)
}

// Statistics godoc
// @Summary Knowledge base statistics
// @Tags Knowledge
// @Produce json
// @Success 200 {object} store.KnowledgeStats
// @Security BearerAuth
// @Router /api/v1/knowledge/stats [get]
func (h *KnowledgeHandler) Statistics(c echo.Context) error {
	stats, err := h.service.Statistics(c.Request().Context())
	if err != nil {
		return errors.FromDomain(c, err)
	}
	return c.JSON(http.StatusOK, stats)
}

// UpdateTags godoc
// @Summary Replace document tags
// @Tags Knowledge
// @Accept json
// @Produce json
// @Param id path int true "Document ID"
// @Param request body models.TagsRequest true "Tags"
// @Success 200 {object} models.SuccessResponse
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /api/v1/knowledge/{id}/tags [put]
func (h *KnowledgeHandler) UpdateTags(c echo.Context) error {
	id, ok, err := idParam(c, "id")
	if !ok {
		return err
	}
	var req models.TagsRequest
	if ok, err := bind(c, &req); !ok {
		return err
	}
	if err := h.service.UpdateTags(c.Request().Context(), id, req.Tags); err != nil {
		return errors.FromDomain(c, err)
	}
	return c.JSON(http.StatusOK, models.SuccessResponse{Success: true, Message: "Tags updated"})
}

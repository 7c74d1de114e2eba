package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/realtyaura/aura/pkg/api/errors"
	"github.com/realtyaura/aura/pkg/backup"
	"github.com/realtyaura/aura/pkg/models"
)

// BackupHandler handles backup-related requests
type BackupHandler struct {
	service *backup.Service
}

// NewBackupHandler creates a new backup handler
func NewBackupHandler(service *backup.Service) *BackupHandler {
	return &BackupHandler{service: service}
}

// CreateBackup godoc
// @Summary Create database backup
// @Description Snapshot the database, upload it to S3 when configured and prune expired copies
// @Tags Backup
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "Backup created successfully"
// @Failure 500 {object} models.ErrorResponse
// @Router /api/v1/backups [post]
func (h *BackupHandler) CreateBackup(c echo.Context) error {
	result, err := h.service.CreateBackup(c.Request().Context())
	if err != nil && result == nil {
		return errors.InternalError(c, err)
	}

	resp := map[string]any{
		"message":        "Backup created successfully",
		"filename":       result.Filename,
		"size_bytes":     result.FileSize,
		"s3_key":         result.S3Key,
		"duration_ms":    result.Duration.Milliseconds(),
		"uploaded_to_s3": result.UploadedToS3,
		"pruned":         result.Pruned,
	}
	if err != nil {
		resp["message"] = "Backup created locally; upload failed"
	}
	return c.JSON(http.StatusOK, resp)
}

// ListBackups godoc
// @Summary List local backups
// @Tags Backup
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.ListResponse
// @Router /api/v1/backups [get]
func (h *BackupHandler) ListBackups(c echo.Context) error {
	backups, err := h.service.ListBackups()
	if err != nil {
		return errors.InternalError(c, err)
	}
	if backups == nil {
		backups = []backup.BackupInfo{}
	}
	return c.JSON(http.StatusOK, models.ListResponse{Success: true, Data: backups, Count: len(backups)})
}

package handler

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/developer-az/food-tracker/internal/middleware"
	"github.com/developer-az/food-tracker/internal/models"
	"github.com/developer-az/food-tracker/internal/service"
	"github.com/developer-az/food-tracker/internal/util"
)

// BackupHandler serves the backup API.
type BackupHandler struct {
	Backups *service.BackupService
	log     *logrus.Entry
}

func NewBackupHandler(backups *service.BackupService, log *logrus.Logger) *BackupHandler {
	return &BackupHandler{Backups: backups, log: log.WithField("handler", "backup")}
}

func backupJSON(b *models.Backup) gin.H {
	return gin.H{
		"id":         b.ID,
		"file_name":  b.FileName,
		"size":       b.Size,
		"entries":    b.Entries,
		"created_at": b.CreatedAt,
	}
}

// CreateBackup writes an encrypted backup of the current user.
func (h *BackupHandler) CreateBackup(c *gin.Context) {
	b, err := h.Backups.Create(c.Request.Context(), middleware.CurrentUser(c).ID, time.Now())
	if err != nil {
		apiError(c, h.log, err)
		return
	}
	c.Set(middleware.AuditAction, "created backup "+b.ID)
	util.Success(c, util.Response{"backup": backupJSON(b)})
}

// ListBackups lists the current user's backups.
func (h *BackupHandler) ListBackups(c *gin.Context) {
	list, err := h.Backups.List(c.Request.Context(), middleware.CurrentUser(c).ID)
	if err != nil {
		apiError(c, h.log, err)
		return
	}
	items := make([]gin.H, 0, len(list))
	for i := range list {
		items = append(items, backupJSON(&list[i]))
	}
	util.Success(c, util.Response{"items": items})
}

// DownloadBackup sends the backup file, still encrypted.
func (h *BackupHandler) DownloadBackup(c *gin.Context) {
	b, err := h.Backups.Get(c.Request.Context(), middleware.CurrentUser(c).ID, c.Param("id"))
	if err != nil {
		apiError(c, h.log, err)
		return
	}
	c.Header("Content-Type", "application/octet-stream")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", b.FileName))
	c.File(b.FilePath)
}

// RestoreBackup replaces the user's log and goal with the snapshot.
func (h *BackupHandler) RestoreBackup(c *gin.Context) {
	id := c.Param("id")
	res, err := h.Backups.Restore(c.Request.Context(), middleware.CurrentUser(c).ID, id)
	if errors.Is(err, service.ErrForeignBackup) {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
		return
	}
	if err != nil {
		apiError(c, h.log, err)
		return
	}
	c.Set(middleware.AuditAction, "restored backup "+id)
	util.Success(c, util.Response{
		"entries_count": res.Restored,
		"skipped_foods": res.Skipped,
	})
}

// DeleteBackup removes the backup record and its file.
func (h *BackupHandler) DeleteBackup(c *gin.Context) {
	id := c.Param("id")
	if err := h.Backups.Delete(c.Request.Context(), middleware.CurrentUser(c).ID, id); err != nil {
		apiError(c, h.log, err)
		return
	}
	c.Set(middleware.AuditAction, "deleted backup "+id)
	util.Success(c, util.Response{"message": "deleted"})
}

package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"inventory-service/internal/metrics"
	"inventory-service/internal/models"
	"inventory-service/internal/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// maxBackupSize límite del body de importación
const maxBackupSize = 64 << 20

// BackupHandler maneja exportación/importación y la configuración de sincronización
type BackupHandler struct {
	baseHandler
	backupService services.BackupService
	collector     *metrics.Collector
	maxBodySize   int64
}

// NewBackupHandler crea una nueva instancia del handler
func NewBackupHandler(backupService services.BackupService, collector *metrics.Collector, logger *zap.Logger) *BackupHandler {
	return &BackupHandler{
		baseHandler:   baseHandler{logger: logger},
		backupService: backupService,
		collector:     collector,
		maxBodySize:   maxBackupSize,
	}
}

// Export descarga el documento de backup y registra lastSync
func (h *BackupHandler) Export(c *gin.Context) {
	ctx := c.Request.Context()

	data, err := h.backupService.ExportAll(ctx)
	if err != nil {
		h.collector.RecordBackup("export", "error")
		h.respondError(c, err, "Error exportando backup")
		return
	}

	if _, err := h.backupService.MarkSynced(ctx); err != nil {
		h.logError("Error registrando lastSync", zap.Error(err))
	}
	h.collector.RecordBackup("export", "ok")

	h.logSuccess("Backup exportado", zap.Int("bytes", len(data)))

	fileName := fmt.Sprintf("inventory_backup_%s.json", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", `attachment; filename="`+fileName+`"`)
	c.Data(http.StatusOK, "application/json", data)
}

// Import aplica un documento de backup recibido en el body
func (h *BackupHandler) Import(c *gin.Context) {
	data, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBodySize))
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		h.collector.RecordBackup("import", "error")
		h.logInfo("Documento demasiado grande", zap.Int64("limit", tooLarge.Limit))
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{
			"success": false,
			"message": "❌ Documento demasiado grande",
			"error":   err.Error(),
		})
		return
	}
	if err != nil {
		h.respondBadRequest(c, err, "Error leyendo el documento")
		return
	}

	summary, err := h.backupService.ImportAll(c.Request.Context(), data)
	if err != nil {
		h.collector.RecordBackup("import", "error")
		h.respondError(c, err, "Error importando backup")
		return
	}
	h.collector.RecordBackup("import", "ok")

	h.logSuccess("Backup importado",
		zap.Int("items", summary.Items),
		zap.Int("movements", summary.Movements))

	respondOK(c, http.StatusOK, "Backup importado correctamente", summary)
}

// GetConfig retorna la configuración de sincronización
func (h *BackupHandler) GetConfig(c *gin.Context) {
	cfg, err := h.backupService.GetConfig(c.Request.Context())
	if err != nil {
		h.respondError(c, err, "Error obteniendo configuración")
		return
	}
	respondOK(c, http.StatusOK, "Configuración obtenida", cfg)
}

// UpdateConfig reemplaza la configuración de sincronización
func (h *BackupHandler) UpdateConfig(c *gin.Context) {
	var cfg models.DriveConfig
	if err := c.ShouldBindJSON(&cfg); err != nil {
		h.respondBadRequest(c, err, "Error en el formato de datos")
		return
	}

	updated, err := h.backupService.UpdateConfig(c.Request.Context(), cfg)
	if err != nil {
		h.respondError(c, err, "Error guardando configuración")
		return
	}
	respondOK(c, http.StatusOK, "Configuración guardada", updated)
}

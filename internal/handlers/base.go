package handlers

import (
	"errors"
	"net/http"

	"inventory-service/internal/assistant"
	"inventory-service/internal/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// baseHandler helpers de logging compartidos por los handlers
type baseHandler struct {
	logger *zap.Logger
}

// logDebug logs solo en modo debug
func (h *baseHandler) logDebug(msg string, fields ...zap.Field) {
	h.logger.Debug("🔍 [DEBUG] "+msg, fields...)
}

// logInfo logs en todos los modos
func (h *baseHandler) logInfo(msg string, fields ...zap.Field) {
	h.logger.Info("ℹ️ "+msg, fields...)
}

// logError logs errores en todos los modos
func (h *baseHandler) logError(msg string, fields ...zap.Field) {
	h.logger.Error("❌ "+msg, fields...)
}

// logSuccess logs de éxito en todos los modos
func (h *baseHandler) logSuccess(msg string, fields ...zap.Field) {
	h.logger.Info("✅ "+msg, fields...)
}

// statusFor traduce los errores de dominio a códigos HTTP
func statusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrValidation), errors.Is(err, models.ErrInvalidBackupFormat):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrItemNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrInsufficientStock):
		return http.StatusConflict
	case errors.Is(err, models.ErrStorageUnavailable), errors.Is(err, assistant.ErrNotConfigured):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// respondError responde con el envelope de error y loguea según la severidad
func (h *baseHandler) respondError(c *gin.Context, err error, message string) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.logError(message, zap.Error(err), zap.String("path", c.Request.URL.Path))
	} else {
		h.logInfo(message, zap.Error(err), zap.Int("status", status))
	}

	c.JSON(status, gin.H{
		"success": false,
		"message": "❌ " + message,
		"error":   err.Error(),
	})
}

// respondBadRequest responde 400 para bodies o parámetros mal formados
func (h *baseHandler) respondBadRequest(c *gin.Context, err error, message string) {
	h.logInfo(message, zap.Error(err))
	c.JSON(http.StatusBadRequest, gin.H{
		"success": false,
		"message": "❌ " + message,
		"error":   err.Error(),
	})
}

// respondOK responde con el envelope de éxito
func respondOK(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, gin.H{
		"success": true,
		"message": "✅ " + message,
		"data":    data,
	})
}

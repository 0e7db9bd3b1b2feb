package handlers

import (
	"errors"
	"net/http"
	"time"

	"inventory-service/internal/assistant"
	"inventory-service/internal/models"
	"inventory-service/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// AssistantHandler consultas en lenguaje natural sobre el inventario
type AssistantHandler struct {
	baseHandler
	assistant        *assistant.Assistant
	analyticsService services.AnalyticsService
	validator        *validator.Validate
}

// NewAssistantHandler crea el handler. Con assistant nil responde 503.
func NewAssistantHandler(a *assistant.Assistant, analyticsService services.AnalyticsService, logger *zap.Logger) *AssistantHandler {
	return &AssistantHandler{
		baseHandler:      baseHandler{logger: logger},
		assistant:        a,
		analyticsService: analyticsService,
		validator:        models.NewValidator(),
	}
}

func (h *AssistantHandler) available(c *gin.Context) bool {
	if h.assistant == nil {
		h.respondError(c, assistant.ErrNotConfigured, "Asistente AI no disponible")
		return false
	}
	return true
}

// Ask responde una pregunta libre sobre el inventario
func (h *AssistantHandler) Ask(c *gin.Context) {
	if !h.available(c) {
		return
	}
	start := time.Now()

	var req models.AskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondBadRequest(c, err, "Error en el formato de datos")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		h.respondBadRequest(c, err, "Datos de entrada inválidos")
		return
	}

	snapshot, err := h.analyticsService.GetSnapshot(c.Request.Context())
	if err != nil {
		h.respondError(c, err, "Error leyendo el inventario")
		return
	}

	answer, err := h.assistant.Ask(c.Request.Context(), snapshot.Items, snapshot.Movements, req.Question)
	if err != nil {
		h.respondUpstream(c, err)
		return
	}

	h.logSuccess("Consulta AI respondida", zap.Duration("latency", time.Since(start)))
	respondOK(c, http.StatusOK, "Respuesta generada", models.AskResponse{Question: req.Question, Answer: answer})
}

// PlanProduction análisis de reposición sobre las salidas históricas
func (h *AssistantHandler) PlanProduction(c *gin.Context) {
	if !h.available(c) {
		return
	}

	snapshot, err := h.analyticsService.GetSnapshot(c.Request.Context())
	if err != nil {
		h.respondError(c, err, "Error leyendo el inventario")
		return
	}

	answer, err := h.assistant.PlanProduction(c.Request.Context(), snapshot.Movements)
	if err != nil {
		h.respondUpstream(c, err)
		return
	}
	respondOK(c, http.StatusOK, "Análisis generado", gin.H{"analysis": answer})
}

// AnalyzeSeasonality interpreta el análisis anual con los mismos filtros de /analytics
func (h *AssistantHandler) AnalyzeSeasonality(c *gin.Context) {
	if !h.available(c) {
		return
	}

	opts, err := parseYearlyOptions(c)
	if err != nil {
		h.respondBadRequest(c, err, "Parámetros de análisis inválidos")
		return
	}

	report, err := h.analyticsService.GetYearlyReport(c.Request.Context(), opts)
	if err != nil {
		h.respondError(c, err, "Error generando análisis")
		return
	}

	answer, err := h.assistant.AnalyzeSeasonality(c.Request.Context(), report)
	if err != nil {
		h.respondUpstream(c, err)
		return
	}
	respondOK(c, http.StatusOK, "Análisis generado", gin.H{"analysis": answer, "year": report.Year})
}

// GenerateDescription sugiere la descripción comercial de un item
func (h *AssistantHandler) GenerateDescription(c *gin.Context) {
	if !h.available(c) {
		return
	}

	var req models.DescriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondBadRequest(c, err, "Error en el formato de datos")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		h.respondBadRequest(c, err, "Datos de entrada inválidos")
		return
	}

	description, err := h.assistant.GenerateDescription(c.Request.Context(), req.Name, req.Category)
	if err != nil {
		h.respondUpstream(c, err)
		return
	}
	respondOK(c, http.StatusOK, "Descripción generada", gin.H{"description": description})
}

// AnalyzeImage sugiere nombre, categoría y descripción a partir de una foto
func (h *AssistantHandler) AnalyzeImage(c *gin.Context) {
	if !h.available(c) {
		return
	}

	var req models.ImageAnalysisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondBadRequest(c, err, "Error en el formato de datos")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		h.respondBadRequest(c, err, "Datos de entrada inválidos")
		return
	}

	analysis, err := h.assistant.AnalyzeImage(c.Request.Context(), req.Image)
	if errors.Is(err, models.ErrValidation) {
		h.respondError(c, err, "Imagen inválida")
		return
	}
	if err != nil {
		h.respondUpstream(c, err)
		return
	}
	respondOK(c, http.StatusOK, "Imagen analizada", analysis)
}

func (h *AssistantHandler) respondUpstream(c *gin.Context, err error) {
	h.logError("Error consultando el modelo", zap.Error(err))
	c.JSON(http.StatusBadGateway, gin.H{
		"success": false,
		"message": "❌ Errore durante l'analisi AI. Verifica la connessione o la chiave API.",
		"error":   err.Error(),
	})
}

// Package assistant responde preguntas en lenguaje natural sobre el inventario usando un LLM.
package assistant

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"inventory-service/internal/analytics"
	"inventory-service/internal/config"
	"inventory-service/internal/models"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"github.com/tmc/langchaingo/schema"
	"go.uber.org/zap"
)

const (
	recentMovementsInContext = 30
	topSellersInContext      = 5
	defaultImageMIME         = "image/jpeg"
)

// ErrNotConfigured se retorna cuando no hay API key del modelo
var ErrNotConfigured = errors.New("assistant not configured")

// Assistant arma el contexto del inventario y consulta al modelo
type Assistant struct {
	model     llms.Model
	modelName string
	logger    *zap.Logger
}

// New crea un asistente sobre cualquier modelo de langchaingo
func New(model llms.Model, modelName string, logger *zap.Logger) *Assistant {
	return &Assistant{model: model, modelName: modelName, logger: logger}
}

// NewOpenAI crea el asistente sobre una API compatible con OpenAI. Sin API key retorna ErrNotConfigured.
func NewOpenAI(cfg config.AIConfig, logger *zap.Logger) (*Assistant, error) {
	if cfg.APIKey == "" {
		return nil, ErrNotConfigured
	}

	opts := []openai.Option{
		openai.WithToken(cfg.APIKey),
		openai.WithModel(cfg.Model),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
	}

	client, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}

	logger.Info("AI assistant configured", zap.String("model", cfg.Model))
	return New(client, cfg.Model, logger), nil
}

// Ask responde una pregunta libre usando solo los datos del snapshot
func (a *Assistant) Ask(ctx context.Context, items []models.InventoryItem, movements []models.StockMovement, question string) (string, error) {
	prompt := buildQueryPrompt(items, movements, question)
	return a.generate(ctx, "ask", prompt, "Non sono riuscito a trovare una risposta nei dati forniti.")
}

// PlanProduction sugiere prioridades de reposición según las salidas históricas
func (a *Assistant) PlanProduction(ctx context.Context, movements []models.StockMovement) (string, error) {
	prompt := buildPlanningPrompt(movements)
	return a.generate(ctx, "plan_production", prompt, "Impossibile generare l'analisi al momento.")
}

// AnalyzeSeasonality interpreta los picos mensuales del análisis anual
func (a *Assistant) AnalyzeSeasonality(ctx context.Context, report *analytics.YearlyReport) (string, error) {
	prompt := buildSeasonalityPrompt(report)
	return a.generate(ctx, "analyze_seasonality", prompt, "Impossibile generare l'analisi al momento.")
}

// GenerateDescription redacta una descripción comercial breve para un item nuevo
func (a *Assistant) GenerateDescription(ctx context.Context, name, category string) (string, error) {
	prompt := buildDescriptionPrompt(name, category)
	answer, err := a.generate(ctx, "generate_description", prompt, "")
	return strings.TrimSpace(answer), err
}

// AnalyzeImage sugiere nombre, categoría y descripción a partir de la foto del producto.
// Una respuesta del modelo que no es JSON válido se devuelve como análisis vacío.
func (a *Assistant) AnalyzeImage(ctx context.Context, image string) (*models.ImageAnalysis, error) {
	mime, data, err := decodeImage(image)
	if err != nil {
		return nil, err
	}

	logger := a.logger.With(zap.String("operation", "analyze_image"), zap.String("mime", mime))

	parts := []llms.ContentPart{
		llms.BinaryPart(mime, data),
		llms.TextContent{Text: imageAnalysisPrompt},
	}
	response, err := a.call(ctx, logger, parts, llms.WithJSONMode())
	if err != nil {
		return nil, err
	}

	analysis := &models.ImageAnalysis{}
	if response == "" {
		logger.Warn("Empty LLM response")
		return analysis, nil
	}
	if err := json.Unmarshal([]byte(stripCodeFence(response)), analysis); err != nil {
		logger.Warn("LLM response is not valid JSON", zap.Error(err))
		return &models.ImageAnalysis{}, nil
	}
	return analysis, nil
}

func (a *Assistant) generate(ctx context.Context, operation, prompt, fallback string) (string, error) {
	logger := a.logger.With(zap.String("operation", operation))

	answer, err := a.call(ctx, logger, []llms.ContentPart{llms.TextContent{Text: prompt}})
	if err != nil {
		return "", err
	}
	if answer == "" {
		logger.Warn("Empty LLM response")
		return fallback, nil
	}
	return answer, nil
}

// call envía un mensaje del usuario y retorna el texto de la primera opción, vacío si no hay
func (a *Assistant) call(ctx context.Context, logger *zap.Logger, parts []llms.ContentPart, opts ...llms.CallOption) (string, error) {
	if a.modelName != "" {
		opts = append(opts, llms.WithModel(a.modelName))
	}

	response, err := a.model.GenerateContent(ctx, []llms.MessageContent{
		{Role: schema.ChatMessageTypeHuman, Parts: parts},
	}, opts...)
	if err != nil {
		logger.Error("LLM request failed", zap.Error(err))
		return "", fmt.Errorf("failed to generate answer: %w", err)
	}

	if response == nil || len(response.Choices) == 0 || strings.TrimSpace(response.Choices[0].Content) == "" {
		return "", nil
	}
	return response.Choices[0].Content, nil
}

// decodeImage acepta "data:<mime>;base64,<datos>" o base64 puro (se asume JPEG)
func decodeImage(image string) (string, []byte, error) {
	mime, payload := defaultImageMIME, strings.TrimSpace(image)

	if rest, ok := strings.CutPrefix(payload, "data:"); ok {
		header, body, found := strings.Cut(rest, ",")
		if !found {
			return "", nil, fmt.Errorf("%w: image data URL without payload", models.ErrValidation)
		}
		if declared, _, _ := strings.Cut(header, ";"); declared != "" {
			mime = declared
		}
		payload = body
	}

	if !strings.HasPrefix(mime, "image/") {
		return "", nil, fmt.Errorf("%w: unsupported image type %q", models.ErrValidation, mime)
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("%w: image is not valid base64: %v", models.ErrValidation, err)
	}
	if len(data) == 0 {
		return "", nil, fmt.Errorf("%w: empty image", models.ErrValidation)
	}
	return mime, data, nil
}

// stripCodeFence quita el bloque ```json que algunos modelos agregan aunque se pida JSON puro
func stripCodeFence(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimPrefix(text, "json")
	text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	return strings.TrimSpace(text)
}

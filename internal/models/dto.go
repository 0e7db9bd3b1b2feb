package models

import "github.com/shopspring/decimal"

// ===== REQUEST DTOs =====

// ItemInput DTO para alta y edición de items. La cantidad solo se usa en el alta.
type ItemInput struct {
	Code        string          `json:"code" validate:"required"`
	Name        string          `json:"name" validate:"required"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price" validate:"gte=0"`
	Cost        decimal.Decimal `json:"cost" validate:"gte=0"`
	Quantity    int             `json:"quantity" validate:"gte=0"`
	MinStock    int             `json:"minStock" validate:"gte=0"`
	Category    string          `json:"category"`
	ImageData   string          `json:"imageData,omitempty"`
}

// AdjustStockRequest DTO para carga/descarga de un item
type AdjustStockRequest struct {
	Quantity  int          `json:"quantity" validate:"gt=0"`
	Direction MovementType `json:"type" validate:"required,oneof=IN OUT"`
	Reason    string       `json:"reason"`
}

// AskRequest DTO para consultas en lenguaje natural
type AskRequest struct {
	Question string `json:"question" validate:"required"`
}

// DescriptionRequest DTO para generar la descripción comercial de un item
type DescriptionRequest struct {
	Name     string `json:"name" validate:"required"`
	Category string `json:"category"`
}

// ImageAnalysisRequest DTO con la foto del producto (data URL o base64 puro)
type ImageAnalysisRequest struct {
	Image string `json:"image" validate:"required"`
}

// ===== RESPONSE DTOs =====

// ImageAnalysis campos sugeridos a partir de la foto del producto
type ImageAnalysis struct {
	Name        string `json:"name,omitempty"`
	Category    string `json:"category,omitempty"`
	Description string `json:"description,omitempty"`
}

// AdjustStockResponse respuesta de un ajuste de stock
type AdjustStockResponse struct {
	Item        *InventoryItem `json:"item"`
	Movement    *StockMovement `json:"movement"`
	OldQuantity int            `json:"old_quantity"`
	NewQuantity int            `json:"new_quantity"`
}

// AskResponse respuesta del asistente
type AskResponse struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

package handlers

import (
	"net/http"
	"time"

	"inventory-service/internal/models"
	"inventory-service/internal/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ItemHandler maneja las peticiones HTTP del catálogo de items
type ItemHandler struct {
	baseHandler
	itemService  services.ItemService
	stockService services.StockService
}

// NewItemHandler crea una nueva instancia del handler
func NewItemHandler(itemService services.ItemService, stockService services.StockService, logger *zap.Logger) *ItemHandler {
	return &ItemHandler{
		baseHandler:  baseHandler{logger: logger},
		itemService:  itemService,
		stockService: stockService,
	}
}

// ListItems lista items, con búsqueda opcional ?q=
func (h *ItemHandler) ListItems(c *gin.Context) {
	query := c.Query("q")
	h.logDebug("Listing items", zap.String("query", query))

	items, err := h.itemService.ListItems(c.Request.Context(), query)
	if err != nil {
		h.respondError(c, err, "Error obteniendo items")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    items,
		"count":   len(items),
	})
}

// GetItem obtiene un item por id
func (h *ItemHandler) GetItem(c *gin.Context) {
	item, err := h.itemService.GetItem(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err, "Error obteniendo item")
		return
	}
	respondOK(c, http.StatusOK, "Item encontrado", item)
}

// CreateItem da de alta un item
func (h *ItemHandler) CreateItem(c *gin.Context) {
	start := time.Now()

	var input models.ItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.respondBadRequest(c, err, "Error en el formato de datos")
		return
	}

	item, err := h.itemService.CreateItem(c.Request.Context(), &input)
	if err != nil {
		h.respondError(c, err, "Error creando item")
		return
	}

	h.logSuccess("Item creado",
		zap.String("item_id", item.ID),
		zap.String("code", item.Code),
		zap.Duration("latency", time.Since(start)))

	respondOK(c, http.StatusCreated, "Item creado correctamente", item)
}

// UpdateItem actualiza los campos editables de un item
func (h *ItemHandler) UpdateItem(c *gin.Context) {
	var input models.ItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.respondBadRequest(c, err, "Error en el formato de datos")
		return
	}

	item, err := h.itemService.UpdateItem(c.Request.Context(), c.Param("id"), &input)
	if err != nil {
		h.respondError(c, err, "Error actualizando item")
		return
	}

	h.logSuccess("Item actualizado", zap.String("item_id", item.ID))
	respondOK(c, http.StatusOK, "Item actualizado correctamente", item)
}

// DeleteItem elimina un item; el historial de movimientos se conserva
func (h *ItemHandler) DeleteItem(c *gin.Context) {
	id := c.Param("id")
	if err := h.itemService.DeleteItem(c.Request.Context(), id); err != nil {
		h.respondError(c, err, "Error eliminando item")
		return
	}

	h.logSuccess("Item eliminado", zap.String("item_id", id))
	respondOK(c, http.StatusOK, "Item eliminado correctamente", gin.H{"id": id})
}

// GetItemMovements obtiene los movimientos de un item
func (h *ItemHandler) GetItemMovements(c *gin.Context) {
	movements, err := h.stockService.GetMovementsByItem(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err, "Error obteniendo movimientos del item")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    movements,
		"count":   len(movements),
	})
}

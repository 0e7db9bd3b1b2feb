package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"inventory-service/internal/analytics"
	"inventory-service/internal/models"
	"inventory-service/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// StockService define la interfaz del libro de movimientos
type StockService interface {
	// Operaciones básicas
	AdjustStock(ctx context.Context, itemID string, req *models.AdjustStockRequest) (*models.AdjustStockResponse, error)

	// Consultas
	GetMovements(ctx context.Context, filter models.MovementFilter) ([]models.StockMovement, error)
	GetMovementsByItem(ctx context.Context, itemID string) ([]models.StockMovement, error)
	GetLowStock(ctx context.Context) ([]models.InventoryItem, error)
}

// stockService implementa StockService
type stockService struct {
	store    repository.Store
	location *time.Location
	logger   *zap.Logger

	// serializa los ajustes dentro del proceso
	adjustMutex sync.Mutex
}

// NewStockService crea una nueva instancia del servicio. location define los días del filtro por fechas.
func NewStockService(store repository.Store, location *time.Location, logger *zap.Logger) StockService {
	if location == nil {
		location = time.Local
	}
	return &stockService{
		store:    store,
		location: location,
		logger:   logger,
	}
}

// AdjustStock aplica una carga o descarga y registra el movimiento en una sola transacción
func (s *stockService) AdjustStock(ctx context.Context, itemID string, req *models.AdjustStockRequest) (*models.AdjustStockResponse, error) {
	logger := s.logger.With(
		zap.String("operation", "adjust_stock"),
		zap.String("item_id", itemID),
		zap.Int("quantity", req.Quantity),
		zap.String("type", string(req.Direction)),
	)

	if req.Quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity must be greater than zero", models.ErrValidation)
	}
	if !req.Direction.Valid() {
		return nil, fmt.Errorf("%w: type must be IN or OUT", models.ErrValidation)
	}

	s.adjustMutex.Lock()
	defer s.adjustMutex.Unlock()

	// la cantidad se lee y se modifica dentro de la transacción del store
	movement := &models.StockMovement{
		ID:       uuid.New().String(),
		ItemID:   itemID,
		Type:     req.Direction,
		Quantity: req.Quantity,
		Date:     models.Now(),
		Reason:   req.Reason,
	}

	item, err := s.store.AdjustStockWithMovement(ctx, movement)
	switch {
	case errors.Is(err, models.ErrItemNotFound):
		logger.Warn("Item not found")
		return nil, err
	case errors.Is(err, models.ErrInsufficientStock):
		logger.Warn("Insufficient stock", zap.Error(err))
		return nil, err
	case err != nil:
		logger.Error("Failed to adjust stock", zap.Error(err))
		return nil, fmt.Errorf("failed to adjust stock: %w", err)
	}

	newQuantity := item.Quantity
	oldQuantity := newQuantity - movement.Delta()

	logger.Info("Stock adjusted",
		zap.Int("old_quantity", oldQuantity),
		zap.Int("new_quantity", newQuantity),
		zap.String("movement_id", movement.ID),
	)

	return &models.AdjustStockResponse{
		Item:        item,
		Movement:    movement,
		OldQuantity: oldQuantity,
		NewQuantity: newQuantity,
	}, nil
}

// GetMovements obtiene el historial filtrado, del más reciente al más antiguo
func (s *stockService) GetMovements(ctx context.Context, filter models.MovementFilter) ([]models.StockMovement, error) {
	var (
		movements []models.StockMovement
		err       error
	)

	// con rango completo se usa el índice por fecha
	if from, to := analytics.DayBounds(filter, s.location); from != nil && to != nil {
		movements, err = s.store.ListMovementsBetween(ctx, *from, *to)
	} else {
		movements, err = s.store.ListMovements(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list movements: %w", err)
	}

	return analytics.FilterMovements(movements, filter, s.location), nil
}

// GetMovementsByItem obtiene los movimientos de un item, incluso si el item fue borrado
func (s *stockService) GetMovementsByItem(ctx context.Context, itemID string) ([]models.StockMovement, error) {
	movements, err := s.store.ListMovementsByItem(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("failed to list item movements: %w", err)
	}
	return analytics.SortByDateDesc(movements), nil
}

// GetLowStock obtiene items con stock bajo
func (s *stockService) GetLowStock(ctx context.Context) ([]models.InventoryItem, error) {
	items, err := s.store.ListItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	return analytics.LowStock(items), nil
}

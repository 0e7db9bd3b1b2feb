package services

import (
	"context"
	"fmt"

	"inventory-service/internal/analytics"
	"inventory-service/internal/models"
	"inventory-service/internal/repository"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ItemService define la interfaz para el catálogo de items
type ItemService interface {
	CreateItem(ctx context.Context, input *models.ItemInput) (*models.InventoryItem, error)
	UpdateItem(ctx context.Context, id string, input *models.ItemInput) (*models.InventoryItem, error)
	DeleteItem(ctx context.Context, id string) error
	GetItem(ctx context.Context, id string) (*models.InventoryItem, error)
	ListItems(ctx context.Context, query string) ([]models.InventoryItem, error)
}

type itemService struct {
	store    repository.Store
	validate *validator.Validate
	logger   *zap.Logger
}

// NewItemService crea una nueva instancia del servicio
func NewItemService(store repository.Store, logger *zap.Logger) ItemService {
	return &itemService{
		store:    store,
		validate: models.NewValidator(),
		logger:   logger,
	}
}

// CreateItem da de alta un item. La cantidad inicial se guarda sin generar movimiento.
func (s *itemService) CreateItem(ctx context.Context, input *models.ItemInput) (*models.InventoryItem, error) {
	logger := s.logger.With(
		zap.String("operation", "create_item"),
		zap.String("code", input.Code),
	)

	if err := s.validate.Struct(input); err != nil {
		logger.Warn("Invalid item input", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", models.ErrValidation, err)
	}

	item := &models.InventoryItem{
		ID:        uuid.New().String(),
		Quantity:  input.Quantity,
		UpdatedAt: models.Now(),
	}
	applyInput(item, input)

	if err := s.store.PutItem(ctx, item); err != nil {
		logger.Error("Failed to create item", zap.Error(err))
		return nil, fmt.Errorf("failed to create item: %w", err)
	}

	logger.Info("Item created", zap.String("item_id", item.ID))
	return item, nil
}

// UpdateItem reemplaza los campos editables. La cantidad solo cambia vía movimientos.
func (s *itemService) UpdateItem(ctx context.Context, id string, input *models.ItemInput) (*models.InventoryItem, error) {
	logger := s.logger.With(
		zap.String("operation", "update_item"),
		zap.String("item_id", id),
	)

	if err := s.validate.Struct(input); err != nil {
		logger.Warn("Invalid item input", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", models.ErrValidation, err)
	}

	item, err := s.GetItem(ctx, id)
	if err != nil {
		return nil, err
	}

	applyInput(item, input)
	item.UpdatedAt = models.Now()

	if err := s.store.UpdateItemFields(ctx, item); err != nil {
		logger.Error("Failed to update item", zap.Error(err))
		return nil, fmt.Errorf("failed to update item: %w", err)
	}

	// quantity pudo cambiar por un ajuste concurrente
	updated, err := s.GetItem(ctx, id)
	if err != nil {
		return nil, err
	}

	logger.Info("Item updated")
	return updated, nil
}

// DeleteItem elimina el item; sus movimientos se conservan
func (s *itemService) DeleteItem(ctx context.Context, id string) error {
	if _, err := s.GetItem(ctx, id); err != nil {
		return err
	}

	if err := s.store.DeleteItem(ctx, id); err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}

	s.logger.Info("Item deleted", zap.String("item_id", id))
	return nil
}

// GetItem obtiene un item o ErrItemNotFound
func (s *itemService) GetItem(ctx context.Context, id string) (*models.InventoryItem, error) {
	item, err := s.store.GetItem(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get item: %w", err)
	}
	if item == nil {
		return nil, fmt.Errorf("%w: %s", models.ErrItemNotFound, id)
	}
	return item, nil
}

// ListItems lista items, filtrando por nombre/código/categoría si hay query
func (s *itemService) ListItems(ctx context.Context, query string) ([]models.InventoryItem, error) {
	items, err := s.store.ListItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	return analytics.SearchItems(items, query), nil
}

func applyInput(item *models.InventoryItem, input *models.ItemInput) {
	item.Code = input.Code
	item.Name = input.Name
	item.Description = input.Description
	item.Price = input.Price
	item.Cost = input.Cost
	item.MinStock = input.MinStock
	item.Category = input.Category
	item.ImageData = input.ImageData
}

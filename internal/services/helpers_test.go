package services

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"inventory-service/internal/database"
	"inventory-service/internal/models"
	"inventory-service/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestStore(t *testing.T) (repository.Store, *database.SQLDB) {
	t.Helper()

	db, err := database.NewSQLDB(database.DriverSQLite, filepath.Join(t.TempDir(), "inventory.db"), 1, 1, time.Minute, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	store := repository.NewStore(db.DB, zap.NewNop())
	require.NoError(t, store.Init(context.Background()))
	t.Cleanup(func() { store.Close() })
	return store, db
}

func seedItem(t *testing.T, store repository.Store, id, name string, qty, minStock int) models.InventoryItem {
	t.Helper()

	item := models.InventoryItem{
		ID:        id,
		Code:      "C-" + id,
		Name:      name,
		Price:     decimal.NewFromInt(4),
		Cost:      decimal.NewFromInt(2),
		Quantity:  qty,
		MinStock:  minStock,
		Category:  "General",
		UpdatedAt: models.Timestamp(1000),
	}
	require.NoError(t, store.PutItem(context.Background(), &item))
	return item
}

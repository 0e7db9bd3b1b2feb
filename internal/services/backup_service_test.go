package services

import (
	"context"
	"encoding/json"
	"testing"

	"inventory-service/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func idsOf(items []models.InventoryItem) []string {
	ids := []string{}
	for _, i := range items {
		ids = append(ids, i.ID)
	}
	return ids
}

func TestBackupService_EmptyStoreExportImport(t *testing.T) {
	store, _ := newTestStore(t)
	svc := NewBackupService(store, zap.NewNop())
	ctx := context.Background()

	data, err := svc.ExportAll(ctx)
	require.NoError(t, err)

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.JSONEq(t, `[]`, string(raw["items"]))
	assert.JSONEq(t, `[]`, string(raw["movements"]))
	assert.JSONEq(t, `1`, string(raw["version"]))
	assert.NotEqual(t, "0", string(raw["exportedAt"]))

	summary, err := svc.ImportAll(ctx, data)
	require.NoError(t, err)
	assert.Zero(t, summary.Items)
	assert.Zero(t, summary.Movements)

	items, err := store.ListItems(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)
	movements, err := store.ListMovements(ctx)
	require.NoError(t, err)
	assert.Empty(t, movements)
}

func TestBackupService_RoundTrip(t *testing.T) {
	store, _ := newTestStore(t)
	svc := NewBackupService(store, zap.NewNop())
	stock := NewStockService(store, nil, zap.NewNop())
	ctx := context.Background()

	seedItem(t, store, "a", "Widget", 5, 1)
	seedItem(t, store, "b", "Gadget", 2, 1)
	_, err := stock.AdjustStock(ctx, "a", &models.AdjustStockRequest{Quantity: 2, Direction: models.MovementOut})
	require.NoError(t, err)

	itemsBefore, err := store.ListItems(ctx)
	require.NoError(t, err)
	movementsBefore, err := store.ListMovements(ctx)
	require.NoError(t, err)

	data, err := svc.ExportAll(ctx)
	require.NoError(t, err)

	// restaurar sobre un store vacío
	other, _ := newTestStore(t)
	restored := NewBackupService(other, zap.NewNop())
	_, err = restored.ImportAll(ctx, data)
	require.NoError(t, err)

	itemsAfter, err := other.ListItems(ctx)
	require.NoError(t, err)
	movementsAfter, err := other.ListMovements(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, idsOf(itemsBefore), idsOf(itemsAfter))
	require.Len(t, movementsAfter, len(movementsBefore))
	assert.Equal(t, movementsBefore[0].ID, movementsAfter[0].ID)

	// y sobre el mismo store: no cambia nada
	_, err = svc.ImportAll(ctx, data)
	require.NoError(t, err)
	itemsAgain, err := store.ListItems(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, idsOf(itemsBefore), idsOf(itemsAgain))
}

func TestBackupService_ImportMergeLaw(t *testing.T) {
	store, _ := newTestStore(t)
	svc := NewBackupService(store, zap.NewNop())
	ctx := context.Background()

	seedItem(t, store, "a", "Widget", 5, 1)
	untouched := seedItem(t, store, "b", "Gadget", 2, 1)

	doc := `{
		"items": [{"id": "a", "code": "NEW", "name": "Widget v2", "price": 9.5, "cost": 1, "quantity": 42, "minStock": 3, "category": "X", "updatedAt": 5}],
		"movements": [],
		"version": 1,
		"exportedAt": 5
	}`
	summary, err := svc.ImportAll(ctx, []byte(doc))
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Items)
	assert.False(t, summary.ConfigUpdated)

	a, err := store.GetItem(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "NEW", a.Code)
	assert.Equal(t, "Widget v2", a.Name)
	assert.Equal(t, 42, a.Quantity)

	b, err := store.GetItem(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, untouched.Name, b.Name)
	assert.Equal(t, untouched.Quantity, b.Quantity)
	assert.Equal(t, untouched.UpdatedAt, b.UpdatedAt)
}

func TestBackupService_InvalidDocumentLeavesStoreUnchanged(t *testing.T) {
	store, _ := newTestStore(t)
	svc := NewBackupService(store, zap.NewNop())
	ctx := context.Background()
	seedItem(t, store, "a", "Widget", 5, 1)

	// el segundo item es inválido: no se aplica ninguno
	doc := `{
		"items": [{"id": "a", "code": "A", "name": "Changed", "quantity": 1}, {"id": "z", "code": "", "name": "Broken"}],
		"movements": []
	}`
	_, err := svc.ImportAll(ctx, []byte(doc))
	assert.ErrorIs(t, err, models.ErrInvalidBackupFormat)

	_, err = svc.ImportAll(ctx, []byte(`{"items": []}`))
	assert.ErrorIs(t, err, models.ErrInvalidBackupFormat)

	_, err = svc.ImportAll(ctx, []byte(`not json`))
	assert.ErrorIs(t, err, models.ErrInvalidBackupFormat)

	items, err := store.ListItems(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Widget", items[0].Name)
}

func TestBackupService_ConfigHandling(t *testing.T) {
	store, _ := newTestStore(t)
	svc := NewBackupService(store, zap.NewNop())
	ctx := context.Background()

	cfg, err := svc.GetConfig(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.DefaultDriveConfig(), cfg)

	synced, err := svc.MarkSynced(ctx)
	require.NoError(t, err)
	require.NotNil(t, synced.LastSync)

	updated, err := svc.UpdateConfig(ctx, models.DriveConfig{ClientID: "client", APIKey: "key"})
	require.NoError(t, err)
	require.NotNil(t, updated.LastSync)
	assert.Equal(t, *synced.LastSync, *updated.LastSync)

	_, err = svc.ImportAll(ctx, []byte(`{"items": [], "movements": [], "config": {"clientId": "imported", "apiKey": ""}}`))
	require.NoError(t, err)

	cfg, err = svc.GetConfig(ctx)
	require.NoError(t, err)
	assert.Equal(t, "imported", cfg.ClientID)
	assert.Nil(t, cfg.LastSync)
}

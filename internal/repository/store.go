package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"inventory-service/internal/models"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// Store define el almacenamiento durable de items, movimientos y configuración
type Store interface {
	// Ciclo de vida
	Init(ctx context.Context) error
	Close() error

	// Items
	ListItems(ctx context.Context) ([]models.InventoryItem, error)
	GetItem(ctx context.Context, id string) (*models.InventoryItem, error)
	PutItem(ctx context.Context, item *models.InventoryItem) error
	UpdateItemFields(ctx context.Context, item *models.InventoryItem) error
	DeleteItem(ctx context.Context, id string) error

	// Movimientos (solo append)
	ListMovements(ctx context.Context) ([]models.StockMovement, error)
	ListMovementsByItem(ctx context.Context, itemID string) ([]models.StockMovement, error)
	ListMovementsBetween(ctx context.Context, from, to models.Timestamp) ([]models.StockMovement, error)
	AppendMovement(ctx context.Context, movement *models.StockMovement) error

	// Configuración
	GetConfig(ctx context.Context) (models.DriveConfig, error)
	PutConfig(ctx context.Context, cfg models.DriveConfig) error

	// Operaciones transaccionales
	AdjustStockWithMovement(ctx context.Context, movement *models.StockMovement) (*models.InventoryItem, error)
	ImportAll(ctx context.Context, items []models.InventoryItem, movements []models.StockMovement, cfg *models.DriveConfig) error
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS items (
		id          TEXT PRIMARY KEY,
		code        TEXT NOT NULL,
		name        TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		price       TEXT NOT NULL DEFAULT '0',
		cost        TEXT NOT NULL DEFAULT '0',
		quantity    INTEGER NOT NULL DEFAULT 0 CHECK (quantity >= 0),
		min_stock   INTEGER NOT NULL DEFAULT 0,
		category    TEXT NOT NULL DEFAULT '',
		image_data  TEXT NOT NULL DEFAULT '',
		updated_at  BIGINT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS movements (
		id        TEXT PRIMARY KEY,
		item_id   TEXT NOT NULL,
		item_name TEXT NOT NULL,
		type      TEXT NOT NULL,
		quantity  INTEGER NOT NULL,
		date      BIGINT NOT NULL,
		reason    TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE INDEX IF NOT EXISTS idx_movements_item_id ON movements (item_id)`,
	`CREATE INDEX IF NOT EXISTS idx_movements_date ON movements (date)`,
	`CREATE TABLE IF NOT EXISTS config (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	)`,
}

const itemColumns = `id, code, name, description, price, cost, quantity, min_stock, category, image_data, updated_at`

const movementColumns = `id, item_id, item_name, type, quantity, date, reason`

// sqlStore implementa Store sobre sqlx (sqlite3 o postgres)
type sqlStore struct {
	db     *sqlx.DB
	logger *zap.Logger

	mu    sync.RWMutex
	stmts map[string]*sqlx.Stmt
	ready bool
}

// NewStore crea el store. Ninguna operación funciona hasta que Init termina bien.
func NewStore(db *sqlx.DB, logger *zap.Logger) Store {
	return &sqlStore{
		db:     db,
		logger: logger,
		stmts:  make(map[string]*sqlx.Stmt),
	}
}

func unavailable(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", models.ErrStorageUnavailable, op, err)
}

var errNotInitialized = errors.New("store not initialized")

// Init crea el esquema y prepara las consultas. Idempotente.
func (r *sqlStore) Init(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.ready {
		return nil
	}

	if err := r.db.PingContext(ctx); err != nil {
		return unavailable("ping database", err)
	}

	for _, ddl := range schema {
		if _, err := r.db.ExecContext(ctx, ddl); err != nil {
			return unavailable("create schema", err)
		}
	}

	if err := r.prepareStatements(ctx); err != nil {
		return unavailable("prepare statements", err)
	}

	r.ready = true
	r.logger.Info("Record store initialized", zap.String("driver", r.db.DriverName()))
	return nil
}

// prepareStatements prepara todas las consultas SQL para mejor rendimiento
func (r *sqlStore) prepareStatements(ctx context.Context) error {
	statements := map[string]string{
		"list_items": `SELECT ` + itemColumns + ` FROM items ORDER BY name, id`,
		"get_item":   `SELECT ` + itemColumns + ` FROM items WHERE id = ?`,
		"upsert_item": `
			INSERT INTO items (` + itemColumns + `)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT (id) DO UPDATE SET
				code = excluded.code,
				name = excluded.name,
				description = excluded.description,
				price = excluded.price,
				cost = excluded.cost,
				quantity = excluded.quantity,
				min_stock = excluded.min_stock,
				category = excluded.category,
				image_data = excluded.image_data,
				updated_at = excluded.updated_at
		`,
		"update_item_fields": `
			UPDATE items SET
				code = ?, name = ?, description = ?, price = ?, cost = ?,
				min_stock = ?, category = ?, image_data = ?, updated_at = ?
			WHERE id = ?
		`,
		"apply_item_delta": `
			UPDATE items SET quantity = quantity + ?, updated_at = ?
			WHERE id = ? AND quantity + ? >= 0
		`,
		"delete_item":    `DELETE FROM items WHERE id = ?`,
		"list_movements": `SELECT ` + movementColumns + ` FROM movements ORDER BY date, id`,
		"list_movements_by_item": `
			SELECT ` + movementColumns + ` FROM movements
			WHERE item_id = ?
			ORDER BY date, id
		`,
		"list_movements_between": `
			SELECT ` + movementColumns + ` FROM movements
			WHERE date >= ? AND date <= ?
			ORDER BY date, id
		`,
		"upsert_movement": `
			INSERT INTO movements (` + movementColumns + `)
			VALUES (?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT (id) DO UPDATE SET
				item_id = excluded.item_id,
				item_name = excluded.item_name,
				type = excluded.type,
				quantity = excluded.quantity,
				date = excluded.date,
				reason = excluded.reason
		`,
		"get_config": `SELECT value FROM config WHERE key = ?`,
		"upsert_config": `
			INSERT INTO config (key, value) VALUES (?, ?)
			ON CONFLICT (key) DO UPDATE SET value = excluded.value
		`,
	}

	for name, query := range statements {
		stmt, err := r.db.PreparexContext(ctx, r.db.Rebind(query))
		if err != nil {
			return fmt.Errorf("failed to prepare %s: %w", name, err)
		}
		r.stmts[name] = stmt
	}

	return nil
}

// stmt retorna una consulta preparada, o ErrStorageUnavailable si Init no se ejecutó
func (r *sqlStore) stmt(name string) (*sqlx.Stmt, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if !r.ready {
		return nil, unavailable(name, errNotInitialized)
	}
	return r.stmts[name], nil
}

// Close libera las consultas preparadas
func (r *sqlStore) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var errs []error
	for name, stmt := range r.stmts {
		if err := stmt.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %s: %w", name, err))
		}
		delete(r.stmts, name)
	}
	r.ready = false
	return errors.Join(errs...)
}

// ListItems obtiene todos los items
func (r *sqlStore) ListItems(ctx context.Context) ([]models.InventoryItem, error) {
	stmt, err := r.stmt("list_items")
	if err != nil {
		return nil, err
	}

	items := []models.InventoryItem{}
	if err := stmt.SelectContext(ctx, &items); err != nil {
		return nil, unavailable("failed to list items", err)
	}
	return items, nil
}

// GetItem obtiene un item por id; retorna nil si no existe
func (r *sqlStore) GetItem(ctx context.Context, id string) (*models.InventoryItem, error) {
	stmt, err := r.stmt("get_item")
	if err != nil {
		return nil, err
	}

	var item models.InventoryItem
	err = stmt.GetContext(ctx, &item, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, unavailable("failed to get item", err)
	}
	return &item, nil
}

// PutItem crea o reemplaza un item por id
func (r *sqlStore) PutItem(ctx context.Context, item *models.InventoryItem) error {
	stmt, err := r.stmt("upsert_item")
	if err != nil {
		return err
	}

	if _, err := stmt.ExecContext(ctx, itemArgs(item)...); err != nil {
		return unavailable("failed to put item", err)
	}
	return nil
}

// UpdateItemFields actualiza los campos editables sin tocar quantity
func (r *sqlStore) UpdateItemFields(ctx context.Context, item *models.InventoryItem) error {
	stmt, err := r.stmt("update_item_fields")
	if err != nil {
		return err
	}

	result, err := stmt.ExecContext(ctx,
		item.Code, item.Name, item.Description, item.Price, item.Cost,
		item.MinStock, item.Category, item.ImageData, item.UpdatedAt, item.ID,
	)
	if err != nil {
		return unavailable("failed to update item", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return unavailable("failed to get rows affected", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%w: %s", models.ErrItemNotFound, item.ID)
	}
	return nil
}

// DeleteItem elimina un item; no es error si no existe
func (r *sqlStore) DeleteItem(ctx context.Context, id string) error {
	stmt, err := r.stmt("delete_item")
	if err != nil {
		return err
	}

	if _, err := stmt.ExecContext(ctx, id); err != nil {
		return unavailable("failed to delete item", err)
	}
	return nil
}

// ListMovements obtiene todos los movimientos ordenados por fecha
func (r *sqlStore) ListMovements(ctx context.Context) ([]models.StockMovement, error) {
	return r.selectMovements(ctx, "list_movements")
}

// ListMovementsByItem obtiene los movimientos de un item (índice item_id)
func (r *sqlStore) ListMovementsByItem(ctx context.Context, itemID string) ([]models.StockMovement, error) {
	return r.selectMovements(ctx, "list_movements_by_item", itemID)
}

// ListMovementsBetween obtiene los movimientos en el rango [from, to] (índice date)
func (r *sqlStore) ListMovementsBetween(ctx context.Context, from, to models.Timestamp) ([]models.StockMovement, error) {
	return r.selectMovements(ctx, "list_movements_between", from, to)
}

func (r *sqlStore) selectMovements(ctx context.Context, name string, args ...interface{}) ([]models.StockMovement, error) {
	stmt, err := r.stmt(name)
	if err != nil {
		return nil, err
	}

	movements := []models.StockMovement{}
	if err := stmt.SelectContext(ctx, &movements, args...); err != nil {
		return nil, unavailable("failed to list movements", err)
	}
	return movements, nil
}

// AppendMovement registra un movimiento (upsert por id)
func (r *sqlStore) AppendMovement(ctx context.Context, movement *models.StockMovement) error {
	stmt, err := r.stmt("upsert_movement")
	if err != nil {
		return err
	}

	if _, err := stmt.ExecContext(ctx, movementArgs(movement)...); err != nil {
		return unavailable("failed to append movement", err)
	}
	return nil
}

// GetConfig retorna la configuración guardada o la configuración por defecto
func (r *sqlStore) GetConfig(ctx context.Context) (models.DriveConfig, error) {
	stmt, err := r.stmt("get_config")
	if err != nil {
		return models.DriveConfig{}, err
	}

	var raw string
	err = stmt.GetContext(ctx, &raw, models.ConfigKey)
	if errors.Is(err, sql.ErrNoRows) {
		return models.DefaultDriveConfig(), nil
	}
	if err != nil {
		return models.DriveConfig{}, unavailable("failed to get config", err)
	}

	var cfg models.DriveConfig
	if err := json.Unmarshal([]byte(raw), &cfg); err != nil {
		r.logger.Warn("Stored config is not valid JSON, using defaults", zap.Error(err))
		return models.DefaultDriveConfig(), nil
	}
	return cfg, nil
}

// PutConfig reemplaza la configuración completa
func (r *sqlStore) PutConfig(ctx context.Context, cfg models.DriveConfig) error {
	stmt, err := r.stmt("upsert_config")
	if err != nil {
		return err
	}

	raw, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if _, err := stmt.ExecContext(ctx, models.ConfigKey, string(raw)); err != nil {
		return unavailable("failed to put config", err)
	}
	return nil
}

// AdjustStockWithMovement aplica el delta del movimiento sobre la cantidad actual y lo registra en una
// transacción. Completa ItemName con el nombre vigente y retorna el item actualizado.
func (r *sqlStore) AdjustStockWithMovement(ctx context.Context, movement *models.StockMovement) (*models.InventoryItem, error) {
	deltaStmt, err := r.stmt("apply_item_delta")
	if err != nil {
		return nil, err
	}
	getStmt, err := r.stmt("get_item")
	if err != nil {
		return nil, err
	}
	movementStmt, err := r.stmt("upsert_movement")
	if err != nil {
		return nil, err
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, unavailable("failed to begin transaction", err)
	}
	defer tx.Rollback()

	delta := movement.Delta()

	// 1. Actualizar cantidad solo si no queda negativa
	result, err := tx.StmtxContext(ctx, deltaStmt).ExecContext(ctx, delta, movement.Date, movement.ItemID, delta)
	if err != nil {
		return nil, unavailable("failed to update item quantity", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, unavailable("failed to get rows affected", err)
	}

	var item models.InventoryItem
	err = tx.StmtxContext(ctx, getStmt).GetContext(ctx, &item, movement.ItemID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", models.ErrItemNotFound, movement.ItemID)
	}
	if err != nil {
		return nil, unavailable("failed to get item", err)
	}

	if rowsAffected == 0 {
		return nil, fmt.Errorf("%w: available %d, requested %d", models.ErrInsufficientStock, item.Quantity, movement.Quantity)
	}

	// 2. Registrar movimiento
	movement.ItemName = item.Name
	if _, err := tx.StmtxContext(ctx, movementStmt).ExecContext(ctx, movementArgs(movement)...); err != nil {
		return nil, unavailable("failed to log movement", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, unavailable("failed to commit adjustment", err)
	}
	return &item, nil
}

// ImportAll hace merge de items, movimientos y config en una única transacción
func (r *sqlStore) ImportAll(ctx context.Context, items []models.InventoryItem, movements []models.StockMovement, cfg *models.DriveConfig) error {
	itemStmt, err := r.stmt("upsert_item")
	if err != nil {
		return err
	}
	movementStmt, err := r.stmt("upsert_movement")
	if err != nil {
		return err
	}
	configStmt, err := r.stmt("upsert_config")
	if err != nil {
		return err
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return unavailable("failed to begin transaction", err)
	}
	defer tx.Rollback()

	txItem := tx.StmtxContext(ctx, itemStmt)
	for i := range items {
		if _, err := txItem.ExecContext(ctx, itemArgs(&items[i])...); err != nil {
			return unavailable(fmt.Sprintf("failed to import item %s", items[i].ID), err)
		}
	}

	txMovement := tx.StmtxContext(ctx, movementStmt)
	for i := range movements {
		if _, err := txMovement.ExecContext(ctx, movementArgs(&movements[i])...); err != nil {
			return unavailable(fmt.Sprintf("failed to import movement %s", movements[i].ID), err)
		}
	}

	if cfg != nil {
		raw, err := json.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("failed to encode config: %w", err)
		}
		if _, err := tx.StmtxContext(ctx, configStmt).ExecContext(ctx, models.ConfigKey, string(raw)); err != nil {
			return unavailable("failed to import config", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return unavailable("failed to commit import", err)
	}
	return nil
}

func itemArgs(item *models.InventoryItem) []interface{} {
	return []interface{}{
		item.ID, item.Code, item.Name, item.Description, item.Price, item.Cost,
		item.Quantity, item.MinStock, item.Category, item.ImageData, item.UpdatedAt,
	}
}

func movementArgs(m *models.StockMovement) []interface{} {
	return []interface{}{
		m.ID, m.ItemID, m.ItemName, m.Type, m.Quantity, m.Date, m.Reason,
	}
}

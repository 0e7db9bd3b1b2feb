package models

import (
	"time"
)

// MovementType dirección de un movimiento de stock
type MovementType string

const (
	MovementIn  MovementType = "IN"  // carga
	MovementOut MovementType = "OUT" // descarga
)

// Valid indica si el tipo es IN u OUT
func (t MovementType) Valid() bool {
	return t == MovementIn || t == MovementOut
}

// StockMovement representa la tabla movements. Inmutable una vez creado.
type StockMovement struct {
	ID       string       `json:"id" db:"id" validate:"required"`
	ItemID   string       `json:"itemId" db:"item_id" validate:"required"`
	ItemName string       `json:"itemName" db:"item_name"`
	Type     MovementType `json:"type" db:"type" validate:"required,oneof=IN OUT"`
	Quantity int          `json:"quantity" db:"quantity" validate:"gt=0"`
	Date     Timestamp    `json:"date" db:"date"`
	Reason   string       `json:"reason,omitempty" db:"reason"`
}

// Delta variación de cantidad que aplica el movimiento (+IN, -OUT)
func (m *StockMovement) Delta() int {
	if m.Type == MovementOut {
		return -m.Quantity
	}
	return m.Quantity
}

// MovementFilter filtros para el historial de movimientos
type MovementFilter struct {
	Search    string     `json:"search,omitempty"`
	StartDate *time.Time `json:"start_date,omitempty"`
	EndDate   *time.Time `json:"end_date,omitempty"`
	Limit     int        `json:"limit,omitempty"`
}

// IsEmpty indica si no hay ningún filtro activo
func (f *MovementFilter) IsEmpty() bool {
	return f == nil || (f.Search == "" && f.StartDate == nil && f.EndDate == nil)
}

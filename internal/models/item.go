package models

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Los backups guardan precios como números JSON, no como strings
	decimal.MarshalJSONWithoutQuotes = true
}

// Timestamp representa un instante en milisegundos Unix
type Timestamp int64

// NewTimestamp convierte un time.Time a Timestamp
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp(t.UnixMilli())
}

// Now retorna el instante actual
func Now() Timestamp {
	return NewTimestamp(time.Now())
}

// Time convierte el Timestamp a time.Time en la zona indicada
func (ts Timestamp) Time(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	return time.UnixMilli(int64(ts)).In(loc)
}

// InventoryItem representa la tabla items
type InventoryItem struct {
	ID          string          `json:"id" db:"id" validate:"required"`
	Code        string          `json:"code" db:"code" validate:"required"`
	Name        string          `json:"name" db:"name" validate:"required"`
	Description string          `json:"description" db:"description"`
	Price       decimal.Decimal `json:"price" db:"price" validate:"gte=0"`
	Cost        decimal.Decimal `json:"cost" db:"cost" validate:"gte=0"`
	Quantity    int             `json:"quantity" db:"quantity" validate:"gte=0"`
	MinStock    int             `json:"minStock" db:"min_stock"`
	Category    string          `json:"category" db:"category"`
	ImageData   string          `json:"imageData,omitempty" db:"image_data"`
	UpdatedAt   Timestamp       `json:"updatedAt" db:"updated_at"`
}

// IsLowStock indica si la cantidad actual está en o bajo el mínimo
func (i *InventoryItem) IsLowStock() bool {
	return i.Quantity <= i.MinStock
}

// StockValue retorna precio * cantidad
func (i *InventoryItem) StockValue() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

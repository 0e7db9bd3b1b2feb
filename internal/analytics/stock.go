// Package analytics contiene los cálculos derivados del inventario. Todas las funciones son puras.
package analytics

import (
	"sort"
	"strings"

	"inventory-service/internal/models"

	"github.com/shopspring/decimal"
)

// KPIs indicadores generales del inventario
type KPIs struct {
	TotalItems    int             `json:"totalItems"`
	TotalValue    decimal.Decimal `json:"totalValue"`
	TotalUnits    int             `json:"totalStock"`
	LowStockCount int             `json:"lowStockCount"`
}

// LowStock retorna los items con quantity <= minStock, en el orden recibido
func LowStock(items []models.InventoryItem) []models.InventoryItem {
	result := []models.InventoryItem{}
	for i := range items {
		if items[i].IsLowStock() {
			result = append(result, items[i])
		}
	}
	return result
}

// ComputeKPIs calcula cantidad de items, valor total (precio*cantidad) y unidades totales
func ComputeKPIs(items []models.InventoryItem) KPIs {
	kpis := KPIs{TotalItems: len(items), TotalValue: decimal.Zero}
	for i := range items {
		kpis.TotalValue = kpis.TotalValue.Add(items[i].StockValue())
		kpis.TotalUnits += items[i].Quantity
		if items[i].IsLowStock() {
			kpis.LowStockCount++
		}
	}
	return kpis
}

// Categories retorna las categorías distintas no vacías, ordenadas
func Categories(items []models.InventoryItem) []string {
	seen := make(map[string]struct{})
	result := []string{}
	for _, item := range items {
		if item.Category == "" {
			continue
		}
		if _, ok := seen[item.Category]; ok {
			continue
		}
		seen[item.Category] = struct{}{}
		result = append(result, item.Category)
	}
	sort.Strings(result)
	return result
}

// SearchItems filtra por substring (sin distinguir mayúsculas) en nombre, código o categoría
func SearchItems(items []models.InventoryItem, query string) []models.InventoryItem {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return items
	}

	result := []models.InventoryItem{}
	for _, item := range items {
		if strings.Contains(strings.ToLower(item.Name), q) ||
			strings.Contains(strings.ToLower(item.Code), q) ||
			strings.Contains(strings.ToLower(item.Category), q) {
			result = append(result, item)
		}
	}
	return result
}

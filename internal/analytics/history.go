package analytics

import (
	"sort"
	"strings"
	"time"

	"inventory-service/internal/models"
)

// DefaultRecentMovements cantidad de movimientos recientes del dashboard
const DefaultRecentMovements = 5

// Dashboard vista resumida del inventario
type Dashboard struct {
	KPIs            KPIs                   `json:"kpis"`
	LowStock        []models.InventoryItem `json:"lowStock"`
	RecentMovements []models.StockMovement `json:"recentMovements"`
}

// BuildDashboard arma KPIs, alertas de stock bajo y últimos movimientos
func BuildDashboard(items []models.InventoryItem, movements []models.StockMovement) Dashboard {
	return Dashboard{
		KPIs:            ComputeKPIs(items),
		LowStock:        LowStock(items),
		RecentMovements: RecentMovements(movements, DefaultRecentMovements),
	}
}

// SortByDateDesc retorna una copia ordenada del más reciente al más antiguo
func SortByDateDesc(movements []models.StockMovement) []models.StockMovement {
	sorted := make([]models.StockMovement, len(movements))
	copy(sorted, movements)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date > sorted[j].Date
	})
	return sorted
}

// RecentMovements retorna los n movimientos más recientes
func RecentMovements(movements []models.StockMovement, n int) []models.StockMovement {
	sorted := SortByDateDesc(movements)
	if n >= 0 && len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

// FilterMovements aplica búsqueda por nombre y rango de fechas inclusivo por días.
// StartDate cuenta desde las 00:00 y EndDate hasta las 23:59:59.999 en loc.
func FilterMovements(movements []models.StockMovement, filter models.MovementFilter, loc *time.Location) []models.StockMovement {
	if loc == nil {
		loc = time.Local
	}

	search := strings.ToLower(strings.TrimSpace(filter.Search))

	from, to := DayBounds(filter, loc)

	result := []models.StockMovement{}
	for _, m := range movements {
		if search != "" && !strings.Contains(strings.ToLower(m.ItemName), search) {
			continue
		}
		if from != nil && m.Date < *from {
			continue
		}
		if to != nil && m.Date > *to {
			continue
		}
		result = append(result, m)
	}

	result = SortByDateDesc(result)
	if filter.Limit > 0 && len(result) > filter.Limit {
		result = result[:filter.Limit]
	}
	return result
}

// DayBounds convierte las fechas del filtro a instantes: inicio del primer día y último milisegundo del último
func DayBounds(filter models.MovementFilter, loc *time.Location) (from, to *models.Timestamp) {
	if loc == nil {
		loc = time.Local
	}
	if filter.StartDate != nil {
		ts := models.NewTimestamp(startOfDay(*filter.StartDate, loc))
		from = &ts
	}
	if filter.EndDate != nil {
		ts := models.NewTimestamp(startOfDay(*filter.EndDate, loc).AddDate(0, 0, 1)) - 1
		to = &ts
	}
	return from, to
}

func startOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// MovementTotals suma de unidades por dirección
type MovementTotals struct {
	In  int `json:"in"`
	Out int `json:"out"`
}

// SumByType suma unidades de carga y descarga
func SumByType(movements []models.StockMovement) MovementTotals {
	var totals MovementTotals
	for _, m := range movements {
		switch m.Type {
		case models.MovementIn:
			totals.In += m.Quantity
		case models.MovementOut:
			totals.Out += m.Quantity
		}
	}
	return totals
}

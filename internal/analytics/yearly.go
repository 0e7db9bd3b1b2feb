package analytics

import (
	"sort"
	"strings"
	"time"

	"inventory-service/internal/models"

	"github.com/shopspring/decimal"
)

// DefaultTopN cantidad de items en el ranking de salidas
const DefaultTopN = 10

// MonthLabels etiquetas cortas de los meses
var MonthLabels = [12]string{"Gen", "Feb", "Mar", "Apr", "Mag", "Giu", "Lug", "Ago", "Set", "Ott", "Nov", "Dic"}

// YearlyOptions filtros del análisis anual
type YearlyOptions struct {
	Year     int
	Search   string
	Category string
	TopN     int
	Location *time.Location
}

func (o YearlyOptions) location() *time.Location {
	if o.Location == nil {
		return time.Local
	}
	return o.Location
}

// ItemTotal total de unidades salidas por nombre de item
type ItemTotal struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

// MatrixRow fila de la matriz mensual
type MatrixRow struct {
	Name   string  `json:"name"`
	Months [12]int `json:"months"`
	Total  int     `json:"total"`
}

// MonthPoint punto de la serie mensual para los items del top
type MonthPoint struct {
	Index      int            `json:"index"`
	Label      string         `json:"label"`
	Quantities map[string]int `json:"quantities"`
}

// Seasonality mes pico de un item del top. PeakMonth es -1 sin salidas.
type Seasonality struct {
	Name         string `json:"name"`
	PeakMonth    int    `json:"peakMonth"`
	PeakLabel    string `json:"peakLabel"`
	PeakQuantity int    `json:"peakQuantity"`
}

// YearlyReport resultado completo del análisis anual
type YearlyReport struct {
	Year        int             `json:"year"`
	Search      string          `json:"search,omitempty"`
	Category    string          `json:"category,omitempty"`
	TopItems    []ItemTotal     `json:"topItems"`
	Monthly     []MonthPoint    `json:"monthly"`
	Matrix      []MatrixRow     `json:"matrix"`
	TotalUnits  int             `json:"totalYearlyUnits"`
	TotalValue  decimal.Decimal `json:"yearlyValue"`
	Seasonality []Seasonality   `json:"seasonality"`
	Categories  []string        `json:"categories"`
}

// FilterYearlyOut selecciona las salidas del año, con filtro opcional por nombre y categoría.
// La categoría se resuelve por itemId; un movimiento cuyo item ya no existe queda excluido.
func FilterYearlyOut(movements []models.StockMovement, items []models.InventoryItem, opts YearlyOptions) []models.StockMovement {
	loc := opts.location()
	search := strings.ToLower(opts.Search)

	var categoryByID map[string]string
	if opts.Category != "" {
		categoryByID = make(map[string]string, len(items))
		for _, item := range items {
			categoryByID[item.ID] = item.Category
		}
	}

	result := []models.StockMovement{}
	for _, m := range movements {
		if m.Type != models.MovementOut {
			continue
		}
		if m.Date.Time(loc).Year() != opts.Year {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(m.ItemName), search) {
			continue
		}
		if opts.Category != "" {
			category, ok := categoryByID[m.ItemID]
			if !ok || category != opts.Category {
				continue
			}
		}
		result = append(result, m)
	}
	return result
}

// TopN suma cantidades por nombre y retorna los n mayores. Empates conservan el orden de aparición.
func TopN(movements []models.StockMovement, n int) []ItemTotal {
	totals := []ItemTotal{}
	index := make(map[string]int)
	for _, m := range movements {
		pos, ok := index[m.ItemName]
		if !ok {
			pos = len(totals)
			index[m.ItemName] = pos
			totals = append(totals, ItemTotal{Name: m.ItemName})
		}
		totals[pos].Quantity += m.Quantity
	}

	sort.SliceStable(totals, func(i, j int) bool {
		return totals[i].Quantity > totals[j].Quantity
	})

	if n >= 0 && len(totals) > n {
		totals = totals[:n]
	}
	return totals
}

// MonthlyMatrix agrupa por nombre y mes; filas ordenadas por total descendente
func MonthlyMatrix(movements []models.StockMovement, loc *time.Location) []MatrixRow {
	if loc == nil {
		loc = time.Local
	}

	rows := []MatrixRow{}
	index := make(map[string]int)
	for _, m := range movements {
		pos, ok := index[m.ItemName]
		if !ok {
			pos = len(rows)
			index[m.ItemName] = pos
			rows = append(rows, MatrixRow{Name: m.ItemName})
		}
		month := int(m.Date.Time(loc).Month()) - 1
		rows[pos].Months[month] += m.Quantity
		rows[pos].Total += m.Quantity
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Total > rows[j].Total
	})
	return rows
}

// MonthlySeries arma los 12 puntos mensuales solo para los items del top
func MonthlySeries(movements []models.StockMovement, top []ItemTotal, loc *time.Location) []MonthPoint {
	if loc == nil {
		loc = time.Local
	}

	series := make([]MonthPoint, 12)
	for i := range series {
		series[i] = MonthPoint{Index: i, Label: MonthLabels[i], Quantities: make(map[string]int, len(top))}
		for _, t := range top {
			series[i].Quantities[t.Name] = 0
		}
	}

	for _, m := range movements {
		month := int(m.Date.Time(loc).Month()) - 1
		if _, ok := series[month].Quantities[m.ItemName]; ok {
			series[month].Quantities[m.ItemName] += m.Quantity
		}
	}
	return series
}

// TotalUnits suma las cantidades de los movimientos
func TotalUnits(movements []models.StockMovement) int {
	total := 0
	for _, m := range movements {
		total += m.Quantity
	}
	return total
}

// TotalValue estima el valor de las salidas con el precio actual del item, buscado por nombre.
// Movimientos sin item con ese nombre no suman.
func TotalValue(movements []models.StockMovement, items []models.InventoryItem) decimal.Decimal {
	priceByName := make(map[string]decimal.Decimal, len(items))
	for _, item := range items {
		if _, ok := priceByName[item.Name]; !ok {
			priceByName[item.Name] = item.Price
		}
	}

	total := decimal.Zero
	for _, m := range movements {
		if price, ok := priceByName[m.ItemName]; ok {
			total = total.Add(price.Mul(decimal.NewFromInt(int64(m.Quantity))))
		}
	}
	return total
}

// SeasonalitySummary retorna el primer mes con la mayor cantidad para cada item del top
func SeasonalitySummary(series []MonthPoint, top []ItemTotal) []Seasonality {
	result := make([]Seasonality, 0, len(top))
	for _, t := range top {
		s := Seasonality{Name: t.Name, PeakMonth: -1}
		for _, point := range series {
			if q := point.Quantities[t.Name]; q > s.PeakQuantity {
				s.PeakQuantity = q
				s.PeakMonth = point.Index
				s.PeakLabel = point.Label
			}
		}
		result = append(result, s)
	}
	return result
}

// BuildYearlyReport calcula todo el análisis anual con los filtros dados
func BuildYearlyReport(items []models.InventoryItem, movements []models.StockMovement, opts YearlyOptions) YearlyReport {
	topN := opts.TopN
	if topN <= 0 {
		topN = DefaultTopN
	}
	loc := opts.location()

	filtered := FilterYearlyOut(movements, items, opts)
	top := TopN(filtered, topN)
	series := MonthlySeries(filtered, top, loc)

	return YearlyReport{
		Year:        opts.Year,
		Search:      opts.Search,
		Category:    opts.Category,
		TopItems:    top,
		Monthly:     series,
		Matrix:      MonthlyMatrix(filtered, loc),
		TotalUnits:  TotalUnits(filtered),
		TotalValue:  TotalValue(filtered, items),
		Seasonality: SeasonalitySummary(series, top),
		Categories:  Categories(items),
	}
}

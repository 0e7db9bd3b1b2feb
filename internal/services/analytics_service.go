package services

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"inventory-service/internal/analytics"
	"inventory-service/internal/cache"
	"inventory-service/internal/models"
	"inventory-service/internal/repository"

	"github.com/cespare/xxhash/v2"
	"go.uber.org/zap"
)

// Snapshot copia de solo lectura de items y movimientos
type Snapshot struct {
	Items     []models.InventoryItem
	Movements []models.StockMovement
}

// Fingerprint hash de los campos que usan los cálculos. imageData y description quedan fuera; una
// edición de esos campos cambia updatedAt.
func (s *Snapshot) Fingerprint() uint64 {
	digest := xxhash.New()
	buf := make([]byte, 0, 32)

	text := func(v string) {
		digest.WriteString(v)
		digest.Write([]byte{0})
	}
	number := func(v int64) {
		buf = strconv.AppendInt(buf[:0], v, 10)
		digest.Write(append(buf, 0))
	}

	number(int64(len(s.Items)))
	for i := range s.Items {
		item := &s.Items[i]
		text(item.ID)
		text(item.Code)
		text(item.Name)
		text(item.Category)
		text(item.Price.String())
		text(item.Cost.String())
		number(int64(item.Quantity))
		number(int64(item.MinStock))
		number(int64(item.UpdatedAt))
	}

	number(int64(len(s.Movements)))
	for i := range s.Movements {
		m := &s.Movements[i]
		text(m.ID)
		text(m.ItemID)
		text(m.ItemName)
		text(string(m.Type))
		text(m.Reason)
		number(int64(m.Quantity))
		number(int64(m.Date))
	}

	return digest.Sum64()
}

// AnalyticsService calcula dashboard y análisis anual sobre el estado actual del store
type AnalyticsService interface {
	GetSnapshot(ctx context.Context) (*Snapshot, error)
	GetDashboard(ctx context.Context) (*analytics.Dashboard, error)
	GetYearlyReport(ctx context.Context, opts analytics.YearlyOptions) (*analytics.YearlyReport, error)
	GetCategories(ctx context.Context) ([]string, error)
}

type analyticsService struct {
	store    repository.Store
	cache    *cache.AnalyticsCache
	topN     int
	location *time.Location
	logger   *zap.Logger
}

// NewAnalyticsService crea el servicio. Con cache nil siempre recalcula.
func NewAnalyticsService(store repository.Store, analyticsCache *cache.AnalyticsCache, topN int, location *time.Location, logger *zap.Logger) AnalyticsService {
	if topN <= 0 {
		topN = analytics.DefaultTopN
	}
	if location == nil {
		location = time.Local
	}
	return &analyticsService{
		store:    store,
		cache:    analyticsCache,
		topN:     topN,
		location: location,
		logger:   logger,
	}
}

// GetSnapshot lee items y movimientos
func (s *analyticsService) GetSnapshot(ctx context.Context) (*Snapshot, error) {
	items, err := s.store.ListItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	movements, err := s.store.ListMovements(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list movements: %w", err)
	}
	return &Snapshot{Items: items, Movements: movements}, nil
}

// GetDashboard retorna KPIs, stock bajo y últimos movimientos
func (s *analyticsService) GetDashboard(ctx context.Context) (*analytics.Dashboard, error) {
	snapshot, err := s.GetSnapshot(ctx)
	if err != nil {
		return nil, err
	}

	var dashboard analytics.Dashboard
	err = s.memoize(ctx, &dashboard, func() (interface{}, error) {
		return analytics.BuildDashboard(snapshot.Items, snapshot.Movements), nil
	}, "dashboard", snapshot.Fingerprint())
	if err != nil {
		return nil, err
	}
	return &dashboard, nil
}

// GetYearlyReport retorna el análisis anual de salidas
func (s *analyticsService) GetYearlyReport(ctx context.Context, opts analytics.YearlyOptions) (*analytics.YearlyReport, error) {
	if opts.TopN <= 0 {
		opts.TopN = s.topN
	}
	if opts.Location == nil {
		opts.Location = s.location
	}
	if opts.Year == 0 {
		opts.Year = time.Now().In(opts.Location).Year()
	}

	logger := s.logger.With(
		zap.String("operation", "yearly_report"),
		zap.Int("year", opts.Year),
		zap.String("category", opts.Category),
	)

	snapshot, err := s.GetSnapshot(ctx)
	if err != nil {
		return nil, err
	}

	var report analytics.YearlyReport
	err = s.memoize(ctx, &report, func() (interface{}, error) {
		return analytics.BuildYearlyReport(snapshot.Items, snapshot.Movements, opts), nil
	}, "yearly", snapshot.Fingerprint(),
		opts.Year, opts.Search, opts.Category, opts.TopN, opts.Location.String())
	if err != nil {
		return nil, err
	}

	logger.Debug("Yearly report ready", zap.Int("top_items", len(report.TopItems)))
	return &report, nil
}

// GetCategories retorna las categorías distintas
func (s *analyticsService) GetCategories(ctx context.Context) ([]string, error) {
	items, err := s.store.ListItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	return analytics.Categories(items), nil
}

// memoize usa el caché por hash de contenido; cualquier fallo del caché cae al cálculo directo
func (s *analyticsService) memoize(ctx context.Context, dst interface{}, compute func() (interface{}, error), kind string, parts ...interface{}) error {
	if s.cache != nil {
		key, err := cache.Key(kind, parts...)
		if err == nil {
			return s.cache.GetOrCompute(ctx, key, dst, compute)
		}
		s.logger.Warn("Failed to build analytics cache key", zap.String("kind", kind), zap.Error(err))
	}

	value, err := compute()
	if err != nil {
		return err
	}
	return assign(dst, value)
}

func assign(dst, value interface{}) error {
	switch d := dst.(type) {
	case *analytics.Dashboard:
		*d = value.(analytics.Dashboard)
	case *analytics.YearlyReport:
		*d = value.(analytics.YearlyReport)
	default:
		return fmt.Errorf("unsupported analytics result %T", dst)
	}
	return nil
}

// Package metrics expone métricas Prometheus del servicio.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "inventory"

// Collector agrupa las métricas del servicio en un registry propio
type Collector struct {
	registry *prometheus.Registry

	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	adjustments     *prometheus.CounterVec
	backups         *prometheus.CounterVec
	items           prometheus.Gauge
	lowStockItems   prometheus.Gauge
}

// NewCollector crea y registra todas las métricas
func NewCollector() *Collector {
	registry := prometheus.NewRegistry()

	c := &Collector{
		registry: registry,
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "HTTP requests served",
			},
			[]string{"method", "path", "status"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request latency",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		adjustments: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "stock_adjustments_total",
				Help:      "Stock adjustments by direction and result",
			},
			[]string{"type", "result"},
		),
		backups: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "backup_operations_total",
				Help:      "Backup exports and imports by result",
			},
			[]string{"operation", "result"},
		),
		items: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "items",
			Help:      "Items in the catalogue at the last dashboard computation",
		}),
		lowStockItems: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "low_stock_items",
			Help:      "Items at or below their minimum stock at the last dashboard computation",
		}),
	}

	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		c.requestsTotal,
		c.requestDuration,
		c.adjustments,
		c.backups,
		c.items,
		c.lowStockItems,
	)

	return c
}

// Registry retorna el registry para tests o exportadores adicionales
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler expone el registry en formato Prometheus
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// ObserveRequest registra un request HTTP. Los métodos de registro aceptan un Collector nil.
func (c *Collector) ObserveRequest(method, path string, status int, duration time.Duration) {
	if c == nil {
		return
	}
	c.requestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	c.requestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordAdjustment registra un ajuste de stock; result es "ok" o el tipo de rechazo
func (c *Collector) RecordAdjustment(direction, result string) {
	if c == nil {
		return
	}
	c.adjustments.WithLabelValues(direction, result).Inc()
}

// RecordBackup registra una exportación o importación
func (c *Collector) RecordBackup(operation, result string) {
	if c == nil {
		return
	}
	c.backups.WithLabelValues(operation, result).Inc()
}

// SetInventory actualiza los gauges del inventario
func (c *Collector) SetInventory(items, lowStock int) {
	if c == nil {
		return
	}
	c.items.Set(float64(items))
	c.lowStockItems.Set(float64(lowStock))
}

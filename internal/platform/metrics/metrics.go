// Package metrics holds the Prometheus collectors for the feed mill backend
// and the gin middleware that feeds the HTTP ones.
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	MovementsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "feedmill_inventory_movements_total",
		Help: "Number of inventory ledger movements recorded, by type.",
	}, []string{"type"})

	MovementKg = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "feedmill_inventory_movement_kg_total",
		Help: "Total kilograms moved through the inventory ledger, by type.",
	}, []string{"type"})

	FormulationsGenerated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "feedmill_formulations_generated_total",
		Help: "Number of formulation generation runs that produced a blend.",
	})

	FormulationDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "feedmill_formulation_generation_seconds",
		Help:    "Wall time of formulation generation runs.",
		Buckets: prometheus.DefBuckets,
	})

	LowStockMaterials = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "feedmill_low_stock_materials",
		Help: "Materials at or below their reorder level, from the last scan.",
	})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "feedmill_http_request_duration_seconds",
		Help:    "HTTP request latency by method, route and status.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})
)

// Middleware records request latency per route. Unmatched routes are grouped
// under "unmatched" to keep label cardinality bounded.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		httpRequestDuration.
			WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}

// Handler serves the Prometheus scrape endpoint.
func Handler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}

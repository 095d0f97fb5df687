package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type ServerMetrics struct {
	Requests *prometheus.CounterVec
	Latency  *prometheus.HistogramVec
}

func NewServerMetrics(service string) *ServerMetrics {
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "storefront",
		Subsystem: service,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests.",
	}, []string{"handler", "status"})
	latency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "storefront",
		Subsystem: service,
		Name:      "http_request_duration_ms",
		Help:      "HTTP request latency in milliseconds.",
		Buckets:   []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
	}, []string{"handler"})

	prometheus.MustRegister(requests, latency)
	return &ServerMetrics{Requests: requests, Latency: latency}
}

// Middleware records request counts and latency per route template.
func (m *ServerMetrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.Requests.WithLabelValues(route, strconv.Itoa(c.Writer.Status())).Inc()
		m.Latency.WithLabelValues(route).Observe(float64(time.Since(start).Milliseconds()))
	}
}

// LedgerMetrics exposes the inventory ledger's retry telemetry: how many
// read-check-write attempts ran and how often the conditional write lost.
type LedgerMetrics struct {
	ReserveAttempts *prometheus.CounterVec
	CASConflicts    prometheus.Counter
}

func NewLedgerMetrics() *LedgerMetrics {
	attempts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "storefront",
		Name:      "inventory_reserve_attempts_total",
		Help:      "Inventory reservation attempts by outcome.",
	}, []string{"outcome"})
	conflicts := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "storefront",
		Name:      "inventory_cas_conflicts_total",
		Help:      "Conditional decrements rejected by a concurrent update.",
	})

	prometheus.MustRegister(attempts, conflicts)
	return &LedgerMetrics{ReserveAttempts: attempts, CASConflicts: conflicts}
}

func Handler() http.Handler {
	return promhttp.Handler()
}

package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector — метрики сервиса в собственном реестре (без глобального DefaultRegisterer).
type Collector struct {
	registry *prometheus.Registry

	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// WishOperations считает операции над документом по исходу:
	// ok | validation | unauthorized | not_found | persistence
	WishOperations *prometheus.CounterVec
}

// NewCollector создаёт и регистрирует метрики с заданным namespace.
func NewCollector(namespace string) *Collector {
	registry := prometheus.NewRegistry()

	httpRequests := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	httpDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	wishOps := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "wish_operations_total",
			Help:      "Wish store operations by outcome",
		},
		[]string{"operation", "outcome"},
	)

	registry.MustRegister(
		httpRequests,
		httpDuration,
		wishOps,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return &Collector{
		registry:       registry,
		HTTPRequests:   httpRequests,
		HTTPDuration:   httpDuration,
		WishOperations: wishOps,
	}
}

// ObserveOperation фиксирует исход операции хранилища пожеланий.
func (c *Collector) ObserveOperation(operation, outcome string) {
	c.WishOperations.WithLabelValues(operation, outcome).Inc()
}

// ObserveRequest фиксирует HTTP-запрос.
func (c *Collector) ObserveRequest(method, route, status string, elapsed time.Duration) {
	c.HTTPRequests.WithLabelValues(method, route, status).Inc()
	c.HTTPDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// Registry отдаёт собственный реестр коллектора.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler — эндпоинт /metrics для этого реестра.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

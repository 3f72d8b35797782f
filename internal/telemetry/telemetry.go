package telemetry

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nurpe/contracts-service/internal/model"
)

const namespace = "contracts"

type Metrics struct {
	registry *prometheus.Registry

	mutations     *prometheus.CounterVec
	persistWrites *prometheus.CounterVec
	requests      *prometheus.CounterVec
	latency       *prometheus.HistogramVec
	contracts     prometheus.Gauge
	invoices      prometheus.Gauge
}

// New builds a Metrics set on its own registry, so tests can create as many
// as they like.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "store_mutations_total",
			Help:      "Store mutations by operation.",
		}, []string{"op"}),
		persistWrites: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "persist_writes_total",
			Help:      "Snapshot writes to durable storage by result.",
		}, []string{"result"}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		contracts: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "contracts",
			Help:      "Contracts currently held by the store.",
		}),
		invoices: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "invoices",
			Help:      "Invoices currently held by the store.",
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.mutations,
		m.persistWrites,
		m.requests,
		m.latency,
		m.contracts,
		m.invoices,
	)
	return m
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) Mutation(op string) {
	m.mutations.WithLabelValues(op).Inc()
}

// PersistResult counts one durable write.
func (m *Metrics) PersistResult(err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.persistWrites.WithLabelValues(result).Inc()
}

// ObserveSnapshot updates the collection gauges. It is meant to be
// subscribed to the store.
func (m *Metrics) ObserveSnapshot(snapshot model.Snapshot) {
	m.contracts.Set(float64(len(snapshot.Contracts)))
	m.invoices.Set(float64(len(snapshot.Invoices)))
}

func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		method := c.Request.Method
		m.requests.WithLabelValues(method, route, strconv.Itoa(c.Writer.Status())).Inc()
		m.latency.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
	}
}

// Package metrics holds the Prometheus registry and HTTP instruments.
package metrics

import (
	"github.com/IBM/pgxpoolprometheus"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "liftlog"

type Manager struct {
	Registry *prometheus.Registry

	CounterRequests     *prometheus.CounterVec
	CounterPanics       prometheus.Counter
	HistRequestDuration *prometheus.HistogramVec
}

// NewRegistry returns a registry with build info, Go runtime and process collectors.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewBuildInfoCollector(),
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// NewManager registers the HTTP instruments on reg.
func NewManager(reg *prometheus.Registry) *Manager {
	factory := promauto.With(reg)

	return &Manager{
		Registry: reg,
		CounterRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "The total number of handled HTTP requests",
		}, []string{"method", "route", "status"}),
		CounterPanics: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_panics_total",
			Help:      "The total number of recovered handler panics",
		}),
		HistRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"method", "route"}),
	}
}

// NewTestManager returns a Manager on a fresh registry without runtime collectors.
func NewTestManager() *Manager {
	return NewManager(prometheus.NewRegistry())
}

// RegisterPool exports connection pool statistics for the database.
func (m *Manager) RegisterPool(pool *pgxpool.Pool, dbName string) {
	m.Registry.MustRegister(pgxpoolprometheus.NewCollector(pool, map[string]string{"db_name": dbName}))
}

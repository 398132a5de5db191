// Package metrics defines the Prometheus collectors of the console. All
// collectors live on a private registry so tests can build as many apps as
// they like without duplicate-registration panics.
package metrics

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "dbconsole"

// Metrics groups the collectors the handlers update
type Metrics struct {
	registry *prometheus.Registry

	// LoginAttempts counts login form submissions.
	// Label outcome: "success", "failure" or "error".
	LoginAttempts *prometheus.CounterVec

	// Logouts counts completed logouts
	Logouts prometheus.Counter

	// TableMutations counts dataset changes.
	// Labels table (users, records, ...) and op (add, update, delete).
	TableMutations *prometheus.CounterVec

	// ActivitySubscribers tracks open SSE and websocket streams
	ActivitySubscribers prometheus.Gauge
}

// New builds and registers every collector on a fresh registry
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		LoginAttempts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "login_attempts_total",
				Help:      "Login attempts, labelled by outcome.",
			},
			[]string{"outcome"},
		),
		Logouts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "logouts_total",
			Help:      "Completed logouts.",
		}),
		TableMutations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "table_mutations_total",
				Help:      "Rows added, updated or deleted in the dialog tables.",
			},
			[]string{"table", "op"},
		),
		ActivitySubscribers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "activity_subscribers",
			Help:      "Open live activity streams.",
		}),
	}

	m.registry.MustRegister(
		m.LoginAttempts,
		m.Logouts,
		m.TableMutations,
		m.ActivitySubscribers,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Registry exposes the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus text format
func (m *Metrics) Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
}

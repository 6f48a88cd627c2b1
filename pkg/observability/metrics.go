// Package observability instruments memory backends with Prometheus metrics
// and OpenTelemetry spans.
package observability

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// DefaultNamespace prefixes every metric name.
const DefaultNamespace = "rustedclaw"

// Status label values.
const (
	StatusSuccess  = "success"
	StatusNotFound = "not_found"
	StatusError    = "error"
)

// Metrics holds the collectors shared by instrumented backends.
type Metrics struct {
	operationsTotal   *prometheus.CounterVec
	operationDuration *prometheus.HistogramVec
	entries           *prometheus.GaugeVec
}

// NewMetrics creates the memory collectors and registers them with reg.
//
// Collectors that are already registered under the same name are reused, so
// several clients may share one registry. A nil reg means
// prometheus.DefaultRegisterer; an empty namespace means DefaultNamespace.
func NewMetrics(reg prometheus.Registerer, namespace string) (*Metrics, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if namespace == "" {
		namespace = DefaultNamespace
	}

	ops, err := register(reg, prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "memory_operations_total",
			Help:      "Total memory backend operations by backend, operation and status.",
		},
		[]string{"backend", "op", "status"},
	))
	if err != nil {
		return nil, err
	}

	duration, err := register(reg, prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "memory_operation_duration_seconds",
			Help:      "Memory backend operation duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"backend", "op"},
	))
	if err != nil {
		return nil, err
	}

	entries, err := register(reg, prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "memory_entries",
			Help:      "Current number of stored memory entries.",
		},
		[]string{"backend"},
	))
	if err != nil {
		return nil, err
	}

	return &Metrics{
		operationsTotal:   ops,
		operationDuration: duration,
		entries:           entries,
	}, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// RecordOperation counts one operation and observes its duration.
func (m *Metrics) RecordOperation(backend, op, status string, d time.Duration) {
	m.operationsTotal.WithLabelValues(backend, op, status).Inc()
	m.operationDuration.WithLabelValues(backend, op).Observe(d.Seconds())
}

// SetEntries records the current entry count of a backend.
func (m *Metrics) SetEntries(backend string, n int) {
	m.entries.WithLabelValues(backend).Set(float64(n))
}

// Package metrics exposes Prometheus counters for dotflow operations.
//
// All methods are safe on a nil *Metrics so services can run without
// instrumentation.
package metrics

import (
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"dotflow/internal/domain"
)

const namespace = "dotflow"

// Outcome labels.
const (
	OutcomeOK     = "ok"
	OutcomeDenied = "denied"
	OutcomeError  = "error"
)

// Metrics holds the collectors on a private registry.
type Metrics struct {
	registry        *prometheus.Registry
	operations      *prometheus.CounterVec
	resolveFailures *prometheus.CounterVec
	httpRequests    *prometheus.CounterVec
}

// New registers the dotflow collectors plus Go runtime collectors on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operations_total",
			Help:      "Operations by name and outcome.",
		}, []string{"op", "outcome"}),
		resolveFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "resolve_failures_total",
			Help:      "Address resolutions that could not produce a plaintext, by reason.",
		}, []string{"reason"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Vault gateway requests by route and status code.",
		}, []string{"route", "code"}),
	}
	m.registry.MustRegister(
		m.operations,
		m.resolveFailures,
		m.httpRequests,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Observe counts one operation. Authorization failures are reported as denied.
func (m *Metrics) Observe(op string, err error) {
	if m == nil {
		return
	}
	m.operations.WithLabelValues(op, Outcome(err)).Inc()
}

// ResolveFailure counts a failed resolution by its cause.
func (m *Metrics) ResolveFailure(err error) {
	if m == nil || err == nil {
		return
	}
	m.resolveFailures.WithLabelValues(ResolveReason(err)).Inc()
}

// HTTPRequest counts one gateway request.
func (m *Metrics) HTTPRequest(route, code string) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(route, code).Inc()
}

// OperationCount returns the counter for (op, outcome). It is meant for tests.
func (m *Metrics) OperationCount(op, outcome string) prometheus.Counter {
	return m.operations.WithLabelValues(op, outcome)
}

// ResolveFailureCount returns the failure counter for reason.
func (m *Metrics) ResolveFailureCount(reason string) prometheus.Counter {
	return m.resolveFailures.WithLabelValues(reason)
}

// Outcome maps an operation error to its label.
func Outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeOK
	case errors.Is(err, domain.ErrUnauthorized):
		return OutcomeDenied
	default:
		return OutcomeError
	}
}

// ResolveReason maps a resolution error to its label.
func ResolveReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrKeyVersionStale):
		return "stale_key"
	case errors.Is(err, domain.ErrChainNotDisclosed):
		return "not_disclosed"
	case errors.Is(err, domain.ErrDecryptFailure):
		return "decrypt"
	case errors.Is(err, domain.ErrRecordNotFound):
		return "no_record"
	default:
		return "other"
	}
}

// Package metrics provides Prometheus instrumentation for business operations
// and HTTP requests.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Provider owns the Prometheus registry the process exposes at /metrics.
type Provider struct {
	registry *prometheus.Registry
}

// NewProvider creates a metrics provider backed by a fresh registry.
func NewProvider(namespace string) (*Provider, error) {
	registry := prometheus.NewRegistry()
	return &Provider{registry: registry}, nil
}

// Handler returns an HTTP handler that serves metrics in Prometheus
// exposition format.
func (p *Provider) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
}

// Registry returns the provider's Prometheus registry for registering
// additional collectors.
func (p *Provider) Registry() *prometheus.Registry {
	return p.registry
}

// Shutdown is a no-op; kept so callers don't need to special-case the
// Prometheus provider against the shutdown sequence of other collaborators.
func (p *Provider) Shutdown() error {
	return nil
}

// Package metrics provides Prometheus instrumentation for the K-MATO client
// core: cart mutations, live-patch outcomes, feed traffic, and remote calls.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Config configures the Prometheus collectors.
type Config struct {
	// Namespace is the metrics namespace (default: "kmato").
	Namespace string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer.
	Registry prometheus.Registerer
}

// Option configures the Prometheus collectors.
type Option func(*Config)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) Option {
	return func(c *Config) {
		c.Namespace = namespace
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) Option {
	return func(c *Config) {
		c.ConstLabels = labels
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) Option {
	return func(c *Config) {
		c.Registry = registry
	}
}

// Metrics holds the collectors. A nil *Metrics is valid and records nothing,
// so instrumentation points never need nil checks of their own.
type Metrics struct {
	cartMutations  *prometheus.CounterVec
	patchesApplied *prometheus.CounterVec
	patchesDropped *prometheus.CounterVec
	feedMessages   *prometheus.CounterVec
	parseFallbacks prometheus.Counter
	apiRequests    *prometheus.CounterVec
	apiErrors      *prometheus.CounterVec
}

// New creates and registers the collectors.
func New(opts ...Option) *Metrics {
	config := Config{
		Namespace: "kmato",
		Registry:  prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(&config)
	}

	factory := promauto.With(config.Registry)

	return &Metrics{
		cartMutations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Name:        "cart_mutations_total",
			Help:        "Total number of cart mutations by operation",
			ConstLabels: config.ConstLabels,
		}, []string{"op"}),

		patchesApplied: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Name:        "order_patches_applied_total",
			Help:        "Total number of live patches folded into the order list",
			ConstLabels: config.ConstLabels,
		}, []string{"type"}),

		patchesDropped: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Name:        "order_patches_dropped_total",
			Help:        "Total number of live patches ignored, by reason",
			ConstLabels: config.ConstLabels,
		}, []string{"reason"}),

		feedMessages: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Name:        "feed_messages_total",
			Help:        "Total number of messages received on the live-patch channel",
			ConstLabels: config.ConstLabels,
		}, []string{"type"}),

		parseFallbacks: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Name:        "feed_parse_fallbacks_total",
			Help:        "Total number of feed payloads delivered raw after a JSON parse failure",
			ConstLabels: config.ConstLabels,
		}),

		apiRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Name:        "api_requests_total",
			Help:        "Total number of remote API requests by endpoint and status",
			ConstLabels: config.ConstLabels,
		}, []string{"endpoint", "status"}),

		apiErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Name:        "api_errors_total",
			Help:        "Total number of failed remote API requests by endpoint",
			ConstLabels: config.ConstLabels,
		}, []string{"endpoint"}),
	}
}

// RecordCartMutation records one cart mutation (add, remove, update, clear).
func (m *Metrics) RecordCartMutation(op string) {
	if m == nil {
		return
	}
	m.cartMutations.WithLabelValues(op).Inc()
}

// RecordPatchApplied records a live patch folded into the order list.
func (m *Metrics) RecordPatchApplied(patchType string) {
	if m == nil {
		return
	}
	m.patchesApplied.WithLabelValues(patchType).Inc()
}

// RecordPatchDropped records a live patch ignored for the given reason
// (unknown_type, unknown_order, malformed).
func (m *Metrics) RecordPatchDropped(reason string) {
	if m == nil {
		return
	}
	m.patchesDropped.WithLabelValues(reason).Inc()
}

// RecordFeedMessage records a message received on the live-patch channel.
func (m *Metrics) RecordFeedMessage(messageType string) {
	if m == nil {
		return
	}
	if messageType == "" {
		messageType = "raw"
	}
	m.feedMessages.WithLabelValues(messageType).Inc()
}

// RecordParseFallback records a payload delivered raw after a parse failure.
func (m *Metrics) RecordParseFallback() {
	if m == nil {
		return
	}
	m.parseFallbacks.Inc()
}

// RecordAPIRequest records a completed remote call.
func (m *Metrics) RecordAPIRequest(endpoint, status string) {
	if m == nil {
		return
	}
	m.apiRequests.WithLabelValues(endpoint, status).Inc()
}

// RecordAPIError records a failed remote call.
func (m *Metrics) RecordAPIError(endpoint string) {
	if m == nil {
		return
	}
	m.apiErrors.WithLabelValues(endpoint).Inc()
}

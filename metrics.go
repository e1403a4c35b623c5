package block

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsConfig configures the Prometheus collectors of an engine.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "block").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for render duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures the Prometheus collectors.
type MetricsOption func(*MetricsConfig)

// WithMetricsNamespace sets the metrics namespace.
func WithMetricsNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the render duration histogram buckets.
func WithBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

// Metrics collects render statistics. A nil *Metrics records nothing.
type Metrics struct {
	rendersTotal   *prometheus.CounterVec
	renderDuration *prometheus.HistogramVec
	extendHops     prometheus.Histogram
	insertsTotal   *prometheus.CounterVec
}

// NewMetrics creates and registers the render collectors:
//   - block_renders_total: renders by view and status
//   - block_render_duration_seconds: render duration by view
//   - block_extend_hops: extend hops followed per render
//   - block_inserts_total: inserts by view and status
func NewMetrics(opts ...MetricsOption) *Metrics {
	config := MetricsConfig{
		Namespace: "block",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	return &Metrics{
		rendersTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "renders_total",
			Help:        "Total number of view renders",
			ConstLabels: config.ConstLabels,
		}, []string{"view", "status"}),

		renderDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "render_duration_seconds",
			Help:        "View render duration in seconds, extend hops included",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"view"}),

		extendHops: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "extend_hops",
			Help:        "Number of extend hops followed per render",
			ConstLabels: config.ConstLabels,
			Buckets:     []float64{0, 1, 2, 3, 5, 8},
		}),

		insertsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "inserts_total",
			Help:        "Total number of inline view inserts",
			ConstLabels: config.ConstLabels,
		}, []string{"view", "status"}),
	}
}

func (m *Metrics) observeRender(view string, hops int, d time.Duration, err error) {
	if m == nil {
		return
	}
	m.rendersTotal.WithLabelValues(view, status(err)).Inc()
	m.renderDuration.WithLabelValues(view).Observe(d.Seconds())
	if err == nil {
		m.extendHops.Observe(float64(hops))
	}
}

func (m *Metrics) observeInsert(view string, err error) {
	if m == nil {
		return
	}
	m.insertsTotal.WithLabelValues(view, status(err)).Inc()
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

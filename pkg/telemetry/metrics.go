package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/vango-dev/hydrate/internal/errors"
)

// MetricsConfig configures the Prometheus metrics.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "hydrate").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for pass duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures the Prometheus metrics.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets.
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

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "hydrate",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Metrics records hydration and render activity. A nil *Metrics is valid
// and records nothing.
type Metrics struct {
	passes    *prometheus.CounterVec
	renders   *prometheus.CounterVec
	duration  *prometheus.HistogramVec
	parts     *prometheus.CounterVec
	markers   prometheus.Counter
	liveRoots prometheus.Gauge
}

// NewMetrics creates and registers the metrics. Registering twice on the
// same registry panics, as with promauto.
func NewMetrics(opts ...MetricsOption) *Metrics {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	return &Metrics{
		passes: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "passes_total",
			Help:        "Total number of hydration passes",
			ConstLabels: config.ConstLabels,
		}, []string{"outcome"}),

		renders: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "renders_total",
			Help:        "Total number of fresh renders into a container",
			ConstLabels: config.ConstLabels,
		}, []string{"outcome"}),

		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "pass_duration_seconds",
			Help:        "Hydration and render duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"op"}),

		parts: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "parts_bound_total",
			Help:        "Total number of parts bound while hydrating",
			ConstLabels: config.ConstLabels,
		}, []string{"kind"}),

		markers: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "markers_scanned_total",
			Help:        "Total number of marker comments scanned",
			ConstLabels: config.ConstLabels,
		}),

		liveRoots: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "live_roots",
			Help:        "Number of containers holding a live root",
			ConstLabels: config.ConstLabels,
		}),
	}
}

// Outcome returns the outcome label for err.
func Outcome(err error) string {
	if err == nil {
		return "ok"
	}
	if code := errors.CodeOf(err); code != "" {
		return code
	}
	return "error"
}

// ObserveHydrate records a hydration pass.
func (m *Metrics) ObserveHydrate(d time.Duration, markers int, err error) {
	if m == nil {
		return
	}
	m.passes.WithLabelValues(Outcome(err)).Inc()
	m.duration.WithLabelValues("hydrate").Observe(d.Seconds())
	m.markers.Add(float64(markers))
}

// ObserveRender records a fresh render.
func (m *Metrics) ObserveRender(d time.Duration, err error) {
	if m == nil {
		return
	}
	m.renders.WithLabelValues(Outcome(err)).Inc()
	m.duration.WithLabelValues("render").Observe(d.Seconds())
}

// PartsBound records parts bound by kind.
func (m *Metrics) PartsBound(kind string, n int) {
	if m == nil || n == 0 {
		return
	}
	m.parts.WithLabelValues(kind).Add(float64(n))
}

// RootAdded records a container gaining a live root.
func (m *Metrics) RootAdded() {
	if m == nil {
		return
	}
	m.liveRoots.Inc()
}

// RootReleased records a container giving up its live root.
func (m *Metrics) RootReleased() {
	if m == nil {
		return
	}
	m.liveRoots.Dec()
}

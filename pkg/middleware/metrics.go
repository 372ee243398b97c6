package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/vango-go/fetchview/pkg/features/resource"
)

// MetricsConfig configures the Prometheus metrics.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "fetchview").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for durations.
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
		Namespace: "fetchview",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Metrics holds the Prometheus collectors for fetchview.
// It implements resource.Observer.
type Metrics struct {
	fetchTotal    *prometheus.CounterVec
	fetchDuration *prometheus.HistogramVec
	transitions   *prometheus.CounterVec
	discarded     *prometheus.CounterVec
	activeViews   *prometheus.GaugeVec
	httpTotal     *prometheus.CounterVec
	httpDuration  *prometheus.HistogramVec
}

var _ resource.Observer = (*Metrics)(nil)

// NewMetrics creates and registers the collectors. Registering twice on the
// same registry panics, so create one Metrics per registry.
func NewMetrics(opts ...MetricsOption) *Metrics {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}

	factory := promauto.With(config.Registry)

	return &Metrics{
		fetchTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "fetch_requests_total",
			Help:        "Total outbound fetch requests by host and outcome",
			ConstLabels: config.ConstLabels,
		}, []string{"host", "outcome"}),

		fetchDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "fetch_duration_seconds",
			Help:        "Outbound fetch duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"host"}),

		transitions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "view_transitions_total",
			Help:        "Total view state transitions by view and target state",
			ConstLabels: config.ConstLabels,
		}, []string{"view", "state"}),

		discarded: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "view_discarded_total",
			Help:        "Completions discarded because the view was deactivated",
			ConstLabels: config.ConstLabels,
		}, []string{"view"}),

		activeViews: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "views_active",
			Help:        "Number of currently activated views",
			ConstLabels: config.ConstLabels,
		}, []string{"view"}),

		httpTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "http_requests_total",
			Help:        "Total demo host requests by route and status code",
			ConstLabels: config.ConstLabels,
		}, []string{"route", "code"}),

		httpDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "http_request_duration_seconds",
			Help:        "Demo host request duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"route"}),
	}
}

// Activated implements resource.Observer.
func (m *Metrics) Activated(name string) {
	m.activeViews.WithLabelValues(name).Inc()
}

// Deactivated implements resource.Observer.
func (m *Metrics) Deactivated(name string) {
	m.activeViews.WithLabelValues(name).Dec()
}

// Transitioned implements resource.Observer.
func (m *Metrics) Transitioned(name string, _, to resource.State) {
	m.transitions.WithLabelValues(name, to.String()).Inc()
}

// Discarded implements resource.Observer.
func (m *Metrics) Discarded(name string) {
	m.discarded.WithLabelValues(name).Inc()
}

// Transport wraps next so every outbound request is counted and timed.
// A nil next uses http.DefaultTransport.
func (m *Metrics) Transport(next http.RoundTripper) http.RoundTripper {
	if next == nil {
		next = http.DefaultTransport
	}
	return roundTripperFunc(func(req *http.Request) (*http.Response, error) {
		start := time.Now()
		resp, err := next.RoundTrip(req)
		host := req.URL.Host

		m.fetchDuration.WithLabelValues(host).Observe(time.Since(start).Seconds())
		m.fetchTotal.WithLabelValues(host, outcome(resp, err)).Inc()
		return resp, err
	})
}

// outcome keeps the label set small: status class or "error".
func outcome(resp *http.Response, err error) string {
	if err != nil || resp == nil {
		return "error"
	}
	return strconv.Itoa(resp.StatusCode/100) + "xx"
}

// Handler is chi-compatible middleware that counts and times demo host
// requests, labelled by route pattern.
func (m *Metrics) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		route := routePattern(r)
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		m.httpDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
		m.httpTotal.WithLabelValues(route, strconv.Itoa(status)).Inc()
	})
}

// routePattern returns the matched chi pattern, which keeps usernames out
// of label values.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return "unmatched"
}

type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) { return f(req) }

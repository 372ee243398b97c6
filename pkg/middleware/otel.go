package middleware

import (
	"fmt"
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

// Default tracer name for fetchview.
const defaultTracerName = "fetchview"

// OTelConfig configures the OpenTelemetry middleware.
type OTelConfig struct {
	// TracerName is the name of the tracer (default: "fetchview").
	TracerName string

	// Filter determines which requests to trace.
	// Return true to trace the request, false to skip.
	// If nil, all requests are traced.
	Filter func(r *http.Request) bool

	// Propagator injects trace context into outbound requests.
	// Default: the global text map propagator.
	Propagator propagation.TextMapPropagator

	tracer trace.Tracer
}

// OTelOption configures the OpenTelemetry middleware.
type OTelOption func(*OTelConfig)

// WithTracerName sets the tracer name.
func WithTracerName(name string) OTelOption {
	return func(c *OTelConfig) {
		c.TracerName = name
	}
}

// WithFilter sets a filter function for requests.
func WithFilter(filter func(r *http.Request) bool) OTelOption {
	return func(c *OTelConfig) {
		c.Filter = filter
	}
}

// WithPropagator sets the propagator used by TracingTransport.
func WithPropagator(p propagation.TextMapPropagator) OTelOption {
	return func(c *OTelConfig) {
		c.Propagator = p
	}
}

func defaultOTelConfig() OTelConfig {
	return OTelConfig{
		TracerName: defaultTracerName,
	}
}

func resolveOTelConfig(opts []OTelOption) OTelConfig {
	config := defaultOTelConfig()
	for _, opt := range opts {
		opt(&config)
	}
	config.tracer = otel.Tracer(config.TracerName)
	if config.Propagator == nil {
		config.Propagator = otel.GetTextMapPropagator()
	}
	return config
}

// Tracing creates chi-compatible middleware that starts a server span for
// every request. The span is available to handlers through
// trace.SpanFromContext(r.Context()).
func Tracing(opts ...OTelOption) func(http.Handler) http.Handler {
	config := resolveOTelConfig(opts)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if config.Filter != nil && !config.Filter(r) {
				next.ServeHTTP(w, r)
				return
			}

			ctx, span := config.tracer.Start(r.Context(),
				fmt.Sprintf("%s %s", r.Method, r.URL.Path),
				trace.WithSpanKind(trace.SpanKindServer),
				trace.WithAttributes(
					attribute.String("http.method", r.Method),
					attribute.String("http.target", r.URL.Path),
				),
			)
			defer span.End()

			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Rename once the route pattern is known.
			route := routePattern(r)
			span.SetName(fmt.Sprintf("%s %s", r.Method, route))
			span.SetAttributes(
				attribute.String("http.route", route),
				attribute.Int("http.status_code", ww.Status()),
			)
			if ww.Status() >= http.StatusInternalServerError {
				span.SetStatus(codes.Error, http.StatusText(ww.Status()))
			}
		})
	}
}

// TracingTransport wraps next so every outbound request gets a client span.
// The recorded URL omits the query string. A nil next uses
// http.DefaultTransport.
func TracingTransport(next http.RoundTripper, opts ...OTelOption) http.RoundTripper {
	if next == nil {
		next = http.DefaultTransport
	}
	config := resolveOTelConfig(opts)

	return roundTripperFunc(func(req *http.Request) (*http.Response, error) {
		if config.Filter != nil && !config.Filter(req) {
			return next.RoundTrip(req)
		}

		ctx, span := config.tracer.Start(req.Context(),
			fmt.Sprintf("%s %s", req.Method, req.URL.Host),
			trace.WithSpanKind(trace.SpanKindClient),
			trace.WithAttributes(
				attribute.String("http.method", req.Method),
				attribute.String("http.url", redactURL(req)),
				attribute.String("net.peer.name", req.URL.Hostname()),
			),
		)
		defer span.End()

		req = req.Clone(ctx)
		config.Propagator.Inject(ctx, propagation.HeaderCarrier(req.Header))

		resp, err := next.RoundTrip(req)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return resp, err
		}

		span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
		if resp.StatusCode >= http.StatusBadRequest {
			span.SetStatus(codes.Error, http.StatusText(resp.StatusCode))
		} else {
			span.SetStatus(codes.Ok, "")
		}
		return resp, nil
	})
}

func redactURL(req *http.Request) string {
	u := *req.URL
	u.RawQuery = ""
	u.User = nil
	return u.String()
}

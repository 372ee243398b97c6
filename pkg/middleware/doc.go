// Package middleware provides the observability layer for fetchview:
// Prometheus metrics and OpenTelemetry tracing.
//
// # Prometheus Metrics
//
// Metrics instruments three places. Transport wraps the outbound
// http.RoundTripper used by the fetch client, the Metrics value itself is a
// resource.Observer that counts view transitions, and Handler wraps the
// demo host's router:
//
//	m := middleware.NewMetrics(middleware.WithRegistry(reg))
//	client := fetch.NewClient(fetch.WithTransport(m.Transport(http.DefaultTransport)))
//	view := views.NewProfileView(client, resource.WithObserver(m))
//	r.Use(m.Handler)
//
// Metrics collected:
//   - fetchview_fetch_requests_total: outbound requests by host and outcome
//   - fetchview_fetch_duration_seconds: outbound request latency by host
//   - fetchview_view_transitions_total: view transitions by view and state
//   - fetchview_view_discarded_total: late completions dropped after deactivation
//   - fetchview_views_active: currently activated views
//   - fetchview_http_requests_total: demo host requests by route and status
//   - fetchview_http_request_duration_seconds: demo host latency by route
//
// # OpenTelemetry
//
// Tracing creates a server span per demo host request and TracingTransport a
// client span per outbound fetch. Both use the global tracer provider, so
// configure it in main before starting:
//
//	otel.SetTracerProvider(tp)
//
// Client spans never record the query string, which may carry an API key.
package middleware

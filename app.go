// Package fetchview wires the fetch client, view resources, metrics and the
// demo host into a single application.
//
//	app, err := fetchview.New(fetchview.Config{Settings: settings})
//	if err != nil {
//	    return err
//	}
//	return app.Run(ctx)
package fetchview

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/vango-go/fetchview/pkg/features/resource"
	"github.com/vango-go/fetchview/pkg/fetch"
	"github.com/vango-go/fetchview/pkg/middleware"
	"github.com/vango-go/fetchview/pkg/server"
	"github.com/vango-go/fetchview/pkg/views"
)

// =============================================================================
// App Type
// =============================================================================

// App owns the shared pieces every view is built from. Views themselves are
// created per use and never shared.
type App struct {
	settings *Settings
	client   *fetch.Client
	metrics  *middleware.Metrics
	registry *prometheus.Registry
	server   *server.Server
	logger   *slog.Logger
}

// New creates an application. The settings are validated first.
func New(cfg Config) (*App, error) {
	settings := cfg.Settings
	if settings == nil {
		settings = DefaultSettings()
	}
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	registry := cfg.Registry
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	metrics := middleware.NewMetrics(middleware.WithRegistry(registry))

	transport := cfg.Transport
	if transport == nil {
		transport = http.DefaultTransport
	}
	transport = metrics.Transport(transport)
	if !cfg.DisableTracing {
		transport = middleware.TracingTransport(transport)
	}

	client := fetch.NewClient(
		fetch.WithTransport(transport),
		fetch.WithTimeout(settings.HTTP.Timeout.Std()),
		fetch.WithUserAgent(settings.HTTP.UserAgent),
		fetch.WithLogger(logger.With("component", "fetch")),
	)

	app := &App{
		settings: settings,
		client:   client,
		metrics:  metrics,
		registry: registry,
		logger:   logger,
	}

	serverOpts := []server.Option{
		server.WithLogger(logger.With("component", "server")),
		server.WithMetrics(metrics, registry),
	}
	if !cfg.DisableTracing {
		serverOpts = append(serverOpts, server.WithTracing())
	}
	app.server = server.New(&server.ServerConfig{
		Address:         settings.Server.Address,
		ShutdownTimeout: settings.Server.ShutdownTimeout.Std(),
		RenderTimeout:   settings.Server.RenderTimeout.Std(),
		OnListen:        cfg.OnListen,
	}, app.Views(), serverOpts...)

	return app, nil
}

// resourceOptions are applied to every resource the app creates.
func (a *App) resourceOptions() []resource.Option {
	return []resource.Option{
		resource.WithLogger(a.logger.With("component", "resource")),
		resource.WithObserver(a.metrics),
	}
}

// ProfileView creates a GitHub profile view and the request that activates
// it for username.
func (a *App) ProfileView(username string) (*resource.View[views.Profile], fetch.Request) {
	view := views.NewProfileView(a.client, a.resourceOptions()...)
	return view, views.ProfileRequest(a.settings.GitHub.BaseURL, username)
}

// APODView creates an astronomy picture view and the request that activates
// it.
func (a *App) APODView() (*resource.View[views.APOD], fetch.Request) {
	view := views.NewAPODView(a.client, a.resourceOptions()...)
	return view, views.APODRequest(a.settings.NASA.BaseURL, a.settings.NASA.APIKey)
}

// TimerView creates a stopped timer view.
func (a *App) TimerView() *views.TimerView {
	return views.NewTimerView(a.settings.Timer.Interval.Std(), a.settings.Timer.Max)
}

// Views returns the factories the demo host uses to build a view per request.
func (a *App) Views() server.Views {
	return server.Views{
		Profile: func(username string) views.Live {
			view, req := a.ProfileView(username)
			return views.LiveResource(view, req)
		},
		APOD: func() views.Live {
			view, req := a.APODView()
			return views.LiveResource(view, req)
		},
		Timer: func() views.Live {
			return views.LiveTimer(a.TimerView())
		},
	}
}

// =============================================================================
// Accessors
// =============================================================================

// Settings returns the resolved settings.
func (a *App) Settings() *Settings { return a.settings }

// Client returns the shared fetch client.
func (a *App) Client() *fetch.Client { return a.client }

// Metrics returns the application's collectors.
func (a *App) Metrics() *middleware.Metrics { return a.metrics }

// Registry returns the registry served on /metrics.
func (a *App) Registry() *prometheus.Registry { return a.registry }

// Server returns the demo host.
func (a *App) Server() *server.Server { return a.server }

// Logger returns the application logger.
func (a *App) Logger() *slog.Logger { return a.logger }

// =============================================================================
// http.Handler and lifecycle
// =============================================================================

// ServeHTTP implements http.Handler.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.server.ServeHTTP(w, r)
}

// Run starts the demo host and blocks until ctx is done or a shutdown
// signal arrives.
func (a *App) Run(ctx context.Context) error {
	return a.server.Run(ctx)
}

package server

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vango-go/fetchview/pkg/middleware"
	"github.com/vango-go/fetchview/pkg/render"
	"github.com/vango-go/fetchview/pkg/views"
)

// Views creates a fresh view per request. A view instance is never shared
// between requests.
type Views struct {
	Profile func(username string) views.Live
	APOD    func() views.Live
	Timer   func() views.Live
}

// Server is the HTTP/WebSocket demo host.
type Server struct {
	config   *ServerConfig
	views    Views
	router   chi.Router
	upgrader websocket.Upgrader
	renderer *render.Renderer

	metrics  *middleware.Metrics
	gatherer prometheus.Gatherer
	tracing  []middleware.OTelOption
	traced   bool

	// streams tracks live connections so Shutdown can end them.
	streams sync.WaitGroup
	baseCtx context.Context
	stop    context.CancelFunc

	// mu guards httpServer and stream registration.
	httpServer *http.Server
	mu         sync.Mutex

	logger *slog.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the server logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMetrics instruments handlers with m and serves g on /metrics.
func WithMetrics(m *middleware.Metrics, g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.metrics = m
		s.gatherer = g
	}
}

// WithTracing adds a server span to every request.
func WithTracing(opts ...middleware.OTelOption) Option {
	return func(s *Server) {
		s.traced = true
		s.tracing = opts
	}
}

// New creates a Server.
func New(config *ServerConfig, v Views, opts ...Option) *Server {
	config = config.withDefaults()
	baseCtx, stop := context.WithCancel(context.Background())

	s := &Server{
		config: config,
		views:  v,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     config.CheckOrigin,
		},
		renderer: render.NewRenderer(render.RendererConfig{}),
		gatherer: prometheus.DefaultGatherer,
		baseCtx:  baseCtx,
		stop:     stop,
		logger:   slog.Default().With("component", "server"),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	if s.traced {
		r.Use(middleware.Tracing(s.tracing...))
	}
	if s.metrics != nil {
		r.Use(s.metrics.Handler)
	}

	r.Get("/", s.handleIndex)
	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))

	if s.views.Profile != nil {
		r.Get("/profile/{username}", s.handleProfile)
		r.Get("/live/profile/{username}", s.handleLiveProfile)
	}
	if s.views.APOD != nil {
		r.Get("/apod", s.handleAPOD)
		r.Get("/live/apod", s.handleLiveAPOD)
	}
	if s.views.Timer != nil {
		r.Get("/timer", s.handleTimer)
		r.Get("/live/timer", s.handleLiveTimer)
	}
	return r
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Config returns the server configuration.
func (s *Server) Config() *ServerConfig {
	return s.config
}

// Logger returns the server logger.
func (s *Server) Logger() *slog.Logger {
	return s.logger
}

// Run listens on the configured address and blocks until ctx is done, an
// interrupt or SIGTERM arrives, or the listener fails. It then shuts down
// gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.config.Address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve is Run with a caller-provided listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	s.mu.Lock()
	s.httpServer = &http.Server{
		Handler:           s,
		ReadHeaderTimeout: s.config.ReadHeaderTimeout,
		BaseContext:       func(net.Listener) context.Context { return s.baseCtx },
	}
	srv := s.httpServer
	s.mu.Unlock()

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", "address", ln.Addr().String())
		errCh <- srv.Serve(ln)
	}()
	if s.config.OnListen != nil {
		s.config.OnListen(ln.Addr())
	}

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil

	case <-ctx.Done():
		s.logger.Info("shutting down...")
		return s.Shutdown(context.Background())
	}
}

// Shutdown ends every live stream, then gracefully shuts down the HTTP
// server within ShutdownTimeout.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
	defer cancel()

	// Hijacked websocket connections are not tracked by http.Server.
	// Stopping under mu orders every trackStream before the Wait below.
	s.mu.Lock()
	s.stop()
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.streams.Wait()
		close(done)
	}()

	s.mu.Lock()
	srv := s.httpServer
	s.mu.Unlock()

	if srv != nil {
		if err := srv.Shutdown(ctx); err != nil {
			s.logger.Error("shutdown error", "error", err)
			return err
		}
	}

	select {
	case <-done:
	case <-ctx.Done():
		s.logger.Warn("live streams did not close before timeout")
		return ctx.Err()
	}

	s.logger.Info("server shutdown complete")
	return nil
}

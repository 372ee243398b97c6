package fetchview

import (
	"io"
	"log/slog"
	"net"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/vango-go/fetchview/internal/config"
)

// =============================================================================
// Configuration Types
// =============================================================================

// Settings are the values resolved from config files, the dotenv file and
// the environment.
type Settings = config.Config

// DefaultSettings returns Settings with every default applied.
func DefaultSettings() *Settings {
	return config.New()
}

// LoadSettings resolves Settings for dir. Values are layered as defaults,
// then the first of fetchview.json, fetchview.yaml or fetchview.yml, then
// .env, then the process environment.
func LoadSettings(dir string) (*Settings, error) {
	return config.Load(dir)
}

// Config is the application configuration.
type Config struct {
	// Settings holds the resolved endpoint, timeout and server values.
	// If nil, DefaultSettings() is used.
	Settings *Settings

	// Logger is the structured logger for the application.
	// If nil, slog.Default() is used.
	Logger *slog.Logger

	// Registry receives the application's Prometheus collectors and is
	// served on /metrics. If nil, a new registry is created.
	Registry *prometheus.Registry

	// Transport is the base round tripper for outbound requests.
	// If nil, http.DefaultTransport is used.
	Transport http.RoundTripper

	// OnListen is called once the demo host's listener is bound.
	OnListen func(addr net.Addr)

	// DisableTracing turns off span creation for inbound and outbound
	// requests.
	DisableTracing bool
}

// NewLogger returns a text logger writing to w at level.
func NewLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

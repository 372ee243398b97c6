package config

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/vango-go/fetchview/internal/errors"
)

const (
	// DefaultGitHubURL is the public GitHub REST API.
	DefaultGitHubURL = "https://api.github.com"

	// DefaultNASAURL is the public NASA API.
	DefaultNASAURL = "https://api.nasa.gov"

	// DefaultNASAAPIKey is NASA's shared, rate-limited key.
	DefaultNASAAPIKey = "DEMO_KEY"

	// DefaultAddress is the demo host listen address.
	DefaultAddress = "localhost:8080"

	// DefaultUserAgent is sent with every outbound request.
	DefaultUserAgent = "fetchview"

	// EnvFileName is the dotenv file read next to the config file.
	EnvFileName = ".env"
)

// FileNames are the config files Load looks for, in order.
var FileNames = []string{"fetchview.json", "fetchview.yaml", "fetchview.yml"}

// Config is the complete fetchview configuration.
type Config struct {
	// GitHub configures the profile view's API.
	GitHub GitHubConfig `json:"github" yaml:"github"`

	// NASA configures the APOD view's API.
	NASA NASAConfig `json:"nasa" yaml:"nasa"`

	// HTTP configures the outbound client.
	HTTP HTTPConfig `json:"http" yaml:"http"`

	// Server configures the demo host.
	Server ServerConfig `json:"server" yaml:"server"`

	// Timer configures the timer view.
	Timer TimerConfig `json:"timer" yaml:"timer"`

	// Log configures diagnostics.
	Log LogConfig `json:"log" yaml:"log"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// GitHubConfig configures the GitHub API.
type GitHubConfig struct {
	BaseURL string `json:"baseURL,omitempty" yaml:"baseURL,omitempty"`
}

// NASAConfig configures the NASA API.
type NASAConfig struct {
	BaseURL string `json:"baseURL,omitempty" yaml:"baseURL,omitempty"`

	// APIKey is sent as the api_key query parameter.
	APIKey string `json:"apiKey,omitempty" yaml:"apiKey,omitempty"`
}

// HTTPConfig configures outbound requests.
type HTTPConfig struct {
	Timeout   Duration `json:"timeout,omitempty" yaml:"timeout,omitempty"`
	UserAgent string   `json:"userAgent,omitempty" yaml:"userAgent,omitempty"`
}

// ServerConfig configures the demo host.
type ServerConfig struct {
	Address string `json:"address,omitempty" yaml:"address,omitempty"`

	// ShutdownTimeout bounds graceful shutdown.
	ShutdownTimeout Duration `json:"shutdownTimeout,omitempty" yaml:"shutdownTimeout,omitempty"`

	// RenderTimeout bounds how long a server-rendered page waits for its
	// view to settle before rendering the Loading state.
	RenderTimeout Duration `json:"renderTimeout,omitempty" yaml:"renderTimeout,omitempty"`
}

// TimerConfig configures the timer view.
type TimerConfig struct {
	Interval Duration `json:"interval,omitempty" yaml:"interval,omitempty"`

	// Max stops the timer at this count. Zero runs until cancelled.
	Max int `json:"max,omitempty" yaml:"max,omitempty"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level string `json:"level,omitempty" yaml:"level,omitempty"`
}

// New creates a Config with default values.
func New() *Config {
	return &Config{
		GitHub: GitHubConfig{BaseURL: DefaultGitHubURL},
		NASA: NASAConfig{
			BaseURL: DefaultNASAURL,
			APIKey:  DefaultNASAAPIKey,
		},
		HTTP: HTTPConfig{
			Timeout:   Duration(10 * time.Second),
			UserAgent: DefaultUserAgent,
		},
		Server: ServerConfig{
			Address:         DefaultAddress,
			ShutdownTimeout: Duration(10 * time.Second),
			RenderTimeout:   Duration(5 * time.Second),
		},
		Timer: TimerConfig{
			Interval: Duration(time.Second),
			Max:      10,
		},
		Log: LogConfig{Level: "info"},
	}
}

// Load resolves configuration for dir: defaults, the first config file found,
// the dotenv file, then the process environment. A missing config file is not
// an error.
func Load(dir string) (*Config, error) {
	cfg := New()

	for _, name := range FileNames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := cfg.readFile(path); err != nil {
			return nil, err
		}
		break
	}

	dotenv, err := readDotenv(filepath.Join(dir, EnvFileName))
	if err != nil {
		return nil, err
	}

	lookup := func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := dotenv[key]
		return v, ok
	}
	if err := cfg.ApplyEnv(lookup); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile reads a single config file over the defaults. The format is chosen
// by extension.
func LoadFile(path string) (*Config, error) {
	cfg := New()
	if _, err := os.Stat(path); err != nil {
		return nil, errors.New("E200").
			WithDetail("Cannot read " + path).
			Wrap(err)
	}
	if err := cfg.readFile(path); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) readFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.New("E200").Wrap(err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, c)
	case ".json":
		err = json.Unmarshal(data, c)
	default:
		return errors.New("E200").
			WithDetail("Unsupported config file extension: " + filepath.Ext(path))
	}
	if err != nil {
		return errors.New("E200").
			WithDetail(fmt.Sprintf("Failed to parse %s: %v", filepath.Base(path), err))
	}

	c.configPath = path
	return nil
}

// readDotenv returns the variables in path, or nil if it does not exist.
func readDotenv(path string) (map[string]string, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, nil
	}
	vars, err := godotenv.Read(path)
	if err != nil {
		return nil, errors.New("E200").
			WithDetail("Failed to parse " + path).
			Wrap(err)
	}
	return vars, nil
}

// ApplyEnv overrides values from environment variables resolved by lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup("NASA_API_KEY"); ok && v != "" {
		c.NASA.APIKey = v
	} else if v, ok := lookup("REACT_APP_NASA_API_KEY"); ok && v != "" {
		c.NASA.APIKey = v
	}
	if v, ok := lookup("FETCHVIEW_GITHUB_URL"); ok && v != "" {
		c.GitHub.BaseURL = v
	}
	if v, ok := lookup("FETCHVIEW_NASA_URL"); ok && v != "" {
		c.NASA.BaseURL = v
	}
	if v, ok := lookup("FETCHVIEW_ADDR"); ok && v != "" {
		c.Server.Address = v
	}
	if v, ok := lookup("FETCHVIEW_LOG_LEVEL"); ok && v != "" {
		c.Log.Level = v
	}
	if v, ok := lookup("FETCHVIEW_HTTP_TIMEOUT"); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return errors.New("E203").
				WithDetail("FETCHVIEW_HTTP_TIMEOUT: " + err.Error())
		}
		c.HTTP.Timeout = Duration(d)
	}
	return nil
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	for _, u := range []struct {
		field, value string
	}{
		{"github.baseURL", c.GitHub.BaseURL},
		{"nasa.baseURL", c.NASA.BaseURL},
	} {
		if err := validateBaseURL(u.field, u.value); err != nil {
			return err
		}
	}

	if strings.TrimSpace(c.NASA.APIKey) == "" {
		return errors.New("E201").
			WithDetail("nasa.apiKey is empty").
			WithSuggestion("Set NASA_API_KEY or use " + DefaultNASAAPIKey)
	}
	if strings.TrimSpace(c.Server.Address) == "" {
		return errors.New("E201").WithDetail("server.address is empty")
	}

	for _, d := range []struct {
		field string
		value Duration
	}{
		{"http.timeout", c.HTTP.Timeout},
		{"server.shutdownTimeout", c.Server.ShutdownTimeout},
		{"server.renderTimeout", c.Server.RenderTimeout},
		{"timer.interval", c.Timer.Interval},
	} {
		if d.value <= 0 {
			return errors.New("E203").
				WithDetail(fmt.Sprintf("%s must be positive, got %s", d.field, d.value))
		}
	}
	if c.Timer.Max < 0 {
		return errors.New("E201").WithDetail("timer.max must not be negative")
	}

	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	return nil
}

func validateBaseURL(field, value string) error {
	u, err := url.Parse(value)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return errors.New("E202").
			WithDetail(fmt.Sprintf("%s = %q", field, value))
	}
	return nil
}

// SlogLevel returns the configured log level.
func (c *Config) SlogLevel() (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(c.Log.Level)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, errors.New("E204").
			WithDetail(fmt.Sprintf("log.level = %q", c.Log.Level))
	}
}

// Path returns the path of the config file that was read, or "".
func (c *Config) Path() string {
	return c.configPath
}

// ServerURL returns the demo host's base URL.
func (c *Config) ServerURL() string {
	addr := c.Server.Address
	if strings.HasPrefix(addr, ":") {
		addr = "localhost" + addr
	}
	return "http://" + addr
}

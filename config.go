package mallclient

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Config defines the tunable surface of a [Client]. Zero values fall back to
// the defaults below during Build.
type Config struct {
	HTTP    HTTPConfig
	Session SessionConfig
	Monitor MonitorConfig
	Routes  RoutesConfig
	Notify  NotifyConfig
	Metrics MetricsConfig
}

// HTTPConfig configures the outbound transport and endpoint paths.
type HTTPConfig struct {
	BaseURL      string
	Timeout      time.Duration
	LoginPath    string
	RegisterPath string
	ProductsPath string
}

// SessionConfig names the two durable storage entries.
type SessionConfig struct {
	UserKey  string
	TokenKey string
}

// MonitorConfig controls the background expiry monitor.
type MonitorConfig struct {
	// Interval between expiry checks. The monitor fires at most once: the
	// first expired check logs out, redirects, and stops it.
	Interval time.Duration
}

// RoutesConfig controls redirect behavior on auth failure.
type RoutesConfig struct {
	// LoginPath is the route unauthenticated users are sent to.
	LoginPath string
	// RedirectDelay postpones the hard navigation after a 401 so the
	// warning has a moment to render.
	RedirectDelay time.Duration
}

// NotifyConfig controls the diagnostic event dispatcher.
type NotifyConfig struct {
	BufferSize int
	DropIfFull bool
}

// MetricsConfig toggles the atomic counter registry.
type MetricsConfig struct {
	Enabled bool
}

func defaultConfig() Config {
	return Config{
		HTTP: HTTPConfig{
			Timeout:      5 * time.Second,
			LoginPath:    "/api/login",
			RegisterPath: "/api/register",
			ProductsPath: "/api/products",
		},
		Session: SessionConfig{
			UserKey:  "user",
			TokenKey: "token",
		},
		Monitor: MonitorConfig{
			Interval: 6 * time.Hour,
		},
		Routes: RoutesConfig{
			LoginPath:     "/login",
			RedirectDelay: 1500 * time.Millisecond,
		},
		Notify: NotifyConfig{
			BufferSize: 64,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}
}

func (c *Config) applyDefaults() {
	d := defaultConfig()
	if c.HTTP.Timeout <= 0 {
		c.HTTP.Timeout = d.HTTP.Timeout
	}
	if c.HTTP.LoginPath == "" {
		c.HTTP.LoginPath = d.HTTP.LoginPath
	}
	if c.HTTP.RegisterPath == "" {
		c.HTTP.RegisterPath = d.HTTP.RegisterPath
	}
	if c.HTTP.ProductsPath == "" {
		c.HTTP.ProductsPath = d.HTTP.ProductsPath
	}
	if c.Session.UserKey == "" {
		c.Session.UserKey = d.Session.UserKey
	}
	if c.Session.TokenKey == "" {
		c.Session.TokenKey = d.Session.TokenKey
	}
	if c.Monitor.Interval <= 0 {
		c.Monitor.Interval = d.Monitor.Interval
	}
	if c.Routes.LoginPath == "" {
		c.Routes.LoginPath = d.Routes.LoginPath
	}
	if c.Routes.RedirectDelay <= 0 {
		c.Routes.RedirectDelay = d.Routes.RedirectDelay
	}
	if c.Notify.BufferSize <= 0 {
		c.Notify.BufferSize = d.Notify.BufferSize
	}
}

func (c *Config) validate() error {
	base := strings.TrimSpace(c.HTTP.BaseURL)
	if base == "" {
		return errors.New("base URL required")
	}
	parsed, err := url.Parse(base)
	if err != nil {
		return fmt.Errorf("invalid base URL: %v", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("invalid base URL scheme %q", parsed.Scheme)
	}
	if parsed.Host == "" {
		return errors.New("base URL host required")
	}
	for _, p := range []string{c.HTTP.LoginPath, c.HTTP.RegisterPath, c.HTTP.ProductsPath, c.Routes.LoginPath} {
		if !strings.HasPrefix(p, "/") {
			return fmt.Errorf("path %q must start with /", p)
		}
	}
	c.HTTP.BaseURL = strings.TrimRight(base, "/")
	return nil
}

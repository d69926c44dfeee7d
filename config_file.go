package mallclient

import (
	"fmt"
	"time"

	"github.com/BurntSushi/toml"
)

// duration lets TOML carry values like "5s" or "6h".
type duration struct {
	time.Duration
}

func (d *duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = parsed
	return nil
}

// fileConfig is the on-disk TOML shape of [Config]. Keys mirror the Config
// tree; durations are written as Go duration strings.
type fileConfig struct {
	HTTP struct {
		BaseURL      string   `toml:"base_url"`
		Timeout      duration `toml:"timeout"`
		LoginPath    string   `toml:"login_path"`
		RegisterPath string   `toml:"register_path"`
		ProductsPath string   `toml:"products_path"`
	} `toml:"http"`
	Session struct {
		UserKey  string `toml:"user_key"`
		TokenKey string `toml:"token_key"`
	} `toml:"session"`
	Monitor struct {
		Interval duration `toml:"interval"`
	} `toml:"monitor"`
	Routes struct {
		LoginPath     string   `toml:"login_path"`
		RedirectDelay duration `toml:"redirect_delay"`
	} `toml:"routes"`
	Notify struct {
		BufferSize int  `toml:"buffer_size"`
		DropIfFull bool `toml:"drop_if_full"`
	} `toml:"notify"`
	Metrics struct {
		Enabled bool `toml:"enabled"`
	} `toml:"metrics"`
}

// LoadConfig reads a TOML config file into a [Config]. Unset keys keep their
// zero value and pick up defaults during Build.
func LoadConfig(path string) (Config, error) {
	var raw fileConfig
	if _, err := toml.DecodeFile(path, &raw); err != nil {
		return Config{}, fmt.Errorf("load config %s: %w", path, err)
	}

	cfg := Config{}
	cfg.HTTP.BaseURL = raw.HTTP.BaseURL
	cfg.HTTP.Timeout = raw.HTTP.Timeout.Duration
	cfg.HTTP.LoginPath = raw.HTTP.LoginPath
	cfg.HTTP.RegisterPath = raw.HTTP.RegisterPath
	cfg.HTTP.ProductsPath = raw.HTTP.ProductsPath
	cfg.Session.UserKey = raw.Session.UserKey
	cfg.Session.TokenKey = raw.Session.TokenKey
	cfg.Monitor.Interval = raw.Monitor.Interval.Duration
	cfg.Routes.LoginPath = raw.Routes.LoginPath
	cfg.Routes.RedirectDelay = raw.Routes.RedirectDelay.Duration
	cfg.Notify.BufferSize = raw.Notify.BufferSize
	cfg.Notify.DropIfFull = raw.Notify.DropIfFull
	cfg.Metrics.Enabled = raw.Metrics.Enabled
	return cfg, nil
}

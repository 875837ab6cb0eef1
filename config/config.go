package config

import (
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the overall application configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Provider ProviderConfig `yaml:"provider"`
	Database DatabaseConfig `yaml:"database"`
	Push     PushConfig     `yaml:"push"`
	Alerts   AlertsConfig   `yaml:"alerts"`
}

// AlertsConfig holds the street-cleaning alert settings.
type AlertsConfig struct {
	WorkerPoolSize  int           `yaml:"worker_pool_size"`
	LeadTimeMinutes int           `yaml:"lead_time_minutes"`
	LeadTime        time.Duration `yaml:"-"` // Ignored by YAML parser
	Timezone        string        `yaml:"timezone"`
}

// PushConfig holds the VAPID keys for web push notifications.
type PushConfig struct {
	PublicKey  string `yaml:"vapid_public_key"`
	PrivateKey string `yaml:"vapid_private_key"`
	Subject    string `yaml:"subject"`
	TTL        int    `yaml:"ttl"`
}

// ServerConfig holds the server-related configuration.
type ServerConfig struct {
	Port            int     `yaml:"port"`
	RequestIPHeader string  `yaml:"request_ip_header"`
	RateLimitPerSec float64 `yaml:"rate_limit_per_sec"`
	RateLimitBurst  int     `yaml:"rate_limit_burst"`
	CacheTTLSeconds int     `yaml:"cache_ttl_seconds"`
}

// ProviderConfig holds the regulation-data provider configuration.
type ProviderConfig struct {
	Enabled         bool            `yaml:"enabled"`
	IntervalSeconds int             `yaml:"interval_seconds"`
	Interval        time.Duration   `yaml:"-"` // Ignored by YAML parser
	HTTPProxy       string          `yaml:"http_proxy"`
	Request         ProviderRequest `yaml:"request"`
}

// ProviderRequest defines the HTTP request for the provider fetch.
type ProviderRequest struct {
	URL      string            `yaml:"url"`
	Headers  map[string]string `yaml:"headers"`
	PageSize int               `yaml:"page_size"`
}

// DatabaseConfig holds the database connection configuration.
type DatabaseConfig struct {
	Driver                 string `yaml:"driver"` // "postgres" or "sqlite"
	DSN                    string `yaml:"dsn"`
	MaxOpenConns           int    `yaml:"max_open_conns"`
	MaxIdleConns           int    `yaml:"max_idle_conns"`
	ConnMaxLifetimeMinutes int    `yaml:"conn_max_lifetime_minutes"`
}

// Load reads the configuration from the given path.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg Config
	decoder := yaml.NewDecoder(f)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, err
	}

	if cfg.Provider.IntervalSeconds <= 0 {
		cfg.Provider.IntervalSeconds = 3600
	}
	cfg.Provider.Interval = time.Duration(cfg.Provider.IntervalSeconds) * time.Second

	if cfg.Provider.Request.PageSize <= 0 {
		cfg.Provider.Request.PageSize = 1000
	}

	if cfg.Database.Driver == "" {
		cfg.Database.Driver = "sqlite"
	}

	if cfg.Server.RateLimitPerSec <= 0 {
		cfg.Server.RateLimitPerSec = 10
	}
	if cfg.Server.RateLimitBurst <= 0 {
		cfg.Server.RateLimitBurst = 5
	}
	if cfg.Server.CacheTTLSeconds <= 0 {
		cfg.Server.CacheTTLSeconds = 300
	}

	if cfg.Push.TTL <= 0 {
		cfg.Push.TTL = 3600
	}

	if cfg.Alerts.WorkerPoolSize <= 0 {
		log.Printf("alerts.worker_pool_size is not set or invalid; defaulting to 1")
		cfg.Alerts.WorkerPoolSize = 1
	}
	if cfg.Alerts.LeadTimeMinutes <= 0 {
		cfg.Alerts.LeadTimeMinutes = 60
	}
	if cfg.Alerts.Timezone == "" {
		cfg.Alerts.Timezone = "America/New_York"
	}
	cfg.Alerts.LeadTime = time.Duration(cfg.Alerts.LeadTimeMinutes) * time.Minute

	return &cfg, nil
}

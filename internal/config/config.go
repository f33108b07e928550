package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Environment string `toml:"-"`

	Host string `toml:"host"`
	Port int    `toml:"port"`
	// logging
	LogLevel      string `toml:"log_level"`
	LogsPath      string `toml:"logs_path"`
	LogToStdout   bool   `toml:"log_to_stdout"`
	LogFormatJSON bool   `toml:"log_format_json"`
	SentryEnabled bool   `toml:"sentry_enabled"`
	// storage: redis | postgres | disk | memory
	StoreBackend   string `toml:"store_backend"`
	StoreKey       string `toml:"store_key"`
	RedisHost      string `toml:"redis_host"`
	RedisPort      string `toml:"redis_port"`
	PostgresHost   string `toml:"postgres_host"`
	PostgresPort   string `toml:"postgres_port"`
	PostgresDBName string `toml:"postgres_db_name"`
	DiskStoreRoot  string `toml:"disk_store_root"`
	// map
	MapZoomLevel      int      `toml:"map_zoom_level"`
	MapTileURL        string   `toml:"map_tile_url"`
	MapTileSubdomains []string `toml:"map_tile_subdomains"`
	MapMaxZoom        int      `toml:"map_max_zoom"`
	// form hide / show transition, in milliseconds
	FormRestoreDelayMs int `toml:"form_restore_delay_ms"`
	// geolocation
	DevLatitude  float64 `toml:"dev_latitude"`
	DevLongitude float64 `toml:"dev_longitude"`
	// metrics
	PrometheusMetricsHost string `toml:"prometheus_metrics_host"`
	PrometheusMetricsPort string `toml:"prometheus_metrics_port"`
	// misc
	AllowedOrigins              []string `toml:"allowed_origins"`
	ResetRateLimitAllowedPerMin int      `toml:"reset_rate_limit_allowed_per_min"`
	MaxRequestBodyBytes         int64    `toml:"max_request_body_bytes"`
}

func (c *Config) FormRestoreDelay() time.Duration {
	return time.Duration(c.FormRestoreDelayMs) * time.Millisecond
}

type Toml struct {
	Development *Config
	Production  *Config
}

func (t *Toml) Get(env string) (*Config, error) {
	switch strings.ToLower(env) {
	case "dev", "development":
		return t.Development, nil
	case "prod", "production":
		return t.Production, nil
	default:
		return nil, fmt.Errorf("unknown env: %s", env)
	}
}

// Load reads the TOML file and returns the config of the given environment,
// with defaults filled in for everything left unset.
func Load(env, configPath string) (*Config, error) {
	var t Toml
	if _, err := toml.DecodeFile(configPath, &t); err != nil {
		return nil, fmt.Errorf("decode config file %s: %w", configPath, err)
	}

	cfg, err := t.Get(env)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, fmt.Errorf("no config section for env: %s", env)
	}

	cfg.Environment = strings.ToLower(env)
	cfg.SetDefaults()

	return cfg, nil
}

func (c *Config) SetDefaults() {
	if c.Port == 0 {
		c.Port = 9000
	}
	if c.StoreBackend == "" {
		c.StoreBackend = "redis"
	}
	if c.StoreKey == "" {
		c.StoreKey = "workouts"
	}
	if c.RedisPort == "" {
		c.RedisPort = "6379"
	}
	if c.PostgresPort == "" {
		c.PostgresPort = "5432"
	}
	if c.MapZoomLevel == 0 {
		c.MapZoomLevel = 13
	}
	if c.MapTileURL == "" {
		c.MapTileURL = "http://{s}.google.com/vt/lyrs=m&x={x}&y={y}&z={z}"
	}
	if len(c.MapTileSubdomains) == 0 {
		c.MapTileSubdomains = []string{"mt0", "mt1", "mt2", "mt3"}
	}
	if c.MapMaxZoom == 0 {
		c.MapMaxZoom = 20
	}
	if c.FormRestoreDelayMs == 0 {
		c.FormRestoreDelayMs = 1000
	}
	if c.ResetRateLimitAllowedPerMin == 0 {
		c.ResetRateLimitAllowedPerMin = 5
	}
	if c.MaxRequestBodyBytes == 0 {
		c.MaxRequestBodyBytes = 64 << 10
	}
}

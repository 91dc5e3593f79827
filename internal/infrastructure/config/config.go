package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App     AppConfig
	Log     LogConfig
	HTTP    HTTPConfig
	Storage StorageConfig
	Redis   RedisConfig
	CartAPI CartAPIConfig
	Session SessionConfig
	Sync    SyncConfig
	Undo    UndoConfig
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name string
	Env  string
	Port string
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	MaxHeaderBytes int
	MaxBodySize    int64
	TrustedProxies []string
}

// StorageBackend selects the keyed store implementation
type StorageBackend string

const (
	StorageBackendMemory   StorageBackend = "memory"
	StorageBackendSQLite   StorageBackend = "sqlite"
	StorageBackendPostgres StorageBackend = "postgres"
	StorageBackendRedis    StorageBackend = "redis"
)

// StorageConfig holds keyed store settings
type StorageConfig struct {
	Backend    StorageBackend
	SQLitePath string // file path for the sqlite backend
	DSN        string // connection string for the postgres backend
}

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// CartAPIConfig holds the remote commerce backend settings
type CartAPIConfig struct {
	BaseURL        string
	APIKey         string
	APISecret      string
	TimeoutSeconds int
}

// SessionConfig holds session token verification settings
type SessionConfig struct {
	Secret string
	Issuer string
}

// SyncConfig holds cart reconciliation settings
type SyncConfig struct {
	MaxUnitsPerProduct int           // per-product quantity ceiling applied on merge writes
	FetchTimeout       time.Duration // timeout for each Cart API call during a merge
	Locale             string        // BCP 47 tag for user-facing notices (default "vi")
}

// UndoConfig holds deferred deletion settings
type UndoConfig struct {
	GracePeriod time.Duration // window during which a staged deletion can be undone
}

// Load loads configuration from TOML file and environment variables
// Priority (highest to lowest):
// 1. Environment variables with SHOPFRONT_ prefix (e.g., SHOPFRONT_CARTAPI_APIKEY)
// 2. config.toml
// 3. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("/app")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, we'll use defaults and env vars
	}

	v.SetEnvPrefix("SHOPFRONT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
			Port: v.GetString("app.port"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		HTTP: HTTPConfig{
			ReadTimeout:    v.GetDuration("http.read_timeout"),
			WriteTimeout:   v.GetDuration("http.write_timeout"),
			IdleTimeout:    v.GetDuration("http.idle_timeout"),
			MaxHeaderBytes: v.GetInt("http.max_header_bytes"),
			MaxBodySize:    v.GetInt64("http.max_body_size"),
			TrustedProxies: v.GetStringSlice("http.trusted_proxies"),
		},
		Storage: StorageConfig{
			Backend:    StorageBackend(v.GetString("storage.backend")),
			SQLitePath: v.GetString("storage.sqlite_path"),
			DSN:        v.GetString("storage.dsn"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("redis.host"),
			Port:     v.GetInt("redis.port"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		CartAPI: CartAPIConfig{
			BaseURL:        v.GetString("cartapi.base_url"),
			APIKey:         v.GetString("cartapi.api_key"),
			APISecret:      v.GetString("cartapi.api_secret"),
			TimeoutSeconds: v.GetInt("cartapi.timeout_seconds"),
		},
		Session: SessionConfig{
			Secret: v.GetString("session.secret"),
			Issuer: v.GetString("session.issuer"),
		},
		Sync: SyncConfig{
			MaxUnitsPerProduct: v.GetInt("sync.max_units_per_product"),
			FetchTimeout:       v.GetDuration("sync.fetch_timeout"),
			Locale:             v.GetString("sync.locale"),
		},
		Undo: UndoConfig{
			GracePeriod: v.GetDuration("undo.grace_period"),
		},
	}

	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyDefaults sets default values for any empty config fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "shopfront-backend"
	}
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.App.Port == "" {
		cfg.App.Port = "8080"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		if cfg.App.Env == "production" {
			cfg.Log.Format = "json"
		} else {
			cfg.Log.Format = "console"
		}
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stdout"
	}
	if cfg.HTTP.ReadTimeout == 0 {
		cfg.HTTP.ReadTimeout = 15 * time.Second
	}
	if cfg.HTTP.WriteTimeout == 0 {
		cfg.HTTP.WriteTimeout = 15 * time.Second
	}
	if cfg.HTTP.IdleTimeout == 0 {
		cfg.HTTP.IdleTimeout = 60 * time.Second
	}
	if cfg.HTTP.MaxHeaderBytes == 0 {
		cfg.HTTP.MaxHeaderBytes = 1 << 20 // 1MB
	}
	if cfg.HTTP.MaxBodySize == 0 {
		cfg.HTTP.MaxBodySize = 1 << 20 // 1MB
	}
	if cfg.Storage.Backend == "" {
		cfg.Storage.Backend = StorageBackendSQLite
	}
	if cfg.Storage.SQLitePath == "" {
		cfg.Storage.SQLitePath = "shopfront.db"
	}
	if cfg.Redis.Host == "" {
		cfg.Redis.Host = "localhost"
	}
	if cfg.Redis.Port == 0 {
		cfg.Redis.Port = 6379
	}
	if cfg.CartAPI.TimeoutSeconds == 0 {
		cfg.CartAPI.TimeoutSeconds = 30
	}
	if cfg.Session.Issuer == "" {
		cfg.Session.Issuer = "shopfront"
	}
	if cfg.Sync.MaxUnitsPerProduct == 0 {
		cfg.Sync.MaxUnitsPerProduct = 10
	}
	if cfg.Sync.FetchTimeout == 0 {
		cfg.Sync.FetchTimeout = 30 * time.Second
	}
	if cfg.Sync.Locale == "" {
		cfg.Sync.Locale = "vi"
	}
	if cfg.Undo.GracePeriod == 0 {
		cfg.Undo.GracePeriod = 5 * time.Second
	}
}

// validate performs sanity checks on the configuration
func (cfg *Config) validate() error {
	switch cfg.Storage.Backend {
	case StorageBackendMemory, StorageBackendSQLite, StorageBackendPostgres, StorageBackendRedis:
	default:
		return fmt.Errorf("config: unknown storage backend %q", cfg.Storage.Backend)
	}
	if cfg.Storage.Backend == StorageBackendPostgres && cfg.Storage.DSN == "" {
		return fmt.Errorf("config: storage.dsn is required for the postgres backend")
	}
	if cfg.App.Env == "production" {
		if cfg.Session.Secret == "" {
			return fmt.Errorf("config: session.secret is required in production")
		}
		if cfg.CartAPI.BaseURL == "" {
			return fmt.Errorf("config: cartapi.base_url is required in production")
		}
	}
	if cfg.Sync.MaxUnitsPerProduct < 0 {
		return fmt.Errorf("config: sync.max_units_per_product cannot be negative")
	}
	return nil
}

// IsProduction reports whether the app runs in production mode
func (cfg *Config) IsProduction() bool {
	return cfg.App.Env == "production"
}

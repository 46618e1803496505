package config

import (
	"errors"
	"fmt"
	"time"
)

// Storage drivers.
const (
	StorageSQLite = "sqlite"
	StorageMemory = "memory"
)

// DefaultJWTSecret is the placeholder secret written to fresh config files.
const DefaultJWTSecret = "change-me-in-production"

// Config holds server configuration values.
type Config struct {
	Addr              string        `mapstructure:"addr" yaml:"addr"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout" yaml:"read_header_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
	Environment       string        `mapstructure:"environment" yaml:"environment"`
	LogLevel          string        `mapstructure:"log_level" yaml:"log_level"`
	LogFormat         string        `mapstructure:"log_format" yaml:"log_format"`

	Storage StorageConfig `mapstructure:"storage" yaml:"storage"`
	JWT     JWTConfig     `mapstructure:"jwt" yaml:"jwt"`
	WS      WSConfig      `mapstructure:"ws" yaml:"ws"`
	CORS    CORSConfig    `mapstructure:"cors" yaml:"cors"`
	GenAI   GenAIConfig   `mapstructure:"genai" yaml:"genai"`
	Metrics MetricsConfig `mapstructure:"metrics" yaml:"metrics"`

	// AuthRequired protects /api/* routes with a bearer token.
	AuthRequired   bool `mapstructure:"auth_required" yaml:"auth_required"`
	DebugEndpoints bool `mapstructure:"debug_endpoints" yaml:"debug_endpoints"`
}

// StorageConfig selects the persistence backend.
type StorageConfig struct {
	Driver string `mapstructure:"driver" yaml:"driver"`
	Path   string `mapstructure:"path" yaml:"path"`
}

// JWTConfig configures token issuing and validation.
type JWTConfig struct {
	Secret   string        `mapstructure:"secret" yaml:"secret"`
	Issuer   string        `mapstructure:"issuer" yaml:"issuer"`
	Audience string        `mapstructure:"audience" yaml:"audience"`
	TTL      time.Duration `mapstructure:"ttl" yaml:"ttl"`
}

// WSConfig tunes the websocket endpoint.
type WSConfig struct {
	AuthRequired       bool  `mapstructure:"auth_required" yaml:"auth_required"`
	MaxMessageBytes    int64 `mapstructure:"max_message_bytes" yaml:"max_message_bytes"`
	EventBuffer        int   `mapstructure:"event_buffer" yaml:"event_buffer"`
	RateLimitPerMinute int   `mapstructure:"rate_limit_per_minute" yaml:"rate_limit_per_minute"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins" yaml:"allowed_origins"`
}

// GenAIConfig points at the Gemini generateContent API.
type GenAIConfig struct {
	APIKey  string        `mapstructure:"api_key" yaml:"api_key"`
	Model   string        `mapstructure:"model" yaml:"model"`
	BaseURL string        `mapstructure:"base_url" yaml:"base_url"`
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`
}

// Default returns configuration with reasonable starter defaults.
func Default() Config {
	return Config{
		Addr:              ":3000",
		ReadHeaderTimeout: 5 * time.Second,
		ShutdownTimeout:   10 * time.Second,
		Environment:       "development",
		LogLevel:          "info",
		LogFormat:         "console",
		Storage: StorageConfig{
			Driver: StorageSQLite,
			Path:   "moodsync.db",
		},
		JWT: JWTConfig{
			Secret:   DefaultJWTSecret,
			Issuer:   "moodsync",
			Audience: "moodsync-app",
			TTL:      7 * 24 * time.Hour,
		},
		WS: WSConfig{
			MaxMessageBytes:    1 << 20,
			EventBuffer:        64,
			RateLimitPerMinute: 120,
		},
		CORS: CORSConfig{
			AllowedOrigins: []string{"*"},
		},
		GenAI: GenAIConfig{
			Model:   "gemini-2.0-flash",
			BaseURL: "https://generativelanguage.googleapis.com/v1beta",
			Timeout: 30 * time.Second,
		},
		Metrics: MetricsConfig{Enabled: true},
	}
}

// IsDevelopment reports whether error details may be exposed to clients.
func (c Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// Validate rejects configurations the server cannot start with.
func (c Config) Validate() error {
	var errs []error
	if c.Addr == "" {
		errs = append(errs, errors.New("addr is required"))
	}
	switch c.Storage.Driver {
	case StorageSQLite:
		if c.Storage.Path == "" {
			errs = append(errs, errors.New("storage.path is required for sqlite"))
		}
	case StorageMemory:
	default:
		errs = append(errs, fmt.Errorf("storage.driver %q is not one of %s, %s", c.Storage.Driver, StorageSQLite, StorageMemory))
	}
	if c.JWT.Secret == "" {
		errs = append(errs, errors.New("jwt.secret is required"))
	}
	if c.JWT.TTL <= 0 {
		errs = append(errs, errors.New("jwt.ttl must be positive"))
	}
	if c.WS.MaxMessageBytes <= 0 {
		errs = append(errs, errors.New("ws.max_message_bytes must be positive"))
	}
	if c.WS.RateLimitPerMinute < 0 {
		errs = append(errs, errors.New("ws.rate_limit_per_minute must not be negative"))
	}
	return errors.Join(errs...)
}

// UpdateFrom overwrites non-zero values from other config into receiver.
// Only the fields exposed as command-line flags are considered.
func (c *Config) UpdateFrom(other Config) {
	if other.Addr != "" {
		c.Addr = other.Addr
	}
	if other.ReadHeaderTimeout != 0 {
		c.ReadHeaderTimeout = other.ReadHeaderTimeout
	}
	if other.ShutdownTimeout != 0 {
		c.ShutdownTimeout = other.ShutdownTimeout
	}
	if other.LogLevel != "" {
		c.LogLevel = other.LogLevel
	}
	if other.LogFormat != "" {
		c.LogFormat = other.LogFormat
	}
	if other.Storage.Driver != "" {
		c.Storage.Driver = other.Storage.Driver
	}
	if other.Storage.Path != "" {
		c.Storage.Path = other.Storage.Path
	}
}

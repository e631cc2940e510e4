package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Storage   StorageConfig
	Desktop   DesktopConfig
	Logging   LogConfig
	RateLimit RateLimitConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port string `envconfig:"PORT" default:"8000"`
	Host string `envconfig:"HOST" default:"0.0.0.0"`
	// AllowOrigins lists CORS origins, comma separated in the environment
	AllowOrigins []string `envconfig:"CORS_ORIGINS" default:"*"`
}

// StorageConfig selects the preference store backend.
type StorageConfig struct {
	Driver   string `envconfig:"STORAGE_DRIVER" default:"file"` // "file", "sqlite", "memory"
	Path     string `envconfig:"STORAGE_PATH" default:"/tmp/deskos-storage"`
	Compress bool   `envconfig:"STORAGE_COMPRESS" default:"false"`
}

// DesktopConfig holds desktop shell behaviour settings.
type DesktopConfig struct {
	SeedFile            string        `envconfig:"DESKOS_SEED_FILE"`
	User                string        `envconfig:"DESKOS_USER" default:"guest"`
	SessionTTL          time.Duration `envconfig:"SESSION_TTL" default:"12h"`
	QuickLookPreviewMax int           `envconfig:"QUICKLOOK_PREVIEW_BYTES" default:"4096"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"LOG_DEV" default:"false"`
}

// RateLimitConfig holds rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond int  `envconfig:"RATE_LIMIT_RPS" default:"100"`
	Burst             int  `envconfig:"RATE_LIMIT_BURST" default:"200"`
	Enabled           bool `envconfig:"RATE_LIMIT_ENABLED" default:"true"`
	// GlobalRequestsPerSecond caps all clients together; 0 turns it off
	GlobalRequestsPerSecond int `envconfig:"RATE_LIMIT_GLOBAL_RPS" default:"1000"`
	GlobalBurst             int `envconfig:"RATE_LIMIT_GLOBAL_BURST" default:"2000"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         "8000",
			Host:         "0.0.0.0",
			AllowOrigins: []string{"*"},
		},
		Storage: StorageConfig{
			Driver:   "file",
			Path:     "/tmp/deskos-storage",
			Compress: false,
		},
		Desktop: DesktopConfig{
			User:                "guest",
			SessionTTL:          12 * time.Hour,
			QuickLookPreviewMax: 4096,
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 100,
			Burst:             200,
			Enabled:           true,

			GlobalRequestsPerSecond: 1000,
			GlobalBurst:             2000,
		},
	}
}

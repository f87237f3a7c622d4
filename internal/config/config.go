package config

import (
	"fmt"
	"os"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Stack     StackConfig     `yaml:"stack"`
	Presence  PresenceConfig  `yaml:"presence"`
	Logging   LogConfig       `yaml:"logging"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port string `envconfig:"PORT" default:"8000" yaml:"port"`
	Host string `envconfig:"HOST" default:"0.0.0.0" yaml:"host"`
}

// StackConfig holds buffer engine configuration.
type StackConfig struct {
	Capacity    uint `envconfig:"STACK_CAPACITY" default:"16" yaml:"capacity"`
	MaxCapacity uint `envconfig:"STACK_MAX_CAPACITY" default:"1048576" yaml:"max_capacity"`
	AutoResize  bool `envconfig:"STACK_AUTO_RESIZE" default:"false" yaml:"auto_resize"`
}

// PresenceConfig holds availability gating configuration. When Gated is
// false the device is always available and KeyPath is ignored.
type PresenceConfig struct {
	Gated        bool          `envconfig:"PRESENCE_GATED" default:"false" yaml:"gated"`
	KeyPath      string        `envconfig:"PRESENCE_KEY_PATH" default:"" yaml:"key_path"`
	PollInterval time.Duration `envconfig:"PRESENCE_POLL_INTERVAL" default:"500ms" yaml:"poll_interval"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info" yaml:"level"`
	Development bool   `envconfig:"LOG_DEV" default:"false" yaml:"development"`
}

// RateLimitConfig holds rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond int  `envconfig:"RATE_LIMIT_RPS" default:"100" yaml:"requests_per_second"`
	Burst             int  `envconfig:"RATE_LIMIT_BURST" default:"200" yaml:"burst"`
	Enabled           bool `envconfig:"RATE_LIMIT_ENABLED" default:"true" yaml:"enabled"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

// LoadFile loads configuration from the environment, then overlays the YAML
// file at path on top of it.
func LoadFile(path string) (*Config, error) {
	cfg, err := Load()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return cfg, nil
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
			Port: "8000",
			Host: "0.0.0.0",
		},
		Stack: StackConfig{
			Capacity:    16,
			MaxCapacity: 1 << 20,
			AutoResize:  false,
		},
		Presence: PresenceConfig{
			Gated:        false,
			PollInterval: 500 * time.Millisecond,
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 100,
			Burst:             200,
			Enabled:           true,
		},
	}
}

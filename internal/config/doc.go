// Package config provides 12-factor configuration management for stackd.
//
// Configuration is loaded from environment variables with sensible defaults.
// An optional YAML file can pin a deployment's settings; CLI flags override
// everything for development flexibility.
//
// Configuration Sections:
//   - Server: HTTP listen settings (port, host)
//   - Stack: initial capacity, capacity ceiling, auto-resize policy
//   - Presence: key-file gating and poll interval
//   - Logging: log level and output format
//   - RateLimit: per-IP rate limiting configuration
//
// Precedence: defaults < environment < config file < CLI flags.
//
// Example Usage:
//
//	cfg := config.LoadOrDefault()
//	fmt.Printf("listening on %s:%s\n", cfg.Server.Host, cfg.Server.Port)
package config

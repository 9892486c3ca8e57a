// Package config loads the example server's configuration from the
// environment.
package config

import (
	"fmt"

	"github.com/RobertWHurst/hashroute"
	"github.com/caarlos0/env/v10"
)

// Provider names accepted by HASHROUTE_PROVIDER.
const (
	MemoryProvider    = "memory"
	WebSocketProvider = "websocket"
	NatsProvider      = "nats"
)

// Config holds all configuration for the example server
type Config struct {
	// History configuration
	Root   string `env:"HASHROUTE_ROOT" envDefault:"/"`
	Silent bool   `env:"HASHROUTE_SILENT" envDefault:"false"`

	// Location provider configuration
	Provider string `env:"HASHROUTE_PROVIDER" envDefault:"websocket"`
	Codec    string `env:"HASHROUTE_CODEC" envDefault:"json"`

	// WebSocket configuration
	ListenAddr     string   `env:"HASHROUTE_LISTEN_ADDR" envDefault:":8167"`
	OriginPatterns []string `env:"HASHROUTE_ORIGINS" envSeparator:","`

	// NATS configuration
	NatsURL     string `env:"HASHROUTE_NATS_URL" envDefault:"nats://127.0.0.1:4222"`
	NatsChannel string `env:"HASHROUTE_NATS_CHANNEL" envDefault:"default"`

	// Logging configuration
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	switch c.Provider {
	case MemoryProvider, WebSocketProvider, NatsProvider:
	default:
		return fmt.Errorf("HASHROUTE_PROVIDER must be one of: memory, websocket, nats")
	}

	if c.Codec != "json" && c.Codec != "msgpack" {
		return fmt.Errorf("HASHROUTE_CODEC must be one of: json, msgpack")
	}

	if c.Provider == WebSocketProvider && c.ListenAddr == "" {
		return fmt.Errorf("HASHROUTE_LISTEN_ADDR is required")
	}

	if c.Provider == NatsProvider {
		if c.NatsURL == "" {
			return fmt.Errorf("HASHROUTE_NATS_URL is required")
		}
		if c.NatsChannel == "" {
			return fmt.Errorf("HASHROUTE_NATS_CHANNEL is required")
		}
	}

	if !isValidLogLevel(c.LogLevel) {
		return fmt.Errorf("LOG_LEVEL must be one of: debug, info, warn, error")
	}

	return nil
}

// StartOptions returns the options to start a history with
func (c *Config) StartOptions() hashroute.StartOptions {
	return hashroute.StartOptions{
		Root:   c.Root,
		Silent: c.Silent,
	}
}

// isValidLogLevel checks if the log level is valid
func isValidLogLevel(level string) bool {
	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	return validLevels[level]
}

package config

import (
	"fmt"
	"time"

	pkgconfig "github.com/wasgeurtjeNL/storefront-session/pkg/config"
)

// Config holds all configuration for the session service.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// HTTP server
	HTTPPort int `env:"HTTP_PORT" envDefault:"8080"`

	// Local session store
	StorePath string `env:"SESSION_STORE_PATH" envDefault:"storefront-session.db"`

	// Collaborators
	AuthBaseURL     string `env:"AUTH_BASE_URL" envDefault:"http://localhost:8081"`
	CommerceBaseURL string `env:"COMMERCE_BASE_URL" envDefault:"http://localhost:8082"`
	LoyaltyBaseURL  string `env:"LOYALTY_BASE_URL" envDefault:"http://localhost:8083"`

	// Commerce backend API key pair
	CommerceKey    string `env:"COMMERCE_CONSUMER_KEY"`
	CommerceSecret string `env:"COMMERCE_CONSUMER_SECRET"`

	// Fetch cache
	CacheTTL time.Duration `env:"CACHE_TTL" envDefault:"300s"`

	// CORS
	AllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load session config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validate checks configuration invariants.
func (c *Config) validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.HTTPPort)
	}
	if c.StorePath == "" {
		return fmt.Errorf("session store path must not be empty")
	}
	if c.CacheTTL <= 0 {
		return fmt.Errorf("invalid cache TTL: %s", c.CacheTTL)
	}
	return nil
}

package config

import (
	"fmt"

	"github.com/caarlos0/env/v10"
)

// Load populates cfg from the process environment using `env` struct tags.
// cfg must be a pointer to a struct.
//
// Example:
//
//	type Config struct {
//	    StorePath string        `env:"SESSION_STORE_PATH" envDefault:"storefront-session.db"`
//	    CacheTTL  time.Duration `env:"CACHE_TTL" envDefault:"300s"`
//	}
func Load(cfg any) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	return nil
}

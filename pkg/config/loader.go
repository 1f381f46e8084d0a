package config

import (
	"fmt"

	"github.com/caarlos0/env/v10"
)

// Load fills cfg from the process environment using `env` struct tags.
// Defaults come from `envDefault` tags; missing variables without a
// default are left at their zero value for the caller to validate.
//
// Example:
//
//	type Config struct {
//	    MongoURI string        `env:"MONGO_URI" envDefault:"mongodb://localhost:27017"`
//	    CacheTTL time.Duration `env:"REVIEW_CACHE_TTL" envDefault:"10m"`
//	}
func Load(cfg any) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("parse environment: %w", err)
	}
	return nil
}

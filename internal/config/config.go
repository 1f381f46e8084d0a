package config

import (
	"fmt"
	"time"

	pkgconfig "github.com/aguevara193/reviews-api/pkg/config"
)

// Asset storage modes.
const (
	AssetModeLocal  = "local"
	AssetModeMemory = "memory"
	AssetModeRemote = "remote"
)

// Config holds all configuration for the reviews service.
type Config struct {
	ServiceName string `env:"SERVICE_NAME" envDefault:"reviews-api"`
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// HTTP server
	HTTPPort        int           `env:"HTTP_PORT" envDefault:"8080"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"15s"`

	// Optional API key guarding the review endpoints. Empty disables it.
	APIKey string `env:"API_KEY" envDefault:""`

	// CORS
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`

	// MongoDB
	MongoURI      string `env:"MONGO_URI" envDefault:"mongodb://localhost:27017"`
	MongoDatabase string `env:"MONGO_DATABASE" envDefault:"reviewdb"`

	// Redis
	RedisHost string `env:"REDIS_HOST" envDefault:"localhost"`
	RedisPort int    `env:"REDIS_PORT" envDefault:"6379"`
	RedisPass string `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB   int    `env:"REDIS_DB" envDefault:"0"`

	// Listing cache TTL. Bounds how stale a cached review list can get.
	ReviewCacheTTL time.Duration `env:"REVIEW_CACHE_TTL" envDefault:"10m"`

	// Kafka
	KafkaBrokers []string `env:"KAFKA_BROKERS" envDefault:"localhost:9092" envSeparator:","`

	// Asset storage
	AssetMode        string `env:"ASSET_MODE" envDefault:"local"`
	AssetDir         string `env:"ASSET_DIR" envDefault:"./data/assets"`
	AssetBaseURL     string `env:"ASSET_BASE_URL" envDefault:"http://localhost:8080/assets"`
	MediaUploadURL   string `env:"MEDIA_UPLOAD_URL" envDefault:""`
	StrictMediaTypes bool   `env:"STRICT_MEDIA_TYPES" envDefault:"false"`

	// Tracing
	TracingEnabled  bool    `env:"TRACING_ENABLED" envDefault:"false"`
	TracingEndpoint string  `env:"TRACING_ENDPOINT" envDefault:"localhost:4318"`
	TracingSample   float64 `env:"TRACING_SAMPLE_RATIO" envDefault:"1.0"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load reviews config: %w", err)
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
	if c.ReviewCacheTTL <= 0 {
		return fmt.Errorf("review cache TTL must be positive, got %s", c.ReviewCacheTTL)
	}
	switch c.AssetMode {
	case AssetModeLocal, AssetModeMemory:
	case AssetModeRemote:
		if c.MediaUploadURL == "" {
			return fmt.Errorf("MEDIA_UPLOAD_URL is required when ASSET_MODE=remote")
		}
	default:
		return fmt.Errorf("unknown asset mode %q", c.AssetMode)
	}
	return nil
}

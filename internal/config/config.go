package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

// HTTPConfig describes HTTP server settings.
type HTTPConfig struct {
	Addr           string        `env:"HTTP_ADDR" envDefault:":8080"`
	ReadTimeout    time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"15s"`
	WriteTimeout   time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"30s"`
	IdleTimeout    time.Duration `env:"HTTP_IDLE_TIMEOUT" envDefault:"60s"`
	RequestTimeout time.Duration `env:"HTTP_REQUEST_TIMEOUT" envDefault:"20s"`
	MaxBodyBytes   int64         `env:"MAX_BODY_BYTES" envDefault:"16384"`
}

// RedisConfig holds Redis connection settings. Redis backs the rate limiter.
type RedisConfig struct {
	Enabled  bool   `env:"REDIS_ENABLED" envDefault:"true"`
	Addr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	Password string `env:"REDIS_PASSWORD" envDefault:""`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
}

// SecurityConfig sets security-related toggles.
type SecurityConfig struct {
	AllowedOrigins string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*"`
	EnableHSTS     bool   `env:"ENABLE_HSTS" envDefault:"false"`
}

// MetricsConfig controls the metrics listener.
type MetricsConfig struct {
	Addr string `env:"METRICS_ADDR" envDefault:":9090"`
}

// RateLimitConfig controls request limits per minute.
type RateLimitConfig struct {
	RequestsPerMinute int `env:"RATE_LIMIT_RPM" envDefault:"60"`
}

// CredentialsConfig holds generation defaults and hashing bounds.
type CredentialsConfig struct {
	DefaultLength       int   `env:"PASSWORD_DEFAULT_LENGTH" envDefault:"16"`
	MinLength           int   `env:"PASSWORD_MIN_LENGTH" envDefault:"4"`
	MaxLength           int   `env:"PASSWORD_MAX_LENGTH" envDefault:"128"`
	MaxBatch            int   `env:"PASSWORD_MAX_BATCH" envDefault:"20"`
	DefaultCost         int   `env:"BCRYPT_DEFAULT_COST" envDefault:"12"`
	MinCost             int   `env:"BCRYPT_MIN_COST" envDefault:"4"`
	MaxCost             int   `env:"BCRYPT_MAX_COST" envDefault:"15"`
	MaxConcurrentHashes int64 `env:"BCRYPT_MAX_CONCURRENCY" envDefault:"4"`
	EstimateMaxRunes    int   `env:"STRENGTH_ESTIMATE_MAX_RUNES" envDefault:"128"`
}

// Validate rejects inconsistent bounds. Cost bounds are checked by the hash engine.
func (c CredentialsConfig) Validate() error {
	if c.MinLength < 1 || c.MinLength > c.MaxLength {
		return fmt.Errorf("password length bounds [%d, %d] invalid", c.MinLength, c.MaxLength)
	}
	if c.DefaultLength < c.MinLength || c.DefaultLength > c.MaxLength {
		return fmt.Errorf("default password length %d outside [%d, %d]", c.DefaultLength, c.MinLength, c.MaxLength)
	}
	if c.MaxBatch < 1 {
		return fmt.Errorf("max batch must be positive, got %d", c.MaxBatch)
	}
	if c.MaxConcurrentHashes < 1 {
		return fmt.Errorf("bcrypt concurrency must be positive, got %d", c.MaxConcurrentHashes)
	}
	return nil
}

// ServiceConfig is the service configuration.
type ServiceConfig struct {
	ServiceName string `env:"SERVICE_NAME" envDefault:"primepass"`
	Environment string `env:"ENV" envDefault:"dev"`
	HTTP        HTTPConfig
	Redis       RedisConfig
	Security    SecurityConfig
	Metrics     MetricsConfig
	RateLimit   RateLimitConfig
	Credentials CredentialsConfig
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
}

// LoadService parses environment variables with a prefix (e.g. PRIMEPASS_).
func LoadService(prefix string) (ServiceConfig, error) {
	return Load(env.ToMap(os.Environ()), prefix)
}

// Load parses cfg from environ. Unprefixed variables are shared; a variable
// carrying prefix overrides its unprefixed counterpart.
func Load(environ map[string]string, prefix string) (ServiceConfig, error) {
	merged := make(map[string]string, len(environ))
	for k, v := range environ {
		if _, overridden := environ[prefix+k]; overridden && prefix != "" {
			continue
		}
		merged[strings.TrimPrefix(k, prefix)] = v
	}

	var cfg ServiceConfig
	if err := env.ParseWithOptions(&cfg, env.Options{Environment: merged}); err != nil {
		return cfg, err
	}
	if err := cfg.Credentials.Validate(); err != nil {
		return cfg, fmt.Errorf("credentials config: %w", err)
	}
	return cfg, nil
}

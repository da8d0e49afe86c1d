package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(map[string]string{}, "PRIMEPASS_")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.HTTP.Addr != ":8080" || cfg.HTTP.RequestTimeout != 20*time.Second {
		t.Fatalf("unexpected http defaults %+v", cfg.HTTP)
	}
	c := cfg.Credentials
	if c.DefaultLength != 16 || c.MinLength != 4 || c.MaxLength != 128 {
		t.Fatalf("unexpected length defaults %+v", c)
	}
	if c.DefaultCost != 12 || c.MinCost != 4 || c.MaxCost != 15 {
		t.Fatalf("unexpected cost defaults %+v", c)
	}
	if cfg.ServiceName != "primepass" || cfg.LogLevel != "info" {
		t.Fatalf("unexpected service defaults %+v", cfg)
	}
}

func TestLoadPrefixOverridesShared(t *testing.T) {
	cfg, err := Load(map[string]string{
		"LOG_LEVEL":                         "warn",
		"HTTP_ADDR":                         ":7000",
		"PRIMEPASS_HTTP_ADDR":               ":7100",
		"PRIMEPASS_PASSWORD_DEFAULT_LENGTH": "24",
		"PRIMEPASS_REDIS_ENABLED":           "false",
	}, "PRIMEPASS_")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.HTTP.Addr != ":7100" {
		t.Fatalf("expected prefixed addr, got %q", cfg.HTTP.Addr)
	}
	if cfg.LogLevel != "warn" {
		t.Fatalf("expected shared log level, got %q", cfg.LogLevel)
	}
	if cfg.Redis.Enabled {
		t.Fatal("expected redis to be disabled")
	}
	if cfg.Credentials.DefaultLength != 24 {
		t.Fatalf("expected default length 24, got %d", cfg.Credentials.DefaultLength)
	}
}

func TestLoadRejectsInvalidBounds(t *testing.T) {
	tests := map[string]map[string]string{
		"min_above_max":     {"PASSWORD_MIN_LENGTH": "64", "PASSWORD_MAX_LENGTH": "32", "PASSWORD_DEFAULT_LENGTH": "40"},
		"default_too_long":  {"PASSWORD_DEFAULT_LENGTH": "500"},
		"zero_batch":        {"PASSWORD_MAX_BATCH": "0"},
		"zero_concurrency":  {"BCRYPT_MAX_CONCURRENCY": "0"},
		"non_numeric_value": {"PASSWORD_MAX_BATCH": "many"},
	}
	for name, environ := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := Load(environ, ""); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

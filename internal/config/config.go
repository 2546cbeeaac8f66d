// Package config loads application configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"

	"github.com/tabscan/tabscan/internal/calculator"
	"github.com/tabscan/tabscan/internal/models"
)

// Config holds application configuration loaded from the environment.
type Config struct {
	AppEnv             string
	Port               string
	DBPath             string
	JWTSecret          string
	TokenTTL           time.Duration
	CORSAllowedOrigins []string
	LogLevel           string
	LogFormat          string

	// Settlement engine thresholds. The shipped defaults match the original
	// product; they are env-tunable because the original rationale for the
	// exact values is undocumented.
	WarnVariancePct    float64
	FatalVariancePct   float64
	MinSettlementCents int64
}

// Load reads configuration from environment variables and an optional .env
// file.
func Load() (*Config, error) {
	_ = godotenv.Load()

	k := koanf.New(".")
	if err := k.Load(env.Provider("", ".", func(s string) string { return s }), nil); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	cfg := &Config{
		AppEnv:             valueOrDefault(k.String("APP_ENV"), "development"),
		Port:               valueOrDefault(k.String("PORT"), "8080"),
		DBPath:             valueOrDefault(k.String("DB_PATH"), "./data/tabscan.db"),
		JWTSecret:          k.String("JWT_SECRET"),
		TokenTTL:           parseDuration(k.String("TOKEN_TTL"), "24h"),
		CORSAllowedOrigins: splitAndTrim(k.String("CORS_ALLOWED_ORIGINS")),
		LogLevel:           valueOrDefault(k.String("LOG_LEVEL"), "info"),
		LogFormat:          valueOrDefault(k.String("LOG_FORMAT"), "console"),
		WarnVariancePct:    floatOrDefault(k, "SPLIT_WARN_VARIANCE_PCT", calculator.DefaultWarnVariancePct),
		FatalVariancePct:   floatOrDefault(k, "SPLIT_FATAL_VARIANCE_PCT", calculator.DefaultFatalVariancePct),
		MinSettlementCents: intOrDefault(k, "SPLIT_MIN_SETTLEMENT_CENTS", int64(calculator.DefaultMinSettlement)),
	}

	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}
	if cfg.WarnVariancePct < 0 || cfg.FatalVariancePct < cfg.WarnVariancePct {
		return nil, fmt.Errorf("variance thresholds invalid: warn=%v fatal=%v",
			cfg.WarnVariancePct, cfg.FatalVariancePct)
	}

	return cfg, nil
}

// HTTPAddr returns the address the HTTP server should bind to.
func (c *Config) HTTPAddr() string {
	port := strings.TrimSpace(c.Port)
	if port == "" {
		port = "8080"
	}
	if strings.HasPrefix(port, ":") {
		return port
	}
	return ":" + port
}

// SplitOptions converts the configured thresholds into engine options.
func (c *Config) SplitOptions() calculator.Options {
	return calculator.Options{
		WarnVariancePct:  c.WarnVariancePct,
		FatalVariancePct: c.FatalVariancePct,
		MinSettlement:    models.Cents(c.MinSettlementCents),
	}
}

func valueOrDefault(value, fallback string) string {
	if strings.TrimSpace(value) != "" {
		return value
	}
	return fallback
}

func splitAndTrim(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func parseDuration(value, fallback string) time.Duration {
	base := strings.TrimSpace(value)
	if base == "" {
		base = fallback
	}
	d, err := time.ParseDuration(base)
	if err != nil {
		d, _ = time.ParseDuration(fallback)
	}
	return d
}

func floatOrDefault(k *koanf.Koanf, key string, fallback float64) float64 {
	if strings.TrimSpace(k.String(key)) == "" {
		return fallback
	}
	return k.Float64(key)
}

func intOrDefault(k *koanf.Koanf, key string, fallback int64) int64 {
	if strings.TrimSpace(k.String(key)) == "" {
		return fallback
	}
	return k.Int64(key)
}

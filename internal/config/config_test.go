package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_RequiresJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	for _, key := range []string{
		"APP_ENV", "PORT", "DB_PATH", "TOKEN_TTL", "LOG_LEVEL", "LOG_FORMAT",
		"SPLIT_WARN_VARIANCE_PCT", "SPLIT_FATAL_VARIANCE_PCT", "SPLIT_MIN_SETTLEMENT_CENTS",
	} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.AppEnv)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "./data/tabscan.db", cfg.DBPath)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "console", cfg.LogFormat)
	assert.Equal(t, 1.0, cfg.WarnVariancePct)
	assert.Equal(t, 10.0, cfg.FatalVariancePct)
	assert.Equal(t, int64(1), cfg.MinSettlementCents)
	assert.Equal(t, "24h0m0s", cfg.TokenTTL.String())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("PORT", "9000")
	t.Setenv("TOKEN_TTL", "1h")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example.com, https://b.example.com")
	t.Setenv("SPLIT_WARN_VARIANCE_PCT", "2.5")
	t.Setenv("SPLIT_FATAL_VARIANCE_PCT", "20")
	t.Setenv("SPLIT_MIN_SETTLEMENT_CENTS", "50")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, "1h0m0s", cfg.TokenTTL.String())
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.CORSAllowedOrigins)

	opts := cfg.SplitOptions()
	assert.Equal(t, 2.5, opts.WarnVariancePct)
	assert.Equal(t, 20.0, opts.FatalVariancePct)
	assert.Equal(t, int64(50), int64(opts.MinSettlement))
}

func TestLoad_RejectsInvertedThresholds(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("SPLIT_WARN_VARIANCE_PCT", "15")
	t.Setenv("SPLIT_FATAL_VARIANCE_PCT", "5")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "thresholds")
}

func TestHTTPAddr(t *testing.T) {
	tests := []struct {
		port string
		want string
	}{
		{"8080", ":8080"},
		{":9090", ":9090"},
		{"", ":8080"},
	}
	for _, tt := range tests {
		cfg := &Config{Port: tt.port}
		assert.Equal(t, tt.want, cfg.HTTPAddr())
	}
}

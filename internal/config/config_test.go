package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docrecon/internal/config"
	"docrecon/internal/domain"
	"docrecon/internal/reconcile"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("PORT", "")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Port)
	assert.Equal(t, 0.01, cfg.Comparison.QuantityTolerance)
	assert.Equal(t, 0.01, cfg.Comparison.PriceTolerance)
	assert.Equal(t, "description", cfg.Comparison.KeyStrategy)
	assert.Equal(t, 4, cfg.Comparison.BatchConcurrency)
	assert.Equal(t, 24*time.Hour, cfg.Comparison.CacheTTL)
	assert.Empty(t, cfg.Redis.Addr)
	assert.False(t, cfg.Reports.ArchiveEnabled)
	assert.Equal(t, "noop", cfg.Email.Provider)
	assert.Empty(t, cfg.Email.AlertRecipients)
	assert.Equal(t, []string{"http://localhost:3000", "http://127.0.0.1:3000"}, cfg.CORS.AllowedOrigins)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("DOCRECON_COMPARISON_QUANTITY_TOLERANCE", "0.5")
	t.Setenv("DOCRECON_COMPARISON_PRICE_TOLERANCE", "2")
	t.Setenv("DOCRECON_COMPARISON_KEY_STRATEGY", "sku")
	t.Setenv("DOCRECON_EMAIL_ALERT_RECIPIENTS", "ap@example.com, buyer@example.com ,")
	t.Setenv("DOCRECON_REDIS_ADDR", "localhost:6379")
	t.Setenv("DOCRECON_REPORTS_ARCHIVE_ENABLED", "true")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, reconcile.Tolerances{QuantityPct: 0.5, PricePct: 2}, cfg.Comparison.Tolerances())
	assert.Equal(t, "sku", cfg.Comparison.KeyStrategy)
	assert.Equal(t, []string{"ap@example.com", "buyer@example.com"}, cfg.Email.AlertRecipients)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.True(t, cfg.Reports.ArchiveEnabled)
}

func TestLoad_PlatformPort(t *testing.T) {
	t.Setenv("PORT", "9090")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Server.Port)
}

func TestLoad_RejectsInvalidComparisonSettings(t *testing.T) {
	t.Run("negative tolerance", func(t *testing.T) {
		t.Setenv("DOCRECON_COMPARISON_PRICE_TOLERANCE", "-1")
		_, err := config.Load()
		assert.ErrorIs(t, err, domain.ErrInvalidTolerance)
	})

	t.Run("unknown key strategy", func(t *testing.T) {
		t.Setenv("DOCRECON_COMPARISON_KEY_STRATEGY", "barcode")
		_, err := config.Load()
		assert.ErrorIs(t, err, domain.ErrInvalidKeyStrategy)
	})
}

func TestDBConfig_DSN(t *testing.T) {
	db := config.DBConfig{Host: "db", Port: 5433, User: "u", Password: "p", Name: "n", SSLMode: "require"}
	assert.Equal(t, "postgres://u:p@db:5433/n?sslmode=require", db.DSN())
}

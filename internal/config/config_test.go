package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"APP_ENV", "APP_PORT", "PORT", "SEED_ON_STARTUP", "SEED_ORDERS", "SEED_BATCH_SIZE", "CORS_ORIGINS"} {
		t.Setenv(key, "")
	}

	cfg := Load()
	assert.Equal(t, "development", cfg.AppEnv)
	assert.Equal(t, "8080", cfg.Port)
	assert.True(t, cfg.SeedOnStartup)
	assert.Equal(t, 500, cfg.SeedOrders)
	assert.Equal(t, 100, cfg.SeedBatchSize)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.False(t, cfg.Production())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("APP_PORT", "")
	t.Setenv("PORT", "9000")
	t.Setenv("SEED_ON_STARTUP", "false")
	t.Setenv("SEED_ORDERS", "2000")
	t.Setenv("SEED_BATCH_SIZE", "not-a-number")
	t.Setenv("CORS_ORIGINS", "http://localhost:4200, https://reports.example.com,")

	cfg := Load()
	assert.True(t, cfg.Production())
	assert.Equal(t, "9000", cfg.Port)
	assert.False(t, cfg.SeedOnStartup)
	assert.Equal(t, 2000, cfg.SeedOrders)
	assert.Equal(t, 100, cfg.SeedBatchSize)
	assert.Equal(t, []string{"http://localhost:4200", "https://reports.example.com"}, cfg.CORSOrigins)
}

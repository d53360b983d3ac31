package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLoad tests the Load function which reads from environment variables.
func TestLoad(t *testing.T) {
	// Clear existing env vars that might interfere
	os.Clearenv()

	t.Run("defaults", func(t *testing.T) {
		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "8080", cfg.Port)
		assert.Equal(t, "development", cfg.Environment)
		assert.Equal(t, "info", cfg.LoggingConfig.Level)
		assert.Equal(t, "json", cfg.LoggingConfig.Format)
		assert.Equal(t, "embedded", cfg.DatasetConfig.Source)
		assert.Equal(t, "csv/airports.csv", cfg.DatasetConfig.Path)
		assert.Equal(t, 4, cfg.DatasetConfig.NearbyLimit)
		assert.Equal(t, 2, cfg.DatasetConfig.DistanceDecimals)
		assert.Equal(t, "postgres", cfg.PostgresConfig.Host)
		assert.Equal(t, "5432", cfg.PostgresConfig.Port)
		assert.Equal(t, "airports", cfg.PostgresConfig.User)
		assert.Equal(t, "verify-full", cfg.PostgresConfig.SSLMode)
		assert.False(t, cfg.RedisConfig.Enabled)
		assert.Equal(t, "redis", cfg.RedisConfig.Host)
		assert.Equal(t, "6379", cfg.RedisConfig.Port)
		assert.Equal(t, 5*time.Minute, cfg.RedisConfig.CacheTTL)
	})

	t.Run("environment variable override", func(t *testing.T) {
		t.Setenv("PORT", "9090")
		t.Setenv("ENVIRONMENT", "production")
		t.Setenv("DATASET_SOURCE", "File")
		t.Setenv("DATASET_PATH", "/data/airports.csv")
		t.Setenv("NEARBY_LIMIT", "10")
		t.Setenv("DISTANCE_DECIMALS", "3")
		t.Setenv("CACHE_ENABLED", "true")
		t.Setenv("CACHE_TTL", "30s")
		t.Setenv("DB_HOST", "db.example.com")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "9090", cfg.Port)
		assert.Equal(t, "production", cfg.Environment)
		assert.Equal(t, "file", cfg.DatasetConfig.Source)
		assert.Equal(t, "/data/airports.csv", cfg.DatasetConfig.Path)
		assert.Equal(t, 10, cfg.DatasetConfig.NearbyLimit)
		assert.Equal(t, 3, cfg.DatasetConfig.DistanceDecimals)
		assert.True(t, cfg.RedisConfig.Enabled)
		assert.Equal(t, 30*time.Second, cfg.RedisConfig.CacheTTL)
		assert.Equal(t, "db.example.com", cfg.PostgresConfig.Host)
	})

	t.Run("invalid numeric values fall back", func(t *testing.T) {
		t.Setenv("NEARBY_LIMIT", "0")
		t.Setenv("DISTANCE_DECIMALS", "-1")
		t.Setenv("CACHE_TTL", "not-a-duration")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, 4, cfg.DatasetConfig.NearbyLimit)
		assert.Equal(t, 2, cfg.DatasetConfig.DistanceDecimals)
		assert.Equal(t, 5*time.Minute, cfg.RedisConfig.CacheTTL)
	})
}

func TestTestConfig(t *testing.T) {
	cfg := TestConfig()
	assert.Equal(t, "test", cfg.Environment)
	assert.Equal(t, "embedded", cfg.DatasetConfig.Source)
	assert.False(t, cfg.RedisConfig.Enabled)
}

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "reviews-api", cfg.ServiceName)
	assert.Equal(t, 8080, cfg.HTTPPort)
	assert.Equal(t, 10*time.Minute, cfg.ReviewCacheTTL)
	assert.Equal(t, AssetModeLocal, cfg.AssetMode)
	assert.Equal(t, []string{"localhost:9092"}, cfg.KafkaBrokers)
	assert.False(t, cfg.TracingEnabled)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("REVIEW_CACHE_TTL", "30s")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")
	t.Setenv("ASSET_MODE", "memory")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.HTTPPort)
	assert.Equal(t, 30*time.Second, cfg.ReviewCacheTTL)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, AssetModeMemory, cfg.AssetMode)
}

func TestLoad_InvalidPort(t *testing.T) {
	t.Setenv("HTTP_PORT", "70000")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_RemoteModeRequiresUploadURL(t *testing.T) {
	t.Setenv("ASSET_MODE", "remote")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MEDIA_UPLOAD_URL")

	t.Setenv("MEDIA_UPLOAD_URL", "http://media:8085/upload")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, AssetModeRemote, cfg.AssetMode)
}

func TestLoad_UnknownAssetMode(t *testing.T) {
	t.Setenv("ASSET_MODE", "s3")

	_, err := Load()
	assert.Error(t, err)
}

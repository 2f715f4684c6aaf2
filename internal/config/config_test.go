package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testMapboxToken = "pk.test-token"

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DefaultFeedURL, cfg.FeedURL)
	assert.Equal(t, 15*time.Second, cfg.FeedTimeout)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, 37.09, cfg.MapCenterLat)
	assert.Equal(t, -95.71, cfg.MapCenterLon)
	assert.Equal(t, 5, cfg.MapZoom)
	assert.False(t, cfg.MapboxEnabled)
	assert.Empty(t, cfg.MapboxToken)
	assert.Equal(t, 5*time.Second, cfg.MapboxTimeout)
	assert.Equal(t, 1000, cfg.MapboxCacheSize)
	assert.Equal(t, 20.0, cfg.MapboxRateLimit)
	assert.Empty(t, cfg.KafkaBrokers)
	assert.False(t, cfg.KafkaEnabled())
	assert.Equal(t, "earthquake-markers", cfg.KafkaTopic)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("FEED_URL", "http://localhost:9999/feed.geojson")
	t.Setenv("FEED_TIMEOUT", "3s")
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")
	t.Setenv("MAP_CENTER_LAT", "35.5")
	t.Setenv("MAP_CENTER_LON", "139.7")
	t.Setenv("MAP_ZOOM", "3")
	t.Setenv("MAPBOX_TOKEN", testMapboxToken)
	t.Setenv("MAPBOX_TIMEOUT", "10s")
	t.Setenv("MAPBOX_CACHE_SIZE", "500")
	t.Setenv("MAPBOX_RATE_LIMIT", "5")
	t.Setenv("KAFKA_BROKERS", "broker1:9092,broker2:9092")
	t.Setenv("KAFKA_TOPIC", "quakes")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:9999/feed.geojson", cfg.FeedURL)
	assert.Equal(t, 3*time.Second, cfg.FeedTimeout)
	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, 35.5, cfg.MapCenterLat)
	assert.Equal(t, 139.7, cfg.MapCenterLon)
	assert.Equal(t, 3, cfg.MapZoom)
	assert.True(t, cfg.MapboxEnabled)
	assert.Equal(t, testMapboxToken, cfg.MapboxToken)
	assert.Equal(t, 10*time.Second, cfg.MapboxTimeout)
	assert.Equal(t, 500, cfg.MapboxCacheSize)
	assert.Equal(t, 5.0, cfg.MapboxRateLimit)
	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.KafkaBrokers)
	assert.True(t, cfg.KafkaEnabled())
	assert.Equal(t, "quakes", cfg.KafkaTopic)
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{"SHUTDOWN_TIMEOUT", "not-a-duration"},
		{"FEED_TIMEOUT", "bad"},
		{"FEED_TIMEOUT", "-1s"},
		{"MAPBOX_TIMEOUT", "bad"},
		{"MAP_CENTER_LAT", "91"},
		{"MAP_CENTER_LON", "east"},
		{"MAP_ZOOM", "19"},
		{"MAPBOX_RATE_LIMIT", "0"},
	}
	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.key)
		})
	}
}

func TestLoad_MapboxEnabledWithoutToken(t *testing.T) {
	t.Setenv("MAPBOX_ENABLED", "true")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MAPBOX_TOKEN")
}

func TestLoad_MapboxExplicitlyDisabled(t *testing.T) {
	t.Setenv("MAPBOX_TOKEN", testMapboxToken)
	t.Setenv("MAPBOX_ENABLED", "false")
	cfg, err := Load()
	require.NoError(t, err)
	assert.False(t, cfg.MapboxEnabled)
}

func TestLoad_InvalidCacheSizeFallsBack(t *testing.T) {
	t.Setenv("MAPBOX_CACHE_SIZE", "-4")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 1000, cfg.MapboxCacheSize)
}

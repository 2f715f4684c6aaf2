package config

import (
	"errors"
	"os"
	"strconv"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// DefaultFeedURL is the USGS "all earthquakes, past 30 days" summary feed.
const DefaultFeedURL = "https://earthquake.usgs.gov/earthquakes/feed/v1.0/summary/all_month.geojson"

// Config holds all service settings, populated from environment variables.
type Config struct {
	FeedURL         string
	FeedTimeout     time.Duration
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Initial map view.
	MapCenterLat float64
	MapCenterLon float64
	MapZoom      int

	// Mapbox base-layer tiles, proxied so the token never reaches the browser.
	MapboxToken     string
	MapboxEnabled   bool
	MapboxTimeout   time.Duration
	MapboxCacheSize int
	MapboxRateLimit float64

	// Optional marker publishing. Empty brokers disables it.
	KafkaBrokers []string
	KafkaTopic   string
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	feedTimeout, err := parsePositiveDuration("FEED_TIMEOUT", "15s")
	if err != nil {
		return nil, err
	}

	mapboxTimeout, err := parsePositiveDuration("MAPBOX_TIMEOUT", "5s")
	if err != nil {
		return nil, err
	}

	lat, err := parseFloat("MAP_CENTER_LAT", 37.09)
	if err != nil || lat < -90 || lat > 90 {
		return nil, errors.New("invalid MAP_CENTER_LAT")
	}
	lon, err := parseFloat("MAP_CENTER_LON", -95.71)
	if err != nil || lon < -180 || lon > 180 {
		return nil, errors.New("invalid MAP_CENTER_LON")
	}
	zoom, err := strconv.Atoi(sharedcfg.EnvOrDefault("MAP_ZOOM", "5"))
	if err != nil || zoom < 0 || zoom > 18 {
		return nil, errors.New("invalid MAP_ZOOM")
	}

	rateLimit, err := parseFloat("MAPBOX_RATE_LIMIT", 20)
	if err != nil || rateLimit <= 0 {
		return nil, errors.New("invalid MAPBOX_RATE_LIMIT")
	}

	mapboxToken := os.Getenv("MAPBOX_TOKEN")
	mapboxEnabled := mapboxToken != ""
	if v := os.Getenv("MAPBOX_ENABLED"); v != "" {
		mapboxEnabled = v == "true"
	}

	var brokers []string
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		brokers = sharedcfg.ParseBrokers(v)
	}

	cfg := &Config{
		FeedURL:         sharedcfg.EnvOrDefault("FEED_URL", DefaultFeedURL),
		FeedTimeout:     feedTimeout,
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		MapCenterLat: lat,
		MapCenterLon: lon,
		MapZoom:      zoom,

		MapboxToken:     mapboxToken,
		MapboxEnabled:   mapboxEnabled,
		MapboxTimeout:   mapboxTimeout,
		MapboxCacheSize: parseMapboxCacheSize(),
		MapboxRateLimit: rateLimit,

		KafkaBrokers: brokers,
		KafkaTopic:   sharedcfg.EnvOrDefault("KAFKA_TOPIC", "earthquake-markers"),
	}

	if cfg.FeedURL == "" {
		return nil, errors.New("FEED_URL is required")
	}
	if cfg.MapboxEnabled && cfg.MapboxToken == "" {
		return nil, errors.New("MAPBOX_ENABLED is true but MAPBOX_TOKEN is not set")
	}
	if len(cfg.KafkaBrokers) > 0 && cfg.KafkaTopic == "" {
		return nil, errors.New("KAFKA_TOPIC is required when KAFKA_BROKERS is set")
	}

	return cfg, nil
}

// KafkaEnabled reports whether markers should be published.
func (c *Config) KafkaEnabled() bool {
	return len(c.KafkaBrokers) > 0
}

func parsePositiveDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(sharedcfg.EnvOrDefault(key, def))
	if err != nil || d <= 0 {
		return 0, errors.New("invalid " + key)
	}
	return d, nil
}

func parseFloat(key string, def float64) (float64, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	return strconv.ParseFloat(s, 64)
}

func parseMapboxCacheSize() int {
	if s := os.Getenv("MAPBOX_CACHE_SIZE"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return 1000
}

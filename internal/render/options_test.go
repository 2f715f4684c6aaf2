package render

import (
	"testing"

	"github.com/couchcryptid/quake-map/internal/config"
	"github.com/couchcryptid/quake-map/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestOptionsFromConfig(t *testing.T) {
	cfg := &config.Config{MapCenterLat: 37.09, MapCenterLon: -95.71, MapZoom: 5}

	opts := OptionsFromConfig(cfg)
	assert.Equal(t, domain.LatLng{Lat: 37.09, Lon: -95.71}, opts.Center)
	assert.Equal(t, 5, opts.Zoom)
	assert.Equal(t, BaseLayers(false), opts.BaseLayers)

	cfg.MapboxEnabled = true
	assert.Equal(t, BaseLayers(true), OptionsFromConfig(cfg).BaseLayers)
}

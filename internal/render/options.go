package render

import (
	"github.com/couchcryptid/quake-map/internal/config"
	"github.com/couchcryptid/quake-map/internal/domain"
)

// OptionsFromConfig builds scene options from the map settings. Proxied
// Mapbox base layers are only used when the tile proxy is enabled.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		Center:     domain.LatLng{Lat: cfg.MapCenterLat, Lon: cfg.MapCenterLon},
		Zoom:       cfg.MapZoom,
		BaseLayers: BaseLayers(cfg.MapboxEnabled),
	}
}

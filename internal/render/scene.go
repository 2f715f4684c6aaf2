// Package render turns marker descriptors into a map scene and encodes that
// scene as a Leaflet page, GeoJSON, or a legend.
package render

import (
	"math"
	"time"

	"github.com/couchcryptid/quake-map/internal/domain"
)

const (
	// DepthOverlayRadius is the uniform radius of the depth-only overlay.
	DepthOverlayRadius = 20000.0

	// MagnitudeOverlayColor is the uniform fill of the magnitude-only overlay.
	MagnitudeOverlayColor = "purple"

	// Tile style keys understood by the base-layer tile proxy.
	StyleStreets = "streets"
	StyleDark    = "dark"
)

// BaseLayer is one alternate map background.
type BaseLayer struct {
	Name        string `json:"name"`
	URL         string `json:"url"`
	Attribution string `json:"attribution"`
	TileSize    int    `json:"tile_size"`
	ZoomOffset  int    `json:"zoom_offset"`
	MaxZoom     int    `json:"max_zoom"`
	Default     bool   `json:"default"`
}

// Overlay is a togglable marker group. Zero Radius or empty FillColor means
// the marker's own value is used.
type Overlay struct {
	Name      string  `json:"name"`
	Visible   bool    `json:"visible"`
	Radius    float64 `json:"radius,omitempty"`
	FillColor string  `json:"fill_color,omitempty"`
}

// LegendEntry is a depth band as drawn in the legend. Nil bounds are unbounded.
type LegendEntry struct {
	Lower *float64 `json:"lower"`
	Upper *float64 `json:"upper"`
	Color string   `json:"color"`
	Label string   `json:"label"`
}

// Options controls the initial view and the available base layers.
type Options struct {
	Center     domain.LatLng
	Zoom       int
	BaseLayers []BaseLayer
}

// Scene is everything the map page needs, built once per fetch.
type Scene struct {
	GeneratedAt time.Time       `json:"generated_at"`
	Center      domain.LatLng   `json:"center"`
	Zoom        int             `json:"zoom"`
	BaseLayers  []BaseLayer     `json:"base_layers"`
	Overlays    []Overlay       `json:"overlays"`
	Markers     []domain.Marker `json:"markers"`
	Legend      []LegendEntry   `json:"legend"`
	Dropped     int             `json:"dropped"`

	// Features is the fetched collection, kept for the raw feature endpoint.
	Features []domain.Feature `json:"-"`
}

// BaseLayers returns the street and dark backgrounds. When proxied is true the
// tiles come from this service's Mapbox proxy; otherwise from public tile
// servers that need no credential.
func BaseLayers(proxied bool) []BaseLayer {
	if proxied {
		return []BaseLayer{
			{
				Name:        "Street Map",
				URL:         "/tiles/" + StyleStreets + "/{z}/{x}/{y}",
				Attribution: `© <a href="https://www.mapbox.com/about/maps/">Mapbox</a> © <a href="http://www.openstreetmap.org/copyright">OpenStreetMap</a> <strong><a href="https://www.mapbox.com/map-feedback/" target="_blank">Improve this map</a></strong>`,
				TileSize:    512,
				ZoomOffset:  -1,
				MaxZoom:     18,
				Default:     true,
			},
			{
				Name:        "Dark Map",
				URL:         "/tiles/" + StyleDark + "/{z}/{x}/{y}",
				Attribution: `Map data &copy; <a href="https://www.openstreetmap.org/">OpenStreetMap</a> contributors, <a href="https://creativecommons.org/licenses/by-sa/2.0/">CC-BY-SA</a>, Imagery © <a href="https://www.mapbox.com/">Mapbox</a>`,
				TileSize:    512,
				ZoomOffset:  -1,
				MaxZoom:     18,
			},
		}
	}
	return []BaseLayer{
		{
			Name:        "Street Map",
			URL:         "https://tile.openstreetmap.org/{z}/{x}/{y}.png",
			Attribution: `&copy; <a href="https://www.openstreetmap.org/copyright">OpenStreetMap</a> contributors`,
			TileSize:    256,
			MaxZoom:     18,
			Default:     true,
		},
		{
			Name:        "Dark Map",
			URL:         "https://{s}.basemaps.cartocdn.com/dark_all/{z}/{x}/{y}.png",
			Attribution: `&copy; <a href="https://www.openstreetmap.org/copyright">OpenStreetMap</a> contributors &copy; <a href="https://carto.com/attributions">CARTO</a>`,
			TileSize:    256,
			MaxZoom:     18,
		},
	}
}

// DefaultOverlays returns the combined, depth-only, and magnitude-only marker
// groups. Only the combined group is shown on load.
func DefaultOverlays() []Overlay {
	return []Overlay{
		{Name: "Earthquakes", Visible: true},
		{Name: "Depth", Radius: DepthOverlayRadius},
		{Name: "Magnitude", FillColor: MagnitudeOverlayColor},
	}
}

// NewScene assembles a scene from already-transformed markers. Every slice in
// the result is non-nil so an empty fetch still renders empty layer groups.
func NewScene(markers []domain.Marker, features []domain.Feature, dropped int, opts Options) *Scene {
	if markers == nil {
		markers = []domain.Marker{}
	}
	if features == nil {
		features = []domain.Feature{}
	}
	baseLayers := opts.BaseLayers
	if len(baseLayers) == 0 {
		baseLayers = BaseLayers(false)
	}

	return &Scene{
		GeneratedAt: clock.Now().UTC(),
		Center:      opts.Center,
		Zoom:        opts.Zoom,
		BaseLayers:  baseLayers,
		Overlays:    DefaultOverlays(),
		Markers:     markers,
		Legend:      NewLegend(),
		Dropped:     dropped,
		Features:    features,
	}
}

// NewLegend converts the domain depth bands for display, top to bottom.
func NewLegend() []LegendEntry {
	bands := domain.Legend()
	out := make([]LegendEntry, 0, len(bands))
	for _, b := range bands {
		out = append(out, LegendEntry{
			Lower: finite(b.Lower),
			Upper: finite(b.Upper),
			Color: b.Color,
			Label: b.Label,
		})
	}
	return out
}

func finite(v float64) *float64 {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return nil
	}
	return &v
}

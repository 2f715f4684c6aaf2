package domain

import (
	"encoding/json"
	"time"
)

// Feature is one earthquake event as delivered by the feed.
type Feature struct {
	ID    string    `json:"id"`
	Place string    `json:"place"`
	Time  time.Time `json:"time"`
	URL   string    `json:"url,omitempty"`

	// Magnitude is nil when the feed reports "mag": null.
	Magnitude *float64 `json:"mag"`

	// Coordinates are [lon, lat, depth_km] in feed order. Nil when the
	// geometry is missing or could not be decoded.
	Coordinates []float64 `json:"coordinates"`

	Raw json.RawMessage `json:"-"`

	// DecodeErr is set when the feed object could not be decoded. Only ID and
	// Raw are populated in that case.
	DecodeErr error `json:"-"`
}

// LatLng is a WGS-84 position in Leaflet order.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Marker is the render-ready summary of a Feature.
type Marker struct {
	FeatureID   string  `json:"feature_id"`
	Position    LatLng  `json:"position"`
	Radius      float64 `json:"radius"`
	FillColor   string  `json:"fill_color"`
	FillOpacity float64 `json:"fill_opacity"`
	Stroke      bool    `json:"stroke"`
	StrokeColor string  `json:"stroke_color"`
	PopupText   string  `json:"popup"`
	Depth       float64 `json:"depth"`
	Magnitude   float64 `json:"magnitude"`
}

// ColorBand classifies depths in [Lower, Upper) to a fill color.
type ColorBand struct {
	Lower float64
	Upper float64
	Color string
	Label string
}

// DropReason records why a feature produced no marker.
type DropReason struct {
	Index     int
	FeatureID string
	Err       error
}

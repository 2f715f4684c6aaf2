package render

import (
	"encoding/json"
	"fmt"

	"github.com/couchcryptid/quake-map/internal/domain"
	geom "github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"
)

// MarkersGeoJSON encodes the scene's markers as a FeatureCollection of points
// with the marker styling in each feature's properties.
func MarkersGeoJSON(scene *Scene) ([]byte, error) {
	fc := &geojson.FeatureCollection{
		Features: make([]*geojson.Feature, 0, len(scene.Markers)),
	}
	for _, m := range scene.Markers {
		fc.Features = append(fc.Features, markerFeature(m))
	}

	data, err := json.Marshal(fc)
	if err != nil {
		return nil, fmt.Errorf("encode markers: %w", err)
	}
	return data, nil
}

func markerFeature(m domain.Marker) *geojson.Feature {
	return &geojson.Feature{
		ID:       m.FeatureID,
		Geometry: geom.NewPointFlat(geom.XY, []float64{m.Position.Lon, m.Position.Lat}),
		Properties: map[string]any{
			"radius":       m.Radius,
			"fill_color":   m.FillColor,
			"fill_opacity": m.FillOpacity,
			"stroke":       m.Stroke,
			"stroke_color": m.StrokeColor,
			"popup":        m.PopupText,
			"depth":        m.Depth,
			"depth_band":   domain.BandLabel(m.Depth),
			"mag":          m.Magnitude,
		},
	}
}

type rawCollection struct {
	Type     string            `json:"type"`
	Features []json.RawMessage `json:"features"`
}

// FeaturesGeoJSON re-emits the fetched features exactly as the feed sent them.
func FeaturesGeoJSON(scene *Scene) ([]byte, error) {
	out := rawCollection{
		Type:     "FeatureCollection",
		Features: make([]json.RawMessage, 0, len(scene.Features)),
	}
	for _, f := range scene.Features {
		if len(f.Raw) == 0 {
			continue
		}
		out.Features = append(out.Features, f.Raw)
	}

	data, err := json.Marshal(out)
	if err != nil {
		return nil, fmt.Errorf("encode features: %w", err)
	}
	return data, nil
}

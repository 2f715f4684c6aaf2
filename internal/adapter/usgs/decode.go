package usgs

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/couchcryptid/quake-map/internal/domain"
	geom "github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"
)

// USGS GeoJSON summary feed types. Features stay raw until decoded one at a
// time so a single malformed feature cannot fail the whole collection.

type collection struct {
	Type     string            `json:"type"`
	Features []json.RawMessage `json:"features"`
}

type feature struct {
	ID         string            `json:"id"`
	Properties properties        `json:"properties"`
	Geometry   *geojson.Geometry `json:"geometry"`
}

type properties struct {
	Place string   `json:"place"`
	Time  *int64   `json:"time"`
	Mag   *float64 `json:"mag"`
	URL   string   `json:"url"`
}

// Decode reads a feature collection. Only an unreadable envelope is an error;
// features that do not decode come back with DecodeErr set.
func Decode(r io.Reader) ([]domain.Feature, error) {
	var fc collection
	if err := json.NewDecoder(r).Decode(&fc); err != nil {
		return nil, fmt.Errorf("decode feature collection: %w", err)
	}
	if fc.Type != "" && fc.Type != "FeatureCollection" {
		return nil, fmt.Errorf("decode feature collection: unexpected type %q", fc.Type)
	}

	features := make([]domain.Feature, 0, len(fc.Features))
	for _, raw := range fc.Features {
		features = append(features, decodeFeature(raw))
	}
	return features, nil
}

func decodeFeature(raw json.RawMessage) domain.Feature {
	var f feature
	if err := json.Unmarshal(raw, &f); err != nil {
		var id struct {
			ID string `json:"id"`
		}
		_ = json.Unmarshal(raw, &id)
		return domain.Feature{ID: id.ID, Raw: raw, DecodeErr: err}
	}

	out := domain.Feature{
		ID:          f.ID,
		Place:       f.Properties.Place,
		URL:         f.Properties.URL,
		Magnitude:   f.Properties.Mag,
		Coordinates: pointCoords(f.Geometry),
		Raw:         raw,
	}
	if f.Properties.Time != nil {
		out.Time = time.UnixMilli(*f.Properties.Time).UTC()
	}
	return out
}

// pointCoords returns [lon, lat, depth] for a 3D point geometry, or nil.
func pointCoords(g *geojson.Geometry) []float64 {
	if g == nil || g.Coordinates == nil {
		return nil
	}
	t, err := g.Decode()
	if err != nil {
		return nil
	}
	p, ok := t.(*geom.Point)
	if !ok || p.Layout().Stride() < 3 {
		return nil
	}
	c := p.Coords()
	return []float64{c.X(), c.Y(), c[2]}
}

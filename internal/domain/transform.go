package domain

import (
	"errors"
	"fmt"
	"html"
	"math"
	"regexp"
	"time"
)

const (
	// RadiusScale converts one magnitude unit to a circle radius in metres.
	RadiusScale = 40000.0

	// MinRadius is the radius given to negative or NaN magnitudes.
	MinRadius = 1000.0

	// MaxRadius replaces the radius of a +Inf magnitude. Finite magnitudes are
	// never capped.
	MaxRadius = 1e7

	// DeepFallbackColor is used for depths at or beyond the last band.
	DeepFallbackColor = "#a50026"

	defaultFillOpacity = 0.75
	defaultStrokeColor = "white"

	// PopupTimeLayout renders event times in the popup.
	PopupTimeLayout = time.RFC1123
)

var (
	// ErrMissingCoordinates means the feature has no usable [lon, lat, depth].
	ErrMissingCoordinates = errors.New("feature has no coordinates")

	// ErrMissingMagnitude means the feature carries "mag": null.
	ErrMissingMagnitude = errors.New("feature has no magnitude")

	// ErrMalformedFeature means the feed object did not decode as a feature.
	ErrMalformedFeature = errors.New("malformed feature")

	popupRe = regexp.MustCompile(`^<h3>(.*)</h3><hr><p>(.*)</p>$`)
)

// depthBands is ordered by Upper; MarkerColor relies on that ordering.
var depthBands = []ColorBand{
	{Lower: math.Inf(-1), Upper: 10, Color: "#a3f600", Label: "-10-10"},
	{Lower: 10, Upper: 30, Color: "#dcf400", Label: "10-30"},
	{Lower: 30, Upper: 50, Color: "#f7db11", Label: "30-50"},
	{Lower: 50, Upper: 70, Color: "#fdb72a", Label: "50-70"},
	{Lower: 70, Upper: 90, Color: "#fca35d", Label: "70-90"},
	{Lower: 90, Upper: 110, Color: "#ff5f65", Label: "90-110"},
}

var fallbackBand = ColorBand{Lower: 110, Upper: math.Inf(1), Color: DeepFallbackColor, Label: "110+"}

// Legend returns the depth bands top-to-bottom, ending with the fallback band.
func Legend() []ColorBand {
	out := make([]ColorBand, 0, len(depthBands)+1)
	out = append(out, depthBands...)
	return append(out, fallbackBand)
}

// MarkerSize maps a magnitude to a circle radius in metres. Non-negative
// magnitudes scale linearly; negative and NaN magnitudes get MinRadius.
func MarkerSize(magnitude float64) float64 {
	if math.IsNaN(magnitude) || magnitude < 0 {
		return MinRadius
	}
	if math.IsInf(magnitude, 1) {
		return MaxRadius
	}
	return magnitude * RadiusScale
}

// MarkerColor returns the fill color of the first band whose exclusive upper
// bound exceeds depth.
func MarkerColor(depth float64) string {
	return bandFor(depth).Color
}

func bandFor(depth float64) ColorBand {
	if math.IsNaN(depth) {
		return fallbackBand
	}
	for _, b := range depthBands {
		if depth < b.Upper {
			return b
		}
	}
	return fallbackBand
}

// BandLabel returns the legend label of the band containing depth.
func BandLabel(depth float64) string {
	return bandFor(depth).Label
}

// ToMarker builds a marker for a single feature.
func ToMarker(f Feature) (Marker, error) {
	if f.DecodeErr != nil {
		return Marker{}, fmt.Errorf("%w: %w", ErrMalformedFeature, f.DecodeErr)
	}
	if len(f.Coordinates) < 3 {
		return Marker{}, ErrMissingCoordinates
	}
	if f.Magnitude == nil {
		return Marker{}, ErrMissingMagnitude
	}

	lon, lat, depth := f.Coordinates[0], f.Coordinates[1], f.Coordinates[2]
	mag := *f.Magnitude

	return Marker{
		FeatureID:   f.ID,
		Position:    LatLng{Lat: lat, Lon: lon},
		Radius:      MarkerSize(mag),
		FillColor:   MarkerColor(depth),
		FillOpacity: defaultFillOpacity,
		Stroke:      true,
		StrokeColor: defaultStrokeColor,
		PopupText:   PopupText(f.Place, f.Time),
		Depth:       depth,
		Magnitude:   mag,
	}, nil
}

// BuildMarkers transforms features in order, leaving out any that cannot
// produce a marker. The returned slice is never nil.
func BuildMarkers(features []Feature) ([]Marker, []DropReason) {
	markers := make([]Marker, 0, len(features))
	var dropped []DropReason
	for i, f := range features {
		m, err := ToMarker(f)
		if err != nil {
			dropped = append(dropped, DropReason{Index: i, FeatureID: f.ID, Err: err})
			continue
		}
		markers = append(markers, m)
	}
	return markers, dropped
}

// PopupText renders the popup body for a place and event time.
func PopupText(place string, t time.Time) string {
	return "<h3>" + html.EscapeString(place) + "</h3><hr><p>" + t.UTC().Format(PopupTimeLayout) + "</p>"
}

// ParsePopupText reverses PopupText. Sub-second precision is lost.
func ParsePopupText(text string) (string, time.Time, error) {
	m := popupRe.FindStringSubmatch(text)
	if len(m) != 3 {
		return "", time.Time{}, fmt.Errorf("parse popup: unexpected format %q", text)
	}
	t, err := time.Parse(PopupTimeLayout, m[2])
	if err != nil {
		return "", time.Time{}, fmt.Errorf("parse popup time: %w", err)
	}
	return html.UnescapeString(m[1]), t, nil
}

package usgs

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/couchcryptid/quake-map/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadSample(t *testing.T) *os.File {
	t.Helper()
	f, err := os.Open("testdata/all_month_sample.geojson")
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })
	return f
}

func TestDecode_Sample(t *testing.T) {
	features, err := Decode(loadSample(t))
	require.NoError(t, err)
	require.Len(t, features, 5)

	first := features[0]
	assert.Equal(t, "ci40567432", first.ID)
	assert.Equal(t, "10 km SSW of Idyllwild, CA", first.Place)
	assert.Equal(t, time.UnixMilli(1714144230123).UTC(), first.Time)
	require.NotNil(t, first.Magnitude)
	assert.Equal(t, 5.0, *first.Magnitude)
	assert.Equal(t, []float64{-116.7, 33.65, 20}, first.Coordinates)
	assert.Equal(t, "https://earthquake.usgs.gov/earthquakes/eventpage/ci40567432", first.URL)
	assert.NotEmpty(t, first.Raw)

	// null geometry
	assert.Equal(t, "nc75000001", features[1].ID)
	assert.Nil(t, features[1].Coordinates)

	// null magnitude
	assert.Nil(t, features[2].Magnitude)
	assert.Equal(t, 560.2, features[2].Coordinates[2])

	// negative magnitude and depth survive decoding
	require.NotNil(t, features[3].Magnitude)
	assert.Equal(t, -0.4, *features[3].Magnitude)
	assert.Equal(t, -1.2, features[3].Coordinates[2])

	// undecodable feature keeps its ID, raw payload, and the decode error
	assert.Equal(t, "us7000broken", features[4].ID)
	assert.Nil(t, features[4].Coordinates)
	assert.Contains(t, string(features[4].Raw), "us7000broken")
	require.Error(t, features[4].DecodeErr)

	_, err = domain.ToMarker(features[4])
	require.ErrorIs(t, err, domain.ErrMalformedFeature)
}

func TestDecode_Geometries(t *testing.T) {
	tests := []struct {
		name     string
		geometry string
		want     []float64
	}{
		{"missing coordinates", `{"type":"Point"}`, nil},
		{"two dimensional point", `{"type":"Point","coordinates":[1,2]}`, nil},
		{"line string", `{"type":"LineString","coordinates":[[1,2,3],[4,5,6]]}`, nil},
		{"garbage coordinates", `{"type":"Point","coordinates":"nope"}`, nil},
		{"valid", `{"type":"Point","coordinates":[1.5,2.5,3.5]}`, []float64{1.5, 2.5, 3.5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := `{"type":"FeatureCollection","features":[{"type":"Feature","id":"x","properties":{"mag":1},"geometry":` + tt.geometry + `}]}`
			features, err := Decode(strings.NewReader(body))
			require.NoError(t, err)
			require.Len(t, features, 1)
			assert.Equal(t, tt.want, features[0].Coordinates)
		})
	}
}

func TestDecode_Empty(t *testing.T) {
	features, err := Decode(strings.NewReader(`{"type":"FeatureCollection","features":[]}`))
	require.NoError(t, err)
	assert.NotNil(t, features)
	assert.Empty(t, features)
}

func TestDecode_InvalidEnvelope(t *testing.T) {
	_, err := Decode(strings.NewReader("{not json"))
	require.Error(t, err)

	_, err = Decode(strings.NewReader(`{"type":"Feature"}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected type")
}

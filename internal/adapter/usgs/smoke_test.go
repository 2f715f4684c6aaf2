//go:build usgs

package usgs

import (
	"context"
	"testing"
	"time"

	"github.com/couchcryptid/quake-map/internal/config"
	"github.com/couchcryptid/quake-map/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// These tests hit the live USGS feed.
// Run with: go test -tags=usgs ./internal/adapter/usgs/ -v -count=1

func TestSmoke_FetchAllMonth(t *testing.T) {
	c := NewClient(config.DefaultFeedURL, 30*time.Second, discardLogger())

	features, err := c.Fetch(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, features, "the past-month feed is never empty")

	markers, dropped := domain.BuildMarkers(features)
	assert.Equal(t, len(features), len(markers)+len(dropped))
	assert.Greater(t, len(markers), len(dropped))
}

package mapbox

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/couchcryptid/quake-map/internal/observability"
)

// CachedTiles wraps a TileFetcher with an in-memory LRU cache.
type CachedTiles struct {
	inner   TileFetcher
	cache   *lru.Cache[string, Tile]
	metrics *observability.Metrics
}

// NewCachedTiles creates a cache decorator around a tile fetcher.
func NewCachedTiles(inner TileFetcher, maxEntries int, metrics *observability.Metrics) (*CachedTiles, error) {
	cache, err := lru.New[string, Tile](maxEntries)
	if err != nil {
		return nil, fmt.Errorf("create tile cache: %w", err)
	}
	return &CachedTiles{
		inner:   inner,
		cache:   cache,
		metrics: metrics,
	}, nil
}

func (c *CachedTiles) FetchTile(ctx context.Context, style string, z, x, y int) (Tile, error) {
	key := fmt.Sprintf("%s/%d/%d/%d", style, z, x, y)
	if tile, ok := c.cache.Get(key); ok {
		c.metrics.TileRequests.WithLabelValues(style, "hit").Inc()
		return tile, nil
	}
	tile, err := c.inner.FetchTile(ctx, style, z, x, y)
	if err != nil {
		c.metrics.TileRequests.WithLabelValues(style, "error").Inc()
		return tile, err
	}
	c.metrics.TileRequests.WithLabelValues(style, "miss").Inc()
	// Empty bodies are not cached so a transient upstream glitch can be retried.
	if len(tile.Data) > 0 {
		c.cache.Add(key, tile)
	}
	return tile, nil
}

// Len reports the number of cached tiles.
func (c *CachedTiles) Len() int {
	return c.cache.Len()
}

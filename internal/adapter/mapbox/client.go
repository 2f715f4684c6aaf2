package mapbox

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/couchcryptid/quake-map/internal/observability"
	"golang.org/x/time/rate"
)

// ErrUnknownStyle is returned for style keys with no Mapbox style mapping.
var ErrUnknownStyle = errors.New("unknown tile style")

// Styles maps the public style keys used in tile URLs to Mapbox style IDs.
var Styles = map[string]string{
	"streets": "mapbox/streets-v11",
	"dark":    "mapbox/dark-v10",
}

// Tile is one raster tile as returned by the upstream.
type Tile struct {
	Data        []byte
	ContentType string
}

// TileFetcher retrieves base-layer tiles.
type TileFetcher interface {
	FetchTile(ctx context.Context, style string, z, x, y int) (Tile, error)
}

// Client implements TileFetcher using the Mapbox Static Tiles API.
type Client struct {
	token      string
	httpClient *http.Client
	baseURL    string
	limiter    *rate.Limiter
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a Mapbox tile client limited to ratePerSecond upstream requests.
func NewClient(token string, timeout time.Duration, ratePerSecond float64, metrics *observability.Metrics, logger *slog.Logger) *Client {
	burst := int(ratePerSecond)
	if burst < 1 {
		burst = 1
	}
	return &Client{
		token: token,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: "https://api.mapbox.com/styles/v1",
		limiter: rate.NewLimiter(rate.Limit(ratePerSecond), burst),
		metrics: metrics,
		logger:  logger,
	}
}

// FetchTile downloads one 512px raster tile for the given style key.
func (c *Client) FetchTile(ctx context.Context, style string, z, x, y int) (Tile, error) {
	styleID, ok := Styles[style]
	if !ok {
		return Tile{}, fmt.Errorf("%w: %q", ErrUnknownStyle, style)
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return Tile{}, fmt.Errorf("tile rate limit: %w", err)
	}

	u := fmt.Sprintf("%s/%s/tiles/512/%d/%d/%d", c.baseURL, styleID, z, x, y)
	params := url.Values{"access_token": {c.token}}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u+"?"+params.Encode(), nil)
	if err != nil {
		return Tile{}, fmt.Errorf("create request: %w", err)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	c.metrics.TileUpstreamLatency.WithLabelValues(style).Observe(time.Since(start).Seconds())
	if err != nil {
		return Tile{}, fmt.Errorf("tile request: %w", redact(err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return Tile{}, fmt.Errorf("mapbox API error: status %d: %s", resp.StatusCode, body)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return Tile{}, fmt.Errorf("read tile body: %w", err)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}

	c.logger.Debug("fetched tile", "style", style, "z", z, "x", x, "y", y, "bytes", len(data))
	return Tile{Data: data, ContentType: contentType}, nil
}

// redact strips the query string (and with it the access token) from URL errors.
func redact(err error) error {
	var uerr *url.Error
	if errors.As(err, &uerr) {
		if u, perr := url.Parse(uerr.URL); perr == nil {
			u.RawQuery = ""
			uerr.URL = u.String()
		}
	}
	return err
}

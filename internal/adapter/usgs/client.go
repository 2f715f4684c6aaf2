package usgs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/couchcryptid/quake-map/internal/domain"
)

// ErrUnexpectedStatus is returned when the feed answers with a non-200 status.
var ErrUnexpectedStatus = errors.New("unexpected feed status")

// Client fetches the USGS earthquake summary feed.
// It implements pipeline.Fetcher.
type Client struct {
	url        string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a feed client for the given GeoJSON URL.
func NewClient(url string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		url: url,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// Fetch issues one GET to the feed and decodes its features.
func (c *Client) Fetch(ctx context.Context) ([]domain.Feature, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/geo+json, application/json")
	req.Header.Set("User-Agent", "quake-map/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("feed request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%w: %d: %s", ErrUnexpectedStatus, resp.StatusCode, body)
	}

	features, err := Decode(resp.Body)
	if err != nil {
		return nil, err
	}

	c.logger.Debug("feed fetched", "url", c.url, "features", len(features))
	return features, nil
}

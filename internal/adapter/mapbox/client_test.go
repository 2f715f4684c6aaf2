package mapbox

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/couchcryptid/quake-map/internal/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

const (
	testToken  = "test-token"
	pngMagic   = "\x89PNG\r\n\x1a\n"
	contentPNG = "image/png"
)

func testMetrics() *observability.Metrics {
	return observability.NewMetricsForTesting()
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		token:      testToken,
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		limiter:    rate.NewLimiter(rate.Inf, 1),
		metrics:    testMetrics(),
		logger:     discardLogger(),
	}
}

func TestClient_FetchTile_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/mapbox/dark-v10/tiles/512/4/3/5", r.URL.Path)
		assert.Equal(t, testToken, r.URL.Query().Get("access_token"))
		w.Header().Set("Content-Type", contentPNG)
		_, _ = w.Write([]byte(pngMagic + "tile"))
	}))
	defer srv.Close()

	c := testClient(srv.URL, 5*time.Second)
	tile, err := c.FetchTile(context.Background(), "dark", 4, 3, 5)
	require.NoError(t, err)

	assert.Equal(t, contentPNG, tile.ContentType)
	assert.Equal(t, []byte(pngMagic+"tile"), tile.Data)
}

func TestClient_FetchTile_DetectsContentType(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header()["Content-Type"] = nil
		_, _ = w.Write([]byte(pngMagic + "tile"))
	}))
	defer srv.Close()

	tile, err := testClient(srv.URL, 5*time.Second).FetchTile(context.Background(), "streets", 0, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, contentPNG, tile.ContentType)
}

func TestClient_FetchTile_UnknownStyle(t *testing.T) {
	c := testClient("http://127.0.0.1:0", 5*time.Second)
	_, err := c.FetchTile(context.Background(), "satellite", 0, 0, 0)
	require.ErrorIs(t, err, ErrUnknownStyle)
}

func TestClient_FetchTile_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"Not Authorized - Invalid Token"}`))
	}))
	defer srv.Close()

	_, err := testClient(srv.URL, 5*time.Second).FetchTile(context.Background(), "streets", 1, 0, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func TestClient_FetchTile_TimeoutRedactsToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL, 50*time.Millisecond).FetchTile(context.Background(), "streets", 1, 0, 0)
	require.Error(t, err)
	assert.NotContains(t, err.Error(), testToken)
}

func TestClient_FetchTile_RateLimitHonoursContext(t *testing.T) {
	c := testClient("http://127.0.0.1:0", 5*time.Second)
	c.limiter = rate.NewLimiter(rate.Every(time.Hour), 1)
	require.True(t, c.limiter.Allow(), "drain the single token")

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := c.FetchTile(ctx, "streets", 0, 0, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limit")
}

func TestNewClient_Defaults(t *testing.T) {
	c := NewClient(testToken, time.Second, 0.5, testMetrics(), discardLogger())
	assert.Equal(t, "https://api.mapbox.com/styles/v1", c.baseURL)
	assert.Equal(t, 1, c.limiter.Burst())
	assert.Equal(t, rate.Limit(0.5), c.limiter.Limit())
}

package mapbox

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
)

const (
	minZoom = 0
	maxZoom = 18
)

// TileHandler serves base-layer tiles at /tiles/{style}/{z}/{x}/{y}.
type TileHandler struct {
	tiles  TileFetcher
	logger *slog.Logger
}

// NewTileHandler creates an HTTP handler backed by the given fetcher.
func NewTileHandler(tiles TileFetcher, logger *slog.Logger) *TileHandler {
	return &TileHandler{tiles: tiles, logger: logger}
}

func (h *TileHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	style := r.PathValue("style")
	if _, ok := Styles[style]; !ok {
		http.Error(w, "unknown style", http.StatusNotFound)
		return
	}

	z, zerr := strconv.Atoi(r.PathValue("z"))
	x, xerr := strconv.Atoi(r.PathValue("x"))
	y, yerr := strconv.Atoi(r.PathValue("y"))
	if zerr != nil || xerr != nil || yerr != nil {
		http.Error(w, "invalid tile coordinates", http.StatusBadRequest)
		return
	}
	if !validTile(z, x, y) {
		http.Error(w, "tile out of range", http.StatusBadRequest)
		return
	}

	tile, err := h.tiles.FetchTile(r.Context(), style, z, x, y)
	if err != nil {
		if errors.Is(err, ErrUnknownStyle) {
			http.Error(w, "unknown style", http.StatusNotFound)
			return
		}
		h.logger.Warn("tile fetch failed", "style", style, "z", z, "x", x, "y", y, "error", err)
		http.Error(w, "tile unavailable", http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", tile.ContentType)
	w.Header().Set("Cache-Control", "public, max-age=86400")
	_, _ = w.Write(tile.Data)
}

// validTile reports whether x and y fall inside the 2^z grid.
func validTile(z, x, y int) bool {
	if z < minZoom || z > maxZoom {
		return false
	}
	n := 1 << z
	return x >= 0 && x < n && y >= 0 && y < n
}

package http

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/couchcryptid/quake-map/internal/render"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const contentGeoJSON = "application/geo+json"

// ReadinessChecker reports whether the service is ready to serve traffic.
type ReadinessChecker interface {
	CheckReadiness(ctx context.Context) error
}

// SceneSource returns the current scene or the reason there is none.
type SceneSource interface {
	Scene() (*render.Scene, error)
}

// Server delivers the map page, its derived data, and ops endpoints.
type Server struct {
	httpServer *http.Server
	scenes     SceneSource
	renderer   *render.HTMLRenderer
	logger     *slog.Logger
}

// NewServer creates an HTTP server. The tile proxy route is only mounted when
// tiles is non-nil.
func NewServer(addr string, scenes SceneSource, ready ReadinessChecker, renderer *render.HTMLRenderer, tiles http.Handler, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		scenes:   scenes,
		renderer: renderer,
		logger:   logger,
	}

	mux.HandleFunc("GET /{$}", s.handleMap)
	mux.HandleFunc("GET /api/markers", s.handleMarkers)
	mux.HandleFunc("GET /api/features", s.handleFeatures)
	mux.HandleFunc("GET /api/legend", s.handleLegend)
	if tiles != nil {
		mux.Handle("GET /tiles/{style}/{z}/{x}/{y}", tiles)
	}
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", handleReady(ready))
	mux.Handle("GET /metrics", promhttp.Handler())

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handleMap(w http.ResponseWriter, _ *http.Request) {
	scene, ok := s.scene(w)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := s.renderer.Render(&buf, scene); err != nil {
		s.logger.Error("render map page failed", "error", err)
		http.Error(w, "render map page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	buf.WriteTo(w) //nolint:errcheck // client went away
}

func (s *Server) handleMarkers(w http.ResponseWriter, _ *http.Request) {
	scene, ok := s.scene(w)
	if !ok {
		return
	}
	data, err := render.MarkersGeoJSON(scene)
	if err != nil {
		s.logger.Error("encode markers failed", "error", err)
		http.Error(w, "encode markers", http.StatusInternalServerError)
		return
	}
	writeBytes(w, contentGeoJSON, data)
}

func (s *Server) handleFeatures(w http.ResponseWriter, _ *http.Request) {
	scene, ok := s.scene(w)
	if !ok {
		return
	}
	data, err := render.FeaturesGeoJSON(scene)
	if err != nil {
		s.logger.Error("encode features failed", "error", err)
		http.Error(w, "encode features", http.StatusInternalServerError)
		return
	}
	writeBytes(w, contentGeoJSON, data)
}

func (s *Server) handleLegend(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, render.NewLegend())
}

// scene writes a 503 and returns false when no scene is available.
func (s *Server) scene(w http.ResponseWriter) (*render.Scene, bool) {
	scene, err := s.scenes.Scene()
	if err != nil {
		http.Error(w, "map unavailable: "+err.Error(), http.StatusServiceUnavailable)
		return nil, false
	}
	return scene, true
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func handleReady(checker ReadinessChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := checker.CheckReadiness(ctx); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "not ready",
				"error":  err.Error(),
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}

func writeBytes(w http.ResponseWriter, contentType string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	w.Write(data) //nolint:errcheck // client went away
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response
}

// Command quakemap fetches the USGS earthquake feed once at startup and serves
// the resulting Leaflet map.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	httpadapter "github.com/couchcryptid/quake-map/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/quake-map/internal/adapter/kafka"
	"github.com/couchcryptid/quake-map/internal/adapter/mapbox"
	"github.com/couchcryptid/quake-map/internal/adapter/usgs"
	"github.com/couchcryptid/quake-map/internal/config"
	"github.com/couchcryptid/quake-map/internal/observability"
	"github.com/couchcryptid/quake-map/internal/pipeline"
	"github.com/couchcryptid/quake-map/internal/render"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file loaded", "error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	fetcher := usgs.NewClient(cfg.FeedURL, cfg.FeedTimeout, logger)

	// Base-layer tile proxy (feature-flagged via MAPBOX_ENABLED / MAPBOX_TOKEN).
	var tiles http.Handler
	if cfg.MapboxEnabled {
		client := mapbox.NewClient(cfg.MapboxToken, cfg.MapboxTimeout, cfg.MapboxRateLimit, metrics, logger)
		cached, err := mapbox.NewCachedTiles(client, cfg.MapboxCacheSize, metrics)
		if err != nil {
			logger.Error("failed to create tile cache", "error", err)
			os.Exit(1)
		}
		tiles = mapbox.NewTileHandler(cached, logger)
		logger.Info("mapbox tile proxy enabled", "cache_size", cfg.MapboxCacheSize, "timeout", cfg.MapboxTimeout)
	} else {
		logger.Info("mapbox tile proxy disabled, using public base layers")
	}

	var sinks []pipeline.SceneSink
	var writer *kafkaadapter.Writer
	if cfg.KafkaEnabled() {
		writer = kafkaadapter.NewWriter(cfg, logger, metrics)
		sinks = append(sinks, writer)
		logger.Info("kafka marker publishing enabled", "topic", cfg.KafkaTopic)
	}

	p := pipeline.New(fetcher, render.OptionsFromConfig(cfg), logger, metrics, sinks...)
	srv := httpadapter.NewServer(cfg.HTTPAddr, p, p, render.NewHTMLRenderer("Earthquakes"), tiles, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	// A failed fetch leaves the server up and reporting not ready.
	g.Go(func() error {
		if err := p.Run(gctx); err != nil {
			logger.Error("pipeline error", "error", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("http server shutdown error", "error", err)
		}
		return nil
	})

	runErr := g.Wait()
	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}
	if runErr != nil {
		logger.Error("http server error", "error", runErr)
		os.Exit(1)
	}

	logger.Info("shutdown complete")
}

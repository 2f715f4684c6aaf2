// Command render fetches the USGS earthquake feed once and writes the map as a
// self-contained HTML page, optionally alongside the marker GeoJSON.
//
// Usage:
//
//	go run ./cmd/render -out map.html -geojson markers.geojson
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/quake-map/internal/adapter/usgs"
	"github.com/couchcryptid/quake-map/internal/config"
	"github.com/couchcryptid/quake-map/internal/observability"
	"github.com/couchcryptid/quake-map/internal/pipeline"
	"github.com/couchcryptid/quake-map/internal/render"
	"github.com/joho/godotenv"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	feedURL := flag.String("feed", cfg.FeedURL, "GeoJSON feed URL")
	out := flag.String("out", "-", "HTML output path, - for stdout")
	geojsonOut := flag.String("geojson", "", "optional marker GeoJSON output path")
	title := flag.String("title", "Earthquakes", "page title")
	flag.Parse()

	// stdout may carry the page, so logs go to stderr.
	logger := observability.NewLoggerTo(os.Stderr, cfg)
	metrics := observability.NewMetrics()

	// A static page cannot reach the tile proxy, so it always uses public layers.
	opts := render.OptionsFromConfig(cfg)
	opts.BaseLayers = render.BaseLayers(false)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	p := pipeline.New(usgs.NewClient(*feedURL, cfg.FeedTimeout, logger), opts, logger, metrics)
	if err := p.Run(ctx); err != nil {
		return err
	}
	scene, err := p.Scene()
	if err != nil {
		return err
	}

	if err := writeOutput(*out, func(w io.Writer) error {
		return render.NewHTMLRenderer(*title).Render(w, scene)
	}); err != nil {
		return err
	}

	if *geojsonOut != "" {
		data, err := render.MarkersGeoJSON(scene)
		if err != nil {
			return err
		}
		if err := os.WriteFile(*geojsonOut, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", *geojsonOut, err)
		}
	}

	logger.Info("map written", "out", *out, "markers", len(scene.Markers), "dropped", scene.Dropped)
	return nil
}

func writeOutput(path string, write func(io.Writer) error) error {
	if path == "-" {
		return write(os.Stdout)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/quake-map/internal/domain"
	"github.com/couchcryptid/quake-map/internal/observability"
	"github.com/couchcryptid/quake-map/internal/render"
)

// ErrNotReady is returned by Scene before a scene has been built.
var ErrNotReady = errors.New("map scene has not been rendered yet")

// Fetcher retrieves the feature collection from the feed.
type Fetcher interface {
	Fetch(ctx context.Context) ([]domain.Feature, error)
}

// SceneSink receives the finished scene. Sink failures never undo the scene.
type SceneSink interface {
	Publish(ctx context.Context, scene *render.Scene) error
}

// Pipeline runs fetch → transform → render once and holds the result.
type Pipeline struct {
	fetcher Fetcher
	opts    render.Options
	sinks   []SceneSink
	logger  *slog.Logger
	metrics *observability.Metrics

	scene atomic.Pointer[render.Scene]

	mu      sync.Mutex
	lastErr error
}

// New creates a Pipeline with the given stages and observability.
func New(f Fetcher, opts render.Options, logger *slog.Logger, metrics *observability.Metrics, sinks ...SceneSink) *Pipeline {
	return &Pipeline{
		fetcher: f,
		opts:    opts,
		sinks:   sinks,
		logger:  logger,
		metrics: metrics,
	}
}

// Run fetches the feed once, builds the scene, and hands it to every sink.
// A fetch failure is returned; cancellation of ctx is not treated as one.
func (p *Pipeline) Run(ctx context.Context) error {
	p.logger.Info("pipeline started", "sinks", len(p.sinks))

	start := time.Now()
	features, err := p.fetcher.Fetch(ctx)
	p.metrics.FetchDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		if ctx.Err() != nil {
			p.logger.Info("pipeline stopping", "reason", ctx.Err())
			return nil
		}
		p.metrics.FetchErrors.Inc()
		p.setErr(err)
		p.logger.Error("feed fetch failed", "error", err)
		return fmt.Errorf("fetch feed: %w", err)
	}
	p.metrics.FeaturesFetched.Add(float64(len(features)))

	markers, dropped := p.transform(features)
	scene := render.NewScene(markers, features, dropped, p.opts)

	p.scene.Store(scene)
	p.metrics.MarkersRendered.Set(float64(len(markers)))
	p.metrics.PipelineReady.Set(1)
	p.logger.Info("map scene ready",
		"features", len(features),
		"markers", len(markers),
		"dropped", dropped,
	)

	p.publish(ctx, scene)
	return nil
}

// Scene returns the rendered scene, or ErrNotReady wrapping the last fetch failure.
func (p *Pipeline) Scene() (*render.Scene, error) {
	if s := p.scene.Load(); s != nil {
		return s, nil
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.lastErr != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotReady, p.lastErr)
	}
	return nil, ErrNotReady
}

// CheckReadiness returns nil once a scene exists, or an error describing why
// the map is not available.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	_, err := p.Scene()
	return err
}

func (p *Pipeline) publish(ctx context.Context, scene *render.Scene) {
	for _, s := range p.sinks {
		if err := s.Publish(ctx, scene); err != nil {
			p.metrics.PublishErrors.Inc()
			p.logger.Error("publish scene failed", "sink", fmt.Sprintf("%T", s), "error", err)
		}
	}
}

func (p *Pipeline) setErr(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.lastErr = err
}

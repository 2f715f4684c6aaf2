package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "quakemap"

// Metrics holds the Prometheus counters, histograms, and gauges for the map pipeline.
type Metrics struct {
	FeaturesFetched prometheus.Counter
	FeaturesDropped prometheus.Counter
	MarkersRendered prometheus.Gauge
	FetchErrors     prometheus.Counter
	FetchDuration   prometheus.Histogram
	PipelineReady   prometheus.Gauge

	MarkersPublished prometheus.Counter
	PublishErrors    prometheus.Counter

	// Tile proxy metrics.
	TileRequests        *prometheus.CounterVec // labels: style, result={hit,miss,error}
	TileUpstreamLatency *prometheus.HistogramVec
}

// NewMetrics creates and registers all pipeline metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.FeaturesFetched,
		m.FeaturesDropped,
		m.MarkersRendered,
		m.FetchErrors,
		m.FetchDuration,
		m.PipelineReady,
		m.MarkersPublished,
		m.PublishErrors,
		m.TileRequests,
		m.TileUpstreamLatency,
	)
	return m
}

// NewMetricsForTesting creates unregistered Metrics to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		FeaturesFetched: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "features_fetched_total",
			Help:      "Total features decoded from the earthquake feed.",
		}),
		FeaturesDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "features_dropped_total",
			Help:      "Features skipped because they could not produce a marker.",
		}),
		MarkersRendered: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "markers_rendered",
			Help:      "Markers in the current map scene.",
		}),
		FetchErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fetch_errors_total",
			Help:      "Feed fetches that failed.",
		}),
		FetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "fetch_duration_seconds",
			Help:      "Duration of the feed request and decode.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		PipelineReady: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "pipeline_ready",
			Help:      "1 once a map scene has been rendered, 0 otherwise.",
		}),
		MarkersPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "markers_published_total",
			Help:      "Markers written to the Kafka topic.",
		}),
		PublishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "publish_errors_total",
			Help:      "Scene sinks that returned an error.",
		}),
		TileRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tile_requests_total",
			Help:      "Base-layer tile requests by style and result.",
		}, []string{"style", "result"}),
		TileUpstreamLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "tile_upstream_duration_seconds",
			Help:      "Mapbox tile request duration in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"style"}),
	}
}

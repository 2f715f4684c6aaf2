package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/quake-map/internal/config"
	"github.com/couchcryptid/quake-map/internal/domain"
	"github.com/couchcryptid/quake-map/internal/observability"
	"github.com/couchcryptid/quake-map/internal/render"
	kafkago "github.com/segmentio/kafka-go"
)

// messageWriter is the subset of *kafkago.Writer used by Writer.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// Writer publishes rendered markers to a Kafka topic.
// It implements pipeline.SceneSink.
type Writer struct {
	writer  messageWriter
	topic   string
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewWriter creates a Kafka producer for the configured marker topic.
func NewWriter(cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics) *Writer {
	w := &kafkago.Writer{
		Addr:                   kafkago.TCP(cfg.KafkaBrokers...),
		Topic:                  cfg.KafkaTopic,
		Balancer:               &kafkago.LeastBytes{},
		RequiredAcks:           kafkago.RequireAll,
		AllowAutoTopicCreation: true,
	}
	return &Writer{writer: w, topic: cfg.KafkaTopic, logger: logger, metrics: metrics}
}

// Publish writes one message per marker in a single WriteMessages call.
// An empty scene publishes nothing.
func (w *Writer) Publish(ctx context.Context, scene *render.Scene) error {
	if len(scene.Markers) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(scene.Markers))
	for i := range scene.Markers {
		msg, err := serializeToMessage(scene.Markers[i], scene.GeneratedAt)
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	if err := w.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("write markers to %s: %w", w.topic, err)
	}
	w.metrics.MarkersPublished.Add(float64(len(msgs)))
	w.logger.Info("markers published", "topic", w.topic, "count", len(msgs))
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals a Marker into a Kafka message keyed by feature ID.
func serializeToMessage(m domain.Marker, generatedAt time.Time) (kafkago.Message, error) {
	data, err := json.Marshal(m)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize marker: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(m.FeatureID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "depth_band", Value: []byte(domain.BandLabel(m.Depth))},
			{Key: "generated_at", Value: []byte(generatedAt.Format(time.RFC3339))},
		},
	}, nil
}

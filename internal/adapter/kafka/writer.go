package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/water-project-quality/internal/config"
	"github.com/couchcryptid/water-project-quality/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
)

// Message headers set on every assessed project.
const (
	HeaderQualityTier    = "quality_tier"
	HeaderLocationSource = "location_source"
	HeaderProcessedAt    = "processed_at"
)

// Writer produces messages to a Kafka topic.
// It implements pipeline.BatchLoader.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured sink topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaSinkTopic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger}
}

// LoadBatch serializes and publishes assessed projects to the sink topic in a
// single WriteMessages call. Messages are keyed by project so that every
// assessment of one project lands on the same partition.
func (w *Writer) LoadBatch(ctx context.Context, projects []domain.AssessedProject) error {
	if len(projects) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(projects))
	for i := range projects {
		msg, err := serializeToMessage(projects[i])
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	if err := w.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("write %d messages: %w", len(msgs), err)
	}
	w.logger.Debug("batch written", "topic", w.writer.Topic, "count", len(msgs))
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals an AssessedProject into a Kafka message.
func serializeToMessage(p domain.AssessedProject) (kafkago.Message, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize assessed project: %w", err)
	}
	return kafkago.Message{
		Key:   p.Key,
		Value: data,
		Headers: []kafkago.Header{
			{Key: HeaderQualityTier, Value: []byte(p.Assessment.Quality.Tier)},
			{Key: HeaderLocationSource, Value: []byte(p.Assessment.Location.Source)},
			{Key: HeaderProcessedAt, Value: []byte(p.Assessment.AssessedAt.Format(time.RFC3339))},
		},
	}, nil
}

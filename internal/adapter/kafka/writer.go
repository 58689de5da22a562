package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/coffee-map/internal/config"
	"github.com/couchcryptid/coffee-map/internal/domain"
	"github.com/couchcryptid/coffee-map/internal/observability"
)

// batchSize bounds one WriteMessages call.
const batchSize = 100

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// Writer publishes tasting records to a Kafka topic, keyed by record ID so
// republishing the same sheet lands on the same partitions.
type Writer struct {
	writer  messageWriter
	metrics *observability.Metrics
	logger  *slog.Logger
}

// NewWriter creates a Kafka producer for the configured topic.
func NewWriter(cfg *config.Config, metrics *observability.Metrics, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:                   kafkago.TCP(cfg.KafkaBrokers...),
		Topic:                  cfg.KafkaTopic,
		Balancer:               &kafkago.Hash{},
		RequiredAcks:           kafkago.RequireAll,
		AllowAutoTopicCreation: true,
	}
	return &Writer{writer: w, metrics: metrics, logger: logger}
}

// Publish writes every record of the dataset, stamped with its load time.
func (w *Writer) Publish(ctx context.Context, ds domain.Dataset) error {
	if len(ds.Records) == 0 {
		return nil
	}
	for start := 0; start < len(ds.Records); start += batchSize {
		end := min(start+batchSize, len(ds.Records))
		msgs := make([]kafkago.Message, 0, end-start)
		for _, rec := range ds.Records[start:end] {
			msg, err := serializeToMessage(rec, ds.LoadedAt)
			if err != nil {
				return err
			}
			msgs = append(msgs, msg)
		}
		if err := w.writer.WriteMessages(ctx, msgs...); err != nil {
			return fmt.Errorf("publish records %d-%d: %w", start, end, err)
		}
		w.metrics.RecordsPublished.Add(float64(len(msgs)))
	}
	w.logger.Info("records published", "count", len(ds.Records))
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals a Record into a Kafka message.
func serializeToMessage(rec domain.Record, loadedAt time.Time) (kafkago.Message, error) {
	data, err := json.Marshal(rec)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize record: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(rec.ID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "process_norm", Value: []byte(rec.ProcessNorm)},
			{Key: "loaded_at", Value: []byte(loadedAt.Format(time.RFC3339))},
		},
	}, nil
}

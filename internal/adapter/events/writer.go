// Package events publishes freshly computed lookup results to a Kafka topic
// for downstream consumers. Publishing is best-effort: a failed publish is
// counted and logged but never fails the lookup.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/river-quality-service/internal/domain"
)

// Writer produces result events to the configured topic.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the events topic.
func NewWriter(brokers []string, topic string, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger}
}

// Publish serializes a lookup result and writes it keyed by river id, with
// status and computation time carried as headers.
func (w *Writer) Publish(ctx context.Context, riverID string, result domain.Result) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("serialize result event: %w", err)
	}

	msg := kafkago.Message{
		Key:   []byte(riverID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "status", Value: []byte(result.Status)},
			{Key: "computed_at", Value: []byte(time.Now().UTC().Format(time.RFC3339))},
		},
	}
	return w.writer.WriteMessages(ctx, msg)
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

//go:build integration

package integration_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tckafka "github.com/testcontainers/testcontainers-go/modules/kafka"

	"github.com/couchcryptid/river-quality-service/internal/adapter/events"
	"github.com/couchcryptid/river-quality-service/internal/domain"
)

const testEventsTopic = "rwqi-lookups-test"

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// startKafka launches a single-broker Kafka container and returns its
// bootstrap address.
func startKafka(ctx context.Context, t *testing.T) string {
	t.Helper()

	container, err := tckafka.Run(ctx, "confluentinc/confluent-local:7.5.0",
		tckafka.WithClusterID("rwqi-integration"))
	require.NoError(t, err, "start kafka container")
	t.Cleanup(func() {
		require.NoError(t, testcontainers.TerminateContainer(container))
	})

	brokers, err := container.Brokers(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, brokers)
	return brokers[0]
}

func createTopic(t *testing.T, broker, topic string) {
	t.Helper()
	conn, err := kafkago.Dial("tcp", broker)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.CreateTopics(kafkago.TopicConfig{
		Topic:             topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	}))
}

// TestEventsWriterRoundTrip verifies that a published lookup result arrives
// on the topic with the expected key, headers, and body.
func TestEventsWriterRoundTrip(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testEventsTopic)

	writer := events.NewWriter([]string{broker}, testEventsTopic, discardLogger())
	t.Cleanup(func() { _ = writer.Close() })

	score := 66.0
	category := "Moderate"
	result := domain.Result{
		River:    "Ganga",
		Status:   domain.StatusOK,
		RWQI:     &score,
		Category: &category,
		Subindices: map[domain.Parameter]float64{
			domain.ParamColiforms: 66.0,
		},
	}

	// Retry the first write: the broker may still be electing a leader for
	// the fresh topic.
	var writeErr error
	for attempt := 0; attempt < 5; attempt++ {
		writeErr = writer.Publish(ctx, "ganga", result)
		if writeErr == nil {
			break
		}
		time.Sleep(2 * time.Second)
	}
	require.NoError(t, writeErr, "publish result event")

	consumer := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     []string{broker},
		Topic:       testEventsTopic,
		GroupID:     fmt.Sprintf("test-consumer-%d", time.Now().UnixNano()),
		StartOffset: kafkago.FirstOffset,
	})
	t.Cleanup(func() { _ = consumer.Close() })

	readCtx, readCancel := context.WithTimeout(ctx, 30*time.Second)
	defer readCancel()
	msg, err := consumer.ReadMessage(readCtx)
	require.NoError(t, err, "read from events topic")

	assert.Equal(t, "ganga", string(msg.Key))

	headers := make(map[string]string, len(msg.Headers))
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	assert.Equal(t, "ok", headers["status"])
	require.Contains(t, headers, "computed_at")
	_, err = time.Parse(time.RFC3339, headers["computed_at"])
	assert.NoError(t, err, "computed_at should be valid RFC3339")

	var got domain.Result
	require.NoError(t, json.Unmarshal(msg.Value, &got))
	assert.Equal(t, result, got)
}

// TestEventsWriterComingSoon verifies the degraded outcome publishes with
// its own status header and no score fields.
func TestEventsWriterComingSoon(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testEventsTopic)

	writer := events.NewWriter([]string{broker}, testEventsTopic, discardLogger())
	t.Cleanup(func() { _ = writer.Close() })

	result := domain.Result{River: "Kaveri", Status: domain.StatusComingSoon}

	var writeErr error
	for attempt := 0; attempt < 5; attempt++ {
		writeErr = writer.Publish(ctx, "kaveri", result)
		if writeErr == nil {
			break
		}
		time.Sleep(2 * time.Second)
	}
	require.NoError(t, writeErr)

	consumer := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     []string{broker},
		Topic:       testEventsTopic,
		GroupID:     fmt.Sprintf("test-consumer-%d", time.Now().UnixNano()),
		StartOffset: kafkago.FirstOffset,
	})
	t.Cleanup(func() { _ = consumer.Close() })

	readCtx, readCancel := context.WithTimeout(ctx, 30*time.Second)
	defer readCancel()
	msg, err := consumer.ReadMessage(readCtx)
	require.NoError(t, err)

	headers := make(map[string]string, len(msg.Headers))
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	assert.Equal(t, "coming_soon", headers["status"])

	var got domain.Result
	require.NoError(t, json.Unmarshal(msg.Value, &got))
	assert.Nil(t, got.RWQI)
	assert.Nil(t, got.Category)
}

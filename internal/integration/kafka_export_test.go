//go:build integration

package integration_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"strconv"
	"testing"
	"time"

	kafkaadapter "github.com/agrisense/field-data-etl/internal/adapter/kafka"
	"github.com/agrisense/field-data-etl/internal/config"
	"github.com/agrisense/field-data-etl/internal/domain"
	"github.com/agrisense/field-data-etl/internal/pipeline"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tckafka "github.com/testcontainers/testcontainers-go/modules/kafka"
)

const testExportTopic = "test-field-dataset"

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// startKafka launches a single-broker Kafka container and returns its
// bootstrap address.
func startKafka(ctx context.Context, t *testing.T) string {
	t.Helper()

	container, err := tckafka.Run(ctx, "confluentinc/confluent-local:7.5.0")
	require.NoError(t, err, "start kafka container")
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("terminate kafka container: %v", err)
		}
	})

	brokers, err := container.Brokers(ctx)
	require.NoError(t, err, "resolve kafka brokers")
	require.NotEmpty(t, brokers)
	return brokers[0]
}

func createTopic(t *testing.T, broker, topic string) {
	t.Helper()

	conn, err := kafkago.Dial("tcp", broker)
	require.NoError(t, err, "dial broker")
	defer conn.Close() //nolint:errcheck

	controller, err := conn.Controller()
	require.NoError(t, err, "resolve controller")

	ctrlConn, err := kafkago.Dial("tcp", net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port)))
	require.NoError(t, err, "dial controller")
	defer ctrlConn.Close() //nolint:errcheck

	require.NoError(t, ctrlConn.CreateTopics(kafkago.TopicConfig{
		Topic:             topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	}))
}

// TestExportRoundTrip publishes a small merged dataset through the Kafka
// writer and reads it back, verifying keys, values, and run metadata headers.
func TestExportRoundTrip(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testExportTopic)

	cfg := &config.Config{
		KafkaBrokers:     []string{broker},
		KafkaExportTopic: testExportTopic,
	}

	table := domain.NewTable("Field_ID", "Crop_type", "Annual_yield", "Weather_station")
	table.Append(domain.Row{"Field_ID": int64(1), "Crop_type": "cassava", "Annual_yield": 1.2, "Weather_station": int64(0)})
	table.Append(domain.Row{"Field_ID": int64(2), "Crop_type": "tea", "Annual_yield": 0.9, "Weather_station": nil})
	table.Append(domain.Row{"Field_ID": int64(3), "Crop_type": "wheat", "Annual_yield": 1.7, "Weather_station": int64(4)})

	finished := time.Now().UTC().Truncate(time.Second)
	report := pipeline.RunReport{
		RunID:      "integration-run",
		Pipeline:   "field",
		FinishedAt: finished,
		Rows:       table.Len(),
		Succeeded:  true,
	}

	writer := kafkaadapter.NewWriter(cfg, discardLogger())
	t.Cleanup(func() { _ = writer.Close() })

	require.NoError(t, writer.ExportTable(ctx, table, "Field_ID", report))

	consumer := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     []string{broker},
		Topic:       testExportTopic,
		GroupID:     fmt.Sprintf("test-export-%d", time.Now().UnixNano()),
		StartOffset: kafkago.FirstOffset,
	})
	t.Cleanup(func() { _ = consumer.Close() })

	byKey := make(map[string]kafkago.Message, table.Len())
	for len(byKey) < table.Len() {
		readCtx, readCancel := context.WithTimeout(ctx, 30*time.Second)
		msg, err := consumer.ReadMessage(readCtx)
		readCancel()
		require.NoError(t, err, "read from export topic")
		byKey[string(msg.Key)] = msg
	}

	require.Contains(t, byKey, "2")
	msg := byKey["2"]

	var row map[string]any
	require.NoError(t, json.Unmarshal(msg.Value, &row))
	assert.Equal(t, "tea", row["Crop_type"])
	assert.Equal(t, 0.9, row["Annual_yield"])
	assert.Nil(t, row["Weather_station"])

	headers := make(map[string]string, len(msg.Headers))
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	assert.Equal(t, "integration-run", headers["run_id"])
	parsed, err := time.Parse(time.RFC3339, headers["processed_at"])
	require.NoError(t, err, "processed_at should be valid RFC3339")
	assert.True(t, parsed.Equal(finished))
}

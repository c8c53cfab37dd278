// Package kafka publishes the merged field dataset to a sink topic for
// downstream consumers.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/agrisense/field-data-etl/internal/config"
	"github.com/agrisense/field-data-etl/internal/domain"
	"github.com/agrisense/field-data-etl/internal/pipeline"
	kafkago "github.com/segmentio/kafka-go"
)

// Writer produces one message per merged row to the export topic.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured export topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaExportTopic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger}
}

// ExportTable serializes every row of the merged dataset and publishes the
// whole batch in a single WriteMessages call. Messages are keyed by the join
// key so one field's rows land on one partition.
func (w *Writer) ExportTable(ctx context.Context, table *domain.Table, keyColumn string, report pipeline.RunReport) error {
	if table.Len() == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, 0, table.Len())
	for _, r := range table.Rows {
		msg, err := serializeRow(r, keyColumn, report)
		if err != nil {
			return err
		}
		msgs = append(msgs, msg)
	}
	if err := w.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("export %d rows: %w", len(msgs), err)
	}
	w.logger.Info("dataset exported", "rows", len(msgs), "run_id", report.RunID)
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeRow marshals one merged row into a Kafka message with run metadata headers.
func serializeRow(r domain.Row, keyColumn string, report pipeline.RunReport) (kafkago.Message, error) {
	data, err := json.Marshal(r)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize row: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(fmt.Sprint(r[keyColumn])),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "run_id", Value: []byte(report.RunID)},
			{Key: "processed_at", Value: []byte(report.FinishedAt.Format(time.RFC3339))},
		},
	}, nil
}

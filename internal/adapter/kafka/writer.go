// Package kafka publishes high-risk feature rows to the alert topic so
// downstream consumers (notification services, dashboards) can react without
// polling the query API.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/rainfall-risk-service/internal/config"
	"github.com/couchcryptid/rainfall-risk-service/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
)

// AlertWriter produces risk alert messages to a Kafka topic.
type AlertWriter struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewAlertWriter creates a Kafka producer for the configured alert topic.
func NewAlertWriter(cfg *config.Config, logger *slog.Logger) *AlertWriter {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.AlertTopic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &AlertWriter{writer: w, logger: logger}
}

// PublishBatch serializes and publishes the given feature rows in a single
// WriteMessages call. Callers pass the high-risk subset of a built set;
// an empty batch is a no-op.
func (w *AlertWriter) PublishBatch(ctx context.Context, rows []domain.FeatureRow, builtAt time.Time) error {
	if len(rows) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(rows))
	for i := range rows {
		msg, err := serializeToMessage(rows[i], builtAt)
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	if err := w.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("publish risk alerts: %w", err)
	}
	w.logger.Info("risk alerts published", "count", len(rows), "topic", w.writer.Topic)
	return nil
}

func (w *AlertWriter) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals a FeatureRow into an alert message keyed by
// PCODE, so alerts for one unit land on one partition in date order.
func serializeToMessage(row domain.FeatureRow, builtAt time.Time) (kafkago.Message, error) {
	data, err := json.Marshal(row)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize feature row: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(row.PCode),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "risk_level", Value: []byte(row.RiskLevel.String())},
			{Key: "built_at", Value: []byte(builtAt.Format(time.RFC3339))},
		},
	}, nil
}

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

	kafkaadapter "github.com/couchcryptid/rainfall-risk-service/internal/adapter/kafka"
	"github.com/couchcryptid/rainfall-risk-service/internal/config"
	"github.com/couchcryptid/rainfall-risk-service/internal/domain"
	"github.com/couchcryptid/rainfall-risk-service/internal/feature"
	"github.com/couchcryptid/rainfall-risk-service/internal/observability"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tckafka "github.com/testcontainers/testcontainers-go/modules/kafka"
)

const testAlertTopic = "test-rainfall-risk-alerts"

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// startKafka launches a single-broker Kafka container and returns its
// bootstrap address.
func startKafka(ctx context.Context, t *testing.T) string {
	t.Helper()

	container, err := tckafka.Run(ctx, "confluentinc/confluent-local:7.5.0",
		tckafka.WithClusterID("rainfall-risk-test"))
	require.NoError(t, err, "start kafka container")
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

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

	controller, err := conn.Controller()
	require.NoError(t, err)

	ctrlConn, err := kafkago.Dial("tcp", net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port)))
	require.NoError(t, err)
	defer ctrlConn.Close()

	require.NoError(t, ctrlConn.CreateTopics(kafkago.TopicConfig{
		Topic:             topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	}))
}

// TestAlertWriterPublishesHighRisk builds features over a dataset with one
// engineered burst and verifies the high-risk rows round-trip through Kafka
// with their headers intact.
func TestAlertWriterPublishesHighRisk(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testAlertTopic)

	// Ten calm days, then a 250mm burst: rain_3d = 260 >= 130 forces high
	// risk on the final day regardless of the anomaly flag.
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	obs := make([]domain.Observation, 0, 11)
	for i := 0; i < 10; i++ {
		obs = append(obs, domain.Observation{PCode: "KE001", Date: base.AddDate(0, 0, i), Rainfall: 5})
	}
	obs = append(obs, domain.Observation{PCode: "KE001", Date: base.AddDate(0, 0, 10), Rainfall: 250})

	pipeline := feature.New(feature.DefaultParams(), discardLogger(), observability.NewMetricsForTesting())
	set, err := pipeline.Build(obs)
	require.NoError(t, err)

	highRisk := set.HighRisk()
	require.Len(t, highRisk, 1, "expected exactly the burst day at high risk")

	cfg := &config.Config{
		KafkaBrokers: []string{broker},
		AlertTopic:   testAlertTopic,
	}
	writer := kafkaadapter.NewAlertWriter(cfg, discardLogger())
	t.Cleanup(func() { _ = writer.Close() })

	require.NoError(t, writer.PublishBatch(ctx, highRisk, set.BuiltAt))

	consumer := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     []string{broker},
		Topic:       testAlertTopic,
		GroupID:     fmt.Sprintf("test-alerts-%d", time.Now().UnixNano()),
		StartOffset: kafkago.FirstOffset,
	})
	t.Cleanup(func() { _ = consumer.Close() })

	readCtx, readCancel := context.WithTimeout(ctx, 30*time.Second)
	defer readCancel()
	msg, err := consumer.ReadMessage(readCtx)
	require.NoError(t, err, "read from alert topic")

	assert.Equal(t, []byte("KE001"), msg.Key)

	headers := make(map[string]string, len(msg.Headers))
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	assert.Equal(t, "high", headers["risk_level"])
	_, err = time.Parse(time.RFC3339, headers["built_at"])
	assert.NoError(t, err, "built_at header format")

	var row domain.FeatureRow
	require.NoError(t, json.Unmarshal(msg.Value, &row))
	assert.Equal(t, "KE001", row.PCode)
	assert.Equal(t, 250.0, row.Rainfall)
	assert.Equal(t, 260.0, row.Rain3d)
	assert.Equal(t, domain.RiskHigh, row.RiskLevel)
}

// TestAlertWriterEmptyBatch verifies an empty publish is a no-op rather than
// an error, so calm datasets don't need a Kafka broker at all.
func TestAlertWriterEmptyBatch(t *testing.T) {
	cfg := &config.Config{
		KafkaBrokers: []string{"localhost:1"}, // never dialed
		AlertTopic:   testAlertTopic,
	}
	writer := kafkaadapter.NewAlertWriter(cfg, discardLogger())
	t.Cleanup(func() { _ = writer.Close() })

	assert.NoError(t, writer.PublishBatch(context.Background(), nil, time.Now()))
}

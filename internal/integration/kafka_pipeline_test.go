//go:build integration

package integration_test

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/couchcryptid/water-project-quality/internal/adapter/kafka"
	"github.com/couchcryptid/water-project-quality/internal/config"
	"github.com/couchcryptid/water-project-quality/internal/domain"
	"github.com/couchcryptid/water-project-quality/internal/observability"
	"github.com/couchcryptid/water-project-quality/internal/pipeline"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testSourceTopic = "test-source"
	testSinkTopic   = "test-sink"
)

// assessedMessage holds a deserialized message read from the sink topic.
type assessedMessage struct {
	Project domain.AssessedProject
	Key     string
	Headers map[string]string
}

// readAssessed reads a single message from the sink consumer and deserializes it.
func readAssessed(ctx context.Context, t *testing.T, consumer *kafkago.Reader) assessedMessage {
	t.Helper()
	readCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	msg, err := consumer.ReadMessage(readCtx)
	require.NoError(t, err, "read from sink topic")

	headers := make(map[string]string, len(msg.Headers))
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	var project domain.AssessedProject
	require.NoError(t, json.Unmarshal(msg.Value, &project), "unmarshal sink message")

	return assessedMessage{
		Project: project,
		Key:     string(msg.Key),
		Headers: headers,
	}
}

func testConfig(broker, group string) *config.Config {
	return &config.Config{
		KafkaBrokers:       []string{broker},
		KafkaSourceTopic:   testSourceTopic,
		KafkaSinkTopic:     testSinkTopic,
		KafkaGroupID:       fmt.Sprintf("%s-%d", group, time.Now().UnixNano()),
		BatchFlushInterval: 5 * time.Second,
	}
}

func newSinkConsumer(t *testing.T, broker string) *kafkago.Reader {
	t.Helper()
	consumer := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     []string{broker},
		Topic:       testSinkTopic,
		GroupID:     fmt.Sprintf("test-sink-%d", time.Now().UnixNano()),
		StartOffset: kafkago.FirstOffset,
	})
	t.Cleanup(func() { _ = consumer.Close() })
	return consumer
}

// TestKafkaReaderWriter verifies the adapter layer: kafka.Reader (Extractor) and
// kafka.Writer (Loader) correctly round-trip a project through Kafka.
func TestKafkaReaderWriter(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	broker := startKafka(ctx, t)

	createTopic(t, broker, testSourceTopic)
	createTopic(t, broker, testSinkTopic)

	cfg := testConfig(broker, "test-reader")

	payload := loadMockData(t)[0] // DWS-WC-001, Berg River-Voëlvlei

	producer := &kafkago.Writer{
		Addr:  kafkago.TCP(broker),
		Topic: testSourceTopic,
	}
	t.Cleanup(func() { _ = producer.Close() })

	require.NoError(t, producer.WriteMessages(ctx, kafkago.Message{
		Key:   []byte("test-key"),
		Value: payload,
	}))

	// Retry because the consumer group may need time to rebalance before
	// partitions are assigned and messages become available.
	reader := kafka.NewReader(cfg, discardLogger())
	t.Cleanup(func() { _ = reader.Close() })

	var batch []domain.RawEvent
	for {
		var err error
		batch, err = reader.ExtractBatch(ctx, 1)
		require.NoError(t, err)
		if len(batch) > 0 {
			break
		}
		if ctx.Err() != nil {
			t.Fatal("timed out waiting for message from source topic")
		}
	}
	require.Len(t, batch, 1)
	raw := batch[0]
	assert.Equal(t, []byte("test-key"), raw.Key)
	assert.JSONEq(t, string(payload), string(raw.Value))
	assert.Equal(t, testSourceTopic, raw.Topic)
	require.NotNil(t, raw.Commit, "commit callback should be set")

	require.NoError(t, raw.Commit(ctx))

	transformer := pipeline.NewTransformer(discardLogger())
	project, err := transformer.Transform(ctx, raw)
	require.NoError(t, err)

	writer := kafka.NewWriter(cfg, discardLogger())
	t.Cleanup(func() { _ = writer.Close() })

	require.NoError(t, writer.LoadBatch(ctx, []domain.AssessedProject{project}))

	am := readAssessed(ctx, t, newSinkConsumer(t, broker))
	assert.Equal(t, "DWS-WC-001", am.Key, "sink key should be the project id")
	assert.Equal(t, "excellent", am.Headers[kafka.HeaderQualityTier])
	assert.Equal(t, "coordinates", am.Headers[kafka.HeaderLocationSource])
	_, err = time.Parse(time.RFC3339, am.Headers[kafka.HeaderProcessedAt])
	assert.NoError(t, err, "processed_at should be valid RFC3339")

	assert.Equal(t, "City of Cape Town", am.Project.Record.Municipality)
	assert.Equal(t, 100, am.Project.Assessment.Quality.Score)
	assert.True(t, am.Project.Assessment.Validation.IsComplete)
	assert.Empty(t, am.Project.Assessment.Issues)
}

// TestPipelineEndToEnd wires the full pipeline (Reader → Transformer → Writer) with
// real Kafka and verifies that every mock project is assessed.
func TestPipelineEndToEnd(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	broker := startKafka(ctx, t)

	createTopic(t, broker, testSourceTopic)
	createTopic(t, broker, testSinkTopic)

	cfg := testConfig(broker, "test-pipeline")

	records := loadMockData(t)

	producer := &kafkago.Writer{
		Addr:  kafkago.TCP(broker),
		Topic: testSourceTopic,
	}
	t.Cleanup(func() { _ = producer.Close() })

	msgs := make([]kafkago.Message, 0, len(records))
	for i, rec := range records {
		msgs = append(msgs, kafkago.Message{
			Key:   []byte(fmt.Sprintf("record-%d", i)),
			Value: rec,
		})
	}
	require.NoError(t, producer.WriteMessages(ctx, msgs...))

	reader := kafka.NewReader(cfg, discardLogger())
	t.Cleanup(func() { _ = reader.Close() })

	transformer := pipeline.NewTransformer(discardLogger())

	writer := kafka.NewWriter(cfg, discardLogger())
	t.Cleanup(func() { _ = writer.Close() })

	metrics := observability.NewMetricsForTesting()
	p := pipeline.New(reader, transformer, writer, discardLogger(), metrics, 50)

	pipelineCtx, pipelineCancel := context.WithCancel(ctx)
	errCh := make(chan error, 1)
	go func() { errCh <- p.Run(pipelineCtx) }()

	consumer := newSinkConsumer(t, broker)

	received := make(map[string]assessedMessage, len(records))
	for len(received) < len(records) {
		am := readAssessed(ctx, t, consumer)
		received[am.Key] = am
	}

	pipelineCancel()
	require.NoError(t, <-errCh)

	expected := map[string]struct {
		score  int
		tier   string
		source string
	}{
		"DWS-WC-001":  {100, "excellent", "coordinates"},
		"DWS-GP-002":  {100, "excellent", "coordinates"},
		"DWS-KZN-003": {100, "excellent", "coordinates"},
		"DWS-NW-005":  {90, "excellent", "coordinates"},
		"DWS-EC-007":  {85, "good", "address"},
		"TPL-001":     {28, "very_poor", "municipality_mapping"},
		"GEN-001":     {0, "very_poor", "municipality_mapping"},
		"DWS-KZN-008": {50, "poor", "municipality_fuzzy"},
		"DWS-XX-009":  {0, "very_poor", "fallback"},
		"DWS-LP-010":  {75, "fair", "municipality_mapping"},
	}
	require.Len(t, received, len(expected))

	for key, want := range expected {
		am, ok := received[key]
		if !assert.True(t, ok, "missing sink message for %s", key) {
			continue
		}
		a := am.Project.Assessment
		assert.Equal(t, key, a.ProjectID)
		assert.Equal(t, want.score, a.Quality.Score, "%s score", key)
		assert.Equal(t, want.tier, am.Headers[kafka.HeaderQualityTier], "%s tier header", key)
		assert.Equal(t, want.source, am.Headers[kafka.HeaderLocationSource], "%s source header", key)
		_, err := time.Parse(time.RFC3339, am.Headers[kafka.HeaderProcessedAt])
		assert.NoError(t, err, "invalid processed_at format")
	}

	// Spot-check the fuzzy-matched record against the gazetteer centroid.
	loc := received["DWS-KZN-008"].Project.Assessment.Location
	assert.Equal(t, "Msunduzi Local Municipality", loc.Municipality)
	assert.True(t, loc.IsMunicipalityCenter)
	require.NotNil(t, loc.Latitude)
	assert.InDelta(t, -29.6006, *loc.Latitude, 1e-9)

	assert.True(t, received["TPL-001"].Project.Assessment.IsTemplateData)
	assert.True(t, received["DWS-XX-009"].Project.Assessment.Location.IsFallback)
}

// TestPipelineTransformError verifies that an invalid message (poison pill) is
// skipped and the pipeline continues processing valid messages.
func TestPipelineTransformError(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	broker := startKafka(ctx, t)

	createTopic(t, broker, testSourceTopic)
	createTopic(t, broker, testSinkTopic)

	cfg := testConfig(broker, "test-poison")

	validPayload := loadMockData(t)[0]

	producer := &kafkago.Writer{
		Addr:  kafkago.TCP(broker),
		Topic: testSourceTopic,
	}
	t.Cleanup(func() { _ = producer.Close() })

	require.NoError(t, producer.WriteMessages(ctx,
		kafkago.Message{Key: []byte("bad"), Value: []byte("not-json{{{")},
		kafkago.Message{Key: []byte("array"), Value: []byte(`[{"name":"x"}]`)},
		kafkago.Message{Key: []byte("good"), Value: validPayload},
	))

	reader := kafka.NewReader(cfg, discardLogger())
	t.Cleanup(func() { _ = reader.Close() })

	transformer := pipeline.NewTransformer(discardLogger())

	writer := kafka.NewWriter(cfg, discardLogger())
	t.Cleanup(func() { _ = writer.Close() })

	metrics := observability.NewMetricsForTesting()
	p := pipeline.New(reader, transformer, writer, discardLogger(), metrics, 50)

	pipelineCtx, pipelineCancel := context.WithCancel(ctx)
	errCh := make(chan error, 1)
	go func() { errCh <- p.Run(pipelineCtx) }()

	consumer := newSinkConsumer(t, broker)

	am := readAssessed(ctx, t, consumer)
	assert.Equal(t, "DWS-WC-001", am.Key)
	assert.Equal(t, 100, am.Project.Assessment.Quality.Score)

	// Verify no second message arrives (the poison pills were skipped).
	readCtx, readCancel := context.WithTimeout(ctx, 5*time.Second)
	_, err := consumer.ReadMessage(readCtx)
	readCancel()
	assert.Error(t, err, "expected no second message on sink topic")

	pipelineCancel()
	require.NoError(t, <-errCh)
}

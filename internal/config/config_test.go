package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const defaultBroker = "localhost:9092"

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{defaultBroker}, cfg.KafkaBrokers)
	assert.Equal(t, "raw-projects", cfg.KafkaSourceTopic)
	assert.Equal(t, "assessed-projects", cfg.KafkaSinkTopic)
	assert.Equal(t, "project-quality-assessor", cfg.KafkaGroupID)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, 50, cfg.BatchSize)
	assert.Equal(t, 500*time.Millisecond, cfg.BatchFlushInterval)
	assert.Equal(t, 8, cfg.AssessWorkers)
	assert.Equal(t, int64(1<<20), cfg.HTTPMaxBodyBytes)
	assert.InDelta(t, 50, cfg.HTTPRateLimit, 0)
	assert.Equal(t, []string{"*"}, cfg.HTTPCORSOrigins)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", "broker1:9092, broker2:9092")
	t.Setenv("KAFKA_SOURCE_TOPIC", "custom-source")
	t.Setenv("KAFKA_SINK_TOPIC", "custom-sink")
	t.Setenv("KAFKA_GROUP_ID", "custom-group")
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")
	t.Setenv("BATCH_SIZE", "100")
	t.Setenv("BATCH_FLUSH_INTERVAL", "1s")
	t.Setenv("ASSESS_WORKERS", "32")
	t.Setenv("HTTP_MAX_BODY_BYTES", "4096")
	t.Setenv("HTTP_RATE_LIMIT", "0")
	t.Setenv("HTTP_CORS_ORIGINS", "https://dash.example.org, http://localhost:3000")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "custom-source", cfg.KafkaSourceTopic)
	assert.Equal(t, "custom-sink", cfg.KafkaSinkTopic)
	assert.Equal(t, "custom-group", cfg.KafkaGroupID)
	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, 100, cfg.BatchSize)
	assert.Equal(t, 1*time.Second, cfg.BatchFlushInterval)
	assert.Equal(t, 32, cfg.AssessWorkers)
	assert.Equal(t, int64(4096), cfg.HTTPMaxBodyBytes)
	assert.InDelta(t, 0, cfg.HTTPRateLimit, 0)
	assert.Equal(t, []string{"https://dash.example.org", "http://localhost:3000"}, cfg.HTTPCORSOrigins)
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{"SHUTDOWN_TIMEOUT", "not-a-duration"},
		{"SHUTDOWN_TIMEOUT", "-1s"},
		{"BATCH_SIZE", "0"},
		{"BATCH_SIZE", "9999"},
		{"BATCH_FLUSH_INTERVAL", "not-a-duration"},
		{"ASSESS_WORKERS", "0"},
		{"ASSESS_WORKERS", "257"},
		{"ASSESS_WORKERS", "many"},
		{"HTTP_MAX_BODY_BYTES", "0"},
		{"HTTP_MAX_BODY_BYTES", "-10"},
		{"HTTP_MAX_BODY_BYTES", "1MB"},
		{"HTTP_RATE_LIMIT", "-1"},
		{"HTTP_RATE_LIMIT", "fast"},
		{"HTTP_RATE_LIMIT", "NaN"},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.key)
		})
	}
}

func TestLoad_EmptyBrokerList(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", " , ")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "KAFKA_BROKERS")
}

func TestLoad_SameSourceAndSink(t *testing.T) {
	t.Setenv("KAFKA_SOURCE_TOPIC", "projects")
	t.Setenv("KAFKA_SINK_TOPIC", "projects")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "KAFKA_SINK_TOPIC")
}

package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

const (
	defaultAssessWorkers    = 8
	maxAssessWorkers        = 256
	defaultHTTPMaxBodyBytes = 1 << 20
	defaultHTTPRateLimit    = 50
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	KafkaBrokers     []string
	KafkaSourceTopic string
	KafkaSinkTopic   string
	KafkaGroupID     string
	HTTPAddr         string
	LogLevel         string
	LogFormat        string
	ShutdownTimeout  time.Duration

	BatchSize          int
	BatchFlushInterval time.Duration

	// AssessWorkers bounds concurrent assessments in batch requests.
	AssessWorkers int
	// HTTPMaxBodyBytes caps request bodies on the assessment API.
	HTTPMaxBodyBytes int64
	// HTTPRateLimit is the sustained API request rate per second. Zero disables limiting.
	HTTPRateLimit float64
	// HTTPCORSOrigins lists origins allowed to call the API from a browser.
	HTTPCORSOrigins []string
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	batchSize, err := sharedcfg.ParseBatchSize()
	if err != nil {
		return nil, err
	}

	flushInterval, err := sharedcfg.ParseBatchFlushInterval()
	if err != nil {
		return nil, err
	}

	workers, err := parseAssessWorkers()
	if err != nil {
		return nil, err
	}

	maxBody, err := parseHTTPMaxBodyBytes()
	if err != nil {
		return nil, err
	}

	rateLimit, err := parseHTTPRateLimit()
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		KafkaBrokers:       sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaSourceTopic:   sharedcfg.EnvOrDefault("KAFKA_SOURCE_TOPIC", "raw-projects"),
		KafkaSinkTopic:     sharedcfg.EnvOrDefault("KAFKA_SINK_TOPIC", "assessed-projects"),
		KafkaGroupID:       sharedcfg.EnvOrDefault("KAFKA_GROUP_ID", "project-quality-assessor"),
		HTTPAddr:           sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:           sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:          sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout:    shutdownTimeout,
		BatchSize:          batchSize,
		BatchFlushInterval: flushInterval,
		AssessWorkers:      workers,
		HTTPMaxBodyBytes:   maxBody,
		HTTPRateLimit:      rateLimit,
		// ParseBrokers splits and trims any comma-separated list.
		HTTPCORSOrigins:    sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("HTTP_CORS_ORIGINS", "*")),
	}

	if len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_BROKERS is required")
	}
	if cfg.KafkaSourceTopic == "" {
		return nil, errors.New("KAFKA_SOURCE_TOPIC is required")
	}
	if cfg.KafkaSinkTopic == "" {
		return nil, errors.New("KAFKA_SINK_TOPIC is required")
	}
	if cfg.KafkaSourceTopic == cfg.KafkaSinkTopic {
		return nil, errors.New("KAFKA_SOURCE_TOPIC and KAFKA_SINK_TOPIC must differ")
	}

	return cfg, nil
}

func parseAssessWorkers() (int, error) {
	s := os.Getenv("ASSESS_WORKERS")
	if s == "" {
		return defaultAssessWorkers, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 || n > maxAssessWorkers {
		return 0, fmt.Errorf("invalid ASSESS_WORKERS: must be 1-%d", maxAssessWorkers)
	}
	return n, nil
}

func parseHTTPMaxBodyBytes() (int64, error) {
	s := os.Getenv("HTTP_MAX_BODY_BYTES")
	if s == "" {
		return defaultHTTPMaxBodyBytes, nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n <= 0 {
		return 0, errors.New("invalid HTTP_MAX_BODY_BYTES: must be a positive integer")
	}
	return n, nil
}

func parseHTTPRateLimit() (float64, error) {
	s := os.Getenv("HTTP_RATE_LIMIT")
	if s == "" {
		return defaultHTTPRateLimit, nil
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil || n < 0 || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, errors.New("invalid HTTP_RATE_LIMIT: must be a non-negative number")
	}
	return n, nil
}

package observability

import (
	"github.com/couchcryptid/water-project-quality/internal/domain"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "project_quality"

// Metrics holds the Prometheus counters, histograms, and gauges for the
// assessment pipeline and HTTP API.
type Metrics struct {
	MessagesConsumed prometheus.Counter
	MessagesProduced prometheus.Counter
	TransformErrors  prometheus.Counter
	PipelineRunning  prometheus.Gauge

	// Batch processing metrics.
	BatchSize               prometheus.Histogram
	BatchProcessingDuration prometheus.Histogram

	// Assessment outcome metrics.
	Assessments             *prometheus.CounterVec // labels: quality_tier
	AssessmentsCompleteness *prometheus.CounterVec // labels: completeness_tier
	LocationSources         *prometheus.CounterVec // labels: source
	Completeness            prometheus.Histogram

	HTTPAssessments *prometheus.CounterVec // labels: endpoint
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(m.collectors()...)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, so tests
// can build as many as they like without "already registered" panics.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

// ObserveAssessment records the outcome of one assessment.
func (m *Metrics) ObserveAssessment(a domain.Assessment) {
	m.Assessments.WithLabelValues(string(a.Quality.Tier)).Inc()
	m.AssessmentsCompleteness.WithLabelValues(string(a.Validation.QualityTier)).Inc()
	m.LocationSources.WithLabelValues(string(a.Location.Source)).Inc()
	m.Completeness.Observe(a.Validation.Completeness)
}

func newMetrics() *Metrics {
	return &Metrics{
		MessagesConsumed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_consumed_total",
			Help:      "Total messages read from the source topic.",
		}),
		MessagesProduced: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_produced_total",
			Help:      "Total messages written to the sink topic.",
		}),
		TransformErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transform_errors_total",
			Help:      "Total messages that could not be parsed as a project record.",
		}),
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "pipeline_running",
			Help:      "1 when the pipeline is active, 0 when shut down.",
		}),
		BatchSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "batch_size",
			Help:      "Number of messages per batch extracted from Kafka.",
			Buckets:   []float64{1, 5, 10, 20, 30, 40, 50, 75, 100},
		}),
		BatchProcessingDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "batch_processing_duration_seconds",
			Help:      "Duration of a complete batch extract-assess-load cycle.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10},
		}),
		Assessments: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "assessments_total",
			Help:      "Assessments produced, by composite quality tier.",
		}, []string{"quality_tier"}),
		AssessmentsCompleteness: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "assessments_completeness_total",
			Help:      "Assessments produced, by completeness tier.",
		}, []string{"completeness_tier"}),
		LocationSources: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "location_resolutions_total",
			Help:      "Resolved locations, by resolution source.",
		}, []string{"source"}),
		Completeness: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "completeness_percent",
			Help:      "Weighted completeness of assessed records.",
			Buckets:   []float64{10, 20, 30, 40, 50, 60, 70, 80, 90, 100},
		}),
		HTTPAssessments: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_assessments_total",
			Help:      "Records assessed through the HTTP API, by endpoint.",
		}, []string{"endpoint"}),
	}
}

func (m *Metrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.MessagesConsumed,
		m.MessagesProduced,
		m.TransformErrors,
		m.PipelineRunning,
		m.BatchSize,
		m.BatchProcessingDuration,
		m.Assessments,
		m.AssessmentsCompleteness,
		m.LocationSources,
		m.Completeness,
		m.HTTPAssessments,
	}
}

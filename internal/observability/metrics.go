package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the ETL runs.
type Metrics struct {
	RowsIngested        *prometheus.CounterVec // labels: source={field_sql,station_mapping,weather_csv}
	RowsExported        prometheus.Counter
	TransformErrors     prometheus.Counter
	Extractions         *prometheus.CounterVec // labels: measurement
	ExtractionUnmatched prometheus.Counter

	PipelineDuration *prometheus.HistogramVec // labels: pipeline={field,weather}
	PipelineRunning  prometheus.Gauge
}

// NewMetrics creates and registers all pipeline metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.RowsIngested,
		m.RowsExported,
		m.TransformErrors,
		m.Extractions,
		m.ExtractionUnmatched,
		m.PipelineDuration,
		m.PipelineRunning,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, so parallel
// tests avoid "already registered" panics.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		RowsIngested: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "field_etl",
			Name:      "rows_ingested_total",
			Help:      "Rows materialized from each ingestion source.",
		}, []string{"source"}),
		RowsExported: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "field_etl",
			Name:      "rows_exported_total",
			Help:      "Merged dataset rows published to the sink topic.",
		}),
		TransformErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "field_etl",
			Name:      "transform_errors_total",
			Help:      "Pipeline runs aborted by a transform failure.",
		}),
		Extractions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "field_etl",
			Name:      "extractions_total",
			Help:      "Messages matched per measurement name.",
		}, []string{"measurement"}),
		ExtractionUnmatched: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "field_etl",
			Name:      "extractions_unmatched_total",
			Help:      "Messages matching no configured pattern.",
		}),
		PipelineDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "field_etl",
			Name:      "pipeline_duration_seconds",
			Help:      "Duration of a complete pipeline run.",
			Buckets:   []float64{0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
		}, []string{"pipeline"}),
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "field_etl",
			Name:      "pipeline_running",
			Help:      "1 while a batch run is in progress, 0 otherwise.",
		}),
	}
}

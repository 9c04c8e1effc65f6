package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// rainfall risk service.
type Metrics struct {
	ObservationsLoaded  prometheus.Counter
	ObservationsSkipped prometheus.Counter

	// Feature build metrics.
	FeatureRows      prometheus.Gauge
	AnomaliesFlagged prometheus.Counter
	RiskRows         *prometheus.CounterVec // label: level={low,medium,high}
	BuildDuration    prometheus.Histogram

	// Alerting metrics.
	AlertsPublished prometheus.Counter
}

// NewMetrics creates and registers all service metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		ObservationsLoaded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "rainfall_risk",
			Name:      "observations_loaded_total",
			Help:      "Total observation rows parsed from the source CSV.",
		}),
		ObservationsSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "rainfall_risk",
			Name:      "observations_skipped_total",
			Help:      "Total source rows skipped for missing PCODE or rainfall.",
		}),
		FeatureRows: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "rainfall_risk",
			Name:      "feature_rows",
			Help:      "Rows in the most recently built feature set.",
		}),
		AnomaliesFlagged: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "rainfall_risk",
			Name:      "anomalies_flagged_total",
			Help:      "Total rows flagged anomalous by the rolling z-score.",
		}),
		RiskRows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rainfall_risk",
			Name:      "risk_rows_total",
			Help:      "Classified rows by risk level.",
		}, []string{"level"}),
		BuildDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "rainfall_risk",
			Name:      "build_duration_seconds",
			Help:      "Duration of a complete feature pipeline build.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5, 5},
		}),
		AlertsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "rainfall_risk",
			Name:      "alerts_published_total",
			Help:      "High-risk rows published to the alert topic.",
		}),
	}

	prometheus.MustRegister(
		m.ObservationsLoaded,
		m.ObservationsSkipped,
		m.FeatureRows,
		m.AnomaliesFlagged,
		m.RiskRows,
		m.BuildDuration,
		m.AlertsPublished,
	)

	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		ObservationsLoaded:  prometheus.NewCounter(prometheus.CounterOpts{Namespace: "rainfall_risk", Name: "observations_loaded_total"}),
		ObservationsSkipped: prometheus.NewCounter(prometheus.CounterOpts{Namespace: "rainfall_risk", Name: "observations_skipped_total"}),
		FeatureRows:         prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "rainfall_risk", Name: "feature_rows"}),
		AnomaliesFlagged:    prometheus.NewCounter(prometheus.CounterOpts{Namespace: "rainfall_risk", Name: "anomalies_flagged_total"}),
		RiskRows:            prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "rainfall_risk", Name: "risk_rows_total"}, []string{"level"}),
		BuildDuration:       prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "rainfall_risk", Name: "build_duration_seconds"}),
		AlertsPublished:     prometheus.NewCounter(prometheus.CounterOpts{Namespace: "rainfall_risk", Name: "alerts_published_total"}),
	}
}

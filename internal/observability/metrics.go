package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// monthly analysis pipeline.
type Metrics struct {
	FarmsAnalyzed    prometheus.Counter
	AnalysisFailures prometheus.Counter
	NoDataPeriods    prometheus.Counter
	TriggersFired    prometheus.Counter
	ClaimsCreated    prometheus.Counter
	BatchRunning     prometheus.Gauge

	BatchSize     prometheus.Histogram
	BatchDuration prometheus.Histogram
	RiskScore     prometheus.Histogram

	CacheLookups *prometheus.CounterVec // labels: result={hit,miss}
}

// NewMetrics creates and registers all pipeline metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.FarmsAnalyzed,
		m.AnalysisFailures,
		m.NoDataPeriods,
		m.TriggersFired,
		m.ClaimsCreated,
		m.BatchRunning,
		m.BatchSize,
		m.BatchDuration,
		m.RiskScore,
		m.CacheLookups,
	)
	return m
}

// NewMetricsForTesting creates Metrics with unregistered collectors to
// avoid "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		FarmsAnalyzed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "drought",
			Name:      "farms_analyzed_total",
			Help:      "Total farms successfully analyzed.",
		}),
		AnalysisFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "drought",
			Name:      "analysis_failures_total",
			Help:      "Total per-farm analysis failures.",
		}),
		NoDataPeriods: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "drought",
			Name:      "no_data_periods_total",
			Help:      "Farm-months skipped because the provider had no imagery.",
		}),
		TriggersFired: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "drought",
			Name:      "triggers_fired_total",
			Help:      "Assessments that fired the insurance trigger.",
		}),
		ClaimsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "drought",
			Name:      "claims_created_total",
			Help:      "Claims auto-created from triggered assessments.",
		}),
		BatchRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "drought",
			Name:      "batch_running",
			Help:      "1 while a monthly batch is in progress, 0 otherwise.",
		}),
		BatchSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "drought",
			Name:      "batch_size",
			Help:      "Number of farms per monthly batch run.",
			Buckets:   []float64{1, 10, 50, 100, 250, 500, 1000, 2500},
		}),
		BatchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "drought",
			Name:      "batch_duration_seconds",
			Help:      "Duration of a complete monthly batch run.",
			Buckets:   []float64{0.1, 0.5, 1, 5, 15, 30, 60, 120, 300},
		}),
		RiskScore: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "drought",
			Name:      "risk_score",
			Help:      "Distribution of computed risk scores.",
			Buckets:   []float64{0, 10, 20, 30, 40, 50, 60, 70, 80, 90, 100},
		}),
		CacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "drought",
			Name:      "reading_cache_lookups_total",
			Help:      "Reading cache lookups by result.",
		}, []string{"result"}),
	}
}

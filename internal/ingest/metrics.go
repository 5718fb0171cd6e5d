package ingest

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	metricsNamespace = "gtc"
	metricsSubsystem = "ingest"
)

// Metrics collects ingestion counters. A nil *Metrics records nothing.
type Metrics struct {
	runs        *prometheus.CounterVec
	runDuration *prometheus.HistogramVec
	pages       *prometheus.CounterVec
	fetched     *prometheus.CounterVec
	inserted    *prometheus.CounterVec
	batches     *prometheus.CounterVec
}

// NewMetrics creates the ingestion collectors and registers them with reg
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: metricsSubsystem,
			Name:      "runs_total",
			Help:      "Ingestion runs by chain and terminal result.",
		}, []string{"chain", "result"}),
		runDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: metricsSubsystem,
			Name:      "run_duration_seconds",
			Help:      "Wall time of ingestion runs.",
			Buckets:   prometheus.ExponentialBuckets(0.5, 2, 12),
		}, []string{"chain"}),
		pages: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: metricsSubsystem,
			Name:      "pages_fetched_total",
			Help:      "Page requests issued to the query provider.",
		}, []string{"chain", "kind"}),
		fetched: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: metricsSubsystem,
			Name:      "records_fetched_total",
			Help:      "Records returned by the query provider.",
		}, []string{"chain", "kind"}),
		inserted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: metricsSubsystem,
			Name:      "records_inserted_total",
			Help:      "Records newly added to the store; skipped duplicates are not counted.",
		}, []string{"chain", "kind"}),
		batches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: metricsSubsystem,
			Name:      "batches_written_total",
			Help:      "Insert statements committed to the store.",
		}, []string{"chain", "kind"}),
	}

	reg.MustRegister(m.runs, m.runDuration, m.pages, m.fetched, m.inserted, m.batches)

	return m
}

func (m *Metrics) observeStage(chainName string, s StageReport) {
	if m == nil {
		return
	}
	kind := s.Kind.Plural()
	m.pages.WithLabelValues(chainName, kind).Add(float64(s.Pages))
	m.fetched.WithLabelValues(chainName, kind).Add(float64(s.Fetched))
	m.inserted.WithLabelValues(chainName, kind).Add(float64(s.Inserted))
	m.batches.WithLabelValues(chainName, kind).Add(float64(s.Batches))
}

func (m *Metrics) observeRun(chainName string, failed bool, elapsed time.Duration) {
	if m == nil {
		return
	}
	result := "completed"
	if failed {
		result = "failed"
	}
	m.runs.WithLabelValues(chainName, result).Inc()
	m.runDuration.WithLabelValues(chainName).Observe(elapsed.Seconds())
}


// Package metrics holds the Prometheus collectors of the distribution pipeline.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels of an ingestion run.
const (
	OutcomeSuccess  = "success"
	OutcomeRejected = "rejected"
	OutcomeFailed   = "failed"
)

// IngestMetrics records ingestion runs. A nil *IngestMetrics is valid and records nothing.
type IngestMetrics struct {
	runs          *prometheus.CounterVec
	rejections    *prometheus.CounterVec
	records       prometheus.Counter
	runDuration   *prometheus.HistogramVec
	recipientLoad prometheus.Histogram
}

// NewIngestMetrics creates the collectors and registers them with reg.
func NewIngestMetrics(reg prometheus.Registerer) (*IngestMetrics, error) {
	m := &IngestMetrics{
		runs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ingest_runs_total",
				Help: "Total number of distribution runs by policy and outcome.",
			},
			[]string{"policy", "outcome"},
		),
		rejections: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ingest_rejections_total",
				Help: "Total number of rejected distribution runs by error kind.",
			},
			[]string{"kind"},
		),
		records: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ingest_records_total",
			Help: "Total number of data records persisted by distribution runs.",
		}),
		runDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ingest_run_duration_seconds",
				Help:    "Duration of distribution runs in seconds.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"outcome"},
		),
		recipientLoad: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "ingest_records_per_recipient",
			Help:    "Number of records assigned to one recipient in one run.",
			Buckets: prometheus.ExponentialBuckets(1, 4, 8),
		}),
	}

	for _, c := range []prometheus.Collector{m.runs, m.rejections, m.records, m.runDuration, m.recipientLoad} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// ObserveSuccess records a completed run and the share each recipient received.
func (m *IngestMetrics) ObserveSuccess(policy string, records int, groupSizes []int, d time.Duration) {
	if m == nil {
		return
	}
	m.runs.WithLabelValues(policy, OutcomeSuccess).Inc()
	m.records.Add(float64(records))
	m.runDuration.WithLabelValues(OutcomeSuccess).Observe(d.Seconds())
	for _, n := range groupSizes {
		m.recipientLoad.Observe(float64(n))
	}
}

// ObserveRejected records a run refused for bad input.
func (m *IngestMetrics) ObserveRejected(policy, kind string, d time.Duration) {
	if m == nil {
		return
	}
	m.runs.WithLabelValues(policy, OutcomeRejected).Inc()
	m.rejections.WithLabelValues(kind).Inc()
	m.runDuration.WithLabelValues(OutcomeRejected).Observe(d.Seconds())
}

// ObserveFailed records a run that failed after validation.
func (m *IngestMetrics) ObserveFailed(policy string, d time.Duration) {
	if m == nil {
		return
	}
	m.runs.WithLabelValues(policy, OutcomeFailed).Inc()
	m.runDuration.WithLabelValues(OutcomeFailed).Observe(d.Seconds())
}

package metrics

import (
	"time"

	"stockpulse/internal/analytics"

	"github.com/prometheus/client_golang/prometheus"
)

// AnalyticsMetrics records dashboard runs. It satisfies analytics.Recorder.
type AnalyticsMetrics struct {
	runs     *prometheus.CounterVec
	duration *prometheus.HistogramVec
	insights *prometheus.CounterVec
	rejected *prometheus.CounterVec
}

func NewAnalyticsMetrics(reg prometheus.Registerer) *AnalyticsMetrics {
	m := &AnalyticsMetrics{
		runs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stockpulse_dashboard_runs_total",
				Help: "Dashboard requests by outcome",
			},
			[]string{"outcome"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "stockpulse_dashboard_duration_seconds",
				Help:    "Dashboard request latency by outcome",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"outcome"},
		),
		insights: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stockpulse_insights_generated_total",
				Help: "Insights emitted by type and category",
			},
			[]string{"type", "category"},
		),
		rejected: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stockpulse_rejected_records_total",
				Help: "Input records dropped by validation",
			},
			[]string{"kind"},
		),
	}

	reg.MustRegister(m.runs, m.duration, m.insights, m.rejected)
	return m
}

func (m *AnalyticsMetrics) ObserveRun(outcome string, elapsed time.Duration) {
	m.runs.WithLabelValues(outcome).Inc()
	m.duration.WithLabelValues(outcome).Observe(elapsed.Seconds())
}

func (m *AnalyticsMetrics) ObserveInsights(insights []analytics.Insight) {
	for _, insight := range insights {
		m.insights.WithLabelValues(string(insight.Type), insight.Category).Inc()
	}
}

func (m *AnalyticsMetrics) ObserveRejected(kind string, count int) {
	if count <= 0 {
		return
	}
	m.rejected.WithLabelValues(kind).Add(float64(count))
}

var _ analytics.Recorder = (*AnalyticsMetrics)(nil)

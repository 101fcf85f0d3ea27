package metrics

import "github.com/prometheus/client_golang/prometheus"

// BookingMetrics exposes counters/histograms for the booking wizard.
type BookingMetrics struct {
	submissionsTotal  *prometheus.CounterVec
	submissionLatency prometheus.Histogram
	stepTransitions   *prometheus.CounterVec
	activeSessions    prometheus.Gauge
}

func NewBookingMetrics(reg prometheus.Registerer) *BookingMetrics {
	m := &BookingMetrics{
		submissionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clientportal",
			Subsystem: "booking",
			Name:      "submissions_total",
			Help:      "Total appointment submission attempts by outcome",
		}, []string{"outcome"}),
		submissionLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "clientportal",
			Subsystem: "booking",
			Name:      "submission_latency_seconds",
			Help:      "Latency of appointment submission round trips",
			Buckets:   prometheus.DefBuckets,
		}),
		stepTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clientportal",
			Subsystem: "booking",
			Name:      "step_transitions_total",
			Help:      "Total wizard step transitions by target step",
		}, []string{"step"}),
		activeSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "clientportal",
			Subsystem: "booking",
			Name:      "active_sessions",
			Help:      "Wizard sessions currently held in memory",
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.submissionsTotal, m.submissionLatency, m.stepTransitions, m.activeSessions)
	return m
}

func (m *BookingMetrics) ObserveSubmission(outcome string, seconds float64) {
	if m == nil {
		return
	}
	m.submissionsTotal.WithLabelValues(outcome).Inc()
	m.submissionLatency.Observe(seconds)
}

func (m *BookingMetrics) ObserveStep(step string) {
	if m == nil {
		return
	}
	m.stepTransitions.WithLabelValues(step).Inc()
}

func (m *BookingMetrics) SetActiveSessions(n int) {
	if m == nil {
		return
	}
	m.activeSessions.Set(float64(n))
}

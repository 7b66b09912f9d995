package gasapi

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics records per-action request counts and latency.
type Metrics struct {
	requests *prometheus.CounterVec
	latency  *prometheus.HistogramVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "lapin",
			Subsystem: "gas",
			Name:      "requests_total",
			Help:      "Remote business API calls by action and outcome.",
		}, []string{"action", "outcome"}),
		latency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "lapin",
			Subsystem: "gas",
			Name:      "request_duration_seconds",
			Help:      "Remote business API call latency.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 4, 8, 16},
		}, []string{"action"}),
	}
}

func (m *Metrics) observe(action, outcome string, d time.Duration) {
	m.requests.WithLabelValues(action, outcome).Inc()
	m.latency.WithLabelValues(action).Observe(d.Seconds())
}

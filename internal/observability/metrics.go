package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "primepass"

// Outcome labels.
const (
	OutcomeOK       = "ok"
	OutcomeRejected = "rejected"
	OutcomeError    = "error"
	OutcomeCanceled = "canceled"
)

// Metrics groups the service collectors.
type Metrics struct {
	Operations     *prometheus.CounterVec
	Generated      prometheus.Counter
	StrengthScore  prometheus.Histogram
	HashDuration   *prometheus.HistogramVec
	HashesInFlight prometheus.Gauge
}

// NewMetrics registers the collectors on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Operations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operations_total",
			Help:      "Credential operations by name and outcome.",
		}, []string{"operation", "outcome"}),
		Generated: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "passwords_generated_total",
			Help:      "Passwords generated.",
		}),
		StrengthScore: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "strength_score",
			Help:      "Distribution of analyzed strength scores.",
			Buckets:   []float64{0, 20, 40, 60, 80, 100},
		}),
		HashDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "hash_duration_seconds",
			Help:      "Time spent hashing, by algorithm.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
		}, []string{"algorithm"}),
		HashesInFlight: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "bcrypt_in_flight",
			Help:      "bcrypt computations currently running.",
		}),
	}
}

// Observe counts one operation outcome.
func (m *Metrics) Observe(operation, outcome string) {
	m.Operations.WithLabelValues(operation, outcome).Inc()
}

// ObserveHash records a hash duration.
func (m *Metrics) ObserveHash(algorithm string, took time.Duration) {
	m.HashDuration.WithLabelValues(algorithm).Observe(took.Seconds())
}

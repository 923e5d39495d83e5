package see

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for submissions. A nil *Metrics is valid
// and records nothing.
type Metrics struct {
	// Submission outcomes by kind, category and result variant
	Submissions *prometheus.CounterVec

	// Hard failures by operation
	Failures *prometheus.CounterVec

	// Duration of each operation including the remote call
	Duration *prometheus.HistogramVec
}

// NewMetrics creates submission metrics registered with reg
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Submissions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "einvoice_submissions_total",
			Help: "Total submissions by document kind, category and result variant",
		}, []string{"kind", "category", "variant"}),

		Failures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "einvoice_failures_total",
			Help: "Total operations that failed before a result was produced",
		}, []string{"operation"}),

		Duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "einvoice_operation_duration_seconds",
			Help:    "Duration of submission and status operations",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}, []string{"operation"}),
	}
}

// IncrementSubmission records a submission outcome
func (m *Metrics) IncrementSubmission(kind, category, variant string) {
	if m != nil {
		m.Submissions.WithLabelValues(kind, category, variant).Inc()
	}
}

// IncrementFailure records a hard failure
func (m *Metrics) IncrementFailure(operation string) {
	if m != nil {
		m.Failures.WithLabelValues(operation).Inc()
	}
}

// ObserveDuration records how long an operation took
func (m *Metrics) ObserveDuration(operation string, d time.Duration) {
	if m != nil {
		m.Duration.WithLabelValues(operation).Observe(d.Seconds())
	}
}

package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce           sync.Once
	verificationsCreated   prometheus.Counter
	decisionsTotal         *prometheus.CounterVec
	webhookAttemptsTotal   *prometheus.CounterVec
	evaluationDurationSecs prometheus.Histogram
)

// RegisterMetrics initialises the Prometheus collectors for the verification pipeline.
func RegisterMetrics() {
	registerOnce.Do(func() {
		verificationsCreated = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "verifications_created_total",
			Help: "Total number of verification submissions ingested.",
		})

		decisionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "verification_decisions_total",
			Help: "Total number of decisions recorded, by resulting status and mode.",
		}, []string{"status", "mode"})

		webhookAttemptsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "webhook_delivery_attempts_total",
			Help: "Total number of webhook delivery attempts, by outcome.",
		}, []string{"outcome"})

		evaluationDurationSecs = prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "verification_evaluation_duration_seconds",
			Help:    "Latency distribution for asynchronous evaluations.",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0},
		})

		prometheus.MustRegister(verificationsCreated, decisionsTotal, webhookAttemptsTotal, evaluationDurationSecs)
	})
}

// VerificationsCreated exposes the ingestion counter.
func VerificationsCreated() prometheus.Counter {
	RegisterMetrics()
	return verificationsCreated
}

// Decisions exposes the decision counter.
func Decisions() *prometheus.CounterVec {
	RegisterMetrics()
	return decisionsTotal
}

// WebhookAttempts exposes the delivery attempt counter.
func WebhookAttempts() *prometheus.CounterVec {
	RegisterMetrics()
	return webhookAttemptsTotal
}

// EvaluationDuration exposes the evaluation latency histogram.
func EvaluationDuration() prometheus.Histogram {
	RegisterMetrics()
	return evaluationDurationSecs
}

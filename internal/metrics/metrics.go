// Package metrics defines the Prometheus collectors exported at /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Advertisements
	AdViews = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "airwell_ad_views_total",
			Help: "Advertisements served by the random endpoint",
		},
	)

	AdClicks = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "airwell_ad_clicks_total",
			Help: "Advertisement clicks recorded",
		},
	)

	// Receipt verification
	ReceiptVerifications = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "airwell_receipt_verifications_total",
			Help: "Receipt verification attempts by outcome (valid, invalid, error, rejected)",
		},
		[]string{"outcome"},
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "airwell_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "airwell_circuit_breaker_transitions_total",
			Help: "Circuit breaker state transitions",
		},
		[]string{"name", "from", "to"},
	)

	// Scheduled jobs
	CronjobRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "airwell_cronjob_runs_total",
			Help: "Scheduled job executions by type and outcome",
		},
		[]string{"type", "outcome"},
	)

	SubscriptionsRevalidated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "airwell_subscriptions_revalidated_total",
			Help: "Expired subscriptions processed by revalidation, by result (renewed, lapsed, failed)",
		},
		[]string{"result"},
	)

	// Push
	PushSends = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "airwell_push_sends_total",
			Help: "Topic push sends by outcome",
		},
		[]string{"outcome"},
	)
)

// Outcome returns "success" or "failure" for err.
func Outcome(err error) string {
	if err != nil {
		return "failure"
	}
	return "success"
}

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "lawdesk",
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by endpoint",
		},
		[]string{"endpoint"},
	)

	consultationsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "lawdesk",
			Name:      "consultations_created_total",
			Help:      "Consultations created via public intake, by request type",
		},
		[]string{"request_type"},
	)

	consultationConflicts = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "lawdesk",
			Name:      "consultation_conflicts_total",
			Help:      "Intake attempts rejected due to slot conflicts",
		},
	)

	statusTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "lawdesk",
			Name:      "consultation_status_transitions_total",
			Help:      "Consultation status transitions, by target status",
		},
		[]string{"to"},
	)

	notificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "lawdesk",
			Name:      "notifications_total",
			Help:      "Notification dispatch results, by channel and outcome",
		},
		[]string{"channel", "status"},
	)

	sweepRuns = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "lawdesk",
			Name:      "autoconfirm_sweeps_total",
			Help:      "Auto-confirm sweep executions",
		},
	)

	sweepConfirmed = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "lawdesk",
			Name:      "autoconfirm_confirmed_total",
			Help:      "Consultations promoted to confirmed by the sweep",
		},
	)

	sweepDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "lawdesk",
			Name:      "autoconfirm_sweep_duration_seconds",
			Help:      "Time to run one auto-confirm sweep",
			Buckets:   []float64{.01, .05, .1, .5, 1, 2, 5},
		},
	)
)

// IncHTTP counts a request against a logical endpoint name.
func IncHTTP(endpoint string) {
	httpRequestsTotal.WithLabelValues(endpoint).Inc()
}

// IncConsultationCreated counts a successful intake.
func IncConsultationCreated(requestType string) {
	consultationsCreated.WithLabelValues(requestType).Inc()
}

// IncConflict counts an intake rejected because the slot was taken.
func IncConflict() {
	consultationConflicts.Inc()
}

// IncTransition counts a status transition.
func IncTransition(to string) {
	statusTransitions.WithLabelValues(to).Inc()
}

// IncNotification counts a dispatch result for a channel ("sms", "telegram").
func IncNotification(channel, status string) {
	notificationsTotal.WithLabelValues(channel, status).Inc()
}

// IncSweepRun counts an auto-confirm sweep execution.
func IncSweepRun() {
	sweepRuns.Inc()
}

// AddSweepConfirmed counts consultations confirmed by a sweep.
func AddSweepConfirmed(n int) {
	sweepConfirmed.Add(float64(n))
}

// ObserveSweepDuration records the time one sweep took.
func ObserveSweepDuration(seconds float64) {
	sweepDuration.Observe(seconds)
}

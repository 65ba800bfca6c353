package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registration outcomes.
const (
	OutcomeSuccess  = "success"
	OutcomeInvalid  = "invalid"
	OutcomeConflict = "conflict"
	OutcomeError    = "error"
)

// Metrics provides observability for the member module.
// Tracks registration outcomes, registration latency and notification delivery.
type Metrics struct {
	Registrations        *prometheus.CounterVec
	RegistrationDuration prometheus.Histogram
	NotificationsDropped prometheus.Counter
	NotificationsFailed  *prometheus.CounterVec
}

// New creates a new Metrics instance registered with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Registrations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "kitchensink_member_registrations_total",
			Help: "Total number of member registration attempts by outcome",
		}, []string{"outcome"}),
		RegistrationDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "kitchensink_member_registration_duration_seconds",
			Help:    "Duration of member registrations",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
		NotificationsDropped: factory.NewCounter(prometheus.CounterOpts{
			Name: "kitchensink_member_notifications_dropped_total",
			Help: "Registration events dropped because the dispatch buffer was full",
		}),
		NotificationsFailed: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "kitchensink_member_notifications_failed_total",
			Help: "Registration events an observer failed to deliver",
		}, []string{"observer"}),
	}
}

// ObserveRegistration records the outcome and duration of one registration.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveRegistration(outcome string, start time.Time) {
	m.Registrations.WithLabelValues(outcome).Inc()
	m.RegistrationDuration.Observe(time.Since(start).Seconds())
}

// IncrementNotificationDropped records an event dropped at enqueue time.
func (m *Metrics) IncrementNotificationDropped() {
	m.NotificationsDropped.Inc()
}

// IncrementNotificationFailed records a failed delivery by observer.
func (m *Metrics) IncrementNotificationFailed(observer string) {
	m.NotificationsFailed.WithLabelValues(observer).Inc()
}

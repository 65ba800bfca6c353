package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveRegistration(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveRegistration(OutcomeSuccess, time.Now())
	m.ObserveRegistration(OutcomeConflict, time.Now())
	m.ObserveRegistration(OutcomeSuccess, time.Now())

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Registrations.WithLabelValues(OutcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Registrations.WithLabelValues(OutcomeConflict)))
	assert.Equal(t, 1, testutil.CollectAndCount(m.RegistrationDuration))
}

func TestNotificationCounters(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.IncrementNotificationDropped()
	m.IncrementNotificationFailed("redis")
	m.IncrementNotificationFailed("redis")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.NotificationsDropped))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.NotificationsFailed.WithLabelValues("redis")))
}

package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once

	bookingsCreated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "innkeeper_bookings_created_total",
			Help: "Bookings created, labelled by source channel.",
		},
		[]string{"source"},
	)

	bookingTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "innkeeper_booking_transitions_total",
			Help: "Booking state transitions.",
		},
		[]string{"from", "to"},
	)

	accessDenials = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "innkeeper_access_denials_total",
			Help: "Authorization refusals, labelled by resource.",
		},
		[]string{"resource"},
	)

	emailFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "innkeeper_email_failures_total",
			Help: "Emails that could not be delivered.",
		},
	)

	sweepRows = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "innkeeper_sweep_rows_total",
			Help: "Rows touched by maintenance sweeps, labelled by job.",
		},
		[]string{"job"},
	)
)

// Register installs the collectors on the default registry. Safe to call
// more than once.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			bookingsCreated,
			bookingTransitions,
			accessDenials,
			emailFailures,
			sweepRows,
		)
	})
}

func BookingCreated(source string) {
	bookingsCreated.WithLabelValues(source).Inc()
}

func BookingTransition(from, to string) {
	bookingTransitions.WithLabelValues(from, to).Inc()
}

func AccessDenied(resource string) {
	accessDenials.WithLabelValues(resource).Inc()
}

func EmailFailed() {
	emailFailures.Inc()
}

func SweepTouched(job string, rows int64) {
	sweepRows.WithLabelValues(job).Add(float64(rows))
}

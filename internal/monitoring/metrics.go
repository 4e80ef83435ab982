package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	bookingsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookings_created_total",
			Help: "Bookings created, by sales channel",
		},
		[]string{"source"},
	)

	seatConflicts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "seat_conflicts_total",
			Help: "Seat contention losses, by stage (reserve or book)",
		},
		[]string{"stage"},
	)

	reservationsSwept = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "reservations_swept_total",
			Help: "Expired seat holds deactivated by the sweeper",
		},
	)

	bookingCreateDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "booking_create_duration_seconds",
			Help:    "End-to-end duration of booking creation",
			Buckets: prometheus.ExponentialBuckets(0.005, 2, 10),
		},
	)
)

func TrackBookingCreated(source string) {
	bookingsCreated.WithLabelValues(source).Inc()
}

func TrackSeatConflict(stage string) {
	seatConflicts.WithLabelValues(stage).Inc()
}

func TrackSweep(n int64) {
	reservationsSwept.Add(float64(n))
}

func TrackBookingCreateDuration(d time.Duration) {
	bookingCreateDuration.Observe(d.Seconds())
}

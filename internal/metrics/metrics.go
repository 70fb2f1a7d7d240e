package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "fyp_http_requests_total", Help: "Total HTTP requests by method, route and status code"},
		[]string{"method", "route", "code"},
	)
	BookingConflicts = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "fyp_booking_conflicts_total", Help: "Total applications rejected because the project was already booked"},
	)
	NotificationsCreated = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "fyp_notifications_created_total", Help: "Total notifications written"},
	)
)

var registerOnce sync.Once

// Register adds the collectors to the default registry. Safe to call more than once.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(HTTPRequests, BookingConflicts, NotificationsCreated)
	})
}

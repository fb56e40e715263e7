package metrics

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "roomdesk",
			Name:      "http_requests_total",
			Help:      "HTTP requests by endpoint and status code.",
		},
		[]string{"endpoint", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "roomdesk",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration by endpoint.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	bookingOps = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "roomdesk",
			Name:      "booking_operations_total",
			Help:      "Booking operations by operation and outcome.",
		},
		[]string{"operation", "result"},
	)
)

// Register registers Prometheus metrics. Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(httpRequests, httpDuration, bookingOps)
	})
}

// ObserveHTTP records one finished HTTP request.
func ObserveHTTP(endpoint string, status int, dur time.Duration) {
	httpRequests.WithLabelValues(endpoint, strconv.Itoa(status)).Inc()
	httpDuration.WithLabelValues(endpoint).Observe(dur.Seconds())
}

// IncBooking increments the outcome counter for a booking operation.
// Result is one of: ok, bad_request, cannot_book, not_found, error.
func IncBooking(operation, result string) {
	bookingOps.WithLabelValues(operation, result).Inc()
}

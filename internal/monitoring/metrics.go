package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	reservationOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "booking_reservations_total",
			Help: "Seat reservation attempts by outcome",
		},
		[]string{"outcome"},
	)

	ledgerTxDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "booking_ledger_tx_duration_seconds",
			Help:    "Duration of booking ledger transactions",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	httpRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP requests by method, path and status",
		},
		[]string{"method", "path", "status"},
	)

	httpDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
)

// TrackReservation records a reserveSeat outcome: ok, seat_taken,
// not_bookable, invalid_route, retryable or error.
func TrackReservation(outcome string) {
	reservationOutcomes.WithLabelValues(outcome).Inc()
}

// TrackLedgerTx records how long a ledger transaction took.
func TrackLedgerTx(operation string, d time.Duration) {
	ledgerTxDuration.WithLabelValues(operation).Observe(d.Seconds())
}

// TrackHTTP records one served request.
func TrackHTTP(method, path, status string, d time.Duration) {
	httpRequests.WithLabelValues(method, path, status).Inc()
	httpDuration.WithLabelValues(method, path).Observe(d.Seconds())
}

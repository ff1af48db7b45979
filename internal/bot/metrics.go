package bot

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics for the Telegram surface.
type Metrics struct {
	MessagesProcessed    prometheus.Counter
	CommandsProcessed    prometheus.Counter
	LoginsTotal          prometheus.Counter
	ErrorsTotal          prometheus.Counter
	UpdateProcessingTime prometheus.Histogram
	BookingsCommitted    *prometheus.CounterVec
	BookingDuration      *prometheus.HistogramVec
}

func NewMetrics() *Metrics {
	return &Metrics{
		MessagesProcessed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "rentoka_bot_messages_processed_total",
			Help: "Total messages processed",
		}),

		CommandsProcessed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "rentoka_bot_commands_processed_total",
			Help: "Total commands processed",
		}),

		LoginsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "rentoka_bot_logins_total",
			Help: "Successful logins",
		}),

		ErrorsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "rentoka_bot_errors_total",
			Help: "Panics recovered in update handlers",
		}),

		UpdateProcessingTime: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "rentoka_bot_update_processing_time_seconds",
			Help:    "Time spent processing updates",
			Buckets: prometheus.DefBuckets,
		}),

		BookingsCommitted: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "rentoka_bot_bookings_committed_total",
			Help: "Bookings committed through create-then-pay",
		}, []string{"vehicle"}),

		BookingDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "rentoka_bot_booking_duration_seconds",
			Help:    "Time spent committing a booking",
			Buckets: prometheus.DefBuckets,
		}, []string{"vehicle"}),
	}
}

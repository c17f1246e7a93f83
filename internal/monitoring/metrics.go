package monitoring

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	appointmentsAutoCompleted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "appointments_auto_completed_total",
			Help: "Appointments moved from SCHEDULED to COMPLETED on read",
		},
	)

	appointmentsCancelled = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "appointments_cancelled_total",
			Help: "Appointments cancelled through the cancel operation",
		},
	)

	dashboardComputeDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "dashboard_compute_duration_seconds",
			Help:    "Time spent computing dashboard statistics",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0, 2.0, 5.0},
		},
	)
)

func init() {
	prometheus.MustRegister(
		httpRequestsTotal,
		httpRequestDuration,
		appointmentsAutoCompleted,
		appointmentsCancelled,
		dashboardComputeDuration,
	)
}

// RecordHTTPRequest records one served request.
func RecordHTTPRequest(method, endpoint string, statusCode int, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(statusCode)).Inc()
	httpRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// RecordAutoCompletion counts one read-triggered SCHEDULED -> COMPLETED write-back.
func RecordAutoCompletion() {
	appointmentsAutoCompleted.Inc()
}

// RecordCancellation counts one successful cancel.
func RecordCancellation() {
	appointmentsCancelled.Inc()
}

// RecordDashboardCompute observes one dashboard computation.
func RecordDashboardCompute(duration time.Duration) {
	dashboardComputeDuration.Observe(duration.Seconds())
}

// Handler exposes the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Metrics holds all Prometheus metric collectors for the BroFit API.
type Metrics struct {
	registry *prometheus.Registry

	// HTTP metrics.
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Auth metrics.
	AuthFailuresTotal  *prometheus.CounterVec
	AuthSuccessesTotal *prometheus.CounterVec

	// Rate limiting.
	RateLimitRejectionsTotal *prometheus.CounterVec

	// Domain counters.
	MembershipPurchasesTotal     *prometheus.CounterVec
	MembershipCancellationsTotal prometheus.Counter
	BookingsTotal                prometheus.Counter
	BookingCancellationsTotal    prometheus.Counter

	// Activity collector metrics.
	CollectorBufferSize   prometheus.Gauge
	CollectorFlushesTotal *prometheus.CounterVec
	CollectorEventsTotal  prometheus.Counter

	// Server lifecycle.
	ServerStartTime prometheus.Gauge
}

// New creates and registers all Prometheus metrics on a private registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		registry: reg,

		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "brofit_http_requests_total",
			Help: "Total number of HTTP requests.",
		}, []string{"method", "path_pattern", "status_code"}),

		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "brofit_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path_pattern"}),

		AuthFailuresTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "brofit_auth_failures_total",
			Help: "Total number of authentication failures.",
		}, []string{"auth_type"}),

		AuthSuccessesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "brofit_auth_successes_total",
			Help: "Total number of successful authentications.",
		}, []string{"auth_type"}),

		RateLimitRejectionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "brofit_ratelimit_rejections_total",
			Help: "Total number of rate limit rejections.",
		}, []string{"scope"}),

		MembershipPurchasesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "brofit_membership_purchases_total",
			Help: "Total number of membership purchases by plan.",
		}, []string{"plan_id"}),

		MembershipCancellationsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "brofit_membership_cancellations_total",
			Help: "Total number of membership cancellations.",
		}),

		BookingsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "brofit_bookings_total",
			Help: "Total number of class bookings created.",
		}),

		BookingCancellationsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "brofit_booking_cancellations_total",
			Help: "Total number of class bookings cancelled.",
		}),

		CollectorBufferSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "brofit_collector_buffer_size",
			Help: "Current number of buffered activity events.",
		}),

		CollectorFlushesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "brofit_collector_flushes_total",
			Help: "Total number of activity collector flushes.",
		}, []string{"status"}),

		CollectorEventsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "brofit_collector_events_total",
			Help: "Total number of activity events recorded.",
		}),

		ServerStartTime: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "brofit_server_start_time_seconds",
			Help: "Unix timestamp when the server started.",
		}),
	}

	// Register all metrics.
	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.AuthFailuresTotal,
		m.AuthSuccessesTotal,
		m.RateLimitRejectionsTotal,
		m.MembershipPurchasesTotal,
		m.MembershipCancellationsTotal,
		m.BookingsTotal,
		m.BookingCancellationsTotal,
		m.CollectorBufferSize,
		m.CollectorFlushesTotal,
		m.CollectorEventsTotal,
		m.ServerStartTime,
	)

	// Set server start time.
	m.ServerStartTime.Set(float64(time.Now().Unix()))

	// Register Go runtime and process collectors.
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	return m
}

// Registry returns the private Prometheus registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RegisterDBPoolCollector registers a custom DB pool stats collector.
func (m *Metrics) RegisterDBPoolCollector(statFunc DBPoolStatFunc) {
	m.registry.MustRegister(NewDBPoolCollector(statFunc))
}

// IncAuthFailure increments the auth failure counter for the given auth type.
func (m *Metrics) IncAuthFailure(authType string) {
	m.AuthFailuresTotal.WithLabelValues(authType).Inc()
}

// IncAuthSuccess increments the auth success counter for the given auth type.
func (m *Metrics) IncAuthSuccess(authType string) {
	m.AuthSuccessesTotal.WithLabelValues(authType).Inc()
}

// IncRateLimitRejection increments the rate limit rejection counter.
func (m *Metrics) IncRateLimitRejection(scope string) {
	m.RateLimitRejectionsTotal.WithLabelValues(scope).Inc()
}

// IncMembershipPurchase increments the purchase counter for a plan.
func (m *Metrics) IncMembershipPurchase(planID string) {
	m.MembershipPurchasesTotal.WithLabelValues(planID).Inc()
}

// IncMembershipCancellation increments the membership cancellation counter.
func (m *Metrics) IncMembershipCancellation() {
	m.MembershipCancellationsTotal.Inc()
}

// IncBooking increments the booking counter.
func (m *Metrics) IncBooking() {
	m.BookingsTotal.Inc()
}

// IncBookingCancellation increments the booking cancellation counter.
func (m *Metrics) IncBookingCancellation() {
	m.BookingCancellationsTotal.Inc()
}

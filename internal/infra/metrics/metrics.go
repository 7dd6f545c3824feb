// Package metrics provides Prometheus metric collection for the marketplace.
package metrics

import (
	"net/http"
	"strconv"

	"nearby/config"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector records marketplace counters for Prometheus scraping.
// The use case layer calls it directly; recording never fails an operation.
type Collector interface {
	RecordUserRegistered(provider string)
	RecordLogin(provider string)
	RecordServiceCreated(category string)
	RecordBookingCreated()
	RecordBookingStatusChange(status string)
	RecordReviewSubmitted(rating int)
}

// PrometheusCollector is the live Collector backed by a Prometheus registry.
type PrometheusCollector struct {
	registry *prometheus.Registry

	usersRegistered *prometheus.CounterVec
	logins          *prometheus.CounterVec
	servicesCreated *prometheus.CounterVec
	bookingsCreated prometheus.Counter
	bookingStatuses *prometheus.CounterVec
	reviewsByRating *prometheus.CounterVec
}

// NewPrometheusCollector creates a collector with its own registry, including
// the standard Go runtime and process collectors.
func NewPrometheusCollector() *PrometheusCollector {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	c := &PrometheusCollector{
		registry: registry,
		usersRegistered: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "nearby_users_registered_total",
			Help: "Total user registrations by auth provider.",
		}, []string{"provider"}),
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "nearby_logins_total",
			Help: "Total successful logins by auth provider.",
		}, []string{"provider"}),
		servicesCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "nearby_services_created_total",
			Help: "Total service listings created by category.",
		}, []string{"category"}),
		bookingsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "nearby_bookings_created_total",
			Help: "Total bookings created.",
		}),
		bookingStatuses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "nearby_booking_status_changes_total",
			Help: "Total booking status transitions by resulting status.",
		}, []string{"status"}),
		reviewsByRating: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "nearby_reviews_submitted_total",
			Help: "Total reviews submitted by star rating.",
		}, []string{"rating"}),
	}

	registry.MustRegister(
		c.usersRegistered,
		c.logins,
		c.servicesCreated,
		c.bookingsCreated,
		c.bookingStatuses,
		c.reviewsByRating,
	)

	return c
}

// RecordUserRegistered counts a completed registration.
func (c *PrometheusCollector) RecordUserRegistered(provider string) {
	c.usersRegistered.WithLabelValues(provider).Inc()
}

// RecordLogin counts a successful login.
func (c *PrometheusCollector) RecordLogin(provider string) {
	c.logins.WithLabelValues(provider).Inc()
}

// RecordServiceCreated counts a new listing.
func (c *PrometheusCollector) RecordServiceCreated(category string) {
	c.servicesCreated.WithLabelValues(category).Inc()
}

// RecordBookingCreated counts a new booking.
func (c *PrometheusCollector) RecordBookingCreated() {
	c.bookingsCreated.Inc()
}

// RecordBookingStatusChange counts a transition into the given status.
func (c *PrometheusCollector) RecordBookingStatusChange(status string) {
	c.bookingStatuses.WithLabelValues(status).Inc()
}

// RecordReviewSubmitted counts a review by its star rating.
func (c *PrometheusCollector) RecordReviewSubmitted(rating int) {
	c.reviewsByRating.WithLabelValues(strconv.Itoa(rating)).Inc()
}

// Handler returns the HTTP handler serving the scrape endpoint.
func (c *PrometheusCollector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// New returns the collector matching the configuration: a live Prometheus
// collector when metrics are enabled, a no-op otherwise.
func New(cfg *config.Config) Collector {
	if cfg.Metrics != nil && cfg.Metrics.Enabled {
		return NewPrometheusCollector()
	}

	return NopCollector{}
}

// NopCollector discards every observation. Used when metrics are disabled
// and in tests.
type NopCollector struct{}

func (NopCollector) RecordUserRegistered(string)      {}
func (NopCollector) RecordLogin(string)               {}
func (NopCollector) RecordServiceCreated(string)      {}
func (NopCollector) RecordBookingCreated()            {}
func (NopCollector) RecordBookingStatusChange(string) {}
func (NopCollector) RecordReviewSubmitted(int)        {}

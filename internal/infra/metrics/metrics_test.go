package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gatherCounterValue(t *testing.T, c *PrometheusCollector, name string, labels map[string]string) float64 {
	t.Helper()

	families, err := c.registry.Gather()
	require.NoError(t, err)

	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			matched := true
			for _, lp := range m.GetLabel() {
				if want, ok := labels[lp.GetName()]; ok && want != lp.GetValue() {
					matched = false
					break
				}
			}
			if matched {
				return m.GetCounter().GetValue()
			}
		}
	}

	return 0
}

func TestPrometheusCollector_Counters(t *testing.T) {
	c := NewPrometheusCollector()

	c.RecordUserRegistered("email")
	c.RecordUserRegistered("email")
	c.RecordLogin("google")
	c.RecordServiceCreated("Home Services")
	c.RecordBookingCreated()
	c.RecordBookingStatusChange("confirmed")
	c.RecordReviewSubmitted(5)

	assert.Equal(t, 2.0, gatherCounterValue(t, c, "nearby_users_registered_total", map[string]string{"provider": "email"}))
	assert.Equal(t, 1.0, gatherCounterValue(t, c, "nearby_logins_total", map[string]string{"provider": "google"}))
	assert.Equal(t, 1.0, gatherCounterValue(t, c, "nearby_services_created_total", map[string]string{"category": "Home Services"}))
	assert.Equal(t, 1.0, gatherCounterValue(t, c, "nearby_bookings_created_total", nil))
	assert.Equal(t, 1.0, gatherCounterValue(t, c, "nearby_booking_status_changes_total", map[string]string{"status": "confirmed"}))
	assert.Equal(t, 1.0, gatherCounterValue(t, c, "nearby_reviews_submitted_total", map[string]string{"rating": "5"}))
}

func TestPrometheusCollector_Handler(t *testing.T) {
	c := NewPrometheusCollector()
	c.RecordBookingCreated()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/metrics", nil)
	c.Handler().ServeHTTP(rec, req)

	require.Equal(t, 200, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, "nearby_bookings_created_total 1"))
	// Runtime collectors are registered too.
	assert.True(t, strings.Contains(body, "go_goroutines"))
}

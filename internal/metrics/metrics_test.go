package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCountersAndHandler(t *testing.T) {
	m := New("lawsite")
	m.AssistOutcome("throttled")
	m.AssistOutcome("throttled")
	m.MailSent("booking_received", errors.New("boom"))
	m.BookingStored()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.AssistRequests.WithLabelValues("throttled")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.MailSends.WithLabelValues("booking_received", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.BookingsReceived))

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "lawsite_assist_requests_total"))
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	m.AssistOutcome("ok")
	m.BookingStored()
	m.WebhookEvent("invitee.created", "stored")
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

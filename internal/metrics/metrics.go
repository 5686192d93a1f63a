package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the application counters. A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	AssistRequests   *prometheus.CounterVec
	AssistUpstream   *prometheus.HistogramVec
	BookingsReceived prometheus.Counter
	LeadsReceived    prometheus.Counter
	WebhookEvents    *prometheus.CounterVec
	MailSends        *prometheus.CounterVec
}

func New(namespace string) *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		AssistRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "assist",
			Name:      "requests_total",
			Help:      "Assist requests by outcome",
		}, []string{"outcome"}),
		AssistUpstream: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "assist",
			Name:      "upstream_duration_seconds",
			Help:      "Latency of chat completion calls",
			Buckets:   []float64{.25, .5, 1, 2, 4, 8, 15, 25},
		}, []string{"result"}),
		BookingsReceived: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "bookings",
			Name:      "submissions_total",
			Help:      "Stored booking submissions",
		}),
		LeadsReceived: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "leads",
			Name:      "received_total",
			Help:      "Stored contact enquiries",
		}),
		WebhookEvents: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "webhook",
			Name:      "events_total",
			Help:      "Scheduling webhook deliveries by event and result",
		}, []string{"event", "result"}),
		MailSends: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "mail",
			Name:      "sends_total",
			Help:      "Transactional mail attempts by template and result",
		}, []string{"template", "result"}),
	}
}

func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Metrics) AssistOutcome(outcome string) {
	if m == nil {
		return
	}
	m.AssistRequests.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveUpstream(result string, d time.Duration) {
	if m == nil {
		return
	}
	m.AssistUpstream.WithLabelValues(result).Observe(d.Seconds())
}

func (m *Metrics) BookingStored() {
	if m == nil {
		return
	}
	m.BookingsReceived.Inc()
}

func (m *Metrics) LeadStored() {
	if m == nil {
		return
	}
	m.LeadsReceived.Inc()
}

func (m *Metrics) WebhookEvent(event, result string) {
	if m == nil {
		return
	}
	m.WebhookEvents.WithLabelValues(event, result).Inc()
}

func (m *Metrics) MailSent(template string, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.MailSends.WithLabelValues(template, result).Inc()
}

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// CommerceMetrics records checkout and payment-webhook activity.
type CommerceMetrics struct {
	checkoutDuration *prometheus.HistogramVec
	checkoutOutcome  *prometheus.CounterVec
	webhookEvents    *prometheus.CounterVec
	refunds          *prometheus.CounterVec
}

// NewCommerceMetrics registers the commerce metrics on the provided registerer.
func NewCommerceMetrics(reg prometheus.Registerer) *CommerceMetrics {
	if reg == nil {
		return &CommerceMetrics{}
	}
	checkoutDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "checkout_duration_seconds",
		Help:    "Duration of checkout requests in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"credit_type"})
	checkoutOutcome := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_total",
		Help: "Checkout attempts by outcome.",
	}, []string{"outcome"})
	webhookEvents := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "payment_webhook_events_total",
		Help: "Payment gateway webhook events by type and result.",
	}, []string{"event_type", "result"})
	refunds := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "refunds_total",
		Help: "Refunds issued by kind.",
	}, []string{"kind"})
	reg.MustRegister(checkoutDuration, checkoutOutcome, webhookEvents, refunds)
	return &CommerceMetrics{
		checkoutDuration: checkoutDuration,
		checkoutOutcome:  checkoutOutcome,
		webhookEvents:    webhookEvents,
		refunds:          refunds,
	}
}

// ObserveCheckout records the duration of a checkout by credit type.
func (m *CommerceMetrics) ObserveCheckout(creditType string, duration time.Duration) {
	if m == nil || m.checkoutDuration == nil {
		return
	}
	m.checkoutDuration.WithLabelValues(normalizeLabel(creditType)).Observe(duration.Seconds())
}

// IncCheckout increments the checkout counter for the given outcome.
func (m *CommerceMetrics) IncCheckout(outcome string) {
	if m == nil || m.checkoutOutcome == nil {
		return
	}
	m.checkoutOutcome.WithLabelValues(normalizeLabel(outcome)).Inc()
}

// IncWebhookEvent increments the webhook counter for an event type and result.
func (m *CommerceMetrics) IncWebhookEvent(eventType, result string) {
	if m == nil || m.webhookEvents == nil {
		return
	}
	m.webhookEvents.WithLabelValues(normalizeLabel(eventType), normalizeLabel(result)).Inc()
}

// IncRefund increments the refund counter for the given kind (full/partial).
func (m *CommerceMetrics) IncRefund(kind string) {
	if m == nil || m.refunds == nil {
		return
	}
	m.refunds.WithLabelValues(normalizeLabel(kind)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}

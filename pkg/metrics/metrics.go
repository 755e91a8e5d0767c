package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PaymentMetrics tracks the order payment funnel.
type PaymentMetrics struct {
	checkouts       *prometheus.CounterVec
	webhookEvents   *prometheus.CounterVec
	reconciliations *prometheus.CounterVec
}

// NewPaymentMetrics registers the payment funnel metrics on the provided
// registerer. A nil registerer yields a no-op instance, which tests use.
func NewPaymentMetrics(reg prometheus.Registerer) *PaymentMetrics {
	if reg == nil {
		return &PaymentMetrics{}
	}
	checkouts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_total",
		Help: "Checkout attempts by result.",
	}, []string{"result"})
	webhookEvents := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "webhook_events_total",
		Help: "Paystack webhook deliveries by event type and result.",
	}, []string{"event", "result"})
	reconciliations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "payment_reconciliations_total",
		Help: "Payment reconciliation transitions by outcome and whether they applied.",
	}, []string{"outcome", "applied"})
	reg.MustRegister(checkouts, webhookEvents, reconciliations)
	return &PaymentMetrics{
		checkouts:       checkouts,
		webhookEvents:   webhookEvents,
		reconciliations: reconciliations,
	}
}

// IncCheckout records one checkout attempt. Result is success or failure.
func (m *PaymentMetrics) IncCheckout(result string) {
	if m == nil || m.checkouts == nil {
		return
	}
	m.checkouts.WithLabelValues(normalizeLabel(result)).Inc()
}

// IncWebhookEvent records one webhook delivery.
func (m *PaymentMetrics) IncWebhookEvent(event, result string) {
	if m == nil || m.webhookEvents == nil {
		return
	}
	m.webhookEvents.WithLabelValues(normalizeLabel(event), normalizeLabel(result)).Inc()
}

// IncReconciliation records one reconciliation pass.
func (m *PaymentMetrics) IncReconciliation(outcome string, applied bool) {
	if m == nil || m.reconciliations == nil {
		return
	}
	label := "false"
	if applied {
		label = "true"
	}
	m.reconciliations.WithLabelValues(normalizeLabel(outcome), label).Inc()
}

// PublisherMetrics records metadata for the outbox publisher loop.
type PublisherMetrics struct {
	duration *prometheus.HistogramVec
	success  *prometheus.CounterVec
	failure  *prometheus.CounterVec
}

// NewPublisherMetrics registers the publisher metrics on the provided registerer.
func NewPublisherMetrics(reg prometheus.Registerer) *PublisherMetrics {
	if reg == nil {
		return &PublisherMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "outbox_publish_duration_seconds",
		Help:    "Duration of outbox publish batches in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"topic"})
	success := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "outbox_publish_success",
		Help: "Outbox events published successfully.",
	}, []string{"topic"})
	failure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "outbox_publish_failure",
		Help: "Outbox events that failed to publish.",
	}, []string{"topic"})
	reg.MustRegister(duration, success, failure)
	return &PublisherMetrics{
		duration: duration,
		success:  success,
		failure:  failure,
	}
}

// ObserveDuration records the duration of one publish batch.
func (p *PublisherMetrics) ObserveDuration(topic string, duration time.Duration) {
	if p == nil || p.duration == nil {
		return
	}
	p.duration.WithLabelValues(normalizeLabel(topic)).Observe(duration.Seconds())
}

// IncSuccess increments the published counter for the topic.
func (p *PublisherMetrics) IncSuccess(topic string) {
	if p == nil || p.success == nil {
		return
	}
	p.success.WithLabelValues(normalizeLabel(topic)).Inc()
}

// IncFailure increments the failure counter for the topic.
func (p *PublisherMetrics) IncFailure(topic string) {
	if p == nil || p.failure == nil {
		return
	}
	p.failure.WithLabelValues(normalizeLabel(topic)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}

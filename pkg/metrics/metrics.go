package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// CheckoutMetrics records storefront checkout activity.
type CheckoutMetrics struct {
	providerDuration *prometheus.HistogramVec
	providerFailures *prometheus.CounterVec
	stepTransitions  *prometheus.CounterVec
	payments         *prometheus.CounterVec
}

// NewCheckoutMetrics registers the checkout metrics on the provided registerer.
func NewCheckoutMetrics(reg prometheus.Registerer) *CheckoutMetrics {
	if reg == nil {
		return &CheckoutMetrics{}
	}
	providerDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "commerce_provider_duration_seconds",
		Help:    "Duration of external commerce provider calls in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"provider"})
	providerFailures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "commerce_provider_failures",
		Help: "Failed external commerce provider calls.",
	}, []string{"provider"})
	stepTransitions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_step_transitions",
		Help: "Checkout step transitions by direction.",
	}, []string{"direction"})
	payments := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_payment_initiations",
		Help: "Payment initiation attempts by outcome.",
	}, []string{"outcome"})
	reg.MustRegister(providerDuration, providerFailures, stepTransitions, payments)
	return &CheckoutMetrics{
		providerDuration: providerDuration,
		providerFailures: providerFailures,
		stepTransitions:  stepTransitions,
		payments:         payments,
	}
}

// ObserveProvider records the duration for the named provider call.
func (c *CheckoutMetrics) ObserveProvider(provider string, duration time.Duration) {
	if c == nil || c.providerDuration == nil {
		return
	}
	c.providerDuration.WithLabelValues(normalizeLabel(provider)).Observe(duration.Seconds())
}

// IncProviderFailure increments the failure counter for the named provider.
func (c *CheckoutMetrics) IncProviderFailure(provider string) {
	if c == nil || c.providerFailures == nil {
		return
	}
	c.providerFailures.WithLabelValues(normalizeLabel(provider)).Inc()
}

// IncStep counts a checkout step transition ("next" or "previous").
func (c *CheckoutMetrics) IncStep(direction string) {
	if c == nil || c.stepTransitions == nil {
		return
	}
	c.stepTransitions.WithLabelValues(normalizeLabel(direction)).Inc()
}

// IncPayment counts a payment initiation outcome ("success" or "failure").
func (c *CheckoutMetrics) IncPayment(outcome string) {
	if c == nil || c.payments == nil {
		return
	}
	c.payments.WithLabelValues(normalizeLabel(outcome)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}

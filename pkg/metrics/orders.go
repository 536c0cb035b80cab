package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// OrderMetrics records checkout and order lifecycle signals.
type OrderMetrics struct {
	checkoutDuration *prometheus.HistogramVec
	ordersCreated    *prometheus.CounterVec
	checkoutFailures *prometheus.CounterVec
	statusChanges    *prometheus.CounterVec
}

// NewOrderMetrics registers the order metrics on the provided registerer.
func NewOrderMetrics(reg prometheus.Registerer) *OrderMetrics {
	if reg == nil {
		return &OrderMetrics{}
	}
	checkoutDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "checkout_duration_seconds",
		Help:    "Duration of order creation transactions in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"outcome"})
	ordersCreated := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "orders_created",
		Help: "Orders successfully created.",
	}, []string{"payment_method"})
	checkoutFailures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_failures",
		Help: "Order creation attempts that failed.",
	}, []string{"reason"})
	statusChanges := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "order_status_changes",
		Help: "Order status transitions applied.",
	}, []string{"to_status"})
	reg.MustRegister(checkoutDuration, ordersCreated, checkoutFailures, statusChanges)
	return &OrderMetrics{
		checkoutDuration: checkoutDuration,
		ordersCreated:    ordersCreated,
		checkoutFailures: checkoutFailures,
		statusChanges:    statusChanges,
	}
}

// ObserveCheckout records the duration of a checkout attempt with its outcome.
func (o *OrderMetrics) ObserveCheckout(outcome string, duration time.Duration) {
	if o == nil || o.checkoutDuration == nil {
		return
	}
	o.checkoutDuration.WithLabelValues(normalizeLabel(outcome)).Observe(duration.Seconds())
}

// IncOrderCreated increments the created-order counter for the payment method.
func (o *OrderMetrics) IncOrderCreated(paymentMethod string) {
	if o == nil || o.ordersCreated == nil {
		return
	}
	o.ordersCreated.WithLabelValues(normalizeLabel(paymentMethod)).Inc()
}

// IncCheckoutFailure increments the failure counter for the named reason.
func (o *OrderMetrics) IncCheckoutFailure(reason string) {
	if o == nil || o.checkoutFailures == nil {
		return
	}
	o.checkoutFailures.WithLabelValues(normalizeLabel(reason)).Inc()
}

// IncStatusChange increments the transition counter for the target status.
func (o *OrderMetrics) IncStatusChange(toStatus string) {
	if o == nil || o.statusChanges == nil {
		return
	}
	o.statusChanges.WithLabelValues(normalizeLabel(toStatus)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}

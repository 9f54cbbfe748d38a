package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the counters exported at /metrics
type Metrics struct {
	registry *prometheus.Registry

	OrdersCreated  *prometheus.CounterVec
	OrderValue     prometheus.Counter
	BillingQuotes  prometheus.Counter
	HTTPRequests   *prometheus.CounterVec
	HTTPDuration   *prometheus.HistogramVec
	PrintFailures  *prometheus.CounterVec
	NotifyFailures prometheus.Counter
}

// New registers the service metrics on a fresh registry together with the
// Go runtime and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		OrdersCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "laundry_orders_created_total",
			Help: "Orders created at the counter, by payment method.",
		}, []string{"payment_method"}),
		OrderValue: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "laundry_order_value_total",
			Help: "Sum of order final totals in major currency units.",
		}),
		BillingQuotes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "laundry_billing_quotes_total",
			Help: "Billing breakdowns computed for the cart.",
		}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "laundry_http_requests_total",
			Help: "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "laundry_http_request_duration_seconds",
			Help:    "HTTP request latency by method and route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		PrintFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "laundry_print_failures_total",
			Help: "Print jobs the printer rejected, by document kind.",
		}, []string{"kind"}),
		NotifyFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "laundry_notification_failures_total",
			Help: "Customer notifications that could not be sent.",
		}),
	}

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.OrdersCreated,
		m.OrderValue,
		m.BillingQuotes,
		m.HTTPRequests,
		m.HTTPDuration,
		m.PrintFailures,
		m.NotifyFailures,
	)
	return m
}

// Handler serves the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry exposes the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveOrder records a created order. A nil receiver is a no-op.
func (m *Metrics) ObserveOrder(paymentMethod string, total float64) {
	if m == nil {
		return
	}
	m.OrdersCreated.WithLabelValues(paymentMethod).Inc()
	if total > 0 {
		m.OrderValue.Add(total)
	}
}

// ObserveQuote records a billing computation. A nil receiver is a no-op.
func (m *Metrics) ObserveQuote() {
	if m == nil {
		return
	}
	m.BillingQuotes.Inc()
}

// ObservePrintFailure records a failed print job. A nil receiver is a no-op.
func (m *Metrics) ObservePrintFailure(kind string) {
	if m == nil {
		return
	}
	m.PrintFailures.WithLabelValues(kind).Inc()
}

// ObserveNotifyFailure records a failed customer notification. A nil receiver is a no-op.
func (m *Metrics) ObserveNotifyFailure() {
	if m == nil {
		return
	}
	m.NotifyFailures.Inc()
}

// ObserveRequest records one served HTTP request. A nil receiver is a no-op.
func (m *Metrics) ObserveRequest(method, route string, status int, seconds float64) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	m.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPDuration.WithLabelValues(method, route).Observe(seconds)
}

// Package metrics holds the Prometheus collectors exposed at /metrics.
package metrics

import (
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Namespace prefixes every collector name.
const Namespace = "billsplitter"

// Metrics groups the server's collectors. A nil *Metrics is valid and
// records nothing, which keeps unit tests free of registry setup.
type Metrics struct {
	HTTPRequests      *prometheus.CounterVec
	HTTPDuration      *prometheus.HistogramVec
	HTTPInFlight      prometheus.Gauge
	Scans             *prometheus.CounterVec
	ScanDuration      *prometheus.HistogramVec
	ScannedItems      prometheus.Counter
	Notifications     *prometheus.CounterVec
	SplitCalculations prometheus.Counter
	AccessChecks      *prometheus.CounterVec
}

// New creates the collectors and registers them with reg, falling back to
// the default registerer. Collectors already registered under the same name
// are reused.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &Metrics{
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests handled by the server.",
		}, []string{"method", "route", "status"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "http_request_duration_ms",
			Help:      "HTTP request latency distribution in milliseconds.",
			Buckets:   []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500},
		}, []string{"method", "route"}),
		HTTPInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "http_in_flight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		}),
		Scans: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "scans_total",
			Help:      "Count of bill scan attempts by outcome.",
		}, []string{"outcome"}),
		ScanDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "scan_duration_ms",
			Help:      "Bill scan latency in milliseconds, classifier call included.",
			Buckets:   []float64{250, 500, 1000, 2500, 5000, 10000, 20000, 40000, 60000},
		}, []string{"outcome"}),
		ScannedItems: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "scanned_items_total",
			Help:      "Number of validated line items returned by scans.",
		}),
		Notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "notifications_total",
			Help:      "Count of scan notifications by result.",
		}, []string{"result"}),
		SplitCalculations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "split_calculations_total",
			Help:      "Number of bill split calculations served.",
		}),
		AccessChecks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "access_checks_total",
			Help:      "Count of scan access code checks by result.",
		}, []string{"result"}),
	}

	m.HTTPRequests = register(reg, m.HTTPRequests)
	m.HTTPDuration = register(reg, m.HTTPDuration)
	m.HTTPInFlight = register(reg, m.HTTPInFlight)
	m.Scans = register(reg, m.Scans)
	m.ScanDuration = register(reg, m.ScanDuration)
	m.ScannedItems = register(reg, m.ScannedItems)
	m.Notifications = register(reg, m.Notifications)
	m.SplitCalculations = register(reg, m.SplitCalculations)
	m.AccessChecks = register(reg, m.AccessChecks)
	return m
}

// ObserveScan records one scan attempt.
func (m *Metrics) ObserveScan(outcome string, d time.Duration, items int) {
	if m == nil {
		return
	}
	m.Scans.WithLabelValues(outcome).Inc()
	m.ScanDuration.WithLabelValues(outcome).Observe(DurationMillis(d))
	m.ScannedItems.Add(float64(items))
}

// ObserveNotification records the result of one notification delivery.
func (m *Metrics) ObserveNotification(result string) {
	if m == nil {
		return
	}
	m.Notifications.WithLabelValues(result).Inc()
}

// ObserveCalculation counts a served split calculation.
func (m *Metrics) ObserveCalculation() {
	if m == nil {
		return
	}
	m.SplitCalculations.Inc()
}

// ObserveAccessCheck records an access code verification.
func (m *Metrics) ObserveAccessCheck(result string) {
	if m == nil {
		return
	}
	m.AccessChecks.WithLabelValues(result).Inc()
}

// DurationMillis converts a duration to milliseconds for metric observation.
func DurationMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) C {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing
			}
		}
		panic(fmt.Errorf("register collector: %w", err))
	}
	return c
}

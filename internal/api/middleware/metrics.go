package middleware

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics is an http.RoundTripper that counts requests and observes their
// latency per backend host.
type Metrics struct {
	next     http.RoundTripper
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetrics wraps next and registers the collectors on reg. Collectors
// already registered on reg are reused.
func NewMetrics(next http.RoundTripper, reg prometheus.Registerer) (*Metrics, error) {
	if next == nil {
		next = http.DefaultTransport
	}

	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "mitgliederinfo_client_requests_total",
		Help: "Outgoing backend requests by host, method and status code.",
	}, []string{"host", "method", "code"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "mitgliederinfo_client_request_duration_seconds",
		Help:    "Latency of outgoing backend requests.",
		Buckets: prometheus.DefBuckets,
	}, []string{"host", "method"})

	var err error
	if requests, err = register(reg, requests); err != nil {
		return nil, err
	}
	if duration, err = register(reg, duration); err != nil {
		return nil, err
	}

	return &Metrics{next: next, requests: requests, duration: duration}, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// RoundTrip records the outcome of req. Transport failures are counted
// with code "error".
func (m *Metrics) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	resp, err := m.next.RoundTrip(req)

	m.duration.WithLabelValues(req.URL.Host, req.Method).Observe(time.Since(start).Seconds())
	code := "error"
	if err == nil {
		code = strconv.Itoa(resp.StatusCode)
	}
	m.requests.WithLabelValues(req.URL.Host, req.Method, code).Inc()

	return resp, err
}

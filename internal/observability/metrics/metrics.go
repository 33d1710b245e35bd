package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const metricPrefix = "copro_gateway_"

var (
	registerOnce sync.Once

	httpRequests *prometheus.CounterVec
	httpLatency  *prometheus.HistogramVec

	upstreamRequests *prometheus.CounterVec
	upstreamLatency  *prometheus.HistogramVec

	activeSessions prometheus.GaugeFunc
)

// Init registers gateway metrics. sessionCount feeds the active-session
// gauge; it may be nil.
func Init(sessionCount func() float64) {
	registerOnce.Do(func() {
		httpRequests = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "http_requests_total",
				Help: "Inbound requests by route and status",
			},
			[]string{"route", "status"},
		)
		httpLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "http_latency_seconds",
				Help:    "Inbound request latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"route"},
		)
		upstreamRequests = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "upstream_requests_total",
				Help: "Upstream API requests by method and status",
			},
			[]string{"method", "status"},
		)
		upstreamLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "upstream_latency_seconds",
				Help:    "Upstream API latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method"},
		)
		prometheus.MustRegister(httpRequests, httpLatency, upstreamRequests, upstreamLatency)

		if sessionCount != nil {
			activeSessions = prometheus.NewGaugeFunc(
				prometheus.GaugeOpts{
					Name: metricPrefix + "active_sessions",
					Help: "Sessions currently live in the store",
				},
				sessionCount,
			)
			prometheus.MustRegister(activeSessions)
		}
	})
}

// ObserveHTTP records one served request.
func ObserveHTTP(route string, status int, elapsed time.Duration) {
	if httpRequests == nil {
		return
	}
	httpRequests.WithLabelValues(route, strconv.Itoa(status)).Inc()
	httpLatency.WithLabelValues(route).Observe(elapsed.Seconds())
}

// observeUpstream records one upstream call.
func observeUpstream(method string, status int, elapsed time.Duration) {
	if upstreamRequests == nil {
		return
	}
	upstreamRequests.WithLabelValues(method, strconv.Itoa(status)).Inc()
	upstreamLatency.WithLabelValues(method).Observe(elapsed.Seconds())
}

// UpstreamTransport instruments outgoing API calls at the RoundTripper
// level so the client itself stays free of metrics plumbing.
type UpstreamTransport struct {
	Base http.RoundTripper
}

// RoundTrip implements http.RoundTripper.
func (t *UpstreamTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}
	start := time.Now()
	resp, err := base.RoundTrip(req)
	if err != nil {
		observeUpstream(req.Method, 0, time.Since(start))
		return nil, err
	}
	observeUpstream(req.Method, resp.StatusCode, time.Since(start))
	return resp, nil
}

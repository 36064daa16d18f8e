package middlewares

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/strada-dev/strada"
)

// unmatchedRoute is the label value used for requests that do not match
// any registered route, ensuring bounded cardinality.
const unmatchedRoute = "unmatched"

// MetricsConfig configures the Metrics middleware behaviour.
type MetricsConfig struct {
	// Namespace prefixes every metric name. Defaults to "strada".
	Namespace string

	// Registerer receives the middleware's collectors. Defaults to
	// prometheus.DefaultRegisterer when nil.
	Registerer prometheus.Registerer

	// Buckets overrides the request duration histogram buckets.
	Buckets []float64
}

// Metrics returns a middleware that records request counts, durations
// and in-flight gauges, labeled by method, matched route pattern and
// status. The route label uses the pattern template, never the raw
// path, so label cardinality stays bounded by the route table.
func Metrics(cfg MetricsConfig) (strada.HandlerFunc, error) {
	namespace := cfg.Namespace
	if namespace == "" {
		namespace = "strada"
	}

	registerer := cfg.Registerer
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	buckets := cfg.Buckets
	if buckets == nil {
		buckets = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}
	}

	requestsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requests_total",
			Help:      "Total number of dispatched requests",
		},
		[]string{"method", "route", "status"},
	)

	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "request_duration_seconds",
			Help:      "Request dispatch duration in seconds",
			Buckets:   buckets,
		},
		[]string{"method", "route", "status"},
	)

	activeRequests := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_requests",
			Help:      "Number of requests currently being dispatched",
		},
	)

	for _, c := range []prometheus.Collector{requestsTotal, requestDuration, activeRequests} {
		if err := registerer.Register(c); err != nil {
			return nil, err
		}
	}

	return func(c *strada.Context) error {
		activeRequests.Inc()
		start := time.Now()

		err := c.Next()

		elapsed := time.Since(start).Seconds()
		activeRequests.Dec()

		route := c.MatchedPattern()
		if route == "" {
			route = unmatchedRoute
		}
		status := "0"
		if resp := c.Response(); resp != nil {
			status = strconv.Itoa(resp.Status())
		}

		requestsTotal.WithLabelValues(c.Method(), route, status).Inc()
		requestDuration.WithLabelValues(c.Method(), route, status).Observe(elapsed)
		return err
	}, nil
}

package metrics

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector bundles the Prometheus metrics of the HTTP surface and of the
// geo computations behind it.
type Collector struct {
	gatherer prometheus.Gatherer

	HTTPRequests  *prometheus.CounterVec
	HTTPDurations *prometheus.HistogramVec

	RadiusCandidates prometheus.Histogram
	RadiusMatches    prometheus.Histogram

	PatrolPlans       *prometheus.CounterVec
	PatrolAssignments prometheus.Counter
}

// NewCollector registers the metrics against reg, defaulting to the global
// Prometheus registry when nil.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	requests, err := register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of handled HTTP requests, labeled by method, route and status code.",
	}, []string{"method", "route", "code"}))
	if err != nil {
		return nil, err
	}

	durations, err := register(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency in seconds.",
		Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
	}, []string{"method", "route"}))
	if err != nil {
		return nil, err
	}

	sizeBuckets := prometheus.ExponentialBuckets(1, 4, 8)
	candidates, err := register(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "radius_search_candidates",
		Help:    "Number of communities evaluated per radius search.",
		Buckets: sizeBuckets,
	}))
	if err != nil {
		return nil, err
	}
	matches, err := register(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "radius_search_matches",
		Help:    "Number of communities returned per radius search.",
		Buckets: sizeBuckets,
	}))
	if err != nil {
		return nil, err
	}

	plans, err := register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "patrol_plans_total",
		Help: "Night watch plans computed, labeled by whether posts were left open.",
	}, []string{"understaffed"}))
	if err != nil {
		return nil, err
	}
	assignments, err := register(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "patrol_assignments_total",
		Help: "Volunteers bound to patrol posts.",
	}))
	if err != nil {
		return nil, err
	}

	return &Collector{
		gatherer:          gatherer,
		HTTPRequests:      requests,
		HTTPDurations:     durations,
		RadiusCandidates:  candidates,
		RadiusMatches:     matches,
		PatrolPlans:       plans,
		PatrolAssignments: assignments,
	}, nil
}

// Handler exposes a ready-to-use /metrics handler.
func (c *Collector) Handler() http.Handler {
	gatherer := c.gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// ObserveRequest records one finished HTTP request.
func (c *Collector) ObserveRequest(method, route string, code int, elapsed time.Duration) {
	if c == nil {
		return
	}
	c.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
	c.HTTPDurations.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// ObserveRadiusSearch records the size of a radius search and its result.
func (c *Collector) ObserveRadiusSearch(candidates, matches int) {
	if c == nil {
		return
	}
	c.RadiusCandidates.Observe(float64(candidates))
	c.RadiusMatches.Observe(float64(matches))
}

// ObservePatrolPlan records a computed night watch plan.
func (c *Collector) ObservePatrolPlan(assignments int, understaffed bool) {
	if c == nil {
		return
	}
	c.PatrolPlans.WithLabelValues(strconv.FormatBool(understaffed)).Inc()
	c.PatrolAssignments.Add(float64(assignments))
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
			var zero C
			return zero, fmt.Errorf("collector already registered with incompatible type: %w", err)
		}
		var zero C
		return zero, err
	}
	return c, nil
}

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the service's Prometheus collectors.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	upstreamRequests *prometheus.CounterVec
	cacheLookups     *prometheus.CounterVec
	aggregationDur   prometheus.Histogram
	entries          prometheus.Gauge
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		upstreamRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "activity_feed",
			Name:      "upstream_requests_total",
			Help:      "Requests sent to the GitHub API by endpoint and status",
		}, []string{"endpoint", "status"}),
		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "activity_feed",
			Name:      "cache_lookups_total",
			Help:      "Cache lookups by cache name and result",
		}, []string{"cache", "result"}),
		aggregationDur: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "activity_feed",
			Name:      "aggregation_duration_seconds",
			Help:      "Time spent computing the activity list on a cache miss",
			Buckets:   prometheus.DefBuckets,
		}),
		entries: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "activity_feed",
			Name:      "entries",
			Help:      "Number of entries in the last computed activity list",
		}),
	}

	reg.MustRegister(m.upstreamRequests, m.cacheLookups, m.aggregationDur, m.entries)
	return m
}

// ObserveUpstream counts one upstream request.
func (m *Metrics) ObserveUpstream(endpoint, status string) {
	if m == nil {
		return
	}
	m.upstreamRequests.WithLabelValues(endpoint, status).Inc()
}

// CacheHit counts a cache hit.
func (m *Metrics) CacheHit(cache string) {
	if m == nil {
		return
	}
	m.cacheLookups.WithLabelValues(cache, "hit").Inc()
}

// CacheMiss counts a cache miss.
func (m *Metrics) CacheMiss(cache string) {
	if m == nil {
		return
	}
	m.cacheLookups.WithLabelValues(cache, "miss").Inc()
}

// ObserveAggregation records one completed aggregation pass.
func (m *Metrics) ObserveAggregation(d time.Duration, entries int) {
	if m == nil {
		return
	}
	m.aggregationDur.Observe(d.Seconds())
	m.entries.Set(float64(entries))
}

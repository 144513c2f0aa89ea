// Package metrics records query latency, failures and cache hits.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector holds the service metrics on its own registry. A nil Collector
// is valid and records nothing.
type Collector struct {
	registry      *prometheus.Registry
	queryDuration *prometheus.HistogramVec
	queryErrors   *prometheus.CounterVec
	cacheHits     *prometheus.CounterVec
}

// New creates a Collector with Go runtime and process collectors attached.
func New() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		queryDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "insights_query_duration_seconds",
				Help:    "Recipe query latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		queryErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "insights_query_errors_total",
				Help: "Total number of failed recipe queries",
			},
			[]string{"operation"},
		),
		cacheHits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "insights_cache_hits_total",
				Help: "Total number of recipe queries served from cache",
			},
			[]string{"operation"},
		),
	}
	c.registry.MustRegister(
		c.queryDuration,
		c.queryErrors,
		c.cacheHits,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return c
}

func (c *Collector) ObserveQuery(operation string, d time.Duration) {
	if c == nil {
		return
	}
	c.queryDuration.WithLabelValues(operation).Observe(d.Seconds())
}

func (c *Collector) QueryFailed(operation string) {
	if c == nil {
		return
	}
	c.queryErrors.WithLabelValues(operation).Inc()
}

func (c *Collector) CacheHit(operation string) {
	if c == nil {
		return
	}
	c.cacheHits.WithLabelValues(operation).Inc()
}

// Registry exposes the underlying registry.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}

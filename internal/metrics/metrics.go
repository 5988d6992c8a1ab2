// Package metrics holds the Prometheus collectors of the service. Each
// Collector owns its registry so that tests and Lambda warm starts never hit
// duplicate registration.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector holds all Prometheus metrics for the application.
type Collector struct {
	registry *prometheus.Registry

	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	ToolCalls    *prometheus.CounterVec
	ToolDuration *prometheus.HistogramVec
	Chats        *prometheus.CounterVec

	CatalogLoads        *prometheus.CounterVec
	CatalogLoadDuration prometheus.Histogram
	CatalogRecords      prometheus.Gauge
}

// NewCollector creates a collector whose metric names are prefixed by namespace.
func NewCollector(namespace string) *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"method", "route", "status"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		ToolCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tool_calls_total",
			Help:      "Total number of tool invocations",
		}, []string{"tool", "status"}),
		ToolDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "tool_call_duration_seconds",
			Help:      "Tool invocation duration in seconds",
			Buckets:   []float64{.0005, .001, .005, .01, .05, .1, .5, 1, 5},
		}, []string{"tool"}),
		Chats: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chats_total",
			Help:      "Total number of answered chat messages by intent",
		}, []string{"intent", "routed_by"}),
		CatalogLoads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "catalog_loads_total",
			Help:      "Total number of catalog load attempts by outcome",
		}, []string{"status"}),
		CatalogLoadDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "catalog_load_duration_seconds",
			Help:      "Catalog fetch and parse duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}),
		CatalogRecords: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "catalog_records",
			Help:      "Number of records in the loaded catalog",
		}),
	}

	c.registry.MustRegister(
		c.HTTPRequests,
		c.HTTPDuration,
		c.ToolCalls,
		c.ToolDuration,
		c.Chats,
		c.CatalogLoads,
		c.CatalogLoadDuration,
		c.CatalogRecords,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return c
}

// Registry returns the registry the collector's metrics live in.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}

// ObserveLoad records a catalog load outcome.
func (c *Collector) ObserveLoad(status string, duration time.Duration, records int) {
	c.CatalogLoads.WithLabelValues(status).Inc()
	c.CatalogLoadDuration.Observe(duration.Seconds())
	if status == "success" {
		c.CatalogRecords.Set(float64(records))
	}
}

// ObserveToolCall records a tool invocation.
func (c *Collector) ObserveToolCall(tool, status string, duration time.Duration) {
	c.ToolCalls.WithLabelValues(tool, status).Inc()
	c.ToolDuration.WithLabelValues(tool).Observe(duration.Seconds())
}

// ObserveChat counts an answered chat message.
func (c *Collector) ObserveChat(intent, routedBy string) {
	c.Chats.WithLabelValues(intent, routedBy).Inc()
}

// Middleware records request counts and latencies labeled by chi route pattern.
func (c *Collector) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		c.HTTPRequests.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		c.HTTPDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

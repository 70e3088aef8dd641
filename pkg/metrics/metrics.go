package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/getmockd/jsonmock/pkg/resource"
)

// Namespace prefixes every metric name.
const Namespace = "jsonmock"

// UnmatchedRoute is the route label for requests no pattern matched.
const UnmatchedRoute = "unmatched"

// DefaultBuckets are the histogram buckets for request durations, in seconds.
var DefaultBuckets = []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25, .5, 1}

// Registry holds the server's metrics and the Prometheus registry they are
// registered on.
type Registry struct {
	reg *prometheus.Registry

	// RequestsTotal counts handled requests.
	// Labels: method, route, status
	RequestsTotal *prometheus.CounterVec

	// RequestDuration tracks request latency in seconds.
	// Labels: method, route
	RequestDuration *prometheus.HistogramVec

	// Resources is the number of resource names in the store.
	Resources prometheus.Gauge

	// ResourceItems is the number of items per resource.
	// Labels: resource
	ResourceItems *prometheus.GaugeVec

	// mu serializes SetResourceItems so deleted resources are reset
	// atomically with the new values.
	mu sync.Mutex
}

// NewRegistry creates a Registry with the default metrics and the Go
// runtime and process collectors registered.
func NewRegistry() *Registry {
	r := &Registry{
		reg: prometheus.NewRegistry(),
		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "requests_total",
			Help:      "Total number of requests",
		}, []string{"method", "route", "status"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "request_duration_seconds",
			Help:      "Duration of requests in seconds",
			Buckets:   DefaultBuckets,
		}, []string{"method", "route"}),
		Resources: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "resources",
			Help:      "Number of resources in the store",
		}),
		ResourceItems: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "resource_items",
			Help:      "Number of items per resource",
		}, []string{"resource"}),
	}

	start := time.Now()
	uptime := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: Namespace,
		Name:      "uptime_seconds",
		Help:      "Server uptime in seconds",
	}, func() float64 { return time.Since(start).Seconds() })

	r.reg.MustRegister(
		r.RequestsTotal,
		r.RequestDuration,
		r.Resources,
		r.ResourceItems,
		uptime,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

// ObserveRequest records one handled request.
func (r *Registry) ObserveRequest(method, route string, status int, d time.Duration) {
	if route == "" {
		route = UnmatchedRoute
	}
	r.RequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	r.RequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// SetResourceItems replaces the per-resource gauges with stats.
func (r *Registry) SetResourceItems(stats resource.Stats) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.ResourceItems.Reset()
	r.Resources.Set(float64(stats.Resources))
	for name, n := range stats.PerResource {
		r.ResourceItems.WithLabelValues(name).Set(float64(n))
	}
}

// Gatherer returns the underlying Prometheus gatherer.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.reg
}

// Handler returns an http.Handler serving the metrics in the Prometheus
// exposition format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{})
}

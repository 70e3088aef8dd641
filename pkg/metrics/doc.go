// Package metrics exposes Prometheus metrics for the mock server.
//
// Metrics are registered on a private registry owned by a Registry value,
// so several servers (or tests) can run in one process without clashing.
//
// # Default Metrics
//
//   - jsonmock_requests_total: Counter for all requests (labels: method, route, status)
//   - jsonmock_request_duration_seconds: Histogram for request latency (labels: method, route)
//   - jsonmock_resources: Gauge with the number of resources in the store
//   - jsonmock_resource_items: Gauge with the item count per resource (labels: resource)
//   - jsonmock_uptime_seconds: Gauge with the server uptime
//
// Go runtime and process collectors are registered as well.
//
// # Label Conventions
//
//   - method: uppercase HTTP method (GET, POST, ...)
//   - route: the matched ServeMux pattern ("GET /{resource}/{id}"), or
//     "unmatched" when no route matched; raw paths are never used
//   - status: numeric status code (200, 404, ...)
//
// # Usage
//
//	reg := metrics.NewRegistry()
//	reg.ObserveRequest("GET", "GET /{resource}", 200, 3*time.Millisecond)
//	reg.SetResourceItems(store.Stats())
//	mux.Handle("GET /__metrics", reg.Handler())
package metrics

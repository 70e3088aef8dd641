// Route registration for the REST API.

package server

import (
	"net/http"
)

// Operational endpoints.
const (
	HealthPath  = "/__health"
	MetricsPath = "/__metrics"
)

// ReservedNames are resource names whose GET routes are taken by the
// operational endpoints. Other methods on them still reach the store.
var ReservedNames = []string{HealthPath[1:], MetricsPath[1:]}

// registerRoutes sets up all routes. Literal paths take precedence over the
// {resource} wildcard, so /__health never reaches the resource handlers.
func (s *Server) registerRoutes(mux *http.ServeMux) {
	// Index and operational endpoints
	mux.HandleFunc("GET /{$}", s.handleHome)
	mux.HandleFunc("GET "+HealthPath, s.handleHealth)
	if s.metrics != nil {
		mux.Handle("GET "+MetricsPath, s.metricsHandler())
	} else {
		mux.HandleFunc("GET "+MetricsPath, s.handleNotFound)
	}

	// Resources
	mux.HandleFunc("GET /{resource}", s.handleGetCollection)
	mux.HandleFunc("POST /{resource}", s.handleCreateItem)
	mux.HandleFunc("GET /{resource}/{id}", s.handleGetItem)
	mux.HandleFunc("PUT /{resource}/{id}", s.handleUpdateItem)
	mux.HandleFunc("PATCH /{resource}/{id}", s.handleUpdateItem)
	mux.HandleFunc("DELETE /{resource}/{id}", s.handleDeleteItem)

	// Anything else
	mux.HandleFunc("/", s.handleNotFound)
}

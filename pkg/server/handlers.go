package server

import (
	"net/http"
	"time"

	"github.com/getmockd/jsonmock/pkg/httputil"
	"github.com/getmockd/jsonmock/pkg/resource"
)

// HomeResponse is the body of GET /.
type HomeResponse struct {
	Resources []string             `json:"resources"`
	Routes    []resource.RouteInfo `json:"routes"`
}

// HealthResponse is the body of GET /__health.
type HealthResponse struct {
	Status      string         `json:"status"`
	Uptime      int64          `json:"uptime"`
	Resources   int            `json:"resources"`
	Items       int            `json:"items"`
	PerResource map[string]int `json:"perResource"`
}

func (s *Server) handleHome(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteOK(w, HomeResponse{
		Resources: s.store.List(),
		Routes:    s.store.Routes(),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	stats := s.store.Stats()
	httputil.WriteOK(w, HealthResponse{
		Status:      "ok",
		Uptime:      int64(time.Since(s.startTime).Seconds()),
		Resources:   stats.Resources,
		Items:       stats.Items,
		PerResource: stats.PerResource,
	})
}

// metricsHandler refreshes the per-resource gauges before every scrape.
func (s *Server) metricsHandler() http.Handler {
	next := s.metrics.Handler()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.metrics.SetResourceItems(s.store.Stats())
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleGetCollection(w http.ResponseWriter, r *http.Request) {
	value, ok := s.store.Collection(r.PathValue("resource"))
	if !ok {
		httputil.WriteOK(w, []any{})
		return
	}
	httputil.WriteOK(w, value)
}

func (s *Server) handleGetItem(w http.ResponseWriter, r *http.Request) {
	item, ok := s.store.Item(r.PathValue("resource"), r.PathValue("id"))
	if !ok {
		httputil.WriteNotFound(w, ErrCodeNotFound, MsgItemNotFound)
		return
	}
	httputil.WriteOK(w, item)
}

func (s *Server) handleCreateItem(w http.ResponseWriter, r *http.Request) {
	body, err := httputil.DecodeObject(w, r, s.opts.MaxBodySize)
	if err != nil {
		httputil.WriteDecodeError(w, err)
		return
	}

	name := r.PathValue("resource")
	item := s.store.Create(name, body)
	s.log.Debug("item created", "resource", name, "id", item[resource.IDField])
	httputil.WriteCreated(w, item)
}

// handleUpdateItem serves both PUT and PATCH; both merge shallowly.
func (s *Server) handleUpdateItem(w http.ResponseWriter, r *http.Request) {
	body, err := httputil.DecodeObject(w, r, s.opts.MaxBodySize)
	if err != nil {
		httputil.WriteDecodeError(w, err)
		return
	}

	item, ok := s.store.Update(r.PathValue("resource"), r.PathValue("id"), body)
	if !ok {
		httputil.WriteNotFound(w, ErrCodeNotFound, MsgItemNotFound)
		return
	}
	httputil.WriteOK(w, item)
}

func (s *Server) handleDeleteItem(w http.ResponseWriter, r *http.Request) {
	name, id := r.PathValue("resource"), r.PathValue("id")
	if !s.store.Delete(name, id) {
		httputil.WriteNotFound(w, ErrCodeNotFound, MsgItemNotFound)
		return
	}
	s.log.Debug("item deleted", "resource", name, "id", id)
	httputil.WriteNoContent(w)
}

func (s *Server) handleNotFound(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteNotFound(w, ErrCodeNotFound, MsgRouteNotFound)
}

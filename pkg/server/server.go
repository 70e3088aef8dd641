// Package server exposes a resource.Store over a REST API.
//
// Every top-level resource of the store gets six routes:
//
//	GET    /{resource}        whole collection ([] when absent)
//	GET    /{resource}/{id}   one item
//	POST   /{resource}        create, 201
//	PUT    /{resource}/{id}   shallow update
//	PATCH  /{resource}/{id}   shallow update
//	DELETE /{resource}/{id}   remove, 204
//
// GET / lists the resources and their routes. GET /__health reports store
// statistics and, when enabled, GET /__metrics serves Prometheus metrics.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/getmockd/jsonmock/pkg/logging"
	"github.com/getmockd/jsonmock/pkg/metrics"
	"github.com/getmockd/jsonmock/pkg/resource"
)

// Defaults for Options fields left zero.
const (
	DefaultReadTimeout     = 30 * time.Second
	DefaultWriteTimeout    = 30 * time.Second
	DefaultShutdownTimeout = 5 * time.Second
	DefaultMaxBodySize     = 10 << 20
)

// Options configures a Server.
type Options struct {
	// Addr is the TCP address to listen on. Port 0 picks a free port.
	Addr string

	// ReadTimeout and WriteTimeout bound a single request.
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// MaxBodySize limits request bodies in bytes. Negative disables the limit.
	MaxBodySize int64

	// Metrics enables GET /__metrics.
	Metrics bool

	// Logger receives request and lifecycle logs. Nil discards them.
	Logger *slog.Logger
}

// Server serves a resource.Store over HTTP.
type Server struct {
	store      *resource.Store
	opts       Options
	log        *slog.Logger
	metrics    *metrics.Registry
	handler    http.Handler
	httpServer *http.Server
	startTime  time.Time

	mu       sync.Mutex
	listener net.Listener
	serveErr chan error
}

// New creates a Server for store.
func New(store *resource.Store, opts Options) *Server {
	if opts.ReadTimeout == 0 {
		opts.ReadTimeout = DefaultReadTimeout
	}
	if opts.WriteTimeout == 0 {
		opts.WriteTimeout = DefaultWriteTimeout
	}
	if opts.MaxBodySize == 0 {
		opts.MaxBodySize = DefaultMaxBodySize
	}

	s := &Server{
		store:     store,
		opts:      opts,
		log:       logging.WithComponent(opts.Logger, "server"),
		startTime: time.Now(),
	}
	if opts.Metrics {
		s.metrics = metrics.NewRegistry()
	}

	mux := http.NewServeMux()
	s.registerRoutes(mux)
	s.handler = s.withMiddleware(mux)

	s.httpServer = &http.Server{
		Addr:              opts.Addr,
		Handler:           s.handler,
		ReadTimeout:       opts.ReadTimeout,
		ReadHeaderTimeout: opts.ReadTimeout,
		WriteTimeout:      opts.WriteTimeout,
		ErrorLog:          slog.NewLogLogger(s.log.Handler(), slog.LevelWarn),
	}
	return s
}

// Handler returns the server's HTTP handler with all middleware applied.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Store returns the store being served.
func (s *Server) Store() *resource.Store {
	return s.store
}

// Start binds the listen address and serves in the background.
// Bind errors are returned directly.
func (s *Server) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.listener != nil {
		return ErrAlreadyStarted
	}

	ln, err := net.Listen("tcp", s.opts.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.opts.Addr, err)
	}
	s.listener = ln
	s.serveErr = make(chan error, 1)
	s.startTime = time.Now()

	s.log.Info("server listening",
		"addr", ln.Addr().String(),
		"resources", len(s.store.List()),
		"metrics", s.metrics != nil,
	)

	go func() {
		err := s.httpServer.Serve(ln)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error("server error", "error", err)
			s.serveErr <- err
		}
		close(s.serveErr)
	}()
	return nil
}

// Addr returns the bound address once started, or the configured one.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.opts.Addr
}

// URL returns the base URL of the running server.
func (s *Server) URL() string {
	return "http://" + s.Addr()
}

// Err returns a channel that receives a serve failure and is closed when
// the server stops. It is nil before Start.
func (s *Server) Err() <-chan error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.serveErr
}

// Shutdown gracefully stops the server, waiting for in-flight requests
// until ctx expires.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	started := s.listener != nil
	s.mu.Unlock()
	if !started {
		return nil
	}

	s.log.Info("shutting down server")
	return s.httpServer.Shutdown(ctx)
}

// ListenAndServe starts the server and blocks until ctx is cancelled or the
// server fails, then shuts down with DefaultShutdownTimeout.
func (s *Server) ListenAndServe(ctx context.Context) error {
	if err := s.Start(); err != nil {
		return err
	}

	select {
	case <-ctx.Done():
	case err, ok := <-s.Err():
		if ok && err != nil {
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), DefaultShutdownTimeout)
	defer cancel()
	return s.Shutdown(shutdownCtx)
}

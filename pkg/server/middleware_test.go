package server

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/getmockd/jsonmock/pkg/logging"
)

func TestCORS(t *testing.T) {
	h := newTestServer(t, Options{}).Handler()

	t.Run("headers on every response", func(t *testing.T) {
		rec := do(t, h, http.MethodGet, "/users", "")
		assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "GET, POST, PUT, PATCH, DELETE", rec.Header().Get("Access-Control-Allow-Methods"))
		assert.Equal(t, "Content-Type", rec.Header().Get("Access-Control-Allow-Headers"))

		rec = do(t, h, http.MethodGet, "/users/999", "")
		assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("preflight", func(t *testing.T) {
		rec := do(t, h, http.MethodOptions, "/users/1", "")
		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
		assert.Empty(t, rec.Body.String())
	})
}

func TestRequestID(t *testing.T) {
	h := newTestServer(t, Options{}).Handler()

	t.Run("generated when absent", func(t *testing.T) {
		a := do(t, h, http.MethodGet, "/", "").Header().Get(RequestIDHeader)
		b := do(t, h, http.MethodGet, "/", "").Header().Get(RequestIDHeader)
		assert.Len(t, a, 36)
		assert.NotEqual(t, a, b)
	})

	t.Run("echoed when present", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(RequestIDHeader, "req-123")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, "req-123", rec.Header().Get(RequestIDHeader))
	})

	t.Run("oversized id replaced", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(RequestIDHeader, strings.Repeat("x", 500))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Len(t, rec.Header().Get(RequestIDHeader), 36)
	})
}

func TestLoggingMiddleware(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.New(logging.Config{Level: logging.LevelDebug, Format: logging.FormatJSON, Output: &buf})
	h := newTestServer(t, Options{Logger: logger}).Handler()

	req := httptest.NewRequest(http.MethodGet, "/users/2", nil)
	req.Header.Set(RequestIDHeader, "log-test")
	h.ServeHTTP(httptest.NewRecorder(), req)

	out := buf.String()
	assert.Contains(t, out, `"msg":"request"`)
	assert.Contains(t, out, `"method":"GET"`)
	assert.Contains(t, out, `"path":"/users/2"`)
	assert.Contains(t, out, `"status":200`)
	assert.Contains(t, out, `"request_id":"log-test"`)
}

func TestRecoverMiddleware(t *testing.T) {
	var buf bytes.Buffer
	s := newTestServer(t, Options{Logger: logging.New(logging.Config{Output: &buf})})

	h := s.withMiddleware(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/explode", nil))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"internal_error","message":"internal server error"}`, rec.Body.String())
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, buf.String(), "panic serving request")
}

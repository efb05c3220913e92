package handler_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/maxviazov/users-admin/internal/trace"
)

func TestRequestID(t *testing.T) {
	r, _ := newApp(t)

	w := serve(r, httptest.NewRequest(http.MethodGet, "/live", nil))
	assert.Len(t, w.Header().Get(trace.HeaderRequestID), 36)

	req := httptest.NewRequest(http.MethodGet, "/live", nil)
	req.Header.Set(trace.HeaderRequestID, "abc-123")
	w = serve(r, req)
	assert.Equal(t, "abc-123", w.Header().Get(trace.HeaderRequestID))
}

func TestCORS(t *testing.T) {
	r, _ := newApp(t)

	preflight := httptest.NewRequest(http.MethodOptions, "/api/v1/users/1", nil)
	preflight.Header.Set("Origin", allowedOrigin)
	preflight.Header.Set("Access-Control-Request-Method", http.MethodPut)
	w := serve(r, preflight)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, allowedOrigin, w.Header().Get("Access-Control-Allow-Origin"))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health/live", nil)
	req.Header.Set("Origin", allowedOrigin)
	w = serve(r, req)
	assert.Equal(t, allowedOrigin, w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/api/v1/health/live", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	w = serve(r, req)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))

	// pages are same-origin only
	req = httptest.NewRequest(http.MethodGet, "/live", nil)
	req.Header.Set("Origin", allowedOrigin)
	w = serve(r, req)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

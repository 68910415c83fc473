// Copyright (c) 2024-2026 IT Help San Diego Inc.
// Licensed under BUSL-1.1 — See LICENSE for terms.
package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"phishguard/internal/middleware"

	"github.com/gin-gonic/gin"
)

func newRouter(mw ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(mw...)
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	return r
}

func get(r *gin.Engine, method, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSecurityHeaders(t *testing.T) {
	r := newRouter(middleware.SecurityHeaders())
	w := get(r, http.MethodGet, "/ping")

	want := map[string]string{
		"X-Content-Type-Options":       "nosniff",
		"X-Frame-Options":              "DENY",
		"Referrer-Policy":              "strict-origin-when-cross-origin",
		"Cross-Origin-Resource-Policy": "cross-origin",
	}
	for header, value := range want {
		if got := w.Header().Get(header); got != value {
			t.Errorf("%s = %q, want %q", header, got, value)
		}
	}
}

func TestCORSPreflight(t *testing.T) {
	r := newRouter(middleware.CORS())
	w := get(r, http.MethodOptions, "/ping")

	if w.Code != http.StatusNoContent {
		t.Errorf("expected 204 for preflight, got %d", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Allow-Origin = %q", got)
	}
}

func TestCORSPassThrough(t *testing.T) {
	r := newRouter(middleware.CORS())
	w := get(r, http.MethodGet, "/ping")

	if w.Code != http.StatusOK || w.Body.String() != "pong" {
		t.Errorf("expected handler to run, got %d %q", w.Code, w.Body.String())
	}
}

func TestRecoveryTurnsPanicInto500(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.Recovery())
	r.GET("/boom", func(c *gin.Context) { panic("kaboom") })

	w := get(r, http.MethodGet, "/boom")

	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", w.Code)
	}
}

func TestRequestContextSetsTraceID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.RequestContext())
	r.GET("/trace", func(c *gin.Context) {
		traceID, ok := c.Get("trace_id")
		if !ok || traceID == "" {
			t.Error("expected trace_id in gin context")
		}
		if v := c.Request.Context().Value(middleware.TraceIDKey); v != traceID {
			t.Errorf("request context trace id %v != %v", v, traceID)
		}
		c.Status(http.StatusOK)
	})

	if w := get(r, http.MethodGet, "/trace"); w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

func TestInMemoryRateLimiter(t *testing.T) {
	l := middleware.NewInMemoryRateLimiter()

	for i := 0; i < middleware.RateLimitMaxRequests; i++ {
		if res := l.CheckAndRecord("198.51.100.7"); !res.Allowed {
			t.Fatalf("request %d unexpectedly limited", i)
		}
	}

	res := l.CheckAndRecord("198.51.100.7")
	if res.Allowed {
		t.Fatal("expected limit after window fills")
	}
	if res.WaitSeconds < 1 {
		t.Errorf("expected positive wait, got %d", res.WaitSeconds)
	}

	// Other clients are unaffected.
	if res := l.CheckAndRecord("203.0.113.9"); !res.Allowed {
		t.Error("independent client unexpectedly limited")
	}
}

func TestEvaluateRateLimitResponse(t *testing.T) {
	gin.SetMode(gin.TestMode)
	limiter := middleware.NewInMemoryRateLimiter()
	r := gin.New()
	r.Use(middleware.EvaluateRateLimit(limiter))
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	var last *httptest.ResponseRecorder
	for i := 0; i <= middleware.RateLimitMaxRequests; i++ {
		last = get(r, http.MethodGet, "/ping")
	}

	if last.Code != http.StatusTooManyRequests {
		t.Errorf("expected 429 once over the limit, got %d", last.Code)
	}
}

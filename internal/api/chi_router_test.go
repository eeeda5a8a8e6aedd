// Prestream - Pre-Broadcast Stream Quality Diagnostics
// Copyright 2026 Prestream Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/prestream/prestream

package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func testRouter(provider *fakeProvider) http.Handler {
	handler := NewHandler(provider, fakeCounter{}, true, "test")
	mw := NewChiMiddlewareFromServer([]string{"https://studio.example.com"}, 100, time.Minute)
	return NewRouter(handler, mw, nil).Setup()
}

func TestRouterRoutes(t *testing.T) {
	router := testRouter(&fakeProvider{snap: readySnapshot(), ready: true})

	tests := []struct {
		path       string
		wantStatus int
	}{
		{"/api/v1/health", http.StatusOK},
		{"/api/v1/health/live", http.StatusOK},
		{"/api/v1/health/ready", http.StatusOK},
		{"/api/v1/diagnostics/snapshot", http.StatusOK},
		{"/api/v1/diagnostics/quality", http.StatusOK},
		{"/api/v1/diagnostics/thresholds", http.StatusOK},
		{"/metrics", http.StatusOK},
		{"/api/v1/nope", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))
			if rec.Code != tt.wantStatus {
				t.Errorf("GET %s = %d, want %d", tt.path, rec.Code, tt.wantStatus)
			}
		})
	}
}

func TestRouterSetsRequestID(t *testing.T) {
	router := testRouter(&fakeProvider{ready: true})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/health/live", nil))

	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("X-Request-ID header missing")
	}
}

func TestRouterPreservesCallerRequestID(t *testing.T) {
	router := testRouter(&fakeProvider{ready: true})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health/live", nil)
	req.Header.Set("X-Request-ID", "caller-supplied-id")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if got := rec.Header().Get("X-Request-ID"); got != "caller-supplied-id" {
		t.Errorf("X-Request-ID = %q, want caller-supplied-id", got)
	}
	if !strings.Contains(rec.Body.String(), `"request_id":"caller-supplied-id"`) {
		t.Errorf("response metadata missing request id: %s", rec.Body.String())
	}
}

func TestRouterCORSPreflight(t *testing.T) {
	router := testRouter(&fakeProvider{ready: true})

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/diagnostics/snapshot", nil)
	req.Header.Set("Origin", "https://studio.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://studio.example.com" {
		t.Errorf("Access-Control-Allow-Origin = %q, want the configured origin", got)
	}
}

func TestRouterRejectsUnlistedOrigin(t *testing.T) {
	router := testRouter(&fakeProvider{ready: true})

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/diagnostics/snapshot", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("Access-Control-Allow-Origin = %q, want empty for unlisted origin", got)
	}
}

func TestRouterMethodNotAllowed(t *testing.T) {
	router := testRouter(&fakeProvider{ready: true})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/diagnostics/snapshot", nil))

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("POST snapshot = %d, want 405", rec.Code)
	}
}

package handler_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestReadiness_OK(t *testing.T) {
	r := newTestRouter(routerDeps{pinger: stubPinger{err: nil}})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/health/ready", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d, body=%s", w.Code, w.Body.String())
	}
}

func TestReadiness_Unavailable(t *testing.T) {
	r := newTestRouter(routerDeps{pinger: stubPinger{err: errors.New("db down")}})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/health/ready", nil))
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected status 503, got %d, body=%s", w.Code, w.Body.String())
	}
}

func TestLivenessRoot_OK(t *testing.T) {
	r := newTestRouter(routerDeps{})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/live", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
}

func TestReadinessRoot_Unavailable(t *testing.T) {
	r := newTestRouter(routerDeps{pinger: stubPinger{err: errors.New("db down")}})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ready", nil))
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected status 503, got %d", w.Code)
	}
}

func TestHealth_NotFound(t *testing.T) {
	r := newTestRouter(routerDeps{})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/no-such", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

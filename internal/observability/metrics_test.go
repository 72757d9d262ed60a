package observability

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
)

func TestMetricsMiddlewareRecordsRequest(t *testing.T) {
	metrics := NewMetrics()

	handler := metrics.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	routeCtx := chi.NewRouteContext()
	routeCtx.RoutePatterns = append(routeCtx.RoutePatterns, "/barcodes/get")
	req := httptest.NewRequest(http.MethodPost, "/barcodes/get", nil)
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusTeapot {
		t.Fatalf("unexpected status: %d", rr.Code)
	}

	mr := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(mr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if mr.Code != http.StatusOK {
		t.Fatalf("unexpected metrics status: %d", mr.Code)
	}
	body := mr.Body.String()
	if !strings.Contains(body, "stocktag_http_requests_total") {
		t.Fatalf("expected recorded request metric, got: %s", body)
	}
	if !strings.Contains(body, `code="418"`) {
		t.Fatalf("expected status label, got: %s", body)
	}
}

func TestNilMetricsAreInert(t *testing.T) {
	var metrics *Metrics

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	rr := httptest.NewRecorder()
	metrics.Middleware(next).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	if rr.Code != http.StatusNoContent {
		t.Fatalf("middleware should pass through, got %d", rr.Code)
	}

	mr := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(mr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if mr.Code != http.StatusServiceUnavailable {
		t.Fatalf("nil handler should be unavailable, got %d", mr.Code)
	}
}

package observability

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scrape(t *testing.T, m *Metrics) string {
	t.Helper()
	rr := httptest.NewRecorder()
	m.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	return rr.Body.String()
}

func TestMetricsMiddlewareRecordsRequest(t *testing.T) {
	metrics := NewMetrics()

	handler := metrics.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	routeCtx := chi.NewRouteContext()
	routeCtx.RoutePatterns = append(routeCtx.RoutePatterns, "/sales/{id}")

	req := httptest.NewRequest(http.MethodGet, "/sales/abc", nil)
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	require.Equal(t, http.StatusTeapot, rr.Code)

	body := scrape(t, metrics)
	assert.Contains(t, body, `unitflow_http_requests_total{code="418",route="/sales/{id}"} 1`)
	assert.Contains(t, body, `unitflow_http_request_duration_seconds_bucket{route="/sales/{id}"`)
}

func TestObserveDashboard(t *testing.T) {
	metrics := NewMetrics()
	metrics.ObserveDashboard("month", "cache", 0)
	metrics.ObserveDashboard("month", "build", 20*time.Millisecond)

	body := scrape(t, metrics)
	assert.Contains(t, body, `unitflow_dashboard_reports_total{range="month",source="cache"} 1`)
	assert.Contains(t, body, `unitflow_dashboard_build_duration_seconds_count{range="month"} 1`)
}

func TestNilMetricsAreSafe(t *testing.T) {
	var m *Metrics
	m.ObserveDashboard("all", "build", time.Second)
	rr := httptest.NewRecorder()
	m.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
}

package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func newRouter(rec *Recorder) chi.Router {
	router := chi.NewRouter()
	router.Use(rec.Middleware())
	router.Get("/devops/Start", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, "Devops project running")
	})
	router.Handle("/metrics", rec.Handler())
	return router
}

func TestMiddlewareCountsByRoutePattern(t *testing.T) {
	rec := New()
	router := newRouter(rec)

	for range 3 {
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/devops/Start", nil))
	}
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/devops/Stop", nil))

	if got := testutil.ToFloat64(rec.requests.WithLabelValues(http.MethodGet, "/devops/Start", "200")); got != 3 {
		t.Fatalf("expected 3 requests for /devops/Start, got %v", got)
	}
	if got := testutil.ToFloat64(rec.requests.WithLabelValues(http.MethodGet, unmatchedRoute, "404")); got != 1 {
		t.Fatalf("expected 1 unmatched request, got %v", got)
	}
	if n := testutil.CollectAndCount(rec.duration); n != 2 {
		t.Fatalf("expected 2 duration series, got %d", n)
	}
}

func TestHandlerExposesMetrics(t *testing.T) {
	rec := New()
	router := newRouter(rec)
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/devops/Start", nil))

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	body := resp.Body.String()
	for _, want := range []string{
		`http_requests_total{method="GET",route="/devops/Start",status="200"} 1`,
		"http_request_duration_seconds_bucket",
		"go_goroutines",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("expected metrics output to contain %q", want)
		}
	}
}

func TestRegistriesAreIndependent(t *testing.T) {
	a, b := New(), New()
	newRouter(a).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/devops/Start", nil))

	if got := testutil.ToFloat64(b.requests.WithLabelValues(http.MethodGet, "/devops/Start", "200")); got != 0 {
		t.Fatalf("expected isolated registry, got %v", got)
	}
}

package devops

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	applog "github.com/janisto/devops-learning/internal/platform/logging"
	appmiddleware "github.com/janisto/devops-learning/internal/platform/middleware"
	"github.com/janisto/devops-learning/internal/platform/respond"
)

func newTestRouter(opts Options, logger *zap.Logger) chi.Router {
	router := chi.NewRouter()
	router.NotFound(respond.NotFoundHandler())
	router.MethodNotAllowed(respond.MethodNotAllowedHandler())
	router.Use(
		appmiddleware.RequestID(),
		chimiddleware.RealIP,
		applog.RequestLogger(),
		respond.Recoverer(),
	)
	if logger != nil {
		router.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				next.ServeHTTP(w, r.WithContext(applog.WithLogger(r.Context(), logger)))
			})
		})
	}
	api := humachi.New(router, huma.DefaultConfig("DevopsTest", "test"))
	Register(api, opts)
	return router
}

func get(router http.Handler, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func TestStartReturnsPlainText(t *testing.T) {
	resp := get(newTestRouter(Options{}, nil), StartPath)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if ct := resp.Header().Get("Content-Type"); ct != "text/plain; charset=utf-8" {
		t.Errorf("expected text/plain; charset=utf-8, got %q", ct)
	}
	if body := resp.Body.String(); body != "Devops project running" {
		t.Errorf("expected body %q, got %q", "Devops project running", body)
	}
}

func TestStartIgnoresRequestInput(t *testing.T) {
	router := newTestRouter(Options{}, nil)

	req := httptest.NewRequest(http.MethodGet, StartPath+"?verbose=1", nil)
	req.Header.Set("Accept", "application/cbor")
	req.Header.Set("X-Custom", "ignored")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK || resp.Body.String() != StartMessage {
		t.Fatalf("expected constant response, got %d %q", resp.Code, resp.Body.String())
	}
}

func TestStartIsIdempotent(t *testing.T) {
	router := newTestRouter(Options{}, nil)

	for i := range 20 {
		resp := get(router, StartPath)
		if resp.Code != http.StatusOK || resp.Body.String() != StartMessage {
			t.Fatalf("call %d: expected 200 %q, got %d %q", i, StartMessage, resp.Code, resp.Body.String())
		}
	}
}

func TestStartConcurrentCalls(t *testing.T) {
	router := newTestRouter(Options{}, nil)

	var wg sync.WaitGroup
	bodies := make(chan string, 32)
	for range 32 {
		wg.Go(func() {
			bodies <- get(router, StartPath).Body.String()
		})
	}
	wg.Wait()
	close(bodies)

	for body := range bodies {
		if body != StartMessage {
			t.Fatalf("expected %q, got %q", StartMessage, body)
		}
	}
}

func TestOtherPathsDoNotMatch(t *testing.T) {
	router := newTestRouter(Options{}, nil)

	for _, path := range []string{"/devops/Stop", "/devops", "/devops/start"} {
		resp := get(router, path)
		if resp.Code != http.StatusNotFound {
			t.Errorf("%s: expected 404, got %d", path, resp.Code)
		}
		if resp.Body.String() == StartMessage {
			t.Errorf("%s: must not receive the start response", path)
		}
	}
}

func TestOtherMethodsNotAllowed(t *testing.T) {
	router := newTestRouter(Options{}, nil)

	for _, method := range []string{http.MethodPost, http.MethodPut, http.MethodDelete} {
		req := httptest.NewRequest(method, StartPath, nil)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)

		if resp.Code != http.StatusMethodNotAllowed {
			t.Errorf("%s: expected 405, got %d", method, resp.Code)
		}
		if allow := resp.Header().Get("Allow"); allow != http.MethodGet {
			t.Errorf("%s: expected Allow GET, got %q", method, allow)
		}
	}
}

func TestTraceFlowLogging(t *testing.T) {
	tests := []struct {
		name    string
		enabled bool
		want    int
	}{
		{"disabled by default", false, 0},
		{"enabled", true, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, recorded := observer.New(zapcore.DebugLevel)
			router := newTestRouter(Options{TraceFlow: tt.enabled}, zap.New(core))

			if resp := get(router, StartPath); resp.Body.String() != StartMessage {
				t.Fatalf("trace flag must not change the response, got %q", resp.Body.String())
			}

			entries := recorded.FilterMessage("flow entered").All()
			if len(entries) != tt.want {
				t.Fatalf("expected %d flow entries, got %d", tt.want, len(entries))
			}
			if tt.want == 1 && entries[0].ContextMap()["path"] != StartPath {
				t.Fatalf("expected path field %s, got %v", StartPath, entries[0].ContextMap())
			}
		})
	}
}

func TestStartOperationDocumented(t *testing.T) {
	router := chi.NewRouter()
	api := humachi.New(router, huma.DefaultConfig("DevopsTest", "test"))
	Register(api, Options{})

	path := api.OpenAPI().Paths[StartPath]
	if path == nil || path.Get == nil {
		t.Fatalf("expected GET %s in OpenAPI document", StartPath)
	}
	op := path.Get
	if op.OperationID != "start-devops" {
		t.Errorf("unexpected operation ID %q", op.OperationID)
	}
	if path.Post != nil || path.Put != nil || path.Delete != nil {
		t.Error("expected only GET to be documented")
	}
	resp := op.Responses["200"]
	if resp == nil {
		t.Fatal("expected 200 response")
	}
	mt, ok := resp.Content["text/plain"]
	if !ok || mt.Schema == nil || mt.Schema.Type != huma.TypeString {
		t.Fatalf("expected text/plain string schema, got %+v", resp.Content)
	}
}

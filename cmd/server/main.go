package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/janisto/devops-learning/internal/http/health"
	"github.com/janisto/devops-learning/internal/http/v1/devops"
	"github.com/janisto/devops-learning/internal/http/v1/routes"
	"github.com/janisto/devops-learning/internal/platform/apidoc"
	"github.com/janisto/devops-learning/internal/platform/config"
	applog "github.com/janisto/devops-learning/internal/platform/logging"
	"github.com/janisto/devops-learning/internal/platform/metrics"
	appmiddleware "github.com/janisto/devops-learning/internal/platform/middleware"
	"github.com/janisto/devops-learning/internal/platform/respond"
)

// Version can be overridden at build time: -ldflags "-X main.Version=1.2.3"
var Version = "dev"

const (
	serviceName  = "devops-learning"
	maxBodyBytes = 1 << 20
)

func main() {
	defer func() {
		if err := applog.Sync(); err != nil {
			applog.LogError(context.Background(), "logger sync error", err)
		}
	}()
	if err := applog.Err(); err != nil {
		applog.LogError(context.Background(), "logger init error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		applog.LogFatal(context.Background(), "config load failed", err)
	}
	if err := applog.Configure(applog.Options{
		Level:   cfg.LogLevel,
		Service: serviceName,
		Version: Version,
	}); err != nil {
		applog.LogFatal(context.Background(), "logger configure failed", err)
	}
	applog.LogDebug(context.Background(), "config loaded",
		zap.Int("port", cfg.Port),
		zap.String("docsPath", cfg.DocsPath),
		zap.Bool("traceFlow", cfg.TraceFlow),
		zap.Bool("metricsEnabled", cfg.MetricsEnabled),
		zap.Duration("shutdownTimeout", cfg.ShutdownTimeout),
	)

	var rec *metrics.Recorder
	if cfg.MetricsEnabled {
		rec = metrics.New()
	}
	router, api := newRouter(cfg, rec)

	for _, r := range routes.Table(api) {
		applog.LogInfo(context.Background(), "route registered",
			zap.String("method", r.Method),
			zap.String("path", r.Path),
			zap.String("operationId", r.OperationID),
		)
	}

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadTimeout:       5 * time.Second,
		ReadHeaderTimeout: 2 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    64 << 10,
	}

	listenErr := make(chan error, 1)
	go func() {
		applog.LogInfo(context.Background(), "server listening",
			zap.String("addr", srv.Addr),
			zap.String("version", Version),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			listenErr <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-listenErr:
		applog.LogFatal(context.Background(), "listen failed", err, zap.String("addr", srv.Addr))
	case <-stop:
		applog.LogInfo(context.Background(), "shutdown signal received")
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		applog.LogError(ctx, "server shutdown error", err)
	}
	applog.LogInfo(context.Background(), "server exited")
}

// newRouter assembles the middleware stack, the plain handlers and the huma
// API. rec may be nil, in which case /metrics is not mounted.
func newRouter(cfg *config.Config, rec *metrics.Recorder) (chi.Router, huma.API) {
	router := chi.NewRouter()
	router.NotFound(respond.NotFoundHandler())
	router.MethodNotAllowed(respond.MethodNotAllowedHandler())

	router.Use(
		appmiddleware.Security(cfg.DocsPath),
		appmiddleware.Vary(),
		appmiddleware.CORS(),
		appmiddleware.RequestID(),
		// RealIP trusts X-Forwarded-For; deploy behind a proxy that sets it.
		chimiddleware.RealIP,
		chimiddleware.RequestSize(maxBodyBytes),
		// GetHead answers HEAD with the GET handler when no HEAD route exists.
		chimiddleware.GetHead,
		applog.RequestLogger(),
		applog.AccessLogger(),
	)
	if rec != nil {
		router.Use(rec.Middleware())
	}
	router.Use(respond.Recoverer())

	router.Get(health.Path, health.Handler())
	router.Head(health.Path, health.Handler())
	if rec != nil {
		router.Method(http.MethodGet, "/metrics", rec.Handler())
	}

	api := humachi.New(router, apidoc.Default().Config(cfg.DocsPath))
	routes.Register(api, routes.Options{
		Devops: devops.Options{TraceFlow: cfg.TraceFlow},
	})
	return router, api
}

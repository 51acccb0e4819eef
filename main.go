package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/msomdec/todo-api/internal/config"
	"github.com/msomdec/todo-api/internal/handler"
	"github.com/msomdec/todo-api/internal/logging"
	"github.com/msomdec/todo-api/internal/repository"
	"github.com/msomdec/todo-api/internal/service"
	"github.com/msomdec/todo-api/internal/telemetry"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const serviceName = "todo-api"

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.LogLevel, cfg.LogFormat, os.Stdout, os.Stderr)
	slog.SetDefault(logger)

	// Graceful shutdown on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.Setup(ctx, serviceName, cfg.OTelEndpoint)
	if err != nil {
		slog.Error("failed to set up tracing", "error", err)
		os.Exit(1)
	}
	defer shutdownTracing(context.Background())

	openCtx, cancelOpen := context.WithTimeout(ctx, 15*time.Second)
	db, err := repository.Open(openCtx, cfg.DatabaseURL)
	cancelOpen()
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("database migrations applied")

	tokenService := service.NewTokenService(cfg.JWTSecret)
	authService := service.NewAuthService(db.Users(), tokenService, cfg.BcryptCost)
	todoService := service.NewTodoService(db.Todos())

	var limiter *service.TokenBucket
	if cfg.AuthRateBurst > 0 {
		limiter = service.NewTokenBucket(cfg.AuthRateLimit, cfg.AuthRateBurst)
		defer limiter.Stop()
	}

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux, authService, todoService, limiter)
	mux.Handle("GET /readyz", handler.HandleReadyz(db))

	var routed http.Handler = mux
	if cfg.MetricsEnabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		metrics := handler.NewMetrics(reg)
		mux.Handle("GET /metrics", metrics.Handler())
		routed = metrics.Instrument(mux)
	}

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           handler.SecurityHeaders(handler.RequestID(handler.Trace(handler.WithRequestLogging(routed, logger)))),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20, // 1MB
	}

	go func() {
		slog.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

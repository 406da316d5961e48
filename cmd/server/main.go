// Package main is the entry point of the study spot finder web client.
// It serves the server-rendered pages and forwards data requests to the study spot backend.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"spotfinder/internal/api"
	"spotfinder/internal/config"
	"spotfinder/internal/handlers"
	"spotfinder/internal/middleware"
	"spotfinder/internal/observability"
	contextutils "spotfinder/internal/utils"
	"spotfinder/internal/version"

	"golang.org/x/sync/errgroup"
)

// rateLimitCleanupInterval is how often idle rate limit buckets are dropped
const rateLimitCleanupInterval = 5 * time.Minute

// Application encapsulates the main application logic and can be tested
type Application struct {
	cfg     *config.Config
	logger  *observability.Logger
	limiter *middleware.RateLimiter
	server  *http.Server
}

// NewApplication wires the backend client, the review rate limiter and the router
func NewApplication(cfg *config.Config, logger *observability.Logger) (*Application, error) {
	client := api.NewClient(&cfg.API, logger)
	limiter := middleware.NewRateLimiter(cfg.Server.ReviewRateLimit, cfg.Server.ReviewRateWindow)

	router, err := handlers.NewRouter(cfg, client, limiter, logger)
	if err != nil {
		return nil, contextutils.WrapError(err, "failed to create router")
	}

	return &Application{
		cfg:     cfg,
		logger:  logger,
		limiter: limiter,
		server: &http.Server{
			Addr:              ":" + cfg.Server.Port,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}, nil
}

// Run serves until ctx is cancelled or the listener fails
func (a *Application) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.logger.Info(ctx, "Web client listening", map[string]interface{}{"addr": a.server.Addr, "api": a.cfg.API.BaseURL})
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return contextutils.WrapError(err, "server failed")
		}
		return nil
	})
	g.Go(func() error {
		a.limiter.Run(ctx, rateLimitCleanupInterval)
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ServerShutdownTimeout)
		defer cancel()
		return a.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// Shutdown gracefully stops the HTTP server
func (a *Application) Shutdown(ctx context.Context) error {
	if err := a.server.Shutdown(ctx); err != nil {
		return contextutils.WrapError(err, "server shutdown failed")
	}
	return nil
}

type shutdowner interface {
	Shutdown(ctx context.Context) error
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg, err := config.NewConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	cfg.OpenTelemetry.ServiceVersion = version.Version

	// Setup observability (tracing/metrics/logging)
	tp, mp, logger, err := observability.SetupObservability(&cfg.OpenTelemetry, handlers.ServiceName, observability.ParseLevel(cfg.Server.LogLevel))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize observability: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), config.ProviderShutdownTimeout)
		defer shutdownCancel()

		if s, ok := tp.(shutdowner); ok {
			if err := s.Shutdown(shutdownCtx); err != nil {
				logger.Warn(ctx, "Error shutting down tracer provider", map[string]interface{}{"error": err.Error(), "provider": "tracer"})
			}
		}
		if mp != nil {
			if err := mp.Shutdown(shutdownCtx); err != nil {
				logger.Warn(ctx, "Error shutting down meter provider", map[string]interface{}{"error": err.Error(), "provider": "meter"})
			}
		}
		_ = logger.Sync()
	}()

	logger.Info(ctx, "Starting study spot finder web client", map[string]interface{}{
		"port":     cfg.Server.Port,
		"logLevel": cfg.Server.LogLevel,
		"version":  version.Version,
	})

	app, err := NewApplication(cfg, logger)
	if err != nil {
		logger.Error(ctx, "Failed to create application", err, nil)
		os.Exit(1)
	}

	if err := app.Run(ctx); err != nil {
		logger.Error(ctx, "Application failed", err, nil)
		os.Exit(1)
	}

	logger.Info(context.Background(), "Shutdown completed successfully", nil)
}

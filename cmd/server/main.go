package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"

	"github.com/socialchef/dishcraft/internal/api"
	"github.com/socialchef/dishcraft/internal/config"
	"github.com/socialchef/dishcraft/internal/logger"
	"github.com/socialchef/dishcraft/internal/metrics"
	"github.com/socialchef/dishcraft/internal/services/chef"
	"github.com/socialchef/dishcraft/internal/sentry"
	"github.com/socialchef/dishcraft/internal/session"
	"github.com/socialchef/dishcraft/internal/telemetry"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 25 * time.Second

func main() {
	defer sentry.Recover()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	headers := telemetry.ParseHeaders(cfg.OtelExporterOTLPHeaders)

	// Initialize telemetry
	if cfg.OtelExporterOTLPEndpoint != "" {
		shutdown, err := telemetry.InitTelemetry(ctx, cfg.ServiceName, cfg.ServiceVersion, cfg.Env, cfg.OtelExporterOTLPEndpoint, headers)
		if err != nil {
			slog.Warn("Failed to init telemetry", "error", err)
		} else {
			defer shutdown(context.Background())
		}
	}

	metricsHandler, shutdownMetrics, err := telemetry.InitMetrics(ctx, cfg.ServiceName, cfg.ServiceVersion, cfg.Env, cfg.OtelExporterOTLPEndpoint, headers)
	if err != nil {
		slog.Warn("Failed to init metrics", "error", err)
	} else {
		defer shutdownMetrics(context.Background())
	}

	// Initialize Sentry
	if err := sentry.Init(cfg.SentryDSN, cfg.Env, cfg.ServiceName, cfg.ServiceVersion); err != nil {
		slog.Warn("Failed to init Sentry", "error", err)
	}
	if cfg.SentryDSN != "" {
		defer sentry.Flush(2 * time.Second)
	}

	// Initialize business metrics
	if err := metrics.Init(); err != nil {
		slog.Warn("Failed to init business metrics", "error", err)
	}

	// Initialize logger with OTel support
	slog.SetDefault(logger.New(cfg.Env))

	svc, closeStore, err := chef.NewFromConfig(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to set up dish service: %v", err)
	}
	defer closeStore()

	router := api.NewRouter(api.NewServer(svc), api.RouterOptions{
		ServiceName: cfg.ServiceName,
		Cookie: session.CookieOptions{
			Name:   cfg.Session.CookieName,
			TTL:    cfg.Session.TTL,
			Secure: cfg.Session.SecureCookie,
		},
		AllowedOrigins: cfg.CORSAllowedOrigins,
		Metrics:        metricsHandler,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("Starting server",
			"port", cfg.Port,
			"provider", cfg.Completion.Provider,
			"fallback", cfg.Completion.FallbackEnabled,
			"redis", cfg.RedisURL != "")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("Shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		slog.Error("Server stopped with error", "error", err)
	}
}

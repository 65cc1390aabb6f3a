package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/dsnsgithub/activity-feed/internal/api"
	"github.com/dsnsgithub/activity-feed/internal/api/github"
	"github.com/dsnsgithub/activity-feed/internal/config"
	"github.com/dsnsgithub/activity-feed/internal/dashboard"
	"github.com/dsnsgithub/activity-feed/internal/logger"
	"github.com/dsnsgithub/activity-feed/internal/metrics"
	"github.com/dsnsgithub/activity-feed/internal/service"
	"github.com/dsnsgithub/activity-feed/internal/telemetry"
)

const (
	serviceVersion  = "1.0.0"
	shutdownTimeout = 10 * time.Second
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger.Setup(logger.Options{Production: cfg.IsProduction(), Debug: cfg.IsDebug()})

	if err := run(cfg); err != nil {
		slog.Error("activity feed stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tel, err := telemetry.Setup(ctx, telemetry.Config{
		Endpoint:       cfg.OTelEndpoint,
		ServiceName:    cfg.OTelServiceName,
		ServiceVersion: serviceVersion,
	})
	if err != nil {
		return fmt.Errorf("telemetry setup: %w", err)
	}

	app, err := buildServer(ctx, cfg, prometheus.NewRegistry())
	if err != nil {
		return err
	}
	defer app.Close()

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           app.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	slog.Info("starting activity feed",
		"addr", addr,
		"username", cfg.GitHubUsername,
		"authenticated", cfg.HasGitHubToken(),
		"activity_ttl", cfg.ActivityCacheTTL,
		"redis", cfg.HasRedis(),
		"tracing", cfg.OTelEndpoint != "",
	)
	if !cfg.HasGitHubToken() {
		slog.Warn("GITHUB_TOKEN not set, requests are subject to the anonymous rate limit")
	}

	serveErr := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	if app.warmer != nil {
		app.warmer.Start()
	}

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
		slog.Info("shutting down")
	}

	if app.warmer != nil {
		app.warmer.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
	}
	if err := tel.Shutdown(shutdownCtx); err != nil {
		slog.Error("telemetry shutdown failed", "error", err)
	}

	return nil
}

// server is everything buildServer wires together.
type server struct {
	handler http.Handler
	warmer  *service.CacheWarmer
	redis   *redis.Client
}

// Close releases connections held by the server.
func (s *server) Close() {
	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			slog.Warn("redis close failed", "error", err)
		}
	}
}

// buildServer is the composition root: it creates every dependency and
// returns the configured HTTP handler.
func buildServer(ctx context.Context, cfg *config.Config, reg *prometheus.Registry) (*server, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(reg)

	httpClient := &http.Client{
		Timeout:   cfg.HTTPTimeout,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}

	githubClient := github.NewClient(api.ClientConfig{
		BaseURL: cfg.GitHubURL,
		Token:   cfg.GitHubToken,
	}, httpClient, cfg.GitHubRatePerSecond, cfg.GitHubRateBurst, m)

	// Repository listings are cached per user; events bypass this layer.
	cachedClient := api.NewCachingClient(githubClient, cfg.ProjectsCacheTTL, m)

	srv := &server{}

	store, err := buildEnvelopeStore(ctx, cfg, srv)
	if err != nil {
		return nil, err
	}

	details := service.NewDetailFetcher(cachedClient, m)
	activityService := service.NewActivityService(service.ActivityConfig{
		Events:     cachedClient,
		Normalizer: service.NewNormalizer(details, loc),
		Store:      store,
		Username:   cfg.GitHubUsername,
		TTL:        cfg.ActivityCacheTTL,
		Metrics:    m,
	})
	projectService := service.NewProjectService(cachedClient, cfg.GitHubUsername, cfg.ProjectsLimit)

	if cfg.CacheWarmInterval > 0 {
		srv.warmer = service.NewCacheWarmer(activityService, cfg.CacheWarmInterval)
	}

	handler := dashboard.NewHandler(dashboard.HandlerConfig{
		Renderer:        dashboard.NewJSONRenderer(),
		ActivityService: activityService,
		ProjectService:  projectService,
		MetricsHandler:  promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}),
	})

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)

	srv.handler = otelhttp.NewHandler(
		dashboard.Chain(mux,
			dashboard.RequestID(),
			dashboard.RequestLogger(),
			dashboard.Recovery(),
		),
		"activity-feed",
	)

	return srv, nil
}

func buildEnvelopeStore(ctx context.Context, cfg *config.Config, srv *server) (service.EnvelopeStore, error) {
	if !cfg.HasRedis() {
		if cfg.ActivityCacheFile != "" {
			return service.NewFileEnvelopeStore(cfg.ActivityCacheFile), nil
		}
		return service.NewMemoryEnvelopeStore(), nil
	}

	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("parse REDIS_URL: %w", err)
	}
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	srv.redis = client
	return service.NewRedisEnvelopeStore(client, cfg.RedisKeyPrefix, cfg.GitHubUsername, cfg.ActivityCacheTTL), nil
}

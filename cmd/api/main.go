package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"staybook/internal/api"
	"staybook/internal/client"
	"staybook/internal/config"
	"staybook/internal/dashboard"
	"staybook/internal/domain"
	"staybook/internal/events"
	"staybook/internal/logging"
	"staybook/internal/metrics"
	"staybook/internal/repository"
	"staybook/internal/service"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	cfg, logger, closer, err := loadConfigAndLogger()
	if err != nil {
		return err
	}
	if closer != nil {
		defer (func() { _ = closer.Close() })()
	}

	if !cfg.API.Enabled {
		logger.Warn().Msg("API is disabled in config, but starting API application. Check your config.")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	redisClient := initRedis(ctx, cfg, logger)
	if redisClient != nil {
		defer func() { _ = repository.Close(redisClient) }()
	}

	hotel := client.NewHotelClient(cfg.Upstream)
	if redisClient != nil {
		hotel.UseRedisCache(redisClient, time.Duration(cfg.Upstream.CacheTTL)*time.Second)
	}

	eventBus := events.NewEventBus()
	subscribeEvents(eventBus, logging.Component(logger, "events"))

	services := api.Services{
		Dashboard: service.NewDashboardService(
			hotel, dashboard.NewAggregator(cfg.Location()), eventBus, logging.Component(logger, "dashboard"),
		),
		Availability: service.NewAvailabilityService(hotel, eventBus, logging.Component(logger, "availability")),
		Orders: service.NewOrderService(
			hotel, initCarts(cfg, redisClient, logger), eventBus,
			cfg.Ordering.Currency, cfg.Ordering.WhatsAppNumber, logging.Component(logger, "orders"),
		),
	}

	var ready api.ReadinessCheck
	if redisClient != nil {
		ready = func(ctx context.Context) error { return repository.Ping(ctx, redisClient) }
	}
	httpServer := api.NewHTTPServer(&cfg.API, services, ready, logging.Component(logger, "http"))

	startMetrics(ctx, cfg, logger)

	return startServer(ctx, httpServer, cfg, logger)
}

func loadConfigAndLogger() (*config.Config, *zerolog.Logger, io.Closer, error) {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load config: %w", err)
	}

	baseLogger, closer, err := logging.New(cfg.Logging, cfg.App)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("init logger: %w", err)
	}

	return cfg, logging.Component(baseLogger, "api-main"), closer, nil
}

func initRedis(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) *redis.Client {
	if cfg.Redis.Address == "" {
		return nil
	}

	redisClient := repository.NewRedisClient(cfg.Redis)
	if err := repository.Ping(ctx, redisClient); err != nil {
		logger.Warn().Err(err).Msg("redis connection failed, continuing without redis")
		_ = repository.Close(redisClient)
		return nil
	}

	logger.Info().Str("addr", cfg.Redis.Address).Msg("redis connected")
	return redisClient
}

// initCarts keeps carts in Redis with an in-memory fallback, or in memory
// only when Redis is not configured.
func initCarts(cfg *config.Config, redisClient *redis.Client, logger *zerolog.Logger) domain.CartRepository {
	ttl := time.Duration(cfg.Ordering.CartTTL) * time.Second
	memory := repository.NewMemoryCartRepository(ttl)
	if redisClient == nil {
		return memory
	}
	return repository.NewFailoverCartRepository(
		repository.NewRedisCartRepository(redisClient, ttl),
		memory,
		logging.Component(logger, "carts"),
	)
}

func subscribeEvents(bus *events.EventBus, logger *zerolog.Logger) {
	bus.Subscribe(events.EventReservationConflict, func(ev *events.Event) error {
		var payload events.ReservationConflictPayload
		if err := json.Unmarshal(ev.Payload, &payload); err != nil {
			logger.Error().Err(err).Str("event", ev.Type).Msg("event bus: decode payload")
			return nil
		}
		logger.Info().Str("check_in", payload.CheckIn).Str("check_out", payload.CheckOut).Msg("reservation conflict")
		return nil
	})

	bus.Subscribe(events.EventSummaryDegraded, func(ev *events.Event) error {
		var payload events.SummaryDegradedPayload
		if err := json.Unmarshal(ev.Payload, &payload); err != nil {
			logger.Error().Err(err).Str("event", ev.Type).Msg("event bus: decode payload")
			return nil
		}
		logger.Warn().
			Str("remote_error", payload.RemoteError).
			Strs("failed", payload.Failed).
			Bool("unavailable", payload.Unavailable).
			Msg("dashboard summary degraded")
		return nil
	})

	bus.Subscribe(events.EventOrderConfirmed, func(ev *events.Event) error {
		var payload events.OrderConfirmedPayload
		if err := json.Unmarshal(ev.Payload, &payload); err != nil {
			logger.Error().Err(err).Str("event", ev.Type).Msg("event bus: decode payload")
			return nil
		}
		logger.Info().
			Str("session_id", payload.SessionID).
			Int("items", payload.Items).
			Float64("total", payload.Total).
			Msg("food order confirmed")
		return nil
	})
}

func startMetrics(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) {
	if !cfg.Monitoring.PrometheusEnabled {
		return
	}

	metrics.Register()
	port := cfg.Monitoring.PrometheusPort
	if port == 0 {
		port = 9090
	}
	go startMetricsServer(ctx, port, logger)
}

func startServer(ctx context.Context, httpServer *api.HTTPServer, cfg *config.Config, logger *zerolog.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		if !cfg.API.HTTP.Enabled {
			return
		}
		errCh <- httpServer.Start()
	}()

	logger.Info().Int("http_port", cfg.API.HTTP.Port).Str("upstream", cfg.Upstream.BaseURL).Msg("API server started")

	var serveErr error
	select {
	case <-ctx.Done():
		logger.Info().Msg("shutdown signal received")
	case serveErr = <-errCh:
		if serveErr != nil {
			logger.Error().Err(serveErr).Msg("http server stopped")
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("http server shutdown")
	}

	logger.Info().Msg("API server stopped")
	return serveErr
}

func startMetricsServer(ctx context.Context, port int, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctxShutdown)
	}()
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error().Err(err).Msg("metrics server error")
	}
}

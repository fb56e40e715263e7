package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"roomdesk/internal/api"
	"roomdesk/internal/config"
	"roomdesk/internal/database"
	"roomdesk/internal/domain"
	"roomdesk/internal/events"
	"roomdesk/internal/export"
	"roomdesk/internal/logging"
	"roomdesk/internal/metrics"
	"roomdesk/internal/repository"
	"roomdesk/internal/service"
	"roomdesk/internal/worker"

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
	cfg, seed, logger, closer, err := loadConfigAndLogger()
	if err != nil {
		return err
	}
	if closer != nil {
		defer (func(c io.Closer) { _ = c.Close() })(closer)
	}

	if err := prepareDirectories(cfg, &logger); err != nil {
		return err
	}

	db, err := initDatabase(cfg, seed, &logger)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	redisClient, cache := initCache(ctx, cfg, &logger)
	defer func() { _ = repository.Close(redisClient) }()

	reporter := export.NewReporter(cfg.Exports.Path, &logger)
	retryPolicy := worker.RetryPolicy{MaxRetries: 5, InitialDelay: 2 * time.Second, MaxDelay: time.Minute, BackoffFactor: 2}
	exportWorker := worker.NewExportWorker(db, reporter, redisClient, retryPolicy, &logger)
	if cfg.Exports.Enabled {
		go exportWorker.Start(ctx)
		go schedulePeriodicExports(ctx, cfg, exportWorker, &logger)
	}

	eventBus := events.NewBus(&logger)

	// A disabled exports section must yield a nil interface, not a typed nil.
	var exportScheduler domain.SyncWorker
	if cfg.Exports.Enabled {
		exportScheduler = exportWorker
	}
	bookingService := service.NewBookingService(db, cache, eventBus, exportScheduler, &logger)
	hotelService := service.NewHotelService(db, cache, &logger)

	if cfg.Monitoring.PrometheusEnabled {
		metrics.Register()
		go startMetricsServer(cfg, &logger)
	}

	if !cfg.API.Enabled {
		logger.Error().Msg("api.enabled is false, nothing to serve")
		return os.ErrInvalid
	}

	apiServer := api.NewHTTPServer(cfg.API, bookingService, hotelService, cache, &logger)
	go func() {
		if err := apiServer.Start(); err != nil {
			logger.Error().Err(err).Msg("API server error")
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := apiServer.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("API server shutdown error")
	}

	logger.Info().Msg("Shutdown complete.")
	return nil
}

func loadConfigAndLogger() (*config.Config, *config.Seed, zerolog.Logger, io.Closer, error) {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, zerolog.Logger{}, nil, err
	}

	baseLogger, closer, err := logging.New(cfg.Logging, cfg.App)
	if err != nil {
		return nil, nil, zerolog.Logger{}, nil, err
	}
	logger := baseLogger.With().Str("component", "api-main").Logger()

	seedPath := os.Getenv("SEED_PATH")
	if seedPath == "" {
		seedPath = "configs/seed.yaml"
	}
	seed, err := config.LoadSeed(seedPath)
	if err != nil {
		logger.Error().Err(err).Msgf("failed to load %s", seedPath)
		return nil, nil, zerolog.Logger{}, closer, err
	}

	return cfg, seed, logger, closer, nil
}

func prepareDirectories(cfg *config.Config, logger *zerolog.Logger) error {
	if cfg == nil {
		return os.ErrInvalid
	}
	if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
		logger.Error().Err(err).Msg("failed to create database directory")
		return err
	}
	if err := os.MkdirAll(cfg.Exports.Path, 0o755); err != nil {
		logger.Error().Err(err).Msg("failed to create exports directory")
		return err
	}
	return nil
}

func initDatabase(cfg *config.Config, seed *config.Seed, logger *zerolog.Logger) (*database.DB, error) {
	db, err := database.NewDB(cfg.Database.Path, logger)
	if err != nil {
		logger.Error().Err(err).Msg("failed to initialize database")
		return nil, err
	}

	if err := db.ApplySeed(context.Background(), seed.TicketTypes, seed.Hotels); err != nil {
		logger.Error().Err(err).Msg("failed to apply reference data")
		db.Close()
		return nil, err
	}
	return db, nil
}

func initCache(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) (*redis.Client, *repository.FailoverCacheRepository) {
	var redisClient *redis.Client
	if cfg.Redis.Address != "" {
		redisClient = repository.NewRedisClient(cfg.Redis)
		if errPing := repository.Ping(ctx, redisClient); errPing != nil {
			logger.Warn().Err(errPing).Msg("Redis unavailable")
		}
	}

	ttl := time.Duration(cfg.Booking.RoomCacheTTLSec) * time.Second
	primary := repository.NewRedisCacheRepository(redisClient, ttl)
	fallback := repository.NewMemoryCacheRepository(ttl)
	return redisClient, repository.NewFailoverCacheRepository(primary, fallback, logger)
}

func startMetricsServer(cfg *config.Config, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	addr := fmt.Sprintf(":%d", cfg.Monitoring.PrometheusPort)
	logger.Info().Str("addr", addr).Msg("metrics listening")
	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.Error().Err(err).Msg("metrics server error")
	}
}

func schedulePeriodicExports(ctx context.Context, cfg *config.Config, w *worker.ExportWorker, logger *zerolog.Logger) {
	interval := time.Duration(cfg.Exports.IntervalMin) * time.Minute
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := w.EnqueueExport(ctx); err != nil {
				logger.Error().Err(err).Msg("periodic export enqueue failed")
			}
		}
	}
}

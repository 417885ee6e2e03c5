package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/rentamaq/api/internal/cache"
	"github.com/rentamaq/api/internal/config"
	"github.com/rentamaq/api/internal/database"
	"github.com/rentamaq/api/internal/handlers"
	"github.com/rentamaq/api/internal/jobs"
	"github.com/rentamaq/api/internal/log"
	"github.com/rentamaq/api/internal/server"
	"github.com/rentamaq/api/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := log.New(cfg.Environment)

	ctx := context.Background()

	dbPool, err := database.NewPostgresPool(ctx, cfg.Postgres)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect postgres")
	}

	redisClient, err := cache.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect redis")
	}

	store, err := newUploadStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to init upload store")
	}

	handlerSet := handlers.NewHandlerSet(logger, dbPool, redisClient, store, cfg)

	if err := handlerSet.AuthService().EnsureAdmin(ctx); err != nil {
		logger.Fatal().Err(err).Msg("admin bootstrap failed")
	}

	httpServer := server.NewHTTPServer(cfg, logger, handlerSet)

	scheduler := jobs.NewScheduler(handlerSet.AuthService(), handlerSet.ConfigService(), logger)
	if err := scheduler.Start(); err != nil {
		logger.Error().Err(err).Msg("scheduler start failed")
	}

	go func() {
		if err := httpServer.Start(); err != nil {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	waitForShutdown(logger, httpServer, scheduler, dbPool, redisClient)
}

func newUploadStore(ctx context.Context, cfg *config.AppConfig, logger zerolog.Logger) (storage.Store, error) {
	if cfg.Uploads.Backend == "s3" {
		objectStore, err := storage.NewObjectStore(cfg.Uploads.S3)
		if err != nil {
			return nil, err
		}
		if err := objectStore.EnsureBucket(ctx); err != nil {
			logger.Warn().Err(err).Msg("ensure bucket failed")
		}
		return objectStore, nil
	}
	return storage.NewLocalStore(cfg.Uploads.Dir, cfg.Uploads.BaseURL)
}

func waitForShutdown(logger zerolog.Logger, srv *server.HTTPServer, scheduler *jobs.Scheduler, db *pgxpool.Pool, redisClient *redis.Client) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()
	logger.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}

	scheduler.Stop()

	db.Close()
	if err := redisClient.Close(); err != nil {
		logger.Error().Err(err).Msg("redis close error")
	}

	logger.Info().Msg("server exited cleanly")
}

package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"ipsstrack/api/internal/cache"
	"ipsstrack/api/internal/config"
	"ipsstrack/api/internal/database"
	"ipsstrack/api/internal/handlers"
	"ipsstrack/api/internal/jobs"
	"ipsstrack/api/internal/log"
	"ipsstrack/api/internal/repository"
	"ipsstrack/api/internal/server"
	"ipsstrack/api/internal/storage"
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

	if err := database.RunMigrations(ctx, cfg.Postgres.DSN); err != nil {
		logger.Fatal().Err(err).Msg("failed to apply migrations")
	}

	redisClient, err := cache.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect redis")
	}

	var avatarStore *storage.AvatarStore
	if cfg.Storage.Endpoint != "" {
		avatarStore, err = storage.NewAvatarStore(cfg.Storage)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to init avatar store")
		}
		if err := avatarStore.EnsureBucket(ctx); err != nil {
			logger.Warn().Err(err).Msg("ensure avatar bucket failed")
		}
	}

	handlerSet := handlers.NewHandlerSet(logger, dbPool, redisClient, avatarStore, cfg)
	httpServer := server.NewHTTPServer(cfg, logger, handlerSet)

	scheduler := jobs.NewScheduler(repository.NewAuditRepository(dbPool), cfg.Audit.Retention, logger)
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

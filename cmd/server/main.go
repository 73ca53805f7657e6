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

	"multizone/internal/api"
	"multizone/internal/config"
	"multizone/internal/metrics"
	"multizone/internal/model"
	"multizone/internal/repository"
	"multizone/internal/service"
	"multizone/pkg/logger"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	// 1. Load Configuration
	cfg := config.Load()

	// Initialize logger
	logger.InitLogger(cfg.Server.Environment)
	defer logger.Sync()

	if err := run(cfg); err != nil {
		logger.Error("application startup failed", zap.Error(err))
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	// 2. Initialize Infrastructure
	db, err := initDB(cfg.Postgres)
	if err != nil {
		return err
	}

	rdb := initRedis(cfg.Redis)
	defer rdb.Close()

	// 3. Initialize Repositories
	userRepo := repository.NewUserRepository(db)
	flagRepo := repository.NewFlagRepository(db)

	// 4. Initialize Services
	observer := metrics.NewPrometheusObserver()
	userSvc := service.NewUserService(userRepo)
	flagSvc := service.NewFlagService(flagRepo, service.NewFlagCache(), observer)
	checker := service.NewZoneChecker(cfg.Zones, cfg.ZoneCheck.Timeout, observer)

	// 5. Setup HTTP Server
	r := api.RegisterRoutes(
		api.NewUserHandler(userSvc),
		api.NewFlagHandler(flagSvc),
		api.NewZoneHandler(checker),
		rdb,
		cfg.RateLimit.RequestsPerSecond,
	)

	srv := &http.Server{
		Addr:    cfg.Server.Port,
		Handler: r,
	}

	// 6. Start Server
	go func() {
		logger.Info("server starting",
			zap.String("addr", cfg.Server.Port),
			zap.String("env", cfg.Server.Environment))
		for _, zone := range cfg.Zones {
			logger.Info("monitoring zone", zap.String("name", zone.Name), zap.String("url", zone.URL))
		}
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server listen failed", zap.Error(err))
		}
	}()

	// 7. Graceful Shutdown Signal Wait
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	logger.Info("server exited properly")
	return nil
}

// -- Infrastructure Initializers --

func initDB(cfg config.PostgresConfig) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	// Idempotent schema upgrade: creates missing tables and columns, never
	// drops or renames existing ones.
	if err := db.AutoMigrate(&model.User{}, &model.FeatureFlag{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	logger.Info("database connected and migrated", zap.String("host", cfg.Host), zap.String("dbname", cfg.DBName))
	return db, nil
}

func initRedis(cfg config.RedisConfig) *redis.Client {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	// The write limiter fails open to its local bucket, so an unreachable
	// redis only costs distributed limiting, not availability.
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		logger.Warn("redis unreachable, rate limiting falls back to local buckets", zap.Error(err))
	}
	return rdb
}

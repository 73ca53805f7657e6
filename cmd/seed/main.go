// Seed is a standalone job that installs the sample users and feature flags.
// It is safe to run repeatedly: existing rows are skipped, never overwritten.
package main

import (
	"context"
	"fmt"
	"os"

	"multizone/internal/config"
	"multizone/internal/metrics"
	"multizone/internal/model"
	"multizone/internal/repository"
	"multizone/internal/service"
	"multizone/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	cfg := config.Load()

	logger.InitLogger(cfg.Server.Environment)
	defer logger.Sync()

	if err := run(cfg); err != nil {
		logger.Error("seeding failed", zap.Error(err))
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	logger.Info("connecting to database", zap.String("host", cfg.Postgres.Host))

	db, err := gorm.Open(postgres.Open(cfg.Postgres.DSN()), &gorm.Config{TranslateError: true})
	if err != nil {
		return fmt.Errorf("failed to connect to postgres: %w", err)
	}
	if err := db.AutoMigrate(&model.User{}, &model.FeatureFlag{}); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	ctx := context.Background()

	userSvc := service.NewUserService(repository.NewUserRepository(db))
	report := userSvc.Seed(ctx)
	logger.Info("user seeding complete",
		zap.Int("total", report.TotalUsers),
		zap.Int("created", report.Created),
		zap.Int("skipped", report.Skipped),
		zap.Strings("errors", report.Errors))

	flagSvc := service.NewFlagService(repository.NewFlagRepository(db), service.NewFlagCache(), metrics.Nop())
	created, skipped := flagSvc.SeedFlags(ctx)
	logger.Info("feature flag seeding complete",
		zap.Int("total", len(service.SampleFlags)),
		zap.Int("created", created),
		zap.Int("skipped", skipped))

	if report.ErrorCount > 0 && report.Created == 0 && report.Skipped == 0 {
		return fmt.Errorf("all %d user inserts failed", report.TotalUsers)
	}
	return nil
}
